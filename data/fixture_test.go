package data

import (
	"testing"

	"github.com/7blacky7/aeforge/data/mnisttest"
)

var (
	fixturePixel    = mnisttest.Pixel
	idxLabels       = mnisttest.Labels
	fixtureArchives = mnisttest.Archives
)

func writeFixture(t *testing.T, root string, nTrain, nTest int) {
	t.Helper()
	mnisttest.Write(t, root, nTrain, nTest)
}

// rangeDataset liefert Samples mit Label == Index
type rangeDataset struct {
	n     int
	shape [3]int
}

func (d rangeDataset) Len() int { return d.n }

func (d rangeDataset) Get(i int) (Sample, error) {
	shape := d.shape
	if shape == [3]int{} {
		shape = [3]int{1, 2, 2}
	}

	img := make([]float64, shape[0]*shape[1]*shape[2])
	for j := range img {
		img[j] = float64(i)
	}
	return Sample{Image: img, Shape: shape, Label: i}, nil
}
