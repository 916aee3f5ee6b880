// MODUL: mnist
// ZWECK: MNIST-Datensatz aus gzip-komprimierten IDX-Dateien
// INPUT: Wurzelverzeichnis, Train/Test-Auswahl, Transform
// OUTPUT: Dataset mit Len/Get
// NEBENEFFEKTE: Dateisystem-Lesezugriff beim Oeffnen
// ABHAENGIGKEITEN: compress/gzip, encoding/binary, transforms.go
// HINWEISE: Rohdaten liegen komplett im Speicher, Transform laeuft pro Zugriff

package data

import (
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
)

// ErrInvalidIDX wenn eine Datei kein gueltiges IDX-Format hat
var ErrInvalidIDX = errors.New("data: invalid IDX file")

const (
	idxMagicLabels = 0x00000801
	idxMagicImages = 0x00000803

	// Obergrenzen fuer Header-Felder
	maxIDXItems = 1 << 24
	maxIDXSide  = 4096
)

// Archivnamen wie auf dem Mirror
const (
	trainImagesFile = "train-images-idx3-ubyte.gz"
	trainLabelsFile = "train-labels-idx1-ubyte.gz"
	testImagesFile  = "t10k-images-idx3-ubyte.gz"
	testLabelsFile  = "t10k-labels-idx1-ubyte.gz"
)

var archives = []string{trainImagesFile, trainLabelsFile, testImagesFile, testLabelsFile}

// Sample ist ein transformiertes Datensatz-Element
type Sample struct {
	Image []float64
	Shape [3]int
	Label int
}

// Dataset ist eine endliche, indexierbare Menge von Samples.
type Dataset interface {
	Len() int
	Get(i int) (Sample, error)
}

// ============================================================================
// MNIST
// ============================================================================

// MNIST haelt die Rohdaten eines Splits (train oder test).
type MNIST struct {
	train      bool
	transform  Transform
	rows, cols int
	pixels     []byte
	labels     []byte
}

// RawDir gibt das Verzeichnis der Archive unterhalb von root zurueck
func RawDir(root string) string {
	return filepath.Join(root, "MNIST", "raw")
}

// OpenMNIST liest den Train- (train=true) oder Test-Split aus RawDir(root).
// Die Archive muessen bereits vorhanden sein, siehe DataModule.Prepare.
func OpenMNIST(root string, train bool, transform Transform) (*MNIST, error) {
	imagesFile, labelsFile := testImagesFile, testLabelsFile
	if train {
		imagesFile, labelsFile = trainImagesFile, trainLabelsFile
	}

	raw := RawDir(root)
	n, rows, cols, pixels, err := readImages(filepath.Join(raw, imagesFile))
	if err != nil {
		return nil, err
	}

	labels, err := readLabels(filepath.Join(raw, labelsFile))
	if err != nil {
		return nil, err
	}

	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d images but %d labels", ErrInvalidIDX, n, len(labels))
	}

	return &MNIST{
		train:     train,
		transform: transform,
		rows:      rows,
		cols:      cols,
		pixels:    pixels,
		labels:    labels,
	}, nil
}

// Len gibt die Anzahl der Bilder zurueck
func (m *MNIST) Len() int {
	return len(m.labels)
}

// Train meldet ob es sich um den Train-Split handelt
func (m *MNIST) Train() bool {
	return m.train
}

// Image gibt das i-te Rohbild ohne Transform zurueck
func (m *MNIST) Image(i int) (*image.Gray, error) {
	if i < 0 || i >= m.Len() {
		return nil, fmt.Errorf("data: index %d out of range [0, %d)", i, m.Len())
	}

	size := m.rows * m.cols
	return &image.Gray{
		Pix:    m.pixels[i*size : (i+1)*size],
		Stride: m.cols,
		Rect:   image.Rect(0, 0, m.cols, m.rows),
	}, nil
}

// Get gibt das i-te transformierte Sample zurueck
func (m *MNIST) Get(i int) (Sample, error) {
	img, err := m.Image(i)
	if err != nil {
		return Sample{}, err
	}

	tensor, shape := m.transform.Apply(img)
	return Sample{Image: tensor, Shape: shape, Label: int(m.labels[i])}, nil
}

// ============================================================================
// IDX-Parsing
// ============================================================================

func openGzip(path string) (io.ReadCloser, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidIDX, path, err)
	}

	return zr, func() error {
		zr.Close()
		return f.Close()
	}, nil
}

func readImages(path string) (n, rows, cols int, pixels []byte, err error) {
	r, closeFn, err := openGzip(path)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	defer closeFn()

	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return 0, 0, 0, nil, fmt.Errorf("%w: %s: %w", ErrInvalidIDX, path, err)
	}
	if header[0] != idxMagicImages {
		return 0, 0, 0, nil, fmt.Errorf("%w: %s: magic %#x", ErrInvalidIDX, path, header[0])
	}

	if header[1] > maxIDXItems || header[2] == 0 || header[2] > maxIDXSide || header[3] == 0 || header[3] > maxIDXSide {
		return 0, 0, 0, nil, fmt.Errorf("%w: %s: implausible header %dx%dx%d", ErrInvalidIDX, path, header[1], header[2], header[3])
	}

	n, rows, cols = int(header[1]), int(header[2]), int(header[3])
	pixels, err = readPayload(r, int64(n)*int64(rows)*int64(cols))
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("%w: %s: %w", ErrInvalidIDX, path, err)
	}

	return n, rows, cols, pixels, nil
}

func readLabels(path string) ([]byte, error) {
	r, closeFn, err := openGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidIDX, path, err)
	}
	if header[0] != idxMagicLabels {
		return nil, fmt.Errorf("%w: %s: magic %#x", ErrInvalidIDX, path, header[0])
	}

	if header[1] > maxIDXItems {
		return nil, fmt.Errorf("%w: %s: implausible item count %d", ErrInvalidIDX, path, header[1])
	}

	labels, err := readPayload(r, int64(header[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidIDX, path, err)
	}

	return labels, nil
}

// readPayload liest genau size Bytes. Der Puffer waechst mit den tatsaechlich
// gelesenen Daten, ein zu grosser Header allein reserviert keinen Speicher.
func readPayload(r io.Reader, size int64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) != size {
		return nil, fmt.Errorf("truncated payload: %d of %d bytes", len(buf), size)
	}
	return buf, nil
}
