// MODUL: linear
// ZWECK: Vollverbundener Layer auf gonum-Matrizen
// INPUT: Batch-Matrix [N x In]
// OUTPUT: Batch-Matrix [N x Out]
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: gonum.org/v1/gonum/mat, gonum.org/v1/gonum/floats
// HINWEISE: Gewichte werden He-normal initialisiert, Biases mit 0

package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch wenn die Eingabebreite nicht zum Layer passt
var ErrShapeMismatch = errors.New("nn: shape mismatch")

// Linear berechnet act(x·W + b) zeilenweise.
type Linear struct {
	Weight     *mat.Dense // [In x Out]
	Bias       []float64  // [Out]
	Activation Activation
}

// NewLinear erstellt einen Layer mit He-normal initialisierten Gewichten.
func NewLinear(in, out int, act Activation) *Linear {
	std := math.Sqrt(2 / float64(in))

	weights := make([]float64, in*out)
	for i := range weights {
		weights[i] = rand.NormFloat64() * std
	}

	return &Linear{
		Weight:     mat.NewDense(in, out, weights),
		Bias:       make([]float64, out),
		Activation: act,
	}
}

// In gibt die Eingabebreite zurueck
func (l *Linear) In() int {
	r, _ := l.Weight.Dims()
	return r
}

// Out gibt die Ausgabebreite zurueck
func (l *Linear) Out() int {
	_, c := l.Weight.Dims()
	return c
}

// Forward wendet den Layer auf eine Batch-Matrix an.
func (l *Linear) Forward(x *mat.Dense) (*mat.Dense, error) {
	if x.IsEmpty() {
		return nil, fmt.Errorf("%w: empty input", ErrShapeMismatch)
	}
	rows, cols := x.Dims()
	if cols != l.In() {
		return nil, fmt.Errorf("%w: input width %d, layer expects %d", ErrShapeMismatch, cols, l.In())
	}

	out := mat.NewDense(rows, l.Out(), nil)
	out.Mul(x, l.Weight)
	for i := range rows {
		row := out.RawRowView(i)
		floats.Add(row, l.Bias)
		for j, v := range row {
			row[j] = l.Activation.apply(v)
		}
	}

	return out, nil
}
