package bottleneck

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// VectorQuantized ersetzt jeden Latent-Vektor durch den naechsten Eintrag
// eines gelernten Codebooks mit NumCategories Vektoren der Breite LatentDim.
type VectorQuantized struct {
	latentDim     int
	numCategories int
	beta          float64

	codebook *mat.Dense // [NumCategories x LatentDim]
}

// NewVectorQuantized erstellt ein Codebook mit gleichverteilten Werten in
// [-1/numCategories, 1/numCategories].
func NewVectorQuantized(latentDim, numCategories int, beta float64) (*VectorQuantized, error) {
	if latentDim <= 0 || numCategories <= 0 {
		return nil, fmt.Errorf("%w: latent dim %d, categories %d", ErrInvalidParameter, latentDim, numCategories)
	}
	if beta < 0 {
		return nil, fmt.Errorf("%w: beta %v", ErrInvalidParameter, beta)
	}

	bound := 1 / float64(numCategories)
	data := make([]float64, numCategories*latentDim)
	for i := range data {
		data[i] = (2*rand.Float64() - 1) * bound
	}

	return &VectorQuantized{
		latentDim:     latentDim,
		numCategories: numCategories,
		beta:          beta,
		codebook:      mat.NewDense(numCategories, latentDim, data),
	}, nil
}

func (q *VectorQuantized) Kind() Kind { return KindVectorQuantized }

// LatentDim gibt die Breite der Codebook-Vektoren zurueck
func (q *VectorQuantized) LatentDim() int { return q.latentDim }

// NumCategories gibt die Anzahl der Codebook-Eintraege zurueck
func (q *VectorQuantized) NumCategories() int { return q.numCategories }

// Beta gibt das Gewicht des Commitment-Terms zurueck
func (q *VectorQuantized) Beta() float64 { return q.beta }

// Codebook gibt das Codebook zurueck. Die Matrix darf nicht veraendert werden.
func (q *VectorQuantized) Codebook() mat.Matrix { return q.codebook }

// Forward quantisiert jede Zeile. Der Loss ist (1 + beta) * MSE(z, e):
// Codebook- und Commitment-Term haben im Vorwaertsdurchlauf denselben Wert.
func (q *VectorQuantized) Forward(x *mat.Dense) (*mat.Dense, float64, error) {
	if x.IsEmpty() {
		return nil, 0, fmt.Errorf("%w: empty input", ErrShapeMismatch)
	}
	rows, cols := x.Dims()
	if cols != q.latentDim {
		return nil, 0, fmt.Errorf("%w: input width %d, codebook width %d", ErrShapeMismatch, cols, q.latentDim)
	}

	out := mat.NewDense(rows, cols, nil)
	var sq float64
	for i := range rows {
		row := x.RawRowView(i)
		idx := q.nearest(row)
		code := q.codebook.RawRowView(idx)
		copy(out.RawRowView(i), code)

		d := floats.Distance(row, code, 2)
		sq += d * d
	}

	mse := sq / float64(rows*cols)
	return out, (1 + q.beta) * mse, nil
}

// Indices gibt fuer jede Zeile den Index des naechsten Codebook-Eintrags zurueck
func (q *VectorQuantized) Indices(x *mat.Dense) ([]int, error) {
	rows, cols := x.Dims()
	if cols != q.latentDim {
		return nil, fmt.Errorf("%w: input width %d, codebook width %d", ErrShapeMismatch, cols, q.latentDim)
	}

	idx := make([]int, rows)
	for i := range rows {
		idx[i] = q.nearest(x.RawRowView(i))
	}
	return idx, nil
}

func (q *VectorQuantized) nearest(v []float64) int {
	best, bestDist := 0, -1.0
	for k := range q.numCategories {
		d := floats.Distance(v, q.codebook.RawRowView(k), 2)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
