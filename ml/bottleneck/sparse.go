package bottleneck

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sparse reicht die Latent-Werte durch und bestraft mittlere Aktivierungen,
// die vom Sparsity-Ziel rho abweichen:
//
//	loss = beta * sum_j KL(rho || mean_n sigmoid(z_nj))
type Sparse struct {
	sparsity float64
	beta     float64
}

// NewSparse erstellt ein Sparse-Bottleneck. sparsity muss in (0, 1) liegen.
func NewSparse(sparsity, beta float64) (*Sparse, error) {
	if sparsity <= 0 || sparsity >= 1 {
		return nil, fmt.Errorf("%w: sparsity %v", ErrInvalidParameter, sparsity)
	}
	if beta < 0 {
		return nil, fmt.Errorf("%w: beta %v", ErrInvalidParameter, beta)
	}
	return &Sparse{sparsity: sparsity, beta: beta}, nil
}

func (s *Sparse) Kind() Kind { return KindSparse }

// Sparsity gibt das Ziel der mittleren Aktivierung zurueck
func (s *Sparse) Sparsity() float64 { return s.sparsity }

// Beta gibt das Gewicht des Sparsity-Terms zurueck
func (s *Sparse) Beta() float64 { return s.beta }

func (s *Sparse) Forward(x *mat.Dense) (*mat.Dense, float64, error) {
	if x.IsEmpty() {
		return x, 0, nil
	}
	rows, cols := x.Dims()

	mean := make([]float64, cols)
	act := make([]float64, cols)
	for i := range rows {
		for j, v := range x.RawRowView(i) {
			act[j] = 1 / (1 + math.Exp(-v))
		}
		floats.Add(mean, act)
	}
	floats.Scale(1/float64(rows), mean)

	const eps = 1e-8
	rho := s.sparsity
	var kl float64
	for _, q := range mean {
		q = min(max(q, eps), 1-eps)
		kl += rho*math.Log(rho/q) + (1-rho)*math.Log((1-rho)/(1-q))
	}

	return x, s.beta * kl, nil
}
