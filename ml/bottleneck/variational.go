package bottleneck

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Variational interpretiert die Encoder-Ausgabe als mu || log(sigma^2) und
// zieht z = mu + sigma * eps. Der KL-Term zur Standardnormalverteilung wird
// mit Beta gewichtet.
type Variational struct {
	beta float64
}

// NewVariational erstellt ein Variational-Bottleneck mit Gewicht beta.
func NewVariational(beta float64) (*Variational, error) {
	if beta < 0 {
		return nil, fmt.Errorf("%w: beta %v", ErrInvalidParameter, beta)
	}
	return &Variational{beta: beta}, nil
}

func (v *Variational) Kind() Kind { return KindVariational }

// Beta gibt das Gewicht des KL-Terms zurueck
func (v *Variational) Beta() float64 { return v.beta }

// Forward erwartet eine gerade Eingabebreite 2L und gibt [N x L] zurueck.
// Der Loss ist beta * KL, gemittelt ueber den Batch.
func (v *Variational) Forward(x *mat.Dense) (*mat.Dense, float64, error) {
	if x.IsEmpty() {
		return nil, 0, fmt.Errorf("%w: empty input", ErrShapeMismatch)
	}
	rows, cols := x.Dims()
	if cols%2 != 0 {
		return nil, 0, fmt.Errorf("%w: variational input width %d is odd", ErrShapeMismatch, cols)
	}
	latent := cols / 2

	z := mat.NewDense(rows, latent, nil)
	var kl float64
	for i := range rows {
		row := x.RawRowView(i)
		mu, logVar := row[:latent], row[latent:]
		out := z.RawRowView(i)
		for j := range latent {
			std := math.Exp(0.5 * logVar[j])
			out[j] = mu[j] + std*rand.NormFloat64()
			kl += -0.5 * (1 + logVar[j] - mu[j]*mu[j] - math.Exp(logVar[j]))
		}
	}

	kl /= float64(rows)
	return z, v.beta * kl, nil
}
