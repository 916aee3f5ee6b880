// Package bottleneck - Latent-Transformationen zwischen Encoder und Decoder.
//
// MODUL: bottleneck
// ZWECK: Identity, Variational, Sparse und VectorQuantized Bottlenecks
// INPUT: Encoder-Ausgabe als Batch-Matrix [N x W]
// OUTPUT: Decoder-Eingabe [N x L] plus Regularisierungs-Loss
// NEBENEFFEKTE: Variational zieht Zufallszahlen
// ABHAENGIGKEITEN: gonum.org/v1/gonum/mat, gonum.org/v1/gonum/floats
// HINWEISE: Hyperparameter sind nach der Konstruktion eingefroren
package bottleneck

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch wenn die Encoder-Ausgabe nicht zum Bottleneck passt
var ErrShapeMismatch = errors.New("bottleneck: shape mismatch")

// ErrInvalidParameter wenn ein Hyperparameter ausserhalb seines Bereichs liegt
var ErrInvalidParameter = errors.New("bottleneck: invalid parameter")

// Kind benennt die Art eines Bottlenecks
type Kind string

const (
	KindIdentity        Kind = "identity"
	KindVariational     Kind = "variational"
	KindSparse          Kind = "sparse"
	KindVectorQuantized Kind = "vector_quantized"
)

// Bottleneck transformiert die Encoder-Ausgabe in die Decoder-Eingabe.
type Bottleneck interface {
	Kind() Kind

	// Forward gibt die transformierte Latent-Matrix und den gewichteten
	// Regularisierungs-Loss des Batches zurueck.
	Forward(x *mat.Dense) (*mat.Dense, float64, error)
}

// Params fasst die Hyperparameter aller Bottleneck-Arten zusammen.
// Nicht verwendete Felder bleiben 0.
type Params struct {
	Beta          float64
	Sparsity      float64
	LatentDim     int
	NumCategories int
}

// New erstellt ein Bottleneck der Art kind mit den gegebenen Parametern.
func New(kind Kind, p Params) (Bottleneck, error) {
	switch kind {
	case KindIdentity:
		return Identity{}, nil
	case KindVariational:
		return NewVariational(p.Beta)
	case KindSparse:
		return NewSparse(p.Sparsity, p.Beta)
	case KindVectorQuantized:
		return NewVectorQuantized(p.LatentDim, p.NumCategories, p.Beta)
	default:
		return nil, fmt.Errorf("bottleneck: unknown kind %q", string(kind))
	}
}

// ============================================================================
// Identity
// ============================================================================

// Identity reicht die Encoder-Ausgabe unveraendert durch.
type Identity struct{}

func (Identity) Kind() Kind { return KindIdentity }

func (Identity) Forward(x *mat.Dense) (*mat.Dense, float64, error) {
	return x, 0, nil
}
