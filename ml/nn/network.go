// Package nn - Encoder- und Decoder-Familien fuer Autoencoder.
//
// MODUL: network
// ZWECK: Architektur-Familien Shallow, Dense und Stacked als Layer-Stapel
// INPUT: Familie, Eingabeform (C, H, W), Latent-Breite
// OUTPUT: Encoder [N x C*H*W] -> [N x L], Decoder [N x L] -> [N x C*H*W]
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: linear.go, gonum.org/v1/gonum/mat
// HINWEISE: Nur die Latent-Breite ist Vertrag, die Hidden-Breiten sind intern
package nn

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknownKind wenn eine Architektur-Familie nicht existiert
	ErrUnknownKind = errors.New("nn: unknown network kind")

	// ErrInvalidDimension wenn Latent-Breite oder Eingabeform nicht positiv sind
	ErrInvalidDimension = errors.New("nn: invalid dimension")
)

// ============================================================================
// Kind - Architektur-Familien
// ============================================================================

// Kind ist eine Architektur-Familie
type Kind string

const (
	KindShallow Kind = "shallow"
	KindDense   Kind = "dense"
	KindStacked Kind = "stacked"
)

// hiddenWidths gibt die Hidden-Breiten des Encoders von aussen nach innen
// zurueck. Der Decoder verwendet sie gespiegelt.
func (k Kind) hiddenWidths() ([]int, error) {
	switch k {
	case KindShallow:
		return nil, nil
	case KindDense:
		return []int{512}, nil
	case KindStacked:
		return []int{512, 256, 128}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}

// ============================================================================
// Sequential - gemeinsamer Layer-Stapel
// ============================================================================

type sequential struct {
	layers []*Linear
}

func newSequential(widths []int, last Activation) *sequential {
	layers := make([]*Linear, 0, len(widths)-1)
	for i := 0; i+1 < len(widths); i++ {
		act := ActivationReLU
		if i+2 == len(widths) {
			act = last
		}
		layers = append(layers, NewLinear(widths[i], widths[i+1], act))
	}
	return &sequential{layers: layers}
}

// Forward wendet alle Layer nacheinander an
func (s *sequential) Forward(x *mat.Dense) (*mat.Dense, error) {
	var err error
	for i, l := range s.layers {
		if x, err = l.Forward(x); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return x, nil
}

// Layers gibt die Layer in Ausfuehrungsreihenfolge zurueck
func (s *sequential) Layers() []*Linear {
	return s.layers
}

// Widths gibt die Breiten entlang des Stapels zurueck, inklusive Ein- und Ausgabe
func (s *sequential) Widths() []int {
	widths := []int{s.layers[0].In()}
	for _, l := range s.layers {
		widths = append(widths, l.Out())
	}
	return widths
}

// ============================================================================
// Encoder / Decoder
// ============================================================================

// Encoder bildet flache Bilder auf Latent-Vektoren ab.
type Encoder struct {
	*sequential
	kind       Kind
	inputShape [3]int
	latentDim  int
}

// Decoder bildet Latent-Vektoren zurueck auf flache Bilder in [0,1] ab.
type Decoder struct {
	*sequential
	kind       Kind
	inputShape [3]int
	latentDim  int
}

// NewEncoder erstellt einen Encoder der Familie kind, der Eingaben der Form
// inputShape auf latentDim Werte abbildet.
func NewEncoder(kind Kind, inputShape [3]int, latentDim int) (*Encoder, error) {
	hidden, err := kind.hiddenWidths()
	if err != nil {
		return nil, err
	}
	if err := validateDims(inputShape, latentDim); err != nil {
		return nil, err
	}

	widths := append([]int{flatSize(inputShape)}, hidden...)
	widths = append(widths, latentDim)

	return &Encoder{
		sequential: newSequential(widths, ActivationNone),
		kind:       kind,
		inputShape: inputShape,
		latentDim:  latentDim,
	}, nil
}

// NewDecoder erstellt den zu NewEncoder spiegelbildlichen Decoder.
func NewDecoder(kind Kind, inputShape [3]int, latentDim int) (*Decoder, error) {
	hidden, err := kind.hiddenWidths()
	if err != nil {
		return nil, err
	}
	if err := validateDims(inputShape, latentDim); err != nil {
		return nil, err
	}

	hidden = slices.Clone(hidden)
	slices.Reverse(hidden)
	widths := append([]int{latentDim}, hidden...)
	widths = append(widths, flatSize(inputShape))

	return &Decoder{
		sequential: newSequential(widths, ActivationSigmoid),
		kind:       kind,
		inputShape: inputShape,
		latentDim:  latentDim,
	}, nil
}

// Kind gibt die Architektur-Familie zurueck
func (e *Encoder) Kind() Kind { return e.kind }

// LatentDim gibt die Ausgabebreite des Encoders zurueck
func (e *Encoder) LatentDim() int { return e.latentDim }

// InputShape gibt die erwartete Bildform (C, H, W) zurueck
func (e *Encoder) InputShape() [3]int { return e.inputShape }

// Kind gibt die Architektur-Familie zurueck
func (d *Decoder) Kind() Kind { return d.kind }

// LatentDim gibt die Eingabebreite des Decoders zurueck
func (d *Decoder) LatentDim() int { return d.latentDim }

// InputShape gibt die rekonstruierte Bildform (C, H, W) zurueck
func (d *Decoder) InputShape() [3]int { return d.inputShape }

func validateDims(inputShape [3]int, latentDim int) error {
	if latentDim <= 0 {
		return fmt.Errorf("%w: latent dim %d", ErrInvalidDimension, latentDim)
	}
	for _, d := range inputShape {
		if d <= 0 {
			return fmt.Errorf("%w: input shape %v", ErrInvalidDimension, inputShape)
		}
	}
	return nil
}

func flatSize(shape [3]int) int {
	return shape[0] * shape[1] * shape[2]
}
