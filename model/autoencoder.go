// Package model verbindet Encoder, Bottleneck und Decoder zu einem Autoencoder.
//
// MODUL: autoencoder
// ZWECK: Vorwaertsdurchlauf und Auswertung eines gebauten Autoencoders
// INPUT: building.NetworkPair, bottleneck.Bottleneck, Batches aus data.Loader
// OUTPUT: Rekonstruktion, Latent-Werte, Verluste, Report
// NEBENEFFEKTE: Keine (Gewichte werden nicht veraendert)
// ABHAENGIGKEITEN: gonum.org/v1/gonum/mat, gonum.org/v1/gonum/stat
// HINWEISE: Kein Training, nur Inferenz und Verlustberechnung
package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/7blacky7/aeforge/building"
	"github.com/7blacky7/aeforge/data"
	"github.com/7blacky7/aeforge/ml/bottleneck"
	"github.com/7blacky7/aeforge/ml/nn"
)

// ErrEmptyLoader wenn Evaluate keinen einzigen Batch erhaelt
var ErrEmptyLoader = errors.New("model: loader yielded no batches")

// Autoencoder ist encoder -> bottleneck -> decoder
type Autoencoder struct {
	encoder    *nn.Encoder
	decoder    *nn.Decoder
	bottleneck bottleneck.Bottleneck
}

// Output ist das Ergebnis eines Vorwaertsdurchlaufs
type Output struct {
	Reconstruction *mat.Dense
	Latent         *mat.Dense

	// RegLoss ist der Regularisierungsterm des Bottlenecks
	RegLoss float64

	// ReconLoss ist der mittlere quadratische Rekonstruktionsfehler
	ReconLoss float64
}

// Loss gibt ReconLoss + RegLoss zurueck
func (o Output) Loss() float64 {
	return o.ReconLoss + o.RegLoss
}

// New erstellt einen Autoencoder aus gebauten Komponenten
func New(pair building.NetworkPair, neck bottleneck.Bottleneck) *Autoencoder {
	return &Autoencoder{
		encoder:    pair.Encoder,
		decoder:    pair.Decoder,
		bottleneck: neck,
	}
}

// FromArtifacts erstellt einen Autoencoder aus einem Build-Ergebnis
func FromArtifacts(a *building.Artifacts) *Autoencoder {
	return New(a.Networks, a.Bottleneck)
}

// Forward berechnet die Rekonstruktion fuer x mit einer Zeile pro Sample.
func (ae *Autoencoder) Forward(x *mat.Dense) (Output, error) {
	h, err := ae.encoder.Forward(x)
	if err != nil {
		return Output{}, fmt.Errorf("encoder: %w", err)
	}

	z, reg, err := ae.bottleneck.Forward(h)
	if err != nil {
		return Output{}, fmt.Errorf("bottleneck: %w", err)
	}

	recon, err := ae.decoder.Forward(z)
	if err != nil {
		return Output{}, fmt.Errorf("decoder: %w", err)
	}

	var diff mat.Dense
	diff.Sub(recon, x)
	r, c := diff.Dims()
	sq := mat.Norm(&diff, 2)

	return Output{
		Reconstruction: recon,
		Latent:         z,
		RegLoss:        reg,
		ReconLoss:      sq * sq / float64(r*c),
	}, nil
}

// ============================================================================
// Auswertung
// ============================================================================

// Report fasst die Verluste ueber mehrere Batches zusammen
type Report struct {
	Batches   int
	Samples   int
	ReconLoss float64
	RegLoss   float64
}

// Loss gibt ReconLoss + RegLoss zurueck
func (r Report) Loss() float64 {
	return r.ReconLoss + r.RegLoss
}

// Evaluate mittelt die Verluste ueber hoechstens maxBatches Batches des
// Loaders. maxBatches <= 0 wertet den ganzen Durchlauf aus.
func Evaluate(ctx context.Context, ae *Autoencoder, loader *data.Loader, maxBatches int) (Report, error) {
	var (
		recon, reg []float64
		weights    []float64
		samples    int
	)

	for b, err := range loader.Batches(ctx) {
		if err != nil {
			return Report{}, err
		}

		out, err := ae.Forward(b.Matrix())
		if err != nil {
			return Report{}, err
		}

		recon = append(recon, out.ReconLoss)
		reg = append(reg, out.RegLoss)
		weights = append(weights, float64(b.Len()))
		samples += b.Len()

		slog.Debug("evaluate", "batch", len(recon), "recon", out.ReconLoss, "reg", out.RegLoss)

		if maxBatches > 0 && len(recon) >= maxBatches {
			break
		}
	}

	if len(recon) == 0 {
		return Report{}, ErrEmptyLoader
	}

	return Report{
		Batches:   len(recon),
		Samples:   samples,
		ReconLoss: stat.Mean(recon, weights),
		RegLoss:   stat.Mean(reg, weights),
	}, nil
}
