// MODUL: loader
// ZWECK: Batches aus einem Dataset mit paralleler Vorverarbeitung
// INPUT: Dataset, Batch-Groesse, Worker-Anzahl, Shuffle-Flag
// OUTPUT: iter.Seq2[*Batch, error] in fester Reihenfolge
// NEBENEFFEKTE: Startet Goroutinen fuer die Dauer einer Iteration
// ABHAENGIGKEITEN: golang.org/x/sync/errgroup, github.com/pdevine/tensor, gonum mat
// HINWEISE: Hoechstens numWorkers Batches werden im Voraus berechnet.
//           Abbruch der Iteration oder des Context beendet alle Worker.

package data

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"sync/atomic"

	"github.com/pdevine/tensor"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch wenn Samples eines Batches unterschiedliche Formen haben
var ErrShapeMismatch = errors.New("data: sample shape mismatch")

// Batch ist ein Stapel gleich geformter Samples
type Batch struct {
	// Images hat die Form [N, C, H, W]
	Images *tensor.Dense
	Labels []int
}

// Len gibt die Anzahl der Samples im Batch zurueck
func (b *Batch) Len() int {
	return len(b.Labels)
}

// Matrix gibt die Bilder als [N x C*H*W] Matrix zurueck.
// Die Matrix teilt sich den Speicher mit Images.
func (b *Batch) Matrix() *mat.Dense {
	n := b.Images.Shape()[0]
	data := b.Images.Data().([]float64)
	return mat.NewDense(n, len(data)/n, data)
}

// Loader liefert Batches eines Datasets.
type Loader struct {
	ds         Dataset
	batchSize  int
	numWorkers int
	shuffle    bool
	seed       uint64
	epoch      atomic.Uint64
}

// NewLoader erstellt einen Loader. Werte kleiner 1 fuer batchSize und
// numWorkers werden auf 1 gesetzt.
func NewLoader(ds Dataset, batchSize, numWorkers int, shuffle bool) *Loader {
	return &Loader{
		ds:         ds,
		batchSize:  max(batchSize, 1),
		numWorkers: max(numWorkers, 1),
		shuffle:    shuffle,
		seed:       SplitSeed,
	}
}

func (l *Loader) Dataset() Dataset { return l.ds }
func (l *Loader) BatchSize() int   { return l.batchSize }
func (l *Loader) NumWorkers() int  { return l.numWorkers }
func (l *Loader) Shuffle() bool    { return l.shuffle }

// Len gibt die Anzahl der Batches pro Durchlauf zurueck
func (l *Loader) Len() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// order gibt die Index-Reihenfolge des naechsten Durchlaufs zurueck.
// Mit Shuffle wird jede Epoche neu gemischt.
func (l *Loader) order() []int {
	n := l.ds.Len()
	if l.shuffle {
		epoch := l.epoch.Add(1)
		return rand.New(rand.NewPCG(l.seed, epoch)).Perm(n)
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

type batchResult struct {
	batch *Batch
	err   error
}

// Batches gibt einen Iterator ueber einen vollstaendigen Durchlauf zurueck.
// Nach dem ersten Fehler endet die Iteration.
func (l *Loader) Batches(ctx context.Context) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		order := l.order()

		workCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		// pending haelt die Ergebnis-Kanaele in Batch-Reihenfolge
		pending := make(chan chan batchResult, l.numWorkers)
		done := make(chan struct{})

		go func() {
			defer close(done)
			defer close(pending)

			var g errgroup.Group
			g.SetLimit(l.numWorkers)
			defer g.Wait()

			for start := 0; start < len(order); start += l.batchSize {
				indices := order[start:min(start+l.batchSize, len(order))]
				res := make(chan batchResult, 1)

				select {
				case pending <- res:
				case <-workCtx.Done():
					return
				}

				g.Go(func() error {
					b, err := l.collate(workCtx, indices)
					res <- batchResult{batch: b, err: err}
					return nil
				})
			}
		}()

		defer func() {
			cancel()
			for range pending {
			}
			<-done
		}()

		for res := range pending {
			r := <-res
			if !yield(r.batch, r.err) || r.err != nil {
				return
			}
		}

		if err := ctx.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func (l *Loader) collate(ctx context.Context, indices []int) (*Batch, error) {
	var (
		shape  [3]int
		pixels []float64
		labels = make([]int, 0, len(indices))
	)

	for i, idx := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := l.ds.Get(idx)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			shape = s.Shape
			pixels = make([]float64, 0, len(indices)*shape[0]*shape[1]*shape[2])
		} else if s.Shape != shape {
			return nil, fmt.Errorf("%w: sample %d has %v, batch has %v", ErrShapeMismatch, idx, s.Shape, shape)
		}

		pixels = append(pixels, s.Image...)
		labels = append(labels, s.Label)
	}

	images := tensor.New(
		tensor.WithShape(len(indices), shape[0], shape[1], shape[2]),
		tensor.WithBacking(pixels),
	)
	return &Batch{Images: images, Labels: labels}, nil
}
