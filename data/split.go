package data

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// SplitSeed ist der feste Seed fuer die Train/Val-Aufteilung
const SplitSeed = 42

// ErrSplitMismatch wenn die Teilgroessen nicht die Datensatzgroesse ergeben
var ErrSplitMismatch = errors.New("data: split sizes do not match dataset length")

// Subset ist eine Sicht auf ausgewaehlte Indizes eines Datasets.
type Subset struct {
	ds      Dataset
	indices []int
}

func (s *Subset) Len() int { return len(s.indices) }

func (s *Subset) Get(i int) (Sample, error) {
	if i < 0 || i >= len(s.indices) {
		return Sample{}, fmt.Errorf("data: index %d out of range [0, %d)", i, len(s.indices))
	}
	return s.ds.Get(s.indices[i])
}

// Indices gibt die Indizes im zugrundeliegenden Dataset zurueck
func (s *Subset) Indices() []int {
	return s.indices
}

// RandomSplit teilt ds zufaellig, aber reproduzierbar fuer gleichen Seed,
// in disjunkte Teilmengen der angegebenen Groessen.
func RandomSplit(ds Dataset, sizes []int, seed uint64) ([]*Subset, error) {
	total := 0
	for _, n := range sizes {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative size %d", ErrSplitMismatch, n)
		}
		total += n
	}
	if total != ds.Len() {
		return nil, fmt.Errorf("%w: sizes sum to %d, dataset has %d", ErrSplitMismatch, total, ds.Len())
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(total)

	subsets := make([]*Subset, 0, len(sizes))
	offset := 0
	for _, n := range sizes {
		subsets = append(subsets, &Subset{ds: ds, indices: perm[offset : offset+n]})
		offset += n
	}
	return subsets, nil
}
