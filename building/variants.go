// MODUL: variants
// ZWECK: Kanonische Tabelle Modelltyp -> (Netzwerk, Bottleneck, Hyperparameter, Rauschen)
// INPUT: modeltype.ModelType
// OUTPUT: Variant-Eintraege in Deklarationsreihenfolge
// NEBENEFFEKTE: Keine, die Tabelle ist nach init nur lesbar
// ABHAENGIGKEITEN: github.com/wk8/go-ordered-map/v2, ml/nn, ml/bottleneck
// HINWEISE: Einzige Quelle fuer alle Factories, Listen und die HTTP-API

package building

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/7blacky7/aeforge/ml/bottleneck"
	"github.com/7blacky7/aeforge/ml/nn"
	"github.com/7blacky7/aeforge/types/modeltype"
)

// Feste Parameter des vq-Bottlenecks, unabhaengig vom angefragten latentDim
const (
	VQLatentDim     = 32
	VQNumCategories = 512
)

// Variant beschreibt eine Autoencoder-Variante vollstaendig.
type Variant struct {
	ModelType  modeltype.ModelType
	Network    nn.Kind
	Bottleneck bottleneck.Kind
	Params     bottleneck.Params

	// Variational verdoppelt die Encoder-Ausgabe (mu || log sigma^2).
	// Abgeleitet aus modeltype.IsVariational, nie in der Tabelle gesetzt.
	Variational bool

	// Noise aktiviert AddNoise in der Fit-Pipeline
	Noise bool
}

var variants = newVariantTable()

func newVariantTable() *orderedmap.OrderedMap[modeltype.ModelType, Variant] {
	table := orderedmap.New[modeltype.ModelType, Variant]()

	add := func(v Variant) {
		v.Variational = v.ModelType.IsVariational()
		table.Set(v.ModelType, v)
	}

	add(Variant{ModelType: modeltype.Shallow, Network: nn.KindShallow, Bottleneck: bottleneck.KindIdentity})
	add(Variant{ModelType: modeltype.Vanilla, Network: nn.KindDense, Bottleneck: bottleneck.KindIdentity})
	add(Variant{ModelType: modeltype.Stacked, Network: nn.KindStacked, Bottleneck: bottleneck.KindIdentity})
	add(Variant{
		ModelType:  modeltype.Sparse,
		Network:    nn.KindStacked,
		Bottleneck: bottleneck.KindSparse,
		Params:     bottleneck.Params{Sparsity: 0.1, Beta: 1.0},
	})
	add(Variant{
		ModelType:  modeltype.VAE,
		Network:    nn.KindDense,
		Bottleneck: bottleneck.KindVariational,
		Params:     bottleneck.Params{Beta: 1.0},
	})
	add(Variant{
		ModelType:  modeltype.BetaVAEStrict,
		Network:    nn.KindDense,
		Bottleneck: bottleneck.KindVariational,
		Params:     bottleneck.Params{Beta: 2.0},
	})
	add(Variant{
		ModelType:  modeltype.BetaVAELoose,
		Network:    nn.KindDense,
		Bottleneck: bottleneck.KindVariational,
		Params:     bottleneck.Params{Beta: 0.5},
	})
	add(Variant{
		ModelType:  modeltype.VQ,
		Network:    nn.KindStacked,
		Bottleneck: bottleneck.KindVectorQuantized,
		Params: bottleneck.Params{
			LatentDim:     VQLatentDim,
			NumCategories: VQNumCategories,
			Beta:          1.0,
		},
	})
	add(Variant{
		ModelType:  modeltype.Denoising,
		Network:    nn.KindStacked,
		Bottleneck: bottleneck.KindIdentity,
		Noise:      true,
	})

	return table
}

// Variants gibt alle Varianten in Deklarationsreihenfolge zurueck
func Variants() []Variant {
	out := make([]Variant, 0, variants.Len())
	for pair := variants.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Lookup gibt die Variante zu modelType zurueck.
// Unbekannte Typen liefern einen *BuildError mit ErrInvalidModelType.
func Lookup(modelType modeltype.ModelType) (Variant, error) {
	return resolve("lookup", modelType)
}

func resolve(op string, modelType modeltype.ModelType) (Variant, error) {
	v, ok := variants.Get(modelType)
	if !ok {
		return Variant{}, &BuildError{
			Op:         op,
			ModelType:  modelType,
			Suggestion: suggest(modelType),
			Err:        ErrInvalidModelType,
		}
	}
	return v, nil
}
