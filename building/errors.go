package building

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/7blacky7/aeforge/types/modeltype"
)

var (
	// ErrInvalidModelType fuer Modelltypen ohne Eintrag in der Variantentabelle
	ErrInvalidModelType = errors.New("invalid model type")

	ErrInvalidLatentDim  = errors.New("invalid latent dimension")
	ErrInvalidInputShape = errors.New("invalid input shape")
)

// BuildError beschreibt einen Fehler einer Factory.
// Err ist immer einer der Sentinel-Fehler dieses Pakets, ggf. gewrappt.
type BuildError struct {
	Op         string
	ModelType  modeltype.ModelType
	Suggestion modeltype.ModelType
	Err        error
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("building: %s %q: %v", e.Op, string(e.ModelType), e.Err)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", string(e.Suggestion))
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// maxSuggestDistance begrenzt Vorschlaege auf Tippfehler
const maxSuggestDistance = 3

// suggest gibt den naechstgelegenen bekannten Modelltyp zurueck oder ""
func suggest(modelType modeltype.ModelType) modeltype.ModelType {
	input := modeltype.Parse(string(modelType)).String()
	if input == "" {
		return ""
	}

	var (
		best     modeltype.ModelType
		bestDist = maxSuggestDistance + 1
	)
	for pair := variants.Oldest(); pair != nil; pair = pair.Next() {
		d := levenshtein.ComputeDistance(input, pair.Key.String())
		if d < bestDist {
			best, bestDist = pair.Key, d
		}
	}
	return best
}
