// MODUL: build
// ZWECK: Factories fuer Netzwerke, Bottleneck und Datenpipeline plus Dispatcher
// INPUT: Modelltyp, latentDim, InputShape, Optionen der Datenpipeline
// OUTPUT: NetworkPair, Bottleneck, DataModule bzw. Artifacts
// NEBENEFFEKTE: Logging, sonst keine (kein Download, kein Dateizugriff)
// ABHAENGIGKEITEN: variants.go, ml/nn, ml/bottleneck, data, github.com/google/uuid
// HINWEISE: Jede Factory prueft den Modelltyp selbst. Build liefert bei
//           jedem Fehler nil, nie ein teilweise gebautes Ergebnis.

package building

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/7blacky7/aeforge/data"
	"github.com/7blacky7/aeforge/ml/bottleneck"
	"github.com/7blacky7/aeforge/ml/nn"
	"github.com/7blacky7/aeforge/types/modeltype"
)

// ============================================================================
// InputShape
// ============================================================================

// InputShape ist die Form eines Eingabebildes (Kanaele, Hoehe, Breite)
type InputShape [3]int

// MNISTShape ist die Form nach dem Padding der Datenpipeline
var MNISTShape = InputShape{1, 32, 32}

func (s InputShape) Channels() int { return s[0] }
func (s InputShape) Height() int   { return s[1] }
func (s InputShape) Width() int    { return s[2] }

func (s InputShape) String() string {
	return fmt.Sprintf("%d,%d,%d", s[0], s[1], s[2])
}

// Validate prueft, dass alle Dimensionen positiv sind
func (s InputShape) Validate() error {
	for _, d := range s {
		if d <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidInputShape, [3]int(s))
		}
	}
	return nil
}

// ParseInputShape liest eine Form im Format "C,H,W"
func ParseInputShape(s string) (InputShape, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return InputShape{}, fmt.Errorf("%w: %q", ErrInvalidInputShape, s)
	}

	var shape InputShape
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return InputShape{}, fmt.Errorf("%w: %q", ErrInvalidInputShape, s)
		}
		shape[i] = n
	}

	if err := shape.Validate(); err != nil {
		return InputShape{}, err
	}
	return shape, nil
}

// ============================================================================
// Artefakte
// ============================================================================

// NetworkPair ist ein zusammengehoeriges Encoder/Decoder-Paar
type NetworkPair struct {
	Encoder *nn.Encoder
	Decoder *nn.Decoder
}

// Artifacts ist das Ergebnis eines Builds
type Artifacts struct {
	ID         uuid.UUID
	Variant    Variant
	LatentDim  int
	InputShape InputShape

	Networks   NetworkPair
	Bottleneck bottleneck.Bottleneck
	DataModule *data.DataModule
}

// ModelType gibt den Modelltyp des Builds zurueck
func (a *Artifacts) ModelType() modeltype.ModelType {
	return a.Variant.ModelType
}

// ============================================================================
// Dispatcher
// ============================================================================

// Build loest modelType auf und baut Netzwerke, Bottleneck und DataModule.
func Build(modelType modeltype.ModelType, latentDim int, inputShape InputShape, opts ...Option) (*Artifacts, error) {
	const op = "build"

	v, err := resolve(op, modelType)
	if err != nil {
		return nil, err
	}

	if err := validate(op, modelType, latentDim, inputShape); err != nil {
		return nil, err
	}

	networks, err := BuildNetworks(modelType, inputShape, latentDim)
	if err != nil {
		return nil, err
	}

	neck, err := BuildBottleneck(modelType, latentDim)
	if err != nil {
		return nil, err
	}

	dm, err := BuildDataModule(modelType, opts...)
	if err != nil {
		return nil, err
	}

	a := &Artifacts{
		ID:         uuid.New(),
		Variant:    v,
		LatentDim:  latentDim,
		InputShape: inputShape,
		Networks:   networks,
		Bottleneck: neck,
		DataModule: dm,
	}

	slog.Info("build",
		"id", a.ID,
		"model_type", v.ModelType,
		"network", v.Network,
		"bottleneck", v.Bottleneck,
		"latent_dim", latentDim,
		"input_shape", inputShape.String(),
		"noise", v.Noise)

	return a, nil
}

// ============================================================================
// Factories
// ============================================================================

// BuildNetworks baut Encoder und Decoder fuer modelType.
// Variationale Varianten erhalten einen Encoder mit 2*latentDim Ausgaben.
func BuildNetworks(modelType modeltype.ModelType, inputShape InputShape, latentDim int) (NetworkPair, error) {
	const op = "build_networks"

	v, err := resolve(op, modelType)
	if err != nil {
		return NetworkPair{}, err
	}

	if err := validate(op, modelType, latentDim, inputShape); err != nil {
		return NetworkPair{}, err
	}

	encoderDim := latentDim
	if v.Variational {
		encoderDim = 2 * latentDim
	}

	enc, err := nn.NewEncoder(v.Network, [3]int(inputShape), encoderDim)
	if err != nil {
		return NetworkPair{}, err
	}

	dec, err := nn.NewDecoder(v.Network, [3]int(inputShape), latentDim)
	if err != nil {
		return NetworkPair{}, err
	}

	slog.Debug("networks", "model_type", modelType, "encoder", enc.Widths(), "decoder", dec.Widths())
	return NetworkPair{Encoder: enc, Decoder: dec}, nil
}

// BuildBottleneck baut den Bottleneck fuer modelType.
// Die Hyperparameter stammen ausschliesslich aus der Variantentabelle,
// latentDim bestimmt weder Beta noch die vq-Codebook-Breite.
func BuildBottleneck(modelType modeltype.ModelType, latentDim int) (bottleneck.Bottleneck, error) {
	const op = "build_bottleneck"

	v, err := resolve(op, modelType)
	if err != nil {
		return nil, err
	}

	if latentDim <= 0 {
		return nil, &BuildError{Op: op, ModelType: modelType, Err: fmt.Errorf("%w: %d", ErrInvalidLatentDim, latentDim)}
	}

	neck, err := bottleneck.New(v.Bottleneck, v.Params)
	if err != nil {
		return nil, err
	}

	slog.Debug("bottleneck", "model_type", modelType, "kind", neck.Kind(), "params", fmt.Sprintf("%+v", v.Params))
	return neck, nil
}

// BuildDataModule baut das DataModule fuer modelType. Rauschen ist genau
// dann aktiv, wenn die Variante es verlangt. Es wird nichts geladen.
func BuildDataModule(modelType modeltype.ModelType, opts ...Option) (*data.DataModule, error) {
	v, err := resolve("build_datamodule", modelType)
	if err != nil {
		return nil, err
	}

	c := newConfig(opts)
	return data.NewDataModule(c.dataDir, v.Noise, c.dataOptions()...), nil
}

func validate(op string, modelType modeltype.ModelType, latentDim int, inputShape InputShape) error {
	if latentDim <= 0 {
		return &BuildError{Op: op, ModelType: modelType, Err: fmt.Errorf("%w: %d", ErrInvalidLatentDim, latentDim)}
	}

	if err := inputShape.Validate(); err != nil {
		return &BuildError{Op: op, ModelType: modelType, Err: err}
	}
	return nil
}
