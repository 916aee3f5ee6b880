// MODUL: datamodule
// ZWECK: MNIST Lebenszyklus Prepare -> Setup -> Loader
// INPUT: Datenverzeichnis, Rausch-Flag, Optionen
// OUTPUT: Train/Val/Test-Loader
// NEBENEFFEKTE: Download ins Datenverzeichnis (Prepare), Logging
// ABHAENGIGKEITEN: mnist.go, split.go, loader.go, download.go
// HINWEISE: Setup(fit) teilt den Train-Split fest mit Seed 42 in 55000/5000.
//           Rauschen betrifft nur die Fit-Stufe, der Test-Split bleibt sauber.

package data

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotSetup wenn ein Loader vor dem passenden Setup angefragt wird
	ErrNotSetup = errors.New("data: datamodule not set up")

	// ErrInvalidStage fuer unbekannte Stage-Namen
	ErrInvalidStage = errors.New("data: invalid stage")
)

// Stage waehlt die vorzubereitenden Splits
type Stage string

const (
	StageFit  Stage = "fit"
	StageTest Stage = "test"

	// StageAll bereitet Fit und Test vor
	StageAll Stage = ""
)

// ParseStage akzeptiert "fit", "test" und "" bzw. "all"
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit":
		return StageFit, nil
	case "test":
		return StageTest, nil
	case "", "all":
		return StageAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
}

// DataModule verwaltet die MNIST-Splits einer Autoencoder-Variante.
type DataModule struct {
	dataDir    string
	applyNoise bool

	batchSize  int
	numWorkers int
	mirror     string
	client     *http.Client
	timeout    time.Duration
	offline    bool

	trainSize, valSize int

	prepareMu sync.Mutex

	mu    sync.Mutex
	train *Subset
	val   *Subset
	test  *MNIST
}

// NewDataModule erstellt ein DataModule. Es wird weder geladen noch
// heruntergeladen, siehe Prepare und Setup.
func NewDataModule(dataDir string, applyNoise bool, opts ...Option) *DataModule {
	dm := &DataModule{
		dataDir:    dataDir,
		applyNoise: applyNoise,
		batchSize:  DefaultBatchSize,
		numWorkers: DefaultNumWorkers,
		mirror:     DefaultMirror,
		client:     http.DefaultClient,
		timeout:    5 * time.Minute,
		trainSize:  TrainSize,
		valSize:    ValSize,
	}

	for _, opt := range opts {
		opt(dm)
	}
	return dm
}

func (dm *DataModule) DataDir() string  { return dm.dataDir }
func (dm *DataModule) ApplyNoise() bool { return dm.applyNoise }
func (dm *DataModule) BatchSize() int   { return dm.batchSize }
func (dm *DataModule) NumWorkers() int  { return dm.numWorkers }
func (dm *DataModule) Mirror() string   { return dm.mirror }

// Dims gibt die Form (C, H, W) eines transformierten Samples zurueck
func (dm *DataModule) Dims() [3]int {
	return [3]int{1, 32, 32}
}

// Setup laedt die Splits der angegebenen Stufe.
// Wiederholte Aufrufe ersetzen die bisherigen Splits.
func (dm *DataModule) Setup(stage Stage) error {
	switch stage {
	case StageFit, StageTest, StageAll:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStage, string(stage))
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if stage == StageFit || stage == StageAll {
		// Rauschen nur bei explizitem fit, StageAll liefert saubere Splits
		noise := dm.applyNoise && stage == StageFit
		full, err := OpenMNIST(dm.dataDir, true, NewTransform(noise))
		if err != nil {
			return err
		}

		splits, err := RandomSplit(full, []int{dm.trainSize, dm.valSize}, SplitSeed)
		if err != nil {
			return err
		}

		dm.train, dm.val = splits[0], splits[1]
		slog.Info("setup", "stage", "fit", "train", dm.train.Len(), "val", dm.val.Len(), "noise", noise)
	}

	if stage == StageTest || stage == StageAll {
		test, err := OpenMNIST(dm.dataDir, false, NewTransform(false))
		if err != nil {
			return err
		}

		dm.test = test
		slog.Info("setup", "stage", "test", "test", dm.test.Len())
	}

	return nil
}

// TrainLoader liefert den gemischten Train-Loader
func (dm *DataModule) TrainLoader() (*Loader, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.train == nil {
		return nil, fmt.Errorf("%w: stage fit", ErrNotSetup)
	}
	return NewLoader(dm.train, dm.batchSize, dm.numWorkers, true), nil
}

// ValLoader liefert den Validierungs-Loader in fester Reihenfolge
func (dm *DataModule) ValLoader() (*Loader, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.val == nil {
		return nil, fmt.Errorf("%w: stage fit", ErrNotSetup)
	}
	return NewLoader(dm.val, dm.batchSize, dm.numWorkers, false), nil
}

// TestLoader liefert den Test-Loader in fester Reihenfolge
func (dm *DataModule) TestLoader() (*Loader, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.test == nil {
		return nil, fmt.Errorf("%w: stage test", ErrNotSetup)
	}
	return NewLoader(dm.test, dm.batchSize, dm.numWorkers, false), nil
}
