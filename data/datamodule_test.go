package data

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mirrorServer liefert die Fixture-Archive aus und zaehlt die Anfragen
func mirrorServer(t *testing.T, nTrain, nTest int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	files := fixtureArchives(t, nTrain, nTest)
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		b, ok := files[strings.TrimPrefix(r.URL.Path, "/mnist/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(b)
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func smallModule(root string, noise bool, opts ...Option) *DataModule {
	dm := NewDataModule(root, noise, opts...)
	dm.trainSize, dm.valSize = 16, 4
	return dm
}

func TestNewDataModuleDefaults(t *testing.T) {
	dm := NewDataModule("/tmp/x", true)

	if dm.DataDir() != "/tmp/x" || !dm.ApplyNoise() {
		t.Errorf("DataDir=%q ApplyNoise=%v", dm.DataDir(), dm.ApplyNoise())
	}
	if dm.BatchSize() != 32 || dm.NumWorkers() != 2 {
		t.Errorf("BatchSize=%d NumWorkers=%d, erwartet 32/2", dm.BatchSize(), dm.NumWorkers())
	}
	if dm.Mirror() != DefaultMirror {
		t.Errorf("Mirror = %q", dm.Mirror())
	}
	if dm.Dims() != [3]int{1, 32, 32} {
		t.Errorf("Dims = %v", dm.Dims())
	}

	dm = NewDataModule("/tmp/x", false, WithBatchSize(8), WithNumWorkers(0), WithMirror(""))
	if dm.BatchSize() != 8 || dm.NumWorkers() != 2 || dm.Mirror() != DefaultMirror {
		t.Errorf("Optionen: BatchSize=%d NumWorkers=%d Mirror=%q", dm.BatchSize(), dm.NumWorkers(), dm.Mirror())
	}
}

func TestPrepareDownloadsOnce(t *testing.T) {
	srv, hits := mirrorServer(t, 20, 6)
	root := t.TempDir()

	dm := smallModule(root, false, WithMirror(srv.URL+"/mnist/"), WithHTTPClient(srv.Client()))

	for range 3 {
		if err := dm.Prepare(t.Context()); err != nil {
			t.Fatal(err)
		}
	}

	if got := hits.Load(); got != 4 {
		t.Errorf("%d Anfragen, erwartet 4", got)
	}

	entries, err := os.ReadDir(RawDir(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("%d Dateien in raw, erwartet 4 (keine Reste)", len(entries))
	}

	if err := dm.Setup(StageAll); err != nil {
		t.Fatal(err)
	}
}

func TestPrepareFailure(t *testing.T) {
	srv, _ := mirrorServer(t, 2, 2)
	root := t.TempDir()

	dm := NewDataModule(root, false, WithMirror(srv.URL+"/elsewhere/"), WithHTTPClient(srv.Client()))
	err := dm.Prepare(t.Context())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Fehler = %v, erwartet Status 404", err)
	}

	matches, _ := filepath.Glob(filepath.Join(RawDir(root), "*"))
	if len(matches) != 0 {
		t.Errorf("Reste nach Fehlschlag: %v", matches)
	}
}

func TestPrepareOffline(t *testing.T) {
	root := t.TempDir()

	dm := NewDataModule(root, false, WithOffline(true))
	if err := dm.Prepare(t.Context()); !errors.Is(err, ErrDatasetMissing) {
		t.Errorf("Fehler = %v, erwartet ErrDatasetMissing", err)
	}

	writeFixture(t, root, 2, 2)
	if err := dm.Prepare(t.Context()); err != nil {
		t.Errorf("Offline mit vorhandenen Archiven: %v", err)
	}
}

func TestLoadersBeforeSetup(t *testing.T) {
	dm := NewDataModule(t.TempDir(), false)

	if _, err := dm.TrainLoader(); !errors.Is(err, ErrNotSetup) {
		t.Errorf("TrainLoader: %v", err)
	}
	if _, err := dm.ValLoader(); !errors.Is(err, ErrNotSetup) {
		t.Errorf("ValLoader: %v", err)
	}
	if _, err := dm.TestLoader(); !errors.Is(err, ErrNotSetup) {
		t.Errorf("TestLoader: %v", err)
	}
}

func TestSetupStages(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, 20, 6)

	dm := smallModule(root, false)

	if err := dm.Setup(StageTest); err != nil {
		t.Fatal(err)
	}
	if _, err := dm.TrainLoader(); !errors.Is(err, ErrNotSetup) {
		t.Errorf("TrainLoader nach Setup(test): %v", err)
	}

	test, err := dm.TestLoader()
	if err != nil {
		t.Fatal(err)
	}
	if test.Dataset().Len() != 6 || test.Shuffle() {
		t.Errorf("Test: Len=%d Shuffle=%v", test.Dataset().Len(), test.Shuffle())
	}

	if err := dm.Setup(StageFit); err != nil {
		t.Fatal(err)
	}

	train, err := dm.TrainLoader()
	if err != nil {
		t.Fatal(err)
	}
	val, err := dm.ValLoader()
	if err != nil {
		t.Fatal(err)
	}

	if train.Dataset().Len() != 16 || !train.Shuffle() {
		t.Errorf("Train: Len=%d Shuffle=%v", train.Dataset().Len(), train.Shuffle())
	}
	if val.Dataset().Len() != 4 || val.Shuffle() {
		t.Errorf("Val: Len=%d Shuffle=%v", val.Dataset().Len(), val.Shuffle())
	}
	if train.BatchSize() != 32 || train.NumWorkers() != 2 {
		t.Errorf("Train: BatchSize=%d NumWorkers=%d", train.BatchSize(), train.NumWorkers())
	}

	for b, err := range train.Batches(t.Context()) {
		if err != nil {
			t.Fatal(err)
		}
		if b.Len() != 16 {
			t.Errorf("Batch = %d, erwartet 16", b.Len())
		}
		if shape := b.Images.Shape(); shape[1] != 1 || shape[2] != 32 || shape[3] != 32 {
			t.Errorf("Shape = %v, erwartet [16 1 32 32]", shape)
		}
	}
}

func TestSetupSplitMismatch(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, 10, 2)

	dm := smallModule(root, false)
	if err := dm.Setup(StageFit); !errors.Is(err, ErrSplitMismatch) {
		t.Errorf("Fehler = %v, erwartet ErrSplitMismatch", err)
	}
}

func TestSetupInvalidStage(t *testing.T) {
	dm := NewDataModule(t.TempDir(), false)
	if err := dm.Setup(Stage("predict")); !errors.Is(err, ErrInvalidStage) {
		t.Errorf("Fehler = %v, erwartet ErrInvalidStage", err)
	}
}

func TestNoiseOnlyOnFit(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, 20, 6)

	clean, err := OpenMNIST(root, true, NewTransform(false))
	if err != nil {
		t.Fatal(err)
	}
	cleanTest, err := OpenMNIST(root, false, NewTransform(false))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stage Stage
		noisy bool
	}{
		{"fit", StageFit, true},
		{"all", StageAll, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dm := smallModule(root, true)
			if err := dm.Setup(tt.stage); err != nil {
				t.Fatal(err)
			}

			s, err := dm.train.Get(0)
			if err != nil {
				t.Fatal(err)
			}
			ref, err := clean.Get(dm.train.Indices()[0])
			if err != nil {
				t.Fatal(err)
			}

			if differs := !cmp.Equal(s.Image, ref.Image); differs != tt.noisy {
				t.Errorf("Train-Sample verrauscht = %v, erwartet %v", differs, tt.noisy)
			}

			if dm.test == nil {
				return
			}
			got, err := dm.test.Get(2)
			if err != nil {
				t.Fatal(err)
			}
			want, err := cleanTest.Get(2)
			if err != nil {
				t.Fatal(err)
			}
			if !cmp.Equal(got.Image, want.Image) {
				t.Error("Test-Sample darf nicht verrauscht sein")
			}
		})
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		in   string
		want Stage
		err  bool
	}{
		{"fit", StageFit, false},
		{" TEST ", StageTest, false},
		{"", StageAll, false},
		{"all", StageAll, false},
		{"validate", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStage(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseStage(%q) Fehler = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStage(%q) = %q, erwartet %q", tt.in, got, tt.want)
		}
	}
}
