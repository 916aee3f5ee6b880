package data

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMNIST(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, 12, 5)

	train, err := OpenMNIST(root, true, Transform{})
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 12 || !train.Train() {
		t.Errorf("Train: Len=%d Train=%v", train.Len(), train.Train())
	}

	test, err := OpenMNIST(root, false, Transform{})
	if err != nil {
		t.Fatal(err)
	}
	if test.Len() != 5 || test.Train() {
		t.Errorf("Test: Len=%d Train=%v", test.Len(), test.Train())
	}

	img, err := train.Image(3)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.GrayAt(4, 1).Y, fixturePixel(3, 28+4); got != want {
		t.Errorf("Pixel = %d, erwartet %d", got, want)
	}

	s, err := train.Get(7)
	if err != nil {
		t.Fatal(err)
	}
	if s.Label != 7 {
		t.Errorf("Label = %d, erwartet 7", s.Label)
	}
	if s.Shape != [3]int{1, 28, 28} {
		t.Errorf("Shape = %v", s.Shape)
	}
	if got, want := s.Image[10], float64(fixturePixel(7, 10))/255; got != want {
		t.Errorf("Wert = %v, erwartet %v", got, want)
	}

	if _, err := train.Get(12); err == nil {
		t.Error("Index ausserhalb muss fehlschlagen")
	}
}

func TestOpenMNISTPadded(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, 2, 2)

	ds, err := OpenMNIST(root, false, NewTransform(false))
	if err != nil {
		t.Fatal(err)
	}

	s, err := ds.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Shape != [3]int{1, 32, 32} {
		t.Fatalf("Shape = %v, erwartet [1 32 32]", s.Shape)
	}

	// erstes Originalpixel liegt nach dem Padding bei (2,2)
	if got, want := s.Image[2*32+2], float64(fixturePixel(1, 0))/255; got != want {
		t.Errorf("Pixel (2,2) = %v, erwartet %v", got, want)
	}
}

func TestOpenMNISTErrors(t *testing.T) {
	t.Run("fehlende Dateien", func(t *testing.T) {
		_, err := OpenMNIST(t.TempDir(), true, Transform{})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Fehler = %v, erwartet os.ErrNotExist", err)
		}
	})

	t.Run("falsche Magic", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root, 2, 2)

		// Label-Archiv als Bild-Archiv ablegen
		raw := RawDir(root)
		if err := os.WriteFile(filepath.Join(raw, trainImagesFile), idxLabels(t, 2), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := OpenMNIST(root, true, Transform{})
		if !errors.Is(err, ErrInvalidIDX) {
			t.Errorf("Fehler = %v, erwartet ErrInvalidIDX", err)
		}
	})

	t.Run("kein gzip", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root, 2, 2)

		raw := RawDir(root)
		if err := os.WriteFile(filepath.Join(raw, testLabelsFile), []byte("<html>"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := OpenMNIST(root, false, Transform{})
		if !errors.Is(err, ErrInvalidIDX) {
			t.Errorf("Fehler = %v, erwartet ErrInvalidIDX", err)
		}
	})

	t.Run("Anzahl unterschiedlich", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root, 3, 2)

		raw := RawDir(root)
		if err := os.WriteFile(filepath.Join(raw, trainLabelsFile), idxLabels(t, 2), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := OpenMNIST(root, true, Transform{})
		if !errors.Is(err, ErrInvalidIDX) {
			t.Errorf("Fehler = %v, erwartet ErrInvalidIDX", err)
		}
	})
}

// idxHeader erzeugt ein gzip-Archiv aus Header-Woertern und optionalen Nutzdaten
func idxHeader(t *testing.T, payload []byte, words ...uint32) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := binary.Write(zw, binary.BigEndian, words); err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpenMNISTCorruptHeader(t *testing.T) {
	tests := []struct {
		name string
		file string
		data func(t *testing.T) []byte
	}{
		{"Bilder uebergross", trainImagesFile, func(t *testing.T) []byte {
			return idxHeader(t, nil, idxMagicImages, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF)
		}},
		{"Bildseite null", trainImagesFile, func(t *testing.T) []byte {
			return idxHeader(t, nil, idxMagicImages, 2, 0, 28)
		}},
		{"Bilder abgeschnitten", trainImagesFile, func(t *testing.T) []byte {
			return idxHeader(t, make([]byte, 100), idxMagicImages, 2, 28, 28)
		}},
		{"Labels uebergross", trainLabelsFile, func(t *testing.T) []byte {
			return idxHeader(t, nil, idxMagicLabels, 0xFFFFFFFF)
		}},
		{"Labels abgeschnitten", trainLabelsFile, func(t *testing.T) []byte {
			return idxHeader(t, []byte{1}, idxMagicLabels, 2)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFixture(t, root, 2, 2)

			if err := os.WriteFile(filepath.Join(RawDir(root), tt.file), tt.data(t), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := OpenMNIST(root, true, Transform{})
			if !errors.Is(err, ErrInvalidIDX) {
				t.Errorf("Fehler = %v, erwartet ErrInvalidIDX", err)
			}
		})
	}
}
