// Package mnisttest erzeugt kleine MNIST-Archive fuer Tests.
package mnisttest

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	Rows = 28
	Cols = 28

	magicLabels = 0x00000801
	magicImages = 0x00000803
)

// Pixel liefert den deterministischen Rohwert von Pixel p in Bild img
func Pixel(img, p int) byte {
	return byte((img*31 + p) % 256)
}

// Images gibt ein gzip-komprimiertes IDX-Bildarchiv mit n Bildern zurueck
func Images(t testing.TB, n int) []byte {
	t.Helper()

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, [4]uint32{magicImages, uint32(n), Rows, Cols})
	for i := range n {
		for p := range Rows * Cols {
			buf.WriteByte(Pixel(i, p))
		}
	}
	return gzipBytes(t, buf.Bytes())
}

// Labels gibt ein gzip-komprimiertes IDX-Labelarchiv mit Label i%10 zurueck
func Labels(t testing.TB, n int) []byte {
	t.Helper()

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, [2]uint32{magicLabels, uint32(n)})
	for i := range n {
		buf.WriteByte(byte(i % 10))
	}
	return gzipBytes(t, buf.Bytes())
}

func gzipBytes(t testing.TB, b []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Archives gibt die vier Archive nach Dateiname zurueck
func Archives(t testing.TB, nTrain, nTest int) map[string][]byte {
	t.Helper()

	return map[string][]byte{
		"train-images-idx3-ubyte.gz": Images(t, nTrain),
		"train-labels-idx1-ubyte.gz": Labels(t, nTrain),
		"t10k-images-idx3-ubyte.gz":  Images(t, nTest),
		"t10k-labels-idx1-ubyte.gz":  Labels(t, nTest),
	}
}

// Write legt die Archive unter root/MNIST/raw ab
func Write(t testing.TB, root string, nTrain, nTest int) {
	t.Helper()

	raw := filepath.Join(root, "MNIST", "raw")
	if err := os.MkdirAll(raw, 0o755); err != nil {
		t.Fatal(err)
	}

	for name, b := range Archives(t, nTrain, nTest) {
		if err := os.WriteFile(filepath.Join(raw, name), b, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}
