package data

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddNoise(t *testing.T) {
	img := make([]float64, 3*32*32)
	for i := range img {
		img[i] = float64(i%11) / 10
	}
	orig := append([]float64(nil), img...)

	out := AddNoise{Ratio: NoiseRatio}.Apply(img)

	if len(out) != len(img) {
		t.Fatalf("Laenge = %d, erwartet %d", len(out), len(img))
	}
	for i, v := range out {
		if v < 0 || v > 1 {
			t.Fatalf("Wert %d = %v ausserhalb [0,1]", i, v)
		}
	}
	if diff := cmp.Diff(orig, img); diff != "" {
		t.Errorf("Eingabe wurde veraendert (-vorher +nachher):\n%s", diff)
	}
	if cmp.Equal(out, img) {
		t.Error("Ausgabe identisch mit Eingabe, Rauschen fehlt")
	}
}

func TestAddNoiseZeroRatio(t *testing.T) {
	img := []float64{0, 0.25, 0.5, 1}
	out := AddNoise{Ratio: 0}.Apply(img)
	if diff := cmp.Diff(img, out); diff != "" {
		t.Errorf("Ratio 0 muss identisch sein (-erwartet +erhalten):\n%s", diff)
	}
}

func TestAddNoiseClamps(t *testing.T) {
	ones := make([]float64, 1000)
	for i := range ones {
		ones[i] = 1
	}

	// bei Ratio 100 bleibt nur |eps| < 0.01 im offenen Intervall (~0.4%)
	out := AddNoise{Ratio: 100}.Apply(ones)

	clamped := 0
	for i, v := range out {
		if v < 0 || v > 1 {
			t.Fatalf("Wert %d = %v ausserhalb [0,1]", i, v)
		}
		if v == 0 || v == 1 {
			clamped++
		}
	}

	if clamped < 950 {
		t.Errorf("%d von 1000 Werten begrenzt, erwartet mindestens 950", clamped)
	}
}

func TestPad(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 28, 28))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	dst := Pad(src, 2)
	if got := dst.Bounds(); got != image.Rect(0, 0, 32, 32) {
		t.Fatalf("Bounds = %v, erwartet 32x32", got)
	}

	gray, ok := dst.(*image.Gray)
	if !ok {
		t.Fatalf("Typ = %T, erwartet *image.Gray", dst)
	}

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 0},
		{1, 1, 0},
		{2, 2, 255},
		{29, 29, 255},
		{30, 30, 0},
		{31, 15, 0},
	}
	for _, tt := range tests {
		if got := gray.GrayAt(tt.x, tt.y).Y; got != tt.want {
			t.Errorf("Pixel (%d,%d) = %d, erwartet %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestToTensor(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 0})
	gray.SetGray(1, 0, color.Gray{Y: 255})

	got, shape := ToTensor(gray)
	if shape != [3]int{1, 1, 2} {
		t.Errorf("Shape = %v", shape)
	}
	if diff := cmp.Diff([]float64{0, 1}, got); diff != "" {
		t.Errorf("Tensor (-erwartet +erhalten):\n%s", diff)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{R: 255, G: 0, B: 255, A: 255})

	got, shape = ToTensor(rgba)
	if shape != [3]int{3, 1, 1} {
		t.Errorf("Shape = %v", shape)
	}
	if diff := cmp.Diff([]float64{1, 0, 1}, got); diff != "" {
		t.Errorf("Tensor (-erwartet +erhalten):\n%s", diff)
	}
}

func TestTransform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 28, 28))

	clean := NewTransform(false)
	if clean.Noise != nil {
		t.Error("saubere Kette darf kein Rauschen haben")
	}

	got, shape := clean.Apply(src)
	if shape != [3]int{1, 32, 32} {
		t.Errorf("Shape = %v, erwartet [1 32 32]", shape)
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("Wert %d = %v, erwartet 0", i, v)
		}
	}

	noisy := NewTransform(true)
	if noisy.Noise == nil || noisy.Noise.Ratio != NoiseRatio {
		t.Fatalf("Rauschstufe = %+v, erwartet Ratio %v", noisy.Noise, NoiseRatio)
	}

	got, shape = noisy.Apply(src)
	if shape != [3]int{1, 32, 32} {
		t.Errorf("Shape = %v, erwartet [1 32 32]", shape)
	}

	var nonZero int
	for _, v := range got {
		if v > 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("verrauschtes Bild ist komplett schwarz")
	}
}
