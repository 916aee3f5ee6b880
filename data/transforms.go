// MODUL: transforms
// ZWECK: Bild-Transformationskette Pad -> Tensor -> (optional) Rauschen
// INPUT: image.Image (MNIST: *image.Gray 28x28)
// OUTPUT: float64-Tensor im CHW Format, Werte in [0,1]
// NEBENEFFEKTE: AddNoise zieht Zufallszahlen aus dem globalen Generator
// ABHAENGIGKEITEN: golang.org/x/image/draw, gonum.org/v1/gonum/floats
// HINWEISE: Die Reihenfolge der Kette ist fest, AddNoise ist rein und nebenlaeufig nutzbar

package data

import (
	"image"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
)

// NoiseRatio ist die Rausch-Staerke fuer alle Denoising-Pipelines
const NoiseRatio = 0.1

// ============================================================================
// AddNoise - Gauss-Rauschen mit Clamping
// ============================================================================

// AddNoise addiert N(0,1)-Rauschen skaliert mit Ratio und begrenzt auf [0,1].
type AddNoise struct {
	Ratio float64
}

// Apply gibt clamp(img + randn * Ratio, 0, 1) als neuen Slice zurueck.
// img wird nicht veraendert.
func (n AddNoise) Apply(img []float64) []float64 {
	noise := make([]float64, len(img))
	for i := range noise {
		noise[i] = rand.NormFloat64()
	}

	out := make([]float64, len(img))
	copy(out, img)
	floats.AddScaled(out, n.Ratio, noise)
	for i, v := range out {
		out[i] = min(max(v, 0), 1)
	}
	return out
}

// ============================================================================
// Transform - feste Kette
// ============================================================================

// Transform beschreibt die Vorverarbeitung eines Datensatz-Bildes.
type Transform struct {
	// Padding in Pixeln auf jeder Seite
	Padding int

	// Noise ist optional, nil bedeutet keine Rauschstufe
	Noise *AddNoise
}

// NewTransform gibt die Standardkette zurueck: 2 Pixel Padding und, falls
// noisy gesetzt ist, AddNoise mit NoiseRatio.
func NewTransform(noisy bool) Transform {
	t := Transform{Padding: 2}
	if noisy {
		t.Noise = &AddNoise{Ratio: NoiseRatio}
	}
	return t
}

// Apply fuehrt Pad, ToTensor und optional AddNoise aus.
// Gibt den Tensor und seine Form (C, H, W) zurueck.
func (t Transform) Apply(img image.Image) ([]float64, [3]int) {
	if t.Padding > 0 {
		img = Pad(img, t.Padding)
	}

	tensor, shape := ToTensor(img)
	if t.Noise != nil {
		tensor = t.Noise.Apply(tensor)
	}
	return tensor, shape
}

// Pad umgibt das Bild mit einem schwarzen Rand der Breite p.
func Pad(img image.Image, p int) image.Image {
	b := img.Bounds()
	dstRect := image.Rect(0, 0, b.Dx()+2*p, b.Dy()+2*p)

	var dst draw.Image
	if _, ok := img.(*image.Gray); ok {
		dst = image.NewGray(dstRect)
	} else {
		dst = image.NewRGBA(dstRect)
	}

	draw.Draw(dst, image.Rect(p, p, p+b.Dx(), p+b.Dy()), img, b.Min, draw.Src)
	return dst
}

// ToTensor wandelt ein Bild in einen CHW-Tensor mit Werten in [0,1].
// Graustufenbilder ergeben einen Kanal, alle anderen drei.
func ToTensor(img image.Image) ([]float64, [3]int) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()

	if gray, ok := img.(*image.Gray); ok {
		out := make([]float64, 0, h*w)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				out = append(out, float64(gray.GrayAt(x, y).Y)/255)
			}
		}
		return out, [3]int{1, h, w}
	}

	plane := h * w
	out := make([]float64, 3*plane)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// RGBA liefert 16-bit Werte
			out[idx] = float64(r>>8) / 255
			out[plane+idx] = float64(g>>8) / 255
			out[2*plane+idx] = float64(bl>>8) / 255
			idx++
		}
	}
	return out, [3]int{3, h, w}
}
