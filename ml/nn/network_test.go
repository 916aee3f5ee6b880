package nn

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func TestEncoderDecoderWidths(t *testing.T) {
	shape := [3]int{1, 32, 32}
	tests := []struct {
		kind    Kind
		encoder []int
		decoder []int
	}{
		{KindShallow, []int{1024, 16}, []int{16, 1024}},
		{KindDense, []int{1024, 512, 16}, []int{16, 512, 1024}},
		{KindStacked, []int{1024, 512, 256, 128, 16}, []int{16, 128, 256, 512, 1024}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			enc, err := NewEncoder(tt.kind, shape, 16)
			if err != nil {
				t.Fatalf("NewEncoder() error = %v", err)
			}
			dec, err := NewDecoder(tt.kind, shape, 16)
			if err != nil {
				t.Fatalf("NewDecoder() error = %v", err)
			}

			if diff := cmp.Diff(tt.encoder, enc.Widths()); diff != "" {
				t.Errorf("Encoder-Breiten (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.decoder, dec.Widths()); diff != "" {
				t.Errorf("Decoder-Breiten (-want +got):\n%s", diff)
			}
			if enc.Kind() != tt.kind || dec.Kind() != tt.kind {
				t.Errorf("Kind = %s/%s, want %s", enc.Kind(), dec.Kind(), tt.kind)
			}
			if enc.LatentDim() != 16 || dec.LatentDim() != 16 {
				t.Errorf("LatentDim = %d/%d, want 16", enc.LatentDim(), dec.LatentDim())
			}
		})
	}
}

func TestForwardShapes(t *testing.T) {
	shape := [3]int{1, 4, 4}
	enc, err := NewEncoder(KindStacked, shape, 8)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(KindStacked, shape, 8)
	if err != nil {
		t.Fatal(err)
	}

	x := mat.NewDense(3, 16, nil)
	z, err := enc.Forward(x)
	if err != nil {
		t.Fatalf("Encoder.Forward() error = %v", err)
	}
	if r, c := z.Dims(); r != 3 || c != 8 {
		t.Errorf("Latent-Form = %dx%d, erwartet 3x8", r, c)
	}

	y, err := dec.Forward(z)
	if err != nil {
		t.Fatalf("Decoder.Forward() error = %v", err)
	}
	if r, c := y.Dims(); r != 3 || c != 16 {
		t.Errorf("Rekonstruktions-Form = %dx%d, erwartet 3x16", r, c)
	}
	for i := range 3 {
		for _, v := range y.RawRowView(i) {
			if v < 0 || v > 1 {
				t.Fatalf("Decoder-Ausgabe %f ausserhalb [0,1]", v)
			}
		}
	}
}

func TestForwardShapeMismatch(t *testing.T) {
	enc, err := NewEncoder(KindShallow, [3]int{1, 4, 4}, 8)
	if err != nil {
		t.Fatal(err)
	}

	_, err = enc.Forward(mat.NewDense(2, 15, nil))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Forward() error = %v, want ErrShapeMismatch", err)
	}
}

func TestNewEncoderErrors(t *testing.T) {
	if _, err := NewEncoder(Kind("conv"), [3]int{1, 32, 32}, 8); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unbekannte Familie: error = %v, want ErrUnknownKind", err)
	}
	if _, err := NewEncoder(KindDense, [3]int{1, 32, 32}, 0); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("latentDim 0: error = %v, want ErrInvalidDimension", err)
	}
	if _, err := NewDecoder(KindDense, [3]int{1, 0, 32}, 8); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Hoehe 0: error = %v, want ErrInvalidDimension", err)
	}
}

func TestLinearBiasAndActivation(t *testing.T) {
	l := &Linear{
		Weight:     mat.NewDense(2, 2, []float64{1, 0, 0, -1}),
		Bias:       []float64{0.5, 0.5},
		Activation: ActivationReLU,
	}

	out, err := l.Forward(mat.NewDense(1, 2, []float64{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	// [1*1 + 0.5, relu(-2 + 0.5)]
	if diff := cmp.Diff([]float64{1.5, 0}, out.RawRowView(0)); diff != "" {
		t.Errorf("Forward() (-want +got):\n%s", diff)
	}
}
