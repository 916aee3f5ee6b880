package modeltype

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ModelType
	}{
		{"vae", VAE},
		{"  VAE ", VAE},
		{"beta-vae-strict", BetaVAEStrict},
		{"Beta_VAE_Loose", BetaVAELoose},
		{"bogus", ModelType("bogus")},
		{"", ModelType("")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsVariational(t *testing.T) {
	variational := map[ModelType]bool{
		VAE:           true,
		BetaVAEStrict: true,
		BetaVAELoose:  true,
	}
	for _, m := range All() {
		if got := m.IsVariational(); got != variational[m] {
			t.Errorf("%s.IsVariational() = %v, want %v", m, got, variational[m])
		}
	}
	if ModelType("bogus").IsVariational() {
		t.Error("unbekanntes Symbol darf nicht variational sein")
	}
}

func TestAllUnique(t *testing.T) {
	seen := make(map[ModelType]bool)
	for _, m := range All() {
		if seen[m] {
			t.Errorf("doppeltes Symbol %q", m)
		}
		seen[m] = true
	}
	if len(seen) != 9 {
		t.Errorf("len(All()) = %d, want 9", len(seen))
	}
}
