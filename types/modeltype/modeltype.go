// Package modeltype - Symbolische Namen der Autoencoder-Varianten
// Enthaelt: ModelType, Konstanten, Parsing und Familien-Abfragen
package modeltype

import (
	"strings"
)

// ModelType ist das Symbol einer Autoencoder-Variante, z.B. "vae" oder "vq".
//
// Unbekannte Werte sind konstruierbar, erst die Factories in building lehnen
// sie ab.
type ModelType string

const (
	Shallow       ModelType = "shallow"
	Vanilla       ModelType = "vanilla"
	Stacked       ModelType = "stacked"
	Sparse        ModelType = "sparse"
	VAE           ModelType = "vae"
	BetaVAEStrict ModelType = "beta_vae_strict"
	BetaVAELoose  ModelType = "beta_vae_loose"
	VQ            ModelType = "vq"
	Denoising     ModelType = "denoising"
)

// All gibt alle bekannten Symbole in Deklarationsreihenfolge zurueck.
func All() []ModelType {
	return []ModelType{
		Shallow,
		Vanilla,
		Stacked,
		Sparse,
		VAE,
		BetaVAEStrict,
		BetaVAELoose,
		VQ,
		Denoising,
	}
}

// Parse normalisiert Benutzereingaben: Leerzeichen entfernen, Kleinschreibung,
// "-" wird zu "_". Es findet keine Validierung statt.
func Parse(s string) ModelType {
	s = strings.ToLower(strings.TrimSpace(s))
	return ModelType(strings.ReplaceAll(s, "-", "_"))
}

// String implementiert fmt.Stringer
func (m ModelType) String() string {
	return string(m)
}

// IsVariational meldet ob das Symbol zur VAE-Familie gehoert
func (m ModelType) IsVariational() bool {
	switch m {
	case VAE, BetaVAEStrict, BetaVAELoose:
		return true
	}
	return false
}
