// types.go - JSON-Typen der HTTP-API
// Enthaelt: StatusError, VariantInfo, BuildRequest/BuildResponse, Version
package api

import (
	"fmt"
)

// StatusError ist ein Fehler mit HTTP-Statuscode und Meldung.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		return "something went wrong, please see the aeforge server logs for details"
	}
}

// VersionResponse ist die Antwort von GET /api/version
type VersionResponse struct {
	Version string `json:"version"`
}

// BottleneckParams sind die Hyperparameter eines Bottlenecks.
// Nicht genutzte Felder bleiben leer.
type BottleneckParams struct {
	Beta          float64 `json:"beta,omitempty"`
	Sparsity      float64 `json:"sparsity,omitempty"`
	LatentDim     int     `json:"latent_dim,omitempty"`
	NumCategories int     `json:"num_categories,omitempty"`
}

// VariantInfo beschreibt eine Autoencoder-Variante
type VariantInfo struct {
	ModelType   string           `json:"model_type"`
	Network     string           `json:"network"`
	Bottleneck  string           `json:"bottleneck"`
	Params      BottleneckParams `json:"params"`
	Variational bool             `json:"variational"`
	Noise       bool             `json:"noise"`
}

// VariantsResponse ist die Antwort von GET /api/variants
type VariantsResponse struct {
	Variants []VariantInfo `json:"variants"`
}

// BuildRequest ist der Body von POST /api/build
type BuildRequest struct {
	ModelType string `json:"model_type"`
	LatentDim int    `json:"latent_dim"`

	// InputShape ist (C, H, W). Leer bedeutet (1, 32, 32).
	InputShape []int `json:"input_shape,omitempty"`
}

// DataModuleInfo beschreibt die Konfiguration der Datenpipeline
type DataModuleInfo struct {
	DataDir    string `json:"data_dir"`
	ApplyNoise bool   `json:"apply_noise"`
	BatchSize  int    `json:"batch_size"`
	NumWorkers int    `json:"num_workers"`
	Dims       []int  `json:"dims"`
}

// BuildResponse ist die Antwort von POST /api/build
type BuildResponse struct {
	ID         string      `json:"id"`
	Variant    VariantInfo `json:"variant"`
	LatentDim  int         `json:"latent_dim"`
	InputShape []int       `json:"input_shape"`

	EncoderWidths []int `json:"encoder_widths"`
	DecoderWidths []int `json:"decoder_widths"`

	DataModule DataModuleInfo `json:"datamodule"`
}
