package server

import (
	"github.com/7blacky7/aeforge/api"
	"github.com/7blacky7/aeforge/building"
)

// DescribeVariant wandelt einen Tabelleneintrag in seine API-Form
func DescribeVariant(v building.Variant) api.VariantInfo {
	return api.VariantInfo{
		ModelType:  v.ModelType.String(),
		Network:    string(v.Network),
		Bottleneck: string(v.Bottleneck),
		Params: api.BottleneckParams{
			Beta:          v.Params.Beta,
			Sparsity:      v.Params.Sparsity,
			LatentDim:     v.Params.LatentDim,
			NumCategories: v.Params.NumCategories,
		},
		Variational: v.Variational,
		Noise:       v.Noise,
	}
}

// Describe fasst ein Build-Ergebnis fuer API und CLI zusammen
func Describe(a *building.Artifacts) api.BuildResponse {
	dm := a.DataModule
	dims := dm.Dims()

	return api.BuildResponse{
		ID:            a.ID.String(),
		Variant:       DescribeVariant(a.Variant),
		LatentDim:     a.LatentDim,
		InputShape:    a.InputShape[:],
		EncoderWidths: a.Networks.Encoder.Widths(),
		DecoderWidths: a.Networks.Decoder.Widths(),
		DataModule: api.DataModuleInfo{
			DataDir:    dm.DataDir(),
			ApplyNoise: dm.ApplyNoise(),
			BatchSize:  dm.BatchSize(),
			NumWorkers: dm.NumWorkers(),
			Dims:       dims[:],
		},
	}
}
