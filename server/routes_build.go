// Package server - Handler fuer Varianten-Liste und Build
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/7blacky7/aeforge/api"
	"github.com/7blacky7/aeforge/building"
	"github.com/7blacky7/aeforge/types/modeltype"
)

// VariantsHandler liefert alle Varianten in kanonischer Reihenfolge
func (s *Server) VariantsHandler(c *gin.Context) {
	variants := building.Variants()

	resp := api.VariantsResponse{Variants: make([]api.VariantInfo, 0, len(variants))}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, DescribeVariant(v))
	}

	c.JSON(http.StatusOK, resp)
}

// BuildHandler baut eine Variante und beschreibt das Ergebnis.
// Es wird nichts heruntergeladen.
func (s *Server) BuildHandler(c *gin.Context) {
	var req api.BuildRequest
	if err := c.ShouldBindJSON(&req); errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ModelType == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "model_type is required"})
		return
	}

	shape := building.MNISTShape
	if len(req.InputShape) > 0 {
		if len(req.InputShape) != 3 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "input_shape must have three dimensions (channels, height, width)"})
			return
		}
		shape = building.InputShape(req.InputShape)
	}

	a, err := building.Build(modeltype.Parse(req.ModelType), req.LatentDim, shape, s.buildOptions...)
	switch {
	case errors.Is(err, building.ErrInvalidModelType),
		errors.Is(err, building.ErrInvalidLatentDim),
		errors.Is(err, building.ErrInvalidInputShape):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		slog.Error("build failed", "model_type", req.ModelType, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, Describe(a))
}
