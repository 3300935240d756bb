package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
)

// CatalogHandler serves the static choices offered by the pipeline screens.
type CatalogHandler struct{}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler() *CatalogHandler { return &CatalogHandler{} }

// Stages handles GET /stages.
func (*CatalogHandler) Stages(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: pipeline.Stages()})
}

// Plants handles GET /catalog/plants.
func (*CatalogHandler) Plants(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: mockdata.Plants()})
}

// PlantParts handles GET /catalog/plant-parts.
func (*CatalogHandler) PlantParts(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: mockdata.PlantParts()})
}

// Tags handles GET /catalog/tags.
func (*CatalogHandler) Tags(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: mockdata.SuggestedTags()})
}

// Engines handles GET /catalog/engines.
func (*CatalogHandler) Engines(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: mockdata.Engines()})
}

// DockingTargets handles GET /catalog/docking-targets.
func (*CatalogHandler) DockingTargets(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: mockdata.DockingTargets()})
}

// NetworkOptions handles GET /catalog/network.
func (*CatalogHandler) NetworkOptions(c *gin.Context) {
	writeJSON(c, http.StatusOK, DataResponse{Data: mockdata.NetworkChoices()})
}
