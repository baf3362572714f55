package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"CropInsights/internal/domain"
)

// DistrictHandler serves the yield and map routes.
type DistrictHandler struct {
	service DistrictService
	logger  *slog.Logger
}

// NewDistrictHandler wires the district service.
func NewDistrictHandler(service DistrictService, logger *slog.Logger) *DistrictHandler {
	return &DistrictHandler{service: service, logger: logger}
}

// List returns district names in dataset order.
func (h *DistrictHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, DistrictsResponse{Districts: h.service.Districts()})
}

// AllDistricts serves the outline collection as stored.
func (h *DistrictHandler) AllDistricts(c *gin.Context) {
	raw, err := h.service.AllDistricts()
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "District outlines not available"})
		return
	}
	if err != nil {
		h.logger.Error("error loading district outlines", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// Historical returns the yearly series for :name.
func (h *DistrictHandler) Historical(c *gin.Context) {
	series, err := h.service.Historical(c.Param("name"))
	if errors.Is(err, domain.ErrDistrictNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "District not found"})
		return
	}
	if err != nil {
		h.logger.Error("error loading history", "district", c.Param("name"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, toHistoricalResponse(series))
}

// Predict runs the yield model with the district's fixed inputs.
func (h *DistrictHandler) Predict(c *gin.Context) {
	prediction, err := h.service.Predict(c.Request.Context(), c.Param("name"))
	if errors.Is(err, domain.ErrDistrictNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "District not found"})
		return
	}
	if err != nil {
		h.logger.Error("prediction failed", "district", c.Param("name"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}
	c.JSON(http.StatusOK, toPredictionResponse(prediction))
}

// Map returns the grid cells belonging to :name.
func (h *DistrictHandler) Map(c *gin.Context) {
	name := c.Param("name")
	fc, err := h.service.DistrictMap(name)
	if errors.Is(err, domain.ErrDistrictNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("District '%s' not found", name)})
		return
	}
	if err != nil {
		h.logger.Error("error loading district map", "district", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, fc)
}
