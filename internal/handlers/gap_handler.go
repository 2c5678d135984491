package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/middleware"
	"github.com/tamsys/backend/internal/services/compliance"
)

// GapHandler handles gap analysis and bulk compliance initialization
type GapHandler struct {
	gaps *compliance.GapService
}

// NewGapHandler creates a new gap analysis handler
func NewGapHandler(gaps *compliance.GapService) *GapHandler {
	return &GapHandler{gaps: gaps}
}

// AnalyzeGaps runs a gap analysis for one product in one country
// POST /api/products/:id/gap-analysis
func (h *GapHandler) AnalyzeGaps(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		CountryID uint `json:"country_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country_id is required"})
		return
	}

	report, err := h.gaps.Analyze(c.Request.Context(), tenantID, productID, req.CountryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// BulkInitCompliance creates PENDING records for every open gap across the
// product's target markets
// POST /api/products/:id/compliance/bulk-init
func (h *GapHandler) BulkInitCompliance(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	summary, err := h.gaps.BulkInitCompliance(c.Request.Context(), tenantID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}
