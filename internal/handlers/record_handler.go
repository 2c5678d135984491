package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/middleware"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/services/compliance"
	"github.com/tamsys/backend/internal/services/labeling"
)

// RecordHandler handles certification record requests
type RecordHandler struct {
	records *compliance.RecordService
	artwork labeling.Resolver
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(records *compliance.RecordService, artwork labeling.Resolver) *RecordHandler {
	return &RecordHandler{records: records, artwork: artwork}
}

// CreateRecord creates a PENDING certification record
// POST /api/records
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ProductID       string `json:"product_id" binding:"required"`
		CountryID       uint   `json:"country_id" binding:"required"`
		CertificationID uint   `json:"certification_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id, country_id and certification_id are required"})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	record, err := h.records.CreatePendingRecord(tenantID, productID, req.CountryID, req.CertificationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListRecords lists the tenant's certification records with optional filters
// GET /api/records?product_id=&country_id=&status=&offset=&limit=
func (h *RecordHandler) ListRecords(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var filter compliance.RecordFilter
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		filter.ProductID = id
	}
	if raw := c.Query("country_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid country ID"})
			return
		}
		filter.CountryID = uint(id)
	}
	filter.Status = models.ComplianceStatus(c.Query("status"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	records, err := h.records.ListRecords(tenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// GetRecord returns one certification record
// GET /api/records/:id
func (h *RecordHandler) GetRecord(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	record, err := h.records.GetRecord(tenantID, recordID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateRecordStatus applies a manual lifecycle transition
// PATCH /api/records/:id/status
func (h *RecordHandler) UpdateRecordStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	var req struct {
		Status            string     `json:"status" binding:"required"`
		ExpiryDate        *time.Time `json:"expiry_date"`
		CertificateNumber string     `json:"certificate_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	record, err := h.records.UpdateRecordStatus(tenantID, recordID, models.ComplianceStatus(req.Status), req.ExpiryDate, req.CertificateNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateLabelingStatus flips the labeling sub-state
// PATCH /api/records/:id/labeling
func (h *RecordHandler) UpdateLabelingStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	var req struct {
		LabelingStatus string `json:"labeling_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "labeling_status is required"})
		return
	}

	record, err := h.records.UpdateLabelingStatus(tenantID, recordID, models.LabelingStatus(req.LabelingStatus))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetLabelArtwork returns the compliance-mark artwork for the record's
// certification
// GET /api/records/:id/label-artwork
func (h *RecordHandler) GetLabelArtwork(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	record, err := h.records.GetRecord(tenantID, recordID)
	if err != nil {
		respondError(c, err)
		return
	}

	art, err := h.artwork.Resolve(record.Certification.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, art)
}

// GetTaskProgress returns the derived task completion summary
// GET /api/records/:id/progress
func (h *RecordHandler) GetTaskProgress(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	progress, err := h.records.TaskProgress(tenantID, recordID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
