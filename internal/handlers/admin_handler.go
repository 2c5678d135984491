package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/jobs"
	"github.com/tamsys/backend/internal/matrix"
	"github.com/tamsys/backend/internal/services/labeling"
	"github.com/tamsys/backend/internal/services/tenant"
	"github.com/tamsys/backend/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles operational endpoints: matrix reloads, manual sweep
// runs, artwork inspection and API token issuance
type AdminHandler struct {
	db      *gorm.DB
	matrix  *matrix.Store
	sweeper *jobs.ExpirySweeper
	artwork labeling.Resolver
	tenants *tenant.TenantService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, store *matrix.Store, sweeper *jobs.ExpirySweeper, artwork labeling.Resolver, tenants *tenant.TenantService) *AdminHandler {
	return &AdminHandler{db: db, matrix: store, sweeper: sweeper, artwork: artwork, tenants: tenants}
}

// ReloadMatrix re-reads the regulatory matrix from the database. New and
// changed rules only affect analyses after this completes.
// POST /api/admin/matrix/reload
func (h *AdminHandler) ReloadMatrix(c *gin.Context) {
	if err := h.matrix.Reload(h.db); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rule_count": h.matrix.RuleCount(),
		"loaded_at":  h.matrix.LoadedAt(),
	})
}

// MatrixStatus reports when the matrix snapshot was loaded
// GET /api/admin/matrix
func (h *AdminHandler) MatrixStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rule_count": h.matrix.RuleCount(),
		"loaded_at":  h.matrix.LoadedAt(),
	})
}

// RunSweep triggers an expiry sweep outside the daily schedule
// POST /api/admin/sweep
func (h *AdminHandler) RunSweep(c *gin.Context) {
	report, err := h.sweeper.RunSweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListArtworks lists the registered label artworks
// GET /api/admin/artworks
func (h *AdminHandler) ListArtworks(c *gin.Context) {
	artworks := h.artwork.List()
	c.JSON(http.StatusOK, gin.H{"artworks": artworks, "count": len(artworks)})
}

// IssueToken mints an API token for a tenant
// POST /api/admin/tokens
func (h *AdminHandler) IssueToken(c *gin.Context) {
	var req struct {
		TenantID string `json:"tenant_id" binding:"required"`
		TTLHours int    `json:"ttl_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	t, err := h.tenants.GetTenant(tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !t.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Tenant is deactivated"})
		return
	}

	ttl := 24 * time.Hour
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}

	token, err := utils.GenerateToken(t.ID, t.ContactEmail, false, ttl)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": ttl.Seconds()})
}
