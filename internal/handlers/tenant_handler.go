package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/middleware"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/services/tenant"
)

// TenantHandler handles tenant and notification rule requests. Tenant
// CRUD is admin-only; notification rules are self-service per tenant.
type TenantHandler struct {
	tenants *tenant.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants *tenant.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// CreateTenant registers a new tenant (admin)
// POST /api/admin/tenants
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		ContactEmail string `json:"contact_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a valid contact_email are required"})
		return
	}

	t := models.Tenant{Name: req.Name, ContactEmail: req.ContactEmail, IsActive: true}
	if err := h.tenants.CreateTenant(&t); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// ListTenants lists all tenants (admin)
// GET /api/admin/tenants
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenants.GetTenants()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

// GetTenant returns one tenant (admin)
// GET /api/admin/tenants/:id
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	t, err := h.tenants.GetTenant(tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// UpdateTenant updates a tenant's name or contact email (admin)
// PUT /api/admin/tenants/:id
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	var req struct {
		Name         string `json:"name"`
		ContactEmail string `json:"contact_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	t, err := h.tenants.UpdateTenant(tenantID, req.Name, req.ContactEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// DeactivateTenant marks a tenant inactive; its data is retained (admin)
// DELETE /api/admin/tenants/:id
func (h *TenantHandler) DeactivateTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	t, err := h.tenants.DeactivateTenant(tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// CreateNotificationRule adds an expiry alert threshold for the caller's
// tenant
// POST /api/notification-rules
func (h *TenantHandler) CreateNotificationRule(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		DaysBeforeExpiry int    `json:"days_before_expiry" binding:"required"`
		Severity         string `json:"severity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_before_expiry is required"})
		return
	}

	rule := models.NotificationRule{
		DaysBeforeExpiry: req.DaysBeforeExpiry,
		Severity:         models.AlertSeverity(req.Severity),
		IsActive:         true,
	}
	if err := h.tenants.CreateNotificationRule(tenantID, &rule); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// ListNotificationRules lists the caller's alert thresholds
// GET /api/notification-rules
func (h *TenantHandler) ListNotificationRules(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rules, err := h.tenants.GetNotificationRules(tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules, "count": len(rules)})
}

// UpdateNotificationRule updates one of the caller's alert thresholds
// PUT /api/notification-rules/:id
func (h *TenantHandler) UpdateNotificationRule(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}

	var req struct {
		DaysBeforeExpiry int    `json:"days_before_expiry" binding:"required"`
		Severity         string `json:"severity"`
		IsActive         *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_before_expiry is required"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule, err := h.tenants.UpdateNotificationRule(tenantID, ruleID, req.DaysBeforeExpiry, models.AlertSeverity(req.Severity), isActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// DeleteNotificationRule removes one of the caller's alert thresholds
// DELETE /api/notification-rules/:id
func (h *TenantHandler) DeleteNotificationRule(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}

	if err := h.tenants.DeleteNotificationRule(tenantID, ruleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification rule deleted"})
}
