// Package tenant manages tenant organizations and their per-tenant
// notification rules. Tenants are the ownership boundary: every product and
// certification record is scoped by tenant ID.
package tenant

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// TenantService handles tenant operations
type TenantService struct {
	db *gorm.DB
}

// NewTenantService creates a new tenant service
func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// CreateTenant creates a new tenant organization
func (s *TenantService) CreateTenant(tenant *models.Tenant) error {
	if strings.TrimSpace(tenant.Name) == "" || strings.TrimSpace(tenant.ContactEmail) == "" {
		return apperrors.InvalidInput("tenant name and contact_email are required")
	}
	tenant.IsActive = true
	if err := s.db.Create(tenant).Error; err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// GetTenant returns a tenant by ID
func (s *TenantService) GetTenant(tenantID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.First(&tenant, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tenant %s", tenantID)
		}
		return nil, apperrors.Persistence(err)
	}
	return &tenant, nil
}

// GetTenants returns all tenants
func (s *TenantService) GetTenants() ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := s.db.Order("name").Find(&tenants).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return tenants, nil
}

// UpdateTenant updates tenant name/contact fields
func (s *TenantService) UpdateTenant(tenantID uuid.UUID, name, contactEmail string) (*models.Tenant, error) {
	tenant, err := s.GetTenant(tenantID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		tenant.Name = name
	}
	if contactEmail != "" {
		tenant.ContactEmail = contactEmail
	}
	if err := s.db.Save(tenant).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return tenant, nil
}

// DeactivateTenant marks a tenant inactive. Tenants are never hard-deleted:
// their records are kept for audit history.
func (s *TenantService) DeactivateTenant(tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.GetTenant(tenantID)
	if err != nil {
		return nil, err
	}
	tenant.IsActive = false
	if err := s.db.Save(tenant).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return tenant, nil
}

// ============================================
// Notification rules
// ============================================

// CreateNotificationRule adds an expiry alert threshold for a tenant
func (s *TenantService) CreateNotificationRule(tenantID uuid.UUID, rule *models.NotificationRule) error {
	if rule.DaysBeforeExpiry <= 0 {
		return apperrors.Validation("days_before_expiry must be positive")
	}
	if _, err := s.GetTenant(tenantID); err != nil {
		return err
	}
	rule.TenantID = tenantID
	if rule.Severity == "" {
		rule.Severity = models.AlertSeverityWarning
	}
	rule.IsActive = true
	if err := s.db.Create(rule).Error; err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// GetNotificationRules returns all notification rules for a tenant
func (s *TenantService) GetNotificationRules(tenantID uuid.UUID) ([]models.NotificationRule, error) {
	var rules []models.NotificationRule
	if err := s.db.Where("tenant_id = ?", tenantID).Order("days_before_expiry DESC").Find(&rules).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return rules, nil
}

// UpdateNotificationRule updates threshold, severity or active flag
func (s *TenantService) UpdateNotificationRule(tenantID, ruleID uuid.UUID, daysBeforeExpiry int, severity models.AlertSeverity, isActive bool) (*models.NotificationRule, error) {
	var rule models.NotificationRule
	if err := s.db.First(&rule, "id = ? AND tenant_id = ?", ruleID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("notification rule %s", ruleID)
		}
		return nil, apperrors.Persistence(err)
	}

	if daysBeforeExpiry <= 0 {
		return nil, apperrors.Validation("days_before_expiry must be positive")
	}
	rule.DaysBeforeExpiry = daysBeforeExpiry
	if severity != "" {
		rule.Severity = severity
	}
	rule.IsActive = isActive

	if err := s.db.Save(&rule).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return &rule, nil
}

// DeleteNotificationRule removes a notification rule
func (s *TenantService) DeleteNotificationRule(tenantID, ruleID uuid.UUID) error {
	result := s.db.Where("id = ? AND tenant_id = ?", ruleID, tenantID).Delete(&models.NotificationRule{})
	if result.Error != nil {
		return apperrors.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("notification rule %s", ruleID)
	}
	return nil
}
