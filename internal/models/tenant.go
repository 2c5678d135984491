package models

import (
	"github.com/google/uuid"
)

// AlertSeverity represents the severity attached to a notification rule
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// Tenant represents an organization using the platform. Every product and
// certification record belongs to exactly one tenant; tenants never see
// each other's data.
type Tenant struct {
	Base
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	ContactEmail string `gorm:"type:varchar(150);not null" json:"contact_email"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

// NotificationRule is a per-tenant expiry alert threshold. A tenant may hold
// several (e.g. alert at 90, 60 and 30 days before expiry); the sweeper uses
// the largest active threshold to decide when a record becomes EXPIRING.
type NotificationRule struct {
	Base
	TenantID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant           Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	DaysBeforeExpiry int           `gorm:"not null" json:"days_before_expiry"`
	Severity         AlertSeverity `gorm:"type:varchar(20);not null;default:'warning'" json:"severity"`
	IsActive         bool          `gorm:"not null;default:true" json:"is_active"`
}
