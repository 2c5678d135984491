package models

import (
	"time"
)

// Technology represents a hardware capability that may require certification
// in a target market (Wi-Fi 6E, Bluetooth, GPS, wireless charging, ...).
// Shared reference data: no tenant_id, read-only outside administration.
type Technology struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Country represents a target market with its own regulatory bodies
type Country struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	ISOCode   string    `gorm:"type:varchar(3);not null;uniqueIndex" json:"iso_code"`
	Details   JSON      `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Certification represents a regulatory license or approval
// (FCC Part 15, WPC, CE, TELEC, SRRC, ...)
type Certification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	AuthorityName string    `gorm:"type:varchar(100)" json:"authority_name,omitempty"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegulatoryRule is one row of the regulatory matrix: a device with
// the given technology targeting the given country needs the given
// certification. The (technology, country, certification) triple is unique
// so a requirement is never double-counted.
type RegulatoryRule struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	TechnologyID    uint          `gorm:"not null;index;uniqueIndex:uq_regulatory_rule" json:"technology_id"`
	Technology      Technology    `gorm:"foreignKey:TechnologyID" json:"-"`
	CountryID       uint          `gorm:"not null;index;uniqueIndex:uq_regulatory_rule" json:"country_id"`
	Country         Country       `gorm:"foreignKey:CountryID" json:"-"`
	CertificationID uint          `gorm:"not null;uniqueIndex:uq_regulatory_rule" json:"certification_id"`
	Certification   Certification `gorm:"foreignKey:CertificationID" json:"-"`
	IsMandatory     bool          `gorm:"not null;default:true" json:"is_mandatory"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
