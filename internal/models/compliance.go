package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceStatus is the lifecycle status of a certification record
type ComplianceStatus string

const (
	CompliancePending  ComplianceStatus = "PENDING"
	ComplianceActive   ComplianceStatus = "ACTIVE"
	ComplianceExpiring ComplianceStatus = "EXPIRING"
	ComplianceExpired  ComplianceStatus = "EXPIRED"
)

// StatusMissing is reported by gap analysis for a required certification
// with no tracked record. It is never stored on a record.
const StatusMissing = "MISSING"

// ValidComplianceStatus reports whether s is a storable lifecycle status
func ValidComplianceStatus(s ComplianceStatus) bool {
	switch s {
	case CompliancePending, ComplianceActive, ComplianceExpiring, ComplianceExpired:
		return true
	}
	return false
}

// LabelingStatus tracks label artwork compliance, independent of the
// primary lifecycle
type LabelingStatus string

const (
	LabelingPending LabelingStatus = "PENDING"
	LabelingDone    LabelingStatus = "DONE"
)

// TaskStatus is the status of a compliance task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// CertificationRecord tracks one certification obligation for a
// (tenant, product, country, certification) tuple.
//
// Lifecycle: PENDING (gap acknowledged) -> ACTIVE (certificate on file) ->
// EXPIRING (within a notification threshold) -> EXPIRED (past expiry date).
// The sweeper drives ACTIVE->EXPIRING and ->EXPIRED; everything else is a
// manual operation. ACTIVE and EXPIRING require a non-nil expiry date.
type CertificationRecord struct {
	Base
	TenantID        uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:uq_certification_record" json:"tenant_id"`
	Tenant          Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	ProductID       uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:uq_certification_record" json:"product_id"`
	Product         Product       `gorm:"foreignKey:ProductID" json:"-"`
	CountryID       uint          `gorm:"not null;index;uniqueIndex:uq_certification_record" json:"country_id"`
	Country         Country       `gorm:"foreignKey:CountryID" json:"-"`
	CertificationID uint          `gorm:"not null;uniqueIndex:uq_certification_record" json:"certification_id"`
	Certification   Certification `gorm:"foreignKey:CertificationID" json:"-"`

	Status            ComplianceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ExpiryDate        *time.Time       `gorm:"type:date;index" json:"expiry_date,omitempty"`
	CertificateNumber string           `gorm:"type:varchar(100)" json:"certificate_number,omitempty"`

	LabelingStatus    LabelingStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"labeling_status"`
	LabelingUpdatedAt *time.Time     `json:"labeling_updated_at,omitempty"`

	// Timestamp of the last expiry alert, used by the sweeper's dedupe window
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`

	// Bumped on every update; guards against lost updates between manual
	// edits and the sweeper
	Version int `gorm:"not null;default:1" json:"version"`

	Tasks []ComplianceTask `gorm:"foreignKey:RecordID" json:"-"`
}

// TaskProgress is the derived task completion summary for a record.
// Computed on read, never stored.
type TaskProgress struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Percent    int `json:"percent"`
}

// ComplianceTask is a sub-unit of work attached to a certification record
// (e.g. "submit test report")
type ComplianceTask struct {
	Base
	RecordID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"record_id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	Assignee    string     `gorm:"type:varchar(100)" json:"assignee,omitempty"`
}

// ComplianceTaskNote is a worknote on a task
type ComplianceTaskNote struct {
	Base
	TaskID uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	Note   string    `gorm:"type:text;not null" json:"note"`
	Author string    `gorm:"type:varchar(100)" json:"author,omitempty"`
}
