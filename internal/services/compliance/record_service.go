// Package compliance implements the core of the system: certification
// record lifecycle management and gap analysis.
//
// A CertificationRecord tracks one obligation for a (tenant, product,
// country, certification) tuple through PENDING -> ACTIVE -> EXPIRING ->
// EXPIRED. Records are created from gaps, mutated by manual updates and by
// the expiry sweeper, and never hard-deleted while they carry audit value.
package compliance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/database"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// RecordService handles certification record operations
type RecordService struct {
	db *gorm.DB
}

// NewRecordService creates a new record service
func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{db: db}
}

// RecordFilter narrows ListRecords results
type RecordFilter struct {
	ProductID uuid.UUID
	CountryID uint
	Status    models.ComplianceStatus
	Offset    int
	Limit     int
}

// CreatePendingRecord converts a reported gap into a tracked obligation.
// The new record starts as PENDING with labeling PENDING. Creating a second
// record for the same (product, country, certification) tuple is a Conflict.
func (s *RecordService) CreatePendingRecord(tenantID, productID uuid.UUID, countryID, certificationID uint) (*models.CertificationRecord, error) {
	// Verify the referenced entities; the product lookup is tenant-scoped
	var product models.Product
	if err := s.db.First(&product, "id = ? AND tenant_id = ?", productID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %s", productID)
		}
		return nil, apperrors.Persistence(err)
	}
	if err := s.db.First(&models.Country{}, "id = ?", countryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("country %d", countryID)
		}
		return nil, apperrors.Persistence(err)
	}
	if err := s.db.First(&models.Certification{}, "id = ?", certificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("certification %d", certificationID)
		}
		return nil, apperrors.Persistence(err)
	}

	record := models.CertificationRecord{
		TenantID:        tenantID,
		ProductID:       productID,
		CountryID:       countryID,
		CertificationID: certificationID,
		Status:          models.CompliancePending,
		LabelingStatus:  models.LabelingPending,
		Version:         1,
	}

	if err := s.db.Create(&record).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("certification record for this product+country+certification already exists")
		}
		return nil, apperrors.Persistence(err)
	}
	return &record, nil
}

// ListRecords returns a tenant's certification records with optional filters
func (s *RecordService) ListRecords(tenantID uuid.UUID, filter RecordFilter) ([]models.CertificationRecord, error) {
	query := s.db.Preload("Product").Preload("Country").Preload("Certification").
		Where("tenant_id = ?", tenantID)

	if filter.ProductID != uuid.Nil {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.CountryID != 0 {
		query = query.Where("country_id = ?", filter.CountryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []models.CertificationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return records, nil
}

// GetRecord returns one of the tenant's records by ID
func (s *RecordService) GetRecord(tenantID, recordID uuid.UUID) (*models.CertificationRecord, error) {
	var record models.CertificationRecord
	if err := s.db.Preload("Product").Preload("Country").Preload("Certification").
		First(&record, "id = ? AND tenant_id = ?", recordID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("certification record %s", recordID)
		}
		return nil, apperrors.Persistence(err)
	}
	return &record, nil
}

// UpdateRecordStatus applies a manual status change. Operators may force
// any status, but an ACTIVE assignment always needs an expiry date plus a
// certificate number, and EXPIRING needs an expiry date. The version column
// guards against a concurrent sweeper update.
func (s *RecordService) UpdateRecordStatus(tenantID, recordID uuid.UUID, newStatus models.ComplianceStatus, expiryDate *time.Time, certificateNumber string) (*models.CertificationRecord, error) {
	if !models.ValidComplianceStatus(newStatus) {
		return nil, apperrors.InvalidInput("unknown status %q", newStatus)
	}

	record, err := s.GetRecord(tenantID, recordID)
	if err != nil {
		return nil, err
	}

	effectiveExpiry := record.ExpiryDate
	if expiryDate != nil {
		effectiveExpiry = expiryDate
	}
	effectiveNumber := record.CertificateNumber
	if certificateNumber != "" {
		effectiveNumber = certificateNumber
	}

	switch newStatus {
	case models.ComplianceActive:
		if effectiveExpiry == nil || effectiveNumber == "" {
			return nil, apperrors.Validation("expiry_date and certificate_number are required for ACTIVE status")
		}
	case models.ComplianceExpiring:
		if effectiveExpiry == nil {
			return nil, apperrors.Validation("expiry_date is required for EXPIRING status")
		}
	}

	updates := map[string]interface{}{
		"status":             newStatus,
		"expiry_date":        effectiveExpiry,
		"certificate_number": effectiveNumber,
		"version":            record.Version + 1,
	}

	result := s.db.Model(&models.CertificationRecord{}).
		Where("id = ? AND tenant_id = ? AND version = ?", recordID, tenantID, record.Version).
		Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("record %s was modified concurrently; reload and retry", recordID)
	}

	return s.GetRecord(tenantID, recordID)
}

// UpdateLabelingStatus flips the labeling sub-state. It is independent of
// the primary lifecycle; callers are expected to gate DONE on the record
// being ACTIVE, the engine does not enforce that ordering.
func (s *RecordService) UpdateLabelingStatus(tenantID, recordID uuid.UUID, labeling models.LabelingStatus) (*models.CertificationRecord, error) {
	if labeling != models.LabelingPending && labeling != models.LabelingDone {
		return nil, apperrors.InvalidInput("unknown labeling status %q", labeling)
	}

	record, err := s.GetRecord(tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record.LabelingStatus == labeling {
		return record, nil
	}

	now := time.Now()
	result := s.db.Model(&models.CertificationRecord{}).
		Where("id = ? AND tenant_id = ? AND version = ?", recordID, tenantID, record.Version).
		Updates(map[string]interface{}{
			"labeling_status":     labeling,
			"labeling_updated_at": &now,
			"version":             record.Version + 1,
		})
	if result.Error != nil {
		return nil, apperrors.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("record %s was modified concurrently; reload and retry", recordID)
	}

	return s.GetRecord(tenantID, recordID)
}

// TaskProgress computes the derived task completion summary for a record.
// Always recomputed from the task rows, never stored.
func (s *RecordService) TaskProgress(tenantID, recordID uuid.UUID) (*models.TaskProgress, error) {
	if _, err := s.GetRecord(tenantID, recordID); err != nil {
		return nil, err
	}

	var tasks []models.ComplianceTask
	if err := s.db.Where("record_id = ?", recordID).Find(&tasks).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	progress := models.TaskProgress{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskDone:
			progress.Done++
		case models.TaskInProgress:
			progress.InProgress++
		default:
			progress.Pending++
		}
	}
	if progress.Total > 0 {
		progress.Percent = progress.Done * 100 / progress.Total
	}
	return &progress, nil
}
