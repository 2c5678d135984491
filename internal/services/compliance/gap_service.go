package compliance

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/matrix"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// GapItem is one certification row of a gap report. A certification
// required via several technologies appears once, with every contributing
// technology name.
type GapItem struct {
	CertificationID   uint       `json:"certification_id"`
	CertificationName string     `json:"certification_name"`
	Technologies      []string   `json:"technologies"`
	Mandatory         bool       `json:"mandatory"`
	HasGap            bool       `json:"has_gap"`
	Status            string     `json:"status"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	RecordID          *uuid.UUID `json:"record_id,omitempty"`
}

// GapReport is the result of analyzing one (product, country) pair
type GapReport struct {
	ProductID     uuid.UUID `json:"product_id"`
	CountryID     uint      `json:"country_id"`
	TotalRequired int       `json:"total_required"`
	GapsFound     int       `json:"gaps_found"`
	Items         []GapItem `json:"items"`
}

// BulkInitSummary reports the outcome of initializing compliance records
// across a product's target markets
type BulkInitSummary struct {
	ProductID         uuid.UUID `json:"product_id"`
	CountriesAnalyzed int       `json:"countries_analyzed"`
	RecordsCreated    int       `json:"records_created"`
	RecordsSkipped    int       `json:"records_skipped_existing"`
}

// GapService answers the core question: which certifications does this
// product need for this market, and which of them are missing. Analyze is a
// pure read over the matrix snapshot and the tenant's records; converting a
// gap into a tracked obligation is a separate, explicit call.
type GapService struct {
	db      *gorm.DB
	matrix  *matrix.Store
	records *RecordService
}

// NewGapService creates a new gap analysis service
func NewGapService(db *gorm.DB, store *matrix.Store) *GapService {
	return &GapService{db: db, matrix: store, records: NewRecordService(db)}
}

// Analyze computes the gap report for a tenant's product against a target
// country. A product without technologies cannot be analyzed and fails with
// InvalidInput. A technology with no rule in the country contributes
// nothing. An EXPIRED record is reported verbatim, not re-flagged as a gap:
// "had it, lapsed" reads differently from "never had it".
func (s *GapService) Analyze(ctx context.Context, tenantID, productID uuid.UUID, countryID uint) (*GapReport, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Preload("Technologies").
		First(&product, "id = ? AND tenant_id = ?", productID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %s", productID)
		}
		return nil, apperrors.Persistence(err)
	}
	if len(product.Technologies) == 0 {
		return nil, apperrors.InvalidInput("product %s has no technologies; gap analysis is meaningless", productID)
	}

	if err := db.First(&models.Country{}, "id = ?", countryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("country %d", countryID)
		}
		return nil, apperrors.Persistence(err)
	}

	techIDs := make([]uint, 0, len(product.Technologies))
	for _, t := range product.Technologies {
		techIDs = append(techIDs, t.ID)
	}
	required := s.matrix.RequiredCertifications(techIDs, countryID)

	var existing []models.CertificationRecord
	if err := db.Where("tenant_id = ? AND product_id = ? AND country_id = ?", tenantID, productID, countryID).
		Find(&existing).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	recordsByCert := make(map[uint]*models.CertificationRecord, len(existing))
	for i := range existing {
		recordsByCert[existing[i].CertificationID] = &existing[i]
	}

	// Group raw (certification, technology) pairs to one item per
	// certification. The mandatory flag is informational and does not
	// filter gap counting.
	itemsByCert := make(map[uint]*GapItem)
	for _, req := range required {
		item, ok := itemsByCert[req.CertificationID]
		if !ok {
			item = &GapItem{
				CertificationID:   req.CertificationID,
				CertificationName: req.CertificationName,
			}
			if record, held := recordsByCert[req.CertificationID]; held {
				item.HasGap = false
				item.Status = string(record.Status)
				item.ExpiryDate = record.ExpiryDate
				recordID := record.ID
				item.RecordID = &recordID
			} else {
				item.HasGap = true
				item.Status = models.StatusMissing
			}
			itemsByCert[req.CertificationID] = item
		}
		item.Technologies = append(item.Technologies, req.TechnologyName)
		item.Mandatory = item.Mandatory || req.Mandatory
	}

	report := &GapReport{
		ProductID:     productID,
		CountryID:     countryID,
		TotalRequired: len(itemsByCert),
		Items:         make([]GapItem, 0, len(itemsByCert)),
	}
	for _, item := range itemsByCert {
		sort.Strings(item.Technologies)
		if item.HasGap {
			report.GapsFound++
		}
		report.Items = append(report.Items, *item)
	}
	// Deterministic item order so repeated analyses compare equal
	sort.Slice(report.Items, func(i, j int) bool {
		return report.Items[i].CertificationID < report.Items[j].CertificationID
	})

	return report, nil
}

// BulkInitCompliance runs gap analysis for every target market of a product
// and creates PENDING records for each gap. Records that already exist are
// skipped, not merged.
func (s *GapService) BulkInitCompliance(ctx context.Context, tenantID, productID uuid.UUID) (*BulkInitSummary, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, "id = ? AND tenant_id = ?", productID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %s", productID)
		}
		return nil, apperrors.Persistence(err)
	}

	var countries []models.Country
	query := db.Model(&models.Country{})
	if !product.TargetMarkets.Contains(models.TargetAllMarkets) {
		query = query.Where("iso_code IN ?", []string(product.TargetMarkets))
	}
	if err := query.Find(&countries).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	summary := &BulkInitSummary{ProductID: productID, CountriesAnalyzed: len(countries)}
	for _, country := range countries {
		report, err := s.Analyze(ctx, tenantID, productID, country.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range report.Items {
			if !item.HasGap {
				continue
			}
			_, err := s.records.CreatePendingRecord(tenantID, productID, country.ID, item.CertificationID)
			if err != nil {
				if errors.Is(err, apperrors.ErrConflict) {
					summary.RecordsSkipped++
					continue
				}
				return nil, err
			}
			summary.RecordsCreated++
		}
	}
	return summary, nil
}
