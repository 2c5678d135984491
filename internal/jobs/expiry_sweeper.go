// Package jobs contains the scheduled batch work: the daily expiry sweep
// that ages certification records and emits deduplicated alerts.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/notify"
	"github.com/tamsys/backend/internal/utils"
	"gorm.io/gorm"
)

// DefaultNotifyCooldown is the minimum interval between repeated alerts
// for the same record
const DefaultNotifyCooldown = 7 * 24 * time.Hour

// SweepUpdate describes one record the sweep changed
type SweepUpdate struct {
	RecordID  uuid.UUID               `json:"record_id"`
	TenantID  uuid.UUID               `json:"tenant_id"`
	OldStatus models.ComplianceStatus `json:"old_status"`
	NewStatus models.ComplianceStatus `json:"new_status"`
	Notified  bool                    `json:"notified"`
}

// SweepFailure describes one record the sweep could not process
type SweepFailure struct {
	RecordID uuid.UUID `json:"record_id"`
	Reason   string    `json:"reason"`
}

// SweepReport summarizes one sweep run
type SweepReport struct {
	AsOf      time.Time      `json:"as_of"`
	Processed int            `json:"processed"`
	Updated   []SweepUpdate  `json:"updated"`
	Failed    []SweepFailure `json:"failed"`
}

// ExpirySweeper ages ACTIVE/EXPIRING certification records against the
// current date and each tenant's notification thresholds. One record is one
// transactional unit: a failure on one record never aborts the rest, and
// re-running the sweep on the same day is a no-op thanks to the status
// checks and the alert cooldown window.
type ExpirySweeper struct {
	db       *gorm.DB
	notifier notify.Notifier
	cooldown time.Duration
}

// NewExpirySweeper creates a sweeper with the default 7-day alert cooldown
func NewExpirySweeper(db *gorm.DB, notifier notify.Notifier) *ExpirySweeper {
	return &ExpirySweeper{db: db, notifier: notifier, cooldown: DefaultNotifyCooldown}
}

// WithCooldown overrides the alert dedupe window
func (s *ExpirySweeper) WithCooldown(d time.Duration) *ExpirySweeper {
	s.cooldown = d
	return s
}

// RunSweep processes every ACTIVE and EXPIRING record as of the given date.
// Per record: past expiry -> EXPIRED; within the tenant's largest active
// threshold -> EXPIRING plus an alert unless one was sent within the
// cooldown window. Stopping mid-run is safe: already-updated records stay
// updated and the rest are picked up next run.
func (s *ExpirySweeper) RunSweep(ctx context.Context, asOf time.Time) (*SweepReport, error) {
	log.Printf("Starting expiry sweep as of %s", asOf.Format("2006-01-02"))

	rulesByTenant, err := s.loadNotificationRules(ctx)
	if err != nil {
		return nil, err
	}

	var records []models.CertificationRecord
	if err := s.db.WithContext(ctx).
		Preload("Tenant").Preload("Product").Preload("Country").Preload("Certification").
		Where("status IN ?", []models.ComplianceStatus{models.ComplianceActive, models.ComplianceExpiring}).
		Find(&records).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	report := &SweepReport{AsOf: asOf}
	for i := range records {
		select {
		case <-ctx.Done():
			log.Printf("Sweep stopped early: %v (processed %d of %d)", ctx.Err(), report.Processed, len(records))
			return report, ctx.Err()
		default:
		}

		record := &records[i]
		report.Processed++

		update, err := s.sweepRecord(ctx, record, asOf, rulesByTenant[record.TenantID])
		if err != nil {
			log.Printf("Sweep failed for record %s: %v", record.ID, err)
			report.Failed = append(report.Failed, SweepFailure{RecordID: record.ID, Reason: err.Error()})
			continue
		}
		if update != nil {
			report.Updated = append(report.Updated, *update)
		}
	}

	log.Printf("Expiry sweep completed: %d processed, %d updated, %d failed",
		report.Processed, len(report.Updated), len(report.Failed))
	return report, nil
}

// sweepRecord evaluates and persists one record. Returns nil when nothing
// changed.
func (s *ExpirySweeper) sweepRecord(ctx context.Context, record *models.CertificationRecord, asOf time.Time, rules []models.NotificationRule) (*SweepUpdate, error) {
	if record.ExpiryDate == nil {
		// ACTIVE/EXPIRING without an expiry date violates the record
		// invariant; surface it instead of guessing
		return nil, fmt.Errorf("record has status %s but no expiry date", record.Status)
	}

	daysLeft := daysBetween(asOf, *record.ExpiryDate)

	// Past expiry: the status transition itself is the signal, no alert
	if daysLeft < 0 {
		if err := s.persist(ctx, record, map[string]interface{}{
			"status":  models.ComplianceExpired,
			"version": record.Version + 1,
		}); err != nil {
			return nil, err
		}
		return &SweepUpdate{
			RecordID:  record.ID,
			TenantID:  record.TenantID,
			OldStatus: record.Status,
			NewStatus: models.ComplianceExpired,
		}, nil
	}

	maxThreshold, severity := matchThreshold(rules, daysLeft)
	if maxThreshold < 0 || daysLeft > maxThreshold {
		return nil, nil
	}

	shouldNotify := record.LastNotifiedAt == nil || time.Since(*record.LastNotifiedAt) > s.cooldown

	newStatus := record.Status
	if record.Status == models.ComplianceActive {
		newStatus = models.ComplianceExpiring
	}
	if newStatus == record.Status && !shouldNotify {
		return nil, nil
	}

	updates := map[string]interface{}{
		"status":  newStatus,
		"version": record.Version + 1,
	}
	now := time.Now()
	if shouldNotify {
		updates["last_notified_at"] = &now
	}
	if err := s.persist(ctx, record, updates); err != nil {
		return nil, err
	}

	if shouldNotify {
		alert := notify.ExpiryAlert{
			RecordID:          record.ID,
			TenantID:          record.TenantID,
			TenantEmail:       record.Tenant.ContactEmail,
			ProductName:       record.Product.ModelName,
			CountryName:       record.Country.Name,
			CertificationName: record.Certification.Name,
			ExpiryDate:        *record.ExpiryDate,
			DaysLeft:          daysLeft,
			Severity:          severity,
		}
		// Fire-and-forget: a sink failure never fails the transition
		if err := s.notifier.Notify(ctx, alert); err != nil {
			log.Printf("Failed to deliver expiry alert for record %s: %v", record.ID, err)
		}
	}

	return &SweepUpdate{
		RecordID:  record.ID,
		TenantID:  record.TenantID,
		OldStatus: record.Status,
		NewStatus: newStatus,
		Notified:  shouldNotify,
	}, nil
}

// persist applies the updates with an optimistic version check so a
// concurrent manual edit wins and the record is re-evaluated next run.
// Transient storage errors are retried; a version mismatch is not.
func (s *ExpirySweeper) persist(ctx context.Context, record *models.CertificationRecord, updates map[string]interface{}) error {
	return utils.WithRetry(ctx, utils.DefaultRetryConfig, func() error {
		result := s.db.WithContext(ctx).Model(&models.CertificationRecord{}).
			Where("id = ? AND version = ?", record.ID, record.Version).
			Updates(updates)
		if result.Error != nil {
			return apperrors.Persistence(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("record %s was modified concurrently", record.ID)
		}
		return nil
	})
}

// loadNotificationRules returns the active rules grouped by tenant
func (s *ExpirySweeper) loadNotificationRules(ctx context.Context) (map[uuid.UUID][]models.NotificationRule, error) {
	var rules []models.NotificationRule
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&rules).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	byTenant := make(map[uuid.UUID][]models.NotificationRule)
	for _, rule := range rules {
		byTenant[rule.TenantID] = append(byTenant[rule.TenantID], rule)
	}
	return byTenant, nil
}

// matchThreshold returns the largest active threshold for the tenant and
// the severity of the tightest rule the record currently falls under.
// Returns -1 when the tenant has no active rules.
func matchThreshold(rules []models.NotificationRule, daysLeft int) (int, string) {
	maxThreshold := -1
	severity := string(models.AlertSeverityWarning)
	tightest := -1
	for _, rule := range rules {
		if rule.DaysBeforeExpiry > maxThreshold {
			maxThreshold = rule.DaysBeforeExpiry
		}
		if daysLeft <= rule.DaysBeforeExpiry && (tightest == -1 || rule.DaysBeforeExpiry < tightest) {
			tightest = rule.DaysBeforeExpiry
			severity = string(rule.Severity)
		}
	}
	return maxThreshold, severity
}

// daysBetween returns expiry minus asOf in whole days, comparing calendar
// dates in UTC
func daysBetween(asOf, expiry time.Time) int {
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(a).Hours() / 24)
}
