package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/notify"
	"github.com/tamsys/backend/internal/testutil"
	"gorm.io/gorm"
)

// captureNotifier records every alert it receives
type captureNotifier struct {
	mu     sync.Mutex
	alerts []notify.ExpiryAlert
	fail   bool
}

func (n *captureNotifier) Notify(ctx context.Context, alert notify.ExpiryAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return assert.AnError
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

type sweepFixture struct {
	db       *gorm.DB
	ref      testutil.Fixture
	tenant   models.Tenant
	product  models.Product
	notifier *captureNotifier
	sweeper  *ExpirySweeper
}

func newSweepFixture(t *testing.T, thresholds ...int) *sweepFixture {
	db := testutil.NewTestDB(t)
	ref := testutil.SeedReferenceData(t, db)
	tenant := testutil.SeedTenant(t, db, "acme")
	product := testutil.SeedProduct(t, db, tenant, "Router X1", []string{"USA"}, ref.WiFi)

	for _, days := range thresholds {
		rule := models.NotificationRule{
			TenantID:         tenant.ID,
			DaysBeforeExpiry: days,
			Severity:         models.AlertSeverityWarning,
			IsActive:         true,
		}
		require.NoError(t, db.Create(&rule).Error)
	}

	notifier := &captureNotifier{}
	return &sweepFixture{
		db:       db,
		ref:      ref,
		tenant:   tenant,
		product:  product,
		notifier: notifier,
		sweeper:  NewExpirySweeper(db, notifier),
	}
}

func (f *sweepFixture) createRecord(t *testing.T, status models.ComplianceStatus, expiry *time.Time) models.CertificationRecord {
	t.Helper()
	record := models.CertificationRecord{
		TenantID:        f.tenant.ID,
		ProductID:       f.product.ID,
		CountryID:       f.ref.USA.ID,
		CertificationID: f.ref.FCC.ID,
		Status:          status,
		ExpiryDate:      expiry,
		LabelingStatus:  models.LabelingPending,
		Version:         1,
	}
	require.NoError(t, f.db.Create(&record).Error)
	return record
}

func (f *sweepFixture) reload(t *testing.T, id interface{}) models.CertificationRecord {
	t.Helper()
	var record models.CertificationRecord
	require.NoError(t, f.db.First(&record, "id = ?", id).Error)
	return record
}

func daysFromNow(n int) *time.Time {
	d := time.Now().UTC().AddDate(0, 0, n)
	return &d
}

func TestSweepMarksExpired(t *testing.T) {
	f := newSweepFixture(t, 30)
	record := f.createRecord(t, models.ComplianceActive, daysFromNow(-3))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpired, report.Updated[0].NewStatus)
	// Expiry is its own signal; no alert is sent for it
	assert.False(t, report.Updated[0].Notified)
	assert.Zero(t, f.notifier.count())

	stored := f.reload(t, record.ID)
	assert.Equal(t, models.ComplianceExpired, stored.Status)
	assert.Equal(t, 2, stored.Version)
}

func TestSweepMarksExpiringAndNotifies(t *testing.T) {
	f := newSweepFixture(t, 30)
	record := f.createRecord(t, models.ComplianceActive, daysFromNow(10))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpiring, report.Updated[0].NewStatus)
	assert.True(t, report.Updated[0].Notified)
	require.Equal(t, 1, f.notifier.count())

	alert := f.notifier.alerts[0]
	assert.Equal(t, record.ID, alert.RecordID)
	assert.Equal(t, "acme@example.com", alert.TenantEmail)
	assert.Equal(t, "FCC Part 15", alert.CertificationName)
	assert.Equal(t, 10, alert.DaysLeft)

	stored := f.reload(t, record.ID)
	assert.Equal(t, models.ComplianceExpiring, stored.Status)
	assert.NotNil(t, stored.LastNotifiedAt)
}

func TestSweepOutsideThresholdNoChange(t *testing.T) {
	f := newSweepFixture(t, 30)
	f.createRecord(t, models.ComplianceActive, daysFromNow(90))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Empty(t, report.Updated)
	assert.Zero(t, f.notifier.count())
}

func TestSweepUsesLargestThreshold(t *testing.T) {
	f := newSweepFixture(t, 7, 30, 90)
	f.createRecord(t, models.ComplianceActive, daysFromNow(60))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpiring, report.Updated[0].NewStatus)
}

func TestSweepNoRulesMeansNoExpiring(t *testing.T) {
	f := newSweepFixture(t)
	f.createRecord(t, models.ComplianceActive, daysFromNow(5))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, report.Updated)

	// EXPIRED still happens without any notification rules
	f2 := newSweepFixture(t)
	record := f2.createRecord(t, models.ComplianceActive, daysFromNow(-1))
	report, err = f2.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpired, f2.reload(t, record.ID).Status)
}

func TestSweepAlertDedupe(t *testing.T) {
	f := newSweepFixture(t, 30)
	record := f.createRecord(t, models.ComplianceActive, daysFromNow(10))

	_, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 1, f.notifier.count())

	// Second run inside the cooldown window: no transition, no new alert
	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, report.Updated)
	assert.Equal(t, 1, f.notifier.count())

	// Age the last alert past the cooldown; the next run re-alerts
	old := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, f.db.Model(&models.CertificationRecord{}).
		Where("id = ?", record.ID).Update("last_notified_at", &old).Error)

	report, err = f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, report.Updated, 1)
	assert.True(t, report.Updated[0].Notified)
	assert.Equal(t, 2, f.notifier.count())
}

func TestSweepIsIdempotentSameDay(t *testing.T) {
	f := newSweepFixture(t, 30)
	f.createRecord(t, models.ComplianceActive, daysFromNow(10))
	asOf := time.Now().UTC()

	first, err := f.sweeper.RunSweep(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, first.Updated, 1)

	second, err := f.sweeper.RunSweep(context.Background(), asOf)
	require.NoError(t, err)
	assert.Empty(t, second.Updated)
	assert.Empty(t, second.Failed)
}

func TestSweepExpiringToExpired(t *testing.T) {
	f := newSweepFixture(t, 30)
	record := f.createRecord(t, models.ComplianceExpiring, daysFromNow(-1))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpiring, report.Updated[0].OldStatus)
	assert.Equal(t, models.ComplianceExpired, f.reload(t, record.ID).Status)
}

func TestSweepSkipsPendingAndExpired(t *testing.T) {
	f := newSweepFixture(t, 30)
	f.createRecord(t, models.CompliancePending, nil)

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
}

func TestSweepContinuesAfterBadRecord(t *testing.T) {
	f := newSweepFixture(t, 30)
	// Invariant-violating row: ACTIVE without an expiry date
	bad := f.createRecord(t, models.ComplianceActive, nil)

	good := models.CertificationRecord{
		TenantID:        f.tenant.ID,
		ProductID:       f.product.ID,
		CountryID:       f.ref.USA.ID,
		CertificationID: f.ref.EnergyStar.ID,
		Status:          models.ComplianceActive,
		ExpiryDate:      daysFromNow(-2),
		LabelingStatus:  models.LabelingPending,
		Version:         1,
	}
	require.NoError(t, f.db.Create(&good).Error)

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, bad.ID, report.Failed[0].RecordID)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpired, f.reload(t, good.ID).Status)
}

func TestSweepConcurrentModificationIsAFailure(t *testing.T) {
	f := newSweepFixture(t, 30)
	record := f.createRecord(t, models.ComplianceActive, daysFromNow(-1))

	// Bump the version after the sweeper would have loaded it
	stale := f.reload(t, record.ID)
	require.NoError(t, f.db.Model(&models.CertificationRecord{}).
		Where("id = ?", record.ID).Update("version", stale.Version+1).Error)

	// Drive sweepRecord directly with the stale snapshot
	_, err := f.sweeper.sweepRecord(context.Background(), &stale, time.Now().UTC(), nil)
	require.Error(t, err)
}

func TestSweepNotifierFailureDoesNotFailTransition(t *testing.T) {
	f := newSweepFixture(t, 30)
	f.notifier.fail = true
	record := f.createRecord(t, models.ComplianceActive, daysFromNow(10))

	report, err := f.sweeper.RunSweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, report.Failed)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, models.ComplianceExpiring, f.reload(t, record.ID).Status)
}

func TestDaysBetween(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, daysBetween(asOf, time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, 1, daysBetween(asOf, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, daysBetween(asOf, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, daysBetween(asOf, time.Date(2026, 4, 9, 6, 0, 0, 0, time.UTC)))
}

func TestMatchThreshold(t *testing.T) {
	rules := []models.NotificationRule{
		{DaysBeforeExpiry: 90, Severity: models.AlertSeverityInfo},
		{DaysBeforeExpiry: 30, Severity: models.AlertSeverityWarning},
		{DaysBeforeExpiry: 7, Severity: models.AlertSeverityCritical},
	}

	maxT, severity := matchThreshold(rules, 5)
	assert.Equal(t, 90, maxT)
	// Tightest matching rule wins the severity
	assert.Equal(t, string(models.AlertSeverityCritical), severity)

	_, severity = matchThreshold(rules, 20)
	assert.Equal(t, string(models.AlertSeverityWarning), severity)

	_, severity = matchThreshold(rules, 60)
	assert.Equal(t, string(models.AlertSeverityInfo), severity)

	maxT, _ = matchThreshold(nil, 5)
	assert.Equal(t, -1, maxT)
}
