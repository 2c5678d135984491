package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/testutil"
	"gorm.io/gorm"
)

func newRecordFixture(t *testing.T) (*gorm.DB, testutil.Fixture, models.Tenant, models.Product, *RecordService) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	tenant := testutil.SeedTenant(t, db, "acme")
	product := testutil.SeedProduct(t, db, tenant, "Router X1", []string{"USA"}, f.WiFi)
	return db, f, tenant, product, NewRecordService(db)
}

func TestCreatePendingRecord(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	assert.Equal(t, models.CompliancePending, record.Status)
	assert.Equal(t, models.LabelingPending, record.LabelingStatus)
	assert.Nil(t, record.ExpiryDate)
	assert.Equal(t, 1, record.Version)
}

func TestCreatePendingRecordDuplicateConflicts(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	_, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	_, err = records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreatePendingRecordForeignProduct(t *testing.T) {
	db, f, _, product, records := newRecordFixture(t)
	rival := testutil.SeedTenant(t, db, "rival")

	_, err := records.CreatePendingRecord(rival.ID, product.ID, f.USA.ID, f.FCC.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateRecordStatusActivation(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	// ACTIVE without expiry and certificate number is refused
	_, err = records.UpdateRecordStatus(tenant.ID, record.ID, models.ComplianceActive, nil, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	expiry := time.Now().AddDate(1, 0, 0)
	updated, err := records.UpdateRecordStatus(tenant.ID, record.ID, models.ComplianceActive, &expiry, "FCC-2026-001")
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceActive, updated.Status)
	assert.Equal(t, "FCC-2026-001", updated.CertificateNumber)
	assert.Equal(t, 2, updated.Version)
}

func TestUpdateRecordStatusUnknownStatus(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	_, err = records.UpdateRecordStatus(tenant.ID, record.ID, "BOGUS", nil, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateRecordStatusVersionIncrements(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)
	require.Equal(t, 1, record.Version)

	expiry := time.Now().AddDate(1, 0, 0)
	updated, err := records.UpdateRecordStatus(tenant.ID, record.ID, models.ComplianceActive, &expiry, "FCC-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	updated, err = records.UpdateRecordStatus(tenant.ID, record.ID, models.ComplianceExpiring, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Version)
	// Fields set earlier survive a status-only update
	assert.Equal(t, "FCC-1", updated.CertificateNumber)
	require.NotNil(t, updated.ExpiryDate)
}

func TestUpdateLabelingStatus(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	updated, err := records.UpdateLabelingStatus(tenant.ID, record.ID, models.LabelingDone)
	require.NoError(t, err)
	assert.Equal(t, models.LabelingDone, updated.LabelingStatus)
	assert.NotNil(t, updated.LabelingUpdatedAt)

	// Same value again is a no-op, not an error
	again, err := records.UpdateLabelingStatus(tenant.ID, record.ID, models.LabelingDone)
	require.NoError(t, err)
	assert.Equal(t, updated.Version, again.Version)

	_, err = records.UpdateLabelingStatus(tenant.ID, record.ID, "BOGUS")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListRecordsFilters(t *testing.T) {
	_, f, tenant, product, records := newRecordFixture(t)

	_, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)
	_, err = records.CreatePendingRecord(tenant.ID, product.ID, f.Germany.ID, f.CERed.ID)
	require.NoError(t, err)

	all, err := records.ListRecords(tenant.ID, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	usa, err := records.ListRecords(tenant.ID, RecordFilter{CountryID: f.USA.ID})
	require.NoError(t, err)
	require.Len(t, usa, 1)
	assert.Equal(t, f.FCC.ID, usa[0].CertificationID)

	pending, err := records.ListRecords(tenant.ID, RecordFilter{Status: models.CompliancePending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestTaskProgress(t *testing.T) {
	db, f, tenant, product, records := newRecordFixture(t)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	progress, err := records.TaskProgress(tenant.ID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Total)
	assert.Equal(t, 0, progress.Percent)

	tasks := []models.ComplianceTask{
		{RecordID: record.ID, Title: "Book test lab", Status: models.TaskDone},
		{RecordID: record.ID, Title: "Submit report", Status: models.TaskInProgress},
		{RecordID: record.ID, Title: "File application", Status: models.TaskTodo},
		{RecordID: record.ID, Title: "Pay fees", Status: models.TaskDone},
	}
	for i := range tasks {
		require.NoError(t, db.Create(&tasks[i]).Error)
	}

	progress, err = records.TaskProgress(tenant.ID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 2, progress.Done)
	assert.Equal(t, 1, progress.InProgress)
	assert.Equal(t, 1, progress.Pending)
	assert.Equal(t, 50, progress.Percent)
}
