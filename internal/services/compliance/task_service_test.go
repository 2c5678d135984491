package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/testutil"
)

func TestTaskLifecycle(t *testing.T) {
	db, f, tenant, product, records := newRecordFixture(t)
	tasks := NewTaskService(db)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	task := models.ComplianceTask{Title: "Book test lab", Assignee: "kim"}
	require.NoError(t, tasks.CreateTask(tenant.ID, record.ID, &task))
	assert.Equal(t, models.TaskTodo, task.Status)

	untitled := models.ComplianceTask{Title: "  "}
	assert.ErrorIs(t, tasks.CreateTask(tenant.ID, record.ID, &untitled), apperrors.ErrInvalidInput)

	updated, err := tasks.UpdateTask(tenant.ID, task.ID, models.TaskInProgress, "", "", "lee")
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, updated.Status)
	assert.Equal(t, "lee", updated.Assignee)
	assert.Equal(t, "Book test lab", updated.Title)

	_, err = tasks.UpdateTask(tenant.ID, task.ID, "BOGUS", "", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	listed, err := tasks.ListTasks(tenant.ID, record.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestTaskNotes(t *testing.T) {
	db, f, tenant, product, records := newRecordFixture(t)
	tasks := NewTaskService(db)

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	task := models.ComplianceTask{Title: "Submit report"}
	require.NoError(t, tasks.CreateTask(tenant.ID, record.ID, &task))

	empty := models.ComplianceTaskNote{Note: " "}
	assert.ErrorIs(t, tasks.AddNote(tenant.ID, task.ID, &empty), apperrors.ErrInvalidInput)

	first := models.ComplianceTaskNote{Note: "lab slot confirmed", Author: "kim"}
	require.NoError(t, tasks.AddNote(tenant.ID, task.ID, &first))
	second := models.ComplianceTaskNote{Note: "report draft uploaded", Author: "lee"}
	require.NoError(t, tasks.AddNote(tenant.ID, task.ID, &second))

	notes, err := tasks.ListNotes(tenant.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
}

func TestTasksAreTenantScoped(t *testing.T) {
	db, f, tenant, product, records := newRecordFixture(t)
	tasks := NewTaskService(db)
	rival := testutil.SeedTenant(t, db, "rival")

	record, err := records.CreatePendingRecord(tenant.ID, product.ID, f.USA.ID, f.FCC.ID)
	require.NoError(t, err)

	task := models.ComplianceTask{Title: "Submit report"}
	require.NoError(t, tasks.CreateTask(tenant.ID, record.ID, &task))

	// Access through the wrong tenant is a not-found, never a leak
	_, err = tasks.GetTask(rival.ID, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = tasks.ListTasks(rival.ID, record.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, tasks.CreateTask(rival.ID, record.ID, &models.ComplianceTask{Title: "x"}), apperrors.ErrNotFound)
}
