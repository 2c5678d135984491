package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/testutil"
)

func TestTenantLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewTenantService(db)

	tenant := models.Tenant{Name: "Acme Devices", ContactEmail: "compliance@acme.example"}
	require.NoError(t, svc.CreateTenant(&tenant))
	assert.True(t, tenant.IsActive)

	fetched, err := svc.GetTenant(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Devices", fetched.Name)

	updated, err := svc.UpdateTenant(tenant.ID, "Acme Corp", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "compliance@acme.example", updated.ContactEmail)

	// Deactivation retains the row and every dependent record
	deactivated, err := svc.DeactivateTenant(tenant.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	still, err := svc.GetTenant(tenant.ID)
	require.NoError(t, err)
	assert.False(t, still.IsActive)
}

func TestGetTenantNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewTenantService(db)

	_, err := svc.GetTenant(uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNotificationRules(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewTenantService(db)
	tenant := testutil.SeedTenant(t, db, "acme")

	bad := models.NotificationRule{DaysBeforeExpiry: 0}
	assert.ErrorIs(t, svc.CreateNotificationRule(tenant.ID, &bad), apperrors.ErrValidation)

	for _, days := range []int{30, 90, 7} {
		rule := models.NotificationRule{DaysBeforeExpiry: days}
		require.NoError(t, svc.CreateNotificationRule(tenant.ID, &rule))
		assert.Equal(t, models.AlertSeverityWarning, rule.Severity)
		assert.True(t, rule.IsActive)
	}

	rules, err := svc.GetNotificationRules(tenant.ID)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	// Largest threshold first
	assert.Equal(t, 90, rules[0].DaysBeforeExpiry)
	assert.Equal(t, 7, rules[2].DaysBeforeExpiry)

	updated, err := svc.UpdateNotificationRule(tenant.ID, rules[2].ID, 14, models.AlertSeverityCritical, false)
	require.NoError(t, err)
	assert.Equal(t, 14, updated.DaysBeforeExpiry)
	assert.Equal(t, models.AlertSeverityCritical, updated.Severity)
	assert.False(t, updated.IsActive)

	require.NoError(t, svc.DeleteNotificationRule(tenant.ID, rules[0].ID))
	remaining, err := svc.GetNotificationRules(tenant.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestNotificationRulesAreTenantScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewTenantService(db)
	acme := testutil.SeedTenant(t, db, "acme")
	rival := testutil.SeedTenant(t, db, "rival")

	rule := models.NotificationRule{DaysBeforeExpiry: 30}
	require.NoError(t, svc.CreateNotificationRule(acme.ID, &rule))

	// Another tenant can neither update nor delete it
	_, err := svc.UpdateNotificationRule(rival.ID, rule.ID, 60, "", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteNotificationRule(rival.ID, rule.ID), apperrors.ErrNotFound)

	rules, err := svc.GetNotificationRules(rival.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
