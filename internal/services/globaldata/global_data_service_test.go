package globaldata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/testutil"
)

func TestTechnologyCRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewGlobalDataService(db)

	tech := models.Technology{Name: "UWB"}
	require.NoError(t, svc.CreateTechnology(&tech))

	dup := models.Technology{Name: "UWB"}
	assert.ErrorIs(t, svc.CreateTechnology(&dup), apperrors.ErrConflict)

	blank := models.Technology{Name: " "}
	assert.ErrorIs(t, svc.CreateTechnology(&blank), apperrors.ErrInvalidInput)

	updated, err := svc.UpdateTechnology(tech.ID, "UWB (802.15.4z)", "ranging radio")
	require.NoError(t, err)
	assert.Equal(t, "UWB (802.15.4z)", updated.Name)

	require.NoError(t, svc.DeleteTechnology(tech.ID))
	_, err = svc.GetTechnology(tech.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCountryISOCodeNormalized(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewGlobalDataService(db)

	country := models.Country{Name: "Japan", ISOCode: "jpn"}
	require.NoError(t, svc.CreateCountry(&country))
	assert.Equal(t, "JPN", country.ISOCode)

	dup := models.Country{Name: "Japan 2", ISOCode: "JPN"}
	assert.ErrorIs(t, svc.CreateCountry(&dup), apperrors.ErrConflict)

	found, err := svc.GetCountriesByISOCodes([]string{"jpn"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, country.ID, found[0].ID)
}

func TestCreateRuleVerifiesReferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	svc := NewGlobalDataService(db)

	bogus := models.RegulatoryRule{TechnologyID: 9999, CountryID: f.USA.ID, CertificationID: f.FCC.ID}
	assert.ErrorIs(t, svc.CreateRule(&bogus), apperrors.ErrNotFound)

	// The (technology, country, certification) triple is unique
	dup := models.RegulatoryRule{TechnologyID: f.WiFi.ID, CountryID: f.USA.ID, CertificationID: f.FCC.ID}
	assert.ErrorIs(t, svc.CreateRule(&dup), apperrors.ErrConflict)

	fresh := models.RegulatoryRule{TechnologyID: f.Bluetooth.ID, CountryID: f.Germany.ID, CertificationID: f.CERed.ID, IsMandatory: true}
	require.NoError(t, svc.CreateRule(&fresh))
}

func TestGetRulesFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	svc := NewGlobalDataService(db)

	all, err := svc.GetRules(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	usa, err := svc.GetRules(0, f.USA.ID)
	require.NoError(t, err)
	assert.Len(t, usa, 3)

	wifiUSA, err := svc.GetRules(f.WiFi.ID, f.USA.ID)
	require.NoError(t, err)
	assert.Len(t, wifiUSA, 2)
	// Preloaded names for display
	assert.Equal(t, "Wi-Fi 6E", wifiUSA[0].Technology.Name)
}

func TestDeleteTechnologyCascadesRules(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	svc := NewGlobalDataService(db)

	require.NoError(t, svc.DeleteTechnology(f.WiFi.ID))

	remaining, err := svc.GetRules(0, 0)
	require.NoError(t, err)
	// Wi-Fi carried three of the four rules
	assert.Len(t, remaining, 1)
}
