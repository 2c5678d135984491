package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/testutil"
)

func TestReloadAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)

	store := NewStore()
	require.NoError(t, store.Reload(db))
	assert.Equal(t, 4, store.RuleCount())
	assert.False(t, store.LoadedAt().IsZero())

	// Wi-Fi in the USA needs FCC plus the optional Energy Star
	reqs := store.RequiredCertifications([]uint{f.WiFi.ID}, f.USA.ID)
	require.Len(t, reqs, 2)

	byName := map[string]Requirement{}
	for _, r := range reqs {
		byName[r.CertificationName] = r
	}
	assert.True(t, byName["FCC Part 15"].Mandatory)
	assert.False(t, byName["Energy Star"].Mandatory)
	assert.Equal(t, f.WiFi.Name, byName["FCC Part 15"].TechnologyName)
}

func TestLookupMultipleTechnologies(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)

	store := NewStore()
	require.NoError(t, store.Reload(db))

	// FCC appears once per contributing technology; grouping is the
	// caller's job
	reqs := store.RequiredCertifications([]uint{f.WiFi.ID, f.Bluetooth.ID}, f.USA.ID)
	fccPairs := 0
	for _, r := range reqs {
		if r.CertificationID == f.FCC.ID {
			fccPairs++
		}
	}
	assert.Equal(t, 2, fccPairs)
}

func TestLookupRepeatedTechnologyIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)

	store := NewStore()
	require.NoError(t, store.Reload(db))

	once := store.RequiredCertifications([]uint{f.WiFi.ID}, f.USA.ID)
	repeated := store.RequiredCertifications([]uint{f.WiFi.ID, f.WiFi.ID}, f.USA.ID)
	assert.Len(t, repeated, len(once))
}

func TestLookupUnknownIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)

	store := NewStore()
	require.NoError(t, store.Reload(db))

	// Absence of a rule means no requirement, not an error
	assert.Empty(t, store.RequiredCertifications([]uint{9999}, f.USA.ID))
	assert.Empty(t, store.RequiredCertifications([]uint{f.WiFi.ID}, 9999))
	assert.Empty(t, store.RequiredCertifications(nil, f.USA.ID))
}

func TestEmptyStoreIsUsable(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.RequiredCertifications([]uint{1}, 1))
	assert.Zero(t, store.RuleCount())
}
