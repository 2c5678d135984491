// Package testutil provides the shared database fixture for service tests.
// Tests run against an in-memory SQLite database with the schema built from
// the model definitions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB opens a fresh in-memory database, migrated and isolated per call
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Technology{},
		&models.Country{},
		&models.Certification{},
		&models.RegulatoryRule{},
		&models.Tenant{},
		&models.NotificationRule{},
		&models.Product{},
		&models.ProductTechnology{},
		&models.CertificationRecord{},
		&models.ComplianceTask{},
		&models.ComplianceTaskNote{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Fixture is the reference data seeded by SeedReferenceData
type Fixture struct {
	WiFi       models.Technology
	Bluetooth  models.Technology
	USA        models.Country
	Germany    models.Country
	FCC        models.Certification
	CERed      models.Certification
	EnergyStar models.Certification
}

// SeedReferenceData populates technologies, countries, certifications and
// matrix rules:
//
//	USA: Wi-Fi -> FCC, Bluetooth -> FCC, Wi-Fi -> Energy Star (optional)
//	DEU: Wi-Fi -> CE RED
func SeedReferenceData(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		WiFi:       models.Technology{Name: "Wi-Fi 6E"},
		Bluetooth:  models.Technology{Name: "Bluetooth 5.3"},
		USA:        models.Country{Name: "United States", ISOCode: "USA"},
		Germany:    models.Country{Name: "Germany", ISOCode: "DEU"},
		FCC:        models.Certification{Name: "FCC Part 15", AuthorityName: "FCC"},
		CERed:      models.Certification{Name: "CE RED", AuthorityName: "EU"},
		EnergyStar: models.Certification{Name: "Energy Star", AuthorityName: "EPA"},
	}

	require.NoError(t, db.Create(&f.WiFi).Error)
	require.NoError(t, db.Create(&f.Bluetooth).Error)
	require.NoError(t, db.Create(&f.USA).Error)
	require.NoError(t, db.Create(&f.Germany).Error)
	require.NoError(t, db.Create(&f.FCC).Error)
	require.NoError(t, db.Create(&f.CERed).Error)
	require.NoError(t, db.Create(&f.EnergyStar).Error)

	rules := []models.RegulatoryRule{
		{TechnologyID: f.WiFi.ID, CountryID: f.USA.ID, CertificationID: f.FCC.ID, IsMandatory: true},
		{TechnologyID: f.Bluetooth.ID, CountryID: f.USA.ID, CertificationID: f.FCC.ID, IsMandatory: true},
		{TechnologyID: f.WiFi.ID, CountryID: f.USA.ID, CertificationID: f.EnergyStar.ID, IsMandatory: false},
		{TechnologyID: f.WiFi.ID, CountryID: f.Germany.ID, CertificationID: f.CERed.ID, IsMandatory: true},
	}
	for i := range rules {
		require.NoError(t, db.Create(&rules[i]).Error)
	}

	return f
}

// SeedTenant creates an active tenant
func SeedTenant(t *testing.T, db *gorm.DB, name string) models.Tenant {
	t.Helper()

	tenant := models.Tenant{Name: name, ContactEmail: name + "@example.com", IsActive: true}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

// SeedProduct creates a product with the given technologies and markets
func SeedProduct(t *testing.T, db *gorm.DB, tenant models.Tenant, modelName string, markets []string, techs ...models.Technology) models.Product {
	t.Helper()

	product := models.Product{
		TenantID:      tenant.ID,
		ModelName:     modelName,
		TargetMarkets: models.StringList(markets),
		Technologies:  techs,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}
