package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/testutil"
)

func TestCreateProductDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	tenant := testutil.SeedTenant(t, db, "acme")
	svc := NewProductService(db)

	p := models.Product{ModelName: "Router X1"}
	require.NoError(t, svc.CreateProduct(tenant.ID, &p, []uint{f.WiFi.ID, f.Bluetooth.ID}))

	// No markets given means all markets
	assert.Equal(t, models.StringList{models.TargetAllMarkets}, p.TargetMarkets)

	fetched, err := svc.GetProduct(tenant.ID, p.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Technologies, 2)
}

func TestCreateProductValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedReferenceData(t, db)
	tenant := testutil.SeedTenant(t, db, "acme")
	svc := NewProductService(db)

	empty := models.Product{ModelName: "  "}
	assert.ErrorIs(t, svc.CreateProduct(tenant.ID, &empty, nil), apperrors.ErrInvalidInput)

	bogus := models.Product{ModelName: "Router X1"}
	assert.ErrorIs(t, svc.CreateProduct(tenant.ID, &bogus, []uint{9999}), apperrors.ErrInvalidInput)
}

func TestProductTenantIsolation(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	acme := testutil.SeedTenant(t, db, "acme")
	rival := testutil.SeedTenant(t, db, "rival")
	svc := NewProductService(db)

	p := testutil.SeedProduct(t, db, acme, "Router X1", []string{"USA"}, f.WiFi)

	// A foreign product is indistinguishable from a missing one
	_, err := svc.GetProduct(rival.ID, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	products, err := svc.GetProducts(rival.ID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestUpdateProductReplacesTechnologies(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	tenant := testutil.SeedTenant(t, db, "acme")
	svc := NewProductService(db)

	p := testutil.SeedProduct(t, db, tenant, "Router X1", []string{"USA"}, f.WiFi)

	updated, err := svc.UpdateProduct(tenant.ID, p.ID, "", "SKU-42", "", []string{"USA", "DEU"}, []uint{f.Bluetooth.ID})
	require.NoError(t, err)
	assert.Equal(t, "Router X1", updated.ModelName)
	assert.Equal(t, "SKU-42", updated.SKU)
	assert.Equal(t, models.StringList{"USA", "DEU"}, updated.TargetMarkets)
	require.Len(t, updated.Technologies, 1)
	assert.Equal(t, f.Bluetooth.ID, updated.Technologies[0].ID)
}

func TestDeleteProductBlockedByRecords(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedReferenceData(t, db)
	tenant := testutil.SeedTenant(t, db, "acme")
	svc := NewProductService(db)

	p := testutil.SeedProduct(t, db, tenant, "Router X1", []string{"USA"}, f.WiFi)
	record := models.CertificationRecord{
		TenantID: tenant.ID, ProductID: p.ID,
		CountryID: f.USA.ID, CertificationID: f.FCC.ID,
		Status: models.CompliancePending, LabelingStatus: models.LabelingPending, Version: 1,
	}
	require.NoError(t, db.Create(&record).Error)

	assert.ErrorIs(t, svc.DeleteProduct(tenant.ID, p.ID), apperrors.ErrConflict)

	// Without records the delete goes through, join rows included
	require.NoError(t, db.Delete(&record).Error)
	require.NoError(t, svc.DeleteProduct(tenant.ID, p.ID))

	_, err := svc.GetProduct(tenant.ID, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var joins int64
	require.NoError(t, db.Model(&models.ProductTechnology{}).Where("product_id = ?", p.ID).Count(&joins).Error)
	assert.Zero(t, joins)
}
