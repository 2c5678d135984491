// Package product manages tenant products: the manufactured devices whose
// technology sets and target markets drive gap analysis. Every operation is
// scoped by tenant ID; a product is never visible to another tenant.
package product

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// ProductService handles product operations
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a new product service
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// CreateProduct registers a product for a tenant with its technology set
// and target markets. Defaults to all markets when none given.
func (s *ProductService) CreateProduct(tenantID uuid.UUID, product *models.Product, technologyIDs []uint) error {
	if strings.TrimSpace(product.ModelName) == "" {
		return apperrors.InvalidInput("model_name is required")
	}

	product.TenantID = tenantID
	if len(product.TargetMarkets) == 0 {
		product.TargetMarkets = models.StringList{models.TargetAllMarkets}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return apperrors.Persistence(err)
		}
		return s.replaceTechnologies(tx, product, technologyIDs)
	})
}

// GetProducts returns all products owned by a tenant
func (s *ProductService) GetProducts(tenantID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Preload("Technologies").Where("tenant_id = ?", tenantID).
		Order("model_name").Find(&products).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return products, nil
}

// GetProduct returns a tenant's product by ID. The tenant filter is part of
// the query itself so a foreign product is indistinguishable from a missing
// one.
func (s *ProductService) GetProduct(tenantID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Technologies").
		First(&product, "id = ? AND tenant_id = ?", productID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %s", productID)
		}
		return nil, apperrors.Persistence(err)
	}
	return &product, nil
}

// UpdateProduct updates product attributes and, when technologyIDs is
// non-nil, replaces the technology set.
func (s *ProductService) UpdateProduct(tenantID, productID uuid.UUID, modelName, sku, description string, targetMarkets []string, technologyIDs []uint) (*models.Product, error) {
	product, err := s.GetProduct(tenantID, productID)
	if err != nil {
		return nil, err
	}

	if modelName != "" {
		product.ModelName = modelName
	}
	if sku != "" {
		product.SKU = sku
	}
	if description != "" {
		product.Description = description
	}
	if targetMarkets != nil {
		product.TargetMarkets = models.StringList(targetMarkets)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return apperrors.Persistence(err)
		}
		if technologyIDs != nil {
			return s.replaceTechnologies(tx, product, technologyIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(tenantID, productID)
}

// DeleteProduct removes a product. Refused while certification records
// still reference it: compliance history must stay intact.
func (s *ProductService) DeleteProduct(tenantID, productID uuid.UUID) error {
	product, err := s.GetProduct(tenantID, productID)
	if err != nil {
		return err
	}

	var recordCount int64
	if err := s.db.Model(&models.CertificationRecord{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&recordCount).Error; err != nil {
		return apperrors.Persistence(err)
	}
	if recordCount > 0 {
		return apperrors.Conflict("product %s has %d certification records; delete is not allowed", productID, recordCount)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductTechnology{}).Error; err != nil {
			return apperrors.Persistence(err)
		}
		if err := tx.Delete(product).Error; err != nil {
			return apperrors.Persistence(err)
		}
		return nil
	})
}

// GetTechnologyIDs returns the IDs of a product's technologies
func (s *ProductService) GetTechnologyIDs(tenantID, productID uuid.UUID) ([]uint, error) {
	product, err := s.GetProduct(tenantID, productID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(product.Technologies))
	for _, t := range product.Technologies {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// replaceTechnologies verifies every referenced technology exists, then
// swaps the product's mapping rows inside the caller's transaction.
func (s *ProductService) replaceTechnologies(tx *gorm.DB, product *models.Product, technologyIDs []uint) error {
	if len(technologyIDs) > 0 {
		var count int64
		if err := tx.Model(&models.Technology{}).Where("id IN ?", technologyIDs).Count(&count).Error; err != nil {
			return apperrors.Persistence(err)
		}
		if int(count) != len(technologyIDs) {
			return apperrors.InvalidInput("one or more technology IDs do not exist")
		}
	}

	if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductTechnology{}).Error; err != nil {
		return apperrors.Persistence(err)
	}
	for _, techID := range technologyIDs {
		mapping := models.ProductTechnology{ProductID: product.ID, TechnologyID: techID}
		if err := tx.Create(&mapping).Error; err != nil {
			return apperrors.Persistence(err)
		}
	}
	return nil
}
