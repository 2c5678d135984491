package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/middleware"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/services/product"
)

// ProductHandler handles product catalog requests
type ProductHandler struct {
	products *product.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// CreateProduct registers a product with its technologies and target markets
// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ModelName     string   `json:"model_name" binding:"required"`
		SKU           string   `json:"sku"`
		Description   string   `json:"description"`
		TargetMarkets []string `json:"target_markets"`
		TechnologyIDs []uint   `json:"technology_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model_name is required"})
		return
	}

	p := models.Product{
		ModelName:     req.ModelName,
		SKU:           req.SKU,
		Description:   req.Description,
		TargetMarkets: models.StringList(req.TargetMarkets),
	}
	if err := h.products.CreateProduct(tenantID, &p, req.TechnologyIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ListProducts lists the tenant's products
// GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	products, err := h.products.GetProducts(tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct returns one of the tenant's products
// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	p, err := h.products.GetProduct(tenantID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProduct updates a product's fields, markets and technologies
// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		ModelName     string   `json:"model_name"`
		SKU           string   `json:"sku"`
		Description   string   `json:"description"`
		TargetMarkets []string `json:"target_markets"`
		TechnologyIDs []uint   `json:"technology_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	p, err := h.products.UpdateProduct(tenantID, productID, req.ModelName, req.SKU, req.Description, req.TargetMarkets, req.TechnologyIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProduct removes a product without certification records
// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.products.DeleteProduct(tenantID, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
