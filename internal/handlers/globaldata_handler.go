package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/services/globaldata"
)

// GlobalDataHandler handles the shared reference data: technologies,
// countries, certifications and the regulatory matrix rules. All routes are
// admin-only.
type GlobalDataHandler struct {
	global *globaldata.GlobalDataService
}

// NewGlobalDataHandler creates a new global data handler
func NewGlobalDataHandler(global *globaldata.GlobalDataService) *GlobalDataHandler {
	return &GlobalDataHandler{global: global}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// CreateTechnology registers a technology
// POST /api/admin/technologies
func (h *GlobalDataHandler) CreateTechnology(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	tech := models.Technology{Name: req.Name, Description: req.Description}
	if err := h.global.CreateTechnology(&tech); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tech)
}

// ListTechnologies lists all technologies
// GET /api/admin/technologies
func (h *GlobalDataHandler) ListTechnologies(c *gin.Context) {
	techs, err := h.global.GetTechnologies()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"technologies": techs, "count": len(techs)})
}

// DeleteTechnology removes an unreferenced technology
// DELETE /api/admin/technologies/:id
func (h *GlobalDataHandler) DeleteTechnology(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.global.DeleteTechnology(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Technology deleted"})
}

// CreateCountry registers a country
// POST /api/admin/countries
func (h *GlobalDataHandler) CreateCountry(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		ISOCode string `json:"iso_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and iso_code are required"})
		return
	}

	country := models.Country{Name: req.Name, ISOCode: req.ISOCode}
	if err := h.global.CreateCountry(&country); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, country)
}

// ListCountries lists all countries
// GET /api/admin/countries
func (h *GlobalDataHandler) ListCountries(c *gin.Context) {
	countries, err := h.global.GetCountries()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"countries": countries, "count": len(countries)})
}

// DeleteCountry removes an unreferenced country
// DELETE /api/admin/countries/:id
func (h *GlobalDataHandler) DeleteCountry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.global.DeleteCountry(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Country deleted"})
}

// CreateCertification registers a certification
// POST /api/admin/certifications
func (h *GlobalDataHandler) CreateCertification(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		AuthorityName string `json:"authority_name"`
		Description   string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	cert := models.Certification{Name: req.Name, AuthorityName: req.AuthorityName, Description: req.Description}
	if err := h.global.CreateCertification(&cert); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cert)
}

// ListCertifications lists all certifications
// GET /api/admin/certifications
func (h *GlobalDataHandler) ListCertifications(c *gin.Context) {
	certs, err := h.global.GetCertifications()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certifications": certs, "count": len(certs)})
}

// CreateRule adds a (technology, country, certification) matrix entry.
// Takes effect in analyses after a matrix reload.
// POST /api/admin/rules
func (h *GlobalDataHandler) CreateRule(c *gin.Context) {
	var req struct {
		TechnologyID    uint   `json:"technology_id" binding:"required"`
		CountryID       uint   `json:"country_id" binding:"required"`
		CertificationID uint   `json:"certification_id" binding:"required"`
		IsMandatory     *bool  `json:"is_mandatory"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "technology_id, country_id and certification_id are required"})
		return
	}

	mandatory := true
	if req.IsMandatory != nil {
		mandatory = *req.IsMandatory
	}

	rule := models.RegulatoryRule{
		TechnologyID:    req.TechnologyID,
		CountryID:       req.CountryID,
		CertificationID: req.CertificationID,
		IsMandatory:     mandatory,
		Notes:           req.Notes,
	}
	if err := h.global.CreateRule(&rule); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// ListRules lists matrix rules, optionally filtered by technology or country
// GET /api/admin/rules?technology_id=&country_id=
func (h *GlobalDataHandler) ListRules(c *gin.Context) {
	var technologyID, countryID uint
	if raw := c.Query("technology_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid technology ID"})
			return
		}
		technologyID = uint(id)
	}
	if raw := c.Query("country_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid country ID"})
			return
		}
		countryID = uint(id)
	}

	rules, err := h.global.GetRules(technologyID, countryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules, "count": len(rules)})
}

// DeleteRule removes a matrix rule
// DELETE /api/admin/rules/:id
func (h *GlobalDataHandler) DeleteRule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.global.DeleteRule(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted"})
}
