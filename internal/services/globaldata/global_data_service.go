// Package globaldata manages the shared reference data: technologies,
// countries, certifications and the regulatory matrix rows. This data is
// global (no tenant_id); tenants read it, only administrators change it.
package globaldata

import (
	"errors"
	"strings"

	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/database"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// GlobalDataService handles reference data operations
type GlobalDataService struct {
	db *gorm.DB
}

// NewGlobalDataService creates a new global data service
func NewGlobalDataService(db *gorm.DB) *GlobalDataService {
	return &GlobalDataService{db: db}
}

// ============================================
// Technologies
// ============================================

// CreateTechnology creates a new technology
func (s *GlobalDataService) CreateTechnology(tech *models.Technology) error {
	if strings.TrimSpace(tech.Name) == "" {
		return apperrors.InvalidInput("technology name is required")
	}
	if err := s.db.Create(tech).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("technology %q already exists", tech.Name)
		}
		return apperrors.Persistence(err)
	}
	return nil
}

// GetTechnologies returns all technologies
func (s *GlobalDataService) GetTechnologies() ([]models.Technology, error) {
	var techs []models.Technology
	if err := s.db.Order("name").Find(&techs).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return techs, nil
}

// GetTechnology returns a technology by ID
func (s *GlobalDataService) GetTechnology(id uint) (*models.Technology, error) {
	var tech models.Technology
	if err := s.db.First(&tech, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("technology %d", id)
		}
		return nil, apperrors.Persistence(err)
	}
	return &tech, nil
}

// UpdateTechnology updates name/description of a technology
func (s *GlobalDataService) UpdateTechnology(id uint, name, description string) (*models.Technology, error) {
	tech, err := s.GetTechnology(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		tech.Name = name
	}
	tech.Description = description
	if err := s.db.Save(tech).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("technology %q already exists", name)
		}
		return nil, apperrors.Persistence(err)
	}
	return tech, nil
}

// DeleteTechnology removes a technology and its matrix rows
func (s *GlobalDataService) DeleteTechnology(id uint) error {
	if _, err := s.GetTechnology(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("technology_id = ?", id).Delete(&models.RegulatoryRule{}).Error; err != nil {
			return apperrors.Persistence(err)
		}
		if err := tx.Delete(&models.Technology{}, "id = ?", id).Error; err != nil {
			return apperrors.Persistence(err)
		}
		return nil
	})
}

// ============================================
// Countries
// ============================================

// CreateCountry creates a new country
func (s *GlobalDataService) CreateCountry(country *models.Country) error {
	if strings.TrimSpace(country.Name) == "" || strings.TrimSpace(country.ISOCode) == "" {
		return apperrors.InvalidInput("country name and iso_code are required")
	}
	country.ISOCode = strings.ToUpper(country.ISOCode)
	if err := s.db.Create(country).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("country with ISO code %q already exists", country.ISOCode)
		}
		return apperrors.Persistence(err)
	}
	return nil
}

// GetCountries returns all countries
func (s *GlobalDataService) GetCountries() ([]models.Country, error) {
	var countries []models.Country
	if err := s.db.Order("name").Find(&countries).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return countries, nil
}

// GetCountry returns a country by ID
func (s *GlobalDataService) GetCountry(id uint) (*models.Country, error) {
	var country models.Country
	if err := s.db.First(&country, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("country %d", id)
		}
		return nil, apperrors.Persistence(err)
	}
	return &country, nil
}

// GetCountriesByISOCodes returns all countries matching the given ISO codes
func (s *GlobalDataService) GetCountriesByISOCodes(codes []string) ([]models.Country, error) {
	upper := make([]string, 0, len(codes))
	for _, c := range codes {
		upper = append(upper, strings.ToUpper(c))
	}
	var countries []models.Country
	if err := s.db.Where("iso_code IN ?", upper).Find(&countries).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return countries, nil
}

// DeleteCountry removes a country and its matrix rows
func (s *GlobalDataService) DeleteCountry(id uint) error {
	if _, err := s.GetCountry(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("country_id = ?", id).Delete(&models.RegulatoryRule{}).Error; err != nil {
			return apperrors.Persistence(err)
		}
		if err := tx.Delete(&models.Country{}, "id = ?", id).Error; err != nil {
			return apperrors.Persistence(err)
		}
		return nil
	})
}

// ============================================
// Certifications
// ============================================

// CreateCertification creates a new certification
func (s *GlobalDataService) CreateCertification(cert *models.Certification) error {
	if strings.TrimSpace(cert.Name) == "" {
		return apperrors.InvalidInput("certification name is required")
	}
	if err := s.db.Create(cert).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("certification %q already exists", cert.Name)
		}
		return apperrors.Persistence(err)
	}
	return nil
}

// GetCertifications returns all certifications
func (s *GlobalDataService) GetCertifications() ([]models.Certification, error) {
	var certs []models.Certification
	if err := s.db.Order("name").Find(&certs).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return certs, nil
}

// GetCertification returns a certification by ID
func (s *GlobalDataService) GetCertification(id uint) (*models.Certification, error) {
	var cert models.Certification
	if err := s.db.First(&cert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("certification %d", id)
		}
		return nil, apperrors.Persistence(err)
	}
	return &cert, nil
}

// ============================================
// Regulatory matrix rules
// ============================================

// CreateRule adds a new regulatory matrix row after verifying its triple
func (s *GlobalDataService) CreateRule(rule *models.RegulatoryRule) error {
	if _, err := s.GetTechnology(rule.TechnologyID); err != nil {
		return err
	}
	if _, err := s.GetCountry(rule.CountryID); err != nil {
		return err
	}
	if _, err := s.GetCertification(rule.CertificationID); err != nil {
		return err
	}

	if err := s.db.Create(rule).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("rule (tech=%d, country=%d, cert=%d) already exists",
				rule.TechnologyID, rule.CountryID, rule.CertificationID)
		}
		return apperrors.Persistence(err)
	}
	return nil
}

// GetRules returns matrix rows, optionally filtered by technology and country
func (s *GlobalDataService) GetRules(technologyID, countryID uint) ([]models.RegulatoryRule, error) {
	query := s.db.Preload("Technology").Preload("Country").Preload("Certification")
	if technologyID != 0 {
		query = query.Where("technology_id = ?", technologyID)
	}
	if countryID != 0 {
		query = query.Where("country_id = ?", countryID)
	}

	var rules []models.RegulatoryRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return rules, nil
}

// DeleteRule removes a matrix row
func (s *GlobalDataService) DeleteRule(id uint) error {
	result := s.db.Delete(&models.RegulatoryRule{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("regulatory rule %d", id)
	}
	return nil
}
