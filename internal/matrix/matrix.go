/// Package matrix holds an in-memory snapshot of the regulatory matrix
// mapping (technology, country) to required certifications. The snapshot
// is rebuilt explicitly via Reload after rule edits and is read-only
// between reloads, so lookups are safe for concurrent use.
package matrix

import (
	"fmt"
	"sync"
	"time"

	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// Requirement is one (certification, technology) requirement pair produced
// by a matrix lookup. The same certification can appear once per
// contributing technology; grouping to one row per certification is the
// gap analysis engine's job.
type Requirement struct {
	CertificationID   uint   `json:"certification_id"`
	CertificationName string `json:"certification_name"`
	TechnologyID      uint   `json:"technology_id"`
	TechnologyName    string `json:"technology_name"`
	Mandatory         bool   `json:"mandatory"`
}

type ruleKey struct {
	technologyID uint
	countryID    uint
}

// Store is the snapshot container. Zero value is usable and empty;
// call Reload to populate it.
type Store struct {
	mu       sync.RWMutex
	rules    map[ruleKey][]Requirement
	loadedAt time.Time
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{rules: make(map[ruleKey][]Requirement)}
}

// Reload replaces the snapshot with the current regulatory_rules content.
// Callers invoke it at startup and after administrative rule edits.
func (s *Store) Reload(db *gorm.DB) error {
	var rows []models.RegulatoryRule
	if err := db.Preload("Technology").Preload("Certification").Find(&rows).Error; err != nil {
		return fmt.Errorf("loading regulatory rules: %w", err)
	}

	rules := make(map[ruleKey][]Requirement, len(rows))
	for _, r := range rows {
		key := ruleKey{technologyID: r.TechnologyID, countryID: r.CountryID}
		rules[key] = append(rules[key], Requirement{
			CertificationID:   r.CertificationID,
			CertificationName: r.Certification.Name,
			TechnologyID:      r.TechnologyID,
			TechnologyName:    r.Technology.Name,
			Mandatory:         r.IsMandatory,
		})
	}

	s.mu.Lock()
	s.rules = rules
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// RequiredCertifications returns every (certification, technology) pair
// required for the given technology set in the given country. Unknown
// technology or country IDs simply contribute nothing: absence of a rule
// means "no requirement", not an error. No ordering is guaranteed.
func (s *Store) RequiredCertifications(technologyIDs []uint, countryID uint) []Requirement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Requirement
	seen := make(map[ruleKey]bool, len(technologyIDs))
	for _, techID := range technologyIDs {
		key := ruleKey{technologyID: techID, countryID: countryID}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s.rules[key]...)
	}
	return out
}

// LoadedAt reports when the snapshot was last built
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// RuleCount reports how many requirement pairs the snapshot holds
func (s *Store) RuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, reqs := range s.rules {
		n += len(reqs)
	}
	return n
}
