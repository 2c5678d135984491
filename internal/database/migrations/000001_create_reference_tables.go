package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateReferenceTables creates the shared reference data tables:
// technologies, countries, certifications and the regulatory matrix.
func CreateReferenceTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_reference_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS technologies (
					id SERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL UNIQUE,
					description TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS countries (
					id SERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					iso_code VARCHAR(3) NOT NULL UNIQUE,
					details JSONB,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS certifications (
					id SERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL UNIQUE,
					authority_name VARCHAR(100),
					description TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS regulatory_rules (
					id SERIAL PRIMARY KEY,
					technology_id INTEGER NOT NULL REFERENCES technologies(id) ON DELETE CASCADE,
					country_id INTEGER NOT NULL REFERENCES countries(id) ON DELETE CASCADE,
					certification_id INTEGER NOT NULL REFERENCES certifications(id) ON DELETE CASCADE,
					is_mandatory BOOLEAN NOT NULL DEFAULT TRUE,
					notes TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					CONSTRAINT uq_regulatory_rule UNIQUE (technology_id, country_id, certification_id)
				);

				CREATE INDEX idx_regulatory_rules_technology ON regulatory_rules(technology_id);
				CREATE INDEX idx_regulatory_rules_country ON regulatory_rules(country_id);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS regulatory_rules;
				DROP TABLE IF EXISTS certifications;
				DROP TABLE IF EXISTS countries;
				DROP TABLE IF EXISTS technologies;
			`).Error
		},
	}
}
