package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateComplianceTables creates certification records, tasks and task notes.
func CreateComplianceTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_compliance_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS certification_records (
					id UUID PRIMARY KEY,
					tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
					product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
					country_id INTEGER NOT NULL REFERENCES countries(id) ON DELETE CASCADE,
					certification_id INTEGER NOT NULL REFERENCES certifications(id) ON DELETE CASCADE,
					status VARCHAR(20) NOT NULL CHECK (status IN ('PENDING', 'ACTIVE', 'EXPIRING', 'EXPIRED')),
					expiry_date DATE,
					certificate_number VARCHAR(100),
					labeling_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
					labeling_updated_at TIMESTAMP WITH TIME ZONE,
					last_notified_at TIMESTAMP WITH TIME ZONE,
					version INTEGER NOT NULL DEFAULT 1,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE,
					CONSTRAINT uq_certification_record UNIQUE (tenant_id, product_id, country_id, certification_id)
				);

				CREATE INDEX idx_certification_records_tenant ON certification_records(tenant_id);
				CREATE INDEX idx_certification_records_status ON certification_records(status);
				CREATE INDEX idx_certification_records_expiry ON certification_records(expiry_date);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS compliance_tasks (
					id UUID PRIMARY KEY,
					record_id UUID NOT NULL REFERENCES certification_records(id) ON DELETE CASCADE,
					title VARCHAR(200) NOT NULL,
					description TEXT,
					status VARCHAR(20) NOT NULL DEFAULT 'TODO',
					assignee VARCHAR(100),
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_compliance_tasks_record ON compliance_tasks(record_id);

				CREATE TABLE IF NOT EXISTS compliance_task_notes (
					id UUID PRIMARY KEY,
					task_id UUID NOT NULL REFERENCES compliance_tasks(id) ON DELETE CASCADE,
					note TEXT NOT NULL,
					author VARCHAR(100),
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_compliance_task_notes_task ON compliance_task_notes(task_id);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS compliance_task_notes;
				DROP TABLE IF EXISTS compliance_tasks;
				DROP TABLE IF EXISTS certification_records;
			`).Error
		},
	}
}
