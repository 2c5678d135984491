package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateTenantTables creates tenants, notification rules, products and the
// product-technology mapping.
func CreateTenantTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_tenant_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS tenants (
					id UUID PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					contact_email VARCHAR(150) NOT NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE TABLE IF NOT EXISTS notification_rules (
					id UUID PRIMARY KEY,
					tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
					days_before_expiry INTEGER NOT NULL,
					severity VARCHAR(20) NOT NULL DEFAULT 'warning',
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_notification_rules_tenant ON notification_rules(tenant_id);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS products (
					id UUID PRIMARY KEY,
					tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
					model_name VARCHAR(100) NOT NULL,
					sku VARCHAR(50),
					description TEXT,
					target_markets JSONB DEFAULT '["ALL"]',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_products_tenant ON products(tenant_id);

				CREATE TABLE IF NOT EXISTS product_technologies (
					product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
					technology_id INTEGER NOT NULL REFERENCES technologies(id) ON DELETE CASCADE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					PRIMARY KEY (product_id, technology_id)
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS product_technologies;
				DROP TABLE IF EXISTS products;
				DROP TABLE IF EXISTS notification_rules;
				DROP TABLE IF EXISTS tenants;
			`).Error
		},
	}
}
