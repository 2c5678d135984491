package models

import (
	"time"

	"github.com/google/uuid"
)

// TargetAllMarkets is the sentinel market code meaning "every country"
const TargetAllMarkets = "ALL"

// Product is a manufactured device registered by a tenant. Its technology
// set plus a target country drive the gap analysis.
type Product struct {
	Base
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant      Tenant    `gorm:"foreignKey:TenantID" json:"-"`
	ModelName   string    `gorm:"type:varchar(100);not null" json:"model_name"`
	SKU         string    `gorm:"type:varchar(50)" json:"sku,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`

	// Target markets: ["ALL"] or a list of ISO codes like ["USA","DEU","KOR"]
	TargetMarkets StringList `gorm:"type:jsonb" json:"target_markets"`

	Technologies []Technology `gorm:"many2many:product_technologies;" json:"technologies,omitempty"`
}

// ProductTechnology is the join row mapping a product to one of its
// technologies. Declared explicitly so gorm names the table and keys the
// way the schema expects.
type ProductTechnology struct {
	ProductID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	TechnologyID uint      `gorm:"primaryKey" json:"technology_id"`
	CreatedAt    time.Time `json:"created_at"`
}
