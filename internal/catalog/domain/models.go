package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/internal/pricing"
	"gorm.io/datatypes"
)

// Plan is a sellable base plan. Features holds the marketing bullet list
// rendered on the plan card.
type Plan struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:text;not null"`
	Price     float64        `json:"price" gorm:"type:numeric;not null"`
	Machines  int            `json:"machines" gorm:"not null;default:1"`
	Color     string         `json:"color" gorm:"type:text"`
	Features  datatypes.JSON `json:"features" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string { return "plans" }

// Module is an add-on sold alongside a plan. QuantityAllowed marks modules
// sold per unit; the rest are flat-priced toggles.
type Module struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	Description     string       `json:"description" gorm:"type:text;not null"`
	Price           float64      `json:"price" gorm:"type:numeric;not null"`
	FreeQuantity    int          `json:"free_quantity" gorm:"column:free_quantity;not null;default:0"`
	QuantityAllowed bool         `json:"quantity_allowed" gorm:"column:quantity_allowed;not null;default:false"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Tiers []PriceTier `json:"tiers" gorm:"-"`
}

func (Module) TableName() string { return "modules" }

// PriceTier is one quantity band of a module's price table. Bands are
// inclusive on both ends.
type PriceTier struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	ModuleID        snowflake.ID `json:"module_id" gorm:"column:module_id;not null;index"`
	InitialQuantity int          `json:"initial_quantity" gorm:"column:initial_quantity;not null"`
	FinalQuantity   int          `json:"final_quantity" gorm:"column:final_quantity;not null"`
	UnitPrice       float64      `json:"unit_price" gorm:"column:unit_price;type:numeric;not null"`
}

func (PriceTier) TableName() string { return "module_price_tiers" }

// ToPricing projects the catalog entry into the calculator's view.
func (m Module) ToPricing() pricing.Module {
	tiers := make([]pricing.PriceTier, 0, len(m.Tiers))
	for _, t := range m.Tiers {
		tiers = append(tiers, pricing.PriceTier{
			InitialQuantity: t.InitialQuantity,
			FinalQuantity:   t.FinalQuantity,
			UnitPrice:       t.UnitPrice,
		})
	}
	return pricing.Module{
		ID:              m.ID.Int64(),
		Description:     m.Description,
		Price:           m.Price,
		FreeQuantity:    m.FreeQuantity,
		QuantityAllowed: m.QuantityAllowed,
		Tiers:           tiers,
	}
}

func (p Plan) ToPricing() pricing.Plan {
	return pricing.Plan{Price: p.Price}
}
