package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ColorType names a slot in the branding palette.
type ColorType string

const (
	ColorPrimary    ColorType = "primary"
	ColorSecondary  ColorType = "secondary"
	ColorBackground ColorType = "background"
	ColorText       ColorType = "text"
)

func ParseColorType(raw string) (ColorType, error) {
	switch ColorType(raw) {
	case ColorPrimary, ColorSecondary, ColorBackground, ColorText:
		return ColorType(raw), nil
	}
	return "", ErrInvalidColorType
}

func (t ColorType) Label() string {
	switch t {
	case ColorPrimary:
		return "Cor primária"
	case ColorSecondary:
		return "Cor secundária"
	case ColorBackground:
		return "Cor de fundo"
	case ColorText:
		return "Cor do texto"
	}
	return "Desconhecida"
}

// Color is one palette entry as RGB components.
type Color struct {
	Type ColorType `json:"type"`
	R    int       `json:"r"`
	G    int       `json:"g"`
	B    int       `json:"b"`
}

// WhiteLabel holds the reseller's branding applied to the systems it
// distributes. A single settings row per installation.
type WhiteLabel struct {
	ID           snowflake.ID   `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:text;not null"`
	Phone        string         `json:"phone" gorm:"type:text"`
	CellPhone    string         `json:"cell_phone" gorm:"column:cell_phone;type:text"`
	Instagram    string         `json:"instagram" gorm:"type:text"`
	LogoURL      string         `json:"logo_url" gorm:"column:logo_url;type:text"`
	LogoSmallURL string         `json:"logo_small_url" gorm:"column:logo_small_url;type:text"`
	Systems      datatypes.JSON `json:"systems" gorm:"type:jsonb"`
	Colors       datatypes.JSON `json:"colors" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WhiteLabel) TableName() string { return "whitelabel_settings" }
