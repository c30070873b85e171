package domain

import (
	"context"
	"errors"
)

type UpdateRequest struct {
	Name         string   `json:"name"`
	Phone        string   `json:"phone"`
	CellPhone    string   `json:"cell_phone"`
	Instagram    string   `json:"instagram"`
	LogoURL      string   `json:"logo_url"`
	LogoSmallURL string   `json:"logo_small_url"`
	Systems      []string `json:"systems"`
	Colors       []Color  `json:"colors"`
}

type Service interface {
	// Get returns the stored branding, or the neutral defaults when none
	// was saved yet.
	Get(ctx context.Context) (WhiteLabel, error)
	Update(ctx context.Context, req UpdateRequest) (WhiteLabel, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidColorType = errors.New("invalid_color_type")
	ErrInvalidColor     = errors.New("invalid_color_value")
	ErrInvalidSystem    = errors.New("invalid_system")
)
