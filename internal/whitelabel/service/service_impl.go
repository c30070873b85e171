package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/whitelabel/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("whitelabel.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.WhiteLabel, error) {
	settings, err := s.repo.Find(ctx, s.db)
	if err != nil {
		return domain.WhiteLabel{}, err
	}
	if settings == nil {
		return defaults(), nil
	}
	return *settings, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.WhiteLabel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.WhiteLabel{}, domain.ErrInvalidName
	}

	for _, system := range req.Systems {
		if strings.TrimSpace(system) == "" {
			return domain.WhiteLabel{}, domain.ErrInvalidSystem
		}
	}
	for _, color := range req.Colors {
		if _, err := domain.ParseColorType(string(color.Type)); err != nil {
			return domain.WhiteLabel{}, err
		}
		if !validComponent(color.R) || !validComponent(color.G) || !validComponent(color.B) {
			return domain.WhiteLabel{}, domain.ErrInvalidColor
		}
	}

	systemsJSON, err := json.Marshal(req.Systems)
	if err != nil {
		return domain.WhiteLabel{}, err
	}
	colorsJSON, err := json.Marshal(req.Colors)
	if err != nil {
		return domain.WhiteLabel{}, err
	}

	now := s.clock.Now()
	settings := domain.WhiteLabel{
		ID:           s.genID.Generate(),
		Name:         name,
		Phone:        strings.TrimSpace(req.Phone),
		CellPhone:    strings.TrimSpace(req.CellPhone),
		Instagram:    strings.TrimSpace(req.Instagram),
		LogoURL:      strings.TrimSpace(req.LogoURL),
		LogoSmallURL: strings.TrimSpace(req.LogoSmallURL),
		Systems:      datatypes.JSON(systemsJSON),
		Colors:       datatypes.JSON(colorsJSON),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Upsert(ctx, s.db, &settings); err != nil {
		return domain.WhiteLabel{}, err
	}

	s.log.Info("branding updated", zap.String("name", name))
	return settings, nil
}

func validComponent(v int) bool { return v >= 0 && v <= 255 }

func defaults() domain.WhiteLabel {
	systems, _ := json.Marshal([]string{})
	colors, _ := json.Marshal([]domain.Color{
		{Type: domain.ColorPrimary, R: 28, G: 126, B: 214},
		{Type: domain.ColorSecondary, R: 134, G: 142, B: 150},
	})
	return domain.WhiteLabel{
		Name:    "Revenda",
		Systems: datatypes.JSON(systems),
		Colors:  datatypes.JSON(colors),
	}
}
