package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/customer/domain"
	"github.com/revendalabs/revenda/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const unblockDateLayout = "2006-01-02"

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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	cnpj, err := domain.NormalizeCNPJ(req.CNPJ)
	if err != nil {
		return domain.Customer{}, err
	}

	name := strings.TrimSpace(req.CorporateName)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindByCNPJ(ctx, s.db, cnpj)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing != nil {
		return domain.Customer{}, domain.ErrCustomerExists
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:            s.genID.Generate(),
		CNPJ:          cnpj,
		CorporateName: name,
		TradeName:     strings.TrimSpace(req.TradeName),
		Email:         email,
		Phone:         strings.TrimSpace(req.Phone),
		Segment:       strings.TrimSpace(req.Segment),
		Street:        strings.TrimSpace(req.Street),
		Number:        strings.TrimSpace(req.Number),
		District:      strings.TrimSpace(req.District),
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		ZipCode:       strings.TrimSpace(req.ZipCode),
		Active:        true,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer created", zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&customer.CorporateName, req.CorporateName)
	apply(&customer.TradeName, req.TradeName)
	apply(&customer.Email, req.Email)
	apply(&customer.Phone, req.Phone)
	apply(&customer.Segment, req.Segment)
	apply(&customer.Street, req.Street)
	apply(&customer.Number, req.Number)
	apply(&customer.District, req.District)
	apply(&customer.City, req.City)
	apply(&customer.State, req.State)
	apply(&customer.ZipCode, req.ZipCode)

	if customer.CorporateName == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	if customer.Email == "" || !strings.Contains(customer.Email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	customer.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Search:  strings.TrimSpace(req.Search),
		Segment: strings.TrimSpace(req.Segment),
		Active:  req.Active,
		Blocked: req.Blocked,
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageInfo, items := pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID.String(),
			CreatedAt: customer.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) Block(ctx context.Context, req domain.BlockCustomerRequest) (domain.Customer, error) {
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer.Blocked {
		return domain.Customer{}, domain.ErrCustomerBlocked
	}

	blockType, err := domain.ParseBlockType(strings.TrimSpace(req.Type))
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	details := domain.BlockDetails{
		Blocked:   true,
		Type:      blockType,
		Reason:    strings.TrimSpace(req.Reason),
		Message:   strings.TrimSpace(req.Message),
		BlockedAt: &now,
	}
	if raw := strings.TrimSpace(req.UnblockAt); raw != "" {
		unblockAt, err := time.ParseInLocation(unblockDateLayout, raw, time.UTC)
		if err != nil || !unblockAt.After(now) {
			return domain.Customer{}, domain.ErrInvalidUnblockAt
		}
		details.UnblockAt = &unblockAt
	}

	if err := s.repo.SetBlock(ctx, s.db, customer.ID, details); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer blocked",
		zap.String("customer_id", customer.ID.String()),
		zap.String("type", string(blockType)))
	return s.Get(ctx, req.ID)
}

func (s *Service) Unblock(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if !customer.Blocked {
		return domain.Customer{}, domain.ErrCustomerUnblocked
	}

	if err := s.repo.SetBlock(ctx, s.db, customer.ID, domain.BlockDetails{}); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer unblocked", zap.String("customer_id", customer.ID.String()))
	return s.Get(ctx, id)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (domain.Customer, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := s.repo.SetActive(ctx, s.db, customer.ID, active); err != nil {
		return domain.Customer{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Customer, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
