package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/revendalabs/revenda/internal/billing/domain"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/config"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dueDateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Holder *config.BillingConfigHolder
	Repo   billingdomain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	holder *config.BillingConfigHolder
	repo   billingdomain.Repository
}

func New(p Params) billingdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("billing.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		holder: p.Holder,
		repo:   p.Repo,
	}
}

func (s *Service) Generate(ctx context.Context, req billingdomain.GenerateRequest) ([]billingdomain.Charge, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, billingdomain.ErrInvalidCustomer
	}
	if req.Value <= 0 {
		return nil, billingdomain.ErrInvalidValue
	}
	cfg := s.holder.Get()
	if req.Count <= 0 || req.Count > cfg.MaxChargesPerBatch {
		return nil, billingdomain.ErrInvalidCount
	}
	firstDue, err := time.ParseInLocation(dueDateLayout, strings.TrimSpace(req.FirstDueDate), time.UTC)
	if err != nil {
		return nil, billingdomain.ErrInvalidDueDate
	}

	now := s.clock.Now()
	charges := make([]billingdomain.Charge, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		charge := billingdomain.Charge{
			ID:         s.genID.Generate(),
			CustomerID: customerID,
			Status:     billingdomain.StatusOpen,
			Value:      req.Value,
			DueDate:    firstDue.AddDate(0, i, 0),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Insert(ctx, s.db, &charge); err != nil {
			return nil, err
		}
		s.accrue(&charge, now, cfg)
		charges = append(charges, charge)
	}

	s.log.Info("charges generated",
		zap.String("customer_id", req.CustomerID),
		zap.Int("count", req.Count))
	return charges, nil
}

func (s *Service) Get(ctx context.Context, id string) (*billingdomain.Charge, error) {
	chargeID, err := parseID(id)
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}
	charge, err := s.repo.FindByID(ctx, s.db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, billingdomain.ErrChargeNotFound
	}
	s.accrue(charge, s.clock.Now(), s.holder.Get())
	return charge, nil
}

func (s *Service) List(ctx context.Context, req billingdomain.ListRequest) ([]billingdomain.Charge, error) {
	filter := billingdomain.ListFilter{}
	now := s.clock.Now()

	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return nil, billingdomain.ErrInvalidCustomer
		}
		filter.CustomerID = id
	}

	// Overdue is derived, not stored: it lists the open charges already
	// past due.
	var status billingdomain.Status
	if raw := strings.TrimSpace(req.Status); raw != "" {
		parsed, err := billingdomain.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		status = parsed
		if status == billingdomain.StatusOverdue {
			filter.Status = billingdomain.StatusOpen
			filter.DueBefore = now
		} else {
			filter.Status = status
		}
	}

	if raw := strings.TrimSpace(req.DueBefore); raw != "" {
		due, err := time.ParseInLocation(dueDateLayout, raw, time.UTC)
		if err != nil {
			return nil, billingdomain.ErrInvalidDueDate
		}
		if filter.DueBefore.IsZero() || due.Before(filter.DueBefore) {
			filter.DueBefore = due
		}
	}
	if raw := strings.TrimSpace(req.DueAfter); raw != "" {
		due, err := time.ParseInLocation(dueDateLayout, raw, time.UTC)
		if err != nil {
			return nil, billingdomain.ErrInvalidDueDate
		}
		filter.DueAfter = due
	}

	charges, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	cfg := s.holder.Get()
	out := charges[:0]
	for i := range charges {
		s.accrue(&charges[i], now, cfg)
		if status == billingdomain.StatusOpen && charges[i].Status != billingdomain.StatusOpen {
			continue
		}
		out = append(out, charges[i])
	}
	return out, nil
}

func (s *Service) MarkPaid(ctx context.Context, chargeIDs []string) error {
	ids := make([]snowflake.ID, 0, len(chargeIDs))
	for _, raw := range chargeIDs {
		id, err := parseID(raw)
		if err != nil {
			return billingdomain.ErrInvalidID
		}
		ids = append(ids, id)
	}

	updated, err := s.repo.MarkPaid(ctx, s.db, ids, s.clock.Now())
	if err != nil {
		return err
	}
	s.log.Info("charges settled",
		zap.Strings("charge_ids", chargeIDs),
		zap.Int64("updated", updated))
	return nil
}

// accrue derives the overdue status and the late-payment surcharges: a
// one-off penalty plus simple daily interest on the face value.
func (s *Service) accrue(charge *billingdomain.Charge, now time.Time, cfg config.BillingConfig) {
	if charge.Status == billingdomain.StatusOpen && charge.DueDate.Before(now) {
		charge.Status = billingdomain.StatusOverdue
		charge.DaysOverdue = int(now.Sub(charge.DueDate).Hours() / 24)
	}

	value := decimal.NewFromFloat(charge.Value)
	current := value
	if charge.Status == billingdomain.StatusOverdue {
		penalty := value.Mul(decimal.NewFromFloat(cfg.PenaltyRate))
		interest := value.
			Mul(decimal.NewFromFloat(cfg.DailyInterestRate)).
			Mul(decimal.NewFromInt(int64(charge.DaysOverdue)))
		charge.Penalty, _ = penalty.Round(2).Float64()
		charge.Interest, _ = interest.Round(2).Float64()
		current = current.Add(penalty).Add(interest)
	}
	charge.CurrentValue, _ = current.Round(2).Float64()
	charge.StatusLabel = charge.Status.Label()
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, billingdomain.ErrInvalidID
	}
	return id, nil
}
