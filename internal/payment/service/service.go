package service

import (
	"context"
	"sync"

	"github.com/revendalabs/revenda/internal/config"
	obsmetrics "github.com/revendalabs/revenda/internal/observability/metrics"
	paymentdomain "github.com/revendalabs/revenda/internal/payment/domain"
	"github.com/revendalabs/revenda/internal/payment/session"
	"github.com/revendalabs/revenda/internal/sessionlock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Holder  *config.BillingConfigHolder
	Gateway paymentdomain.Gateway
	Locker  *sessionlock.Locker        `optional:"true"`
	Ledger  paymentdomain.Ledger       `optional:"true"`
	Metrics *obsmetrics.PaymentMetrics `optional:"true"`
}

// Service runs the live PIX sessions. Each session is one Machine plus the
// redis lease over its charges; the registry is keyed by the gateway's
// session ID so the status and cancel endpoints can find it.
type Service struct {
	log     *zap.Logger
	holder  *config.BillingConfigHolder
	gateway paymentdomain.Gateway
	locker  *sessionlock.Locker
	ledger  paymentdomain.Ledger
	metrics *obsmetrics.PaymentMetrics

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	machine   *session.Machine
	lease     *sessionlock.Lease
	chargeIDs []string
	finalize  sync.Once
}

func NewService(p Params) *Service {
	return &Service{
		log:      p.Log.Named("payment.service"),
		holder:   p.Holder,
		gateway:  p.Gateway,
		locker:   p.Locker,
		ledger:   p.Ledger,
		metrics:  p.Metrics,
		sessions: make(map[string]*entry),
	}
}

// Pay opens a PIX session for one charge.
func (s *Service) Pay(ctx context.Context, chargeID string) (session.Snapshot, error) {
	if chargeID == "" {
		return session.Snapshot{}, paymentdomain.ErrInvalidCharge
	}
	return s.start(ctx, []string{chargeID}, obsmetrics.SessionModeSingle)
}

// PayBatch opens one aggregate PIX session covering several charges.
func (s *Service) PayBatch(ctx context.Context, chargeIDs []string) (session.Snapshot, error) {
	if len(chargeIDs) == 0 {
		return session.Snapshot{}, paymentdomain.ErrInvalidCharge
	}
	if max := s.holder.Get().MaxChargesPerBatch; len(chargeIDs) > max {
		return session.Snapshot{}, paymentdomain.ErrInvalidCharge
	}
	return s.start(ctx, chargeIDs, obsmetrics.SessionModeBatch)
}

func (s *Service) start(ctx context.Context, chargeIDs []string, mode string) (session.Snapshot, error) {
	cfg := s.holder.Get()

	lease, err := s.locker.Acquire(ctx, chargeIDs, cfg.SessionLockTTL)
	if err != nil {
		return session.Snapshot{}, err
	}

	e := &entry{lease: lease, chargeIDs: chargeIDs}
	machine := session.New(s.gateway, s.log, session.Config{
		PollInterval:  cfg.PollInterval,
		CountdownTick: cfg.CountdownTick,
		Metrics:       s.metrics,
	}, func(snap session.Snapshot) {
		if snap.State.Terminal() {
			go s.finish(e, snap)
		}
	})
	e.machine = machine

	snap, err := machine.Initiate(ctx, chargeIDs)
	if err != nil {
		lease.Release(context.WithoutCancel(ctx))
		return snap, err
	}

	s.mu.Lock()
	s.sessions[snap.SessionID] = e
	s.mu.Unlock()

	s.metrics.SessionStarted(mode)
	go machine.Run(context.Background())

	s.log.Info("pix session opened",
		zap.String("session_id", snap.SessionID),
		zap.Strings("charge_ids", chargeIDs))
	return snap, nil
}

// finish settles the bookkeeping for a terminal session: the lease is
// released, the outcome counted, and for a settled payment the charges are
// marked paid in the local ledger.
func (s *Service) finish(e *entry, snap session.Snapshot) {
	e.finalize.Do(func() {
		ctx := context.Background()

		if snap.State == session.StateSettled && s.ledger != nil {
			if err := s.ledger.MarkPaid(ctx, e.chargeIDs); err != nil {
				s.log.Error("failed to mark charges paid",
					zap.Strings("charge_ids", e.chargeIDs), zap.Error(err))
			}
		}

		switch snap.State {
		case session.StateSettled:
			s.metrics.SessionFinished(obsmetrics.SessionOutcomeSettled)
		case session.StateCancelled:
			s.metrics.SessionFinished(obsmetrics.SessionOutcomeCancelled)
		case session.StateFailed:
			s.metrics.SessionFinished(obsmetrics.SessionOutcomeFailed)
		}

		e.lease.Release(ctx)

		s.mu.Lock()
		if snap.SessionID != "" {
			delete(s.sessions, snap.SessionID)
		}
		s.mu.Unlock()

		s.log.Info("pix session finished",
			zap.String("session_id", snap.SessionID),
			zap.String("state", string(snap.State)))
	})
}

func (s *Service) lookup(sessionID string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	return e, ok
}

// Status returns the live snapshot when the session is still running on
// this instance, otherwise the gateway's record mapped into a snapshot.
func (s *Service) Status(ctx context.Context, sessionID string) (session.Snapshot, error) {
	if e, ok := s.lookup(sessionID); ok {
		return e.machine.Snapshot(), nil
	}

	record, err := s.gateway.CheckStatus(ctx, sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return snapshotFromRecord(record), nil
}

// Cancel aborts a session. For a live machine the checked cancel applies: a
// charge paid in the meantime settles instead. For a session not held here
// the same check runs statelessly against the gateway.
func (s *Service) Cancel(ctx context.Context, sessionID string) (session.Snapshot, error) {
	if e, ok := s.lookup(sessionID); ok {
		return e.machine.Cancel(ctx)
	}

	record, err := s.gateway.CheckStatus(ctx, sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if record.Status == paymentdomain.StatusPaid {
		// Benign conflict, the payment already won.
		return snapshotFromRecord(record), nil
	}
	if record.Status.Terminal() {
		return snapshotFromRecord(record), nil
	}

	cancelled, err := s.gateway.Cancel(ctx, sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return snapshotFromRecord(cancelled), nil
}

// Register confirms a payment with the gateway. A live machine handles it
// through an immediate poll so the exactly-once guard applies; otherwise
// the registration goes straight to the gateway.
func (s *Service) Register(ctx context.Context, sessionID string) (session.Snapshot, error) {
	if e, ok := s.lookup(sessionID); ok {
		e.machine.Poll(ctx)
		return e.machine.Snapshot(), nil
	}

	if err := s.gateway.RegisterPayment(ctx, sessionID); err != nil {
		return session.Snapshot{}, err
	}
	record, err := s.gateway.CheckStatus(ctx, sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return snapshotFromRecord(record), nil
}

// Shutdown tears down every live session and releases its lease. Charges
// stay payable, the gateway keeps the pending sessions.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		e.machine.Close()
		e.lease.Release(ctx)
	}
}

func snapshotFromRecord(record *paymentdomain.Session) session.Snapshot {
	snap := session.Snapshot{
		SessionID:        record.ID,
		Status:           record.Status,
		StatusLabel:      record.Status.Label(),
		Description:      record.Description,
		Value:            record.Value,
		QRCode:           record.QRCode,
		RemainingSeconds: record.ExpirationSeconds,
	}
	switch record.Status {
	case paymentdomain.StatusPaid:
		snap.State = session.StateSettled
	case paymentdomain.StatusCancelled, paymentdomain.StatusReturned:
		snap.State = session.StateCancelled
	default:
		snap.State = session.StateAwaitingPayment
	}
	return snap
}
