// Package session drives the lifecycle of one PIX payment attempt: create
// the charge, poll the gateway until a terminal status, auto-register the
// payment once paid, and cancel on user request or countdown expiry.
package session

import (
	"context"
	"sync"
	"time"

	obsmetrics "github.com/revendalabs/revenda/internal/observability/metrics"
	paymentdomain "github.com/revendalabs/revenda/internal/payment/domain"
	"go.uber.org/zap"
)

// State is the machine's own position in the reconciliation flow, distinct
// from the gateway-reported charge Status.
type State string

const (
	StateIdle            State = "IDLE"
	StateInitiating      State = "INITIATING"
	StateAwaitingPayment State = "AWAITING_PAYMENT"
	StateRegistering     State = "REGISTERING"
	StateSettled         State = "SETTLED"
	StateCancelling      State = "CANCELLING"
	StateCancelled       State = "CANCELLED"
	StateFailed          State = "FAILED"
)

// Terminal reports whether the session is finished and its timers released.
func (s State) Terminal() bool {
	switch s {
	case StateSettled, StateCancelled, StateFailed:
		return true
	}
	return false
}

// Snapshot is the immutable view published to observers after every
// transition. The UI layer reads these; it never touches the machine's
// internal state directly.
type Snapshot struct {
	SessionID        string               `json:"session_id"`
	ChargeIDs        []string             `json:"charge_ids"`
	State            State                `json:"state"`
	Status           paymentdomain.Status `json:"status"`
	StatusLabel      string               `json:"status_label"`
	Description      string               `json:"description"`
	Value            float64              `json:"value"`
	QRCode           string               `json:"qr_code"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Err              string               `json:"error,omitempty"`
}

// Observer receives snapshots. It is invoked with the machine lock held and
// must not call back into the machine.
type Observer func(Snapshot)

type Config struct {
	PollInterval  time.Duration
	CountdownTick time.Duration
	// Metrics may be nil; a nil PaymentMetrics drops every observation.
	Metrics *obsmetrics.PaymentMetrics
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = time.Second
	}
	return c
}

// Machine owns one payment session end to end: its state, its gateway calls
// and both of its timers. Every exit path releases the timers.
type Machine struct {
	mu      sync.Mutex
	gateway paymentdomain.Gateway
	log     *zap.Logger
	cfg     Config
	metrics *obsmetrics.PaymentMetrics
	observe Observer

	state      State
	session    *paymentdomain.Session
	chargeIDs  []string
	remaining  int
	lastErr    string
	registered bool
	closed     bool

	stopTimers context.CancelFunc
	done       chan struct{}
}

func New(gateway paymentdomain.Gateway, log *zap.Logger, cfg Config, observe Observer) *Machine {
	if observe == nil {
		observe = func(Snapshot) {}
	}
	return &Machine{
		gateway: gateway,
		log:     log.Named("payment.session"),
		cfg:     cfg.withDefaults(),
		metrics: cfg.Metrics,
		observe: observe,
		state:   StateIdle,
	}
}

// Initiate opens the PIX session for one charge or an aggregate batch and
// moves the machine to AwaitingPayment. On gateway failure the machine lands
// in Failed; Acknowledge resets it to Idle for a retry.
func (m *Machine) Initiate(ctx context.Context, chargeIDs []string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return m.snapshotLocked(), paymentdomain.ErrSessionInProgress
	}
	if len(chargeIDs) == 0 {
		return m.snapshotLocked(), paymentdomain.ErrInvalidCharge
	}

	m.state = StateInitiating
	m.chargeIDs = append([]string(nil), chargeIDs...)
	m.publishLocked()

	var (
		session *paymentdomain.Session
		err     error
	)
	if len(chargeIDs) == 1 {
		session, err = m.gateway.CreateCharge(ctx, chargeIDs[0])
	} else {
		session, err = m.gateway.CreateBatchCharge(ctx, chargeIDs)
	}
	if err != nil {
		m.state = StateFailed
		m.lastErr = err.Error()
		m.publishLocked()
		return m.snapshotLocked(), err
	}

	m.session = session
	m.remaining = session.ExpirationSeconds
	m.lastErr = ""
	m.state = StateAwaitingPayment
	m.publishLocked()
	return m.snapshotLocked(), nil
}

// Acknowledge clears a Failed session so the caller can retry.
func (m *Machine) Acknowledge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateFailed {
		return
	}
	m.state = StateIdle
	m.session = nil
	m.chargeIDs = nil
	m.lastErr = ""
}

// Run owns the poll and countdown timers until the session reaches a
// terminal state or ctx is cancelled. It must be started once, after a
// successful Initiate.
func (m *Machine) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.mu.Lock()
	if m.closed || m.state != StateAwaitingPayment {
		m.mu.Unlock()
		cancel()
		return
	}
	m.stopTimers = cancel
	m.done = done
	m.mu.Unlock()

	poll := time.NewTicker(m.cfg.PollInterval)
	countdown := time.NewTicker(m.cfg.CountdownTick)
	defer func() {
		poll.Stop()
		countdown.Stop()
		cancel()
		close(done)
	}()

	for {
		select {
		case <-runCtx.Done():
			return
		case <-countdown.C:
			m.TickCountdown(ctx)
		case <-poll.C:
			m.Poll(ctx)
		}
		if m.CurrentState().Terminal() {
			return
		}
	}
}

// Poll performs one status check against the gateway. Transport errors are
// surfaced to the observer and swallowed: the next tick retries, bounded
// only by the countdown. A paid observation triggers exactly one
// registration attempt; a registration failure falls back to
// AwaitingPayment so the next paid observation retries it.
func (m *Machine) Poll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAwaitingPayment {
		return
	}

	session, err := m.gateway.CheckStatus(ctx, m.session.ID)
	m.metrics.PollObserved(err != nil)
	if err != nil {
		m.lastErr = err.Error()
		m.log.Warn("status poll failed", zap.String("session_id", m.session.ID), zap.Error(err))
		m.publishLocked()
		return
	}
	m.lastErr = ""
	m.session.Status = session.Status

	switch session.Status {
	case paymentdomain.StatusPaid:
		m.registerLocked(ctx)
	case paymentdomain.StatusCancelled, paymentdomain.StatusReturned:
		m.state = StateCancelled
		m.teardownLocked()
		m.publishLocked()
	case paymentdomain.StatusPending:
		m.publishLocked()
	}
}

// TickCountdown advances the expiration countdown by one tick. Reaching
// zero while still pending expires the session through the cancellation
// path, where a last status check lets a concurrent payment win.
func (m *Machine) TickCountdown(ctx context.Context) {
	m.mu.Lock()

	if m.state != StateAwaitingPayment {
		m.mu.Unlock()
		return
	}

	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining > 0 {
		m.publishLocked()
		m.mu.Unlock()
		return
	}

	m.log.Info("session expired, cancelling", zap.String("session_id", m.session.ID))
	m.cancelLocked(ctx)
	m.mu.Unlock()
}

// Cancel aborts the session on user request. The current status is
// re-verified first: a charge that has just been paid is never cancelled.
func (m *Machine) Cancel(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateSettled, StateRegistering:
		// Benign conflict: payment already won.
		return m.snapshotLocked(), nil
	case StateCancelled:
		return m.snapshotLocked(), nil
	case StateAwaitingPayment:
		m.cancelLocked(ctx)
		return m.snapshotLocked(), nil
	default:
		return m.snapshotLocked(), paymentdomain.ErrSessionNotFound
	}
}

// cancelLocked runs the checked-before-acted cancellation: one fresh status
// lookup, then either the paid path or the gateway cancel.
func (m *Machine) cancelLocked(ctx context.Context) {
	m.state = StateCancelling
	m.publishLocked()

	session, err := m.gateway.CheckStatus(ctx, m.session.ID)
	m.metrics.PollObserved(err != nil)
	if err != nil {
		m.lastErr = err.Error()
		m.state = StateAwaitingPayment
		m.publishLocked()
		return
	}

	if session.Status == paymentdomain.StatusPaid {
		// The payment landed between the cancel request and now: the paid
		// observation always wins, including on the expiry tick.
		m.session.Status = session.Status
		m.registerLocked(ctx)
		return
	}

	cancelled, err := m.gateway.Cancel(ctx, m.session.ID)
	if err != nil {
		m.lastErr = err.Error()
		m.state = StateAwaitingPayment
		m.publishLocked()
		return
	}

	m.session.Status = cancelled.Status
	m.state = StateCancelled
	m.teardownLocked()
	m.publishLocked()
}

// registerLocked confirms a paid charge with the gateway and settles the
// session. Idempotent on the gateway side; attempted at most once per paid
// observation.
func (m *Machine) registerLocked(ctx context.Context) {
	if m.registered {
		return
	}

	m.state = StateRegistering
	m.publishLocked()

	if err := m.gateway.RegisterPayment(ctx, m.session.ID); err != nil {
		m.metrics.RegistrationAttempt(obsmetrics.RegistrationFailed)
		m.lastErr = err.Error()
		m.state = StateAwaitingPayment
		m.log.Warn("payment registration failed, will retry on next poll",
			zap.String("session_id", m.session.ID), zap.Error(err))
		m.publishLocked()
		return
	}

	m.metrics.RegistrationAttempt(obsmetrics.RegistrationOK)
	m.registered = true
	m.lastErr = ""
	m.state = StateSettled
	m.teardownLocked()
	m.publishLocked()
}

// Close releases the timers when the caller discards the session, e.g. the
// dialog is dismissed before a terminal state. Safe to call repeatedly.
func (m *Machine) Close() {
	m.mu.Lock()
	done := m.done
	m.closed = true
	m.teardownLocked()
	m.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (m *Machine) teardownLocked() {
	if m.stopTimers != nil {
		m.stopTimers()
		m.stopTimers = nil
	}
}

func (m *Machine) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		ChargeIDs:        append([]string(nil), m.chargeIDs...),
		State:            m.state,
		RemainingSeconds: m.remaining,
		Err:              m.lastErr,
	}
	if m.session != nil {
		snap.SessionID = m.session.ID
		snap.Status = m.session.Status
		snap.StatusLabel = m.session.Status.Label()
		snap.Description = m.session.Description
		snap.Value = m.session.Value
		snap.QRCode = m.session.QRCode
	}
	return snap
}

func (m *Machine) publishLocked() {
	m.observe(m.snapshotLocked())
}
