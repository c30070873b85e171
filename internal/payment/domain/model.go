package domain

import "errors"

// Status is the lifecycle state of a PIX charge as reported by the gateway.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusReturned  Status = "returned"
)

// ParseStatus maps the gateway's wire statuses onto the typed enum so an
// unmapped value fails loudly instead of rendering as an empty label.
func ParseStatus(wire string) (Status, error) {
	switch wire {
	case "PENDENTE":
		return StatusPending, nil
	case "PAGA":
		return StatusPaid, nil
	case "CANCELADA":
		return StatusCancelled, nil
	case "ESTORNADA":
		return StatusReturned, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Terminal reports whether no further transitions can happen for the charge.
func (s Status) Terminal() bool {
	switch s {
	case StatusPaid, StatusCancelled, StatusReturned:
		return true
	case StatusPending:
		return false
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Aguardando pagamento"
	case StatusPaid:
		return "Pagamento efetuado"
	case StatusCancelled, StatusReturned:
		return "Pagamento cancelado"
	}
	return "Desconhecido"
}

// Session is the gateway's view of one in-progress PIX payment, covering a
// single charge or an aggregate batch.
type Session struct {
	ID                string
	Status            Status
	Description       string
	DueDate           string
	Value             float64
	ExpirationSeconds int
	QRCode            string
}

var (
	ErrUnknownStatus     = errors.New("unknown_status")
	ErrInvalidCharge     = errors.New("invalid_charge")
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrSessionInProgress = errors.New("session_in_progress")
	ErrGateway           = errors.New("gateway_error")
)
