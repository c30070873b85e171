package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/revendalabs/revenda/internal/billing/domain"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	customerdomain "github.com/revendalabs/revenda/internal/customer/domain"
	paymentdomain "github.com/revendalabs/revenda/internal/payment/domain"
	"github.com/revendalabs/revenda/internal/sessionlock"
	subscriptiondomain "github.com/revendalabs/revenda/internal/subscription/domain"
	whitelabeldomain "github.com/revendalabs/revenda/internal/whitelabel/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns domain sentinel errors collected on the gin
// context into the typed JSON error payload.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

func invalidRequestError() error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: "request", Code: "invalid_request", Message: "invalid request"},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: err.Error(), Message: err.Error()},
			},
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, paymentdomain.ErrGateway):
		return http.StatusBadGateway, errorPayload{
			Type:    "gateway_error",
			Message: "payment gateway error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, paymentdomain.ErrInvalidCharge),
		errors.Is(err, paymentdomain.ErrUnknownStatus),
		errors.Is(err, billingdomain.ErrInvalidCustomer),
		errors.Is(err, billingdomain.ErrInvalidValue),
		errors.Is(err, billingdomain.ErrInvalidCount),
		errors.Is(err, billingdomain.ErrInvalidDueDate),
		errors.Is(err, billingdomain.ErrInvalidStatus),
		errors.Is(err, billingdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidCNPJ),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidBlockType),
		errors.Is(err, customerdomain.ErrInvalidUnblockAt),
		errors.Is(err, subscriptiondomain.ErrInvalidCustomer),
		errors.Is(err, subscriptiondomain.ErrInvalidPlan),
		errors.Is(err, subscriptiondomain.ErrInvalidSelection),
		errors.Is(err, subscriptiondomain.ErrInvalidCancelReason),
		errors.Is(err, whitelabeldomain.ErrInvalidName),
		errors.Is(err, whitelabeldomain.ErrInvalidColorType),
		errors.Is(err, whitelabeldomain.ErrInvalidColor),
		errors.Is(err, whitelabeldomain.ErrInvalidSystem):
		return true
	}
	return false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrSessionNotFound),
		errors.Is(err, billingdomain.ErrChargeNotFound),
		errors.Is(err, catalogdomain.ErrPlanNotFound),
		errors.Is(err, catalogdomain.ErrModuleNotFound),
		errors.Is(err, customerdomain.ErrCustomerNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	}
	return false
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrSessionInProgress),
		errors.Is(err, sessionlock.ErrChargeLocked),
		errors.Is(err, customerdomain.ErrCustomerExists),
		errors.Is(err, customerdomain.ErrCustomerBlocked),
		errors.Is(err, customerdomain.ErrCustomerUnblocked),
		errors.Is(err, subscriptiondomain.ErrSubscriptionExists),
		errors.Is(err, subscriptiondomain.ErrSubscriptionInactive),
		errors.Is(err, subscriptiondomain.ErrNothingToUpdate):
		return true
	}
	return false
}
