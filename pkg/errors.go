package pkg

import (
	"errors"
	"fmt"

	"github.com/feastly/draw-engine/pkg/constant"
)

// EntityNotFoundError records an error indicating an entity was not found.
type EntityNotFoundError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e EntityNotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.EntityType != "" {
		return fmt.Sprintf("entity %s not found", e.EntityType)
	}

	if e.Err != nil {
		return e.Err.Error()
	}

	return "entity not found"
}

func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError records an error indicating the request failed validation.
type ValidationError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Fields     map[string]string
	Err        error `json:"err,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// UnprocessableOperationError records an error indicating the operation is
// well-formed but cannot be executed against the current state.
type UnprocessableOperationError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e UnprocessableOperationError) Error() string {
	return e.Message
}

func (e UnprocessableOperationError) Unwrap() error {
	return e.Err
}

// FailedPreconditionError records an error indicating a precondition such as
// funds, stock or quota was not met. These are expected operating conditions.
type FailedPreconditionError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e FailedPreconditionError) Error() string {
	return e.Message
}

func (e FailedPreconditionError) Unwrap() error {
	return e.Err
}

// LockTimeoutError records a failure to acquire the per-(user, campaign) draw
// mutex within the request deadline. Retryable with the same idempotency key.
type LockTimeoutError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e LockTimeoutError) Error() string {
	return e.Message
}

func (e LockTimeoutError) Unwrap() error {
	return e.Err
}

// InternalServerError records an unexpected failure. The reservation has been
// released before this error is surfaced.
type InternalServerError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e InternalServerError) Error() string {
	return e.Message
}

func (e InternalServerError) Unwrap() error {
	return e.Err
}

// ValidateBusinessError translates a catalog error into its typed, user-facing
// representation. The orchestrator is the only caller for draw-path errors;
// handlers call it for request-shape errors. Args feed the message template.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	errorMap := map[error]error{
		constant.ErrCampaignUnavailable: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrCampaignUnavailable.Error(),
			Title:      "Campaign Unavailable",
			Message:    "The campaign is not active or is outside its time window. Draws are not accepted.",
			Err:        err,
		},
		constant.ErrQuotaExceeded: FailedPreconditionError{
			EntityType: entityType,
			Code:       constant.ErrQuotaExceeded.Error(),
			Title:      "Daily Quota Exceeded",
			Message:    "The daily draw quota for this campaign has been reached. Try again after the daily reset.",
			Err:        err,
		},
		constant.ErrInsufficientFunds: FailedPreconditionError{
			EntityType: entityType,
			Code:       constant.ErrInsufficientFunds.Error(),
			Title:      "Insufficient Funds",
			Message:    "The available balance does not cover the draw cost.",
			Err:        err,
		},
		constant.ErrLockTimeout: LockTimeoutError{
			EntityType: entityType,
			Code:       constant.ErrLockTimeout.Error(),
			Title:      "Draw Lock Timeout",
			Message:    "Another draw for this user and campaign is in flight. Retry with the same idempotency key.",
			Err:        err,
		},
		constant.ErrStockExhausted: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrStockExhausted.Error(),
			Title:      "Stock Exhausted",
			Message:    "No prize stock remains, including the fallback tier. The campaign is misconfigured.",
			Err:        err,
		},
		constant.ErrConfigurationInvalid: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrConfigurationInvalid.Error(),
			Title:      "Configuration Invalid",
			Message:    fmt.Sprintf("The campaign configuration is inconsistent and was rejected at load time: %s.", firstArgOr(args, "unspecified")),
			Err:        err,
		},
		constant.ErrConcurrencyConflict: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrConcurrencyConflict.Error(),
			Title:      "Concurrent Update Conflict",
			Message:    "The draw conflicted with a concurrent update and was rolled back. Retry with the same idempotency key.",
			Err:        err,
		},
		constant.ErrInternalFailure: InternalServerError{
			EntityType: entityType,
			Code:       constant.ErrInternalFailure.Error(),
			Title:      "Internal Failure",
			Message:    "The draw could not be completed. The cost reservation has been released; retry with the same idempotency key.",
			Err:        err,
		},
		constant.ErrDrawRecordNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrDrawRecordNotFound.Error(),
			Title:      "Draw Record Not Found",
			Message:    "No draw record exists for the given user and idempotency key.",
			Err:        err,
		},
		constant.ErrBalanceNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrBalanceNotFound.Error(),
			Title:      "Balance Not Found",
			Message:    "No balance exists for the given user and asset code.",
			Err:        err,
		},
		constant.ErrCampaignNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrCampaignNotFound.Error(),
			Title:      "Campaign Not Found",
			Message:    "No campaign exists with the given id.",
			Err:        err,
		},
		constant.ErrInvalidIdempotencyKey: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidIdempotencyKey.Error(),
			Title:      "Invalid Idempotency Key",
			Message:    fmt.Sprintf("The %s header is required, must be non-empty and at most %d characters.", constant.IdempotencyHeader, constant.MaxIdempotencyKeyLength),
			Err:        err,
		},
		constant.ErrInvalidRequestBody: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidRequestBody.Error(),
			Title:      "Invalid Request Body",
			Message:    "The request body could not be parsed.",
			Err:        err,
		},
	}

	if mapped, ok := errorMap[err]; ok {
		return mapped
	}

	return err
}

func firstArgOr(args []any, fallback string) string {
	if len(args) > 0 {
		return fmt.Sprintf("%v", args[0])
	}

	return fallback
}

// IsRetryableError reports whether the caller may retry the draw with the same
// idempotency key and expect progress.
func IsRetryableError(err error) bool {
	return errors.Is(err, constant.ErrLockTimeout) ||
		errors.Is(err, constant.ErrInternalFailure) ||
		errors.Is(err, constant.ErrConcurrencyConflict)
}
