package constant

import "errors"

var (
	ErrCampaignUnavailable           = errors.New("DRW-0001")
	ErrQuotaExceeded                 = errors.New("DRW-0002")
	ErrInsufficientFunds             = errors.New("DRW-0003")
	ErrLockTimeout                   = errors.New("DRW-0004")
	ErrStockExhausted                = errors.New("DRW-0005")
	ErrConfigurationInvalid          = errors.New("DRW-0006")
	ErrInternalFailure               = errors.New("DRW-0007")
	ErrDrawRecordNotFound            = errors.New("DRW-0008")
	ErrBalanceNotFound               = errors.New("DRW-0009")
	ErrIdempotencyKeyAlreadyExists   = errors.New("DRW-0010")
	ErrInvalidIdempotencyKey         = errors.New("DRW-0011")
	ErrBadRequest                    = errors.New("DRW-0012")
	ErrUnprocessableEntity           = errors.New("DRW-0013")
	ErrCampaignNotFound              = errors.New("DRW-0014")
	ErrPrizeNotFound                 = errors.New("DRW-0015")
	ErrReservationNotFound           = errors.New("DRW-0016")
	ErrInvalidQueryParameter         = errors.New("DRW-0017")
	ErrTierCapExceeded               = errors.New("DRW-0018")
	ErrMissingFieldsInRequest        = errors.New("DRW-0019")
	ErrUnexpectedFieldsInTheRequest  = errors.New("DRW-0020")
	ErrInvalidRequestBody            = errors.New("DRW-0021")
	ErrConcurrencyConflict           = errors.New("DRW-0022")
)
