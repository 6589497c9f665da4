package swap

import "errors"

// Error kinds returned by the lifecycle engine. Handlers inspect them with
// errors.Is to pick a response code; only ErrTransient is safe to retry.
var (
	ErrNotFound        = errors.New("swap not found")
	ErrInvalidInput    = errors.New("invalid swap request")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrInvalidState    = errors.New("swap is no longer pending")
	ErrConflict        = errors.New("conflicting accepted swap exists")
	ErrPaymentRequired = errors.New("active subscription required")
	ErrTransient       = errors.New("temporary storage failure")
)
