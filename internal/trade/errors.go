package trade

import (
	"errors"
	"fmt"
)

// Stable reason codes for machine-readable failure classification. UI layers
// key messages off these rather than error strings.
const (
	CodeBadRequest   = "E_BAD_REQUEST"
	CodeNoPermission = "E_NO_PERMISSION"
	CodeNoResource   = "E_NO_RESOURCE"
	CodeConflict     = "E_CONFLICT"
	CodeStale        = "E_STALE"
	CodeInternal     = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	CodeBadRequest:   {},
	CodeNoPermission: {},
	CodeNoResource:   {},
	CodeConflict:     {},
	CodeStale:        {},
	CodeInternal:     {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

var (
	// ErrTradeDisabled: trading is switched off in tuning.
	ErrTradeDisabled = errors.New("trading disabled")
	// ErrSessionOpen: a negotiation for this party pair is already registered.
	ErrSessionOpen = errors.New("negotiation already open for pair")
	// ErrNotTradeable: the item's type tag is outside the tradeable set.
	ErrNotTradeable = errors.New("item type not tradeable")
	// ErrNoQuantity: the offered item snapshot holds no quantity.
	ErrNoQuantity = errors.New("item has no quantity to offer")
	// ErrNotConfirmable: confirm was invoked while the offer fails validation.
	ErrNotConfirmable = errors.New("offer not confirmable")
	// ErrCommitInFlight: a second confirm raced an in-flight commit. Programmer
	// error at the call site; confirms must be serialized per negotiation.
	ErrCommitInFlight = errors.New("commit already in flight")
	// ErrInsufficient: at commit time the source no longer held what it offered.
	ErrInsufficient = errors.New("insufficient holdings at commit")
)

// CommitError reports which settlement step failed and why. Steps already
// applied before the failure are not rolled back; the negotiation keeps its
// offers so the user can inspect and retry.
type CommitError struct {
	Step string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at %s: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// ErrorCode classifies an engine error into a stable reason code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTradeDisabled):
		return CodeNoPermission
	case errors.Is(err, ErrSessionOpen), errors.Is(err, ErrCommitInFlight):
		return CodeConflict
	case errors.Is(err, ErrNotTradeable), errors.Is(err, ErrNoQuantity), errors.Is(err, ErrNotConfirmable):
		return CodeBadRequest
	case errors.Is(err, ErrInsufficient):
		return CodeNoResource
	default:
		return CodeInternal
	}
}
