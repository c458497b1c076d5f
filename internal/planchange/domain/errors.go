package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidVariant   = errors.New("invalid_variant")
	ErrVariantUnchanged = errors.New("variant_unchanged")
)

// TransitionBlockedError means the requested billing-period change is not
// allowed right now. RenewsAt is set when the block lifts at the end of the
// current term (yearly to monthly downgrades).
type TransitionBlockedError struct {
	Reason   string
	RenewsAt *time.Time
}

func (e *TransitionBlockedError) Error() string {
	return fmt.Sprintf("transition_blocked: %s", e.Reason)
}

// IsTransitionBlocked unwraps err into a TransitionBlockedError, if it is one.
func IsTransitionBlocked(err error) (*TransitionBlockedError, bool) {
	var tbe *TransitionBlockedError
	if errors.As(err, &tbe) {
		return tbe, true
	}
	return nil, false
}
