package stake

import (
	"errors"
	"fmt"
)

var (
	errNilState = errors.New("stake engine: state not configured")

	// ErrInsufficientUnstakedBalance rejects a batch that requests additions
	// while no credit at all is available.
	ErrInsufficientUnstakedBalance = errors.New("stake engine: no unstaked credits available")

	// ErrBalanceOverflow rejects an operation whose reclaimed credits would
	// push the unstaked balance past the uint64 range.
	ErrBalanceOverflow = errors.New("stake engine: balance overflow")
)

// InsufficientStakeError rejects a removal that exceeds the current stake on
// a term.
type InsufficientStakeError struct {
	Term string
}

func (e *InsufficientStakeError) Error() string {
	return fmt.Sprintf("stake engine: insufficient stake on term %q", e.Term)
}

// InsufficientCreditsError rejects an addition that exceeds the remaining
// available credit within a batch.
type InsufficientCreditsError struct {
	Term string
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("stake engine: insufficient available credits for term %q", e.Term)
}
