package ledger

import (
	"errors"
	"math"

	"defind/core/events"
	"defind/core/types"
	"defind/crypto"
	"defind/native/common"
)

var (
	errNilState = errors.New("ledger engine: state not configured")

	// ErrWithdrawalInProgress rejects a second withdrawal for an identity
	// while one is awaiting its external transfer.
	ErrWithdrawalInProgress = errors.New("ledger engine: withdrawal already in progress")

	// ErrBalanceOverflow rejects a credit that would wrap the uint64
	// balance.
	ErrBalanceOverflow = errors.New("ledger engine: balance overflow")
)

type engineState interface {
	BalanceGet(id crypto.Identity) (uint64, error)
	BalanceSet(id crypto.Identity, amount uint64) error
	WithdrawalPending(id crypto.Identity) (bool, error)
	SetWithdrawalPending(id crypto.Identity) error
	ClearWithdrawalPending(id crypto.Identity) error
}

// Engine maintains the unstaked credit balance of every identity and drives
// the two-phase withdrawal protocol.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine constructs a ledger engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

// Balance returns the caller's unstaked balance, zero if no entry exists.
// Only a self-balance query is possible; the identity is the resolved caller.
func (e *Engine) Balance(caller crypto.Identity) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return 0, err
	}
	return e.state.BalanceGet(caller)
}

// Credit adds accepted credits to the caller's balance. The accepted amount
// is whatever the external transfer mechanism actually attached and may be
// zero; a zero credit leaves state untouched.
func (e *Engine) Credit(caller crypto.Identity, accepted uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return 0, err
	}
	balance, err := e.state.BalanceGet(caller)
	if err != nil {
		return 0, err
	}
	if accepted == 0 {
		return balance, nil
	}
	if balance > math.MaxUint64-accepted {
		return 0, ErrBalanceOverflow
	}
	balance += accepted
	if err := e.state.BalanceSet(caller, balance); err != nil {
		return 0, err
	}
	e.emit(DepositedEvent(caller.String(), accepted, balance))
	return balance, nil
}

// BeginWithdraw computes the reserve for a withdrawal, min(balance, max),
// without debiting the balance. A non-zero reserve sets the per-identity
// in-flight marker; the balance itself is only touched by CompleteWithdraw
// once the external transfer has been confirmed, so a failed transfer never
// loses funds.
func (e *Engine) BeginWithdraw(caller crypto.Identity, maxAmount uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return 0, err
	}
	pending, err := e.state.WithdrawalPending(caller)
	if err != nil {
		return 0, err
	}
	if pending {
		return 0, ErrWithdrawalInProgress
	}
	balance, err := e.state.BalanceGet(caller)
	if err != nil {
		return 0, err
	}
	reserve := balance
	if maxAmount < reserve {
		reserve = maxAmount
	}
	if reserve == 0 {
		return 0, nil
	}
	if err := e.state.SetWithdrawalPending(caller); err != nil {
		return 0, err
	}
	return reserve, nil
}

// CompleteWithdraw debits the balance after a confirmed external transfer,
// flooring at zero and pruning empty entries, and clears the in-flight
// marker.
func (e *Engine) CompleteWithdraw(caller crypto.Identity, amount uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return err
	}
	balance, err := e.state.BalanceGet(caller)
	if err != nil {
		return err
	}
	remaining := uint64(0)
	if balance > amount {
		remaining = balance - amount
	}
	if err := e.state.BalanceSet(caller, remaining); err != nil {
		return err
	}
	if err := e.state.ClearWithdrawalPending(caller); err != nil {
		return err
	}
	e.emit(WithdrawnEvent(caller.String(), amount, remaining))
	return nil
}

// AbortWithdraw clears the in-flight marker after a failed external
// transfer. The balance is left untouched.
func (e *Engine) AbortWithdraw(caller crypto.Identity) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return err
	}
	return e.state.ClearWithdrawalPending(caller)
}
