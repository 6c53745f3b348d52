package ledger

import (
	"strconv"

	"defind/core/events"
	"defind/core/types"
)

const (
	// EventTypeDeposited is emitted when credits are attached to a balance.
	EventTypeDeposited = "ledger.deposited"
	// EventTypeWithdrawn is emitted when a withdrawal commits after a
	// confirmed external transfer.
	EventTypeWithdrawn = "ledger.withdrawn"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

// DepositedEvent returns the structured event payload for a deposit.
func DepositedEvent(identity string, accepted uint64, balance uint64) *types.Event {
	return &types.Event{
		Type: EventTypeDeposited,
		Attributes: map[string]string{
			"identity": identity,
			"accepted": strconv.FormatUint(accepted, 10),
			"balance":  strconv.FormatUint(balance, 10),
		},
	}
}

// WithdrawnEvent returns the structured event payload for a committed
// withdrawal.
func WithdrawnEvent(identity string, amount uint64, balance uint64) *types.Event {
	return &types.Event{
		Type: EventTypeWithdrawn,
		Attributes: map[string]string{
			"identity": identity,
			"amount":   strconv.FormatUint(amount, 10),
			"balance":  strconv.FormatUint(balance, 10),
		},
	}
}
