package stake

import (
	"strconv"

	"defind/core/events"
	"defind/core/types"
)

const (
	// EventTypeDeltaApplied is emitted when a stake batch commits.
	EventTypeDeltaApplied = "stake.delta.applied"
	// EventTypeRetracted is emitted when a website is fully unwound.
	EventTypeRetracted = "stake.website.retracted"
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

// DeltaAppliedEvent returns the structured event payload for a committed
// stake batch.
func DeltaAppliedEvent(owner string, link string, adds int, removes int, balance uint64) *types.Event {
	return &types.Event{
		Type: EventTypeDeltaApplied,
		Attributes: map[string]string{
			"owner":   owner,
			"link":    link,
			"adds":    strconv.Itoa(adds),
			"removes": strconv.Itoa(removes),
			"balance": strconv.FormatUint(balance, 10),
		},
	}
}

// RetractedEvent returns the structured event payload for a retraction.
func RetractedEvent(owner string, link string, reclaimed uint64) *types.Event {
	return &types.Event{
		Type: EventTypeRetracted,
		Attributes: map[string]string{
			"owner":     owner,
			"link":      link,
			"reclaimed": strconv.FormatUint(reclaimed, 10),
		},
	}
}
