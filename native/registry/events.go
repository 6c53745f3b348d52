package registry

import (
	"defind/core/events"
	"defind/core/types"
)

const (
	// EventTypeDescriptionSet is emitted when a website record is created or
	// replaced.
	EventTypeDescriptionSet = "registry.description.set"
	// EventTypeWebsiteRemoved is emitted when a website record is deleted.
	EventTypeWebsiteRemoved = "registry.website.removed"
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

// DescriptionSetEvent returns the structured event payload for a stored
// description.
func DescriptionSetEvent(owner string, link string) *types.Event {
	return &types.Event{
		Type: EventTypeDescriptionSet,
		Attributes: map[string]string{
			"owner": owner,
			"link":  link,
		},
	}
}

// WebsiteRemovedEvent returns the structured event payload for a removed
// website record.
func WebsiteRemovedEvent(owner string, link string) *types.Event {
	return &types.Event{
		Type: EventTypeWebsiteRemoved,
		Attributes: map[string]string{
			"owner": owner,
			"link":  link,
		},
	}
}
