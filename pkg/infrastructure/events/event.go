package events

import (
	"time"
)

// Event is one immutable entry of a stream. Version is assigned by the store.
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends to versioned streams and fans events out to subscribers
type EventStore interface {
	AppendEvent(streamID string, event Event) (Event, error)
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type BaseEvent struct {
	EventType    string
	Stream       string
	EventData    any
	EventTime    time.Time
	EventVersion int
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) StreamID() string     { return e.Stream }
func (e BaseEvent) Data() any            { return e.EventData }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }
func (e BaseEvent) Version() int         { return e.EventVersion }

// stored copies event into stream at version
func stored(event Event, stream string, version int) BaseEvent {
	return BaseEvent{
		EventType:    event.Type(),
		Stream:       stream,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: version,
	}
}

// NewEvent creates an unversioned event stamped with the current UTC time
func NewEvent(eventType, streamID string, data any) Event {
	return BaseEvent{
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now().UTC(),
	}
}

// FuncHandler adapts a function to EventHandler. Use a pointer so it can be unsubscribed.
type FuncHandler struct {
	fn    func(Event) error
	types map[string]bool
}

// NewFuncHandler handles the given event types, or every type when none are given
func NewFuncHandler(fn func(Event) error, eventTypes ...string) *FuncHandler {
	h := &FuncHandler{fn: fn}
	if len(eventTypes) > 0 {
		h.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			h.types[t] = true
		}
	}
	return h
}

func (h *FuncHandler) Handle(event Event) error {
	return h.fn(event)
}

func (h *FuncHandler) CanHandle(eventType string) bool {
	return h.types == nil || h.types[eventType]
}
