package events

import (
	"log/slog"
	"slices"
	"sync"
)

// InMemoryEventStore keeps versioned event streams and delivers each appended
// event to its subscribers synchronously, in append order.
type InMemoryEventStore struct {
	mu          sync.RWMutex
	streams     map[string][]Event
	log         []Event
	subscribers map[string][]EventHandler
	logger      *slog.Logger
}

func NewInMemoryEventStore(logger *slog.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

// AppendEvent stores event at the next version of its stream and returns the stored copy
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) (Event, error) {
	s.mu.Lock()
	versioned := stored(event, streamID, len(s.streams[streamID])+1)
	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.log = append(s.log, versioned)
	handlers := slices.Clone(s.subscribers[event.Type()])
	s.mu.Unlock()

	// Handlers run outside the lock so they may read the store
	for _, handler := range handlers {
		if !handler.CanHandle(versioned.Type()) {
			continue
		}
		if err := handler.Handle(versioned); err != nil {
			s.logger.Error("event handler failed",
				"event", versioned.Type(),
				"stream", streamID,
				"version", versioned.Version(),
				"error", err)
		}
	}

	return versioned, nil
}

// ReadEvents returns the events of a stream from version onwards (versions start at 1)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tail(s.streams[streamID], fromVersion-1), nil
}

// ReadAllEvents returns events of every stream from a zero-based position in append order
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tail(s.log, fromPosition), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for eventType, handlers := range s.subscribers {
		s.subscribers[eventType] = slices.DeleteFunc(slices.Clone(handlers), func(h EventHandler) bool {
			return h == handler
		})
	}
	return nil
}

// tail copies events[from:], clamping from into range
func tail(events []Event, from int) []Event {
	from = max(from, 0)
	if from >= len(events) {
		return []Event{}
	}
	return slices.Clone(events[from:])
}
