package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/agrimart/backend/internal/domain/shared"
)

// EventSerializer maps event type names to Go types and handles the JSON
// round trip for the outbox. Event types registered with RegisterVersioned
// get stale payloads upgraded to the current schema before unmarshaling.
type EventSerializer struct {
	mu      sync.RWMutex
	entries map[string]*serializerEntry
}

type serializerEntry struct {
	goType  reflect.Type
	version int
	chain   upgradeChain
}

// NewEventSerializer creates a new event serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		entries: make(map[string]*serializerEntry),
	}
}

// Register registers an event type whose payload shape never changed.
// The eventType should match what EventType() returns on the event.
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[eventType] = &serializerEntry{
		goType:  structTypeOf(eventInstance),
		version: 1,
		chain:   upgradeChain{},
	}
}

// RegisterVersioned registers an event type at its current schema version
// together with the upgraders that migrate older payloads forward. The
// upgraders must form an unbroken chain from version 1 to the current one.
func (s *EventSerializer) RegisterVersioned(eventType string, version int, eventInstance shared.DomainEvent, upgraders ...EventUpgrader) error {
	chain, err := newUpgradeChain(eventType, version, upgraders)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[eventType] = &serializerEntry{
		goType:  structTypeOf(eventInstance),
		version: version,
		chain:   chain,
	}
	return nil
}

// Serialize serializes a domain event to JSON bytes
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize deserializes JSON bytes to a domain event, upgrading the
// payload first when it was written under an older schema version.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	entry, ok := s.entries[eventType]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	payload := data
	if v := PayloadVersion(data); v < entry.version {
		upgraded, err := entry.chain.apply(eventType, data, v, entry.version)
		if err != nil {
			return nil, err
		}
		payload = upgraded
	}

	eventPtr := reflect.New(entry.goType).Interface()
	if err := json.Unmarshal(payload, eventPtr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}

	return event, nil
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[eventType]
	return ok
}

// RegisteredTypes returns all registered event types
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.entries))
	for t := range s.entries {
		types = append(types, t)
	}
	return types
}

// CurrentVersion returns the registered schema version for an event type
func (s *EventSerializer) CurrentVersion(eventType string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[eventType]
	if !ok {
		return 0, false
	}
	return entry.version, true
}

func structTypeOf(eventInstance shared.DomainEvent) reflect.Type {
	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
