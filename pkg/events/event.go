package events

import "time"

// Domain event codes published over the event bus.
const (
	TypeGameCreated      = "GAME_CREATED"
	TypeGameDeleted      = "GAME_DELETED"
	TypeRulesProcessed   = "RULES_PROCESSED"
	TypeRulesDeleted     = "RULES_DELETED"
	TypeHouseRuleChanged = "HOUSE_RULE_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "GAME_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
