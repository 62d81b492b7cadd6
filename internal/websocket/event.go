package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeSwitched  EventType = "switched"
	EventTypeRefreshed EventType = "refreshed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeMonth    EntityType = "month"
	EntityTypeExpense  EntityType = "expense"
	EntityTypeBill     EntityType = "bill"
	EntityTypeUpcoming EntityType = "upcoming_bills"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Is reports whether the event is of the given entity and type
func (e Event) Is(entityType EntityType, eventType EventType) bool {
	return e.Entity == entityType && e.Type == fmt.Sprintf("%s.%s", entityType, eventType)
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MonthUpdated creates a month.updated event
func MonthUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeMonth, payload)
}

// MonthSwitched creates a month.switched event
func MonthSwitched(payload interface{}) Event {
	return NewEvent(EventTypeSwitched, EntityTypeMonth, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// BillCreated creates a bill.created event
func BillCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBill, payload)
}

// BillUpdated creates a bill.updated event
func BillUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBill, payload)
}

// BillDeleted creates a bill.deleted event
func BillDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBill, payload)
}

// UpcomingBillsRefreshed creates an upcoming_bills.refreshed event
func UpcomingBillsRefreshed(payload interface{}) Event {
	return NewEvent(EventTypeRefreshed, EntityTypeUpcoming, payload)
}
