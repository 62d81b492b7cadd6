package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "e1",
		"name":   "Groceries",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := NewEvent(EventTypeRefreshed, EntityTypeUpcoming, []string{"wifi"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "upcoming_bills.refreshed", decoded["type"])
	assert.Equal(t, "upcoming_bills", decoded["entity"])
	assert.Equal(t, []interface{}{"wifi"}, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": "x"}

	tests := []struct {
		evt      Event
		expected string
		entity   EntityType
	}{
		{MonthUpdated(payload), "month.updated", EntityTypeMonth},
		{MonthSwitched(payload), "month.switched", EntityTypeMonth},
		{ExpenseCreated(payload), "expense.created", EntityTypeExpense},
		{ExpenseUpdated(payload), "expense.updated", EntityTypeExpense},
		{ExpenseDeleted(payload), "expense.deleted", EntityTypeExpense},
		{BillCreated(payload), "bill.created", EntityTypeBill},
		{BillUpdated(payload), "bill.updated", EntityTypeBill},
		{BillDeleted(payload), "bill.deleted", EntityTypeBill},
		{UpcomingBillsRefreshed(payload), "upcoming_bills.refreshed", EntityTypeUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.evt.Type)
			assert.Equal(t, tt.entity, tt.evt.Entity)
			assert.Equal(t, payload, tt.evt.Payload)
		})
	}
}

func TestEvent_Is(t *testing.T) {
	evt := MonthSwitched("2025-04")

	assert.True(t, evt.Is(EntityTypeMonth, EventTypeSwitched))
	assert.False(t, evt.Is(EntityTypeMonth, EventTypeUpdated))
	assert.False(t, evt.Is(EntityTypeBill, EventTypeSwitched))
}
