package orderbookv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_ExpiredAt(t *testing.T) {
	now := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)

	never := Order{}
	assert.True(t, never.NeverExpires())
	assert.False(t, never.ExpiredAt(now.Add(100*365*24*time.Hour)))

	timed := Order{Expiry: now}
	assert.False(t, timed.ExpiredAt(now.Add(-time.Second)))
	assert.True(t, timed.ExpiredAt(now), "deadline itself counts as expired")
	assert.True(t, timed.ExpiredAt(now.Add(time.Second)))
}

func TestOrder_MatchableQuantity(t *testing.T) {
	plain := Order{Type: OrderTypeLimit, Remaining: 30, VisibleQuantity: 30}
	assert.Equal(t, uint64(30), plain.MatchableQuantity())

	iceberg := Order{Type: OrderTypeIceberg, Remaining: 30, VisibleQuantity: 10}
	assert.Equal(t, uint64(10), iceberg.MatchableQuantity())

	// Final slice smaller than the peak.
	tail := Order{Type: OrderTypeIceberg, Remaining: 3, VisibleQuantity: 10}
	assert.Equal(t, uint64(3), tail.MatchableQuantity())
}

func TestOrder_HasPriorityOver(t *testing.T) {
	ts := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)

	earlier := &Order{ID: 2, Timestamp: ts}
	later := &Order{ID: 1, Timestamp: ts.Add(time.Millisecond)}
	assert.True(t, earlier.HasPriorityOver(later))
	assert.False(t, later.HasPriorityOver(earlier))

	// Equal timestamps fall back to the admission id.
	tied := &Order{ID: 3, Timestamp: ts}
	assert.True(t, earlier.HasPriorityOver(tied))
	assert.False(t, tied.HasPriorityOver(earlier))
}

func TestOrder_Audit(t *testing.T) {
	o := Order{}
	o.Audit("Order received", time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, []string{"Order received @ 2026-01-02 09:30:00"}, o.AuditTrail)
}

func TestOrder_IsTerminal(t *testing.T) {
	for status, terminal := range map[OrderStatus]bool{
		StatusActive:    false,
		StatusPending:   false,
		StatusFilled:    true,
		StatusCancelled: true,
		StatusExpired:   true,
	} {
		o := Order{Status: status}
		assert.Equal(t, terminal, o.IsTerminal(), string(status))
	}
}
