package orderbookv1

import (
	"time"

	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
)

// Orderbook defines the operations of a single-instrument order book.
// Implementations are not safe for concurrent use; the matching engine
// wrapper serializes every call under its lock.
type Orderbook interface {
	// Admit assigns an ID to the command's order, runs the type-specific
	// matching path and returns the executed trades.
	Admit(cmd *Command) (uint64, []Trade)
	// Cancel marks an Active or Pending order Cancelled and removes it
	// from its index. Returns false for unknown IDs or terminal orders.
	Cancel(id uint64) bool
	// Modify cancels and readmits an Active order under the same ID with
	// a new price and quantity, forfeiting its time priority.
	Modify(id uint64, newPrice float64, newQuantity uint64) ([]Trade, bool)
	// Expire removes every Active or Pending order whose deadline passed.
	Expire(now time.Time) []uint64
	// TriggerStops activates pending stop orders whose trigger condition
	// is met by the given trade price and matches them in.
	TriggerStops(lastTradePrice float64) []Trade

	// Order returns a copy of the order with the given ID.
	Order(id uint64) (Order, bool)
	// Bids returns resting buy orders, best price first, time priority within a level.
	Bids() []Order
	// Asks returns resting sell orders, best price first, time priority within a level.
	Asks() []Order
	// Trades returns all trades since book creation, in execution order.
	Trades() []Trade

	// State serializes the registry, trade log and ID counters.
	State() *snapshotv1.State
	// Restore replaces the book's contents with the given state. The
	// indices and stop list are rebuilt from order statuses. The book is
	// left untouched when validation fails.
	Restore(state *snapshotv1.State) error
}
