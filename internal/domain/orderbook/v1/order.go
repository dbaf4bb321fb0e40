package orderbookv1

import (
	"time"

	"github.com/devaa4522/Vortex-Engine/pkg/util"
)

// Side represents which side of the book an order is on.
type Side string

const (
	// SideBuy represents a buy order.
	SideBuy Side = "buy"
	// SideSell represents a sell order.
	SideSell Side = "sell"
)

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeStop represents a stop order, dormant until triggered.
	OrderTypeStop OrderType = "stop"
	// OrderTypeIceberg represents an iceberg order with a visible peak.
	OrderTypeIceberg OrderType = "iceberg"
	// OrderTypeFOK represents a fill-or-kill order.
	OrderTypeFOK OrderType = "fok"
	// OrderTypeIOC represents an immediate-or-cancel order.
	OrderTypeIOC OrderType = "ioc"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	// StatusActive represents an order resting on the book or matching.
	StatusActive OrderStatus = "active"
	// StatusPending represents a stop order waiting for its trigger.
	StatusPending OrderStatus = "pending"
	// StatusFilled represents a completely filled order.
	StatusFilled OrderStatus = "filled"
	// StatusCancelled represents a cancelled order.
	StatusCancelled OrderStatus = "cancelled"
	// StatusExpired represents an order removed by expiry.
	StatusExpired OrderStatus = "expired"
)

// Order represents a single order in the order book. The registry owns the
// only mutable copy; price levels and the stop list reference it by ID.
type Order struct {
	ID              uint64      `json:"id"`
	Side            Side        `json:"side"`
	Type            OrderType   `json:"type"`
	Price           float64     `json:"price"`
	StopPrice       float64     `json:"stopPrice"`
	Quantity        uint64      `json:"quantity"`
	Remaining       uint64      `json:"remaining"`
	PeakSize        uint64      `json:"peakSize"`
	VisibleQuantity uint64      `json:"visibleQuantity"`
	Timestamp       time.Time   `json:"timestamp"`
	Expiry          time.Time   `json:"expiry"` // zero value means the order never expires
	Status          OrderStatus `json:"status"`
	AuditTrail      []string    `json:"auditTrail"`
}

// Command is an admission request carrying the fields needed to construct
// an Order. It has no identity of its own and is consumed exactly once.
type Command struct {
	Side         Side          `json:"side"`
	Type         OrderType     `json:"type"`
	Price        float64       `json:"price"`
	StopPrice    float64       `json:"stopPrice"`
	Quantity     uint64        `json:"quantity"`
	PeakSize     uint64        `json:"peakSize"`
	ExpiryOffset time.Duration `json:"expiryOffset"` // zero means never
}

// IsBuy checks if the order is a buy order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsSell checks if the order is a sell order.
func (o *Order) IsSell() bool {
	return o.Side == SideSell
}

// IsTerminal checks if the order reached a terminal state.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusFilled || o.Status == StatusCancelled || o.Status == StatusExpired
}

// NeverExpires checks if the order carries the "never" expiry sentinel.
func (o *Order) NeverExpires() bool {
	return o.Expiry.IsZero()
}

// ExpiredAt checks if the order's expiry deadline has passed at the given time.
func (o *Order) ExpiredAt(now time.Time) bool {
	return !o.NeverExpires() && !o.Expiry.After(now)
}

// MatchableQuantity returns how much of the order can trade right now.
// For an iceberg order only the visible slice is matchable.
func (o *Order) MatchableQuantity() uint64 {
	if o.Type == OrderTypeIceberg && o.VisibleQuantity < o.Remaining {
		return o.VisibleQuantity
	}
	return o.Remaining
}

// Audit appends a timestamped lifecycle entry to the order's trail.
func (o *Order) Audit(action string, now time.Time) {
	o.AuditTrail = append(o.AuditTrail, action+" @ "+util.FormatTime(now))
}

// HasPriorityOver reports whether o was admitted before other; ID breaks
// timestamp ties since IDs are assigned monotonically.
func (o *Order) HasPriorityOver(other *Order) bool {
	if o.Timestamp.Equal(other.Timestamp) {
		return o.ID < other.ID
	}
	return o.Timestamp.Before(other.Timestamp)
}
