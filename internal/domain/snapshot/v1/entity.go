package snapshotv1

// State is the serialized form of a whole order book: the registry, the
// trade log and both ID counters. Every Order/Trade field round-trips.
type State struct {
	Orders      map[uint64]OrderRecord `json:"orders"`
	Trades      []TradeRecord          `json:"trades"`
	NextOrderID uint64                 `json:"nextOrderId"`
	NextTradeID uint64                 `json:"nextTradeId"`
}

// OrderRecord is the serialized form of an Order. Timestamps are encoded as
// epoch milliseconds; a nil expiry encodes the "never" sentinel distinctly
// from any real timestamp.
type OrderRecord struct {
	ID              uint64   `json:"id"`
	Side            string   `json:"side"`
	Type            string   `json:"type"`
	Price           float64  `json:"price"`
	StopPrice       float64  `json:"stopPrice"`
	Quantity        uint64   `json:"quantity"`
	Remaining       uint64   `json:"remaining"`
	PeakSize        uint64   `json:"peakSize"`
	VisibleQuantity uint64   `json:"visibleQuantity"`
	Timestamp       int64    `json:"timestamp"`
	Expiry          *int64   `json:"expiry"`
	Status          string   `json:"status"`
	AuditTrail      []string `json:"auditTrail"`
}

// TradeRecord is the serialized form of a Trade.
type TradeRecord struct {
	TradeID     uint64  `json:"tradeId"`
	BuyOrderID  uint64  `json:"buyOrderId"`
	SellOrderID uint64  `json:"sellOrderId"`
	Price       float64 `json:"price"`
	Quantity    uint64  `json:"quantity"`
	Timestamp   int64   `json:"timestamp"`
}
