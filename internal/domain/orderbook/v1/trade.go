package orderbookv1

import "time"

// Trade is an immutable record of an executed match. Created only by a
// successful match; never mutated or deleted.
type Trade struct {
	TradeID     uint64    `json:"tradeId"`
	BuyOrderID  uint64    `json:"buyOrderId"`
	SellOrderID uint64    `json:"sellOrderId"`
	Price       float64   `json:"price"`
	Quantity    uint64    `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}
