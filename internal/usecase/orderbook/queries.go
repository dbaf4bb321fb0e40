package orderbook

import (
	"sort"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
)

// Order returns a copy of the order with the given ID, terminal orders
// included.
func (ob *Orderbook) Order(id uint64) (orderbookv1.Order, bool) {
	o, ok := ob.orders[id]
	if !ok {
		return orderbookv1.Order{}, false
	}
	return copyOrder(o), true
}

// Bids returns the resting buy orders, best level first, time priority
// within a level.
func (ob *Orderbook) Bids() []orderbookv1.Order {
	return ob.sideOrders(ob.bids, true)
}

// Asks returns the resting sell orders, best level first, time priority
// within a level.
func (ob *Orderbook) Asks() []orderbookv1.Order {
	return ob.sideOrders(ob.asks, false)
}

// Trades returns the full trade log in execution order.
func (ob *Orderbook) Trades() []orderbookv1.Trade {
	trades := make([]orderbookv1.Trade, len(ob.trades))
	copy(trades, ob.trades)
	return trades
}

// LastTradePrice returns the price of the most recent trade, zero when no
// trade has happened yet.
func (ob *Orderbook) LastTradePrice() float64 {
	return ob.lastTradePrice
}

func (ob *Orderbook) sideOrders(levels map[float64][]uint64, highestFirst bool) []orderbookv1.Order {
	prices := make([]float64, 0, len(levels))
	for price := range levels {
		prices = append(prices, price)
	}
	sort.Float64s(prices)
	if highestFirst {
		for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
			prices[i], prices[j] = prices[j], prices[i]
		}
	}

	var orders []orderbookv1.Order
	for _, price := range prices {
		for _, id := range levels[price] {
			orders = append(orders, copyOrder(ob.mustOrder(id)))
		}
	}
	return orders
}

func copyOrder(o *orderbookv1.Order) orderbookv1.Order {
	clone := *o
	clone.AuditTrail = make([]string, len(o.AuditTrail))
	copy(clone.AuditTrail, o.AuditTrail)
	return clone
}
