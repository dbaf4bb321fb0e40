package orderbook

import (
	"fmt"
	"math"
	"sort"
	"time"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
)

// Orderbook holds all order state for one instrument: the canonical order
// registry, the two price-level indices, the pending-stop list and the
// trade log. The registry owns every Order; indices and the stop list hold
// IDs only and resolve through the registry on every access.
//
// The type is not safe for concurrent use. The matching engine wrapper
// serializes every call under its lock.
type Orderbook struct {
	orders map[uint64]*orderbookv1.Order
	bids   map[float64][]uint64 // level price -> order IDs in time priority
	asks   map[float64][]uint64
	stops  []uint64 // pending stop order IDs in admission order
	trades []orderbookv1.Trade

	nextOrderID    uint64
	nextTradeID    uint64
	lastTradePrice float64

	now func() time.Time
}

// NewOrderbook creates a new empty orderbook.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		orders:      make(map[uint64]*orderbookv1.Order),
		bids:        make(map[float64][]uint64),
		asks:        make(map[float64][]uint64),
		nextOrderID: 1,
		nextTradeID: 1,
		now:         time.Now,
	}
}

// Admit assigns an ID to the command's order, records it in the registry
// and runs the type-specific matching path. It returns the assigned ID and
// the trades executed as a consequence, stop cascades included.
func (ob *Orderbook) Admit(cmd *orderbookv1.Command) (uint64, []orderbookv1.Trade) {
	now := ob.now()

	o := &orderbookv1.Order{
		ID:        ob.nextOrderID,
		Side:      cmd.Side,
		Type:      cmd.Type,
		Price:     cmd.Price,
		StopPrice: cmd.StopPrice,
		Quantity:  cmd.Quantity,
		Remaining: cmd.Quantity,
		PeakSize:  cmd.PeakSize,
		Timestamp: now,
		Status:    orderbookv1.StatusActive,
	}
	ob.nextOrderID++

	if cmd.ExpiryOffset > 0 {
		o.Expiry = now.Add(cmd.ExpiryOffset)
	}
	if o.Type == orderbookv1.OrderTypeIceberg && o.PeakSize > 0 {
		o.VisibleQuantity = min(o.Quantity, o.PeakSize)
	} else {
		o.VisibleQuantity = o.Quantity
	}

	o.Audit("Order received", now)
	ob.orders[o.ID] = o

	switch o.Type {
	case orderbookv1.OrderTypeStop:
		o.Status = orderbookv1.StatusPending
		o.Audit("Order pending (stop)", now)
		ob.stops = append(ob.stops, o.ID)
		return o.ID, nil

	case orderbookv1.OrderTypeFOK, orderbookv1.OrderTypeIOC:
		executed := ob.matchAggressive(o)
		if len(executed) > 0 {
			executed = append(executed, ob.TriggerStops(ob.lastTradePrice)...)
		}
		return o.ID, executed

	default:
		o.Audit("Order added to book", now)
		ob.insert(o)
		return o.ID, ob.matchAndCascade()
	}
}

// Cancel marks an Active or Pending order Cancelled and removes it from
// its index or the stop list. Returns false for unknown IDs and orders in
// a terminal state.
func (ob *Orderbook) Cancel(id uint64) bool {
	o, ok := ob.orders[id]
	if !ok || (o.Status != orderbookv1.StatusActive && o.Status != orderbookv1.StatusPending) {
		return false
	}

	if o.Status == orderbookv1.StatusActive {
		ob.removeFromLevel(o)
	} else {
		ob.removeStop(id)
	}
	o.Status = orderbookv1.StatusCancelled
	o.Audit("Order cancelled", ob.now())
	return true
}

// Modify cancels and readmits an Active order under the same ID with a new
// price and quantity. The readmitted order gets a fresh timestamp and so
// forfeits its former time priority at its price level.
func (ob *Orderbook) Modify(id uint64, newPrice float64, newQuantity uint64) ([]orderbookv1.Trade, bool) {
	o, ok := ob.orders[id]
	if !ok || o.Status != orderbookv1.StatusActive {
		return nil, false
	}

	now := ob.now()
	ob.removeFromLevel(o)

	o.Price = newPrice
	o.Quantity = newQuantity
	o.Remaining = newQuantity
	o.Timestamp = now
	if o.Type == orderbookv1.OrderTypeIceberg && o.PeakSize > 0 {
		o.VisibleQuantity = min(newQuantity, o.PeakSize)
	} else {
		o.VisibleQuantity = newQuantity
	}
	o.Audit("Order modified", now)
	ob.insert(o)

	return ob.matchAndCascade(), true
}

// Expire removes every Active or Pending order whose deadline has passed.
// It returns the expired IDs in ascending order.
func (ob *Orderbook) Expire(now time.Time) []uint64 {
	var expired []uint64
	for id, o := range ob.orders {
		if o.Status != orderbookv1.StatusActive && o.Status != orderbookv1.StatusPending {
			continue
		}
		if !o.ExpiredAt(now) {
			continue
		}
		if o.Status == orderbookv1.StatusActive {
			ob.removeFromLevel(o)
		} else {
			ob.removeStop(id)
		}
		o.Status = orderbookv1.StatusExpired
		o.Audit("Order expired", now)
		expired = append(expired, id)
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired
}

// TriggerStops activates every pending stop order whose trigger condition
// is met by the given trade price, admits it into the book via the normal
// limit/market path and matches. Matching may itself produce trades that
// trigger further stops; the cascade is processed breadth-first.
func (ob *Orderbook) TriggerStops(lastTradePrice float64) []orderbookv1.Trade {
	var executed []orderbookv1.Trade
	for {
		triggered := ob.takeTriggered(lastTradePrice)
		if len(triggered) == 0 {
			return executed
		}
		now := ob.now()
		for _, id := range triggered {
			o := ob.mustOrder(id)
			o.Status = orderbookv1.StatusActive
			if o.Price > 0 {
				o.Type = orderbookv1.OrderTypeLimit
			} else {
				o.Type = orderbookv1.OrderTypeMarket
			}
			// Activation is a fresh admission for priority purposes.
			o.Timestamp = now
			o.Audit("Stop order triggered", now)
			ob.insert(o)
		}
		session := ob.matchContinuous()
		if len(session) == 0 {
			return executed
		}
		executed = append(executed, session...)
		lastTradePrice = ob.lastTradePrice
	}
}

// takeTriggered removes and returns the IDs of pending stops whose trigger
// condition is met: a buy stop fires when the trade price rises to its stop
// price, a sell stop when it falls to it.
func (ob *Orderbook) takeTriggered(lastTradePrice float64) []uint64 {
	var triggered []uint64
	remaining := ob.stops[:0]
	for _, id := range ob.stops {
		o := ob.mustOrder(id)
		fires := (o.IsBuy() && lastTradePrice >= o.StopPrice) ||
			(o.IsSell() && lastTradePrice <= o.StopPrice)
		if o.Status == orderbookv1.StatusPending && fires {
			triggered = append(triggered, id)
		} else {
			remaining = append(remaining, id)
		}
	}
	ob.stops = remaining
	return triggered
}

// matchAndCascade runs continuous matching and, when trades occurred,
// the stop-trigger cascade they may have set off.
func (ob *Orderbook) matchAndCascade() []orderbookv1.Trade {
	executed := ob.matchContinuous()
	if len(executed) > 0 {
		executed = append(executed, ob.TriggerStops(ob.lastTradePrice)...)
	}
	return executed
}

// matchContinuous executes trades while the best bid and best ask cross.
// The trade price is the maker's price: the order of the two that was
// admitted earlier. Quantity is the smaller matchable quantity of the two.
func (ob *Orderbook) matchContinuous() []orderbookv1.Trade {
	var executed []orderbookv1.Trade
	for {
		bidPrice, bidIDs, hasBid := ob.bestLevel(ob.bids, true)
		askPrice, askIDs, hasAsk := ob.bestLevel(ob.asks, false)
		if !hasBid || !hasAsk || bidPrice < askPrice {
			break
		}

		buy := ob.mustOrder(bidIDs[0])
		sell := ob.mustOrder(askIDs[0])
		qty := min(buy.MatchableQuantity(), sell.MatchableQuantity())
		if qty == 0 {
			break
		}

		now := ob.now()
		trade := ob.recordTrade(buy.ID, sell.ID, ob.executionPrice(buy, sell), qty, now)
		executed = append(executed, trade)

		ob.applyFill(buy, qty, now)
		ob.applyFill(sell, qty, now)
	}
	return executed
}

// matchAggressive handles FOK and IOC orders: an aggressive walk across
// opposite levels, bounded by the order's own limit price, that never
// leaves the order resting. FOK additionally requires the whole quantity
// to be fillable up front and trades nothing otherwise.
func (ob *Orderbook) matchAggressive(o *orderbookv1.Order) []orderbookv1.Trade {
	if o.Type == orderbookv1.OrderTypeFOK && ob.fillableQuantity(o) < o.Quantity {
		o.Status = orderbookv1.StatusCancelled
		o.Audit("FOK cancelled: insufficient liquidity", ob.now())
		return nil
	}

	var executed []orderbookv1.Trade
	for o.Remaining > 0 {
		opposite := ob.asks
		highest := false
		if o.IsSell() {
			opposite = ob.bids
			highest = true
		}
		levelPrice, ids, ok := ob.bestLevel(opposite, highest)
		if !ok || !ob.priceQualifies(o, levelPrice) {
			break
		}

		resting := ob.mustOrder(ids[0])
		qty := min(o.Remaining, resting.MatchableQuantity())
		now := ob.now()

		buyID, sellID := o.ID, resting.ID
		if o.IsSell() {
			buyID, sellID = resting.ID, o.ID
		}
		// The resting order is the maker here by construction.
		trade := ob.recordTrade(buyID, sellID, ob.makerPrice(resting, o), qty, now)
		executed = append(executed, trade)

		o.Remaining -= qty
		ob.applyFill(resting, qty, now)
	}

	now := ob.now()
	if o.Remaining == 0 {
		o.Status = orderbookv1.StatusFilled
		o.Audit("Order fully filled", now)
	} else {
		o.Status = orderbookv1.StatusCancelled
		o.Audit("Remaining quantity cancelled", now)
	}
	return executed
}

// fillableQuantity sums remaining quantity on the opposite side at prices
// at least as good as the order's limit.
func (ob *Orderbook) fillableQuantity(o *orderbookv1.Order) uint64 {
	opposite := ob.asks
	if o.IsSell() {
		opposite = ob.bids
	}
	var fillable uint64
	for price, ids := range opposite {
		if !ob.priceQualifies(o, price) {
			continue
		}
		for _, id := range ids {
			fillable += ob.mustOrder(id).Remaining
		}
	}
	return fillable
}

// priceQualifies reports whether a level at levelPrice is within the
// aggressive order's limit. A zero limit price means unbounded.
func (ob *Orderbook) priceQualifies(o *orderbookv1.Order, levelPrice float64) bool {
	if o.Price == 0 {
		return true
	}
	if o.IsBuy() {
		return levelPrice <= o.Price
	}
	return levelPrice >= o.Price
}

// executionPrice resolves the trade price for a continuous match: the
// maker is whichever of the two crossing orders was admitted earlier.
func (ob *Orderbook) executionPrice(buy, sell *orderbookv1.Order) float64 {
	if buy.HasPriorityOver(sell) {
		return ob.makerPrice(buy, sell)
	}
	return ob.makerPrice(sell, buy)
}

// makerPrice returns the maker's limit price. A market maker has no price
// of its own, so the taker's price is used, falling back to the last trade
// price when both sides are market orders.
func (ob *Orderbook) makerPrice(maker, taker *orderbookv1.Order) float64 {
	if maker.Type != orderbookv1.OrderTypeMarket {
		return maker.Price
	}
	if taker.Type != orderbookv1.OrderTypeMarket && taker.Price > 0 {
		return taker.Price
	}
	return ob.lastTradePrice
}

// applyFill decrements a resting order by the traded quantity, removing it
// from its level when fully filled and replenishing an iceberg order whose
// visible slice was consumed.
func (ob *Orderbook) applyFill(o *orderbookv1.Order, qty uint64, now time.Time) {
	o.Remaining -= qty
	if o.Type == orderbookv1.OrderTypeIceberg {
		if o.VisibleQuantity > qty {
			o.VisibleQuantity -= qty
		} else {
			o.VisibleQuantity = 0
		}
	}

	if o.Remaining == 0 {
		o.Status = orderbookv1.StatusFilled
		o.Audit("Order fully filled", now)
		ob.removeFromLevel(o)
		return
	}

	o.Audit("Order partially filled", now)
	if o.Type == orderbookv1.OrderTypeIceberg && o.VisibleQuantity == 0 {
		ob.replenish(o, now)
	}
}

// replenish reveals the next slice of an iceberg order. The refreshed
// timestamp re-queues the order behind everything already resting at its
// price level.
func (ob *Orderbook) replenish(o *orderbookv1.Order, now time.Time) {
	o.VisibleQuantity = min(o.Remaining, o.PeakSize)
	o.Timestamp = now
	o.Audit("Iceberg slice replenished", now)
	ob.removeFromLevel(o)
	ob.insert(o)
}

// recordTrade appends a trade to the log and advances the last trade price.
func (ob *Orderbook) recordTrade(buyID, sellID uint64, price float64, qty uint64, now time.Time) orderbookv1.Trade {
	trade := orderbookv1.Trade{
		TradeID:     ob.nextTradeID,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Quantity:    qty,
		Timestamp:   now,
	}
	ob.nextTradeID++
	ob.trades = append(ob.trades, trade)
	ob.lastTradePrice = price
	return trade
}

// levelKey returns the price level an order rests at. Market orders are
// marketable at any price, so they sort ahead of every limit order on
// their side.
func levelKey(o *orderbookv1.Order) float64 {
	if o.Type == orderbookv1.OrderTypeMarket {
		if o.IsBuy() {
			return math.MaxFloat64
		}
		return 0
	}
	return o.Price
}

// insert appends an order's ID to its price level, creating the level if
// needed. Slice order within a level is time priority.
func (ob *Orderbook) insert(o *orderbookv1.Order) {
	key := levelKey(o)
	if o.IsBuy() {
		ob.bids[key] = append(ob.bids[key], o.ID)
	} else {
		ob.asks[key] = append(ob.asks[key], o.ID)
	}
}

// removeFromLevel removes an order's ID from its price level, deleting the
// level when it empties.
func (ob *Orderbook) removeFromLevel(o *orderbookv1.Order) {
	key := levelKey(o)
	levels := ob.asks
	if o.IsBuy() {
		levels = ob.bids
	}
	ids := levels[key]
	for i, id := range ids {
		if id == o.ID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(levels, key)
	} else {
		levels[key] = ids
	}
}

// removeStop removes an order's ID from the pending-stop list.
func (ob *Orderbook) removeStop(id uint64) {
	for i, sid := range ob.stops {
		if sid == id {
			ob.stops = append(ob.stops[:i], ob.stops[i+1:]...)
			return
		}
	}
}

// bestLevel returns the best price level of a side: the highest level for
// bids, the lowest for asks.
func (ob *Orderbook) bestLevel(levels map[float64][]uint64, highest bool) (float64, []uint64, bool) {
	var best float64
	found := false
	for price := range levels {
		if !found || (highest && price > best) || (!highest && price < best) {
			best = price
			found = true
		}
	}
	if !found {
		return 0, nil, false
	}
	return best, levels[best], true
}

// mustOrder resolves an ID through the registry. An ID present in an index
// but absent from the registry means a prior invariant violation.
func (ob *Orderbook) mustOrder(id uint64) *orderbookv1.Order {
	o, ok := ob.orders[id]
	if !ok {
		panic(fmt.Sprintf("orderbook: order %d referenced by an index but missing from the registry", id))
	}
	return o
}
