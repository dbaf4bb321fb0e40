package orderbook

import (
	"fmt"
	"sort"
	"time"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
)

// State captures the whole book as a serializable snapshot: registry, trade
// log and both ID counters. Indices are not captured; Restore rebuilds them.
func (ob *Orderbook) State() *snapshotv1.State {
	state := &snapshotv1.State{
		Orders:      make(map[uint64]snapshotv1.OrderRecord, len(ob.orders)),
		Trades:      make([]snapshotv1.TradeRecord, 0, len(ob.trades)),
		NextOrderID: ob.nextOrderID,
		NextTradeID: ob.nextTradeID,
	}
	for id, o := range ob.orders {
		state.Orders[id] = toRecord(o)
	}
	for _, t := range ob.trades {
		state.Trades = append(state.Trades, snapshotv1.TradeRecord{
			TradeID:     t.TradeID,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Price:       t.Price,
			Quantity:    t.Quantity,
			Timestamp:   t.Timestamp.UnixMilli(),
		})
	}
	return state
}

// Restore replaces the book's state with the snapshot. The incoming state
// is validated and staged in full before anything is swapped in, so a bad
// snapshot leaves the current book untouched. Restored orders keep their
// persisted audit trails; no restore entry is appended.
func (ob *Orderbook) Restore(state *snapshotv1.State) error {
	if state == nil {
		return fmt.Errorf("restore: nil state")
	}

	orders := make(map[uint64]*orderbookv1.Order, len(state.Orders))
	for id, rec := range state.Orders {
		if id != rec.ID {
			return fmt.Errorf("restore: order %d keyed under %d", rec.ID, id)
		}
		o, err := fromRecord(rec)
		if err != nil {
			return fmt.Errorf("restore: order %d: %w", id, err)
		}
		orders[id] = o
	}

	trades := make([]orderbookv1.Trade, 0, len(state.Trades))
	for _, rec := range state.Trades {
		trades = append(trades, orderbookv1.Trade{
			TradeID:     rec.TradeID,
			BuyOrderID:  rec.BuyOrderID,
			SellOrderID: rec.SellOrderID,
			Price:       rec.Price,
			Quantity:    rec.Quantity,
			Timestamp:   time.UnixMilli(rec.Timestamp),
		})
	}

	// Rebuild indices from the staged registry in admission order.
	var resting, stops []*orderbookv1.Order
	for _, o := range orders {
		switch o.Status {
		case orderbookv1.StatusActive:
			resting = append(resting, o)
		case orderbookv1.StatusPending:
			stops = append(stops, o)
		}
	}
	byPriority := func(list []*orderbookv1.Order) {
		sort.Slice(list, func(i, j int) bool { return list[i].HasPriorityOver(list[j]) })
	}
	byPriority(resting)
	byPriority(stops)

	staged := &Orderbook{
		orders:      orders,
		bids:        make(map[float64][]uint64),
		asks:        make(map[float64][]uint64),
		nextOrderID: state.NextOrderID,
		nextTradeID: state.NextTradeID,
	}
	for _, o := range resting {
		staged.insert(o)
	}
	for _, o := range stops {
		staged.stops = append(staged.stops, o.ID)
	}

	ob.orders = staged.orders
	ob.bids = staged.bids
	ob.asks = staged.asks
	ob.stops = staged.stops
	ob.trades = trades
	ob.nextOrderID = max(state.NextOrderID, 1)
	ob.nextTradeID = max(state.NextTradeID, 1)
	ob.lastTradePrice = 0
	if len(trades) > 0 {
		ob.lastTradePrice = trades[len(trades)-1].Price
	}
	return nil
}

func toRecord(o *orderbookv1.Order) snapshotv1.OrderRecord {
	rec := snapshotv1.OrderRecord{
		ID:              o.ID,
		Side:            string(o.Side),
		Type:            string(o.Type),
		Price:           o.Price,
		StopPrice:       o.StopPrice,
		Quantity:        o.Quantity,
		Remaining:       o.Remaining,
		PeakSize:        o.PeakSize,
		VisibleQuantity: o.VisibleQuantity,
		Timestamp:       o.Timestamp.UnixMilli(),
		Status:          string(o.Status),
		AuditTrail:      append([]string(nil), o.AuditTrail...),
	}
	if !o.NeverExpires() {
		expiry := o.Expiry.UnixMilli()
		rec.Expiry = &expiry
	}
	return rec
}

func fromRecord(rec snapshotv1.OrderRecord) (*orderbookv1.Order, error) {
	side := orderbookv1.Side(rec.Side)
	if side != orderbookv1.SideBuy && side != orderbookv1.SideSell {
		return nil, fmt.Errorf("invalid side %q", rec.Side)
	}
	switch orderbookv1.OrderType(rec.Type) {
	case orderbookv1.OrderTypeLimit, orderbookv1.OrderTypeMarket, orderbookv1.OrderTypeStop,
		orderbookv1.OrderTypeIceberg, orderbookv1.OrderTypeFOK, orderbookv1.OrderTypeIOC:
	default:
		return nil, fmt.Errorf("invalid type %q", rec.Type)
	}
	switch orderbookv1.OrderStatus(rec.Status) {
	case orderbookv1.StatusActive, orderbookv1.StatusPending, orderbookv1.StatusFilled,
		orderbookv1.StatusCancelled, orderbookv1.StatusExpired:
	default:
		return nil, fmt.Errorf("invalid status %q", rec.Status)
	}
	if rec.Remaining > rec.Quantity {
		return nil, fmt.Errorf("remaining %d exceeds quantity %d", rec.Remaining, rec.Quantity)
	}

	o := &orderbookv1.Order{
		ID:              rec.ID,
		Side:            side,
		Type:            orderbookv1.OrderType(rec.Type),
		Price:           rec.Price,
		StopPrice:       rec.StopPrice,
		Quantity:        rec.Quantity,
		Remaining:       rec.Remaining,
		PeakSize:        rec.PeakSize,
		VisibleQuantity: rec.VisibleQuantity,
		Timestamp:       time.UnixMilli(rec.Timestamp),
		Status:          orderbookv1.OrderStatus(rec.Status),
		AuditTrail:      append([]string(nil), rec.AuditTrail...),
	}
	if rec.Expiry != nil {
		o.Expiry = time.UnixMilli(*rec.Expiry)
	}
	return o, nil
}
