package orderbook

import (
	"testing"
	"time"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to build an admission command
func limitCmd(side orderbookv1.Side, price float64, qty uint64) *orderbookv1.Command {
	return &orderbookv1.Command{Side: side, Type: orderbookv1.OrderTypeLimit, Price: price, Quantity: qty}
}

// Helper to project resting orders down to their IDs
func orderIDs(orders []orderbookv1.Order) []uint64 {
	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// Helper to build a book with a deterministic, strictly advancing clock
func newTestOrderbook() *Orderbook {
	ob := NewOrderbook()
	base := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)
	ob.now = func() time.Time {
		base = base.Add(time.Millisecond)
		return base
	}
	return ob
}

// Test 1: Basic constructor
func TestNewOrderbook(t *testing.T) {
	ob := NewOrderbook()

	assert.NotNil(t, ob)
	assert.NotNil(t, ob.orders)
	assert.NotNil(t, ob.bids)
	assert.NotNil(t, ob.asks)
	assert.Equal(t, uint64(1), ob.nextOrderID)
	assert.Equal(t, uint64(1), ob.nextTradeID)
}

// Test 2: Resting limit order sits on the book
func TestOrderbook_Admit_RestingLimit(t *testing.T) {
	ob := newTestOrderbook()

	id, trades := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))

	require.Equal(t, uint64(1), id)
	assert.Empty(t, trades)

	o, ok := ob.Order(id)
	require.True(t, ok)
	assert.Equal(t, orderbookv1.StatusActive, o.Status)
	assert.Equal(t, uint64(10), o.Remaining)
	assert.Len(t, ob.Bids(), 1)
	assert.Empty(t, ob.Asks())
}

// Test 3: Exact match empties both sides
func TestOrderbook_Admit_ExactMatch(t *testing.T) {
	ob := newTestOrderbook()

	buyID, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))
	sellID, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 10))

	require.Len(t, trades, 1)
	assert.Equal(t, uint64(1), trades[0].TradeID)
	assert.Equal(t, buyID, trades[0].BuyOrderID)
	assert.Equal(t, sellID, trades[0].SellOrderID)
	assert.Equal(t, 100.0, trades[0].Price)
	assert.Equal(t, uint64(10), trades[0].Quantity)

	assert.Empty(t, ob.Bids())
	assert.Empty(t, ob.Asks())

	buy, _ := ob.Order(buyID)
	sell, _ := ob.Order(sellID)
	assert.Equal(t, orderbookv1.StatusFilled, buy.Status)
	assert.Equal(t, orderbookv1.StatusFilled, sell.Status)
	assert.Equal(t, uint64(0), buy.Remaining)
	assert.Equal(t, uint64(0), sell.Remaining)
}

// Test 4: Trade executes at the maker's price
func TestOrderbook_Admit_MakerPrice(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideBuy, 101, 10))
	_, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 10))

	require.Len(t, trades, 1)
	assert.Equal(t, 101.0, trades[0].Price, "price belongs to the resting buy, not the incoming sell")
}

// Test 5: Time priority within a price level
func TestOrderbook_Admit_TimePriority(t *testing.T) {
	ob := newTestOrderbook()

	first, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))
	second, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))

	_, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))

	require.Len(t, trades, 1)
	assert.Equal(t, first, trades[0].BuyOrderID)

	remaining, _ := ob.Order(second)
	assert.Equal(t, orderbookv1.StatusActive, remaining.Status)
}

// Test 6: Better price beats earlier admission
func TestOrderbook_Admit_PricePriority(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))
	better, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 101, 5))

	_, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 99, 5))

	require.Len(t, trades, 1)
	assert.Equal(t, better, trades[0].BuyOrderID)
	assert.Equal(t, 101.0, trades[0].Price)
}

// Test 7: Partial fill leaves the remainder resting
func TestOrderbook_Admit_PartialFill(t *testing.T) {
	ob := newTestOrderbook()

	buyID, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))
	_, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 4))

	require.Len(t, trades, 1)
	assert.Equal(t, uint64(4), trades[0].Quantity)

	buy, _ := ob.Order(buyID)
	assert.Equal(t, orderbookv1.StatusActive, buy.Status)
	assert.Equal(t, uint64(6), buy.Remaining)
}

// Test 8: Market order takes the maker's price and never rests priced
func TestOrderbook_Admit_MarketOrder(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideSell, 102, 10))
	_, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeMarket, Quantity: 10,
	})

	require.Len(t, trades, 1)
	assert.Equal(t, 102.0, trades[0].Price)
}

// Test 9: Unfilled market order rests and beats later limit orders
func TestOrderbook_Admit_MarketOrderRests(t *testing.T) {
	ob := newTestOrderbook()

	mktID, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeMarket, Quantity: 10,
	})
	assert.Empty(t, trades)

	mkt, ok := ob.Order(mktID)
	require.True(t, ok)
	assert.Equal(t, orderbookv1.StatusActive, mkt.Status)

	// An incoming sell matches the resting market buy at the sell's price.
	_, trades = ob.Admit(limitCmd(orderbookv1.SideSell, 105, 10))
	require.Len(t, trades, 1)
	assert.Equal(t, mktID, trades[0].BuyOrderID)
	assert.Equal(t, 105.0, trades[0].Price)
}

// Test 10: FOK with insufficient liquidity trades nothing
func TestOrderbook_FOK_InsufficientLiquidity(t *testing.T) {
	ob := newTestOrderbook()

	restingID, _ := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))

	fokID, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeFOK, Price: 100, Quantity: 10,
	})

	assert.Empty(t, trades)

	fok, _ := ob.Order(fokID)
	assert.Equal(t, orderbookv1.StatusCancelled, fok.Status)
	assert.Equal(t, uint64(10), fok.Remaining)

	resting, _ := ob.Order(restingID)
	assert.Equal(t, uint64(5), resting.Remaining, "book must be untouched")
}

// Test 11: FOK fills completely across several levels
func TestOrderbook_FOK_FillsAcrossLevels(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideSell, 100, 4))
	ob.Admit(limitCmd(orderbookv1.SideSell, 101, 6))

	fokID, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeFOK, Price: 101, Quantity: 10,
	})

	require.Len(t, trades, 2)
	assert.Equal(t, 100.0, trades[0].Price)
	assert.Equal(t, 101.0, trades[1].Price)

	fok, _ := ob.Order(fokID)
	assert.Equal(t, orderbookv1.StatusFilled, fok.Status)
	assert.Empty(t, ob.Asks())
}

// Test 12: IOC fills what it can and cancels the rest
func TestOrderbook_IOC_PartialThenCancel(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))

	iocID, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeIOC, Price: 100, Quantity: 10,
	})

	require.Len(t, trades, 1)
	assert.Equal(t, uint64(5), trades[0].Quantity)

	ioc, _ := ob.Order(iocID)
	assert.Equal(t, orderbookv1.StatusCancelled, ioc.Status)
	assert.Equal(t, uint64(5), ioc.Remaining)
	assert.Empty(t, ob.Bids(), "IOC remainder never rests")
}

// Test 13: IOC respects its limit price
func TestOrderbook_IOC_LimitBound(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))
	ob.Admit(limitCmd(orderbookv1.SideSell, 103, 5))

	_, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeIOC, Price: 100, Quantity: 10,
	})

	require.Len(t, trades, 1)
	assert.Equal(t, 100.0, trades[0].Price)
	assert.Len(t, ob.Asks(), 1, "level beyond the limit stays")
}

// Test 14: Iceberg exposes only its peak and replenishes to the back
func TestOrderbook_Iceberg_Replenish(t *testing.T) {
	ob := newTestOrderbook()

	iceID, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeIceberg,
		Price: 100, Quantity: 30, PeakSize: 10,
	})

	ice, _ := ob.Order(iceID)
	assert.Equal(t, uint64(10), ice.VisibleQuantity)

	// Consume one full peak.
	_, trades := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))
	require.Len(t, trades, 1)
	assert.Equal(t, uint64(10), trades[0].Quantity)

	ice, _ = ob.Order(iceID)
	assert.Equal(t, orderbookv1.StatusActive, ice.Status)
	assert.Equal(t, uint64(20), ice.Remaining)
	assert.Equal(t, uint64(10), ice.VisibleQuantity, "peak restored after the slice filled")
}

// Test 15: Replenished iceberg queues behind later arrivals at its level
func TestOrderbook_Iceberg_LosesPriorityOnReplenish(t *testing.T) {
	ob := newTestOrderbook()

	iceID, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeIceberg,
		Price: 100, Quantity: 20, PeakSize: 5,
	})
	plainID, _ := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))

	// First buy drains the iceberg's visible slice, forcing a replenish.
	_, trades := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))
	require.Len(t, trades, 1)
	assert.Equal(t, iceID, trades[0].SellOrderID)

	// Next buy must hit the plain order, now ahead of the iceberg.
	_, trades = ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))
	require.Len(t, trades, 1)
	assert.Equal(t, plainID, trades[0].SellOrderID)
}

// Test 16: An aggressor larger than one peak chews through several slices
func TestOrderbook_Iceberg_MultipleSlices(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeIceberg,
		Price: 100, Quantity: 30, PeakSize: 10,
	})

	_, trades := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 25))

	var total uint64
	for _, tr := range trades {
		total += tr.Quantity
	}
	assert.Equal(t, uint64(25), total)
	assert.Empty(t, ob.Bids())
}

// Test 17: Stop order stays dormant until the trigger price prints
func TestOrderbook_Stop_TriggerOnTradePrice(t *testing.T) {
	ob := newTestOrderbook()

	stopID, trades := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeStop,
		Price: 102, StopPrice: 101, Quantity: 5,
	})
	assert.Empty(t, trades)

	stop, _ := ob.Order(stopID)
	assert.Equal(t, orderbookv1.StatusPending, stop.Status)
	assert.Empty(t, ob.Bids(), "pending stop is invisible to matching")

	// Liquidity for the stop to hit once it activates.
	ob.Admit(limitCmd(orderbookv1.SideSell, 102, 5))

	// A trade at 101 fires the buy stop.
	ob.Admit(limitCmd(orderbookv1.SideSell, 101, 5))
	_, trades = ob.Admit(limitCmd(orderbookv1.SideBuy, 101, 5))

	require.Len(t, trades, 2)
	assert.Equal(t, 101.0, trades[0].Price)
	assert.Equal(t, stopID, trades[1].BuyOrderID)
	assert.Equal(t, 102.0, trades[1].Price)

	stop, _ = ob.Order(stopID)
	assert.Equal(t, orderbookv1.StatusFilled, stop.Status)
	assert.Equal(t, orderbookv1.OrderTypeLimit, stop.Type, "priced stop activates as a limit order")
}

// Test 18: Stop with no price activates as a market order
func TestOrderbook_Stop_ActivatesAsMarket(t *testing.T) {
	ob := newTestOrderbook()

	stopID, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeStop,
		StopPrice: 99, Quantity: 5,
	})

	ob.Admit(limitCmd(orderbookv1.SideBuy, 98, 5))

	// Print 99 to fire the sell stop.
	ob.Admit(limitCmd(orderbookv1.SideSell, 99, 5))
	_, trades := ob.Admit(limitCmd(orderbookv1.SideBuy, 99, 5))

	require.Len(t, trades, 2)
	assert.Equal(t, stopID, trades[1].SellOrderID)
	assert.Equal(t, 98.0, trades[1].Price, "market stop hits the resting bid at its price")

	stop, _ := ob.Order(stopID)
	assert.Equal(t, orderbookv1.OrderTypeMarket, stop.Type)
}

// Test 19: Stop cascade, one trigger's trades firing the next stop
func TestOrderbook_Stop_Cascade(t *testing.T) {
	ob := newTestOrderbook()

	firstStop, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeStop,
		Price: 98, StopPrice: 100, Quantity: 5,
	})
	secondStop, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeStop,
		Price: 97, StopPrice: 98, Quantity: 5,
	})

	ob.Admit(limitCmd(orderbookv1.SideBuy, 98, 5))
	ob.Admit(limitCmd(orderbookv1.SideBuy, 97, 5))

	// Print 100: fires the first stop, whose fill at 98 fires the second.
	ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))
	_, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))

	require.Len(t, trades, 3)
	assert.Equal(t, firstStop, trades[1].SellOrderID)
	assert.Equal(t, 98.0, trades[1].Price)
	assert.Equal(t, secondStop, trades[2].SellOrderID)
	assert.Equal(t, 97.0, trades[2].Price)
}

// Test 20: Cancel an active order
func TestOrderbook_Cancel(t *testing.T) {
	ob := newTestOrderbook()

	id, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))

	assert.True(t, ob.Cancel(id))
	assert.Empty(t, ob.Bids())

	o, _ := ob.Order(id)
	assert.Equal(t, orderbookv1.StatusCancelled, o.Status)

	// Idempotence: a second cancel is rejected.
	assert.False(t, ob.Cancel(id))
	assert.False(t, ob.Cancel(9999))
}

// Test 21: Cancel a pending stop
func TestOrderbook_Cancel_PendingStop(t *testing.T) {
	ob := newTestOrderbook()

	stopID, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeStop,
		Price: 102, StopPrice: 101, Quantity: 5,
	})

	assert.True(t, ob.Cancel(stopID))

	// A print at the trigger price must not resurrect it.
	ob.Admit(limitCmd(orderbookv1.SideSell, 101, 5))
	ob.Admit(limitCmd(orderbookv1.SideBuy, 101, 5))

	o, _ := ob.Order(stopID)
	assert.Equal(t, orderbookv1.StatusCancelled, o.Status)
}

// Test 22: Modify keeps the ID but resets time priority
func TestOrderbook_Modify_ResetsPriority(t *testing.T) {
	ob := newTestOrderbook()

	first, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))
	second, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 5))

	_, ok := ob.Modify(first, 100, 5)
	require.True(t, ok)

	_, trades := ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))
	require.Len(t, trades, 1)
	assert.Equal(t, second, trades[0].BuyOrderID, "modified order lost its place in the queue")
}

// Test 23: Modify to a crossing price matches immediately
func TestOrderbook_Modify_Crosses(t *testing.T) {
	ob := newTestOrderbook()

	buyID, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 99, 5))
	ob.Admit(limitCmd(orderbookv1.SideSell, 100, 5))

	trades, ok := ob.Modify(buyID, 100, 5)
	require.True(t, ok)
	require.Len(t, trades, 1)
	assert.Equal(t, 100.0, trades[0].Price)
}

// Test 24: Modify is rejected for non-active orders
func TestOrderbook_Modify_Rejections(t *testing.T) {
	ob := newTestOrderbook()

	id, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))
	ob.Cancel(id)

	_, ok := ob.Modify(id, 101, 10)
	assert.False(t, ok)

	_, ok = ob.Modify(12345, 101, 10)
	assert.False(t, ok)
}

// Test 25: Expiry removes due orders, active and pending alike
func TestOrderbook_Expire(t *testing.T) {
	ob := newTestOrderbook()

	expiring, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeLimit,
		Price: 100, Quantity: 5, ExpiryOffset: time.Minute,
	})
	forever, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 99, 5))
	expStop, _ := ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeStop,
		StopPrice: 90, Quantity: 5, ExpiryOffset: time.Minute,
	})

	expired := ob.Expire(ob.now().Add(2 * time.Minute))

	assert.Equal(t, []uint64{expiring, expStop}, expired)

	o, _ := ob.Order(expiring)
	assert.Equal(t, orderbookv1.StatusExpired, o.Status)
	o, _ = ob.Order(forever)
	assert.Equal(t, orderbookv1.StatusActive, o.Status)

	assert.Len(t, ob.Bids(), 1)
	assert.Empty(t, ob.stops)
}

// Test 26: Quantity conservation across a mixed session
func TestOrderbook_QuantityConservation(t *testing.T) {
	ob := newTestOrderbook()

	cmds := []*orderbookv1.Command{
		limitCmd(orderbookv1.SideBuy, 100, 10),
		limitCmd(orderbookv1.SideSell, 100, 4),
		{Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeIceberg, Price: 101, Quantity: 20, PeakSize: 5},
		limitCmd(orderbookv1.SideBuy, 101, 12),
		{Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeIOC, Price: 101, Quantity: 30},
	}
	for _, cmd := range cmds {
		ob.Admit(cmd)
	}

	for id := uint64(1); id < ob.nextOrderID; id++ {
		o, ok := ob.Order(id)
		require.True(t, ok)

		var traded uint64
		for _, tr := range ob.Trades() {
			if tr.BuyOrderID == id || tr.SellOrderID == id {
				traded += tr.Quantity
			}
		}
		assert.Equal(t, o.Quantity, o.Remaining+traded, "order %d", id)
	}
}

// Test 27: Audit trail records the lifecycle
func TestOrderbook_AuditTrail(t *testing.T) {
	ob := newTestOrderbook()

	id, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))
	ob.Admit(limitCmd(orderbookv1.SideSell, 100, 4))
	ob.Cancel(id)

	o, _ := ob.Order(id)
	require.Len(t, o.AuditTrail, 4)
	assert.Contains(t, o.AuditTrail[0], "Order received")
	assert.Contains(t, o.AuditTrail[1], "Order added to book")
	assert.Contains(t, o.AuditTrail[2], "Order partially filled")
	assert.Contains(t, o.AuditTrail[3], "Order cancelled")
}

// Test 28: Snapshot state round-trips through Restore
func TestOrderbook_StateRestore_RoundTrip(t *testing.T) {
	ob := newTestOrderbook()

	ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))
	ob.Admit(limitCmd(orderbookv1.SideSell, 100, 4))
	ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeStop,
		Price: 103, StopPrice: 102, Quantity: 5,
	})
	ob.Admit(&orderbookv1.Command{
		Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeIceberg,
		Price: 105, Quantity: 20, PeakSize: 5, ExpiryOffset: time.Hour,
	})

	state := ob.State()

	restored := newTestOrderbook()
	require.NoError(t, restored.Restore(state))

	assert.Equal(t, ob.nextOrderID, restored.nextOrderID)
	assert.Equal(t, ob.nextTradeID, restored.nextTradeID)
	assert.Equal(t, ob.lastTradePrice, restored.lastTradePrice)
	assert.Equal(t, orderIDs(ob.Bids()), orderIDs(restored.Bids()))
	assert.Equal(t, orderIDs(ob.Asks()), orderIDs(restored.Asks()))
	assert.Equal(t, ob.stops, restored.stops)

	wantTrades, gotTrades := ob.Trades(), restored.Trades()
	require.Equal(t, len(wantTrades), len(gotTrades))
	for i := range wantTrades {
		assert.Equal(t, wantTrades[i].TradeID, gotTrades[i].TradeID)
		assert.Equal(t, wantTrades[i].Price, gotTrades[i].Price)
		assert.Equal(t, wantTrades[i].Quantity, gotTrades[i].Quantity)
		assert.True(t, wantTrades[i].Timestamp.Equal(gotTrades[i].Timestamp))
	}

	for id := uint64(1); id < ob.nextOrderID; id++ {
		want, _ := ob.Order(id)
		got, ok := restored.Order(id)
		require.True(t, ok)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Remaining, got.Remaining)
		assert.Equal(t, want.VisibleQuantity, got.VisibleQuantity)
		assert.Equal(t, want.AuditTrail, got.AuditTrail)
		assert.Equal(t, want.NeverExpires(), got.NeverExpires())
		assert.True(t, want.Timestamp.Equal(got.Timestamp))
	}
}

// Test 29: A bad snapshot leaves the current book untouched
func TestOrderbook_Restore_RejectsInvalidState(t *testing.T) {
	ob := newTestOrderbook()
	id, _ := ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))

	bad := ob.State()
	rec := bad.Orders[id]
	rec.Side = "hold"
	bad.Orders[id] = rec

	require.Error(t, ob.Restore(bad))
	require.Error(t, ob.Restore(nil))

	o, ok := ob.Order(id)
	require.True(t, ok)
	assert.Equal(t, orderbookv1.StatusActive, o.Status)
	assert.Len(t, ob.Bids(), 1)
}

// Test 30: Restored book keeps matching correctly
func TestOrderbook_Restore_ThenMatch(t *testing.T) {
	ob := newTestOrderbook()
	ob.Admit(limitCmd(orderbookv1.SideBuy, 100, 10))

	restored := newTestOrderbook()
	require.NoError(t, restored.Restore(ob.State()))

	sellID, trades := restored.Admit(limitCmd(orderbookv1.SideSell, 100, 10))
	require.Len(t, trades, 1)
	assert.Equal(t, uint64(2), sellID, "ID sequence continues from the snapshot")
	assert.Equal(t, uint64(1), trades[0].BuyOrderID)
}
