// Package report renders the book and the trade history as fixed-width
// text tables for the CLI shell.
package report

import (
	"fmt"
	"strconv"
	"strings"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	"github.com/devaa4522/Vortex-Engine/pkg/util"
)

// OrderBookTable renders both sides of the book, buy orders first. Orders
// appear in matching priority: best price level first, time priority
// within the level.
func OrderBookTable(bids, asks []orderbookv1.Order) string {
	var sb strings.Builder
	writeSideTable(&sb, "Buy Orders", bids)
	sb.WriteString("\n")
	writeSideTable(&sb, "Sell Orders", asks)
	return sb.String()
}

func writeSideTable(sb *strings.Builder, title string, orders []orderbookv1.Order) {
	sb.WriteString(title + ":\n")
	fmt.Fprintf(sb, "%-5s%-10s%-8s%-10s%-15s%-25s\n", "ID", "Price", "Qty", "Remain", "Type", "Timestamp")
	sb.WriteString(strings.Repeat("-", 73) + "\n")
	for _, o := range orders {
		fmt.Fprintf(sb, "%-5d%-10s%-8d%-10d%-15s%-25s\n",
			o.ID, formatPrice(o.Price), o.Quantity, o.Remaining, o.Type, util.FormatTime(o.Timestamp))
	}
}

// TradeHistoryTable renders the trade log in execution order.
func TradeHistoryTable(trades []orderbookv1.Trade) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s%-8s%-8s%-10s%-8s%-25s\n", "TradeID", "BuyID", "SellID", "Price", "Qty", "Timestamp")
	sb.WriteString(strings.Repeat("-", 67) + "\n")
	for _, t := range trades {
		fmt.Fprintf(&sb, "%-8d%-8d%-8d%-10s%-8d%-25s\n",
			t.TradeID, t.BuyOrderID, t.SellOrderID, formatPrice(t.Price), t.Quantity, util.FormatTime(t.Timestamp))
	}
	return sb.String()
}

// formatPrice trims trailing zeros so whole prices print as "100" and
// fractional ones as "100.5".
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
