// Command vortex-cli is an interactive shell around a local matching
// engine. Orders are entered as "side type price quantity" with extra
// arguments for stop and iceberg types, and the book is printed after
// every command.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	app "github.com/devaa4522/Vortex-Engine/internal/app/engine"
	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	"github.com/devaa4522/Vortex-Engine/internal/report"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/orderbook"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/snapshot"
	"github.com/devaa4522/Vortex-Engine/pkg/config"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

const usage = `Vortex Matching Engine
Enter orders as: side type price quantity
  buy limit 100.5 10
  sell market 0 5
  buy stop <limitPrice> <quantity> <stopPrice>
  sell iceberg <price> <quantity> <peakSize>
  buy fok 100 10 | sell ioc 100 10
Other commands:
  cancel <id> | modify <id> <price> <quantity> | order <id>
  book | trades | save | load | exit
`

func main() {
	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(
		logger.WithLoggingLevel("error"),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	store := snapshot.NewFileStore(cfg.SnapshotPath, log)
	engine := app.NewEngine(orderbook.NewOrderbook(), store, nil, log, app.DefaultEngineOptions())
	ctx := context.Background()

	fmt.Print(usage)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Order> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		if err := run(ctx, engine, line); err != nil {
			fmt.Println(err)
		}
	}
}

func run(ctx context.Context, engine *app.Engine, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "book":
		fmt.Print(report.OrderBookTable(engine.Bids(), engine.Asks()))
		return nil
	case "trades":
		fmt.Print(report.TradeHistoryTable(engine.Trades()))
		return nil
	case "save":
		if err := engine.Save(ctx); err != nil {
			return err
		}
		fmt.Println("Book saved.")
		return nil
	case "load":
		if err := engine.Load(ctx); err != nil {
			return err
		}
		fmt.Println("Book loaded.")
		fmt.Print(report.OrderBookTable(engine.Bids(), engine.Asks()))
		return nil
	case "cancel":
		return runCancel(engine, fields)
	case "modify":
		return runModify(engine, fields)
	case "order":
		return runShowOrder(engine, fields)
	case "buy", "sell":
		return runPlace(engine, fields)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func runCancel(engine *app.Engine, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("usage: cancel <id>")
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", fields[1])
	}
	if !engine.Cancel(id) {
		return fmt.Errorf("order %d cannot be cancelled", id)
	}
	fmt.Printf("Order %d cancelled.\n", id)
	return nil
}

func runModify(engine *app.Engine, fields []string) error {
	if len(fields) != 4 {
		return fmt.Errorf("usage: modify <id> <price> <quantity>")
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", fields[1])
	}
	price, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || price < 0 {
		return fmt.Errorf("invalid price %q", fields[2])
	}
	qty, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil || qty == 0 {
		return fmt.Errorf("invalid quantity %q", fields[3])
	}

	trades, ok := engine.Modify(id, price, qty)
	if !ok {
		return fmt.Errorf("order %d cannot be modified", id)
	}
	fmt.Printf("Order %d modified.\n", id)
	printTrades(trades)
	fmt.Print(report.OrderBookTable(engine.Bids(), engine.Asks()))
	return nil
}

func runShowOrder(engine *app.Engine, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("usage: order <id>")
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", fields[1])
	}
	o, ok := engine.GetOrder(id)
	if !ok {
		return fmt.Errorf("order %d not found", id)
	}
	fmt.Printf("Order %d: %s %s price=%s qty=%d remaining=%d status=%s\n",
		o.ID, o.Side, o.Type, strconv.FormatFloat(o.Price, 'f', -1, 64),
		o.Quantity, o.Remaining, o.Status)
	for _, entry := range o.AuditTrail {
		fmt.Println("  " + entry)
	}
	return nil
}

func runPlace(engine *app.Engine, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("usage: side type price quantity [extra]")
	}

	cmd := &orderbookv1.Command{
		Side: orderbookv1.Side(fields[0]),
		Type: orderbookv1.OrderType(fields[1]),
	}
	price, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || price < 0 {
		return fmt.Errorf("invalid price %q", fields[2])
	}
	qty, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil || qty == 0 {
		return fmt.Errorf("invalid quantity %q", fields[3])
	}
	cmd.Price = price
	cmd.Quantity = qty

	switch cmd.Type {
	case orderbookv1.OrderTypeLimit, orderbookv1.OrderTypeFOK, orderbookv1.OrderTypeIOC:
		if price == 0 {
			return fmt.Errorf("%s orders need a price", cmd.Type)
		}
	case orderbookv1.OrderTypeMarket:
		cmd.Price = 0
	case orderbookv1.OrderTypeStop:
		if len(fields) != 5 {
			return fmt.Errorf("usage: %s stop <limitPrice> <quantity> <stopPrice>", fields[0])
		}
		stopPrice, err := strconv.ParseFloat(fields[4], 64)
		if err != nil || stopPrice <= 0 {
			return fmt.Errorf("invalid stop price %q", fields[4])
		}
		cmd.StopPrice = stopPrice
	case orderbookv1.OrderTypeIceberg:
		if len(fields) != 5 {
			return fmt.Errorf("usage: %s iceberg <price> <quantity> <peakSize>", fields[0])
		}
		peak, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil || peak == 0 {
			return fmt.Errorf("invalid peak size %q", fields[4])
		}
		cmd.PeakSize = peak
	default:
		return fmt.Errorf("unknown order type %q", fields[1])
	}

	start := time.Now()
	id, trades := engine.Place(cmd)
	if id == 0 {
		fmt.Println("Order rejected: insufficient liquidity to fill or kill.")
		return nil
	}
	fmt.Printf("Order %d accepted in %s.\n", id, time.Since(start).Round(time.Microsecond))
	printTrades(trades)
	fmt.Print(report.OrderBookTable(engine.Bids(), engine.Asks()))
	return nil
}

func printTrades(trades []orderbookv1.Trade) {
	if len(trades) == 0 {
		return
	}
	fmt.Printf("%d trade(s) executed:\n", len(trades))
	fmt.Print(report.TradeHistoryTable(trades))
}
