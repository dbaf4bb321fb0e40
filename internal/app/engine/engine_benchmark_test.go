package engine

import (
	"testing"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/orderbook"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

func setupBenchmarkEngine(b *testing.B) *Engine {
	log, err := logger.NewLogger(logger.WithLoggingLevel("error"))
	if err != nil {
		b.Fatal(err)
	}
	return NewEngine(orderbook.NewOrderbook(), nil, nil, log, DefaultEngineOptions())
}

func BenchmarkEngine_PlaceLimitOrder(b *testing.B) {
	e := setupBenchmarkEngine(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderbookv1.SideBuy
		if i%2 == 0 {
			side = orderbookv1.SideSell
		}
		e.Place(&orderbookv1.Command{
			Side:     side,
			Type:     orderbookv1.OrderTypeLimit,
			Price:    50_000 + float64(i%100),
			Quantity: 10,
		})
	}
}

func BenchmarkEngine_PlaceAndCancel(b *testing.B) {
	e := setupBenchmarkEngine(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id, _ := e.Place(&orderbookv1.Command{
			Side:     orderbookv1.SideBuy,
			Type:     orderbookv1.OrderTypeLimit,
			Price:    50_000,
			Quantity: 10,
		})
		e.Cancel(id)
	}
}

func BenchmarkOrderbook_MatchHeavy(b *testing.B) {
	ob := orderbook.NewOrderbook()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob.Admit(&orderbookv1.Command{
			Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeLimit,
			Price: 100, Quantity: 1,
		})
		ob.Admit(&orderbookv1.Command{
			Side: orderbookv1.SideSell, Type: orderbookv1.OrderTypeLimit,
			Price: 100, Quantity: 1,
		})
	}
}
