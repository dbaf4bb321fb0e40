package engine

import (
	"context"
	"sync"
	"time"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/orderbook"
	"github.com/devaa4522/Vortex-Engine/pkg/errors"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

// TradePublisher pushes executed trades downstream. Publishing is
// best-effort: a failure is logged and never fails the mutation.
type TradePublisher interface {
	PublishAll(ctx context.Context, trades []orderbookv1.Trade) error
}

// Engine wraps one Orderbook behind a single mutex. Asynchronous
// submissions go through an unbounded FIFO queue drained by one worker
// goroutine, so queued commands apply strictly in arrival order.
// Synchronous calls take the same lock and interleave at command
// boundaries.
type Engine struct {
	mu    sync.Mutex
	book  *orderbook.Orderbook
	queue *CommandQueue

	store     snapshotv1.Store
	publisher TradePublisher
	logger    *logger.Logger
	opts      *Options

	ctx      context.Context
	cancel   context.CancelFunc
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEngine creates an engine around the given book. store and publisher
// may be nil; Save/Load then report the missing store and trades simply go
// unpublished.
func NewEngine(book *orderbook.Orderbook, store snapshotv1.Store, publisher TradePublisher, log *logger.Logger, opts *Options) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}
	return &Engine{
		book:      book,
		queue:     NewCommandQueue(),
		store:     store,
		publisher: publisher,
		logger:    log,
		opts:      opts,
	}
}

// Start launches the queue worker and the periodic expiry sweep.
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.stopCh = make(chan struct{})
	e.wg.Add(2)
	go e.worker()
	go e.expiryLoop()
	e.logger.Info("engine started")
}

// Stop closes the queue, lets the worker drain it and waits for both
// goroutines, giving up after the configured timeout. The engine context
// is cancelled only after the drain so in-flight publishes can finish.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.queue.Close()
		close(e.stopCh)

		done := make(chan struct{})
		go func() {
			e.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			e.logger.Info("engine stopped")
		case <-time.After(e.opts.StopTimeout):
			e.logger.Warn("engine stop timed out")
		}
		e.cancel()
	})
}

// Submit enqueues a command for asynchronous processing.
func (e *Engine) Submit(cmd *orderbookv1.Command) {
	e.queue.Push(cmd)
	queueDepth.Set(float64(e.queue.Len()))
}

// Place admits a command synchronously and returns the assigned order ID
// and the trades it produced. A fill-or-kill that found insufficient
// liquidity returns ID 0; the order itself is still recorded Cancelled
// in the registry.
func (e *Engine) Place(cmd *orderbookv1.Command) (uint64, []orderbookv1.Trade) {
	e.mu.Lock()
	e.sweepExpiredLocked(time.Now())
	id, trades := e.book.Admit(cmd)
	if cmd.Type == orderbookv1.OrderTypeFOK && len(trades) == 0 {
		id = 0
	}
	e.mu.Unlock()

	ordersAdmitted.Inc()
	tradesExecuted.Add(float64(len(trades)))
	e.publish(trades)
	return id, trades
}

// Cancel cancels an order synchronously.
func (e *Engine) Cancel(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sweepExpiredLocked(time.Now())
	return e.book.Cancel(id)
}

// Modify replaces an active order's price and quantity synchronously.
func (e *Engine) Modify(id uint64, newPrice float64, newQuantity uint64) ([]orderbookv1.Trade, bool) {
	e.mu.Lock()
	e.sweepExpiredLocked(time.Now())
	trades, ok := e.book.Modify(id, newPrice, newQuantity)
	e.mu.Unlock()

	if ok {
		tradesExecuted.Add(float64(len(trades)))
		e.publish(trades)
	}
	return trades, ok
}

// GetOrder returns a copy of the order with the given ID.
func (e *Engine) GetOrder(id uint64) (orderbookv1.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Order(id)
}

// Bids returns the resting buy side, best level first.
func (e *Engine) Bids() []orderbookv1.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Bids()
}

// Asks returns the resting sell side, best level first.
func (e *Engine) Asks() []orderbookv1.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Asks()
}

// Trades returns the full trade log.
func (e *Engine) Trades() []orderbookv1.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Trades()
}

// QueueLen returns the number of commands waiting in the queue.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Save snapshots the book to the configured store. The lock is held for
// the whole save, so the persisted state is a consistent cut.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return errors.NewTracer("snapshot store not configured")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Save(ctx, e.book.State())
}

// Load replaces the book with the stored snapshot. The incoming state is
// staged and validated before the swap; on failure the current book stays
// as it was. A store with nothing saved yet is not an error.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return errors.NewTracer("snapshot store not configured")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	if state == nil {
		e.logger.Warn("no snapshot to load")
		return nil
	}
	if err := e.book.Restore(state); err != nil {
		return errors.NewTracer(string(errors.SnapshotInvalidError)).Wrap(err)
	}
	return nil
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		cmd, ok := e.queue.Pop()
		queueDepth.Set(float64(e.queue.Len()))
		if !ok {
			return
		}

		e.mu.Lock()
		e.sweepExpiredLocked(time.Now())
		id, trades := e.book.Admit(cmd)
		e.mu.Unlock()

		ordersAdmitted.Inc()
		tradesExecuted.Add(float64(len(trades)))
		e.publish(trades)

		e.logger.Debug("command applied",
			logger.Field{Key: "orderId", Value: id},
			logger.Field{Key: "trades", Value: len(trades)},
		)
	}
}

func (e *Engine) expiryLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.opts.ExpiryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.ctx.Done():
			return
		case <-e.stopCh:
			return
		case now := <-ticker.C:
			e.mu.Lock()
			e.sweepExpiredLocked(now)
			e.mu.Unlock()
		}
	}
}

func (e *Engine) sweepExpiredLocked(now time.Time) {
	expired := e.book.Expire(now)
	if len(expired) == 0 {
		return
	}
	ordersExpired.Add(float64(len(expired)))
	e.logger.Info("orders expired",
		logger.Field{Key: "count", Value: len(expired)},
		logger.Field{Key: "orderIds", Value: expired},
	)
}

func (e *Engine) publish(trades []orderbookv1.Trade) {
	if e.publisher == nil || len(trades) == 0 {
		return
	}
	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.publisher.PublishAll(ctx, trades); err != nil {
		e.logger.Error(err, logger.Field{Key: "operation", Value: "publish trades"})
	}
}
