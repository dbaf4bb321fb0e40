package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

// In-memory stand-in for the Redis client interface
type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Connect(ctx context.Context) error { return nil }
func (f *fakeRedis) Ping(ctx context.Context) error    { return nil }
func (f *fakeRedis) Close() error                      { return nil }

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	f.data[key] = string(value.([]byte))
	return nil
}

func testState() *snapshotv1.State {
	expiry := int64(1760000000000)
	return &snapshotv1.State{
		Orders: map[uint64]snapshotv1.OrderRecord{
			1: {
				ID: 1, Side: "buy", Type: "limit", Price: 100.5,
				Quantity: 10, Remaining: 6, VisibleQuantity: 6,
				Timestamp: 1750000000000, Status: "active",
				AuditTrail: []string{"Order received @ 2025-06-15 15:06:40"},
			},
			2: {
				ID: 2, Side: "sell", Type: "iceberg", Price: 101,
				Quantity: 50, Remaining: 50, PeakSize: 10, VisibleQuantity: 10,
				Timestamp: 1750000000001, Expiry: &expiry, Status: "active",
			},
		},
		Trades: []snapshotv1.TradeRecord{
			{TradeID: 1, BuyOrderID: 1, SellOrderID: 3, Price: 100.5, Quantity: 4, Timestamp: 1750000000002},
		},
		NextOrderID: 4,
		NextTradeID: 2,
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.NewLogger()
	require.NoError(t, err)
	return l
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	store := NewFileStore(path, testLogger(t))
	ctx := context.Background()

	state := testState()
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state, loaded)

	// The never-expiry sentinel must survive as nil, not zero.
	assert.Nil(t, loaded.Orders[1].Expiry)
	require.NotNil(t, loaded.Orders[2].Expiry)
	assert.Equal(t, int64(1760000000000), *loaded.Orders[2].Expiry)
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), testLogger(t))

	loaded, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	store := NewFileStore(path, testLogger(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState()))

	next := testState()
	next.NextOrderID = 99
	require.NoError(t, store.Save(ctx, next))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), loaded.NextOrderID)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := NewRedisStore(newFakeRedis(), "BTC-USD", testLogger(t))
	ctx := context.Background()

	state := testState()
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state, loaded)
}

func TestRedisStore_LoadEmpty(t *testing.T) {
	store := NewRedisStore(newFakeRedis(), "BTC-USD", testLogger(t))

	loaded, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
