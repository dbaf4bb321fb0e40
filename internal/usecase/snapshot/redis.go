package snapshot

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
	"github.com/devaa4522/Vortex-Engine/pkg/errors"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
	"github.com/devaa4522/Vortex-Engine/pkg/redis"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisStore persists book snapshots in Redis under the instrument name.
type RedisStore struct {
	instrument  string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewRedisStore creates a snapshot store backed by the given Redis client.
func NewRedisStore(redisclient redis.Client, instrument string, logger *logger.Logger) *RedisStore {
	return &RedisStore{
		instrument:  instrument,
		redisclient: redisclient,
		logger:      logger,
	}
}

// Save serializes the state and stores it in Redis.
func (s *RedisStore) Save(ctx context.Context, state *snapshotv1.State) error {
	s.logger.InfoContext(ctx, fmt.Sprintf("Storing snapshot for %s", s.instrument), logger.Field{
		Key:   "instrument",
		Value: s.instrument,
	})

	buf, err := json.Marshal(state)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "instrument",
			Value: s.instrument,
		})
		return errors.NewTracer(string(errors.SnapshotMarshalError)).Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.instrument, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "instrument",
			Value: s.instrument,
		})
		return errors.NewTracer(string(errors.SnapshotWriteError)).Wrap(err)
	}
	return nil
}

// Load fetches and deserializes the state from Redis. A missing key yields
// (nil, nil) so callers can distinguish "nothing saved yet" from failure.
func (s *RedisStore) Load(ctx context.Context) (*snapshotv1.State, error) {
	data, err := s.redisclient.Get(ctx, s.instrument)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "instrument",
			Value: s.instrument,
		})
		return nil, errors.NewTracer(string(errors.SnapshotReadError)).Wrap(err)
	}
	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No snapshot found for %s", s.instrument), logger.Field{
			Key:   "instrument",
			Value: s.instrument,
		})
		return nil, nil
	}

	var state snapshotv1.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "instrument",
			Value: s.instrument,
		})
		return nil, errors.NewTracer(string(errors.SnapshotUnmarshalError)).Wrap(err)
	}
	return &state, nil
}
