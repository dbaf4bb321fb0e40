package orderfeed

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	"github.com/devaa4522/Vortex-Engine/pkg/config"
	"github.com/devaa4522/Vortex-Engine/pkg/errors"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reader consumes admission commands from the order topic. It lets an
// upstream gateway feed the engine over Kafka instead of HTTP.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a Kafka reader on the order topic.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.OrderTopic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// ReadCommand blocks for the next message and parses it as an admission
// command.
func (r *Reader) ReadCommand(ctx context.Context) (*orderbookv1.Command, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return nil, errors.NewTracer(string(errors.OrderFeedReadError)).Wrap(err)
	}

	var cmd orderbookv1.Command
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		r.logError(err, "UnmarshalCommand")
		return nil, errors.NewTracer(string(errors.OrderFeedReadError)).Wrap(err)
	}

	r.logger.Info("ReadCommand",
		logger.Field{Key: "side", Value: cmd.Side},
		logger.Field{Key: "type", Value: cmd.Type},
		logger.Field{Key: "price", Value: cmd.Price},
		logger.Field{Key: "quantity", Value: cmd.Quantity},
	)
	return &cmd, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
