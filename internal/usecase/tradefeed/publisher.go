package tradefeed

import (
	"context"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
	"github.com/devaa4522/Vortex-Engine/pkg/config"
	"github.com/devaa4522/Vortex-Engine/pkg/errors"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher pushes executed trades onto a Kafka topic for downstream
// consumers (market data, settlement).
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for the trade topic.
func NewPublisher(cfg config.KafkaConfig, logger *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.TradeTopic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// Publish writes one executed trade to the topic, keyed by trade ID so a
// partitioned topic keeps per-trade ordering.
func (p *Publisher) Publish(ctx context.Context, trade orderbookv1.Trade) error {
	value, err := json.Marshal(trade)
	if err != nil {
		p.logger.Error(err, logger.Field{Key: "tradeId", Value: trade.TradeID})
		return errors.NewTracer(string(errors.TradePublishError)).Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(trade.TradeID, 10)),
		Value: value,
	}
	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "tradeId", Value: trade.TradeID},
			logger.Field{Key: "operation", Value: "Publish"},
		)
		return errors.NewTracer(string(errors.TradePublishError)).Wrap(err)
	}
	return nil
}

// PublishAll writes a batch of trades, stopping at the first failure.
func (p *Publisher) PublishAll(ctx context.Context, trades []orderbookv1.Trade) error {
	for _, trade := range trades {
		if err := p.Publish(ctx, trade); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
