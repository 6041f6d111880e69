package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/jsonx"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type recordLoanEvent func(ctx context.Context, ev model.LoanEvent) error

// Consumer stores loan events from the loan topic.
type Consumer struct {
	record recordLoanEvent
	log    *zap.Logger
}

func NewConsumer(record recordLoanEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		record: record,
		log:    log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if err := consumer.handle(session.Context(), message); err != nil {
				consumer.log.Error("loan event not stored", zap.Error(err), zap.Int64("offset", message.Offset))
				continue
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle returns an error only when the message should be retried;
// undecodable payloads are logged and skipped.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	var ev model.LoanEvent
	if err := jsonx.Unmarshal(message.Value, &ev); err != nil {
		consumer.log.Error("bad loan event", zap.Error(err), zap.ByteString("value", message.Value))
		return nil
	}
	if err := consumer.record(ctx, ev); err != nil {
		return err
	}
	consumer.log.Debug("Message claimed:",
		zap.String("type", string(ev.EventType)),
		zap.Int("record_id", ev.RecordID),
		zap.Time("timestamp", message.Timestamp),
		zap.String("topic", message.Topic))
	return nil
}
