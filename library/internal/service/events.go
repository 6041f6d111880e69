package service

import (
	"context"
	"strconv"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/circuitbreaker"
	"github.com/Astemirdum/library-management/pkg/jsonx"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/IBM/sarama"
)

type EventPublisher interface {
	Publish(ctx context.Context, ev model.LoanEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.LoanEvent) error { return nil }

// KafkaPublisher sends loan events keyed by record id, so one loan's events stay ordered.
// While the breaker is open events are dropped instead of stalling requests.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	cb       *circuitbreaker.CircuitBreaker
}

func NewKafkaPublisher(producer sarama.SyncProducer, cb *circuitbreaker.CircuitBreaker) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, cb: cb}
}

func (p *KafkaPublisher) Publish(_ context.Context, ev model.LoanEvent) error {
	data, err := jsonx.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: kafka.LoanTopic,
		Key:   sarama.StringEncoder(strconv.Itoa(ev.RecordID)),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
}

// RecordLoanEvent persists an event received from the loan topic.
func (s *Service) RecordLoanEvent(ctx context.Context, ev model.LoanEvent) error {
	return s.repo.InsertLoanEvent(ctx, ev)
}
