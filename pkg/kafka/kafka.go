package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	LoanTopic         = "library.loans"
	LoanConsumerGroup = "library-loan-events"
)

type Config struct {
	Enable bool     `envconfig:"KAFKA_ENABLE" default:"false"`
	Addrs  []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Timeout = 5 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume keeps the group session alive until ctx is cancelled.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("kafka consume", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
