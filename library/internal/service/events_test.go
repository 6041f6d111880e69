package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/pkg/circuitbreaker"
	"github.com/Astemirdum/library-management/pkg/jsonx"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	defer func() { require.NoError(t, producer.Close()) }()

	ev := model.LoanEvent{EventType: model.EventReturned, RecordID: 5, UserID: 3, BookID: 7, Amount: 6, OccurredAt: t0}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got model.LoanEvent
		if err := jsonx.Unmarshal(val, &got); err != nil {
			return err
		}
		if got != ev {
			return errors.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	pub := service.NewKafkaPublisher(producer, circuitbreaker.New(circuitbreaker.Config{}))
	require.NoError(t, pub.Publish(context.Background(), ev))
}

func TestKafkaPublisher_BreakerOpens(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	defer func() { require.NoError(t, producer.Close()) }()
	cb := circuitbreaker.New(circuitbreaker.Config{Window: 2, FailureRatio: 1, Cooldown: time.Minute})
	pub := service.NewKafkaPublisher(producer, cb)

	for i := 0; i < 2; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
		require.Error(t, pub.Publish(context.Background(), model.LoanEvent{RecordID: i}))
	}
	require.Equal(t, circuitbreaker.Open, cb.State())
	require.ErrorIs(t, pub.Publish(context.Background(), model.LoanEvent{RecordID: 3}), circuitbreaker.ErrOpen)
}

func TestService_RecordLoanEvent(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	ev := model.LoanEvent{EventType: model.EventBorrowed, RecordID: 1, UserID: 3, BookID: 7, OccurredAt: t0}
	repo.EXPECT().InsertLoanEvent(gomock.Any(), ev).Return(nil)
	require.NoError(t, svc.RecordLoanEvent(context.Background(), ev))
}
