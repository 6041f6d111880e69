package handler_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type session struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *session) Context() context.Context { return s.ctx }

func (s *session) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type claim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c claim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	var stored []model.LoanEvent
	record := func(_ context.Context, ev model.LoanEvent) error {
		if ev.RecordID == 13 {
			return errors.New("db down")
		}
		stored = append(stored, ev)
		return nil
	}
	consumer := handler.NewConsumer(record, zap.NewNop())

	msgs := make(chan *sarama.ConsumerMessage, 3)
	msgs <- &sarama.ConsumerMessage{Offset: 1, Value: []byte(`{"event_type":"borrowed","record_id":1,"user_id":3,"book_id":7}`)}
	msgs <- &sarama.ConsumerMessage{Offset: 2, Value: []byte(`not json`)}
	msgs <- &sarama.ConsumerMessage{Offset: 3, Value: []byte(`{"event_type":"returned","record_id":13}`)}
	close(msgs)

	sess := &session{ctx: context.Background()}
	require.NoError(t, consumer.ConsumeClaim(sess, claim{messages: msgs}))

	require.Equal(t, []int64{1, 2}, sess.marked)
	require.Len(t, stored, 1)
	require.Equal(t, model.EventBorrowed, stored[0].EventType)
	require.Equal(t, 7, stored[0].BookID)
}
