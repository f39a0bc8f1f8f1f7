package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{
		{ID: "e1", RequestID: "req-1", AggregateID: "g1", EventType: "payroll.salary.generated", Topic: "payroll.salary_generation.v1", Payload: []byte("{}")},
		{ID: "e2", AggregateID: "g2", EventType: "payroll.salary.generated", Topic: "payroll.salary_generation.v1", Payload: []byte("{}")},
	}}
	writer := &fakeWriter{failKey: "g2"}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"e1"}, repo.sent)
	assert.Contains(t, repo.failed["e2"], "broker unavailable")

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "payroll.salary_generation.v1", msg.Topic)
	assert.Equal(t, []byte("g1"), msg.Key)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	require.Len(t, msg.Headers, 4)
	assert.Equal(t, "request_id", msg.Headers[3].Key)
	assert.Equal(t, []byte("req-1"), msg.Headers[3].Value)
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	sent, err := producer.ProcessPendingEvents(context.Background(), &fakeOutboxRepo{}, &fakeWriter{}, zap.NewNop())

	require.NoError(t, err)
	assert.Zero(t, sent)
}
