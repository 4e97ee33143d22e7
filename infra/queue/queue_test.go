package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/innio31/Impact-Digital-Academy-sub022/infra/queue"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/testsupport"
	"github.com/segmentio/kafka-go"
)

// scriptedReader hands out its messages, then blocks until the context ends.
type scriptedReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	failFirst bool
	committed []int64
	closed    bool
	drained   chan struct{}
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.failFirst {
		r.failFirst = false
		r.mu.Unlock()
		return kafka.Message{}, errors.New("leader not available")
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	select {
	case r.drained <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type recordingHandler struct {
	mu       sync.Mutex
	messages []string
	failOn   string
}

func (h *recordingHandler) HandleMessage(message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
	if message == h.failOn {
		return errors.New("smtp unavailable")
	}
	return nil
}

func TestListenHandlesAndCommitsEveryMessage(t *testing.T) {
	reader := &scriptedReader{
		messages: []kafka.Message{
			{Offset: 1, Value: []byte("first")},
			{Offset: 2, Value: []byte("second")},
			{Offset: 3, Value: []byte("third")},
		},
		drained: make(chan struct{}, 1),
	}
	handler := &recordingHandler{failOn: "second"}
	consumer := &queue.KafkaConsumer{Reader: reader, Handler: handler, ServiceName: "test"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Listen(ctx) }()

	<-reader.drained
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}

	if len(handler.messages) != 3 {
		t.Fatalf("expected 3 handled messages, got %v", handler.messages)
	}
	if len(reader.committed) != 3 || reader.committed[1] != 2 {
		t.Fatalf("failed handling must still commit, got %v", reader.committed)
	}
	if !reader.closed {
		t.Fatal("reader not closed on shutdown")
	}
}

func TestListenRetriesAfterReadError(t *testing.T) {
	reader := &scriptedReader{
		messages:  []kafka.Message{{Offset: 9, Value: []byte("after retry")}},
		failFirst: true,
		drained:   make(chan struct{}, 1),
	}
	handler := &recordingHandler{}
	consumer := &queue.KafkaConsumer{Reader: reader, Handler: handler}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Listen(ctx) }()

	<-reader.drained
	cancel()
	<-done

	if len(handler.messages) != 1 || handler.messages[0] != "after retry" {
		t.Fatalf("expected message after retry, got %v", handler.messages)
	}
}

func TestNilProducerSkipsPublish(t *testing.T) {
	producer := queue.NewProducer("", "application-decisions", "", "", testsupport.Logger())
	if producer != nil {
		t.Fatal("expected nil producer without a broker")
	}
	if err := producer.PublishMessage(context.Background(), []byte("1"), []byte("{}")); err != nil {
		t.Fatalf("nil producer publish returned error: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("nil producer close returned error: %v", err)
	}
}
