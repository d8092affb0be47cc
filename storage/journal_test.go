package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"

	"prism-board/domain"
)

type stubEnqueuer struct {
	messages []string
	err      error
}

func (s *stubEnqueuer) EnqueueMessage(_ context.Context, content string, _ *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error) {
	s.messages = append(s.messages, content)
	return azqueue.EnqueueMessagesResponse{}, s.err
}

func TestQueueJournalPublish(t *testing.T) {
	q := &stubEnqueuer{}
	fixed := time.UnixMilli(1700000000000)
	j := &QueueJournal{queue: q, now: func() time.Time { return fixed }}

	err := j.Publish(context.Background(), domain.Mutation{
		Namespace: "user",
		Type:      domain.MutationBoardDeleted,
		Board:     "X",
		Count:     2,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(q.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(q.messages))
	}
	var got domain.Mutation
	if err := sonic.UnmarshalString(q.messages[0], &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.ID == "" || got.Time != fixed.UnixMilli() {
		t.Fatalf("mutation not stamped: %+v", got)
	}
	if got.Type != domain.MutationBoardDeleted || got.Board != "X" || got.Count != 2 || got.Namespace != "user" {
		t.Fatalf("unexpected mutation: %+v", got)
	}
}

func TestQueueJournalKeepsID(t *testing.T) {
	q := &stubEnqueuer{}
	j := &QueueJournal{queue: q, now: time.Now}
	_ = j.Publish(context.Background(), domain.Mutation{ID: "fixed", Time: 42})

	var got domain.Mutation
	_ = sonic.UnmarshalString(q.messages[0], &got)
	if got.ID != "fixed" || got.Time != 42 {
		t.Fatalf("existing stamp overwritten: %+v", got)
	}
}

func TestQueueJournalError(t *testing.T) {
	boom := errors.New("queue unavailable")
	j := &QueueJournal{queue: &stubEnqueuer{err: boom}, now: time.Now}
	if err := j.Publish(context.Background(), domain.Mutation{}); !errors.Is(err, boom) {
		t.Fatalf("expected queue error, got %v", err)
	}
	if err := (NopJournal{}).Publish(context.Background(), domain.Mutation{}); err != nil {
		t.Fatalf("nop journal: %v", err)
	}
}
