package storage

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"prism-board/domain"
)

// QueueJournal publishes mutations to an Azure storage queue.
type QueueJournal struct {
	queue enqueuer
	now   func() time.Time
}

type enqueuer interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// NewQueueJournal connects to queueName using connStr.
func NewQueueJournal(connStr, queueName string) (*QueueJournal, error) {
	opts := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	q, err := azqueue.NewQueueClientFromConnectionString(connStr, queueName, &opts)
	if err != nil {
		return nil, err
	}
	return &QueueJournal{queue: q, now: time.Now}, nil
}

// Publish stamps m with an id and time when missing and enqueues it as JSON.
func (j *QueueJournal) Publish(ctx context.Context, m domain.Mutation) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Time == 0 {
		m.Time = j.now().UnixMilli()
	}
	data, err := sonic.MarshalString(m)
	if err != nil {
		return err
	}
	_, err = j.queue.EnqueueMessage(ctx, data, nil)
	return err
}

// NopJournal drops every mutation.
type NopJournal struct{}

func (NopJournal) Publish(context.Context, domain.Mutation) error { return nil }
