package notification

import (
	"context"
	"encoding/json"

	"github.com/ConteMartin/PASTO/models"

	"github.com/hibiken/asynq"
)

// TypePushDeliver is the asynq task type for push delivery of a stored
// notification.
const TypePushDeliver = "push:deliver"

// PushPayload is the task payload handed to the delivery worker.
type PushPayload struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
}

// NewPushTask builds the asynq task for a notification.
func NewPushTask(n models.Notification) (*asynq.Task, error) {
	b, err := json.Marshal(PushPayload{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePushDeliver, b), nil
}

// PushEnqueuer hands notifications to the delivery queue.
type PushEnqueuer interface {
	Enqueue(ctx context.Context, n models.Notification) error
}

// AsynqEnqueuer is the production PushEnqueuer backed by an asynq client.
type AsynqEnqueuer struct {
	Client *asynq.Client
}

func (e *AsynqEnqueuer) Enqueue(ctx context.Context, n models.Notification) error {
	task, err := NewPushTask(n)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task)
	return err
}
