package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"goldengeneration/models"
	"goldengeneration/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeMemberPersist is the asynq task type carrying a finished registration.
const TypeMemberPersist = "signup:persist"

// DefaultQueue is where registration tasks are enqueued.
const DefaultQueue = "signup"

const memberPersistMaxRetry = 10

// NewMemberPersistTask builds the task for member. The task ID is derived from
// the session so a repeated hand-off of the same session is deduplicated.
func NewMemberPersistTask(member models.Member) (*asynq.Task, error) {
	payload, err := json.Marshal(member)
	if err != nil {
		return nil, fmt.Errorf("encode member payload: %w", err)
	}
	return asynq.NewTask(TypeMemberPersist, payload,
		asynq.TaskID("member:"+member.SessionID),
		asynq.MaxRetry(memberPersistMaxRetry),
	), nil
}

// ParseMemberPersistTask decodes a task built by NewMemberPersistTask.
func ParseMemberPersistTask(task *asynq.Task) (models.Member, error) {
	var member models.Member
	if err := json.Unmarshal(task.Payload(), &member); err != nil {
		return member, fmt.Errorf("decode member payload: %w", err)
	}
	if member.UserID == "" {
		return member, fmt.Errorf("member payload has no user id")
	}
	return member, nil
}

// Enqueuer is the part of *asynq.Client the persister uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuePersister hands registrations to the background worker. Its job ends
// once the task is accepted by the queue.
type QueuePersister struct {
	Client Enqueuer
	Queue  string
}

func NewQueuePersister(client Enqueuer) *QueuePersister {
	return &QueuePersister{Client: client, Queue: DefaultQueue}
}

func (p *QueuePersister) Save(ctx context.Context, member models.Member) error {
	task, err := NewMemberPersistTask(member)
	if err != nil {
		return err
	}
	queue := p.Queue
	if queue == "" {
		queue = DefaultQueue
	}
	info, err := p.Client.EnqueueContext(ctx, task, asynq.Queue(queue))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		utils.GetLogger().Info("Registration already queued",
			zap.String("userID", member.UserID), zap.String("sessionID", member.SessionID))
		return nil
	}
	if err != nil {
		utils.GetLogger().Error("Failed to enqueue registration",
			zap.String("userID", member.UserID), zap.Error(err))
		return err
	}
	utils.GetLogger().Info("Registration queued",
		zap.String("userID", member.UserID), zap.String("taskID", info.ID), zap.String("queue", info.Queue))
	return nil
}
