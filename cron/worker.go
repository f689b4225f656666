package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldengeneration/database/repository"
	"goldengeneration/services/signup"
	"goldengeneration/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ProfileUpdater updates the identity-provider profile of a member.
type ProfileUpdater interface {
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
}

// FirebaseProfileUpdater writes the display name on the Firebase Auth user.
type FirebaseProfileUpdater struct {
	Client *auth.Client
}

func (f *FirebaseProfileUpdater) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	_, err := f.Client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).DisplayName(displayName))
	if auth.IsUserNotFound(err) {
		utils.GetLogger().Warn("Auth user missing, display name not updated", zap.String("userID", uid))
		return nil
	}
	return err
}

// RegistrationHandler performs the writes for a finished signup.
type RegistrationHandler struct {
	Members  repository.MemberRepository
	Profiles ProfileUpdater
}

// ProcessTask implements asynq.Handler. Payloads that cannot be decoded are
// not retried.
func (h *RegistrationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()
	member, err := signup.ParseMemberPersistTask(task)
	if err != nil {
		logger.Error("Invalid registration payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.Members.Upsert(ctx, &member); err != nil {
		logger.Error("Failed to store member", zap.String("userID", member.UserID), zap.Error(err))
		return err
	}

	if h.Profiles != nil {
		if name := member.Personal.FullName(); name != "" {
			if err := h.Profiles.UpdateDisplayName(ctx, member.UserID, name); err != nil {
				logger.Error("Failed to update display name", zap.String("userID", member.UserID), zap.Error(err))
				return err
			}
		}
	}

	logger.Info("Member registered",
		zap.String("userID", member.UserID), zap.String("sessionID", member.SessionID))
	return nil
}

// RegistrationWorker consumes the signup queue.
type RegistrationWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewRegistrationWorker builds a worker over the queue redis.
func NewRegistrationWorker(redisOpt asynq.RedisConnOpt, concurrency int, h *RegistrationHandler) *RegistrationWorker {
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			signup.DefaultQueue: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			utils.GetLogger().Warn("Registration task failed",
				zap.String("type", task.Type()), zap.Int("retry", retried), zap.Int("maxRetry", maxRetry), zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(signup.TypeMemberPersist, h)
	return &RegistrationWorker{server: srv, mux: mux}
}

// Start runs the worker in the background, retrying the connection with backoff.
func (w *RegistrationWorker) Start() error {
	logger := utils.GetLogger()
	const maxAttempts = 5

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.server.Start(w.mux); err == nil {
			logger.Info("Registration worker started")
			return nil
		}
		if errors.Is(err, asynq.ErrServerClosed) {
			return err
		}
		logger.Warn("Registration worker failed to start",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}
	return fmt.Errorf("registration worker: %w", err)
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *RegistrationWorker) Shutdown() {
	w.server.Shutdown()
	utils.GetLogger().Info("Registration worker stopped")
}
