package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"goldengeneration/models"
	"goldengeneration/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SessionStore keeps in-progress signup sessions keyed by user.
type SessionStore interface {
	// Create stores a new session. ErrSessionConflict if one already exists.
	Create(ctx context.Context, session *models.SignupSession) error
	Get(ctx context.Context, userID string) (*models.SignupSession, error)
	// Update applies fn to the stored session as one read-modify-write. If fn
	// returns an error nothing is written.
	Update(ctx context.Context, userID string, fn func(*models.SignupSession) error) (*models.SignupSession, error)
	Delete(ctx context.Context, userID string) error
}

const (
	sessionKeyPrefix      = "signupSession:"
	defaultSessionTTL     = 30 * time.Minute
	defaultUpdateAttempts = 5
)

// RedisSessionStore keeps each session as a JSON blob with a sliding TTL.
type RedisSessionStore struct {
	Client      *redis.Client
	TTL         time.Duration
	MaxAttempts int
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessionStore{Client: client, TTL: ttl, MaxAttempts: defaultUpdateAttempts}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (s *RedisSessionStore) Create(ctx context.Context, session *models.SignupSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		utils.GetLogger().Error("Failed to marshal signup session", zap.Error(err))
		return err
	}
	ok, err := s.Client.SetNX(ctx, sessionKey(session.UserID), data, s.TTL).Result()
	if err != nil {
		utils.GetLogger().Error("Failed to save signup session", zap.String("userID", session.UserID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrSessionConflict
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, userID string) (*models.SignupSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		utils.GetLogger().Error("Failed to get signup session", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	var session models.SignupSession
	if err := json.Unmarshal(data, &session); err != nil {
		utils.GetLogger().Error("Failed to unmarshal signup session", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	return &session, nil
}

// Update runs fn under WATCH so that two events for the same user never
// interleave. A transaction that loses the race is retried from a fresh read.
func (s *RedisSessionStore) Update(ctx context.Context, userID string, fn func(*models.SignupSession) error) (*models.SignupSession, error) {
	key := sessionKey(userID)
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultUpdateAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		var updated *models.SignupSession
		err := s.Client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			if err != nil {
				return err
			}
			var session models.SignupSession
			if err := json.Unmarshal(data, &session); err != nil {
				return fmt.Errorf("decode signup session: %w", err)
			}
			if err := fn(&session); err != nil {
				return err
			}
			out, err := json.Marshal(&session)
			if err != nil {
				return fmt.Errorf("encode signup session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, s.TTL)
				return nil
			})
			if err == nil {
				updated = &session
			}
			return err
		}, key)

		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			utils.GetLogger().Debug("Signup session changed during update, retrying",
				zap.String("userID", userID), zap.Int("attempt", attempt))
			continue
		}
		return nil, err
	}
	utils.GetLogger().Warn("Giving up on contended signup session", zap.String("userID", userID))
	return nil, ErrSessionConflict
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	n, err := s.Client.Del(ctx, sessionKey(userID)).Result()
	if err != nil {
		utils.GetLogger().Error("Failed to delete signup session", zap.String("userID", userID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// MemorySessionStore is a process-local SessionStore for the terminal client
// and tests. Sessions are stored encoded so callers never share memory with
// the store.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string][]byte{}}
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.SignupSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.UserID]; ok {
		return ErrSessionConflict
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.sessions[session.UserID] = data
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, userID string) (*models.SignupSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID)
}

func (s *MemorySessionStore) Update(_ context.Context, userID string, fn func(*models.SignupSession) error) (*models.SignupSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	s.sessions[userID] = data
	return session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, userID)
	return nil
}

func (s *MemorySessionStore) load(userID string) (*models.SignupSession, error) {
	data, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session models.SignupSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
