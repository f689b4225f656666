package signup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"goldengeneration/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

const testSessionTTL = 10 * time.Minute

func newRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, testSessionTTL), mr
}

// otherClient writes to the same server the way a second API instance would.
func otherClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func rewriteSession(t *testing.T, client *redis.Client, userID string, fn func(*models.SignupSession)) {
	t.Helper()
	ctx := context.Background()
	data, err := client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	var s models.SignupSession
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	fn(&s)
	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	if err := client.Set(ctx, sessionKey(userID), out, testSessionTTL).Err(); err != nil {
		t.Fatalf("write session: %v", err)
	}
}

func TestRedisSessionStoreCreateAndGet(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	s := &models.SignupSession{ID: "s1", UserID: "u1", Locale: "he", Status: models.SessionActive}

	if err := store.Create(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, &models.SignupSession{ID: "s2", UserID: "u1"}); !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("expected ErrSessionConflict, got %v", err)
	}
	if ttl := mr.TTL("signupSession:u1"); ttl != testSessionTTL {
		t.Fatalf("ttl = %v", ttl)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "s1" || got.Locale != "he" || got.Status != models.SessionActive {
		t.Fatalf("second create must not overwrite: %+v", got)
	}
}

func TestRedisSessionStoreNotFound(t *testing.T) {
	tests := []struct {
		name  string
		setup func(store *RedisSessionStore, mr *miniredis.Miniredis)
	}{
		{
			name:  "never created",
			setup: func(*RedisSessionStore, *miniredis.Miniredis) {},
		},
		{
			name: "expired",
			setup: func(store *RedisSessionStore, mr *miniredis.Miniredis) {
				_ = store.Create(context.Background(), &models.SignupSession{ID: "s1", UserID: "u1"})
				mr.FastForward(testSessionTTL + time.Second)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, mr := newRedisStore(t)
			ctx := context.Background()
			tc.setup(store, mr)

			if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("Get: expected ErrSessionNotFound, got %v", err)
			}
			if _, err := store.Update(ctx, "u1", func(*models.SignupSession) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("Update: expected ErrSessionNotFound, got %v", err)
			}
			if err := store.Delete(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("Delete: expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestRedisSessionStoreUpdateRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, &models.SignupSession{ID: "s1", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(6 * time.Minute)
	if ttl := mr.TTL("signupSession:u1"); ttl != 4*time.Minute {
		t.Fatalf("ttl before update = %v", ttl)
	}

	updated, err := store.Update(ctx, "u1", func(s *models.SignupSession) error {
		s.StepIndex = 1
		return nil
	})
	if err != nil || updated.StepIndex != 1 {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if ttl := mr.TTL("signupSession:u1"); ttl != testSessionTTL {
		t.Fatalf("ttl after update = %v", ttl)
	}

	mr.FastForward(6 * time.Minute)
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("session should outlive the original ttl: %v", err)
	}
	if got.StepIndex != 1 {
		t.Fatalf("index = %d", got.StepIndex)
	}
}

func TestRedisSessionStoreFailedUpdateWritesNothing(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, &models.SignupSession{ID: "s1", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if _, err := store.Update(ctx, "u1", func(s *models.SignupSession) error {
		s.StepIndex = 2
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if s, _ := store.Get(ctx, "u1"); s.StepIndex != 0 {
		t.Fatalf("failed update must not be written, index = %d", s.StepIndex)
	}
}

func TestRedisSessionStoreUpdateRetriesLostRace(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		interfere   int // attempts during which another client writes the key
		wantErr     error
		wantCalls   int
		wantLocale  string
	}{
		{name: "uncontended", maxAttempts: 3, interfere: 0, wantCalls: 1, wantLocale: "en"},
		{name: "retried from a fresh read", maxAttempts: 3, interfere: 1, wantCalls: 2, wantLocale: "ru"},
		{name: "gives up", maxAttempts: 3, interfere: 3, wantErr: ErrSessionConflict, wantCalls: 3, wantLocale: "ru"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, mr := newRedisStore(t)
			store.MaxAttempts = tc.maxAttempts
			other := otherClient(t, mr)
			ctx := context.Background()
			if err := store.Create(ctx, &models.SignupSession{ID: "s1", UserID: "u1", Locale: "en"}); err != nil {
				t.Fatal(err)
			}

			calls := 0
			updated, err := store.Update(ctx, "u1", func(s *models.SignupSession) error {
				calls++
				if calls <= tc.interfere {
					rewriteSession(t, other, "u1", func(s *models.SignupSession) { s.Locale = "ru" })
				}
				s.StepIndex++
				return nil
			})
			if calls != tc.wantCalls {
				t.Fatalf("fn ran %d times, want %d", calls, tc.wantCalls)
			}

			stored, getErr := store.Get(ctx, "u1")
			if getErr != nil {
				t.Fatal(getErr)
			}
			if stored.Locale != tc.wantLocale {
				t.Fatalf("locale = %q, want %q", stored.Locale, tc.wantLocale)
			}
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if stored.StepIndex != 0 {
					t.Fatalf("losing attempts must not be written, index = %d", stored.StepIndex)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if updated.StepIndex != 1 || stored.StepIndex != 1 {
				t.Fatalf("index = %d stored = %d", updated.StepIndex, stored.StepIndex)
			}
		})
	}
}

func TestRedisSessionStoreDelete(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, &models.SignupSession{ID: "s1", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("signupSession:u1") {
		t.Fatal("key should be gone")
	}
	if err := store.Delete(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

// contendedStore lets another client write the session from inside the
// first update function it runs, so the transaction loses and is retried.
type contendedStore struct {
	*RedisSessionStore
	interfere func()
}

func (s *contendedStore) Update(ctx context.Context, userID string, fn func(*models.SignupSession) error) (*models.SignupSession, error) {
	return s.RedisSessionStore.Update(ctx, userID, func(session *models.SignupSession) error {
		if err := fn(session); err != nil {
			return err
		}
		if hook := s.interfere; hook != nil {
			s.interfere = nil
			hook()
		}
		return nil
	})
}

func TestServiceOnRedisHandsOffOnceUnderContention(t *testing.T) {
	tests := []struct {
		name         string
		interfere    func(*models.SignupSession)
		duringSave   func(*models.SignupSession)
		wantErr      error
		wantSaves    int
		wantActivity string
	}{
		{
			name:         "community edit lands during submit",
			interfere:    func(s *models.SignupSession) { addActivity(s, "cooking") },
			wantSaves:    1,
			wantActivity: "cooking",
		},
		{
			name:      "back lands during submit",
			interfere: func(s *models.SignupSession) { s.StepIndex = 0 },
			wantErr:   ErrStepNotActive,
			wantSaves: 0,
		},
		{
			name:       "session rewritten while saving",
			duringSave: func(s *models.SignupSession) { s.StepIndex = 0 },
			wantSaves:  1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			redisStore, mr := newRedisStore(t)
			other := otherClient(t, mr)
			store := &contendedStore{RedisSessionStore: redisStore}
			p := &recordingPersister{}
			svc := newTestService(t, p)
			svc.Store = store
			ctx := context.Background()

			if _, err := svc.Start(ctx, "uid-1", "", "en"); err != nil {
				t.Fatal(err)
			}
			enterPersonal(t, svc, "uid-1", completeDetails())
			if _, ok, err := svc.SubmitPersonal(ctx, "uid-1"); err != nil || !ok {
				t.Fatalf("submit personal: %v %v", ok, err)
			}
			if tc.interfere != nil {
				store.interfere = func() { rewriteSession(t, other, "uid-1", tc.interfere) }
			}
			if tc.duringSave != nil {
				p.during = func() { rewriteSession(t, other, "uid-1", tc.duringSave) }
			}

			view, err := svc.SubmitCommunity(ctx, "uid-1")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if !mr.Exists("signupSession:uid-1") {
					t.Fatal("session should be kept after a rejected submit")
				}
			} else {
				if err != nil || view.Status != models.SessionSubmitted {
					t.Fatalf("submit: %+v %v", view, err)
				}
				if mr.Exists("signupSession:uid-1") {
					t.Fatal("submitted session should be discarded")
				}
			}
			if p.attempts != tc.wantSaves || len(p.saved) != tc.wantSaves {
				t.Fatalf("saves = %d (attempts %d), want %d", len(p.saved), p.attempts, tc.wantSaves)
			}
			if tc.wantActivity != "" {
				got := p.saved[0].Community.CurrentActivities
				if len(got) != 1 || got[0] != tc.wantActivity {
					t.Fatalf("saved activities = %v", got)
				}
			}
		})
	}
}
