package signup

import (
	"context"
	"errors"
	"time"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
	"goldengeneration/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultSignupService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultSignupService) translator(locale string) i18n.Translator {
	if s.Catalog == nil {
		return i18n.Identity
	}
	return s.Catalog.Translator(locale)
}

func (s *DefaultSignupService) normalizeLocale(locale string) string {
	if s.Catalog == nil {
		if locale == "" {
			return i18n.BaseLocale
		}
		return locale
	}
	if locale == "" || !s.Catalog.HasLocale(locale) {
		return i18n.BaseLocale
	}
	return locale
}

func (s *DefaultSignupService) orchestrator(session *models.SignupSession) *Orchestrator {
	return NewOrchestrator(session, s.Persister,
		WithClock(s.now),
		WithTranslator(s.translator(session.Locale)),
	)
}

// mutate runs fn against the stored session as one update.
func (s *DefaultSignupService) mutate(ctx context.Context, userID string, fn func(o *Orchestrator) error) (*models.SignupSession, error) {
	return s.Store.Update(ctx, userID, func(session *models.SignupSession) error {
		return fn(s.orchestrator(session))
	})
}

// Start creates a session for the user, or resumes the existing one. A
// non-empty locale different from the stored one switches the session's
// language.
func (s *DefaultSignupService) Start(ctx context.Context, userID, email, locale string) (*SessionView, error) {
	existing, err := s.Store.Get(ctx, userID)
	switch {
	case err == nil:
		return s.resume(ctx, existing, locale)
	case !errors.Is(err, ErrSessionNotFound):
		return nil, err
	}

	now := s.now()
	session := &models.SignupSession{
		ID:            uuid.New().String(),
		UserID:        userID,
		Email:         email,
		Locale:        s.normalizeLocale(locale),
		Status:        models.SessionActive,
		Personal:      models.PersonalStepState{Errors: models.FieldErrors{}},
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.Store.Create(ctx, session); err != nil {
		if !errors.Is(err, ErrSessionConflict) {
			return nil, err
		}
		// Another request created it first.
		if session, err = s.Store.Get(ctx, userID); err != nil {
			return nil, err
		}
	} else {
		utils.GetLogger().Info("Signup session started",
			zap.String("userID", userID), zap.String("sessionID", session.ID), zap.String("locale", session.Locale))
	}
	return buildView(session), nil
}

func (s *DefaultSignupService) resume(ctx context.Context, session *models.SignupSession, locale string) (*SessionView, error) {
	if locale == "" || s.normalizeLocale(locale) == session.Locale {
		return buildView(session), nil
	}
	updated, err := s.Store.Update(ctx, session.UserID, func(sess *models.SignupSession) error {
		sess.Locale = s.normalizeLocale(locale)
		sess.LastUpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildView(updated), nil
}

func (s *DefaultSignupService) Current(ctx context.Context, userID string) (*SessionView, error) {
	session, err := s.Store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildView(session), nil
}

func (s *DefaultSignupService) ChangePersonalField(ctx context.Context, userID string, field models.PersonalField, value string) (*SessionView, error) {
	session, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		step, err := o.PersonalStep()
		if err != nil {
			return err
		}
		return step.ChangeField(field, value)
	})
	if err != nil {
		return nil, err
	}
	return buildView(session), nil
}

// SubmitPersonal reports whether the step advanced. When it did not, the
// view carries the per-field errors.
func (s *DefaultSignupService) SubmitPersonal(ctx context.Context, userID string) (*SessionView, bool, error) {
	var advanced bool
	session, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		step, err := o.PersonalStep()
		if err != nil {
			return err
		}
		advanced = step.Submit()
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return buildView(session), advanced, nil
}

func (s *DefaultSignupService) ToggleCommunityOption(ctx context.Context, userID string, field models.CommunitySetField, value string) (*SessionView, error) {
	session, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		step, err := o.CommunityStep()
		if err != nil {
			return err
		}
		return step.ToggleSetMember(field, value)
	})
	if err != nil {
		return nil, err
	}
	return buildView(session), nil
}

func (s *DefaultSignupService) SetCommunityField(ctx context.Context, userID string, field models.CommunityScalarField, value string) (*SessionView, error) {
	session, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		step, err := o.CommunityStep()
		if err != nil {
			return err
		}
		return step.SetScalar(field, value)
	})
	if err != nil {
		return nil, err
	}
	return buildView(session), nil
}

// SubmitCommunity submits the last step and hands the registration off.
func (s *DefaultSignupService) SubmitCommunity(ctx context.Context, userID string) (*SessionView, error) {
	return s.handOff(ctx, userID, func(o *Orchestrator) error {
		step, err := o.CommunityStep()
		if err != nil {
			return err
		}
		step.Submit()
		return nil
	})
}

func (s *DefaultSignupService) Back(ctx context.Context, userID string) (*SessionView, error) {
	session, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		return o.Back()
	})
	if err != nil {
		return nil, err
	}
	return buildView(session), nil
}

// Finalize retries a hand-off that failed earlier.
func (s *DefaultSignupService) Finalize(ctx context.Context, userID string) (*SessionView, error) {
	return s.handOff(ctx, userID, func(o *Orchestrator) error {
		if !o.Done() {
			return ErrSessionIncomplete
		}
		return nil
	})
}

// handOff commits prepare and assembles the member in one update, saves the
// member once that update is stored, then records the outcome in a second
// update. The store may run an update function more than once, so nothing
// outside the session is touched from inside it.
func (s *DefaultSignupService) handOff(ctx context.Context, userID string, prepare func(o *Orchestrator) error) (*SessionView, error) {
	var (
		member  models.Member
		pending bool
	)
	session, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		member, pending = models.Member{}, false
		if err := prepare(o); err != nil {
			return err
		}
		if !o.Done() {
			return nil
		}
		m, ok, err := o.PendingMember()
		if err != nil {
			return err
		}
		member, pending = m, ok
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !pending {
		return s.afterHandOff(ctx, session, nil)
	}

	saveErr := savePending(ctx, s.Persister, member)

	var handoffErr error
	recorded, err := s.mutate(ctx, userID, func(o *Orchestrator) error {
		handoffErr = nil
		if o.Session().ID != member.SessionID {
			return ErrSessionNotFound
		}
		handoffErr = o.RecordHandOff(saveErr)
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) && saveErr == nil {
		// Abandoned or restarted while the registration was being queued.
		session.Status = models.SessionSubmitted
		utils.GetLogger().Info("Signup submitted after its session was discarded",
			zap.String("userID", userID), zap.String("sessionID", member.SessionID))
		return buildView(session), nil
	}
	if err != nil {
		return nil, err
	}
	return s.afterHandOff(ctx, recorded, handoffErr)
}

// afterHandOff discards a session whose registration was accepted. A failed
// hand-off keeps the session so Finalize can retry it.
func (s *DefaultSignupService) afterHandOff(ctx context.Context, session *models.SignupSession, handoffErr error) (*SessionView, error) {
	view := buildView(session)
	if handoffErr != nil {
		utils.GetLogger().Error("Registration hand-off failed",
			zap.String("userID", session.UserID), zap.String("sessionID", session.ID), zap.Error(handoffErr))
		return view, handoffErr
	}
	if session.Status != models.SessionSubmitted {
		return view, nil
	}
	if err := s.Store.Delete(ctx, session.UserID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		// The registration is already queued; an undeleted session just expires.
		utils.GetLogger().Warn("Failed to discard submitted signup session",
			zap.String("userID", session.UserID), zap.Error(err))
	}
	utils.GetLogger().Info("Signup submitted", zap.String("userID", session.UserID), zap.String("sessionID", session.ID))
	return view, nil
}

func (s *DefaultSignupService) Abandon(ctx context.Context, userID string) error {
	if err := s.Store.Delete(ctx, userID); err != nil {
		return err
	}
	utils.GetLogger().Info("Signup session abandoned", zap.String("userID", userID))
	return nil
}

func buildView(session *models.SignupSession) *SessionView {
	view := &SessionView{
		ID:        session.ID,
		Locale:    session.Locale,
		StepIndex: session.StepIndex,
		StepCount: len(Steps),
		Status:    session.Status,
		Errors:    session.Personal.Errors.Clone(),
		Community: models.NewCommunityForm(),
	}
	if session.StepIndex < len(Steps) {
		view.Step = Steps[session.StepIndex]
	}
	switch {
	case session.Personal.Form != nil:
		view.Personal = *session.Personal.Form
	case session.Personal.Saved != nil:
		view.Personal = *session.Personal.Saved
	}
	if session.Community.Form != nil {
		view.Community = *session.Community.Form
	}
	view.Visibility = view.Community.Visibility()
	return view
}
