package signup

import (
	"context"
	"time"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
)

// SignupService applies user input events to the caller's signup session.
type SignupService interface {
	// Session lifecycle
	Start(ctx context.Context, userID, email, locale string) (*SessionView, error)
	Current(ctx context.Context, userID string) (*SessionView, error)
	Back(ctx context.Context, userID string) (*SessionView, error)
	Finalize(ctx context.Context, userID string) (*SessionView, error)
	Abandon(ctx context.Context, userID string) error

	// Personal details step
	ChangePersonalField(ctx context.Context, userID string, field models.PersonalField, value string) (*SessionView, error)
	SubmitPersonal(ctx context.Context, userID string) (*SessionView, bool, error)

	// Community step
	ToggleCommunityOption(ctx context.Context, userID string, field models.CommunitySetField, value string) (*SessionView, error)
	SetCommunityField(ctx context.Context, userID string, field models.CommunityScalarField, value string) (*SessionView, error)
	SubmitCommunity(ctx context.Context, userID string) (*SessionView, error)
}

// DefaultSignupService is the production implementation.
type DefaultSignupService struct {
	Store     SessionStore
	Persister Persister
	Catalog   *i18n.Catalog
	Clock     func() time.Time
}

// SessionView is what clients render for the current state of a session.
type SessionView struct {
	ID         string                     `json:"id"`
	Locale     string                     `json:"locale"`
	Step       models.StepKey             `json:"step,omitempty"`
	StepIndex  int                        `json:"stepIndex"`
	StepCount  int                        `json:"stepCount"`
	Status     models.SessionStatus       `json:"status"`
	Personal   models.PersonalDetails     `json:"personal"`
	Errors     models.FieldErrors         `json:"errors"`
	Community  models.CommunityForm       `json:"community"`
	Visibility models.CommunityVisibility `json:"visibility"`
}
