package memberRepo

import (
	"context"
	"errors"

	"goldengeneration/models"
)

// ErrMemberNotFound is returned when no member exists for a user id.
var ErrMemberNotFound = errors.New("member not found")

// MemberRepository stores completed registrations, one per user.
type MemberRepository interface {
	// Upsert creates or replaces the member for member.UserID. Replaying the
	// same registration leaves a single record.
	Upsert(ctx context.Context, member *models.Member) error
	// GetByUserID retrieves the member for a Firebase uid.
	GetByUserID(ctx context.Context, userID string) (*models.Member, error)
	// Delete removes the member for a user.
	Delete(ctx context.Context, userID string) error
}
