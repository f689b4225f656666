package memberRepo

import (
	"context"
	"fmt"
	"time"

	"goldengeneration/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreMemberRepo implements MemberRepository with one document per user
// in the "users" collection, keyed by Firebase uid.
type FirestoreMemberRepo struct {
	client *firestore.Client
	coll   *firestore.CollectionRef
}

func NewFirestoreMemberRepo(client *firestore.Client) MemberRepository {
	return &FirestoreMemberRepo{client: client, coll: client.Collection("users")}
}

// Upsert writes the member inside a transaction so the original
// registration time survives a replayed hand-off.
func (r *FirestoreMemberRepo) Upsert(ctx context.Context, member *models.Member) error {
	doc := r.coll.Doc(member.UserID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		member.UpdatedAt = time.Now()
		snap, err := tx.Get(doc)
		switch {
		case err == nil:
			var existing models.Member
			if err := snap.DataTo(&existing); err == nil && !existing.RegisteredAt.IsZero() {
				member.RegisteredAt = existing.RegisteredAt
			}
		case status.Code(err) != codes.NotFound:
			return err
		}
		if member.RegisteredAt.IsZero() {
			member.RegisteredAt = member.UpdatedAt
		}
		return tx.Set(doc, member)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert member %s: %w", member.UserID, err)
	}
	return nil
}

func (r *FirestoreMemberRepo) GetByUserID(ctx context.Context, userID string) (*models.Member, error) {
	snap, err := r.coll.Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	var member models.Member
	if err := snap.DataTo(&member); err != nil {
		return nil, fmt.Errorf("failed to decode member %s: %w", userID, err)
	}
	return &member, nil
}

func (r *FirestoreMemberRepo) Delete(ctx context.Context, userID string) error {
	doc := r.coll.Doc(userID)
	if _, err := doc.Get(ctx); status.Code(err) == codes.NotFound {
		return ErrMemberNotFound
	}
	if _, err := doc.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete member %s: %w", userID, err)
	}
	return nil
}
