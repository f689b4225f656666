package eventRepo

import (
	"context"
	"fmt"

	"goldengeneration/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreEventRepo keeps events in the "events" collection, document id =
// event id.
type FirestoreEventRepo struct {
	coll *firestore.CollectionRef
}

func NewFirestoreEventRepo(client *firestore.Client) EventRepository {
	return &FirestoreEventRepo{coll: client.Collection("events")}
}

func (r *FirestoreEventRepo) List(ctx context.Context) ([]models.Event, error) {
	iter := r.coll.OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	events := []models.Event{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve events: %w", err)
		}
		var e models.Event
		if err := snap.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to decode event %s: %w", snap.Ref.ID, err)
		}
		if e.ID == "" {
			e.ID = snap.Ref.ID
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *FirestoreEventRepo) Create(ctx context.Context, event *models.Event) error {
	if _, err := r.coll.Doc(event.ID).Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *FirestoreEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	snap, err := r.coll.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}
	var e models.Event
	if err := snap.DataTo(&e); err != nil {
		return nil, fmt.Errorf("failed to decode event %s: %w", id, err)
	}
	return &e, nil
}

func (r *FirestoreEventRepo) Delete(ctx context.Context, id string) error {
	doc := r.coll.Doc(id)
	if _, err := doc.Get(ctx); status.Code(err) == codes.NotFound {
		return ErrEventNotFound
	}
	if _, err := doc.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}
