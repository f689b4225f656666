package eventRepo

import (
	"context"
	"errors"

	"goldengeneration/models"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepository stores community events.
type EventRepository interface {
	// List returns every event in creation order.
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}
