package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"goldengeneration/database/repository"
	"goldengeneration/models"
	"goldengeneration/services/storage"
	"goldengeneration/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateLayout is the accepted format of an event date.
const DateLayout = "2006-01-02"

const imageFolder = "events"

var (
	ErrInvalidEvent  = errors.New("invalid event")
	ErrEventNotFound = repository.ErrEventNotFound
)

// defaultImages are bundled pictures used when an event has no upload.
var defaultImages = map[string]string{
	"Football":          "Football.png",
	"Swimming":          "Swimming.png",
	"Tennis":            "Tennis.png",
	"Walking in Nature": "Walking.png",
	"Yoga":              "Yoga.png",
	"Gardening":         "Gardening.png",
}

// EventService manages the events feed.
type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, in CreateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// CreateEventInput is one new event. Image is optional.
type CreateEventInput struct {
	Title     string
	Date      string
	Category  string
	Image     io.Reader
	ImageName string
}

// DefaultEventService is the production implementation.
type DefaultEventService struct {
	Repo      repository.EventRepository
	Storage   storage.StorageService
	AssetBase string
	Clock     func() time.Time
}

func (s *DefaultEventService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// List returns the events earliest first. Events on the same day keep their
// creation order.
func (s *DefaultEventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.Repo.List(ctx)
	if err != nil {
		utils.GetLogger().Error("Failed to list events", zap.Error(err))
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	for i := range events {
		if events[i].ImageURL == "" {
			events[i].ImageURL = s.DefaultImage(events[i].Title)
		}
	}
	return events, nil
}

// DefaultImage returns the bundled picture for a known title, or "".
func (s *DefaultEventService) DefaultImage(title string) string {
	file, ok := defaultImages[title]
	if !ok {
		return ""
	}
	base := s.AssetBase
	if base == "" {
		base = "/assets/"
	}
	return strings.TrimSuffix(base, "/") + "/" + file
}

func (s *DefaultEventService) Create(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidEvent)
	}

	event := &models.Event{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      date,
		Category:  strings.TrimSpace(in.Category),
		CreatedAt: s.now(),
	}

	if in.Image != nil {
		if s.Storage == nil {
			return nil, fmt.Errorf("%w: image uploads are not configured", ErrInvalidEvent)
		}
		res, err := s.Storage.UploadFile(ctx, in.Image, in.ImageName, imageFolder)
		if err != nil {
			utils.GetLogger().Error("Failed to upload event image", zap.String("title", title), zap.Error(err))
			return nil, fmt.Errorf("upload event image: %w", err)
		}
		event.ImageURL = res.URL
		event.ImageID = res.ObjectID
	}

	if err := s.Repo.Create(ctx, event); err != nil {
		if event.ImageID != "" {
			if derr := s.Storage.DeleteFile(ctx, event.ImageID); derr != nil {
				utils.GetLogger().Warn("Failed to remove orphaned event image", zap.String("objectID", event.ImageID), zap.Error(derr))
			}
		}
		return nil, err
	}
	utils.GetLogger().Info("Event created", zap.String("eventID", event.ID), zap.String("title", event.Title))
	return event, nil
}

func (s *DefaultEventService) Delete(ctx context.Context, id string) error {
	event, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if event.ImageID != "" && s.Storage != nil {
		if err := s.Storage.DeleteFile(ctx, event.ImageID); err != nil {
			utils.GetLogger().Warn("Failed to delete event image", zap.String("objectID", event.ImageID), zap.Error(err))
		}
	}
	return nil
}
