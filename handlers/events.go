package handlers

import (
	"errors"
	"net/http"

	"goldengeneration/services/events"
	"goldengeneration/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler serves the events feed.
type EventHandler struct {
	Svc events.EventService
}

func NewEventHandler(svc events.EventService) *EventHandler {
	return &EventHandler{Svc: svc}
}

func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list events", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

// CreateEventHandler takes a multipart form: title, date, category and an
// optional image file.
func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	in := events.CreateEventInput{
		Title:    c.PostForm("title"),
		Date:     c.PostForm("date"),
		Category: c.PostForm("category"),
	}

	fileHeader, err := c.FormFile("image")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "failed to read image", err.Error())
			return
		}
		defer file.Close()
		in.Image = file
		in.ImageName = fileHeader.Filename
	case !errors.Is(err, http.ErrMissingFile):
		utils.JSONError(c, http.StatusBadRequest, "invalid form", err.Error())
		return
	}

	event, err := h.Svc.Create(c.Request.Context(), in)
	if errors.Is(err, events.ErrInvalidEvent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func (h *EventHandler) DeleteEventHandler(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, events.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to delete event", zap.String("eventID", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}
