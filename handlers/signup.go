package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"goldengeneration/middleware"
	"goldengeneration/models"
	"goldengeneration/services/signup"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignupHandler exposes the signup session of the authenticated user.
type SignupHandler struct {
	Svc signup.SignupService
}

func NewSignupHandler(svc signup.SignupService) *SignupHandler {
	return &SignupHandler{Svc: svc}
}

type startRequest struct {
	Locale string `json:"locale"`
}

type fieldValueRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// valueString accepts strings and booleans; null means the empty value.
func (r fieldValueRequest) valueString() (string, error) {
	switch v := r.Value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("value of %q must be a string or a boolean", r.Field)
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, signup.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, signup.ErrUnknownField), errors.Is(err, signup.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, signup.ErrStepNotActive),
		errors.Is(err, signup.ErrNoPreviousStep),
		errors.Is(err, signup.ErrSessionComplete),
		errors.Is(err, signup.ErrSessionIncomplete),
		errors.Is(err, signup.ErrSessionConflict):
		return http.StatusConflict
	case errors.Is(err, signup.ErrHandoffFailed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respond writes view, or the error together with the view when there is one.
func (h *SignupHandler) respond(c *gin.Context, view *signup.SessionView, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"session": view})
		return
	}
	status := statusFor(err)
	logger := getLogger(c)
	if status >= http.StatusInternalServerError {
		logger.Error("Signup request failed", zap.String("userID", middleware.UserID(c)), zap.Error(err))
	} else {
		logger.Debug("Signup request rejected", zap.String("userID", middleware.UserID(c)), zap.Error(err))
	}
	body := gin.H{"error": err.Error()}
	if view != nil {
		body["session"] = view
	}
	c.AbortWithStatusJSON(status, body)
}

// StartSessionHandler starts a new signup or resumes the caller's session.
func (h *SignupHandler) StartSessionHandler(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}
	locale := req.Locale
	if locale == "" {
		locale = middleware.Locale(c)
	}
	view, err := h.Svc.Start(c.Request.Context(), middleware.UserID(c), middleware.Email(c), locale)
	h.respond(c, view, err)
}

func (h *SignupHandler) GetSessionHandler(c *gin.Context) {
	view, err := h.Svc.Current(c.Request.Context(), middleware.UserID(c))
	h.respond(c, view, err)
}

func (h *SignupHandler) ChangePersonalFieldHandler(c *gin.Context) {
	var req fieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	field, ok := models.ParsePersonalField(req.Field)
	if !ok {
		h.respond(c, nil, fmt.Errorf("%w: %q", signup.ErrUnknownField, req.Field))
		return
	}
	value, err := req.valueString()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Svc.ChangePersonalField(c.Request.Context(), middleware.UserID(c), field, value)
	h.respond(c, view, err)
}

// SubmitPersonalHandler answers 422 with the field errors when the step does
// not validate.
func (h *SignupHandler) SubmitPersonalHandler(c *gin.Context) {
	view, advanced, err := h.Svc.SubmitPersonal(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respond(c, view, err)
		return
	}
	if !advanced {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": view.Errors, "session": view})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *SignupHandler) ToggleCommunityOptionHandler(c *gin.Context) {
	var req fieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	field, ok := models.ParseCommunitySetField(req.Field)
	if !ok {
		h.respond(c, nil, fmt.Errorf("%w: %q", signup.ErrUnknownField, req.Field))
		return
	}
	value, err := req.valueString()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Svc.ToggleCommunityOption(c.Request.Context(), middleware.UserID(c), field, value)
	h.respond(c, view, err)
}

func (h *SignupHandler) SetCommunityFieldHandler(c *gin.Context) {
	var req fieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	field, ok := models.ParseCommunityScalarField(req.Field)
	if !ok {
		h.respond(c, nil, fmt.Errorf("%w: %q", signup.ErrUnknownField, req.Field))
		return
	}
	value, err := req.valueString()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Svc.SetCommunityField(c.Request.Context(), middleware.UserID(c), field, value)
	h.respond(c, view, err)
}

func (h *SignupHandler) SubmitCommunityHandler(c *gin.Context) {
	view, err := h.Svc.SubmitCommunity(c.Request.Context(), middleware.UserID(c))
	h.respond(c, view, err)
}

func (h *SignupHandler) BackHandler(c *gin.Context) {
	view, err := h.Svc.Back(c.Request.Context(), middleware.UserID(c))
	h.respond(c, view, err)
}

// FinalizeHandler retries the registration hand-off of a completed session.
func (h *SignupHandler) FinalizeHandler(c *gin.Context) {
	view, err := h.Svc.Finalize(c.Request.Context(), middleware.UserID(c))
	h.respond(c, view, err)
}

func (h *SignupHandler) AbandonHandler(c *gin.Context) {
	if err := h.Svc.Abandon(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.respond(c, nil, err)
		return
	}
	c.Status(http.StatusNoContent)
}
