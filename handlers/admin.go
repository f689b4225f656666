package handlers

import (
	"errors"
	"net/http"

	"goldengeneration/database/repository"
	"goldengeneration/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MemberHandler serves stored registrations: the caller's own record, and
// any record for administrators.
type MemberHandler struct {
	Repo repository.MemberRepository
}

func NewMemberHandler(repo repository.MemberRepository) *MemberHandler {
	return &MemberHandler{Repo: repo}
}

func (h *MemberHandler) getMember(c *gin.Context, userID string) {
	member, err := h.Repo.GetByUserID(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to fetch member", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// GetMyMemberHandler returns the caller's registration once the worker has stored it.
func (h *MemberHandler) GetMyMemberHandler(c *gin.Context) {
	h.getMember(c, middleware.UserID(c))
}

func (h *MemberHandler) GetMemberHandler(c *gin.Context) {
	h.getMember(c, c.Param("uid"))
}

func (h *MemberHandler) DeleteMemberHandler(c *gin.Context) {
	uid := c.Param("uid")
	err := h.Repo.Delete(c.Request.Context(), uid)
	if errors.Is(err, repository.ErrMemberNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to delete member", zap.String("userID", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}
	getLogger(c).Info("Member deleted by admin", zap.String("userID", uid), zap.String("adminID", middleware.UserID(c)))
	c.Status(http.StatusNoContent)
}
