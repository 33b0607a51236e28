package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/announcement"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/response"
	"github.com/pontush81/handbook-backend/internal/user"
)

type Handler struct {
	service         announcement.Service
	handbookService handbook.Service
	userService     user.Service
}

func NewHandler(service announcement.Service, handbookService handbook.Service, userService user.Service) *Handler {
	return &Handler{
		service:         service,
		handbookService: handbookService,
		userService:     userService,
	}
}

func (h *Handler) isSuperAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsSuperAdmin
}

func (h *Handler) canEdit(c *gin.Context, handbookID string) bool {
	userID := auth.GetUserID(c)
	if h.isSuperAdmin(c, userID) {
		return true
	}
	ok, err := h.handbookService.CanEdit(c.Request.Context(), handbookID, userID)
	return err == nil && ok
}

func (h *Handler) isAdmin(c *gin.Context, handbookID string) bool {
	userID := auth.GetUserID(c)
	if h.isSuperAdmin(c, userID) {
		return true
	}
	ok, err := h.handbookService.IsAdmin(c.Request.Context(), handbookID, userID)
	return err == nil && ok
}

func (h *Handler) isMember(c *gin.Context, handbookID string) bool {
	userID := auth.GetUserID(c)
	if h.isSuperAdmin(c, userID) {
		return true
	}
	ok, err := h.handbookService.IsMember(c.Request.Context(), handbookID, userID)
	return err == nil && ok
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAnnouncementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !h.canEdit(c, body.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	// Pinning is an admin call; editors post unpinned.
	if body.Pinned && !h.isAdmin(c, body.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can pin announcements"})
		return
	}

	a, err := h.service.Create(c.Request.Context(), announcement.CreateRequest{
		HandbookID:   body.HandbookID,
		AuthorUserID: auth.GetUserID(c),
		Title:        body.Title,
		Content:      body.Content,
		Pinned:       body.Pinned,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewAnnouncementResponse(a))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, a.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewAnnouncementResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	handbookID := c.Param("id")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if !h.isMember(c, handbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.service.List(c.Request.Context(), announcement.Filter{
		HandbookID: handbookID,
		Keyword:    c.Query("keyword"),
		PinnedOnly: c.Query("pinned") == "true",
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]AnnouncementResponse, len(items))
	for i, a := range items {
		out[i] = NewAnnouncementResponse(a)
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateAnnouncementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if a.AuthorUserID != auth.GetUserID(c) && !h.isAdmin(c, a.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	if body.Pinned != nil && !h.isAdmin(c, a.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can pin announcements"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, announcement.UpdateRequest{
		Title:   body.Title,
		Content: body.Content,
		Pinned:  body.Pinned,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAnnouncementResponse(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if a.AuthorUserID != auth.GetUserID(c) && !h.isAdmin(c, a.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
