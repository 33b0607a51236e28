package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/notify"
	"github.com/pontush81/handbook-backend/internal/pkg/request"
	"github.com/pontush81/handbook-backend/internal/pkg/response"
	"github.com/pontush81/handbook-backend/internal/user"
)

type Handler struct {
	service     handbook.Service
	userService user.Service
	hub         *notify.Hub
}

func NewHandler(service handbook.Service, userService user.Service, hub *notify.Hub) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
		hub:         hub,
	}
}

// isSuperAdmin checks whether the current user has the platform-wide admin flag.
func (h *Handler) isSuperAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsSuperAdmin
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateHandbookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	hb, err := h.service.Create(c.Request.Context(), handbook.CreateRequest{
		Slug:        body.Slug,
		Title:       body.Title,
		OwnerUserID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewHandbookResponse(hb))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	hb, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if !hb.Published && !h.canView(c, hb, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewHandbookResponse(hb))
}

// GetBySlug resolves a handbook by its public slug, the address members use.
func (h *Handler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	hb, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if !hb.Published && !h.canView(c, hb, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewHandbookResponse(hb))
}

// canView: owner, member of any role, or superadmin.
func (h *Handler) canView(c *gin.Context, hb *handbook.Handbook, userID string) bool {
	if userID == "" {
		return false
	}
	if hb.OwnerUserID == userID || h.isSuperAdmin(c, userID) {
		return true
	}
	isMember, err := h.service.IsMember(c.Request.Context(), hb.ID, userID)
	return err == nil && isMember
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	params.Normalize()

	userID := auth.GetUserID(c)

	filter := handbook.Filter{
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	// A superadmin sees every handbook; everyone else only their own.
	if !h.isSuperAdmin(c, userID) {
		filter.OwnerUserID = userID
	}

	handbooks, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]HandbookResponse, len(handbooks))
	for i, hb := range handbooks {
		items[i] = NewHandbookResponse(hb)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateHandbookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := auth.GetUserID(c)
	isSuperAdmin := h.isSuperAdmin(c, userID)

	if !isSuperAdmin {
		isAdmin, err := h.service.IsAdmin(c.Request.Context(), id, userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		// Subscription state is back-office only.
		if body.SubscriptionActive != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "subscription state can only be changed by a superadmin"})
			return
		}
	}

	hb, err := h.service.Update(c.Request.Context(), id, handbook.UpdateRequest{
		Slug:               body.Slug,
		Title:              body.Title,
		Published:          body.Published,
		SubscriptionActive: body.SubscriptionActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewHandbookResponse(hb))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)

	hb, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Only the owner or a superadmin may delete a whole handbook.
	if hb.OwnerUserID != userID && !h.isSuperAdmin(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// requireAdmin aborts unless the current user administers the handbook.
func (h *Handler) requireAdmin(c *gin.Context, handbookID string) bool {
	userID := auth.GetUserID(c)
	if h.isSuperAdmin(c, userID) {
		return true
	}
	isAdmin, err := h.service.IsAdmin(c.Request.Context(), handbookID, userID)
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return false
	}
	return true
}

func (h *Handler) AddMember(c *gin.Context) {
	handbookID := c.Param("id")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body AddMemberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !h.requireAdmin(c, handbookID) {
		return
	}

	err := h.service.AddMember(c.Request.Context(), handbookID, handbook.AddMemberRequest{
		UserID: body.UserID,
		Role:   body.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.hub.Publish(handbookID, notify.Event{Type: notify.EventMemberChanged, Payload: gin.H{"user_id": body.UserID}})
	c.Status(http.StatusCreated)
}

func (h *Handler) ListMembers(c *gin.Context) {
	handbookID := c.Param("id")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	params.Normalize()

	if !h.requireAdmin(c, handbookID) {
		return
	}

	members, total, err := h.service.ListMembers(c.Request.Context(), handbookID, handbook.MemberFilter{
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]MemberResponse, len(members))
	for i, m := range members {
		items[i] = NewMemberResponse(m)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) UpdateMember(c *gin.Context) {
	handbookID := c.Param("id")
	memberID := c.Param("userId")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	if _, err := uuid.Parse(memberID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateMemberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.requireAdmin(c, handbookID) {
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), handbookID, memberID, body.Role); err != nil {
		response.Error(c, err)
		return
	}

	h.hub.Publish(handbookID, notify.Event{Type: notify.EventMemberChanged, Payload: gin.H{"user_id": memberID}})
	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	handbookID := c.Param("id")
	memberID := c.Param("userId")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	if _, err := uuid.Parse(memberID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if !h.requireAdmin(c, handbookID) {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), handbookID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	h.hub.Publish(handbookID, notify.Event{Type: notify.EventMemberChanged, Payload: gin.H{"user_id": memberID}})
	c.Status(http.StatusNoContent)
}
