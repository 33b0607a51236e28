package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/response"
	"github.com/pontush81/handbook-backend/internal/resource"
	"github.com/pontush81/handbook-backend/internal/user"
)

type Handler struct {
	service         resource.Service
	handbookService handbook.Service
	userService     user.Service
}

func NewHandler(service resource.Service, handbookService handbook.Service, userService user.Service) *Handler {
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

// requireAdmin: resource management is reserved for handbook admins.
func (h *Handler) requireAdmin(c *gin.Context, handbookID string) bool {
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

func bookingRules(b *BookingRulesBody) resource.BookingRules {
	if b == nil {
		return resource.BookingRules{}
	}
	return resource.BookingRules{
		CancellationDeadlineHours: b.CancellationDeadlineHours,
		AutoApprove:               b.AutoApprove,
		SpecialInstructions:       b.SpecialInstructions,
		MaxAdvanceDays:            b.MaxAdvanceDays,
		MaxPerUserPerWeek:         b.MaxPerUserPerWeek,
		CleaningBufferMinutes:     b.CleaningBufferMinutes,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateResourceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !h.requireAdmin(c, body.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	capacity := body.Capacity
	if capacity == 0 {
		capacity = 1
	}

	res, err := h.service.Create(c.Request.Context(), resource.CreateRequest{
		HandbookID:       body.HandbookID,
		Name:             body.Name,
		Description:      body.Description,
		Capacity:         capacity,
		Category:         resource.Category(body.Category),
		MaxDurationHours: body.MaxDurationHours,
		AlwaysOpen:       body.AlwaysOpen,
		OpenTime:         body.OpenTime,
		CloseTime:        body.CloseTime,
		BookingRules:     bookingRules(body.BookingRules),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResourceResponse(res))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(res))
}

// List lists a handbook's resources. Members only; non-admins see active
// resources exclusively.
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

	filter := resource.Filter{
		HandbookID: handbookID,
		Category:   c.Query("category"),
	}
	if !h.requireAdmin(c, handbookID) {
		filter.ActiveOnly = true
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ResourceResponse, len(items))
	for i, r := range items {
		out[i] = NewResourceResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateResourceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.requireAdmin(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	req := resource.UpdateRequest{
		Name:             body.Name,
		Description:      body.Description,
		Capacity:         body.Capacity,
		MaxDurationHours: body.MaxDurationHours,
		AlwaysOpen:       body.AlwaysOpen,
		OpenTime:         body.OpenTime,
		CloseTime:        body.CloseTime,
		IsActive:         body.IsActive,
	}
	if body.Category != nil {
		cat := resource.Category(*body.Category)
		req.Category = &cat
	}
	if body.BookingRules != nil {
		rules := bookingRules(body.BookingRules)
		req.BookingRules = &rules
	}

	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.requireAdmin(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
