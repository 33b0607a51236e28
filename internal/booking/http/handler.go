package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/booking"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/response"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
	"github.com/pontush81/handbook-backend/internal/resource"
	"github.com/pontush81/handbook-backend/internal/user"
)

type Handler struct {
	service         booking.Service
	resService      resource.Service
	handbookService handbook.Service
	userService     user.Service
}

func NewHandler(service booking.Service, resService resource.Service, handbookService handbook.Service, userService user.Service) *Handler {
	return &Handler{
		service:         service,
		resService:      resService,
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

// writeError renders collision failures with the full conflict list so the
// client can explain exactly what is in the way.
func writeError(c *gin.Context, err error) {
	var collErr *booking.CollisionError
	if errors.As(err, &collErr) {
		c.JSON(http.StatusConflict, NewConflictResponse(collErr))
		return
	}
	response.Error(c, err)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.resService.GetByID(c.Request.Context(), body.ResourceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:        auth.GetUserID(c),
		ResourceID:    body.ResourceID,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		Purpose:       body.Purpose,
		AttendeeCount: body.AttendeeCount,
		ContactPhone:  body.ContactPhone,
		Notes:         body.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, b.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// List returns the caller's own bookings, optionally narrowed by resource,
// status or time window. Handbook admins may list other members' bookings by
// passing handbook_id.
func (h *Handler) List(c *gin.Context) {
	filter := booking.Filter{
		ResourceID: c.Query("resource_id"),
		Status:     c.Query("status"),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	if handbookID := c.Query("handbook_id"); handbookID != "" && h.isAdmin(c, handbookID) {
		filter.HandbookID = handbookID
	} else {
		filter.UserID = auth.GetUserID(c)
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c), h.isAdmin(c, b.HandbookID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(cancelled))
}

func (h *Handler) Reschedule(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RescheduleBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	moved, err := h.service.Reschedule(c.Request.Context(), id, body.StartTime, body.EndTime,
		auth.GetUserID(c), h.isAdmin(c, b.HandbookID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(moved))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), h.isAdmin(c, b.HandbookID)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseDay reads an optional YYYY-MM-DD query parameter as a local calendar
// day, defaulting to today.
func parseDay(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Now().UTC(), true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, timeutil.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d.UTC(), true
}

// Calendar renders a resource's week grid: bookings grouped by local day,
// each classified relative to the caller.
func (h *Handler) Calendar(c *gin.Context) {
	resourceID := c.Param("id")
	if _, err := uuid.Parse(resourceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	ref, ok := parseDay(c, "week")
	if !ok {
		return
	}

	res, days, err := h.service.WeekSchedule(c.Request.Context(), resourceID, ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	viewer := auth.GetUserID(c)
	c.JSON(http.StatusOK, NewCalendarResponse(res.ID, res.Name, days, time.Now().UTC(), viewer))
}

// Availability lists the free slots of a resource for one local day.
func (h *Handler) Availability(c *gin.Context) {
	resourceID := c.Param("id")
	if _, err := uuid.Parse(resourceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	day, ok := parseDay(c, "date")
	if !ok {
		return
	}

	res, err := h.resService.GetByID(c.Request.Context(), resourceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	slots, err := h.service.DayAvailability(c.Request.Context(), resourceID, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": NewSlotResponses(slots)})
}

// Propose returns a pre-filled candidate interval for the booking form.
func (h *Handler) Propose(c *gin.Context) {
	resourceID := c.Param("id")
	if _, err := uuid.Parse(resourceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	day, ok := parseDay(c, "date")
	if !ok {
		return
	}

	res, err := h.resService.GetByID(c.Request.Context(), resourceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, res.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	iv, err := h.service.Propose(c.Request.Context(), resourceID, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SlotResponse{StartTime: iv.Start.UTC(), EndTime: iv.End.UTC()})
}
