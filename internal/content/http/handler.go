package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/content"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/response"
	"github.com/pontush81/handbook-backend/internal/user"
)

type Handler struct {
	service         content.Service
	handbookService handbook.Service
	userService     user.Service
}

func NewHandler(service content.Service, handbookService handbook.Service, userService user.Service) *Handler {
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

// canEdit: superadmin, handbook owner, or member with an editing role.
func (h *Handler) canEdit(c *gin.Context, handbookID string) bool {
	userID := auth.GetUserID(c)
	if h.isSuperAdmin(c, userID) {
		return true
	}
	ok, err := h.handbookService.CanEdit(c.Request.Context(), handbookID, userID)
	return err == nil && ok
}

// isMember: any role, owner, or superadmin.
func (h *Handler) isMember(c *gin.Context, handbookID string) bool {
	userID := auth.GetUserID(c)
	if h.isSuperAdmin(c, userID) {
		return true
	}
	hb, err := h.handbookService.GetByID(c.Request.Context(), handbookID)
	if err == nil && hb.OwnerUserID == userID {
		return true
	}
	ok, err := h.handbookService.IsMember(c.Request.Context(), handbookID, userID)
	return err == nil && ok
}

func (h *Handler) CreateSection(c *gin.Context) {
	var body CreateSectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !h.canEdit(c, body.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	sec, err := h.service.CreateSection(c.Request.Context(), content.CreateSectionRequest{
		HandbookID:  body.HandbookID,
		Title:       body.Title,
		Description: body.Description,
		OrderIndex:  body.OrderIndex,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSectionResponse(sec))
}

// ListSections lists a handbook's sections. Members see everything;
// non-members only published sections of published handbooks.
func (h *Handler) ListSections(c *gin.Context) {
	handbookID := c.Param("id")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	member := h.isMember(c, handbookID)
	if !member {
		hb, err := h.handbookService.GetByID(c.Request.Context(), handbookID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if !hb.Published {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
	}

	sections, err := h.service.ListSections(c.Request.Context(), content.SectionFilter{
		HandbookID:    handbookID,
		PublishedOnly: !member,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SectionResponse, len(sections))
	for i, s := range sections {
		items[i] = NewSectionResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) UpdateSection(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateSectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sec, err := h.service.GetSection(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canEdit(c, sec.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	updated, err := h.service.UpdateSection(c.Request.Context(), id, content.UpdateSectionRequest{
		Title:       body.Title,
		Description: body.Description,
		OrderIndex:  body.OrderIndex,
		Published:   body.Published,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSectionResponse(updated))
}

func (h *Handler) DeleteSection(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	sec, err := h.service.GetSection(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canEdit(c, sec.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.service.DeleteSection(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreatePage(c *gin.Context) {
	var body CreatePageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sec, err := h.service.GetSection(c.Request.Context(), body.SectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canEdit(c, sec.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	p, err := h.service.CreatePage(c.Request.Context(), content.CreatePageRequest{
		SectionID:  body.SectionID,
		Title:      body.Title,
		Content:    body.Content,
		OrderIndex: body.OrderIndex,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPageResponse(p))
}

func (h *Handler) GetPage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.GetPage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !p.Published && !h.isMember(c, p.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewPageResponse(p))
}

func (h *Handler) ListPages(c *gin.Context) {
	sectionID := c.Param("id")
	if _, err := uuid.Parse(sectionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	sec, err := h.service.GetSection(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	member := h.isMember(c, sec.HandbookID)
	if !member && !sec.Published {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	pages, err := h.service.ListPages(c.Request.Context(), content.PageFilter{
		SectionID:     sectionID,
		PublishedOnly: !member,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PageResponse, len(pages))
	for i, p := range pages {
		items[i] = NewPageResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) UpdatePage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdatePageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.GetPage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canEdit(c, p.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	updated, err := h.service.UpdatePage(c.Request.Context(), id, content.UpdatePageRequest{
		Title:      body.Title,
		Content:    body.Content,
		OrderIndex: body.OrderIndex,
		Published:  body.Published,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPageResponse(updated))
}

func (h *Handler) DeletePage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.GetPage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canEdit(c, p.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.service.DeletePage(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
