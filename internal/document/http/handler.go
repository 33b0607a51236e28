package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/document"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/response"
	"github.com/pontush81/handbook-backend/internal/user"
)

type Handler struct {
	service         document.Service
	handbookService handbook.Service
	userService     user.Service
}

func NewHandler(service document.Service, handbookService handbook.Service, userService user.Service) *Handler {
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

// Upload accepts a multipart form with a "file" part and a "handbook_id"
// field.
func (h *Handler) Upload(c *gin.Context) {
	handbookID := c.PostForm("handbook_id")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid handbook_id is required"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if !h.canEdit(c, handbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	d, err := h.service.Upload(c.Request.Context(), handbookID, auth.GetUserID(c), header)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewDocumentResponse(d))
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

	docs, total, err := h.service.List(c.Request.Context(), document.Filter{
		HandbookID: handbookID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		items[i] = NewDocumentResponse(d)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isMember(c, d.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewDocumentResponse(d))
}

// ServeContent streams the document body with its original content type.
func (h *Handler) ServeContent(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, d, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	if !h.isMember(c, d.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.Header("Content-Type", d.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+d.Filename+"\"")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing sensible to send.
		return
	}
}

func (h *Handler) ServeThumbnail(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, d, err := h.service.DownloadThumbnail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	if !h.isMember(c, d.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+d.Filename+"_thumb.jpg\"")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.isAdmin(c, d.HandbookID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
