package preview

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logogen/logogen-backend/internal/catalog"
	"github.com/logogen/logogen-backend/internal/editor"
	logo "github.com/logogen/logogen-backend/internal/logo/domain"
)

// maxPreviewBody bounds the JSON request; a full canvas of maxPreviewObjects fits well inside it.
const maxPreviewBody = 256 << 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/previews", append(mw, h.Create)...)
}

func (h *Handler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPreviewBody)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	img, err := h.svc.Render(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrTemplateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		case errors.Is(err, ErrTemplateRequired),
			errors.Is(err, ErrPreviewTooLarge),
			errors.Is(err, editor.ErrInvalidExport),
			errors.Is(err, logo.ErrBusinessNameRequired),
			errors.Is(err, logo.ErrInvalidColor):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.ErrorContext(c.Request.Context(), "preview render failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render preview"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.FileName))
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
