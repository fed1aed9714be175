package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logogen/logogen-backend/internal/api/http/middleware"
	"github.com/logogen/logogen-backend/internal/checkout"
	"github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/payments"
)

type Handler struct {
	svc *checkout.Service
}

func New(svc *checkout.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the checkout routes; mw runs before the create handler (rate limiting).
func (h *Handler) Register(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/checkout/sessions", append(mw, h.CreateSession)...)
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cs, err := h.svc.CreateSession(c.Request.Context(), req)
	if err != nil {
		var pe *payments.ProviderError
		switch {
		case errors.Is(err, domain.ErrUnknownPackage),
			errors.Is(err, domain.ErrBusinessNameRequired),
			errors.Is(err, domain.ErrInvalidColor):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &pe):
			c.JSON(http.StatusBadRequest, gin.H{"error": pe.Message})
		default:
			slog.ErrorContext(c.Request.Context(), "create checkout session failed",
				"request_id", middleware.GetRequestID(c.Request.Context()), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, cs)
}
