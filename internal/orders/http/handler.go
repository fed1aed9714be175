package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logogen/logogen-backend/internal/api/http/middleware"
	"github.com/logogen/logogen-backend/internal/auth"
	"github.com/logogen/logogen-backend/internal/orders/domain"
	"github.com/logogen/logogen-backend/internal/orders/service"
	"github.com/logogen/logogen-backend/internal/payments"
)

// maxWebhookBody bounds the payload read before signature verification.
const maxWebhookBody = 64 << 10

type Handler struct {
	svc      *service.OrderService
	provider payments.Provider
}

func New(svc *service.OrderService, provider payments.Provider) *Handler {
	return &Handler{svc: svc, provider: provider}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.Webhook)
	rg.GET("/orders/status", h.OrderStatus)
	rg.OPTIONS("/orders/status", h.Preflight)
	rg.GET("/download-file", h.DownloadFile)
}

// RegisterAdmin mounts operator routes behind the given auth chain.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	admin := rg.Group("/admin", mw...)
	admin.GET("/orders/:id", h.AdminGetOrder)
	admin.POST("/orders/expire", h.AdminExpire)
}

func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: " + err.Error()})
		return
	}

	ev, err := h.provider.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		slog.WarnContext(c.Request.Context(), "webhook verification failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: " + err.Error()})
		return
	}

	// Fulfilment outlives a provider-side disconnect.
	h.svc.HandleEvent(context.WithoutCancel(c.Request.Context()), ev)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) Preflight(c *gin.Context) {
	setCORS(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) OrderStatus(c *gin.Context) {
	setCORS(c)

	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	order, err := h.svc.GetOrder(c.Request.Context(), sessionID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, order)
	case errors.Is(err, domain.ErrInvalidSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	default:
		slog.ErrorContext(c.Request.Context(), "order status lookup failed",
			"session_id", sessionID, "request_id", middleware.GetRequestID(c.Request.Context()), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *Handler) DownloadFile(c *gin.Context) {
	file, fileType, sessionID := c.Query("file"), c.Query("type"), c.Query("session")
	if file == "" || fileType == "" || sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	dl, err := h.svc.ResolveDownload(c.Request.Context(), file, fileType, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUnpaid):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or unpaid session"})
		return
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	case errors.Is(err, service.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found in order"})
		return
	case errors.Is(err, service.ErrOrderExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Download links have expired"})
		return
	default:
		slog.ErrorContext(c.Request.Context(), "download failed",
			"session_id", sessionID, "request_id", middleware.GetRequestID(c.Request.Context()), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download file"})
		return
	}

	if dl.URL != "" {
		c.Redirect(http.StatusFound, dl.URL)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.FileName))
	c.Data(http.StatusOK, "image/svg+xml", dl.Placeholder)
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, order)
	case errors.Is(err, domain.ErrInvalidSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) AdminExpire(c *gin.Context) {
	slog.InfoContext(c.Request.Context(), "manual expiry requested", "admin", auth.UserEmail(c), "uid", auth.UserFirebaseUID(c))
	n, err := h.svc.ExpireOrders(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "expired": n})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

func setCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}
