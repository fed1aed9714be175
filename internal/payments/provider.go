// Package payments wraps the payment provider behind a narrow interface: create a hosted
// checkout session, read it back, and verify webhook deliveries.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/logogen/logogen-backend/internal/logo/domain"
)

const EventCheckoutCompleted = "checkout.session.completed"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrSessionNotFound  = errors.New("checkout session not found")
)

// ProviderError is a request the provider rejected, e.g. an invalid parameter.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment provider: %s (%s)", e.Message, e.Code)
	}
	return "payment provider: " + e.Message
}

type CheckoutRequest struct {
	Package       domain.Package
	Currency      string
	Metadata      map[string]string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Session is the provider's view of a checkout after the customer acted on it.
type Session struct {
	ID            string
	PaymentStatus string
	CustomerEmail string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

func (s *Session) Paid() bool {
	return s.PaymentStatus == "paid"
}

type Event struct {
	ID      string
	Type    string
	Session *Session // set for checkout.session.* events
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ParseWebhook(payload []byte, signatureHeader string) (*Event, error)
}
