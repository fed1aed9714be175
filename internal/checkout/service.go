// Package checkout turns a customised logo into a hosted payment session.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/payments"
)

type Request struct {
	// PriceID is accepted for older clients; PackageID wins when both are set.
	PriceID       string          `json:"priceId"`
	PackageID     string          `json:"packageId"`
	LogoData      domain.LogoData `json:"logoData"`
	CanvasData    json.RawMessage `json:"canvasData,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
}

type Service struct {
	provider payments.Provider
	domain   string
	currency string
}

// NewService builds success and cancel URLs from publicDomain, the site origin without a trailing slash.
func NewService(provider payments.Provider, publicDomain, currency string) *Service {
	return &Service{provider: provider, domain: publicDomain, currency: currency}
}

func (s *Service) CreateSession(ctx context.Context, req Request) (*payments.CheckoutSession, error) {
	id := req.PackageID
	if id == "" {
		id = req.PriceID
	}
	pkg, err := domain.LookupPackage(id)
	if err != nil {
		return nil, err
	}
	if err := req.LogoData.Validate(); err != nil {
		return nil, err
	}

	var canvas string
	if len(req.CanvasData) > 0 && string(req.CanvasData) != "null" {
		canvas = string(req.CanvasData)
	}

	cs, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		Package:       pkg,
		Currency:      s.currency,
		Metadata:      domain.ToMetadata(req.LogoData, pkg.ID, canvas),
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    s.domain + "/download/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.domain + "/?cancelled=true",
	})
	if err != nil {
		return nil, fmt.Errorf("checkout %s: %w", pkg.ID, err)
	}
	return cs, nil
}
