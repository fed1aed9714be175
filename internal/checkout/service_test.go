package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/payments"
)

type recordingProvider struct {
	payments.Provider
	got payments.CheckoutRequest
	err error
}

func (p *recordingProvider) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	p.got = req
	if p.err != nil {
		return nil, p.err
	}
	return &payments.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func TestService_CreateSession(t *testing.T) {
	p := &recordingProvider{}
	svc := NewService(p, "https://logogen.test", "usd")

	cs, err := svc.CreateSession(context.Background(), Request{
		PackageID:  "premium",
		LogoData:   domain.LogoData{BusinessName: "Acme", PrimaryColor: "#ff0000"},
		CanvasData: json.RawMessage(`{"objects":[]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", cs.ID)

	assert.Equal(t, int64(499), p.got.Package.AmountCents)
	assert.Equal(t, "usd", p.got.Currency)
	assert.Equal(t, "https://logogen.test/download/success?session_id={CHECKOUT_SESSION_ID}", p.got.SuccessURL)
	assert.Equal(t, "https://logogen.test/?cancelled=true", p.got.CancelURL)
	assert.Equal(t, "premium", p.got.Metadata[domain.MetaPackageID])
	assert.Equal(t, "Acme", p.got.Metadata[domain.MetaBusinessName])
	assert.Equal(t, `{"objects":[]}`, p.got.Metadata[domain.MetaCanvasData])
}

func TestService_CreateSession_PriceIDFallback(t *testing.T) {
	p := &recordingProvider{}
	svc := NewService(p, "https://logogen.test", "usd")

	_, err := svc.CreateSession(context.Background(), Request{PriceID: "standard", LogoData: domain.LogoData{BusinessName: "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, int64(199), p.got.Package.AmountCents)
	assert.Empty(t, p.got.Metadata[domain.MetaCanvasData])
}

func TestService_CreateSession_Invalid(t *testing.T) {
	svc := NewService(&recordingProvider{}, "https://logogen.test", "usd")

	_, err := svc.CreateSession(context.Background(), Request{PackageID: "gold", LogoData: domain.LogoData{BusinessName: "Acme"}})
	assert.ErrorIs(t, err, domain.ErrUnknownPackage)

	_, err = svc.CreateSession(context.Background(), Request{PackageID: "standard"})
	assert.ErrorIs(t, err, domain.ErrBusinessNameRequired)

	_, err = svc.CreateSession(context.Background(), Request{PackageID: "standard", LogoData: domain.LogoData{BusinessName: "Acme", PrimaryColor: "red"}})
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
}
