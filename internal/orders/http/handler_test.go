package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/logo/render"
	"github.com/logogen/logogen-backend/internal/notify"
	"github.com/logogen/logogen-backend/internal/orders/domain"
	"github.com/logogen/logogen-backend/internal/orders/repository"
	"github.com/logogen/logogen-backend/internal/orders/service"
	"github.com/logogen/logogen-backend/internal/payments"
	"github.com/logogen/logogen-backend/internal/storage/blob"
)

const goodSignature = "t=1,v1=ok"

// fakeProvider accepts one signature and serves sessions from a map.
type fakeProvider struct {
	payments.Provider
	sessions map[string]*payments.Session
}

func (p *fakeProvider) ParseWebhook(payload []byte, sig string) (*payments.Event, error) {
	if sig != goodSignature {
		return nil, payments.ErrInvalidSignature
	}
	var ev payments.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (p *fakeProvider) GetSession(_ context.Context, id string) (*payments.Session, error) {
	s, ok := p.sessions[id]
	if !ok {
		return nil, payments.ErrSessionNotFound
	}
	return s, nil
}

type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepository
	prov   *fakeProvider
	dir    string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := blob.NewDirStore(dir, "http://files.test")
	require.NoError(t, err)
	fonts, err := render.NewFontRegistry()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		repo: repository.NewMemoryRepository(),
		prov: &fakeProvider{sessions: map[string]*payments.Session{}},
		dir:  dir,
	}
	svc := service.NewOrderService(env.repo, store, env.prov, render.NewRasterizer(fonts),
		notify.NewLogMailer(logger), logger, service.Config{})

	env.router = gin.New()
	h := New(svc, env.prov)
	v1 := env.router.Group("/api/v1")
	h.Register(v1)
	h.RegisterAdmin(v1)
	return env
}

func (e *testEnv) do(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func checkoutEvent(sessionID string) string {
	ev := payments.Event{
		ID:   "evt_1",
		Type: payments.EventCheckoutCompleted,
		Session: &payments.Session{
			ID:            sessionID,
			PaymentStatus: "paid",
			CustomerEmail: "owner@acme.test",
			AmountTotal:   199,
			Currency:      "usd",
			Metadata:      logo.ToMetadata(logo.LogoData{BusinessName: "Acme"}, logo.PackageStandard, ""),
		},
	}
	b, _ := json.Marshal(ev)
	return string(b)
}

func TestWebhook(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/v1/webhooks/stripe", checkoutEvent("cs_1"), map[string]string{"Stripe-Signature": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook Error: ")

	w = env.do(http.MethodPost, "/api/v1/webhooks/stripe", checkoutEvent("cs_1"), map[string]string{"Stripe-Signature": goodSignature})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	order, err := env.repo.Get(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, order.Status)
	assert.Equal(t, "http://files.test/logos/cs_1/logo.png", order.DownloadLinks[logo.FilePNG])
	assert.FileExists(t, filepath.Join(env.dir, "logos", "cs_1", "logo.jpg"))
	assert.NoFileExists(t, filepath.Join(env.dir, "logos", "cs_1", "logo.svg"))
}

func TestWebhook_OtherEventAcknowledged(t *testing.T) {
	env := setup(t)
	w := env.do(http.MethodPost, "/api/v1/webhooks/stripe", `{"id":"evt_2","type":"invoice.paid"}`, map[string]string{"Stripe-Signature": goodSignature})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderStatus(t *testing.T) {
	env := setup(t)
	env.do(http.MethodPost, "/api/v1/webhooks/stripe", checkoutEvent("cs_1"), map[string]string{"Stripe-Signature": goodSignature})

	w := env.do(http.MethodGet, "/api/v1/orders/status", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/orders/status?session_id=cs_missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/v1/orders/status?session_id=cs_1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "cs_1", order.SessionID)
	assert.Equal(t, "Acme", order.LogoData.BusinessName)
	assert.Len(t, order.DownloadLinks, 2)

	w = env.do(http.MethodOptions, "/api/v1/orders/status", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestDownloadFile(t *testing.T) {
	env := setup(t)
	env.do(http.MethodPost, "/api/v1/webhooks/stripe", checkoutEvent("cs_1"), map[string]string{"Stripe-Signature": goodSignature})
	env.prov.sessions["cs_1"] = &payments.Session{ID: "cs_1", PaymentStatus: "paid"}
	env.prov.sessions["cs_unpaid"] = &payments.Session{ID: "cs_unpaid", PaymentStatus: "unpaid"}
	env.prov.sessions["cs_none"] = &payments.Session{ID: "cs_none", PaymentStatus: "paid"}

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing params", "file=logo.png&type=png", http.StatusBadRequest},
		{"unpaid", "file=logo.png&type=png&session=cs_unpaid", http.StatusForbidden},
		{"unpaid with unsupported type", "file=logo.gif&type=gif&session=cs_unpaid", http.StatusForbidden},
		{"no order", "file=logo.png&type=png&session=cs_none", http.StatusNotFound},
		{"not in package", "file=logo.svg&type=svg&session=cs_1", http.StatusNotFound},
		{"redirect", "file=logo.png&type=png&session=cs_1", http.StatusFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/v1/download-file?"+tt.query, "", nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusFound {
				assert.Equal(t, "http://files.test/logos/cs_1/logo.png", w.Header().Get("Location"))
			}
		})
	}

	t.Run("placeholder when file missing", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(env.dir, "logos", "cs_1", "logo.jpg")))
		w := env.do(http.MethodGet, "/api/v1/download-file?file=logo.jpg&type=jpg&session=cs_1", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Body.String(), "JPG file")
	})

	t.Run("expired", func(t *testing.T) {
		order, err := env.repo.Get(context.Background(), "cs_1")
		require.NoError(t, err)
		order.ExpiresAt = time.Now().Add(-time.Hour)
		require.NoError(t, env.repo.Update(context.Background(), order))

		w := env.do(http.MethodGet, "/api/v1/download-file?file=logo.png&type=png&session=cs_1", "", nil)
		assert.Equal(t, http.StatusGone, w.Code)
	})
}

func TestAdminRoutes(t *testing.T) {
	env := setup(t)
	env.do(http.MethodPost, "/api/v1/webhooks/stripe", checkoutEvent("cs_1"), map[string]string{"Stripe-Signature": goodSignature})

	w := env.do(http.MethodGet, "/api/v1/admin/orders/cs_1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/admin/orders/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	order, err := env.repo.Get(context.Background(), "cs_1")
	require.NoError(t, err)
	order.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, env.repo.Update(context.Background(), order))

	w = env.do(http.MethodPost, "/api/v1/admin/orders/expire", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"expired":1}`, w.Body.String())
	assert.NoFileExists(t, filepath.Join(env.dir, "logos", "cs_1", "logo.png"))
}
