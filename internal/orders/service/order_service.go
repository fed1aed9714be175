package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/logo/render"
	"github.com/logogen/logogen-backend/internal/notify"
	"github.com/logogen/logogen-backend/internal/orders/domain"
	"github.com/logogen/logogen-backend/internal/orders/repository"
	"github.com/logogen/logogen-backend/internal/payments"
	"github.com/logogen/logogen-backend/internal/storage/blob"
)

// FileGenerator renders the files a package ships.
type FileGenerator interface {
	GenerateFiles(d logo.LogoData, pkg logo.PackageType) (render.Files, error)
}

type Config struct {
	KeyPrefix         string
	LinkTTL           time.Duration
	FulfilmentTimeout time.Duration
}

// OrderService fulfils paid checkouts and serves the resulting orders.
type OrderService struct {
	repo      repository.Repository
	store     blob.Store
	payments  payments.Provider
	generator FileGenerator
	mailer    notify.Mailer
	logger    *slog.Logger
	cfg       Config
	now       func() time.Time
}

func NewOrderService(
	repo repository.Repository,
	store blob.Store,
	provider payments.Provider,
	generator FileGenerator,
	mailer notify.Mailer,
	logger *slog.Logger,
	cfg Config,
) *OrderService {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "logos"
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 30 * 24 * time.Hour
	}
	if cfg.FulfilmentTimeout <= 0 {
		cfg.FulfilmentTimeout = 60 * time.Second
	}
	return &OrderService{
		repo:      repo,
		store:     store,
		payments:  provider,
		generator: generator,
		mailer:    mailer,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HandleEvent reacts to a verified webhook event. Only checkout.session.completed does anything.
// Fulfilment errors are logged, not returned: the provider is always acknowledged.
func (s *OrderService) HandleEvent(ctx context.Context, ev *payments.Event) {
	if ev.Type != payments.EventCheckoutCompleted {
		s.logger.DebugContext(ctx, "ignoring webhook event", "event_id", ev.ID, "type", ev.Type)
		return
	}
	if ev.Session == nil {
		s.logger.ErrorContext(ctx, "checkout event without session", "event_id", ev.ID)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.FulfilmentTimeout)
	defer cancel()

	if _, err := s.Fulfil(ctx, ev.Session); err != nil {
		s.logger.ErrorContext(ctx, "fulfilment failed", "session_id", ev.Session.ID, "event_id", ev.ID, "error", err)
	}
}

// Fulfil renders, uploads, persists and emails one paid checkout. A session that already
// has an order is returned as is, so redelivered webhooks do not duplicate work.
func (s *OrderService) Fulfil(ctx context.Context, sess *payments.Session) (*domain.Order, error) {
	if err := domain.ValidateSessionID(sess.ID); err != nil {
		return nil, err
	}
	log := s.logger.With("session_id", sess.ID)

	if existing, err := s.repo.Get(ctx, sess.ID); err == nil {
		log.InfoContext(ctx, "order already fulfilled")
		return existing, nil
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, fmt.Errorf("check existing order: %w", err)
	}

	data, pkgType, err := logo.FromMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}
	pkg, err := logo.LookupPackage(string(pkgType))
	if err != nil {
		return nil, err
	}

	files, err := s.generator.GenerateFiles(data, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("generate files: %w", err)
	}

	links := make(map[logo.FileType]string, len(files))
	for _, ft := range pkg.Formats {
		content, ok := files[ft]
		if !ok {
			continue
		}
		url, err := s.store.Put(ctx, domain.ObjectKey(s.cfg.KeyPrefix, sess.ID, ft), content, ft.ContentType())
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", ft, err)
		}
		links[ft] = url
	}
	log.InfoContext(ctx, "logo files uploaded", "files", len(links))

	amount := sess.AmountTotal
	if amount == 0 {
		amount = pkg.AmountCents
	}
	currency := sess.Currency
	if currency == "" {
		currency = "usd"
	}
	now := s.now()
	order := &domain.Order{
		SessionID:     sess.ID,
		CustomerEmail: sess.CustomerEmail,
		LogoData:      data,
		PackageType:   pkg.ID,
		Amount:        amount,
		Currency:      currency,
		DownloadLinks: links,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.LinkTTL),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrOrderExists) {
			log.InfoContext(ctx, "order created concurrently")
			return s.repo.Get(ctx, sess.ID)
		}
		return nil, fmt.Errorf("save order: %w", err)
	}

	if order.CustomerEmail == "" {
		log.WarnContext(ctx, "no customer email on session, skipping download email")
		return order, nil
	}
	if err := s.mailer.SendDownloadLinks(ctx, order.CustomerEmail, data, links); err != nil {
		log.ErrorContext(ctx, "download email failed", "error", err)
		return order, nil
	}
	order.EmailSent = true
	if err := s.repo.Update(ctx, order); err != nil {
		log.WarnContext(ctx, "failed to record email delivery", "error", err)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, sessionID string) (*domain.Order, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, sessionID)
}
