package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/logo/render"
	"github.com/logogen/logogen-backend/internal/orders/domain"
	"github.com/logogen/logogen-backend/internal/payments"
)

// Download is either a redirect target or, when storage lost the object, a placeholder body.
type Download struct {
	URL         string
	Placeholder []byte
	FileName    string
}

// ResolveDownload checks payment, order, expiry and file membership, in that order.
func (s *OrderService) ResolveDownload(ctx context.Context, file, fileType, sessionID string) (*Download, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	sess, err := s.payments.GetSession(ctx, sessionID)
	if errors.Is(err, payments.ErrSessionNotFound) {
		return nil, ErrUnpaid
	}
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	if !sess.Paid() {
		return nil, ErrUnpaid
	}
	ft, ok := logo.ParseFileType(fileType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrFileNotFound, fileType)
	}

	order, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if order.Expired(s.now()) {
		return nil, ErrOrderExpired
	}

	url, ok := order.DownloadLinks[ft]
	name := "logo." + string(ft)
	if !ok || !strings.Contains(name, file) {
		return nil, ErrFileNotFound
	}

	key := domain.ObjectKey(s.cfg.KeyPrefix, sessionID, ft)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "storage check failed, serving placeholder", "session_id", sessionID, "key", key, "error", err)
	}
	if err != nil || !exists {
		return &Download{
			Placeholder: render.PlaceholderSVG(order.LogoData.BusinessName, ft),
			FileName:    "logo-placeholder.svg",
		}, nil
	}
	return &Download{URL: url, FileName: name}, nil
}
