package domain

import (
	"strings"
	"time"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
)

// Order is the persisted result of a completed payment. SessionID is the checkout session
// identifier and doubles as the primary key.
type Order struct {
	SessionID     string                   `json:"sessionId" firestore:"sessionId"`
	CustomerEmail string                   `json:"customerEmail" firestore:"customerEmail"`
	LogoData      logo.LogoData            `json:"logoData" firestore:"logoData"`
	PackageType   logo.PackageType         `json:"packageType" firestore:"packageType"`
	Amount        int64                    `json:"amount" firestore:"amount"`
	Currency      string                   `json:"currency" firestore:"currency"`
	DownloadLinks map[logo.FileType]string `json:"downloadLinks" firestore:"downloadLinks"`
	Status        Status                   `json:"status" firestore:"status"`
	EmailSent     bool                     `json:"emailSent" firestore:"emailSent"`
	CreatedAt     time.Time                `json:"createdAt" firestore:"createdAt"`
	ExpiresAt     time.Time                `json:"expiresAt" firestore:"expiresAt"`
}

// Expired reports whether the download links have lapsed at now.
func (o *Order) Expired(now time.Time) bool {
	return o.Status == StatusExpired || (!o.ExpiresAt.IsZero() && !now.Before(o.ExpiresAt))
}

// ObjectKey is the storage key of one generated file: {prefix}/{session}/logo.{ext}.
func ObjectKey(prefix, sessionID string, ft logo.FileType) string {
	return strings.Trim(prefix, "/") + "/" + sessionID + "/logo." + string(ft)
}

// ValidateSessionID rejects ids that could escape the per-order storage prefix or document path.
func ValidateSessionID(id string) error {
	if id == "" || len(id) > 255 || strings.ContainsAny(id, "/\\ ") || strings.Contains(id, "..") {
		return ErrInvalidSessionID
	}
	return nil
}
