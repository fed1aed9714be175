package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/orders/domain"
)

const ordersCollection = "orders"

// FirestoreRepository stores one document per order in the "orders" collection,
// with the session ID as document ID.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

// orderDoc is the stored shape; Firestore maps need plain string keys.
type orderDoc struct {
	SessionID     string            `firestore:"sessionId"`
	CustomerEmail string            `firestore:"customerEmail"`
	LogoData      logo.LogoData     `firestore:"logoData"`
	PackageType   string            `firestore:"packageType"`
	Amount        int64             `firestore:"amount"`
	Currency      string            `firestore:"currency"`
	DownloadLinks map[string]string `firestore:"downloadLinks"`
	Status        string            `firestore:"status"`
	EmailSent     bool              `firestore:"emailSent"`
	CreatedAt     time.Time         `firestore:"createdAt"`
	ExpiresAt     time.Time         `firestore:"expiresAt"`
}

func toDoc(o *domain.Order) orderDoc {
	links := make(map[string]string, len(o.DownloadLinks))
	for k, v := range o.DownloadLinks {
		links[string(k)] = v
	}
	return orderDoc{
		SessionID:     o.SessionID,
		CustomerEmail: o.CustomerEmail,
		LogoData:      o.LogoData,
		PackageType:   string(o.PackageType),
		Amount:        o.Amount,
		Currency:      o.Currency,
		DownloadLinks: links,
		Status:        string(o.Status),
		EmailSent:     o.EmailSent,
		CreatedAt:     o.CreatedAt,
		ExpiresAt:     o.ExpiresAt,
	}
}

func (d orderDoc) toOrder() *domain.Order {
	links := make(map[logo.FileType]string, len(d.DownloadLinks))
	for k, v := range d.DownloadLinks {
		links[logo.FileType(k)] = v
	}
	return &domain.Order{
		SessionID:     d.SessionID,
		CustomerEmail: d.CustomerEmail,
		LogoData:      d.LogoData,
		PackageType:   logo.PackageType(d.PackageType),
		Amount:        d.Amount,
		Currency:      d.Currency,
		DownloadLinks: links,
		Status:        domain.Status(d.Status),
		EmailSent:     d.EmailSent,
		CreatedAt:     d.CreatedAt,
		ExpiresAt:     d.ExpiresAt,
	}
}

func (r *FirestoreRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(ordersCollection).Doc(id)
}

func (r *FirestoreRepository) Create(ctx context.Context, o *domain.Order) error {
	if _, err := r.doc(o.SessionID).Create(ctx, toDoc(o)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) Get(ctx context.Context, sessionID string) (*domain.Order, error) {
	snap, err := r.doc(sessionID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	if d.SessionID == "" {
		d.SessionID = snap.Ref.ID
	}
	return d.toOrder(), nil
}

// Update overwrites the document; it must already exist.
func (r *FirestoreRepository) Update(ctx context.Context, o *domain.Order) error {
	d := toDoc(o)
	_, err := r.doc(o.SessionID).Update(ctx, []firestore.Update{
		{Path: "customerEmail", Value: d.CustomerEmail},
		{Path: "logoData", Value: d.LogoData},
		{Path: "packageType", Value: d.PackageType},
		{Path: "amount", Value: d.Amount},
		{Path: "currency", Value: d.Currency},
		{Path: "downloadLinks", Value: d.DownloadLinks},
		{Path: "status", Value: d.Status},
		{Path: "emailSent", Value: d.EmailSent},
		{Path: "expiresAt", Value: d.ExpiresAt},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// ListExpired needs a composite index on (status, expiresAt).
func (r *FirestoreRepository) ListExpired(ctx context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	iter := r.client.Collection(ordersCollection).
		Where("status", "==", string(domain.StatusCompleted)).
		Where("expiresAt", "<=", before).
		OrderBy("expiresAt", firestore.Asc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var out []*domain.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list expired orders: %w", err)
		}
		var d orderDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to decode order %s: %w", snap.Ref.ID, err)
		}
		if d.SessionID == "" {
			d.SessionID = snap.Ref.ID
		}
		out = append(out, d.toOrder())
	}
	return out, nil
}
