package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/orders/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `session_id, customer_email, logo_data, package_type, amount, currency,
download_links, status, email_sent, created_at, expires_at`

func (r *PostgresRepository) Create(ctx context.Context, o *domain.Order) error {
	logoJSON, linksJSON, err := marshalOrderJSON(o)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	_, err = r.db.ExecContext(ctx, q,
		o.SessionID, o.CustomerEmail, logoJSON, string(o.PackageType), o.Amount, o.Currency,
		linksJSON, string(o.Status), o.EmailSent, o.CreatedAt, o.ExpiresAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, sessionID string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE session_id = $1;`

	o, err := scanOrder(r.db.QueryRowContext(ctx, q, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) Update(ctx context.Context, o *domain.Order) error {
	logoJSON, linksJSON, err := marshalOrderJSON(o)
	if err != nil {
		return err
	}

	const q = `
UPDATE orders
SET customer_email = $2, logo_data = $3, package_type = $4, amount = $5, currency = $6,
    download_links = $7, status = $8, email_sent = $9, expires_at = $10
WHERE session_id = $1;
`
	res, err := r.db.ExecContext(ctx, q,
		o.SessionID, o.CustomerEmail, logoJSON, string(o.PackageType), o.Amount, o.Currency,
		linksJSON, string(o.Status), o.EmailSent, o.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) ListExpired(ctx context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	const q = `SELECT ` + orderColumns + `
FROM orders
WHERE status = $1 AND expires_at <= $2
ORDER BY expires_at
LIMIT $3;`

	rows, err := r.db.QueryContext(ctx, q, string(domain.StatusCompleted), before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired orders: %w", err)
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expired orders: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o                   domain.Order
		logoJSON, linksJSON []byte
		pkg, status         string
	)
	if err := row.Scan(&o.SessionID, &o.CustomerEmail, &logoJSON, &pkg, &o.Amount, &o.Currency,
		&linksJSON, &status, &o.EmailSent, &o.CreatedAt, &o.ExpiresAt); err != nil {
		return nil, err
	}
	o.PackageType = logo.PackageType(pkg)
	o.Status = domain.Status(status)

	if err := json.Unmarshal(logoJSON, &o.LogoData); err != nil {
		return nil, fmt.Errorf("decode logo data: %w", err)
	}
	if err := json.Unmarshal(linksJSON, &o.DownloadLinks); err != nil {
		return nil, fmt.Errorf("decode download links: %w", err)
	}
	return &o, nil
}

func marshalOrderJSON(o *domain.Order) ([]byte, []byte, error) {
	logoJSON, err := json.Marshal(o.LogoData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal logo data: %w", err)
	}
	links := o.DownloadLinks
	if links == nil {
		links = map[logo.FileType]string{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal download links: %w", err)
	}
	return logoJSON, linksJSON, nil
}
