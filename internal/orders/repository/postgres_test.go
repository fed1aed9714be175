package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/orders/domain"
)

func setupPostgresRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func sampleOrder(now time.Time) *domain.Order {
	return &domain.Order{
		SessionID:     "cs_test_1",
		CustomerEmail: "buyer@example.com",
		LogoData:      logo.LogoData{BusinessName: "Acme", PrimaryColor: "#ff0000"},
		PackageType:   logo.PackageStandard,
		Amount:        199,
		Currency:      "usd",
		DownloadLinks: map[logo.FileType]string{logo.FilePNG: "https://cdn.test/logo.png"},
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
		ExpiresAt:     now.Add(30 * 24 * time.Hour),
	}
}

var orderRowColumns = []string{"session_id", "customer_email", "logo_data", "package_type", "amount", "currency",
	"download_links", "status", "email_sent", "created_at", "expires_at"}

func orderRow(o *domain.Order) *sqlmock.Rows {
	return sqlmock.NewRows(orderRowColumns).AddRow(
		o.SessionID, o.CustomerEmail, []byte(`{"businessName":"Acme","primaryColor":"#ff0000"}`),
		string(o.PackageType), o.Amount, o.Currency, []byte(`{"png":"https://cdn.test/logo.png"}`),
		string(o.Status), o.EmailSent, o.CreatedAt, o.ExpiresAt,
	)
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	o := sampleOrder(now)

	t.Run("inserts", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs("cs_test_1", "buyer@example.com", sqlmock.AnyArg(), "standard", int64(199), "usd",
				[]byte(`{"png":"https://cdn.test/logo.png"}`), "completed", false, now, o.ExpiresAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), o))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate session", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO orders`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), o)
		assert.ErrorIs(t, err, domain.ErrOrderExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		mock.ExpectExec(`INSERT INTO orders`).WillReturnError(boom)

		err := repo.Create(context.Background(), o)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrOrderExists)
	})
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	want := sampleOrder(now)

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders WHERE session_id = \$1`).
		WithArgs("cs_test_1").
		WillReturnRows(orderRow(want))

	got, err := repo.Get(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders WHERE session_id = \$1`).
		WithArgs("cs_missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Update(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	o := sampleOrder(time.Now().UTC())
	o.Status = domain.StatusExpired

	mock.ExpectExec(`UPDATE orders`).
		WithArgs("cs_test_1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "expired", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), o))

	mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), o), domain.ErrOrderNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListExpired(t *testing.T) {
	repo, mock := setupPostgresRepo(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a, b := sampleOrder(now.Add(-40*24*time.Hour)), sampleOrder(now.Add(-35*24*time.Hour))
	b.SessionID = "cs_test_2"

	rows := orderRow(a)
	rows.AddRow(b.SessionID, b.CustomerEmail, []byte(`{"businessName":"Acme"}`), "standard", b.Amount, b.Currency,
		[]byte(`{}`), "completed", true, b.CreatedAt, b.ExpiresAt)

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders\s+WHERE status = \$1 AND expires_at <= \$2`).
		WithArgs("completed", now, int64(50)).
		WillReturnRows(rows)

	got, err := repo.ListExpired(context.Background(), now, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cs_test_1", got[0].SessionID)
	assert.Equal(t, "cs_test_2", got[1].SessionID)
	assert.True(t, got[1].EmailSent)
	assert.Empty(t, got[1].DownloadLinks)
	require.NoError(t, mock.ExpectationsWereMet())
}
