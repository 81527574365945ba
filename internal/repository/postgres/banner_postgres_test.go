package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/model"
)

var bannerCols = []string{"id", "object_key", "public_url", "created_at"}

func TestBannerPostgres_CRUD(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBannerPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	b := &model.HomeBanner{ID: "b1", ObjectKey: "home-banners/x.jpg", PublicURL: "https://cdn/home-banners/x.jpg", CreatedAt: now}

	mock.ExpectQuery("INSERT INTO home_banners").
		WithArgs(b.ID, b.ObjectKey, b.PublicURL, b.CreatedAt).
		WillReturnRows(sqlmock.NewRows(bannerCols).AddRow(b.ID, b.ObjectKey, b.PublicURL, now))
	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, b.ObjectKey, created.ObjectKey)

	mock.ExpectQuery("SELECT (.+) FROM home_banners WHERE id = ?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectQuery("SELECT (.+) FROM home_banners ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(bannerCols).
			AddRow("b2", "home-banners/y.jpg", "u2", now).
			AddRow("b1", "home-banners/x.jpg", "u1", now.Add(-time.Minute)))
	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b2", items[0].ID)

	mock.ExpectExec("DELETE FROM home_banners WHERE id = ?").
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "b1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBannerPostgres_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM home_banners").
		WillReturnRows(sqlmock.NewRows(bannerCols))

	items, err := NewBannerPostgres(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
