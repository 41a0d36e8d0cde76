package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfumeprj/internal/ingest"
	"perfumeprj/internal/model"
	"perfumeprj/internal/repository"
)

var productCols = []string{
	"id", "name", "brand", "description", "price", "currency", "amazon_url", "amazon_asin",
	"image_url", "fragrantica_url", "is_available", "longevity", "sillage", "projection", "category",
	"notes", "season", "occasion", "last_scraped_at",
}

func setupMockDB(t *testing.T) (*repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repository.ProductRepository{DB: db}, mock
}

// the repository must satisfy what the pipeline and image refresher need
var (
	_ ingest.Store      = (*repository.ProductRepository)(nil)
	_ ingest.ImageStore = (*repository.ProductRepository)(nil)
)

func TestFindByASIN_Success(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(productCols).AddRow(
		"p-1", "Aventus", "Creed", nil, "4500.00", "ZAR", "https://www.amazon.co.za/dp/B0AVENTUS1", "B0AVENTUS1",
		nil, nil, true, int64(4), nil, int64(5), "Eau de Parfum",
		[]byte("{pineapple,birch}"), []byte("{}"), nil, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, brand`)).
		WithArgs("B0AVENTUS1").
		WillReturnRows(rows)

	p, err := repo.FindByASIN(context.Background(), "B0AVENTUS1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Creed", p.Brand)
	assert.True(t, p.Price.Valid)
	assert.True(t, p.Price.Decimal.Equal(decimal.NewFromInt(4500)))
	assert.Empty(t, p.ImageURL)
	require.NotNil(t, p.Longevity)
	assert.Equal(t, 4, *p.Longevity)
	assert.Nil(t, p.Sillage)
	assert.Equal(t, []string{"pineapple", "birch"}, p.Notes)
	assert.Equal(t, now, p.LastScrapedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByBrandName_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, brand`)).
		WithArgs("Dior", "Sauvage").
		WillReturnRows(sqlmock.NewRows(productCols))

	p, err := repo.FindByBrandName(context.Background(), "Dior", "Sauvage")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestFindByBrandName_NullCurrency(t *testing.T) {
	repo, mock := setupMockDB(t)
	rows := sqlmock.NewRows(productCols).AddRow(
		"p-9", "Sauvage", "Dior", nil, nil, nil, nil, nil,
		nil, nil, true, nil, nil, nil, nil,
		nil, nil, nil, nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, brand`)).
		WithArgs("Dior", "Sauvage").
		WillReturnRows(rows)

	p, err := repo.FindByBrandName(context.Background(), "Dior", "Sauvage")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p-9", p.ID)
	assert.Empty(t, p.Currency)
	assert.False(t, p.Price.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByASIN_Error(t *testing.T) {
	repo, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, brand`)).
		WillReturnError(errors.New("connection reset"))

	p, err := repo.FindByASIN(context.Background(), "B0X")
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestInsert_Success(t *testing.T) {
	repo, mock := setupMockDB(t)
	p := &model.Product{
		ID:            "p-2",
		Name:          "Sauvage",
		Brand:         "Dior",
		Price:         decimal.NewNullDecimal(decimal.RequireFromString("899.00")),
		Currency:      "ZAR",
		IsAvailable:   true,
		Notes:         []string{"bergamot", "ambroxan"},
		LastScrapedAt: time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO perfumes`)).
		WithArgs("p-2", "Sauvage", "Dior", nil, sqlmock.AnyArg(), "ZAR", nil, nil, nil, nil,
			true, nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Insert(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMutable(t *testing.T) {
	repo, mock := setupMockDB(t)
	p := &model.Product{ID: "p-3", IsAvailable: false, ImageURL: "img.jpg", LastScrapedAt: time.Now().UTC()}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE perfumes`)).
		WithArgs(sqlmock.AnyArg(), false, "img.jpg", sqlmock.AnyArg(), "p-3").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateMutable(context.Background(), p))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE perfumes`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateMutable(context.Background(), p), repository.ErrNotFound)
}

func TestDeleteAll(t *testing.T) {
	repo, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM perfumes`)).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := repo.DeleteAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestListMissingImages(t *testing.T) {
	repo, mock := setupMockDB(t)
	rows := sqlmock.NewRows(productCols).
		AddRow("p-1", "Aventus", "Creed", nil, nil, "ZAR", nil, "B0AVENTUS1", nil, nil, true, nil, nil, nil, nil, nil, nil, nil, nil).
		AddRow("p-2", "Oud Wood", "Tom Ford", nil, nil, "ZAR", "https://www.amazon.co.za/dp/B0OUDWOOD1", nil, "", nil, true, nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, brand`)).
		WithArgs(2000).
		WillReturnRows(rows)

	list, err := repo.ListMissingImages(context.Background(), 2000)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Price.Valid)
	assert.Equal(t, "https://www.amazon.co.za/dp/B0OUDWOOD1", list[1].AmazonURL)
}

func TestUpdateImage(t *testing.T) {
	repo, mock := setupMockDB(t)
	at := time.Now().UTC()
	avail := false

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE perfumes`)).
		WithArgs("new.jpg", false, at, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateImage(context.Background(), "p-1", "new.jpg", &avail, at))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE perfumes`)).
		WithArgs(nil, nil, at, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateImage(context.Background(), "p-1", "", nil, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}
