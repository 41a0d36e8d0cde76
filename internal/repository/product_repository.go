package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"perfumeprj/internal/model"
)

var ErrNotFound = errors.New("perfume not found")

const productColumns = `id, name, brand, description, price, currency, amazon_url, amazon_asin,
	image_url, fragrantica_url, is_available, longevity, sillage, projection, category,
	notes, season, occasion, last_scraped_at`

// ProductRepository reads and writes the perfumes table.
type ProductRepository struct {
	DB *sql.DB
}

func (r *ProductRepository) FindByASIN(ctx context.Context, asin string) (*model.Product, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM perfumes WHERE amazon_asin = $1 LIMIT 1`, asin)
	return scanOne(row)
}

func (r *ProductRepository) FindByBrandName(ctx context.Context, brand, name string) (*model.Product, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM perfumes WHERE brand = $1 AND name = $2 LIMIT 1`, brand, name)
	return scanOne(row)
}

func (r *ProductRepository) Insert(ctx context.Context, p *model.Product) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO perfumes
		(id, name, brand, description, price, currency, amazon_url, amazon_asin,
		 image_url, fragrantica_url, is_available, longevity, sillage, projection, category,
		 notes, season, occasion, last_scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, p.ID, p.Name, p.Brand, nullString(p.Description), p.Price, p.Currency,
		nullString(p.AmazonURL), nullString(p.AmazonASIN), nullString(p.ImageURL), nullString(p.FragranticaURL),
		p.IsAvailable, p.Longevity, p.Sillage, p.Projection, nullString(p.Category),
		pq.Array(p.Notes), pq.Array(p.Season), pq.Array(p.Occasion), p.LastScrapedAt)
	return err
}

// UpdateMutable writes the fields a rescrape may change and nothing else.
func (r *ProductRepository) UpdateMutable(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE perfumes
		SET price = $1, is_available = $2, image_url = $3, last_scraped_at = $4
		WHERE id = $5
	`, p.Price, p.IsAvailable, nullString(p.ImageURL), p.LastScrapedAt, p.ID)
	if err != nil {
		return err
	}
	return expectOne(res, p.ID)
}

func (r *ProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM perfumes WHERE id IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ProductRepository) ListMissingImages(ctx context.Context, limit int) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+productColumns+` FROM perfumes WHERE image_url IS NULL OR image_url = '' LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanAll(rows)
}

// ListAll returns the whole catalogue, oldest first.
func (r *ProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+productColumns+` FROM perfumes ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return scanAll(rows)
}

// UpdateImage sets the image (when non-empty) and availability (when known).
func (r *ProductRepository) UpdateImage(ctx context.Context, id, imageURL string, available *bool, scrapedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE perfumes
		SET image_url = COALESCE($1, image_url),
		    is_available = COALESCE($2, is_available),
		    last_scraped_at = $3
		WHERE id = $4
	`, nullString(imageURL), available, scrapedAt, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*model.Product, error) {
	var (
		p                                            model.Product
		description, amazonURL, asin, image, fragURL sql.NullString
		category, currency                           sql.NullString
		longevity, sillage, projection               sql.NullInt64
		lastScraped                                  sql.NullTime
	)
	err := s.Scan(&p.ID, &p.Name, &p.Brand, &description, &p.Price, &currency, &amazonURL, &asin,
		&image, &fragURL, &p.IsAvailable, &longevity, &sillage, &projection, &category,
		pq.Array(&p.Notes), pq.Array(&p.Season), pq.Array(&p.Occasion), &lastScraped)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Currency = currency.String
	p.AmazonURL = amazonURL.String
	p.AmazonASIN = asin.String
	p.ImageURL = image.String
	p.FragranticaURL = fragURL.String
	p.Category = category.String
	p.Longevity = intPtr(longevity)
	p.Sillage = intPtr(sillage)
	p.Projection = intPtr(projection)
	p.LastScrapedAt = lastScraped.Time
	return &p, nil
}

func scanOne(row *sql.Row) (*model.Product, error) {
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func scanAll(rows *sql.Rows) ([]model.Product, error) {
	defer rows.Close()
	var list []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
