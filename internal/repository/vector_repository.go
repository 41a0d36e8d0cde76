package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VectorResult struct {
	PerfumeID string
	Name      string
	Brand     string
	ImageURL  string
	AmazonURL string
	Content   string
	Score     float64
}

// Embedding is one chunk of a perfume's text and its vector.
type Embedding struct {
	PerfumeID string
	Name      string
	Brand     string
	ImageURL  string
	AmazonURL string
	Content   string
	Vector    []float32
}

type VectorRepository struct {
	DB *pgxpool.Pool
}

func (r *VectorRepository) Save(ctx context.Context, e Embedding) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO perfume_embeddings
		(id, perfume_id, name, brand, image_url, amazon_url, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New(), e.PerfumeID, e.Name, e.Brand, e.ImageURL, e.AmazonURL,
		strings.ToValidUTF8(e.Content, ""), vectorLiteral(e.Vector))
	return err
}

// DeleteForProduct drops a perfume's chunks before they are regenerated.
func (r *VectorRepository) DeleteForProduct(ctx context.Context, perfumeID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM perfume_embeddings WHERE perfume_id = $1`, perfumeID)
	return err
}

// SearchSimilar returns the best chunk per perfume above minScore, best first.
// An empty brand searches the whole catalogue.
func (r *VectorRepository) SearchSimilar(ctx context.Context, embedding []float32, minScore float64, limit int, brand string) ([]VectorResult, error) {
	query, params := searchQuery(embedding, minScore, limit, brand)

	rows, err := r.DB.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("search embeddings: %w", err)
	}
	defer rows.Close()

	var res []VectorResult
	for rows.Next() {
		var v VectorResult
		if err := rows.Scan(&v.PerfumeID, &v.Name, &v.Brand, &v.ImageURL, &v.AmazonURL, &v.Content, &v.Score); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func searchQuery(embedding []float32, minScore float64, limit int, brand string) (string, []any) {
	params := []any{vectorLiteral(embedding), minScore, limit}
	where := "1 - (embedding <=> $1) > $2"
	if brand != "" {
		params = append(params, "%"+brand+"%")
		where += fmt.Sprintf(" AND brand ILIKE $%d", len(params))
	}

	query := fmt.Sprintf(`
		SELECT perfume_id, name, brand, image_url, amazon_url, content, score
		FROM (
			SELECT DISTINCT ON (perfume_id) perfume_id, name, brand, image_url, amazon_url, content,
			       1 - (embedding <=> $1) AS score
			FROM perfume_embeddings
			WHERE %s
			ORDER BY perfume_id, score DESC
		) sub
		ORDER BY score DESC
		LIMIT $3
	`, where)
	return query, params
}

// vectorLiteral renders pgvector's text form, "[v1,v2,...]".
func vectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
