package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"perfumeprj/internal/extract"
	"perfumeprj/internal/model"
	"perfumeprj/internal/observability"
)

const DefaultImageLimit = 2000

// PageSource scrapes one product detail page.
type PageSource interface {
	Scrape(ctx context.Context, asin string) (model.ProductPage, error)
}

// ImageStore is the slice of the product table the image refresher touches.
type ImageStore interface {
	ListMissingImages(ctx context.Context, limit int) ([]model.Product, error)
	FindByASIN(ctx context.Context, asin string) (*model.Product, error)
	FindByBrandName(ctx context.Context, brand, name string) (*model.Product, error)
	UpdateImage(ctx context.Context, id, imageURL string, available *bool, scrapedAt time.Time) error
}

type ImageSummary struct {
	Checked  int
	Updated  int
	Skipped  int
	Failed   int
	NotFound int
}

func (s ImageSummary) String() string {
	return fmt.Sprintf("checked=%d, updated=%d, skipped=%d, failed=%d, not found=%d",
		s.Checked, s.Updated, s.Skipped, s.Failed, s.NotFound)
}

// ImageRefresher fills in missing product images and availability from
// detail pages, and applies hand-picked image overrides.
type ImageRefresher struct {
	store ImageStore
	pages PageSource
	log   *zap.Logger
	now   func() time.Time
}

func NewImageRefresher(store ImageStore, pages PageSource, log *zap.Logger) *ImageRefresher {
	return &ImageRefresher{store: store, pages: pages, log: log, now: time.Now}
}

// RefreshMissing walks up to limit products that have no image yet.
func (r *ImageRefresher) RefreshMissing(ctx context.Context, limit int) (ImageSummary, error) {
	if limit <= 0 {
		limit = DefaultImageLimit
	}
	products, err := r.store.ListMissingImages(ctx, limit)
	if err != nil {
		return ImageSummary{}, fmt.Errorf("list products without image: %w", err)
	}
	r.log.Info("refreshing images", zap.Int("products", len(products)))

	var s ImageSummary
	for i := range products {
		if ctx.Err() != nil {
			break
		}
		r.refresh(ctx, &products[i], &s)
	}
	return s, nil
}

// RefreshASIN refreshes a single product.
func (r *ImageRefresher) RefreshASIN(ctx context.Context, asin string) (ImageSummary, error) {
	p, err := r.store.FindByASIN(ctx, asin)
	if err != nil {
		return ImageSummary{}, fmt.Errorf("find %s: %w", asin, err)
	}
	var s ImageSummary
	if p == nil {
		s.NotFound++
		return s, nil
	}
	r.refresh(ctx, p, &s)
	return s, nil
}

func (r *ImageRefresher) refresh(ctx context.Context, p *model.Product, s *ImageSummary) {
	s.Checked++
	log := r.log.With(zap.String("id", p.ID), zap.String("name", p.Name))

	asin := p.AmazonASIN
	if asin == "" {
		asin, _ = extract.ASINFromURL(p.AmazonURL)
	}
	if asin == "" {
		s.Skipped++
		observability.ImagesTotal.WithLabelValues("skipped").Inc()
		log.Info("skipped, no asin resolved")
		return
	}

	page, err := r.pages.Scrape(ctx, asin)
	if err != nil {
		s.Failed++
		observability.ImagesTotal.WithLabelValues("failed").Inc()
		log.Error("product page failed", zap.String("asin", asin), zap.Error(err))
		return
	}
	if page.ImageURL == "" && page.Available == nil {
		s.Skipped++
		observability.ImagesTotal.WithLabelValues("skipped").Inc()
		log.Info("skipped, no image on page", zap.String("asin", asin))
		return
	}

	if err := r.store.UpdateImage(ctx, p.ID, page.ImageURL, page.Available, r.now().UTC()); err != nil {
		s.Failed++
		observability.ImagesTotal.WithLabelValues("failed").Inc()
		log.Error("image update failed", zap.String("asin", asin), zap.Error(err))
		return
	}
	s.Updated++
	observability.ImagesTotal.WithLabelValues("updated").Inc()
	log.Info("image updated", zap.String("asin", asin), zap.String("image", page.ImageURL))
}

// ApplyOverrides sets each override's image on the product with the same
// brand and name.
func (r *ImageRefresher) ApplyOverrides(ctx context.Context, overrides []model.ImageOverride) ImageSummary {
	var s ImageSummary
	for _, o := range overrides {
		s.Checked++
		p, err := r.store.FindByBrandName(ctx, o.Brand, o.Name)
		if err != nil {
			s.Failed++
			r.log.Error("override lookup failed", zap.String("brand", o.Brand), zap.String("name", o.Name), zap.Error(err))
			continue
		}
		if p == nil {
			s.NotFound++
			r.log.Info("no match for override", zap.String("brand", o.Brand), zap.String("name", o.Name))
			continue
		}
		if err := r.store.UpdateImage(ctx, p.ID, o.ImageURL, nil, r.now().UTC()); err != nil {
			s.Failed++
			r.log.Error("override update failed", zap.String("brand", o.Brand), zap.String("name", o.Name), zap.Error(err))
			continue
		}
		s.Updated++
		observability.ImagesTotal.WithLabelValues("override").Inc()
	}
	return s
}
