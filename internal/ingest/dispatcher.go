package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"perfumeprj/internal/model"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/throttle"
)

// Store is the row-level API of the hosted perfumes table. Finders return
// (nil, nil) when nothing matches.
type Store interface {
	FindByASIN(ctx context.Context, asin string) (*model.Product, error)
	FindByBrandName(ctx context.Context, brand, name string) (*model.Product, error)
	Insert(ctx context.Context, p *model.Product) error
	UpdateMutable(ctx context.Context, p *model.Product) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
)

type BatchResult struct {
	Inserted int
	Updated  int
	Failed   int
	Errors   []error
}

type Dispatcher struct {
	store    Store
	log      *zap.Logger
	currency string
	pace     *throttle.Throttle
	now      func() time.Time
}

// NewDispatcher pauses recordDelay between writes; currency is stamped on
// inserts whose source carried none.
func NewDispatcher(store Store, log *zap.Logger, currency string, recordDelay time.Duration) *Dispatcher {
	return &Dispatcher{
		store:    store,
		log:      log,
		currency: currency,
		pace:     throttle.New(recordDelay),
		now:      time.Now,
	}
}

// Dispatch upserts each candidate on its natural key. A failing record is
// logged and counted; the rest of the batch still runs.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []model.Candidate) BatchResult {
	var res BatchResult
	for _, c := range batch {
		if err := d.pace.Wait(ctx); err != nil {
			res.Failed += len(batch) - res.Inserted - res.Updated - res.Failed
			res.Errors = append(res.Errors, err)
			return res
		}

		action, err := d.upsert(ctx, c)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", c.NaturalKey(), err))
			observability.RecordsTotal.WithLabelValues("failed").Inc()
			d.log.Error("upsert failed", zap.String("key", c.NaturalKey()), zap.Error(err))
			continue
		}

		switch action {
		case ActionInsert:
			res.Inserted++
			observability.RecordsTotal.WithLabelValues("inserted").Inc()
		case ActionUpdate:
			res.Updated++
			observability.RecordsTotal.WithLabelValues("updated").Inc()
		}
		d.log.Debug("upserted", zap.String("action", string(action)), zap.String("key", c.NaturalKey()))
	}
	return res
}

func (d *Dispatcher) upsert(ctx context.Context, c model.Candidate) (Action, error) {
	var (
		existing *model.Product
		err      error
	)
	if c.AmazonASIN != "" {
		existing, err = d.store.FindByASIN(ctx, c.AmazonASIN)
	} else {
		existing, err = d.store.FindByBrandName(ctx, c.Brand, c.Name)
	}
	if err != nil {
		return "", fmt.Errorf("lookup: %w", err)
	}

	now := d.now().UTC()

	if existing != nil {
		applyMutable(existing, c, now)
		if err := d.store.UpdateMutable(ctx, existing); err != nil {
			return "", fmt.Errorf("update %s: %w", existing.ID, err)
		}
		return ActionUpdate, nil
	}

	p := newProduct(c, d.currency, now)
	if err := d.store.Insert(ctx, p); err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	return ActionInsert, nil
}

// applyMutable copies the fields a rescrape may change. Values the candidate
// lacks keep what is stored.
func applyMutable(p *model.Product, c model.Candidate, now time.Time) {
	if c.Price.Valid {
		p.Price = c.Price
	}
	if c.Available != nil {
		p.IsAvailable = *c.Available
	}
	if c.ImageURL != "" {
		p.ImageURL = c.ImageURL
	}
	p.LastScrapedAt = now
}

func newProduct(c model.Candidate, defaultCurrency string, now time.Time) *model.Product {
	p := &model.Product{
		ID:             uuid.NewString(),
		Name:           c.Name,
		Brand:          c.Brand,
		Description:    c.Description,
		Price:          c.Price,
		Currency:       c.Currency,
		AmazonURL:      c.AmazonURL,
		AmazonASIN:     c.AmazonASIN,
		ImageURL:       c.ImageURL,
		FragranticaURL: c.FragranticaURL,
		IsAvailable:    true,
		Longevity:      c.Longevity,
		Sillage:        c.Sillage,
		Projection:     c.Projection,
		Category:       c.Category,
		Notes:          c.Notes,
		Season:         c.Season,
		Occasion:       c.Occasion,
		LastScrapedAt:  now,
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if c.Available != nil {
		p.IsAvailable = *c.Available
	}
	return p
}
