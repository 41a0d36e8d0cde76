package embeddings

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"perfumeprj/internal/model"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/repository"
)

const chunkSize = 1000

// VectorStore is where generated chunks go.
type VectorStore interface {
	DeleteForProduct(ctx context.Context, perfumeID string) error
	Save(ctx context.Context, e repository.Embedding) error
}

type Result struct {
	Processed int
	Failed    int
}

// RunWorkers regenerates the embeddings of every product with a pool of
// workers. A product whose chunks fail is counted and logged; the rest go on.
func RunWorkers(ctx context.Context, products []model.Product, embedder Embedder, store VectorStore, workers int, log *zap.Logger) Result {
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan *model.Product)
	var (
		wg                sync.WaitGroup
		processed, failed atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if process(ctx, p, embedder, store, log) {
					processed.Add(1)
				} else {
					failed.Add(1)
				}
			}
		}()
	}

feed:
	for i := range products {
		select {
		case jobs <- &products[i]:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return Result{Processed: int(processed.Load()), Failed: int(failed.Load())}
}

func process(ctx context.Context, p *model.Product, embedder Embedder, store VectorStore, log *zap.Logger) bool {
	log = log.With(zap.String("id", p.ID), zap.String("name", p.Name))

	if err := store.DeleteForProduct(ctx, p.ID); err != nil {
		log.Error("clearing old embeddings failed", zap.Error(err))
		return false
	}

	ok := true
	for _, c := range Chunk(ProductToText(p), chunkSize) {
		vec, err := embedder.Embed(ctx, c)
		if err != nil {
			log.Error("embedding failed", zap.Error(err))
			ok = false
			continue
		}
		if err := store.Save(ctx, repository.Embedding{
			PerfumeID: p.ID,
			Name:      p.Name,
			Brand:     p.Brand,
			ImageURL:  p.ImageURL,
			AmazonURL: p.AmazonURL,
			Content:   c,
			Vector:    vec,
		}); err != nil {
			log.Error("saving embedding failed", zap.Error(err))
			ok = false
			continue
		}
		observability.EmbeddingsTotal.Inc()
	}
	return ok
}
