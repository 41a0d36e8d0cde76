// Package ingest turns raw rows into persisted perfumes: extract, infer a
// missing brand, validate, then upsert in batches. Everything runs in order
// on the calling goroutine.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"perfumeprj/internal/brand"
	"perfumeprj/internal/extract"
	"perfumeprj/internal/model"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/validate"
)

const DefaultBatchSize = 50

type Options struct {
	BatchSize int
	DryRun    bool
	// Out receives one JSON candidate per line in dry-run mode.
	Out io.Writer
}

type Pipeline struct {
	extractor  *extract.Extractor
	dispatcher *Dispatcher
	log        *zap.Logger
	opts       Options
}

// NewPipeline wires the stages. dispatcher may be nil for dry runs.
func NewPipeline(ex *extract.Extractor, dispatcher *Dispatcher, log *zap.Logger, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Pipeline{extractor: ex, dispatcher: dispatcher, log: log, opts: opts}
}

// Map runs extraction, brand inference and validation. Rejected rows are
// logged with their violations and dropped.
func (p *Pipeline) Map(rows []model.RawRow) (valid []model.Candidate, rejected int) {
	for _, row := range rows {
		c := p.extractor.Extract(row)
		if c.Brand == "" && c.Name != "" {
			if b, ok := brand.Infer(c.Name); ok {
				c.Brand = b
				c.BrandInferred = true
			}
		}

		if vs := validate.Candidate(c); len(vs) > 0 {
			rejected++
			observability.RecordsTotal.WithLabelValues("rejected").Inc()
			p.log.Warn("row rejected",
				zap.String("row", row.Source),
				zap.String("name", c.Name),
				zap.Strings("violations", vs.Strings()),
			)
			continue
		}
		observability.RecordsTotal.WithLabelValues("mapped").Inc()
		valid = append(valid, c)
	}
	return valid, rejected
}

// Process maps rows and either prints them (dry run) or dispatches them in
// batches. It never returns early on a bad row or a failed write.
func (p *Pipeline) Process(ctx context.Context, rows []model.RawRow) Summary {
	valid, rejected := p.Map(rows)
	s := Summary{Found: len(rows), Mapped: len(valid), Skipped: rejected}

	if p.opts.DryRun || p.dispatcher == nil {
		enc := json.NewEncoder(p.opts.Out)
		for _, c := range valid {
			if err := enc.Encode(c); err != nil {
				p.log.Warn("dry-run output failed", zap.Error(err))
			}
		}
		return s
	}

	for i := 0; i < len(valid); i += p.opts.BatchSize {
		end := i + p.opts.BatchSize
		if end > len(valid) {
			end = len(valid)
		}

		res := p.dispatcher.Dispatch(ctx, valid[i:end])
		s.Inserted += res.Inserted
		s.Updated += res.Updated
		s.Failed += res.Failed
		for _, err := range res.Errors {
			s.addError(err.Error())
		}
		p.log.Info("batch done",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int("inserted", res.Inserted),
			zap.Int("updated", res.Updated),
			zap.Int("failed", res.Failed),
		)

		if ctx.Err() != nil {
			s.Failed += len(valid) - end
			break
		}
	}
	return s
}

// Clear removes every stored perfume before a full reimport.
func (p *Pipeline) Clear(ctx context.Context) (int64, error) {
	if p.dispatcher == nil {
		return 0, fmt.Errorf("clear: no store configured")
	}
	return p.dispatcher.store.DeleteAll(ctx)
}
