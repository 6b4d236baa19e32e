// Package pipeline runs documents through extraction, parsing and caching
// for the API and records parse statistics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mdtree/internal/config"
	"github.com/dgallion1/mdtree/internal/doctree"
	"github.com/dgallion1/mdtree/internal/parser"
	"github.com/dgallion1/mdtree/internal/source"
	"github.com/dgallion1/mdtree/internal/stats"
)

// ErrInputTooLarge is returned when a document exceeds the configured input limit.
var ErrInputTooLarge = errors.New("input too large")

// Input is one document to parse.
type Input struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Result is a parsed document.
type Result struct {
	DocID  string           `json:"doc_id"`
	Cached bool             `json:"cached"`
	Counts doctree.Counts   `json:"counts"`
	Tree   *doctree.DocTree `json:"tree"`
}

// BatchResult pairs a batch input with its result or error.
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// Orchestrator owns the parser, the result cache and the parse statistics.
type Orchestrator struct {
	parser *parser.MarkdownParser
	cache  *Cache
	stats  *stats.ParseStats
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator builds an orchestrator from cfg. Limits left at zero take
// the same defaults as config.Load.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	cfg = cfg.Normalize()
	pcfg := parser.DefaultConfig()
	pcfg.MaxDepth = cfg.MaxDepth
	return &Orchestrator{
		parser: parser.NewMarkdownParser(pcfg),
		cache:  NewCache(cfg.CacheTTL),
		stats:  stats.NewParseStats(cfg.StatsWindow),
		log:    log,
		cfg:    cfg,
	}
}

// Start launches the cache cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				o.cache.Cleanup()
			}
		}
	}()
}

// Stop shuts down the cleanup loop.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Parse parses one document, serving repeated content from the cache.
func (o *Orchestrator) Parse(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(in.Text)) > o.cfg.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(in.Text), o.cfg.MaxInputBytes)
	}

	docID := ContentHashHex([]byte(in.Text))[:16]
	if elements, counts, ok := o.cache.Get(docID); ok {
		o.log.Debug("parse cache hit", "doc_id", docID)
		return &Result{
			DocID:  docID,
			Cached: true,
			Counts: counts,
			Tree:   &doctree.DocTree{Title: in.Title, Children: elements},
		}, nil
	}

	start := time.Now()
	elements := o.parser.Parse(in.Text)
	elapsed := time.Since(start)
	counts := doctree.Count(elements)

	o.stats.Record(elapsed, len(in.Text), counts)
	o.cache.Put(docID, elements, counts)
	o.log.Debug("parsed document",
		"doc_id", docID,
		"bytes", len(in.Text),
		"elements", counts.Total(),
		"duration_us", elapsed.Microseconds(),
	)

	return &Result{
		DocID:  docID,
		Counts: counts,
		Tree:   &doctree.DocTree{Title: in.Title, Children: elements},
	}, nil
}

// ParseFile extracts subset text from a file and parses it. A non-empty
// title overrides the one derived from the file.
func (o *Orchestrator) ParseFile(ctx context.Context, filename, title string, r io.Reader) (*Result, error) {
	ex, err := source.ForFile(filename, source.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	doc, err := ex.Extract(r, filename)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	if title == "" {
		title = doc.Title
	}
	return o.Parse(ctx, Input{Title: title, Text: doc.Text})
}

// ParseBatch parses inputs concurrently, at most MaxConcurrentParse at a
// time. Results are returned in input order.
func (o *Orchestrator) ParseBatch(ctx context.Context, inputs []Input) []BatchResult {
	results := make([]BatchResult, len(inputs))
	sem := make(chan struct{}, o.cfg.MaxConcurrentParse)
	var wg sync.WaitGroup

	for i, in := range inputs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = BatchResult{Index: i, Err: ctx.Err()}
			continue
		}
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := o.Parse(ctx, in)
			results[i] = BatchResult{Index: i, Result: res, Err: err}
		}(i, in)
	}
	wg.Wait()

	return results
}

// Stats returns a snapshot of parse statistics.
func (o *Orchestrator) Stats() stats.Snapshot {
	return o.stats.Snapshot()
}

// CacheSize returns the number of cached parses.
func (o *Orchestrator) CacheSize() int {
	return o.cache.Len()
}
