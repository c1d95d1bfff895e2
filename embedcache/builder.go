package embedcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/internmatch/ai"
	"github.com/poiesic/internmatch/core"
	"github.com/poiesic/internmatch/storage"
)

// Builder fills the embedding cache for a catalog and assembles the
// similarity matrix. Only items whose cached entry is missing, corrupt,
// or written under a different embedding model hit the provider; an
// existing readable entry is reused even if the item's text has changed
// since it was embedded. Content drift is surfaced by Audit and resolved
// only by an explicit Rebuild.
type Builder struct {
	repo       storage.VectorRepository
	embedder   ai.Embedder
	model      string
	pool       *ants.Pool
	maxRetries int
	retryDelay time.Duration
	progress   io.Writer
	logger     *slog.Logger

	// buildMu serializes builds so concurrent callers never embed the
	// same missing item twice.
	buildMu sync.Mutex
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if b.pool != nil {
			b.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithRetry sets the retry policy for embedding calls.
// Defaults are 3 attempts with a 1 second base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		b.maxRetries = maxAttempts
		b.retryDelay = baseDelay
		return nil
	}
}

// WithProgress sets where rebuild progress is written (typically os.Stderr).
// Default discards progress output.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) error {
		if w == nil {
			w = io.Discard
		}
		b.progress = w
		return nil
	}
}

// NewBuilder creates a cache builder. The model name is stored alongside
// each vector; changing it invalidates cached entries on the next build.
func NewBuilder(repo storage.VectorRepository, embedder ai.Embedder, model string, opts ...Option) (*Builder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		repo:       repo,
		embedder:   embedder,
		model:      model,
		pool:       pool,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		progress:   io.Discard,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// needsEmbedding reports whether a cached entry cannot serve the item at
// all: absent, unreadable, or produced by a different model (vectors from
// different models are not comparable). A fingerprint mismatch does NOT
// qualify: stored vectors are never recomputed for an existing id, content
// drift is only reported by Audit.
func (b *Builder) needsEmbedding(entry *core.EmbeddingEntry) bool {
	if entry == nil || len(entry.Vector) == 0 {
		return true
	}
	return entry.Model != b.model
}

// GetOrBuild returns the similarity matrix for the catalog, one row per
// item in catalog order. Cached vectors are reused verbatim; only new ids
// (and entries unreadable or written by another model) are embedded,
// concurrently, then persisted in a single batch. A second call over the
// same ids makes no provider calls.
func (b *Builder) GetOrBuild(ctx context.Context, catalog []core.Internship) ([][]float32, error) {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	if len(catalog) == 0 {
		return [][]float32{}, nil
	}

	ids := make([]string, len(catalog))
	for i := range catalog {
		ids[i] = string(catalog[i].ID)
	}

	entries, err := b.repo.GetVectors(ctx, ids...)
	if err != nil {
		return nil, err
	}

	var pending []*core.Internship
	for i := range catalog {
		if b.needsEmbedding(entries[string(catalog[i].ID)]) {
			pending = append(pending, &catalog[i])
		}
	}

	if len(pending) > 0 {
		fresh, err := b.embedItems(ctx, pending, nil)
		if err != nil {
			return nil, err
		}
		if err := b.repo.PutVectors(ctx, fresh...); err != nil {
			return nil, err
		}
		for _, entry := range fresh {
			entries[entry.ItemID] = entry
		}
	}

	b.logger.Debug("embedding cache ready",
		"items", len(catalog), "embedded", len(pending), "reused", len(catalog)-len(pending))

	matrix := make([][]float32, len(catalog))
	for i := range catalog {
		entry := entries[string(catalog[i].ID)]
		if entry == nil {
			return nil, fmt.Errorf("no embedding produced for item %s", catalog[i].ID)
		}
		if i > 0 && len(entry.Vector) != len(matrix[0]) {
			return nil, fmt.Errorf("%w: item %s has dimension %d, expected %d",
				core.ErrDimensionMismatch, catalog[i].ID, len(entry.Vector), len(matrix[0]))
		}
		matrix[i] = entry.Vector
	}

	return matrix, nil
}

// embedItems embeds the given items over the worker pool. Each item is
// embedded once, with retries; the first failure aborts the batch.
func (b *Builder) embedItems(ctx context.Context, items []*core.Internship, tracker *ProgressTracker) ([]*core.EmbeddingEntry, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([]*core.EmbeddingEntry, len(items))

	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()

			text := item.EmbeddingText()
			var vector []float32
			embedErr := RetryWithBackoff(ctx, func() error {
				v, err := b.embedder.EmbedText(ctx, text)
				if err != nil {
					return err
				}
				vector = v
				return nil
			}, b.maxRetries, b.retryDelay)

			mu.Lock()
			defer mu.Unlock()
			if embedErr != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("embedding item %s: %w", item.ID, embedErr)
				}
				return
			}
			results[i] = &core.EmbeddingEntry{
				ItemID:      string(item.ID),
				Fingerprint: core.IDFromContent(text),
				Model:       b.model,
				Vector:      vector,
			}
			if tracker != nil {
				tracker.Increment(1)
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// Rebuild drops every cached vector and embeds the whole catalog from
// scratch. Progress is reported to the configured writer.
func (b *Builder) Rebuild(ctx context.Context, catalog []core.Internship) error {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	if err := b.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear embedding cache: %w", err)
	}

	if len(catalog) == 0 {
		fmt.Fprintf(b.progress, "No items found in catalog (0 items)\n")
		return nil
	}

	fmt.Fprintf(b.progress, "Starting rebuild of %d embeddings\n", len(catalog))

	tracker := NewProgressTracker(b.progress, len(catalog), reportInterval(len(catalog)))
	tracker.Start()

	items := make([]*core.Internship, len(catalog))
	for i := range catalog {
		items[i] = &catalog[i]
	}

	entries, err := b.embedItems(ctx, items, tracker)
	if err != nil {
		return err
	}
	if err := b.repo.PutVectors(ctx, entries...); err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(b.progress, "Rebuild complete. Embedded %d items in %v (%.1f items/sec)\n",
		len(catalog), elapsed.Round(time.Second), float64(len(catalog))/elapsed.Seconds())

	return nil
}

// reportInterval picks a progress interval of roughly one report per ten
// percent, at least every item for tiny catalogs.
func reportInterval(total int) int {
	interval := total / 10
	if interval < 1 {
		interval = 1
	}
	return interval
}

// AuditReport describes how the cache relates to a catalog snapshot.
type AuditReport struct {
	Fresh        int      // entries that serve their item as-is
	Missing      []string // catalog ids with no cached entry
	Stale        []string // cached under a different content fingerprint
	ModelChanged []string // cached under a different embedding model
	Orphaned     []string // cached ids no longer present in the catalog
}

// Clean reports whether the cache fully matches the catalog.
func (r *AuditReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0 &&
		len(r.ModelChanged) == 0 && len(r.Orphaned) == 0
}

// Audit compares the cache against the catalog without modifying either.
// It distinguishes content drift from model drift so an operator can tell
// whether a rebuild follows a data update or a model switch.
func (b *Builder) Audit(ctx context.Context, catalog []core.Internship) (*AuditReport, error) {
	all, err := b.repo.AllVectors(ctx)
	if err != nil {
		return nil, err
	}

	cached := make(map[string]*core.EmbeddingEntry, len(all))
	for _, entry := range all {
		cached[entry.ItemID] = entry
	}

	report := &AuditReport{}
	inCatalog := make(map[string]bool, len(catalog))
	for i := range catalog {
		item := &catalog[i]
		id := string(item.ID)
		inCatalog[id] = true

		entry, ok := cached[id]
		switch {
		case !ok || len(entry.Vector) == 0:
			report.Missing = append(report.Missing, id)
		case entry.Model != b.model:
			report.ModelChanged = append(report.ModelChanged, id)
		case entry.Fingerprint != core.IDFromContent(item.EmbeddingText()):
			report.Stale = append(report.Stale, id)
		default:
			report.Fresh++
		}
	}

	for id := range cached {
		if !inCatalog[id] {
			report.Orphaned = append(report.Orphaned, id)
		}
	}

	sort.Strings(report.Missing)
	sort.Strings(report.Stale)
	sort.Strings(report.ModelChanged)
	sort.Strings(report.Orphaned)

	return report, nil
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
