// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package internmatch

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/internmatch/ai"
	"github.com/poiesic/internmatch/ai/openai"
	"github.com/poiesic/internmatch/catalog"
	"github.com/poiesic/internmatch/core"
	"github.com/poiesic/internmatch/embedcache"
	"github.com/poiesic/internmatch/rank"
	"github.com/poiesic/internmatch/storage"
	"github.com/poiesic/internmatch/storage/badger"
)

// Recommender ties the catalog, the embedding cache, and the ranker into
// one entry point. The catalog is loaded once at construction; the ranker
// is built lazily on first use so opening a Recommender never hits the
// embedding provider.
type Recommender struct {
	backend  *badger.Backend
	repo     storage.VectorRepository
	embedder ai.Embedder
	builder  *embedcache.Builder
	catalog  []core.Internship
	clock    func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	ranker *rank.Ranker
}

// RecommenderOption configures a Recommender.
type RecommenderOption func(*recommenderOptions)

type recommenderOptions struct {
	aiConfig    *ai.Config
	embedder    ai.Embedder
	progress    io.Writer
	builderOpts []embedcache.Option
	clock       func() time.Time
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) RecommenderOption {
	return func(o *recommenderOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder injects an embedder directly, bypassing provider setup.
// Tests use this with a mock.
func WithEmbedder(embedder ai.Embedder) RecommenderOption {
	return func(o *recommenderOptions) {
		o.embedder = embedder
	}
}

// WithProgress sets where rebuild progress is written.
func WithProgress(w io.Writer) RecommenderOption {
	return func(o *recommenderOptions) {
		o.progress = w
	}
}

// WithRetry sets the retry policy for embedding calls during cache builds.
func WithRetry(maxAttempts int, baseDelay time.Duration) RecommenderOption {
	return func(o *recommenderOptions) {
		o.builderOpts = append(o.builderOpts, embedcache.WithRetry(maxAttempts, baseDelay))
	}
}

// WithClock sets the time source used for deadline recency.
// Default is time.Now. Tests use this to pin "today".
func WithClock(now func() time.Time) RecommenderOption {
	return func(o *recommenderOptions) {
		o.clock = now
	}
}

// NewRecommender opens the catalog and the vector cache. An empty dbPath
// keeps the cache in memory, which means every run embeds from scratch.
func NewRecommender(catalogPath, dbPath string, opts ...RecommenderOption) (*Recommender, error) {
	// Apply options
	options := &recommenderOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(options)
	}

	items, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(dbPath, dbPath == "")
	if err != nil {
		return nil, err
	}

	// Create vector repository
	repo, err := badger.NewVectorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	builderOpts := append([]embedcache.Option{embedcache.WithProgress(options.progress)}, options.builderOpts...)
	builder, err := embedcache.NewBuilder(repo, embedder, options.aiConfig.EmbeddingModel, builderOpts...)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Recommender{
		backend:  backend,
		repo:     repo,
		embedder: embedder,
		builder:  builder,
		catalog:  items,
		clock:    options.clock,
		logger:   slog.Default().With("component", "recommender"),
	}, nil
}

// Rank embeds the query and returns the top-K scored internships with a
// confidence tier. A non-positive topK uses rank.DefaultTopK.
func (r *Recommender) Rank(ctx context.Context, query string, criteria core.FilterCriteria, topK int) (*core.RankingOutcome, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}

	ranker, err := r.ensureRanker(ctx)
	if err != nil {
		return nil, err
	}
	return ranker.Rank(ctx, query, criteria, topK)
}

// Warm builds the embedding cache (and the ranker) ahead of the first
// query, so interactive use never pays the cold-start cost.
func (r *Recommender) Warm(ctx context.Context) error {
	_, err := r.ensureRanker(ctx)
	return err
}

// Rebuild drops the vector cache and embeds the whole catalog again.
func (r *Recommender) Rebuild(ctx context.Context) error {
	if err := r.builder.Rebuild(ctx, r.catalog); err != nil {
		return err
	}

	// The old matrix is stale now; the next query rebuilds the ranker.
	r.mu.Lock()
	r.ranker = nil
	r.mu.Unlock()
	return nil
}

// Audit reports how the cache relates to the current catalog without
// changing anything.
func (r *Recommender) Audit(ctx context.Context) (*embedcache.AuditReport, error) {
	return r.builder.Audit(ctx, r.catalog)
}

// Catalog returns the loaded catalog snapshot.
func (r *Recommender) Catalog() []core.Internship {
	return r.catalog
}

// ensureRanker builds the ranker on first use and caches it.
func (r *Recommender) ensureRanker(ctx context.Context) (*rank.Ranker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ranker != nil {
		return r.ranker, nil
	}

	matrix, err := r.builder.GetOrBuild(ctx, r.catalog)
	if err != nil {
		return nil, err
	}

	rankerOpts := []rank.Option{rank.WithLogger(r.logger)}
	if r.clock != nil {
		rankerOpts = append(rankerOpts, rank.WithClock(r.clock))
	}
	ranker, err := rank.NewRanker(r.catalog, matrix, r.embedder, rankerOpts...)
	if err != nil {
		return nil, err
	}

	r.ranker = ranker
	return ranker, nil
}

func (r *Recommender) Close() error {
	r.builder.Release()

	if err := r.repo.Close(); err != nil {
		r.logger.Error("error closing vector repository", "err", err)
		return err
	}

	if err := r.backend.Close(); err != nil {
		r.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
