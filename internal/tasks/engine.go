package tasks

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Generator produces playlist batches from preferences.
type Generator interface {
	// Generate returns a fresh batch of at most PlaylistSize unique tracks.
	Generate(ctx context.Context, prefs models.Preferences, progress chan<- ProgressUpdate) ([]models.Track, error)

	// Extend returns at most AddMoreSize unique tracks for which exists reports false.
	Extend(ctx context.Context, prefs models.Preferences, exists func(id string) bool, progress chan<- ProgressUpdate) ([]models.Track, error)
}

// EngineOptions configures a [PlaylistEngine]. Zero values fall back to [DefaultEngineOptions].
type EngineOptions struct {
	PlaylistSize    int
	AddMoreSize     int
	MaxGenreSources int
	Source          SourceOptions
	// Rand drives genre picks and sampling. Defaults to a randomly seeded PCG source.
	Rand *rand.Rand
}

// DefaultEngineOptions returns 30 tracks per playlist, 10 per extension and 3 genre sources.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		PlaylistSize:    30,
		AddMoreSize:     10,
		MaxGenreSources: 3,
		Source:          DefaultSourceOptions(),
	}
}

// EngineOptionsFromConfig maps the catalog and generator config sections onto EngineOptions.
func EngineOptionsFromConfig(cfg *shared.Config) EngineOptions {
	return EngineOptions{
		PlaylistSize:    cfg.Generator.PlaylistSize,
		AddMoreSize:     cfg.Generator.AddMoreSize,
		MaxGenreSources: cfg.Generator.MaxGenreSources,
		Source: SourceOptions{
			Market:         cfg.Catalog.Market,
			GenreLimit:     cfg.Catalog.GenreLimit,
			TopTracksLimit: cfg.Catalog.TopTracksLimit,
		},
	}
}

func (o EngineOptions) withDefaults() EngineOptions {
	d := DefaultEngineOptions()
	if o.PlaylistSize <= 0 {
		o.PlaylistSize = d.PlaylistSize
	}
	if o.AddMoreSize <= 0 {
		o.AddMoreSize = d.AddMoreSize
	}
	if o.MaxGenreSources <= 0 {
		o.MaxGenreSources = d.MaxGenreSources
	}
	if o.Source.Market == "" {
		o.Source.Market = d.Source.Market
	}
	if o.Source.GenreLimit <= 0 {
		o.Source.GenreLimit = d.Source.GenreLimit
	}
	if o.Source.TopTracksLimit <= 0 {
		o.Source.TopTracksLimit = d.Source.TopTracksLimit
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// PlaylistEngine runs the aggregate, filter, dedupe and sample pipeline.
type PlaylistEngine struct {
	aggregator *Aggregator
	opts       EngineOptions
	logger     *log.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

var _ Generator = (*PlaylistEngine)(nil)

// NewPlaylistEngine creates a PlaylistEngine over catalog.
func NewPlaylistEngine(catalog services.CatalogClient, opts EngineOptions, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	opts = opts.withDefaults()

	return &PlaylistEngine{
		aggregator: NewAggregator(catalog, opts.Source, logger),
		opts:       opts,
		logger:     logger,
		rng:        opts.Rand,
	}
}

// Options returns the effective options.
func (e *PlaylistEngine) Options() EngineOptions {
	return e.opts
}

// Generate aggregates candidates with the full strategy, then filters, dedupes and samples PlaylistSize tracks.
func (e *PlaylistEngine) Generate(ctx context.Context, prefs models.Preferences, progress chan<- ProgressUpdate) ([]models.Track, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	strategy := ResolveStrategy(prefs, e.opts.MaxGenreSources)
	e.logger.Debug("generating playlist", "strategy", strategy.Kind.String(), "size", e.opts.PlaylistSize)

	candidates, err := e.aggregator.Aggregate(ctx, strategy, progress)
	if err != nil {
		return nil, err
	}

	return e.refine(candidates, prefs, nil, e.opts.PlaylistSize, progress), nil
}

// Extend aggregates candidates with the add-more strategy, drops ids already present,
// then dedupes and samples AddMoreSize tracks.
func (e *PlaylistEngine) Extend(ctx context.Context, prefs models.Preferences, exists func(id string) bool, progress chan<- ProgressUpdate) ([]models.Track, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	strategy := AddMoreStrategy(prefs, e.rng)
	e.mu.Unlock()
	e.logger.Debug("extending playlist", "strategy", strategy.Kind.String(), "genres", strategy.Genres, "size", e.opts.AddMoreSize)

	candidates, err := e.aggregator.Aggregate(ctx, strategy, progress)
	if err != nil {
		return nil, err
	}

	return e.refine(candidates, prefs, exists, e.opts.AddMoreSize, progress), nil
}

func (e *PlaylistEngine) refine(candidates []models.Track, prefs models.Preferences, exists func(string) bool, n int, progress chan<- ProgressUpdate) []models.Track {
	filtered := ExcludeIDs(FilterTracks(candidates, prefs), exists)
	sendProgress(progress, filterTracksUpdate(len(candidates), len(filtered)))

	unique := DedupeTracks(filtered)

	e.mu.Lock()
	picked := Sample(unique, n, e.rng)
	e.mu.Unlock()

	sendProgress(progress, sampleTracksUpdate(len(unique), len(picked)))
	e.logger.Debug("pipeline complete", "candidates", len(candidates), "filtered", len(filtered), "unique", len(unique), "picked", len(picked))
	return picked
}
