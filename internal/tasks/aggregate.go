package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Aggregator collects candidate tracks for a [SourceStrategy] from a catalog.
type Aggregator struct {
	catalog services.CatalogClient
	opts    SourceOptions
	logger  *log.Logger
}

// NewAggregator creates an Aggregator. A nil logger writes to stderr.
func NewAggregator(catalog services.CatalogClient, opts SourceOptions, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{catalog: catalog, opts: opts, logger: logger}
}

// Aggregate runs every source of strategy in order and concatenates their tracks.
//
// A failing source is logged and contributes nothing; the remaining sources still run.
// An authorization failure stops aggregation and is returned unchanged.
// A single-source run, such as the listener top tracks fallback or an add-more genre pick,
// degrades to an empty candidate list when its source fails. When a run has several
// sources and every one of them fails the result is [shared.ErrGenerationFailed].
func (a *Aggregator) Aggregate(ctx context.Context, strategy SourceStrategy, progress chan<- ProgressUpdate) ([]models.Track, error) {
	sources := strategy.Sources()
	sendProgress(progress, resolveSourcesUpdate(strategy, len(sources)))

	var (
		candidates []models.Track
		failures   []error
		step       int
	)

	for result := range RunSources(ctx, a.catalog, sources, a.opts) {
		step++
		sendProgress(progress, fetchSourceUpdate(step, len(sources), result))

		if result.Failed() {
			if errors.Is(result.Err, shared.ErrAuthRequired) {
				return nil, result.Err
			}

			a.logger.Warn("source fetch failed", "source", result.Source.String(), "error", result.Err)
			failures = append(failures, fmt.Errorf("%w: %s: %w", shared.ErrSourceFetchFailed, result.Source, result.Err))
			continue
		}

		a.logger.Debug("source fetched", "source", result.Source.String(), "tracks", len(result.Tracks), "elapsed", result.Elapsed)
		candidates = append(candidates, result.Tracks...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(sources) > 1 && len(failures) == len(sources) {
		return nil, fmt.Errorf("%w: %w", shared.ErrGenerationFailed, errors.Join(failures...))
	}

	return candidates, nil
}
