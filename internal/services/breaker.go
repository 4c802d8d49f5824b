package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSettings configures a [BreakerCatalog].
type BreakerSettings struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before a half-open probe.
	Timeout time.Duration
	Logger  *log.Logger
}

// DefaultBreakerSettings returns settings for the "catalog" breaker.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:        "catalog",
		MaxFailures: 5,
		Timeout:     30 * time.Second,
	}
}

// BreakerCatalog wraps a [CatalogClient] with a circuit breaker so a failing catalog
// stops receiving requests until it has had time to recover.
//
// Authentication failures and cancelled requests do not count against the breaker.
type BreakerCatalog struct {
	client CatalogClient
	cb     *gobreaker.CircuitBreaker[[]models.Track]
	logger *log.Logger
}

var _ CatalogClient = (*BreakerCatalog)(nil)

// NewBreakerCatalog wraps client using settings. Zero-valued fields fall back to [DefaultBreakerSettings].
func NewBreakerCatalog(client CatalogClient, settings BreakerSettings) *BreakerCatalog {
	defaults := DefaultBreakerSettings()
	if settings.Name == "" {
		settings.Name = defaults.Name
	}
	if settings.MaxFailures == 0 {
		settings.MaxFailures = defaults.MaxFailures
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaults.Timeout
	}

	logger := settings.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	b := &BreakerCatalog{client: client, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[[]models.Track](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return b
}

// isBreakerSuccess reports whether err should leave the breaker's failure count untouched.
func isBreakerSuccess(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, shared.ErrAuthRequired):
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// State returns the breaker's current state name.
func (b *BreakerCatalog) State() string {
	return b.cb.State().String()
}

func (b *BreakerCatalog) execute(op string, fn func() ([]models.Track, error)) ([]models.Track, error) {
	tracks, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Debug("catalog request rejected", "op", op, "state", b.State())
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, op, err)
		}
		return nil, err
	}
	return tracks, nil
}

func (b *BreakerCatalog) ArtistTopTracks(ctx context.Context, artistID, market string) ([]models.Track, error) {
	return b.execute("artist top tracks", func() ([]models.Track, error) {
		return b.client.ArtistTopTracks(ctx, artistID, market)
	})
}

func (b *BreakerCatalog) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	return b.execute("genre search", func() ([]models.Track, error) {
		return b.client.SearchTracksByGenre(ctx, genre, limit)
	})
}

func (b *BreakerCatalog) ListenerTopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	return b.execute("listener top tracks", func() ([]models.Track, error) {
		return b.client.ListenerTopTracks(ctx, limit)
	})
}
