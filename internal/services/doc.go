// Package services defines the [CatalogClient] capability consumed by the generation pipeline and implements it for Spotify.
//
// # Catalog Interface
//
// The pipeline needs three queries: an artist's top tracks, a genre search and the listener's own top tracks.
// Each returns [models.Track] values already mapped from the provider's wire format.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
// Requests are paced with a [rate.Limiter] so sequential source fetches never burst the Web API.
// An optional refresh callback lets the CLI persist rotated tokens.
//
// # Circuit Breaker
//
// [BreakerCatalog] wraps any CatalogClient with a sony/gobreaker circuit breaker.
// Authorization failures are not counted against the breaker since they are not service faults.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAuthRequired] : missing token, HTTP 401, or failed token refresh
//   - [shared.ErrAPIRequest] : any other non-2xx response or transport failure
//   - [shared.ErrServiceUnavailable] : breaker open
//
// Callers must let ErrAuthRequired propagate; every other error is recoverable per source.
package services
