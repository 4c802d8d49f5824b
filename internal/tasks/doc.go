// Package tasks implements the playlist generation pipeline with real-time progress reporting.
//
// # Pipeline
//
// A generation run moves through four steps:
//
//  1. [ResolveStrategy] : pick where candidates come from
//     - Selected artists: each artist's top tracks, in selection order
//     - Otherwise selected genres: a genre search for at most the first three
//     - Otherwise the listener's own top tracks
//
//  2. [Aggregator.Aggregate] : run the strategy's [Source] stages
//     - [RunSources] fetches one source at a time on its own goroutine and emits a [SourceResult] per stage
//     - A failed stage is logged and contributes nothing
//     - An authorization failure aborts the run
//
//  3. [FilterTracks] and [DedupeTracks] : apply the decade and popularity preferences, then drop repeated ids
//
//  4. [Sample] : shuffle the unique candidates and keep the first N
//
// # Add More
//
// [AddMoreStrategy] searches one randomly chosen genre, or falls back to the listener's top tracks.
// Tracks already in the playlist are excluded before sampling.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [PlaylistEngine] implements [Generator] with dependencies on:
//   - [services.CatalogClient] : the track catalog, usually a [services.BreakerCatalog] around Spotify
//   - [EngineOptions] : batch sizes, catalog query parameters and the random source
package tasks
