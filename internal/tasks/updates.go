package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a generation run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveSources Phase = iota
	FetchSource
	FilterPhase
	SampleTracks
)

func (p Phase) String() string {
	switch p {
	case ResolveSources:
		return "resolve_sources"
	case FetchSource:
		return "fetch_source"
	case FilterPhase:
		return "filter_tracks"
	case SampleTracks:
		return "sample_tracks"
	default:
		return ""
	}
}

func resolveSourcesUpdate(strategy SourceStrategy, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSources,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Using %s strategy (%d sources)...", strategy.Kind, total),
		Data:    strategy,
	}
}

func fetchSourceUpdate(step, total int, result SourceResult) ProgressUpdate {
	if result.Failed() {
		return ProgressUpdate{
			Phase:   FetchSource,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, result.Source, result.Err),
			Data:    result,
		}
	}
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, result.Source, len(result.Tracks)),
		Data:    result,
	}
}

func filterTracksUpdate(candidates, kept int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterPhase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Filtered %d candidates down to %d", candidates, kept),
	}
}

func sampleTracksUpdate(pool, picked int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SampleTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Picked %d of %d unique tracks", picked, pool),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
