package tasks

import "github.com/desertthunder/moodmix/internal/models"

// DedupeBy keeps the first item for each key, preserving input order.
func DedupeBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DedupeTracks removes repeated track ids, keeping first occurrences.
func DedupeTracks(tracks []models.Track) []models.Track {
	return DedupeBy(tracks, models.TrackID)
}
