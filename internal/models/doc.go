// Package models defines domain entities for moodmix.
//
// The package contains two categories of types:
//
// 1. Value types shared by the generation pipeline and presentation layers:
//   - [Preferences] : listener-declared artists, genres, decades, mood and popularity range
//   - [Track] : catalog track with album release date, cover and popularity
//
// 2. Persistent entities implementing [Model]:
//   - [Favorite] : a starred track kept across sessions
//
// Reference catalogs used for validation and display live alongside the types:
// [AvailableGenres], [AvailableDecades], [PopularityCategories] and [MoodPresets].
//
// [Preferences.Validate] enforces the accepted shape using go-playground/validator struct tags;
// no other shape is accepted by the pipeline.
package models
