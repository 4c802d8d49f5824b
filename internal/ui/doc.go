// Package ui implements the interactive playlist view using bubbletea's Elm architecture.
//
// The (view) [Model] wraps a [playlist.State] and renders it as a bubbles list. Keys map to playlist operations:
//   - g : generate a new playlist from the active preferences
//   - r : refresh (resample) the playlist
//   - a : add more tracks to the end of the playlist
//   - d : remove the selected track
//   - f : toggle the selected track as a favorite
//
// Operations run as tea.Cmds so the view stays responsive. Progress updates arrive on one long-lived channel
// that the model re-arms after every message. Results of superseded requests are ignored.
package ui
