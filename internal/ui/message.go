package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgOperationDone MsgKind = iota
	MsgProgressUpdate
	MsgFavoriteToggled
)

type operationResult struct {
	op    operation
	added int
	err   error
}

type favoriteResult struct {
	id      string
	starred bool
	err     error
}

// operationDoneMsg is the constructor for [MsgOperationDone]
func operationDoneMsg(op operation, added int, err error) Msg {
	return Msg{kind: MsgOperationDone, data: operationResult{op: op, added: added, err: err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(id string, starred bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteResult{id: id, starred: starred, err: err}}
}
