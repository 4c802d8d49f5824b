package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/playlist"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
)

type operation int

const (
	opGenerate operation = iota
	opRefresh
	opAddMore
)

func (o operation) String() string {
	switch o {
	case opGenerate:
		return "generate"
	case opRefresh:
		return "refresh"
	case opAddMore:
		return "add more"
	default:
		return ""
	}
}

// Favorites is the favorite set the view marks and toggles.
type Favorites interface {
	Toggle(track models.Track) (bool, error)
	IsFavorite(id string) bool
}

// Options carries the model's collaborators.
type Options struct {
	Preferences models.Preferences
	Favorites   Favorites
	// OnChange is called with the playlist after every successful change.
	OnChange func(tracks []models.Track) error
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	state     *playlist.State
	prefs     models.Preferences
	favorites Favorites
	onChange  func([]models.Track) error
	logger    *log.Logger

	width    int
	height   int
	list     list.Model
	progress chan tasks.ProgressUpdate
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model over state.
func NewModel(ctx context.Context, state *playlist.State, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "moodmix"
	l.SetShowHelp(false)

	m := &Model{
		ctx:       ctx,
		state:     state,
		prefs:     opts.Preferences,
		favorites: opts.Favorites,
		onChange:  opts.OnChange,
		logger:    logger,
		list:      l,
		progress:  make(chan tasks.ProgressUpdate, 50),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.syncItems()
	return m
}

// Init starts listening for progress and generates a playlist when none was restored.
func (m *Model) Init() tea.Cmd {
	if m.state.Len() == 0 {
		return tea.Batch(m.waitForProgress(), m.run(opGenerate))
	}
	return m.waitForProgress()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.generate):
		return m, m.run(opGenerate)
	case key.Matches(msg, m.keys.refresh):
		return m, m.run(opRefresh)
	case key.Matches(msg, m.keys.addMore):
		return m, m.run(opAddMore)
	case key.Matches(msg, m.keys.remove):
		if track, ok := m.selected(); ok && m.state.Remove(track.ID) {
			m.status = fmt.Sprintf("Removed %s", track.Name)
			m.syncItems()
			m.persist()
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if track, ok := m.selected(); ok {
			return m, m.toggleFavorite(track)
		}
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.status = update.Message
		return m, m.waitForProgress()

	case MsgOperationDone:
		result := msg.data.(operationResult)
		if errors.Is(result.err, shared.ErrSuperseded) {
			return m, nil
		}
		if result.err != nil {
			m.err = result.err
			m.status = ""
			m.logger.Error("playlist operation failed", "op", result.op, "error", result.err)
			return m, nil
		}

		m.err = nil
		switch result.op {
		case opAddMore:
			m.status = fmt.Sprintf("Added %d tracks", result.added)
		default:
			m.status = fmt.Sprintf("Generated %d tracks", m.state.Len())
		}
		m.syncItems()
		m.persist()
		return m, nil

	case MsgFavoriteToggled:
		result := msg.data.(favoriteResult)
		if result.err != nil {
			m.err = result.err
			return m, nil
		}
		if result.starred {
			m.status = "Added to favorites"
		} else {
			m.status = "Removed from favorites"
		}
		m.syncItems()
		return m, nil
	}
	return m, nil
}

// View renders the playlist with a status line and help.
func (m *Model) View() string {
	header := styles.title.Render(fmt.Sprintf("moodmix · %d tracks · %s", m.state.Len(), m.state.Mode()))

	var status string
	switch {
	case m.err != nil:
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.state.Mode() == playlist.Generating:
		status = styles.warn.Render(m.status)
	case m.status != "":
		status = styles.ok.Render(m.status)
	}

	body := m.list.View()
	if m.state.Len() == 0 && m.state.Mode() != playlist.Generating {
		body = styles.help.Render("No tracks yet. Press g to generate a playlist.")
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", header, body, status, m.help.View(m.keys))
}

func (m *Model) run(op operation) tea.Cmd {
	m.err = nil
	m.status = fmt.Sprintf("Running %s...", op)
	prefs := m.prefs

	return func() tea.Msg {
		switch op {
		case opAddMore:
			added, err := m.state.AddMore(m.ctx, prefs, m.progress)
			return operationDoneMsg(op, added, err)
		case opRefresh:
			return operationDoneMsg(op, 0, m.state.Refresh(m.ctx, prefs, m.progress))
		default:
			return operationDoneMsg(op, 0, m.state.Generate(m.ctx, prefs, m.progress))
		}
	}
}

func (m *Model) toggleFavorite(track models.Track) tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	return func() tea.Msg {
		starred, err := m.favorites.Toggle(track)
		return favoriteToggledMsg(track.ID, starred, err)
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case update := <-m.progress:
			return progressUpdateMsg(update)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) selected() (models.Track, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return models.Track{}, false
	}
	return item.track, true
}

func (m *Model) syncItems() {
	var isFavorite func(string) bool
	if m.favorites != nil {
		isFavorite = m.favorites.IsFavorite
	}
	m.list.SetItems(trackItems(m.state.Tracks(), isFavorite))
}

func (m *Model) persist() {
	if m.onChange == nil {
		return
	}
	if err := m.onChange(m.state.Tracks()); err != nil {
		m.logger.Warn("failed to save session", "error", err)
	}
}
