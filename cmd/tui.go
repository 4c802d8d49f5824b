package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/repositories"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist view over the saved session.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: spotify is not configured", shared.ErrMissingCredentials)
	}

	prefs, err := r.preferences(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	state, sessions, err := r.session()
	if err != nil {
		return err
	}
	favorites, err := r.favoritesStore()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, state, ui.Options{
		Preferences: prefs,
		Favorites:   favorites,
		OnChange: func(tracks []models.Track) error {
			return sessions.Save(repositories.DefaultSession, tracks)
		},
		Logger: fileLogger,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
