package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moodmix/internal/server"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin runs the OAuth2 authorization code flow through a local callback server and saves the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.oauth == nil {
		return fmt.Errorf("%w: set client_id and client_secret under [credentials.spotify]", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(ctx, cmd)
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}
	if err := r.oauth.OAuthenticate(ctx, token); err != nil {
		return fmt.Errorf("failed to authenticate with new token: %w", err)
	}

	r.logger.Info("spotify authorization complete")
	r.writePlain("✓ Authorized with Spotify\n")
	if r.configPath != "" {
		r.writePlain("  Token saved to %s\n", r.configPath)
	}

	if r.profile != nil {
		if user, err := r.profile.UserProfile(ctx); err == nil {
			r.writePlain("  Account: %s (%s)\n", user.DisplayName, user.ID)
		}
	}
	return nil
}

// doOAuth opens the browser at the authorization URL and waits for the callback.
func (r *Runner) doOAuth(ctx context.Context, cmd *cli.Command) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.oauth.GetAuthURL(state)
	handler := server.NewOAuthHandler(r.oauth.GetOAuthConfig(), state)
	callback := server.NewCallbackServer(r.config.Server.Host, r.config.Server.Port, handler, shared.WithLogger(r.logger, "component", "oauth"))
	if timeout := cmd.Duration("timeout"); timeout > 0 {
		callback.SetTimeout(timeout)
	}

	if err := callback.Start(); err != nil {
		return nil, err
	}
	r.logger.Infof("started OAuth callback server at %v", callback.Addr())

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	r.writePlain("→ Waiting for authorization...\n")
	return callback.Wait(ctx)
}

// AuthStatus reports whether a token is stored and which account it belongs to.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify

	r.writePlainHeader("Spotify")
	if creds.ClientID == "" {
		r.writePlain("Credentials: ✗ Not configured\n")
		return nil
	}
	r.writePlain("Credentials: ✓ Configured\n")

	token := creds.Token()
	if token == nil {
		r.writePlain("Authorization: ✗ Not authorized (run 'moodmix auth login')\n")
		return nil
	}
	if creds.Expiry != "" {
		r.writePlain("Token expiry: %s\n", creds.Expiry)
	}

	if r.profile == nil {
		r.writePlain("Authorization: ✓ Token stored\n")
		return nil
	}

	user, err := r.profile.UserProfile(ctx)
	if err != nil {
		r.writePlain("Authorization: ✗ %v\n", err)
		return err
	}

	r.writePlain("Authorization: ✓ Authorized\n")
	r.writePlain("Account: %s (%s)\n", user.DisplayName, user.ID)
	if user.Country != "" {
		r.writePlain("Country: %s\n", user.Country)
	}
	if user.Product != "" {
		r.writePlain("Plan: %s\n", user.Product)
	}
	return nil
}
