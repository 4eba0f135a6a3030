package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"tunebridge/internal/server"
	"tunebridge/internal/shared"
	"tunebridge/internal/ui"
)

// AuthLogin runs the Google OAuth2 authorization flow and saves the token file.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	listenAddr := cmd.String("listen")

	if r.tokens == nil {
		return fmt.Errorf("%w: token store not initialized", shared.ErrMissingCredentials)
	}

	config := r.tokens.OAuthConfig()
	if config.ClientID == "" || config.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret must be set in config.toml or GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET", shared.ErrMissingCredentials)
	}

	config.RedirectURL = fmt.Sprintf("http://%s/callback", listenAddr)

	state := shared.GenerateID()
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))

	oauthHandler := server.NewOAuthHandler(config, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Google authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	if err := r.tokens.Save(result.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.writePlainln("%s", ui.OK("✓ Authorization successful"))
	r.writePlain("Token saved to %s\n", r.config.Credentials.YouTube.TokenFile)

	return nil
}

// AuthStatus checks the stored token and catalog availability.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if err := r.tokens.Load(); err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			r.writePlain("%s\n", ui.Err("✗ Token file has no refresh token, run 'tunebridge auth login'"))
			return nil
		}
		r.writePlain("%s\n", ui.Err(fmt.Sprintf("✗ No stored token: %v", err)))
		return nil
	}
	r.writePlain("%s\n", ui.OK("✓ Token file loaded"))

	if err := r.catalog.Health(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	r.writePlain("%s\n", ui.OK("✓ Catalog is healthy"))

	return nil
}
