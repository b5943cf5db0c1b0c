// ABOUTME: Holiday calendar CLI commands
// ABOUTME: Handles Google OAuth setup, holiday import and listing the effective holiday set
package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/harperreed/speedrun/sync"
)

func holidaysCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the business holiday calendar",
	}
	cmd.AddCommand(holidaysAuthCmd(e), holidaysListCmd(e), holidaysSyncCmd(e))
	return cmd
}

func holidaysListCmd(e *env) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List holidays the calendar skips",
		Long:  "List federal, imported and configured holidays for a year.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = e.ws.Now().In(e.ws.Location).Year()
			}
			cal, err := e.ws.Calendar()
			if err != nil {
				return err
			}
			holidays := cal.Holidays(year)

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, holidays)
			}

			_, _ = fmt.Fprintln(out, StyleHeader.Render(fmt.Sprintf("Holidays %d", year)))
			w := newTable(out)
			for _, h := range holidays {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", h.Date, h.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year to list (default current year)")
	return cmd
}

func holidaysSyncCmd(e *env) *cobra.Command {
	var (
		year       int
		calendarID string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import holidays from Google Calendar",
		Long: `Import the all-day events of a Google holiday calendar for a year. Imported
dates are layered over the federal set. Run 'speedrun holidays auth' first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if year == 0 {
				year = e.ws.Now().In(e.ws.Location).Year()
			}

			config, err := sync.RequireOAuthConfig()
			if err != nil {
				return err
			}
			token, err := sync.LoadToken(sync.TokenPath())
			if err != nil {
				return fmt.Errorf("no authentication token found. Run 'speedrun holidays auth' first: %w", err)
			}

			client, err := sync.NewCalendarClient(ctx, config, token)
			if err != nil {
				return err
			}

			saved, err := sync.ImportHolidays(ctx, e.ws.DB, client, calendarID, year, e.logger)
			if err != nil {
				return fmt.Errorf("holiday sync failed: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d holidays for %d\n", StyleSuccess.Render("✓"), saved, year)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year to import (default current year)")
	cmd.Flags().StringVar(&calendarID, "calendar", sync.USHolidayCalendarID, "Google calendar ID to import from")
	return cmd
}

func holidaysAuthCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only access to Google Calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := sync.RequireOAuthConfig()
			if err != nil {
				return err
			}

			token, err := authorize(cmd.Context(), e, config)
			if err != nil {
				return err
			}
			if err := sync.SaveToken(sync.TokenPath(), token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "\n%s Authenticated successfully\n", StyleSuccess.Render("✓"))
			_, _ = fmt.Fprintf(out, "%s Token saved to %s\n\n", StyleSuccess.Render("✓"), sync.TokenPath())
			_, _ = fmt.Fprintln(out, "Run 'speedrun holidays sync' to import holidays.")
			return nil
		},
	}
}

// authorize runs the browser consent flow against a local callback server.
func authorize(ctx context.Context, e *env, config *oauth2.Config) (*oauth2.Token, error) {
	redirect, err := url.Parse(config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	state := ulid.Make().String()
	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 4)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth state mismatch")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(r.Context(), code)
		if err != nil {
			errCh <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		tokenCh <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	if err := openBrowser(authURL); err != nil {
		e.logger.Debug("could not open browser", "err", err)
	}

	select {
	case token := <-tokenCh:
		return token, nil
	case err := <-errCh:
		return nil, fmt.Errorf("OAuth flow failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// openBrowser attempts to open URL in default browser
func openBrowser(target string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{target}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", target}
	default:
		cmd = "xdg-open"
		args = []string{target}
	}

	return exec.Command(cmd, args...).Start()
}
