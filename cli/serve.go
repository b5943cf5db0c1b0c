// ABOUTME: Long-running server subcommands
// ABOUTME: Starts the JSON API for UI collaborators and the interactive TUI
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/harperreed/speedrun/tui"
	"github.com/harperreed/speedrun/web"
)

func serveCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = e.cfg.HTTP.Addr
			}
			if !e.flags.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			server := web.NewServer(e.ws, e.logger, web.Options{
				CORSOrigins: e.cfg.HTTP.CORSOrigins,
				QueueLimit:  e.cfg.Queue.Limit,
			})
			return server.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func tuiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Work the speedrun queue interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(tui.NewModel(e.ws, e.cfg.Queue.Limit), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("failed to run TUI: %w", err)
			}
			return nil
		},
	}
}
