// ABOUTME: Cobra command tree for speedrun
// ABOUTME: Loads configuration, builds the logger and opens the workspace before each command
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/harperreed/speedrun/charm"
	"github.com/harperreed/speedrun/config"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/workspace"
)

type globalFlags struct {
	config  string
	dbPath  string
	verbose bool
	noColor bool
	json    bool
}

// env is shared by every subcommand once the root pre-run has completed.
type env struct {
	flags  globalFlags
	cfg    *config.Config
	logger *log.Logger
	db     *sql.DB
	ws     *workspace.Workspace

	// Test seams: a pinned clock and a badger-backed charm client.
	clock       func() time.Time
	charmClient *charm.Client
}

// NewRootCmd builds the full speedrun command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&env{}, version)
}

func newRootCmd(e *env, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "speedrun",
		Short: "Who to contact next, and why",
		Long: `speedrun ranks CRM records by a configurable Ready-to-Prioritize score and
builds a speedrun queue: an ordered list of who to contact next, when, and
with what action.

Run 'speedrun queue' for today's list or 'speedrun tui' for the interactive view.`,
		Version:            version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  e.setup,
		PersistentPostRunE: e.teardown,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&e.flags.config, "config", "", "Config file path (default: $XDG_CONFIG_HOME/speedrun/config.yaml)")
	pf.StringVar(&e.flags.dbPath, "db-path", "", "Database path (overrides config)")
	pf.BoolVar(&e.flags.verbose, "verbose", false, "Enable debug logging")
	pf.BoolVar(&e.flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&e.flags.json, "json", false, "Output as JSON")

	rootCmd.AddCommand(
		recordCmd(e),
		evaluateCmd(e),
		rankCmd(e),
		queueCmd(e),
		profileCmd(e),
		holidaysCmd(e),
		serveCmd(e),
		mcpCmd(e, version),
		tuiCmd(e),
		vizCmd(e),
		dashboardCmd(e),
	)

	return rootCmd
}

// Execute is the entry point called from main.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd(version).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	if e.flags.noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		SetNoColor(true)
	}

	cfg, err := config.Load(e.flags.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if e.flags.dbPath != "" {
		cfg.DBPath = e.flags.dbPath
	}
	e.cfg = cfg

	e.logger = newLogger(cmd.ErrOrStderr(), e.flags.verbose)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	e.db = database
	e.logger.Debug("opened workspace", "path", cfg.DBPath, "timezone", loc)

	e.ws = &workspace.Workspace{
		DB:       database,
		UserID:   cfg.UserID,
		Location: loc,
		Holidays: cfg.ExtraHolidays(),
		Clock:    e.clock,
	}

	return e.ws.EnsureProfile(cfg.Strategy)
}

func (e *env) teardown(_ *cobra.Command, _ []string) error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}
