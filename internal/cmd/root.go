package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/turbo/internal/config"
	"github.com/charmbracelet/turbo/internal/db"
	"github.com/charmbracelet/turbo/internal/log"
	"github.com/charmbracelet/turbo/internal/scroller"
	termutil "github.com/charmbracelet/turbo/internal/term"
	"github.com/charmbracelet/turbo/internal/tui"
	"github.com/charmbracelet/turbo/internal/tui/util"
	"github.com/charmbracelet/turbo/internal/update"
	"github.com/charmbracelet/turbo/internal/version"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "Custom turbo data directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().Bool("no-persist", false, "Keep measured heights in memory only")

	rootCmd.AddCommand(
		dirsCmd,
		heightsCmd,
		schemaCmd,
		simulateCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "turbo",
	Short: "Scroll through long lists of variable-height items",
	Long: heredoc.Doc(`
		Turbo windows long lists whose items only reveal their height once drawn.
		It shows a feed of markdown posts and draws only the posts around the
		viewport, with spacers standing in for everything else. Measured heights
		are kept in the data directory so the next run lays the feed out right
		away.
	`),
	Example: heredoc.Doc(`
		# Run the interactive feed
		turbo

		# Run with debug logging
		turbo -d

		# Run with debug logging in a specific directory
		turbo -d -c /path/to/project

		# Run with custom data directory
		turbo -D /path/to/custom/.turbo

		# Scroll through a simulated list without a terminal
		turbo simulate --steps 500

		# Print version
		turbo -v
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupAppWithProgressBar(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		var env uv.Environ = os.Environ()
		ui := tui.New(app.cfg, app.store)
		ui.QueryVersion = shouldQueryTerminalVersion(env)

		program := tea.NewProgram(
			ui,
			tea.WithEnvironment(env),
			tea.WithContext(cmd.Context()),
			tea.WithFilter(tui.MouseEventFilter))
		app.watchConfig(program)
		if shouldCheckForUpdates() {
			go checkForUpdates(cmd.Context(), program)
		}

		_, err = program.Run()
		ui.Close()
		if err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("turbo crashed: %w", err)
		}
		return nil
	},
}

var logo = lipgloss.NewStyle().Foreground(charmtone.Charple).SetString(`
 ▀█▀ █ █ █▀▄ █▀▄ █▀█
  █  █▄█ █▀▄ █▄█ █▄█
`)

// copied from cobra:
const defaultVersionTemplate = `{{with .DisplayName}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`

func Execute() {
	// Cobra has no hook for printing the version, so the colored logo is
	// rendered for the terminal up front and baked into the template.
	if term.IsTerminal(os.Stdout.Fd()) {
		var b bytes.Buffer
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		w.Forward = &b
		_, _ = w.WriteString(logo.String())
		rootCmd.SetVersionTemplate(b.String() + "\n" + defaultVersionTemplate)
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// app holds what the interactive demo needs beyond the UI itself.
type app struct {
	cfg      *config.Config
	store    scroller.HeightStore[string]
	reloader *config.HotReloader
	close    []func() error
}

func setupAppWithProgressBar(cmd *cobra.Command) (*app, error) {
	if termutil.SupportsProgressBar() {
		_, _ = fmt.Fprintf(os.Stderr, ansi.SetIndeterminateProgressBar)
		defer func() { _, _ = fmt.Fprintf(os.Stderr, ansi.ResetProgressBar) }()
	}

	return setupApp(cmd)
}

// setupApp loads the configuration and opens the height store.
func setupApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	noPersist, _ := cmd.Flags().GetBool("no-persist")
	if noPersist || !cfg.Scroller.Persist() {
		slog.Debug("Height persistence disabled")
		return a, nil
	}

	ctx := cmd.Context()
	// Connect to DB; this will also run migrations.
	conn, err := db.Connect(ctx, cfg.Options.DataDirectory)
	if err != nil {
		return nil, err
	}
	a.close = append(a.close, conn.Close)

	store, err := db.NewHeightStore(ctx, conn)
	if err != nil {
		a.Shutdown()
		return nil, err
	}
	// The store closes its statements before the connection goes.
	a.close = append([]func() error{store.Close}, a.close...)
	a.store = store
	return a, nil
}

// loadConfig resolves the working directory, loads the configuration into
// the default manager and creates the data directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Init(cwd, dataDir, debug)
	if err != nil {
		return nil, err
	}

	if err := createDotTurboDir(cfg.Options.DataDirectory); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchConfig pushes scroller settings into program whenever the project
// configuration changes. Failing to watch only loses hot reloading.
func (a *app) watchConfig(program *tea.Program) {
	hr, err := config.NewHotReloader(config.Manager(), config.ProjectConfigPath(a.cfg.WorkingDir()))
	if err != nil {
		slog.Warn("Failed to create configuration watcher", "error", err)
		return
	}
	hr.AddCallback(func(c *config.Config) error {
		program.Send(tui.ConfigReloadedMsg{Scroller: c.Scroller})
		return nil
	})
	if err := hr.Start(); err != nil {
		slog.Warn("Failed to watch configuration", "error", err)
		_ = hr.Stop()
		return
	}
	a.reloader = hr
}

// Shutdown stops watching the configuration and closes the height store.
func (a *app) Shutdown() {
	var errs []error
	if a.reloader != nil {
		errs = append(errs, a.reloader.Stop())
	}
	for _, fn := range a.close {
		errs = append(errs, fn())
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("Failed to shut down cleanly", "error", err)
	}
}

func shouldCheckForUpdates() bool {
	if v, _ := strconv.ParseBool(os.Getenv("TURBO_DISABLE_UPDATE_CHECK")); v {
		return false
	}
	return !update.Info{Current: version.Version}.IsDevelopment()
}

// checkForUpdates shows a notice in the status bar when a newer release is
// out.
func checkForUpdates(ctx context.Context, program *tea.Program) {
	defer log.RecoverPanic("cmd.checkForUpdates", nil)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	info, err := update.Check(ctx, version.Version, update.Default)
	if err != nil {
		slog.Debug("Failed to check for updates", "error", err)
		return
	}
	if notice := info.Notice(); notice != "" {
		program.Send(util.InfoMsg{Type: util.InfoTypeInfo, Msg: notice, TTL: 10 * time.Second})
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

func createDotTurboDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %q %w", dir, err)
	}

	gitIgnorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitIgnorePath, []byte("*\n"), 0o644); err != nil {
			return fmt.Errorf("failed to create .gitignore file: %q %w", gitIgnorePath, err)
		}
	}

	return nil
}

func shouldQueryTerminalVersion(env uv.Environ) bool {
	termType := env.Getenv("TERM")
	termProg, okTermProg := env.LookupEnv("TERM_PROGRAM")
	_, okSSHTTY := env.LookupEnv("SSH_TTY")
	return (!okTermProg && !okSSHTTY) ||
		(!strings.Contains(termProg, "Apple") && !okSSHTTY) ||
		// Terminals that do support XTVERSION.
		strings.Contains(termType, "ghostty") ||
		strings.Contains(termType, "wezterm") ||
		strings.Contains(termType, "alacritty") ||
		strings.Contains(termType, "kitty") ||
		strings.Contains(termType, "rio")
}
