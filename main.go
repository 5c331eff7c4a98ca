package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/focus"
	"github.com/sadopc/focusflow/internal/notify"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tui"
	"github.com/spf13/cobra"
)

const appName = "focusflow"

var version = "dev"

type program interface {
	Run() (tea.Model, error)
}

// programFactory is replaced in tests so the TUI path can run headless.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	dbPath     string
	logLevel   string
	mode       string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           appName,
		Short:         "A pomodoro timer with a task ledger",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(f, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "path to sqlite database")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&f.mode, "mode", "", "start in this mode: focus, short or long")

	root.AddCommand(
		newPathsCmd(&f, stdout),
		newStatusCmd(&f, stdout, stderr),
		newExportCmd(&f, stdout, stderr),
		newConfigCmd(&f, stdout),
	)
	return root
}

// resolved is the outcome of flag, config file and default resolution.
type resolved struct {
	cfg        config.Config
	configPath string
}

func resolve(f flags) (resolved, error) {
	configPath := strings.TrimSpace(f.configPath)
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return resolved{}, err
		}
		configPath = p
	}

	dbPath := strings.TrimSpace(f.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		p, err := store.DefaultDBPath()
		if err != nil {
			return resolved{}, err
		}
		dbPath = p
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return resolved{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if strings.TrimSpace(cfg.Log.Path) == "" {
		cfg.Log.Path = filepath.Join(filepath.Dir(cfg.Database.Path), appName+".log")
	}
	if lvl := strings.TrimSpace(f.logLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return resolved{}, err
	}
	return resolved{cfg: cfg, configPath: configPath}, nil
}

// newFileLogger writes logfmt lines to path. The TUI owns the terminal, so
// runtime logs never go to stdout or stderr while it runs.
func newFileLogger(path, level string) (*log.Logger, func() error, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(file, log.Options{
		Level:           lvl,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, file.Close, nil
}

// newConsoleLogger is used by the one-shot subcommands.
func newConsoleLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:     lvl,
		Prefix:    appName,
		Formatter: log.TextFormatter,
	}), nil
}

func buildNotifier(cfg config.Config, logger *log.Logger, bell io.Writer) focus.Notifier {
	var m notify.Multi
	if cfg.Notify.Bell {
		m = append(m, notify.NewBell(bell))
	}
	if cfg.Notify.Log {
		m = append(m, notify.NewLog(logger))
	}
	return m
}

func runTUI(f flags, stderr io.Writer) error {
	var startMode focus.Mode
	if m := strings.TrimSpace(f.mode); m != "" {
		parsed, err := focus.ParseMode(m)
		if err != nil {
			return err
		}
		startMode = parsed
	}

	r, err := resolve(f)
	if err != nil {
		return err
	}
	cfg := r.cfg

	logger, closeLog, err := newFileLogger(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(stderr, "warning: close log file: %v\n", err)
		}
	}()
	logger.Info("starting", "version", version, "config_path", r.configPath, "db_path", cfg.Database.Path)

	s, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.Error("open database failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("close database failed", "err", err)
		}
	}()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	app := tui.NewApp(tui.Options{
		Store:     s,
		Notifier:  buildNotifier(cfg, logger, stderr),
		NewID:     uuid.NewString,
		Logger:    logger,
		Defaults:  cfg.FocusDurations(),
		Theme:     cfg.UI.Theme,
		StartMode: startMode,
		ExportDir: home,
		Paths: map[string]string{
			"Config":   r.configPath,
			"Database": cfg.Database.Path,
			"Log":      cfg.Log.Path,
		},
	})

	if _, err := programFactory(app).Run(); err != nil {
		logger.Error("tui exited with error", "err", err)
		return err
	}
	logger.Info("shutdown")
	return nil
}

// openSession opens the store and a headless focus session for the one-shot
// subcommands.
func openSession(f flags, stderr io.Writer) (*store.Store, *focus.Session, resolved, error) {
	r, err := resolve(f)
	if err != nil {
		return nil, nil, resolved{}, err
	}
	logger, err := newConsoleLogger(stderr, r.cfg.Log.Level)
	if err != nil {
		return nil, nil, resolved{}, err
	}
	s, err := store.New(r.cfg.Database.Path)
	if err != nil {
		return nil, nil, resolved{}, fmt.Errorf("open database: %w", err)
	}
	session := focus.Open(focus.Options{
		KV:       s,
		NewID:    uuid.NewString,
		Recorder: s,
		Logger:   logger,
		Defaults: r.cfg.FocusDurations(),
	})
	return s, session, r, nil
}

func newPathsCmd(f *flags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, database and log paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := resolve(*f)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "config: %s\n", r.configPath)
			fmt.Fprintf(stdout, "db: %s\n", r.cfg.Database.Path)
			fmt.Fprintf(stdout, "log: %s\n", r.cfg.Log.Path)
			return nil
		},
	}
}

func newStatusCmd(f *flags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print today's count, durations and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, session, _, err := openSession(*f, stderr)
			if err != nil {
				return err
			}
			defer s.Close()
			writeStatus(stdout, session)
			return nil
		},
	}
}

func writeStatus(w io.Writer, session *focus.Session) {
	counter := session.Daily.Counter()
	d := session.Timer.Durations()
	fmt.Fprintf(w, "today: %s, %d pomodoros, %d focus minutes\n", counter.Date, counter.Count, session.FocusMinutesToday())
	fmt.Fprintf(w, "durations: focus %dm, short break %dm, long break %dm\n", d.Focus, d.ShortBreak, d.LongBreak)

	tasks := session.Ledger.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(w, "tasks: none")
		return
	}
	fmt.Fprintf(w, "tasks: %d (%d done)\n", len(tasks), session.Ledger.CompletedCount())
	for _, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		fmt.Fprintf(w, "  [%s] %s (%d)\n", check, t.Name, t.PomodoroCount)
	}
}

func newExportCmd(f *flags, stdout, stderr io.Writer) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and focus session history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fm, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			s, session, _, err := openSession(*f, stderr)
			if err != nil {
				return err
			}
			defer s.Close()

			sessions, err := s.ListSessions(store.SessionFilter{})
			if err != nil {
				return err
			}
			path := out
			if strings.TrimSpace(path) == "" {
				path = export.DefaultPath(".", fm, time.Now())
			}
			d := export.Data{
				Sessions: sessions,
				Tasks:    session.Ledger.Tasks(),
				Today:    session.Daily.Counter(),
			}
			if err := export.Write(fm, d, path); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "exported %d sessions and %d tasks to %s\n", len(sessions), len(d.Tasks), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "export format: csv, json or yaml")
	cmd.Flags().StringVar(&out, "out", "", "output file (default ./focusflow-export-<date>.<format>)")
	return cmd
}

func newConfigCmd(f *flags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := resolve(*f)
			if err != nil {
				return err
			}
			data, err := r.cfg.Encode()
			if err != nil {
				return err
			}
			_, err = stdout.Write(data)
			return err
		},
	}
}
