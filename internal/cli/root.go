// Package cli implements the todo command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks a failure caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// session is what a subcommand works with once config is loaded.
type session struct {
	v       *viper.Viper
	cfg     *config.Config
	out     io.Writer
	errw    io.Writer
	log     *log.Logger
	kv      storage.Storage
	store   *store.ItemStore
	view    *ui.Renderer
	d       *app.Dispatcher
	closers []io.Closer
}

func newSession(out, errw io.Writer) *session {
	return &session{v: config.New(), out: out, errw: errw}
}

// newRootCmd builds the command tree around s.
func newRootCmd(s *session) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "todo",
		Short: "A tiny to-do list manager",
		Long: "todo keeps a list of short to-do items, persisted under the \"todoItems\" key\n" +
			"of a file, SQLite or in-memory store.",
		Example: `  todo add "Buy milk"
  todo ls --filter incompleted
  todo done 2
  todo edit 1 Buy oat milk
  todo rm 3
  todo tui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return s.open(configFile, cmd.Name() == "tui")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.out)
	root.SetErr(s.errw)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./tada.yaml or ~/.config/tada/tada.yaml)")
	pf.String("data-dir", ".", "directory holding the data file")
	pf.String("backend", storage.BackendFile, "storage backend: "+strings.Join(storage.Backends(), ", "))
	pf.String("storage-key", model.StorageKey, "storage key the list is saved under")
	pf.String("id-scheme", string(model.IDTimestamp), "id scheme for new items: timestamp, uuid")
	pf.String("theme", "classic", "output theme: "+strings.Join(ui.Themes(), ", "))
	pf.String("color", "auto", "color output: auto, always, never")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json, logfmt")
	pf.String("log-file", "", "append logs to this file instead of stderr")
	for _, name := range []string{"data-dir", "backend", "storage-key", "id-scheme", "theme", "color", "log-level", "log-format", "log-file"} {
		_ = s.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), pf.Lookup(name))
	}

	root.AddCommand(
		newAddCmd(s),
		newListCmd(s),
		newCheckCmd(s, "done", "Mark an item completed", true),
		newCheckCmd(s, "undone", "Mark an item not completed", false),
		newToggleCmd(s),
		newEditCmd(s),
		newRemoveCmd(s),
		newClearCmd(s),
		newTUICmd(s),
	)
	return root
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, out, errw io.Writer) int {
	s := newSession(out, errw)
	root := newRootCmd(s)
	root.SetArgs(args)
	err := root.Execute()
	if cerr := s.close(); err == nil {
		err = cerr
	}
	if err == nil {
		return exitOK
	}
	code := exitCode(err)
	// Empty names were already reported by the store's alert.
	if !errors.Is(err, store.ErrEmptyName) {
		ui.Fail(errw, err.Error())
	}
	if code == exitUsage && strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(errw)
		fmt.Fprint(errw, root.UsageString())
	}
	return code
}

// Execute runs the CLI on the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, store.ErrEmptyName),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrItemCompleted),
		errors.Is(err, model.ErrUnknownFilter),
		strings.HasPrefix(err.Error(), "unknown command"):
		return exitUsage
	}
	return exitError
}

func (s *session) open(configFile string, interactive bool) error {
	cfg, err := config.Load(s.v, configFile)
	if err != nil {
		return err
	}
	s.cfg = cfg

	ui.SetTheme(cfg.Theme)
	ui.SetColorMode(cfg.Color)

	opts := logging.DefaultOptions()
	if cfg.LogLevel != "" {
		opts.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		opts.Format = cfg.LogFormat
	}
	switch {
	case cfg.LogFile != "":
		l, f, err := logging.OpenFile(cfg.LogFile, opts)
		if err != nil {
			return err
		}
		s.log = l
		s.closers = append(s.closers, f)
	case interactive:
		// Bubble Tea owns the terminal.
		s.log = logging.Discard()
	default:
		s.log = logging.New(s.errw, opts)
	}

	ids, err := model.NewIDGenerator(model.IDScheme(cfg.IDScheme))
	if err != nil {
		return err
	}

	kv, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	s.kv = kv
	s.closers = append(s.closers, kv)
	s.log.Debug("storage opened", "backend", cfg.Backend, "data_dir", cfg.DataDir, "config", cfg.ConfigFile)

	s.view = ui.NewRenderer(s.out, s.errw)
	s.store = store.New(kv, s.view, store.Options{Key: cfg.StorageKey, IDs: ids, Logger: s.log})
	s.d = app.NewDispatcher(s.store, s.log)
	return s.store.Load()
}

func (s *session) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
