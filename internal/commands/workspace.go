package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledger/internal/config"
	"github.com/cleared-dev/ledger/internal/currency"
	"github.com/cleared-dev/ledger/internal/gitops"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/store"
	"github.com/cleared-dev/ledger/internal/store/boltstore"
	"github.com/cleared-dev/ledger/internal/store/csvstore"
)

type globalOptions struct {
	dir     string
	envFile string
}

// workspace is an opened ledger directory.
type workspace struct {
	dir    string
	cfg    *config.Config
	store  store.Store
	svc    *journal.Service
	logger *slog.Logger
	money  currency.Formatter
	brief  currency.Formatter
}

// open loads ledger.yaml and .env, then opens the configured store.
// logOut receives structured logs; nil discards them.
func open(opts *globalOptions, logOut io.Writer) (*workspace, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := config.LoadEnv(opts.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("%w (run 'ledger init' first)", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	money, err := currency.New(cfg.Currency.Code, cfg.Currency.ReportDecimals)
	if err != nil {
		return nil, err
	}
	brief, err := currency.New(cfg.Currency.Code, cfg.Currency.SummaryDecimals)
	if err != nil {
		return nil, err
	}

	if logOut == nil {
		logOut = io.Discard
	}
	logger := newLogger(logOut, cfg.Log.Level)

	st, err := openStore(dir, cfg.Store)
	if err != nil {
		return nil, err
	}
	svc, err := journal.NewService(st, journal.WithLogger(logger))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &workspace{
		dir:    dir,
		cfg:    cfg,
		store:  st,
		svc:    svc,
		logger: logger,
		money:  money,
		brief:  brief,
	}, nil
}

func openStore(dir string, sc config.StoreConfig) (store.Store, error) {
	path := sc.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	switch sc.Driver {
	case config.DriverBolt:
		return boltstore.Open(path)
	default:
		return csvstore.Open(path)
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// commit records a change in git when the CSV store is tracked. Failures
// are warnings; the ledger files are already written.
func (w *workspace) commit(message string) {
	if !w.cfg.Git.AutoCommit || w.cfg.Store.Driver != config.DriverCSV || !gitops.IsRepo(w.dir) {
		return
	}
	root := w.cfg.Store.Path
	if filepath.IsAbs(root) {
		rel, err := filepath.Rel(w.dir, root)
		if err != nil || strings.HasPrefix(rel, "..") {
			return
		}
		root = rel
	}
	var paths []string
	for _, p := range []string{"accounts", "journal"} {
		p = filepath.Join(root, p)
		if _, err := os.Stat(filepath.Join(w.dir, p)); err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}

	c := gitops.Committer{Dir: w.dir, Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail}
	if _, err := c.Commit(message, paths...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: git commit failed: %v\n", err)
	}
}
