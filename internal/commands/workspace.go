package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/activity"
	"github.com/compras-dev/compras/internal/config"
	"github.com/compras-dev/compras/internal/gitops"
	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/log"
	"github.com/compras-dev/compras/internal/model"
	"github.com/compras-dev/compras/internal/report"
	"github.com/compras-dev/compras/internal/session"
	"github.com/compras-dev/compras/internal/storage"
)

// workspace is everything a command needs to reach the data of one root.
type workspace struct {
	root     string
	cfg      *config.Config
	repo     *storage.Repository
	activity *activity.Log
	log      *log.Logger
	period   string
}

func (o *globalOptions) workspace(cmd *cobra.Command) (*workspace, error) {
	root, err := filepath.Abs(o.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, err
	}

	logCfg := log.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if o.verbose {
		logCfg.Level = slog.LevelDebug
	}

	period := strings.TrimSpace(o.period)
	if period == "" {
		period = model.DefaultPeriod(time.Now())
	}
	if err := model.ValidatePeriod(period); err != nil {
		return nil, err
	}

	dataDir := config.Resolve(root, cfg.DataDir)
	return &workspace{
		root:     root,
		cfg:      cfg,
		repo:     storage.NewRepository(dataDir),
		activity: activity.New(dataDir),
		log:      log.New(logCfg),
		period:   period,
	}, nil
}

func (w *workspace) sessionOptions() session.Options {
	opts := session.Options{Log: w.log, Activity: w.activity}
	if w.cfg.Git.AutoCommit && gitops.IsRepo(w.root) {
		opts.Committer = gitops.Committer{
			Dir:    w.root,
			Author: gitops.Author{Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail},
		}
	}
	return opts
}

// open loads the active period. Commands that change data pass create so a
// missing period starts empty, as the first purchase of a month does.
func (w *workspace) open(create bool) (*session.Session, error) {
	s, err := session.Open(w.repo, w.period, w.sessionOptions())
	if create && errors.Is(err, storage.ErrPeriodNotFound) {
		w.log.Info("creating period", "period", w.period)
		return session.Create(w.repo, w.period, w.sessionOptions())
	}
	return s, err
}

func (w *workspace) reportOptions() report.Options {
	return report.Options{Currency: w.cfg.Currency}
}

func (w *workspace) reportsDir() string {
	return config.Resolve(w.root, w.cfg.ReportsDir)
}

// resolveStore accepts either a slug or a display name.
func resolveStore(l *ledger.Ledger, arg string) (string, error) {
	if l.HasStore(arg) {
		return arg, nil
	}
	slug, err := model.Slugify(arg)
	if err == nil && l.HasStore(slug) {
		return slug, nil
	}
	return "", fmt.Errorf("%w: %s", ledger.ErrUnknownStore, arg)
}

// itemIndex converts a 1-based item number from the command line.
func itemIndex(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ledger.ErrItemIndex, arg)
	}
	return n - 1, nil
}
