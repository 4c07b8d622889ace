// Package session holds the active period and persists every change to it.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/compras-dev/compras/internal/activity"
	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/log"
	"github.com/compras-dev/compras/internal/model"
	"github.com/compras-dev/compras/internal/storage"
)

// ErrSaveFailed wraps persistence errors. The in-memory change that
// triggered the save is kept.
var ErrSaveFailed = errors.New("save failed")

// Committer records a snapshot of the data directory.
type Committer interface {
	Commit(message string) (string, error)
}

// Options configures a Session. Zero values disable the optional parts.
type Options struct {
	Log       *log.Logger
	Activity  *activity.Log
	Committer Committer
	Now       func() time.Time
}

// Session is the single active period.
type Session struct {
	repo   *storage.Repository
	ledger *ledger.Ledger
	opts   Options
}

func newSession(repo *storage.Repository, l *ledger.Ledger, opts Options) *Session {
	if opts.Log == nil {
		opts.Log = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Log = opts.Log.WithComponent("session")
	return &Session{repo: repo, ledger: l, opts: opts}
}

// Open loads an existing period.
func Open(repo *storage.Repository, period string, opts Options) (*Session, error) {
	l, err := repo.Load(period)
	if err != nil {
		return nil, err
	}
	s := newSession(repo, l, opts)
	s.opts.Log.Debug("period loaded", "period", period, "stores", len(l.Stores()), "items", l.ItemCount())
	return s, nil
}

// Create starts an empty period and writes its file.
func Create(repo *storage.Repository, period string, opts Options) (*Session, error) {
	period = strings.TrimSpace(period)
	if err := model.ValidatePeriod(period); err != nil {
		return nil, err
	}
	if repo.Exists(period) {
		return nil, fmt.Errorf("%w: %s", storage.ErrPeriodExists, period)
	}
	s := newSession(repo, ledger.New(period), opts)
	if err := s.persist(s.entry(activity.ActionCreatePeriod, "", "", "")); err != nil {
		return nil, err
	}
	return s, nil
}

// Ledger exposes the active ledger for reading.
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

// Period returns the active period label.
func (s *Session) Period() string { return s.ledger.Period() }

// AddStore registers a store and saves.
func (s *Session) AddStore(name string) (string, error) {
	slug, err := s.ledger.AddStore(name)
	if err != nil {
		return slug, err
	}
	return slug, s.persist(s.entry(activity.ActionAddStore, slug, "", name))
}

// RemoveStore drops a store from the active period and saves. With
// everywhere set, the store is also removed from every other period file.
func (s *Session) RemoveStore(slug string, everywhere bool) (storage.PurgeResult, error) {
	var res storage.PurgeResult
	if err := s.ledger.RemoveStore(slug); err != nil {
		return res, err
	}
	if err := s.persist(s.entry(activity.ActionRemoveStore, slug, "", "")); err != nil {
		return res, err
	}
	if !everywhere {
		return res, nil
	}

	res, err := s.repo.PurgeStore(slug, s.Period())
	if err != nil {
		return res, err
	}
	for file, ferr := range res.Failed {
		s.opts.Log.Warn("store not removed from file", "store", slug, "file", file, "error", ferr)
	}
	details := fmt.Sprintf("%d files modified, %d failed", len(res.Modified), len(res.Failed))
	s.record(s.entry(activity.ActionPurgeStore, slug, "", details))
	return res, nil
}

// AddItem inserts an item, resolving duplicates with r, and saves unless
// the insertion was cancelled.
func (s *Session) AddItem(slug string, item model.LineItem, r ledger.Resolver) (ledger.Outcome, error) {
	out, err := s.ledger.AddItem(slug, item, r)
	if err != nil || out.Action == ledger.Cancel {
		return out, err
	}
	return out, s.persist(s.itemEntry(activity.ActionAddItem, slug, out))
}

// AddItems inserts a batch of items and saves once at the end. Outcomes are
// returned for the items processed before any error.
func (s *Session) AddItems(slug string, items []model.LineItem, r ledger.Resolver) ([]ledger.Outcome, error) {
	outcomes := make([]ledger.Outcome, 0, len(items))
	changed := 0
	for i, it := range items {
		out, err := s.ledger.AddItem(slug, it, r)
		if err != nil {
			if changed > 0 {
				if perr := s.persist(); perr != nil {
					return outcomes, errors.Join(fmt.Errorf("item %d: %w", i+1, err), perr)
				}
			}
			return outcomes, fmt.Errorf("item %d: %w", i+1, err)
		}
		outcomes = append(outcomes, out)
		if out.Action != ledger.Cancel {
			changed++
		}
	}
	if changed == 0 {
		return outcomes, nil
	}
	details := fmt.Sprintf("%d of %d items applied", changed, len(items))
	return outcomes, s.persist(s.entry(activity.ActionImport, slug, "", details))
}

// EditItem replaces the item at index and saves.
func (s *Session) EditItem(slug string, index int, item model.LineItem) error {
	item.Product = strings.TrimSpace(item.Product)
	if err := s.ledger.UpdateItem(slug, index, item); err != nil {
		return err
	}
	return s.persist(s.itemEntry(activity.ActionEditItem, slug, ledger.Outcome{Index: index, Item: item}))
}

// RemoveItem deletes the item at index and saves.
func (s *Session) RemoveItem(slug string, index int) (model.LineItem, error) {
	removed, err := s.ledger.RemoveItem(slug, index)
	if err != nil {
		return removed, err
	}
	return removed, s.persist(s.itemEntry(activity.ActionRemoveItem, slug, ledger.Outcome{Index: index, Item: removed}))
}

// Save writes the active period on demand.
func (s *Session) Save() error {
	return s.persist()
}

// SaveAs writes a copy of the active period under another name. The active
// period and its file are unchanged.
func (s *Session) SaveAs(period string, overwrite bool) (string, error) {
	path, err := s.repo.SaveAs(s.ledger, period, overwrite)
	if err != nil {
		return "", err
	}
	s.record(s.entry(activity.ActionSaveAs, "", "", strings.TrimSpace(period)))
	return path, nil
}

func (s *Session) persist(entries ...activity.Entry) error {
	if err := s.repo.Save(s.ledger); err != nil {
		s.opts.Log.Error("saving period", "period", s.Period(), "error", err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.opts.Log.Debug("period saved", "period", s.Period(), "path", s.repo.Path(s.Period()))
	s.record(entries...)
	return nil
}

// record appends to the activity log and commits. Failures here are logged
// and do not undo the saved change.
func (s *Session) record(entries ...activity.Entry) {
	if len(entries) == 0 {
		return
	}
	if s.opts.Activity != nil {
		if err := s.opts.Activity.Append(entries...); err != nil {
			s.opts.Log.Warn("writing activity log", "error", err)
		}
	}
	if s.opts.Committer != nil {
		e := entries[0]
		msg := fmt.Sprintf("%s: %s", e.Action, s.Period())
		if e.Store != "" {
			msg += " " + e.Store
		}
		if e.Product != "" {
			msg += " " + e.Product
		}
		hash, err := s.opts.Committer.Commit(msg)
		if err != nil {
			s.opts.Log.Warn("committing data", "error", err)
		} else if hash != "" {
			s.opts.Log.Debug("data committed", "commit", hash)
		}
	}
}

func (s *Session) entry(action activity.Action, store, product, details string) activity.Entry {
	return activity.Entry{
		Timestamp: s.opts.Now(),
		Period:    s.Period(),
		Action:    action,
		Store:     store,
		Product:   product,
		Details:   details,
	}
}

func (s *Session) itemEntry(action activity.Action, store string, out ledger.Outcome) activity.Entry {
	details := fmt.Sprintf("#%d %d x %s", out.Index+1, out.Item.Quantity, out.Item.UnitPrice.StringFixed(2))
	if out.Action != "" && out.Action != ledger.Added {
		details += " (" + string(out.Action) + ")"
	}
	return s.entry(action, store, out.Item.Product, details)
}
