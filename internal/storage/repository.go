package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

const (
	filePrefix = "compras_"
	fileSuffix = ".json"
)

// Repository errors.
var (
	ErrPeriodNotFound = errors.New("period not found")
	ErrPeriodExists   = errors.New("period already exists")
)

// Repository stores one JSON file per period in a directory.
type Repository struct {
	dir string
}

// NewRepository creates a Repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the data directory.
func (r *Repository) Dir() string { return r.dir }

// FileName returns the file name used for period: "compras_<period>.json".
func FileName(period string) string {
	return filePrefix + period + fileSuffix
}

// Path returns the full path of period's file.
func (r *Repository) Path(period string) string {
	return filepath.Join(r.dir, FileName(period))
}

// Exists reports whether period has a file.
func (r *Repository) Exists(period string) bool {
	_, err := os.Stat(r.Path(period))
	return err == nil
}

// Periods lists every period with a file, sorted by name.
func (r *Repository) Periods() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("listing periods: %w", err)
	}
	periods := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		periods = append(periods, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	}
	sort.Strings(periods)
	return periods, nil
}

// Load reads period's file.
func (r *Repository) Load(period string) (*ledger.Ledger, error) {
	if err := model.ValidatePeriod(period); err != nil {
		return nil, err
	}
	path := r.Path(period)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPeriodNotFound, period)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	l, err := Decode(period, data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return l, nil
}

// Save writes the whole ledger to its period's file.
func (r *Repository) Save(l *ledger.Ledger) error {
	if err := model.ValidatePeriod(l.Period()); err != nil {
		return err
	}
	return r.write(r.Path(l.Period()), l)
}

// SaveAs writes l under another period name without touching the original
// file. It refuses to replace an existing file unless overwrite is set.
func (r *Repository) SaveAs(l *ledger.Ledger, period string, overwrite bool) (string, error) {
	period = strings.TrimSpace(period)
	if err := model.ValidatePeriod(period); err != nil {
		return "", err
	}
	if r.Exists(period) && !overwrite {
		return "", fmt.Errorf("%w: %s", ErrPeriodExists, period)
	}
	copied := ledger.Restore(period, l.Stores(), itemsOf(l))
	path := r.Path(period)
	if err := r.write(path, copied); err != nil {
		return "", err
	}
	return path, nil
}

// PurgeResult reports the outcome of PurgeStore.
type PurgeResult struct {
	Modified []string
	Failed   map[string]error
}

// PurgeStore removes slug from every period file except skip. A file that
// cannot be read or written is recorded in Failed and the others are still
// processed.
func (r *Repository) PurgeStore(slug, skip string) (PurgeResult, error) {
	res := PurgeResult{Failed: make(map[string]error)}
	periods, err := r.Periods()
	if err != nil {
		return res, err
	}
	for _, p := range periods {
		if p == skip {
			continue
		}
		l, err := r.Load(p)
		if err != nil {
			res.Failed[FileName(p)] = err
			continue
		}
		if !l.HasStore(slug) {
			continue
		}
		if err := l.RemoveStore(slug); err != nil {
			res.Failed[FileName(p)] = err
			continue
		}
		if err := r.Save(l); err != nil {
			res.Failed[FileName(p)] = err
			continue
		}
		res.Modified = append(res.Modified, FileName(p))
	}
	return res, nil
}

func (r *Repository) write(path string, l *ledger.Ledger) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func itemsOf(l *ledger.Ledger) map[string][]model.LineItem {
	items := make(map[string][]model.LineItem)
	for _, slug := range l.Stores() {
		items[slug] = l.Items(slug)
	}
	return items
}
