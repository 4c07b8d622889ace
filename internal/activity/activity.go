package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names a ledger mutation.
type Action string

const (
	ActionCreatePeriod Action = "create_period"
	ActionSaveAs       Action = "save_as"
	ActionAddStore     Action = "add_store"
	ActionRemoveStore  Action = "remove_store"
	ActionPurgeStore   Action = "purge_store"
	ActionAddItem      Action = "add_item"
	ActionEditItem     Action = "edit_item"
	ActionRemoveItem   Action = "remove_item"
	ActionImport       Action = "import"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Period    string
	Action    Action
	Store     string
	Product   string
	Details   string
}

// Header is the CSV header of the activity log.
const Header = "timestamp,period,action,store,product,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "actividad.csv"
	colTimestamp = 0
	colPeriod    = 1
	colAction    = 2
	colStore     = 3
	colProduct   = 4
	colDetails   = 5
)

// Log appends entries to <dir>/logs/actividad.csv.
type Log struct {
	path string
}

// New returns a Log stored under dataDir.
func New(dataDir string) *Log {
	return &Log{path: filepath.Join(dataDir, logDir, logFile)}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colPeriod] = e.Period
	row[colAction] = string(e.Action)
	row[colStore] = e.Store
	row[colProduct] = e.Product
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	return Entry{
		Timestamp: ts,
		Period:    record[colPeriod],
		Action:    Action(record[colAction]),
		Store:     record[colStore],
		Product:   record[colProduct],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries, creating the file and header if needed.
func (l *Log) Append(entries ...Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(l.path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all logged entries, or nil if nothing was logged yet.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
