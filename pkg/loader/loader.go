// CLAUDE:SUMMARY Reads every daily report, classifies each row's country and state, and aggregates stats into a Catalog.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/classify"
	"github.com/hazyhaar/covidgraph/pkg/region"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParsePolicy decides what a row that fails to parse costs.
type ParsePolicy string

const (
	// SkipRow drops the offending row and keeps the rest of the file.
	SkipRow ParsePolicy = "skip_row"
	// SkipFile drops the whole file.
	SkipFile ParsePolicy = "skip_file"
)

// ParseParsePolicy accepts "skip_row" or "skip_file"; "" means SkipRow.
func ParseParsePolicy(s string) (ParsePolicy, error) {
	switch ParsePolicy(s) {
	case "", SkipRow:
		return SkipRow, nil
	case SkipFile:
		return SkipFile, nil
	}
	return "", fmt.Errorf("unknown parse policy %q", s)
}

// Status is the outcome of loading one file.
type Status string

const (
	StatusLoaded  Status = "loaded"
	StatusSkipped Status = "skipped"
)

// FileReport describes what happened to one file.
type FileReport struct {
	Path     string
	Schema   string
	Rows     int // rows aggregated
	Rejected int // rows dropped on parse errors
	Status   Status
	Err      error
}

// Report summarizes one load run.
type Report struct {
	RunID    string
	Dir      string
	Started  time.Time
	Finished time.Time
	Files    []FileReport
}

// Loaded returns the number of files that contributed to the catalog.
func (r *Report) Loaded() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusLoaded {
			n++
		}
	}
	return n
}

// Skipped returns the files that were not aggregated.
func (r *Report) Skipped() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Status != StatusLoaded {
			out = append(out, f)
		}
	}
	return out
}

// Rows returns the total number of aggregated rows.
func (r *Report) Rows() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusLoaded {
			n += f.Rows
		}
	}
	return n
}

// Recorder persists load reports (see package ledger).
type Recorder interface {
	Record(ctx context.Context, rep *Report) error
}

// Options configures a Loader.
type Options struct {
	Pattern     string
	ParsePolicy ParsePolicy
	Logger      *slog.Logger
	Metrics     *Metrics
	Recorder    Recorder
}

// Loader drives report rows through classification and aggregation.
type Loader struct {
	classifiers *classify.Set
	opts        Options
	logger      *slog.Logger
}

// New creates a Loader using the given classifiers.
func New(classifiers *classify.Set, opts Options) *Loader {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.ParsePolicy == "" {
		opts.ParsePolicy = SkipRow
	}
	return &Loader{classifiers: classifiers, opts: opts, logger: opts.Logger}
}

// LoadDir loads every file in dir matching the configured pattern.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*region.Catalog, *Report, error) {
	files, err := Discover(dir, l.opts.Pattern)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		l.logger.Warn("no report files found", "dir", dir, "pattern", l.opts.Pattern)
	}
	cat, rep, err := l.LoadFiles(ctx, files)
	if rep != nil {
		rep.Dir = dir
	}
	return cat, rep, err
}

// LoadFiles aggregates the given files into a new Catalog.
// Files that cannot be read or parsed are skipped and reported; only cancellation aborts the load.
func (l *Loader) LoadFiles(ctx context.Context, files []string) (*region.Catalog, *Report, error) {
	rep := &Report{RunID: ulid.Make().String(), Started: time.Now()}
	cat := region.NewCatalog()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		stage, fr := l.loadFile(path)
		if fr.Status == StatusLoaded {
			if err := cat.Absorb(stage); err != nil {
				fr.Status, fr.Err = StatusSkipped, err
			}
		}
		if fr.Status != StatusLoaded {
			l.logger.Warn("skipping report file", "file", path, "error", fr.Err)
		}
		l.opts.Metrics.observeFile(fr)
		rep.Files = append(rep.Files, fr)
	}

	rep.Finished = time.Now()
	l.opts.Metrics.observeCatalog(cat, rep.Finished.Sub(rep.Started))
	l.logger.Info("dataset loaded",
		"run", rep.RunID,
		"files", len(files),
		"loaded", rep.Loaded(),
		"rows", rep.Rows(),
		"countries", cat.Len(region.Country),
		"states", cat.Len(region.State),
	)

	if l.opts.Recorder != nil {
		if err := l.opts.Recorder.Record(ctx, rep); err != nil {
			l.logger.Error("record load run", "run", rep.RunID, "error", err)
		}
	}
	return cat, rep, nil
}

// loadFile aggregates one file into a private staging catalog, so that a file
// abandoned halfway never leaves partial sums behind.
func (l *Loader) loadFile(path string) (*region.Catalog, FileReport) {
	fr := FileReport{Path: path, Status: StatusSkipped}

	f, err := os.Open(path)
	if err != nil {
		fr.Err = fmt.Errorf("open: %w", err)
		return nil, fr
	}
	defer f.Close()

	// Many of the reports start with a UTF-8 byte order mark.
	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		fr.Err = fmt.Errorf("read header: %w", err)
		return nil, fr
	}
	schema, err := DetectSchema(header)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
		}
		fr.Err = err
		return nil, fr
	}
	fr.Schema = schema.Name
	cols := resolveColumns(schema, header)

	stage := region.NewCatalog()
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// *csv.ParseError carries its own line number.
			fr.Err = fmt.Errorf("%s: %w", path, err)
			return nil, fr
		}
		line, _ := r.FieldPos(0)

		if err := l.addRow(stage, cols, record); err != nil {
			rowErr := &RowError{Path: path, Line: line, Err: err}
			var pe *region.ParseError
			if errors.As(err, &pe) && l.opts.ParsePolicy == SkipRow {
				fr.Rejected++
				l.logger.Warn("skipping row", "file", path, "line", line, "error", err)
				continue
			}
			if pe != nil {
				fr.Rejected++
			}
			fr.Err = rowErr
			return nil, fr
		}
		fr.Rows++
	}

	fr.Status = StatusLoaded
	return stage, fr
}

// addRow merges one record into stage under its country and, when present, its state.
func (l *Loader) addRow(stage *region.Catalog, cols columns, record []string) error {
	date, err := region.ParseDate(field(record, cols.lastUpdate))
	if err != nil {
		return err
	}
	stats, err := region.ParseStats(date,
		field(record, cols.confirmed),
		field(record, cols.deaths),
		field(record, cols.recovered),
	)
	if err != nil {
		return err
	}

	rawCountry := strings.TrimSpace(field(record, cols.country))
	country := l.classifiers.Countries.Classify(rawCountry)
	if country != "" {
		if _, err := stage.Add(region.Country, country, "", rawCountry, stats); err != nil {
			return err
		}
	}

	rawState := strings.TrimSpace(field(record, cols.state))
	if state := l.classifiers.States.Classify(rawState); state != "" {
		if _, err := stage.Add(region.State, state, country, rawState, stats); err != nil {
			return err
		}
	}
	return nil
}
