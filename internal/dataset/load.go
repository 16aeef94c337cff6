package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"polarec/internal/table"
)

// Request names one dataset the caller wants loaded: the filename expected
// in the data directory and the logical key to report it under. Keys must be
// unique within a batch.
//
// Columns lists the header columns every parsed table must carry. A resolved
// file whose table (or any workbook sheet) lacks one is structurally invalid
// for its consumers and is recorded as a parse error instead of loading.
type Request struct {
	File    string
	Key     string
	Columns []string
}

// Status is the outcome category for one requested dataset.
type Status int

const (
	// StatusLoaded means the file was resolved and parsed.
	StatusLoaded Status = iota
	// StatusMissing means no directory entry matched the requested name.
	StatusMissing
	// StatusParseError means the file was found but could not be parsed.
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one request. For a CSV request Tables
// holds a single table keyed by the request key; for a workbook it holds one
// table per sheet, keyed "<request key>/<sheet name>". Err is a
// human-readable description, set only for StatusParseError.
type Outcome struct {
	Status Status
	Tables []*table.Table
	Err    string
}

// Report is the complete result of one load batch. Its key set always equals
// the requested key set: every request produces exactly one outcome, and a
// single bad file never aborts the rest of the batch.
type Report struct {
	keys     []string
	outcomes map[string]Outcome
}

// Keys returns the requested logical keys in request order.
func (r *Report) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Outcome returns the recorded outcome for a requested key.
func (r *Report) Outcome(key string) (Outcome, bool) {
	o, ok := r.outcomes[key]
	return o, ok
}

// Tables returns every loaded table across all outcomes, keyed by its
// logical key (sheet-derived keys included), in request order.
func (r *Report) Tables() map[string]*table.Table {
	out := make(map[string]*table.Table)
	for _, key := range r.keys {
		for _, t := range r.outcomes[key].Tables {
			out[t.Key] = t
		}
	}
	return out
}

// Problems returns a description per failed key, in request order. Loaded
// keys are omitted.
func (r *Report) Problems() []string {
	var out []string
	for _, key := range r.keys {
		o := r.outcomes[key]
		switch o.Status {
		case StatusMissing:
			out = append(out, fmt.Sprintf("%s: file not found", key))
		case StatusParseError:
			out = append(out, fmt.Sprintf("%s: %s", key, o.Err))
		}
	}
	return out
}

// LoadedCount returns how many requests loaded successfully.
func (r *Report) LoadedCount() int {
	n := 0
	for _, o := range r.outcomes {
		if o.Status == StatusLoaded {
			n++
		}
	}
	return n
}

// LoadDatasets resolves and parses every requested dataset under dir.
//
// Per-file failures are recorded in the report and never abort the batch:
// an unmatched name yields StatusMissing, a file that will not parse yields
// StatusParseError with a description naming the cause. The only error
// return is a directory that cannot be listed at all — that condition is
// deliberately distinguishable from "directory exists but nothing matched",
// which produces an all-missing report instead.
func LoadDatasets(dir string, requests []Request) (*Report, error) {
	// Fail fast on an unlistable directory rather than reporting every
	// request missing.
	if _, err := os.ReadDir(dir); err != nil {
		return nil, fmt.Errorf("data directory unavailable: %w", err)
	}

	report := &Report{outcomes: make(map[string]Outcome, len(requests))}

	for _, req := range requests {
		report.keys = append(report.keys, req.Key)

		path, ok, err := ResolveFile(dir, req.File)
		if err != nil {
			// Directory became unlistable mid-batch; report rather than abort.
			report.outcomes[req.Key] = Outcome{Status: StatusParseError, Err: err.Error()}
			continue
		}
		if !ok {
			report.outcomes[req.Key] = Outcome{Status: StatusMissing}
			continue
		}

		tables, err := parseFile(path, req.Key)
		if err == nil {
			err = checkColumns(tables, req)
		}
		if err != nil {
			report.outcomes[req.Key] = Outcome{
				Status: StatusParseError,
				Err:    fmt.Sprintf("%s: %v", filepath.Base(path), err),
			}
			continue
		}
		report.outcomes[req.Key] = Outcome{Status: StatusLoaded, Tables: tables}
	}

	return report, nil
}

// checkColumns verifies every parsed table carries the request's required
// columns, so a misnamed header surfaces in the load report rather than as a
// query-time failure.
func checkColumns(tables []*table.Table, req Request) error {
	for _, t := range tables {
		for _, col := range req.Columns {
			if t.HasColumn(col) {
				continue
			}
			if t.Key != req.Key {
				return fmt.Errorf("sheet %q missing required column %q",
					strings.TrimPrefix(t.Key, req.Key+"/"), col)
			}
			return fmt.Errorf("missing required column %q", col)
		}
	}
	return nil
}

// parseFile dispatches on the file extension. CSV gives one table under the
// request key; a workbook gives one table per sheet under a derived key.
func parseFile(path, key string) ([]*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err := parseCSV(path, key)
		if err != nil {
			return nil, err
		}
		return []*table.Table{t}, nil
	case ".xlsx":
		return parseWorkbook(path, key)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// parseCSV reads a delimited-text file into a table. The first record is the
// header; ragged data rows are tolerated and padded or truncated to the
// header width.
func parseCSV(path, key string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Excel saves UTF-8 CSVs with a BOM; strip it so the first header cell
	// matches without a prefix.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file, no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := table.New(key, header)
	for _, row := range records[1:] {
		t.AppendRow(row)
	}
	return t, nil
}
