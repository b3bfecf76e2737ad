// Package resultlog records one row per executed test case in a CSV run-log.
package resultlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/restcheck/posts-contract-tests/framework/helpers"

	"golang.org/x/exp/slices"
)

const (
	VerdictSuccess = "Success"
	VerdictFailure = "Failure"
)

// Header is the first row of every run-log.
var Header = []string{"Request Type", "Endpoint", "Status Code", "Result"} //nolint:gochecknoglobals

// Record is one executed test case. StatusCode is 0 if no response was received.
type Record struct {
	Method     string
	URL        string
	StatusCode int
	Verdict    string
}

// NewRecord builds a Record whose verdict is derived from passed.
func NewRecord(method, url string, statusCode int, passed bool) Record {
	return Record{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Verdict:    helpers.IfElse(passed, VerdictSuccess, VerdictFailure),
	}
}

func (r Record) Passed() bool { return r.Verdict == VerdictSuccess }

func (r Record) row() []string {
	return []string{r.Method, r.URL, strconv.Itoa(r.StatusCode), r.Verdict}
}

// Sink receives records as tests complete.
type Sink interface {
	Append(Record) error
}

// MultiSink appends each record to every sink in order. All sinks are tried even if one fails.
type MultiSink []Sink

func (m MultiSink) Append(r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteError means the run-log could not be written. Results after such an error are not
// trustworthy, so callers treat it as fatal for the run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write run-log %q: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// CSVLog is an append-only CSV file. Each Append opens the file, writes one complete row and
// closes it again, so rows are on disk as soon as Append returns and no file handle is held
// between tests.
type CSVLog struct {
	path string
	lock sync.Mutex
}

// Create truncates or creates the file at path and writes the header row.
func Create(path string) (*CSVLog, error) {
	data, err := encodeRow(Header)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec
		return nil, &WriteError{Path: path, Err: err}
	}
	return &CSVLog{path: path}, nil
}

func (l *CSVLog) Path() string { return l.path }

// Append writes one row. It is safe to call from multiple goroutines; rows never interleave.
func (l *CSVLog) Append(r Record) error {
	data, err := encodeRow(r.row())
	if err != nil {
		return &WriteError{Path: l.path, Err: err}
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return &WriteError{Path: l.path, Err: err}
	}
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &WriteError{Path: l.path, Err: err}
	}
	return nil
}

func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadRecords reads back a run-log written by CSVLog, checking the header row.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("run-log is empty")
	}
	if !slices.Equal(rows[0], Header) {
		return nil, fmt.Errorf("unexpected header row %q", rows[0])
	}
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(Header) {
			return nil, fmt.Errorf("row %d has %d fields", i+2, len(row))
		}
		status, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid status code %q", i+2, row[2])
		}
		records = append(records, Record{Method: row[0], URL: row[1], StatusCode: status, Verdict: row[3]})
	}
	return records, nil
}
