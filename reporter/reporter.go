// Package reporter exports the run's result records as an XLSX workbook.
package reporter

import (
	"fmt"
	"sync"
	"time"

	"github.com/restcheck/posts-contract-tests/resultlog"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName = "Results"

	defaultSheetName    = "Sheet1"
	defaultColumnWidth  = 14
	endpointColumnWidth = 48

	patternType    = "pattern"
	patternValue   = 1
	failureBgColor = "FF5900"
	headerBgColor  = "D9D9D9"
	summaryTitle   = "Summary"
)

// ExcelReport collects records as a resultlog.Sink and writes them all at the end of the run.
type ExcelReport struct {
	records []resultlog.Record
	lock    sync.Mutex
}

func NewExcelReport() *ExcelReport {
	return &ExcelReport{}
}

func (r *ExcelReport) Append(record resultlog.Record) error {
	r.lock.Lock()
	r.records = append(r.records, record)
	r.lock.Unlock()
	return nil
}

// Records returns a copy of what has been collected so far.
func (r *ExcelReport) Records() []resultlog.Record {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]resultlog.Record(nil), r.records...)
}

// Write creates the workbook at path: a header row, one row per record with failures
// highlighted, then a summary block.
func (r *ExcelReport) Write(path string, duration time.Duration) error {
	records := r.Records()

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(defaultSheetName, SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setColumnWidths(f); err != nil {
		return err
	}
	headerStyle, err := fillStyle(f, headerBgColor)
	if err != nil {
		return err
	}
	failureStyle, err := fillStyle(f, failureBgColor)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(resultlog.Header))
	for _, h := range resultlog.Header {
		header = append(header, h)
	}
	if err := writeRow(f, 1, header, headerStyle); err != nil {
		return err
	}

	failed := 0
	for i, rec := range records {
		style := 0
		if !rec.Passed() {
			failed++
			style = failureStyle
		}
		if err := writeRow(f, i+2, []interface{}{rec.Method, rec.URL, rec.StatusCode, rec.Verdict}, style); err != nil {
			return err
		}
	}

	summaryRow := len(records) + 3
	summary := []interface{}{
		summaryTitle,
		fmt.Sprintf("Run time: %.3fms", float64(duration.Microseconds())/1000),
		fmt.Sprintf("Total cases: %d", len(records)),
		fmt.Sprintf("Failed cases: %d", failed),
	}
	for i, line := range summary {
		if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", summaryRow+i), line); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %q: %w", path, err)
	}
	return nil
}

func setColumnWidths(f *excelize.File) error {
	if err := f.SetColWidth(SheetName, "A", "D", defaultColumnWidth); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "B", "B", endpointColumnWidth)
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    patternType,
			Pattern: patternValue,
			Color:   []string{color},
		},
	})
}

// writeRow writes cells starting at column A; style 0 means no style.
func writeRow(f *excelize.File, row int, cells []interface{}, style int) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, value); err != nil {
			return err
		}
		if style != 0 {
			if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}
