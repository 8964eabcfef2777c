// Package sheet turns spreadsheet exports into ordered rows keyed by header.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader is returned for an input with no header line.
var ErrNoHeader = errors.New("sheet has no header row")

// Table is a parsed export: the header line and the rows below it.
type Table struct {
	Header []string
	Rows   []Row
}

// ReadCSV reads a comma separated export. The first record is the header;
// every following record becomes a Row.
func ReadCSV(r io.Reader) (*Table, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		records [][]string
		lines   []int
	)

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}

	return newTable(records, lines)
}

// ReadXLSX reads the named worksheet of an .xlsx workbook, or the first one
// when sheetName is empty.
func ReadXLSX(r io.Reader, sheetName string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	// GetRows keeps blank rows, so the index is the worksheet row.
	lines := make([]int, len(records))
	for i := range lines {
		lines[i] = i + 1
	}

	return newTable(records, lines)
}

// Open reads path as CSV or XLSX depending on its extension.
func Open(path, sheetName string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), sheetName)
}

// Read dispatches on the extension of name.
func Read(r io.Reader, name, sheetName string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, sheetName)
	case ".csv", ".txt", "":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

func newTable(records [][]string, lines []int) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		rows = append(rows, NewRow(lines[i], header, records[i]))
	}

	return &Table{Header: header, Rows: rows}, nil
}
