package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/clientline/internal/client"
	"github.com/nconklindev/clientline/internal/types"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// headerSearchLimit caps how many leading rows are scanned for a header.
const headerSearchLimit = 20

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
	ErrNoHeader        = errors.New("could not find header row")
)

// ReadFileData reads the header and every data row of a CSV or XLSX file.
// sheet selects an XLSX sheet; empty means the first one.
func ReadFileData(filePath, sheet string) (*types.FileData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return readCSVData(filePath)
	case ".xlsx":
		return readXLSXData(filePath, sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

func readCSVData(filePath string) (*types.FileData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Strips a UTF-8 BOM and decodes UTF-16 when a BOM says so.
	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []client.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(client.Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return &types.FileData{
		Path:    filePath,
		Headers: headers,
		Rows:    rows,
	}, nil
}

func readXLSXData(filePath, sheet string) (*types.FileData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	// Find the header row (first row with multiple non-empty cells)
	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, ErrNoHeader
	}

	cells := newCellReader(f, sheetName)
	headers := rows[headerRowIdx]

	var data []client.Row
	for rowIdx := headerRowIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := make(client.Row, len(headers))
		for colIdx, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			v, err := cells.value(cellName)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			if v != nil {
				row[h] = v
			}
		}
		data = append(data, row)
	}

	return &types.FileData{
		Path:      filePath,
		Sheet:     sheetName,
		Headers:   headers,
		Rows:      data,
		HeaderRow: headerRowIdx,
	}, nil
}

// cellReader returns typed cell values: bool, float64, time.Time for date
// formatted numbers, or string.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	r := &cellReader{f: f, sheet: sheet, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

func (r *cellReader) value(cell string) (any, error) {
	raw, err := r.f.GetCellValue(r.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	typ, err := r.f.GetCellType(r.sheet, cell)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return t, nil
			}
		}
		return raw, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw, nil
		}
		dated, err := r.dateFormatted(cell)
		if err != nil {
			return nil, err
		}
		if dated {
			if t, err := excelize.ExcelDateToTime(n, r.date1904); err == nil {
				return t.UTC().Round(time.Millisecond), nil
			}
		}
		return n, nil
	default:
		return raw, nil
	}
}

func (r *cellReader) dateFormatted(cell string) (bool, error) {
	styleID, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil {
		return false, err
	}
	if styleID == 0 {
		return false, nil
	}
	if d, ok := r.isDate[styleID]; ok {
		return d, nil
	}

	style, err := r.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	d := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		d = isDateLayout(*style.CustomNumFmt)
	}
	r.isDate[styleID] = d
	return d, nil
}

// Built-in number formats that render dates or times.
func isDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// isDateLayout reports whether a custom number format contains day or year
// tokens once literals and bracketed sections are removed.
func isDateLayout(layout string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(layout) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	return strings.ContainsAny(s, "dy")
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	searchLimit := min(len(rows), headerSearchLimit)

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				if containsLetters(trimmed) {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
