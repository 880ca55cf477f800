// Package csvload reads a contact table from CSV.
//
// The loader is forgiving about the usual spreadsheet artifacts (BOM, invalid
// UTF-8, Excel ="..." cells, short rows, blank lines, NA markers) and strict
// about structure: the header must contain every column in contact.Columns.
package csvload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/phonebook/internal/contact"
	"github.com/JonMunkholm/phonebook/internal/logging"
)

var (
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("empty input: no header row")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidCSV wraps parse errors from encoding/csv.
	ErrInvalidCSV = errors.New("invalid csv")
)

// naValues are the cell values treated as missing, matching what
// spreadsheet exports and common data tools write for "not available".
var naValues = makeSet(
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
)

func makeSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// HeaderIndex maps lowercased column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
// Keys are cleaned and lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue // first occurrence wins
		}
		idx[key] = i
	}
	return idx
}

// Missing returns the required columns absent from the index.
func (h HeaderIndex) Missing(required []string) []string {
	var out []string
	for _, col := range required {
		if _, ok := h[col]; !ok {
			out = append(out, col)
		}
	}
	return out
}

// Cell returns the cleaned value of column col in row, or "" when the row is
// too short or the value is an NA marker.
func (h HeaderIndex) Cell(row []string, col string) string {
	pos, ok := h[col]
	if !ok || pos >= len(row) {
		return ""
	}
	v := CleanCell(row[pos])
	if naValues[v] {
		return ""
	}
	return v
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Unwraps the Excel text-formula form ="..."
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}

// Load reads contacts from r. The first non-blank record is the header.
func Load(ctx context.Context, r io.Reader) ([]contact.Contact, error) {
	in := wrapInput(r)

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := readRecord(reader)
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}

	idx := MakeHeaderIndex(header)
	if missing := idx.Missing(contact.Columns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var contacts []contact.Contact
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled: %w", err)
		}

		row, err := readRecord(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		contacts = append(contacts, contact.Contact{
			Name:      idx.Cell(row, contact.ColName),
			Phone:     idx.Cell(row, contact.ColPhone),
			Cellular:  idx.Cell(row, contact.ColCellular),
			Sort:      idx.Cell(row, contact.ColSort),
			FrontPage: idx.Cell(row, contact.ColFrontPage),
		})
	}

	logging.FromContext(ctx).Debug("contacts loaded",
		"rows", len(contacts),
		"bytes", in.n,
	)

	return contacts, nil
}

// LoadFile opens path and loads its contacts.
func LoadFile(ctx context.Context, path string) ([]contact.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contacts: %w", err)
	}
	defer f.Close()

	contacts, err := Load(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return contacts, nil
}

// readRecord returns the next record that has at least one non-blank cell.
func readRecord(reader *csv.Reader) ([]string, error) {
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		if !isBlank(row) {
			return row, nil
		}
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
