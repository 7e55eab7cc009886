package input

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// Options configures parsing.
type Options struct {
	// Mode selects the layout. Empty means line.
	Mode domain.InputMode

	// HeaderRows is the number of leading CSV rows to ignore.
	HeaderRows int

	// Columns restricts CSV parsing to these column letters. Empty
	// means every column.
	Columns []string

	// Label is recorded in each value's provenance, usually a file name.
	Label string
}

// spreadsheetErrors are the error literals spreadsheets export in
// place of a value.
var spreadsheetErrors = []string{
	"#N/A", "#VALUE!", "#REF!", "#DIV/0!", "#NUM!", "#NAME?", "#NULL!", "#SPILL!", "#CALC!",
}

// ParseFile reads path with the given options.
func ParseFile(path string, opts Options) ([]domain.RawValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if opts.Label == "" {
		opts.Label = path
	}
	return Parse(f, opts)
}

// ParseText parses an in-memory string.
func ParseText(text string, opts Options) ([]domain.RawValue, error) {
	return Parse(strings.NewReader(text), opts)
}

// Parse reads raw values from r in the layout selected by opts.Mode.
func Parse(r io.Reader, opts Options) ([]domain.RawValue, error) {
	mode := opts.Mode
	if mode == "" {
		mode = domain.InputModeLine
	}

	switch mode {
	case domain.InputModeLine:
		return parseLines(r, opts)
	case domain.InputModeComma:
		return parseComma(r, opts)
	case domain.InputModeCSV:
		return parseCSV(r, opts)
	default:
		return nil, &domain.ParameterError{Field: "input mode", Reason: fmt.Sprintf("%q is not recognised", mode)}
	}
}

func parseLines(r io.Reader, opts Options) ([]domain.RawValue, error) {
	var values []domain.RawValue
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		values = append(values, cell(scanner.Text(), domain.Provenance{Label: opts.Label}))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return values, nil
}

func parseComma(r io.Reader, opts Options) ([]domain.RawValue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	parts := strings.FieldsFunc(string(data), func(c rune) bool {
		return c == ',' || c == '\n' || c == '\r'
	})
	values := make([]domain.RawValue, 0, len(parts))
	for _, part := range parts {
		// Commas separate values, so spaces are the only grouping.
		values = append(values, cell(part, domain.Provenance{Label: opts.Label}))
	}
	return values, nil
}

func parseCSV(r io.Reader, opts Options) ([]domain.RawValue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	wanted := make(map[string]bool, len(opts.Columns))
	for _, c := range opts.Columns {
		wanted[strings.ToUpper(strings.TrimSpace(c))] = true
	}

	var values []domain.RawValue
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if row <= opts.HeaderRows {
			continue
		}
		for i, text := range record {
			column := ColumnLetter(i + 1)
			if len(wanted) > 0 && !wanted[column] {
				continue
			}
			values = append(values, cell(text, domain.Provenance{Row: row, Column: column, Label: opts.Label}))
		}
	}
	return values, nil
}

func cell(text string, source domain.Provenance) domain.RawValue {
	text = strings.TrimSpace(text)
	return domain.RawValue{Text: text, Kind: classify(text), Source: source}
}

// classify tags text by what a spreadsheet would hold in the cell.
func classify(text string) domain.CellKind {
	switch {
	case text == "":
		return domain.CellBlank
	case slices.Contains(spreadsheetErrors, strings.ToUpper(text)):
		return domain.CellError
	case strings.ContainsAny(text, "0123456789"):
		return domain.CellNumber
	default:
		return domain.CellText
	}
}

// ColumnLetter converts a 1-based column index to sheet letters:
// 1 is A, 26 is Z, 27 is AA.
func ColumnLetter(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append(b, byte('A'+n%26))
		n /= 26
	}
	slices.Reverse(b)
	return string(b)
}
