package projection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ToCSV renders rows as comma-separated text. The header is the first row's
// field names; later rows are read through that field set, so fields the
// first row lacks are dropped and fields it has but a later row lacks are
// empty. Nil values are empty cells; everything else is JSON-encoded, so
// strings keep their quotes. Lines are joined by "\n" with no trailing
// newline. Empty input yields "".
func ToCSV(rows []Row) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	names := rows[0].Names()

	var b strings.Builder
	b.WriteString(strings.Join(names, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, name := range names {
			if i > 0 {
				b.WriteByte(',')
			}
			v, _ := row.Get(name)
			b.WriteString(encodeCell(v))
		}
	}
	return b.String()
}

// encodeCell renders v as a JSON scalar without HTML escaping. U+2028 and
// U+2029 are still written as \u2028 and \u2029 by encoding/json.
func encodeCell(v any) string {
	if v == nil {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// NaN and Inf have no JSON form; they export as empty like null.
		return ""
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "null" {
		return ""
	}
	return out
}

// ParseCSV reads text produced by ToCSV back into rows. Empty cells become
// nil and numbers are kept as json.Number so that re-encoding reproduces the
// input exactly.
func ParseCSV(text string) ([]Row, error) {
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	header := strings.Split(lines[0], ",")

	rows := make([]Row, 0, len(lines)-1)
	for n, line := range lines[1:] {
		cells, err := splitCells(line)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", n+2, err)
		}
		if len(cells) != len(header) {
			return nil, fmt.Errorf("csv line %d: got %d cells, header has %d", n+2, len(cells), len(header))
		}
		row := make(Row, len(header))
		for i, cell := range cells {
			v, err := decodeCell(cell)
			if err != nil {
				return nil, fmt.Errorf("csv line %d, column %q: %w", n+2, header[i], err)
			}
			row[i] = Field{Name: header[i], Value: v}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitCells splits on commas outside JSON strings and brackets.
func splitCells(line string) ([]string, error) {
	var (
		cells    []string
		start    int
		depth    int
		inString bool
		escaped  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString && escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case inString && c == '"':
			inString = false
		case inString:
		case c == '"':
			inString = true
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			cells = append(cells, line[start:i])
			start = i + 1
		}
	}
	if inString {
		return nil, errors.New("unterminated string")
	}
	return append(cells, line[start:]), nil
}

func decodeCell(cell string) (any, error) {
	if cell == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(cell))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data in %q", cell)
	}
	return v, nil
}
