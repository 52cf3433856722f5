package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxLineLength bounds the length of a single record
const maxLineLength = 1024 * 1024

// ParseError reports a record that could not be read
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads records from r according to layout.
// Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader, layout Layout) (*Table, error) {
	return parse(r, layout, "")
}

// ParseFile reads the records of the file at path
func ParseFile(path string, layout Layout) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f, layout, path)
}

func parse(r io.Reader, layout Layout, source string) (*Table, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	table := newTable(layout, source)
	need := layout.minFields()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if layout.Tag != "" && fields[0] != layout.Tag {
			table.Skipped++
			continue
		}
		if len(fields) < need {
			return nil, &ParseError{source, lineNo, fmt.Errorf("expected at least %d fields, got %d", need, len(fields))}
		}
		key := ""
		if layout.KeyColumn != NoKey {
			key = fields[layout.KeyColumn]
		}
		row := make(Row, len(layout.Metrics))
		for i, m := range layout.Metrics {
			v, err := strconv.ParseFloat(fields[m.Column], 64)
			if err != nil {
				return nil, &ParseError{source, lineNo, fmt.Errorf("field %d (%s): %w", m.Column, m.Label, err)}
			}
			row[i] = v
		}
		table.append(key, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{source, lineNo + 1, err}
	}
	return table, nil
}

// Glob returns the files matching pattern, in lexical order
func Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// FigurePath returns the path of the figure rendered from dataPath:
// the ".dat" suffix, if any, is replaced by "."+ext.
func FigurePath(dataPath, ext string) string {
	return strings.TrimSuffix(dataPath, ".dat") + "." + strings.TrimPrefix(ext, ".")
}
