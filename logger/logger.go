// Package logger provides the logrus formatter and setup shared by the schedtools binaries.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// TimestampFormat is the timestamp layout used by all binaries
const TimestampFormat = "2006-01-02 15:04:05.000"

// TextFormatter renders entries as
//
//	<timestamp> [LEVEL] [module] message key=value key=value
//
// with keys sorted, so output from repeated benchmark runs diffs cleanly.
type TextFormatter struct {
	// DisableTimestamp leaves out the timestamp, e.g. when writing into a file
	// that is later compared against a reference
	DisableTimestamp bool

	// TimestampFormat overrides the default layout
	TimestampFormat string

	// ModuleName is printed in brackets after the level when set
	ModuleName string

	// QuoteEmptyFields wraps empty field values in quotes
	QuoteEmptyFields bool
}

// Format renders a single log entry.
// It is meant to be called from github.com/sirupsen/logrus.
func (f *TextFormatter) Format(entry *log.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if !f.DisableTimestamp {
		layout := f.TimestampFormat
		if layout == "" {
			layout = TimestampFormat
		}
		b.WriteString(entry.Time.Format(layout))
		b.WriteByte(' ')
	}

	b.WriteByte('[')
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString("] ")

	if f.ModuleName != "" {
		b.WriteByte('[')
		b.WriteString(f.ModuleName)
		b.WriteString("] ")
	}

	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		f.writeValue(b, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *TextFormatter) needsQuoting(text string) bool {
	if text == "" {
		return f.QuoteEmptyFields
	}
	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '/') {
			return true
		}
	}
	return false
}

func (f *TextFormatter) writeValue(b *bytes.Buffer, value interface{}) {
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case error:
		text = v.Error()
	default:
		fmt.Fprint(b, v)
		return
	}
	if f.needsQuoting(text) {
		fmt.Fprintf(b, "%q", text)
		return
	}
	b.WriteString(text)
}

// Configure installs the formatter on the standard logrus logger and sets its level.
// level is one of panic|fatal|error|warning|info|debug|trace.
func Configure(module, level string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetFormatter(&TextFormatter{ModuleName: module})
	log.SetLevel(lvl)
	if out != nil {
		log.SetOutput(out)
	}
	return nil
}
