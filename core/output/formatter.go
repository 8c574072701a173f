// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	verrors "viscolab/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report Report) error
}

// New returns the formatter for a format name
func New(name string) (Formatter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatCLI, "":
		return CLIFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{Indent: "  "}, nil
	default:
		return nil, verrors.Newf(verrors.TypeInput, "unknown output format %q (want cli or json)", name)
	}
}

// JSONFormatter writes the report as a JSON document
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter
func (JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f JSONFormatter) Render(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(report); err != nil {
		return verrors.Internal("failed to encode report", err)
	}
	return nil
}

const (
	labelWidth = 50
	valueWidth = 20
)

// CLIFormatter writes the report as a boxed table
type CLIFormatter struct{}

// Format implements Formatter
func (CLIFormatter) Format() Format { return FormatCLI }

// Render implements Formatter
func (CLIFormatter) Render(w io.Writer, report Report) error {
	inner := labelWidth + valueWidth + 3
	rule := strings.Repeat("─", inner)

	var b strings.Builder
	fmt.Fprintf(&b, "┌%s┐\n", rule)
	fmt.Fprintf(&b, "│%s│\n", center(report.Title(), inner))
	fmt.Fprintf(&b, "├%s┤\n", rule)
	for _, line := range report.Lines() {
		if line.Label == "" {
			fmt.Fprintf(&b, "├%s┤\n", rule)
			continue
		}
		label := line.Label
		width := labelWidth
		if line.Nested {
			label = "  └─ " + label
		}
		fmt.Fprintf(&b, "│ %s %s │\n", pad(truncate(label, width), width), padLeft(truncate(line.Value, valueWidth), valueWidth))
	}
	fmt.Fprintf(&b, "└%s┘\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func center(s string, width int) string {
	s = truncate(s, width)
	left := (width - utf8.RuneCountInString(s)) / 2
	return pad(strings.Repeat(" ", left)+s, width)
}
