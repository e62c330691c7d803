// Package output provides the line-oriented console report: section
// headers, pass/fail markers, the summary table and optional color.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Markers printed in front of pass/fail lines.
const (
	PassMark = "✅"
	FailMark = "❌"
)

// RuleWidth is the width of section rules.
const RuleWidth = 60

// Writer provides formatted output for the CLI.
// Errors from writing are intentionally ignored for console output.
type Writer struct {
	out      io.Writer
	useColor bool
	styles   Styles
}

// New creates a Writer without color.
func New(out io.Writer) *Writer {
	return NewWithColor(out, false)
}

// NewWithColor creates a Writer, styling headers and verdicts when useColor is set.
func NewWithColor(out io.Writer, useColor bool) *Writer {
	return &Writer{
		out:      out,
		useColor: useColor,
		styles:   GetStyles(!useColor),
	}
}

// Mark returns the marker for a pass/fail outcome.
func Mark(ok bool) string {
	if ok {
		return PassMark
	}
	return FailMark
}

// Line prints a plain line.
func (w *Writer) Line(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Linef prints a formatted plain line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Indent prints msg indented by two spaces; an empty msg prints a blank line.
func (w *Writer) Indent(msg string) {
	if msg == "" {
		w.Newline()
		return
	}
	w.Line("  " + msg)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Rule prints a full-width separator.
func (w *Writer) Rule() {
	w.Line(w.styles.Rule.Render(strings.Repeat("=", RuleWidth)))
}

// Header prints a section header framed by rules.
func (w *Writer) Header(text string) {
	w.Newline()
	w.Rule()
	w.Line(w.styles.Header.Render("  " + text))
	w.Rule()
}

// Check prints one pass/fail line.
func (w *Writer) Check(ok bool, msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", Mark(ok), msg)
}

// Checkf prints one formatted pass/fail line.
func (w *Writer) Checkf(ok bool, format string, args ...any) {
	w.Check(ok, fmt.Sprintf(format, args...))
}

// Verdict returns PASSED or FAILED, styled when color is enabled.
func (w *Writer) Verdict(ok bool) string {
	if ok {
		return w.styles.Success.Render("PASSED")
	}
	return w.styles.Error.Render("FAILED")
}

// Row is one line of the summary table.
type Row struct {
	Name   string
	Passed bool
}

// Summary prints "<marker> <name>: PASSED|FAILED" per row with the
// verdicts aligned in one column.
func (w *Writer) Summary(rows []Row) {
	width := 0
	for _, r := range rows {
		if n := runewidth.StringWidth(r.Name + ":"); n > width {
			width = n
		}
	}

	for _, r := range rows {
		label := runewidth.FillRight(r.Name+":", width)
		_, _ = fmt.Fprintf(w.out, "%s %s %s\n", Mark(r.Passed), label, w.Verdict(r.Passed))
	}
}

// Banner prints the final verdict line.
func (w *Writer) Banner(ok bool, msg string) {
	style := w.styles.Success
	if !ok {
		style = w.styles.Error
	}
	_, _ = fmt.Fprintf(w.out, "%s %s\n", Mark(ok), style.Render(msg))
}

// List prints items as an indented list, numbered when numbered is set.
func (w *Writer) List(items []string, numbered bool) {
	for i, item := range items {
		if numbered {
			w.Indent(fmt.Sprintf("%d. %s", i+1, item))
		} else {
			w.Indent(item)
		}
	}
}
