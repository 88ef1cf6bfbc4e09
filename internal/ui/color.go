package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/chriserin/tgherkin/gherkin/diag"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	newStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	boldStyle  = lipgloss.NewStyle().Bold(true)
)

// DisableColor makes every later call print plain text.
func DisableColor() {
	plain := lipgloss.NewStyle()
	errorStyle, warnStyle, newStyle, faintStyle, boldStyle = plain, plain, plain, plain, plain
}

func severityStyle(s diag.Severity) lipgloss.Style {
	if s == diag.SeverityWarning {
		return warnStyle
	}
	return errorStyle
}

// Diagnostic prints d as "file:line:col: severity: message" followed by the
// offending source line and a caret marker under the reported span. lines
// is the source split on newlines; a line out of range prints no excerpt.
func Diagnostic(w io.Writer, file string, lines []string, d diag.Diagnostic) {
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", file, d.Line, d.Column,
		severityStyle(d.Severity).Render(d.Severity.String()), d.Message)
	if d.Line < 1 || d.Line > len(lines) {
		return
	}
	src := strings.TrimRight(lines[d.Line-1], "\r")
	fmt.Fprintln(w, faintStyle.Render("  | ")+src)
	fmt.Fprintln(w, faintStyle.Render("  | ")+Caret(src, d.Column, d.Length))
}

// Caret returns the marker line for a span starting at the 1-based rune
// column. Wide runes before the column are padded to their display width.
func Caret(src string, column, length int) string {
	runes := []rune(src)
	if column < 1 {
		column = 1
	}
	if column-1 > len(runes) {
		column = len(runes) + 1
	}
	var pad strings.Builder
	for _, r := range runes[:column-1] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	if length < 1 {
		length = 1
	}
	width := 0
	for i := column - 1; i < column-1+length && i < len(runes); i++ {
		width += runewidth.RuneWidth(runes[i])
	}
	if width < 1 {
		width = 1
	}
	return pad.String() + boldStyle.Render(strings.Repeat("^", width))
}

// SummaryLine reports the totals of a check run.
func SummaryLine(w io.Writer, files, errors, warnings int) {
	summary := fmt.Sprintf("checked %s: %s, %s",
		plural(files, "file"), plural(errors, "error"), plural(warnings, "warning"))
	switch {
	case errors > 0:
		fmt.Fprintln(w, errorStyle.Render(summary))
	case warnings > 0:
		fmt.Fprintln(w, warnStyle.Render(summary))
	default:
		fmt.Fprintln(w, newStyle.Render(summary))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// ListRow prints one scenario of the list command. The widths are display
// widths of the widest value in each column.
func ListRow(w io.Writer, loc, keyword, name, tags string, locWidth, keywordWidth, nameWidth int) {
	line := faintStyle.Render(runewidth.FillRight(loc, locWidth)) + "  " +
		runewidth.FillRight(keyword, keywordWidth) + "  " +
		boldStyle.Render(runewidth.FillRight(name, nameWidth))
	if tags != "" {
		line += "  " + newStyle.Render(tags)
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

// ShowHeader opens the output of the show command.
func ShowHeader(w io.Writer, file string, line int) {
	fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("%s:%d", file, line)))
}

// FormattedLine reports a file fmt rewrote.
func FormattedLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("fmt")+"  "+path)
}

// UnchangedLine reports a file already in canonical form.
func UnchangedLine(w io.Writer, path string) {
	fmt.Fprintln(w, faintStyle.Render("ok ")+"  "+path)
}

// LanguageRow prints one dialect of the languages command.
func LanguageRow(w io.Writer, code, name, native string, codeWidth int) {
	fmt.Fprintf(w, "%s  %s", boldStyle.Render(runewidth.FillRight(code, codeWidth)), name)
	if native != "" && native != name {
		fmt.Fprintf(w, " %s", faintStyle.Render("("+native+")"))
	}
	fmt.Fprintln(w)
}
