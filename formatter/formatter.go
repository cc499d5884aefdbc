// Package formatter renders lowering diagnostics for terminal output.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/quill-lang/quill/internal/diag"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	codeStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	arrowStyle   = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgWhite)
	noteStyle    = color.New(color.FgGreen)
)

// Format renders a list of diagnostics into a human-readable report.
func Format(diags []diag.Diagnostic) string {
	var builder strings.Builder
	for i, d := range diags {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(formatHeader(d))
		builder.WriteString(formatBody(d))
	}
	return builder.String()
}

// formatHeader creates the header lines for a diagnostic.
// (e.g. "error: malformed-range\n --> demo.qll:40..64")
func formatHeader(d diag.Diagnostic) string {
	return severityStyle(d.Severity).Sprintf("%s: ", d.Severity) +
		codeStyle.Sprint(d.Code) + "\n" +
		arrowStyle.Sprint(" --> ") + fileStyle.Sprint(formatSpan(d)) + "\n"
}

func formatBody(d diag.Diagnostic) string {
	var builder strings.Builder
	builder.WriteString(messageStyle.Sprintf("  = %s\n", d.Message))
	if d.Note != "" {
		builder.WriteString(noteStyle.Sprintf("  = note: %s\n", d.Note))
	}
	return builder.String()
}

func formatSpan(d diag.Diagnostic) string {
	if d.Span.File == "" {
		return fmt.Sprintf("<unknown>:%d..%d", d.Span.Lo, d.Span.Hi)
	}
	return d.Span.String()
}

func severityStyle(s diag.Severity) *color.Color {
	if s == diag.SeverityWarning {
		return warningStyle
	}
	return errorStyle
}
