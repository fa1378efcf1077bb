package diagnostic

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrintOptions controls Print.
type PrintOptions struct {
	// Color enables ANSI colors for severities and codes.
	Color bool
	// Max limits the number of printed diagnostics; zero prints all.
	Max int
}

// Print writes one line per diagnostic in Compare order:
//
//	<path>:<line>:<col>: <severity> <ID>: <message>
//
// It returns the number of diagnostics omitted because of opts.Max.
func Print(w io.Writer, diags *Diagnostics, opts PrintOptions) (int, error) {
	all := diags.All()

	shown := all
	if opts.Max > 0 && len(all) > opts.Max {
		shown = all[:opts.Max]
	}

	for _, d := range shown {
		if _, err := fmt.Fprintln(w, render(d, opts.Color)); err != nil {
			return 0, err
		}
	}

	return len(all) - len(shown), nil
}

func render(d Diagnostic, colored bool) string {
	if !colored {
		return d.String()
	}

	sev := severityColor(d.Severity)
	sev.EnableColor()

	loc := color.New(color.Bold)
	loc.EnableColor()

	head := sev.Sprintf("%s %s", d.Severity, d.ID)
	if d.Location.IsZero() {
		return head + ": " + d.Message
	}

	return loc.Sprint(d.Location.String()) + ": " + head + ": " + d.Message
}

func severityColor(s DiagnosticSeverity) *color.Color {
	switch s {
	case DiagnosticError:
		return color.New(color.FgRed, color.Bold)
	case DiagnosticWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
