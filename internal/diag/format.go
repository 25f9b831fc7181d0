package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line:
//
//	warning ING4001 `float4`: unsupported type kind vector
//
// Notes follow their diagnostic, indented. Messages are flattened to a
// single line.
func FormatShort(diags []Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s", d.Severity.Label(), d.Code.ID())
		if d.Subject != "" {
			fmt.Fprintf(&b, " `%s`", d.Subject)
		}
		fmt.Fprintf(&b, ": %s", sanitizeMessage(d.Message))
		for _, note := range d.Notes {
			fmt.Fprintf(&b, "\n  note: %s", sanitizeMessage(note))
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
