package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cbind/internal/diag"
)

// Format selects how a report is written.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported format %q (must be pretty or json)", s)
	}
}

type RenderOptions struct {
	Format Format
	Color  bool
	// Quiet drops informational diagnostics from pretty output.
	Quiet bool
	// MaxNameWidth truncates the name column; zero means 40.
	MaxNameWidth int
}

// Render writes r to w.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, r)
	default:
		return renderPretty(w, r, opts)
	}
}

type palette struct {
	yes, no, head, err, warn, info *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		yes:  color.New(color.FgGreen),
		no:   color.New(color.FgRed),
		head: color.New(color.Bold),
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.yes, p.no, p.head, p.err, p.warn, p.info} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// flag colours an already padded yes/no cell.
func (p palette) flag(cell string) string {
	if strings.TrimSpace(cell) == "yes" {
		return p.yes.Sprint(cell)
	}
	return p.no.Sprint(cell)
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

var tableHeader = []string{"NAME", "KIND", "SIZE", "ALIGN", "COPY", "DEBUG", "DTOR", "FLAGS"}

func renderPretty(w io.Writer, r *Report, opts RenderOptions) error {
	p := newPalette(opts.Color)
	maxName := opts.MaxNameWidth
	if maxName <= 0 {
		maxName = 40
	}

	rows := make([][]string, 0, len(r.Items))
	for _, v := range r.Items {
		size, align := "?", "?"
		if v.Layout != nil {
			size, align = strconv.Itoa(v.Layout.Size), strconv.Itoa(v.Layout.Align)
		}
		rows = append(rows, []string{
			truncate(v.Name, maxName),
			v.Kind,
			size,
			align,
			boolText(v.Copy),
			boolText(v.Debug),
			boolText(v.Destructor),
			flags(v),
		})
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", p.head.Sprint(r.Unit), r.Target)
	writeRow(&b, tableHeader, widths, func(_ int, s string) string { return p.head.Sprint(s) })
	for _, row := range rows {
		writeRow(&b, row, widths, func(col int, s string) string {
			switch col {
			case 4, 5, 6:
				return p.flag(s)
			}
			return s
		})
	}

	shown := make([]diag.Diagnostic, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		if opts.Quiet && d.Severity == diag.SevInfo {
			continue
		}
		shown = append(shown, d)
	}
	if len(shown) > 0 {
		b.WriteByte('\n')
		for _, d := range shown {
			line := diag.FormatShort([]diag.Diagnostic{d})
			label, rest, _ := strings.Cut(line, " ")
			b.WriteString(p.severity(d.Severity).Sprint(label))
			b.WriteByte(' ')
			b.WriteString(rest)
			b.WriteByte('\n')
		}
	}

	errs, warnings, infos := r.Counts()
	fmt.Fprintf(&b, "\n%s, %s, %s, %s\n",
		plural(len(r.Items), "item"),
		plural(errs, "error"),
		plural(warnings, "warning"),
		plural(infos, "info"))

	_, err := io.WriteString(w, b.String())
	return err
}

// writeRow pads cells by display width before styling so escape codes do
// not disturb alignment.
func writeRow(b *strings.Builder, row []string, widths []int, style func(col int, s string) string) {
	for i, cell := range row {
		if i > 0 {
			b.WriteString("  ")
		}
		padded := cell
		if i < len(row)-1 {
			if i == 2 || i == 3 {
				padded = runewidth.FillLeft(cell, widths[i])
			} else {
				padded = runewidth.FillRight(cell, widths[i])
			}
		}
		b.WriteString(style(i, padded))
	}
	b.WriteByte('\n')
}

func boolText(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func flags(v Verdict) string {
	var parts []string
	if v.Opaque {
		parts = append(parts, "opaque")
	}
	if v.Hidden {
		parts = append(parts, "hidden")
	}
	if !v.Toplevel {
		parts = append(parts, "nested")
	}
	return strings.Join(parts, ",")
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type jsonDiagnostic struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
	Notes    []string `json:"notes,omitempty"`
}

type jsonReport struct {
	Unit        string           `json:"unit"`
	Target      string           `json:"target"`
	Items       []Verdict        `json:"items"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

func renderJSON(w io.Writer, r *Report) error {
	out := jsonReport{
		Unit:        r.Unit,
		Target:      r.Target,
		Items:       r.Items,
		Diagnostics: make([]jsonDiagnostic, 0, len(r.Diagnostics)),
	}
	if out.Items == nil {
		out.Items = []Verdict{}
	}
	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, jsonDiagnostic{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Subject:  d.Subject,
			Message:  d.Message,
			Notes:    d.Notes,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
