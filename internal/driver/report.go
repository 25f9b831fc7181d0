package driver

import (
	"context"
	"fmt"

	"cbind/internal/diag"
)

const reportSchemaVersion uint16 = 1

// Report is the outcome of one inspect run, as rendered and cached.
type Report struct {
	Schema      uint16            `msgpack:"schema"`
	Unit        string            `msgpack:"unit"`
	Target      string            `msgpack:"target"`
	Items       []Verdict         `msgpack:"items"`
	Diagnostics []diag.Diagnostic `msgpack:"diagnostics"`
}

// InspectOptions select what an inspect run reports on.
type InspectOptions struct {
	// All reports on every registered item instead of the roots only.
	All  bool
	Jobs int
}

// Inspect analyses g and assembles its report. Opaque roots get an
// informational diagnostic since nothing can be derived for them.
func Inspect(ctx context.Context, g *Graph, opts InspectOptions) (*Report, error) {
	ids := g.Roots
	if opts.All {
		ids = g.Ctx.IDs()
	}
	verdicts, err := Analyze(ctx, g, ids, opts.Jobs)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", g.Unit, err)
	}

	for _, v := range verdicts {
		if v.Opaque && v.Toplevel {
			diag.ReportInfo(diag.BagReporter{Bag: g.Bag}, diag.AnalysisOpaqueBlob, v.Name,
				"treated as an opaque blob; no capabilities derived").Emit()
		}
	}
	g.Bag.Sort()

	return &Report{
		Schema:      reportSchemaVersion,
		Unit:        g.Unit,
		Target:      g.Ctx.Target().Triple,
		Items:       verdicts,
		Diagnostics: g.Bag.Items(),
	}, nil
}

// Counts summarises the report's diagnostics by severity.
func (r *Report) Counts() (errs, warnings, infos int) {
	for _, d := range r.Diagnostics {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warnings++
		default:
			infos++
		}
	}
	return errs, warnings, infos
}
