package driver

import (
	"errors"

	"go.uber.org/zap"

	"cbind/internal/clang"
	"cbind/internal/clang/tu"
	"cbind/internal/diag"
	"cbind/internal/ir"
)

// Graph is the frozen result of ingesting one dump.
type Graph struct {
	Unit string
	Ctx  *ir.Context
	// Roots are the items of the top-level declarations, in dump order and
	// without repeats.
	Roots []ir.ItemID
	Bag   *diag.Bag
}

// Build ingests every top-level declaration of unit. Failures become
// diagnostics and never stop the walk. The returned graph is frozen.
func Build(unit *tu.Unit, opts ir.Options, maxDiagnostics int) *Graph {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	opts.Reporter = reporter

	ctx := ir.NewContext(opts)
	g := &Graph{Unit: unit.Name, Ctx: ctx, Bag: bag}
	seen := make(map[ir.ItemID]struct{})

	decls := unit.TopLevel()
	opts.Logger.Debug("ingest", zap.String("unit", unit.Name), zap.Int("decls", len(decls)))
	for _, decl := range decls {
		id, err := ctx.ItemFromDecl(decl)
		if err != nil {
			opts.Logger.Debug("declaration not ingested",
				zap.String("decl", decl.Spelling()),
				zap.Stringer("kind", ir.KindOf(err)),
				zap.Error(err))
			reportDeclError(reporter, decl, err)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		g.Roots = append(g.Roots, id)
	}
	ctx.Freeze()

	for _, id := range g.Roots {
		ty := ctx.ResolveType(id)
		if !needsLayout(ty) {
			continue
		}
		if _, ok := ty.Layout(ctx); !ok {
			diag.ReportInfo(reporter, diag.IngestUnknownLayout, subjectOf(ty, id),
				"layout unknown; generated code will treat it as incomplete").Emit()
		}
	}
	opts.Logger.Debug("ingest done",
		zap.Int("items", ctx.Len()),
		zap.Int("roots", len(g.Roots)),
		zap.Int("diagnostics", bag.Len()))
	return g
}

func reportDeclError(r diag.Reporter, decl clang.Cursor, err error) {
	code := ir.DiagCode(err)
	sev := diag.SevError
	var perr *ir.ParseError
	if errors.As(err, &perr) && perr.Recoverable() {
		sev = diag.SevWarning
		if code == diag.IngestUnsupportedDecl {
			sev = diag.SevInfo
		}
	}
	subject := decl.Spelling()
	if subject == "" {
		subject = decl.USR()
	}
	diag.NewReportBuilder(r, sev, code, subject, err.Error()).
		WithNote("declared as " + decl.Kind().String()).
		Emit()
}

// needsLayout: functions, void and template parameters have no storage of
// their own to describe.
func needsLayout(ty *ir.Type) bool {
	switch ty.Kind().(type) {
	case *ir.FunctionSig, ir.Void, ir.Named:
		return false
	default:
		return true
	}
}
