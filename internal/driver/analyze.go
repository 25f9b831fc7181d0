package driver

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cbind/internal/ir"
	"cbind/internal/layout"
)

// ErrNotFrozen is returned when analysis is asked to run over a graph that
// is still being built.
var ErrNotFrozen = errors.New("driver: analysis requires a frozen graph")

// Verdict is what a code generator needs to know about one item.
type Verdict struct {
	ID       ir.ItemID      `json:"id" msgpack:"id"`
	Name     string         `json:"name" msgpack:"name"`
	Kind     string         `json:"kind" msgpack:"kind"`
	Layout   *layout.Layout `json:"layout,omitempty" msgpack:"layout,omitempty"`
	Opaque   bool           `json:"opaque,omitempty" msgpack:"opaque,omitempty"`
	Hidden   bool           `json:"hidden,omitempty" msgpack:"hidden,omitempty"`
	Toplevel bool           `json:"toplevel" msgpack:"toplevel"`

	Debug       bool `json:"derive_debug" msgpack:"derive_debug"`
	Copy        bool `json:"derive_copy" msgpack:"derive_copy"`
	CopyInArray bool `json:"derive_copy_in_array" msgpack:"derive_copy_in_array"`
	Destructor  bool `json:"has_destructor" msgpack:"has_destructor"`
}

// Analyze answers every derivability question for ids, fanning the work
// out over at most jobs goroutines. Results keep the order of ids.
func Analyze(ctx context.Context, g *Graph, ids []ir.ItemID, jobs int) ([]Verdict, error) {
	if g == nil || g.Ctx == nil || !g.Ctx.Frozen() {
		return nil, ErrNotFrozen
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns its index.
	results := make([]Verdict, len(ids))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(jobs, len(ids)))

	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			select {
			case <-egctx.Done():
				return egctx.Err()
			default:
			}
			results[i] = verdictFor(g.Ctx, id)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func verdictFor(r ir.TypeResolver, id ir.ItemID) Verdict {
	ty := r.ResolveType(id)
	v := Verdict{
		ID:          id,
		Name:        Describe(r, id),
		Kind:        ty.Kind().KindName(),
		Opaque:      ty.IsOpaque(r),
		Hidden:      ty.IsHidden(),
		Toplevel:    ty.IsToplevel(),
		Debug:       ty.CanDeriveDebug(r),
		Copy:        ty.CanDeriveCopy(r),
		CopyInArray: ty.CanDeriveCopyInArray(r),
		Destructor:  ty.HasDestructor(r),
	}
	if ci, ok := ty.Kind().(*ir.CompInfo); ok {
		v.Kind = ci.Kind.String()
	}
	if l, ok := ty.Layout(r); ok {
		v.Layout = &l
	}
	return v
}
