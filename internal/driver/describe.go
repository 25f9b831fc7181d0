package driver

import (
	"fmt"
	"strings"

	"cbind/internal/ir"
)

// Describe renders a C-like spelling of the item, following ids until it
// reaches something named. Anonymous composites show as "<struct #id>".
func Describe(r ir.TypeResolver, id ir.ItemID) string {
	return describe(r, id, 0)
}

// maxDescribeDepth bounds pointer chains in malformed graphs.
const maxDescribeDepth = 16

func describe(r ir.TypeResolver, id ir.ItemID, depth int) string {
	if depth > maxDescribeDepth {
		return "..."
	}
	ty := r.ResolveType(id)
	switch k := ty.Kind().(type) {
	case ir.Pointer:
		return describe(r, k.Target, depth+1) + " *"
	case ir.Reference:
		return describe(r, k.Target, depth+1) + " &"
	case ir.Array:
		return fmt.Sprintf("%s[%d]", describe(r, k.Elem, depth+1), k.Len)
	case *ir.FunctionSig:
		if ty.Name() != "" {
			return ty.Name()
		}
		params := make([]string, 0, len(k.Params)+1)
		for _, p := range k.Params {
			params = append(params, describe(r, p.Type, depth+1))
		}
		if k.Variadic {
			params = append(params, "...")
		}
		return fmt.Sprintf("%s (%s)", describe(r, k.Return, depth+1), strings.Join(params, ", "))
	case *ir.CompInfo:
		if ty.Name() != "" {
			return ty.Name()
		}
		return fmt.Sprintf("<%s #%d>", k.Kind, id)
	default:
		if ty.Name() != "" {
			return ty.Name()
		}
		return fmt.Sprintf("<%s #%d>", k.KindName(), id)
	}
}

func subjectOf(ty *ir.Type, id ir.ItemID) string {
	if ty.Name() != "" {
		return ty.Name()
	}
	return fmt.Sprintf("#%d", id)
}
