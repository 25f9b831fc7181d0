package ir

import (
	"fmt"

	"cbind/internal/layout"
)

// Type is one distinct foreign type.
type Type struct {
	// name is empty for anonymous aggregates.
	name string
	// layout is nil when unknown.
	layout *layout.Layout
	opaque bool
	hide   bool
	kind   TypeKind
	// isToplevel is false for types declared inside another aggregate;
	// those are generated by the declaring aggregate.
	isToplevel bool
}

// NewType builds a type with all flags cleared. A nil layout means unknown.
func NewType(name string, l *layout.Layout, kind TypeKind) *Type {
	t := &Type{name: name, kind: kind}
	if l != nil {
		cp := *l
		t.layout = &cp
	}
	return t
}

// Name returns the display name; empty for anonymous types.
func (t *Type) Name() string {
	return t.name
}

func (t *Type) Kind() TypeKind {
	return t.kind
}

// Layout returns the explicit layout or, for composites, the layout the
// composite computes from its members.
func (t *Type) Layout(r TypeResolver) (layout.Layout, bool) {
	return t.layoutIn(&layoutWalk{r: r})
}

func (t *Type) layoutIn(w *layoutWalk) (layout.Layout, bool) {
	if t.layout != nil {
		return *t.layout, true
	}
	if ci, ok := t.kind.(*CompInfo); ok {
		return ci.layoutIn(w)
	}
	return layout.Layout{}, false
}

// IsOpaque reports whether the type must be treated as an uninspectable blob.
func (t *Type) IsOpaque(_ TypeResolver) bool {
	return t.opaque
}

func (t *Type) IsHidden() bool   { return t.hide }
func (t *Type) IsToplevel() bool { return t.isToplevel }

func (t *Type) SetOpaque(v bool)   { t.opaque = v }
func (t *Type) SetHidden(v bool)   { t.hide = v }
func (t *Type) SetToplevel(v bool) { t.isToplevel = v }

func (t *Type) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s %s", t.kind.KindName(), t.name)
	}
	return t.kind.KindName()
}

// TypeKind is the structural payload of a Type. The variant set is closed:
// Void, NullPtr, *CompInfo, Int, Float, Alias, Array, *FunctionSig, *Enum,
// Pointer, Reference and Named.
type TypeKind interface {
	KindName() string
	isTypeKind()
}

// Void is the empty foreign type.
type Void struct{}

// NullPtr is the type of the null-pointer constant.
type NullPtr struct{}

type Int struct{ Kind IntKind }

type Float struct{ Kind FloatKind }

// Alias is a typedef naming another type.
type Alias struct {
	Name   string
	Target ItemID
}

// Array is a fixed-length array; Len counts elements.
type Array struct {
	Elem ItemID
	Len  uint32
}

type Pointer struct{ Target ItemID }

// Reference is never null and never re-bound, unlike Pointer.
type Reference struct{ Target ItemID }

// Named is an unresolved template parameter.
type Named struct{ Name string }

func (Void) KindName() string      { return "void" }
func (NullPtr) KindName() string   { return "nullptr" }
func (Int) KindName() string       { return "int" }
func (Float) KindName() string     { return "float" }
func (Alias) KindName() string     { return "alias" }
func (Array) KindName() string     { return "array" }
func (Pointer) KindName() string   { return "pointer" }
func (Reference) KindName() string { return "reference" }
func (Named) KindName() string     { return "named" }

func (Void) isTypeKind()      {}
func (NullPtr) isTypeKind()   {}
func (Int) isTypeKind()       {}
func (Float) isTypeKind()     {}
func (Alias) isTypeKind()     {}
func (Array) isTypeKind()     {}
func (Pointer) isTypeKind()   {}
func (Reference) isTypeKind() {}
func (Named) isTypeKind()     {}
