package ir

import "cbind/internal/layout"

// CompKind distinguishes the composite flavours.
type CompKind uint8

const (
	CompStruct CompKind = iota + 1
	CompUnion
	CompClass
)

func (k CompKind) String() string {
	switch k {
	case CompStruct:
		return "struct"
	case CompUnion:
		return "union"
	case CompClass:
		return "class"
	default:
		return "composite"
	}
}

// Field is a data member of a composite.
type Field struct {
	Name string
	Type ItemID
}

// CompInfo describes a struct, union or class.
type CompInfo struct {
	Kind           CompKind
	Fields         []Field
	Bases          []ItemID
	TemplateParams []ItemID
	// HasDestructor is set when the declaration itself has a destructor;
	// inherited and member destructors are found by analysis.
	HasDestructor bool
}

func (*CompInfo) KindName() string { return "comp" }
func (*CompInfo) isTypeKind()      {}

// Layout computes the composite's layout from its members. It reports
// unknown when any member's layout is unknown.
func (ci *CompInfo) Layout(r TypeResolver) (layout.Layout, bool) {
	return ci.layoutIn(&layoutWalk{r: r})
}

func (ci *CompInfo) layoutIn(w *layoutWalk) (layout.Layout, bool) {
	if !w.enter(ci) {
		return layout.Layout{}, false
	}
	defer w.leave(ci)

	members := make([]layout.Layout, 0, len(ci.Bases)+len(ci.Fields))
	for _, base := range ci.Bases {
		l, ok := w.r.ResolveType(base).layoutIn(w)
		if !ok {
			return layout.Layout{}, false
		}
		members = append(members, l)
	}
	for _, f := range ci.Fields {
		l, ok := w.r.ResolveType(f.Type).layoutIn(w)
		if !ok {
			return layout.Layout{}, false
		}
		members = append(members, l)
	}
	if ci.Kind == CompUnion {
		return layout.Union(members), true
	}
	if len(members) == 0 && ci.Kind == CompClass {
		return layout.New(1, 1), true
	}
	return layout.Struct(members), true
}

// layoutWalk guards composite layout computation against malformed input
// where a composite contains itself by value.
type layoutWalk struct {
	r      TypeResolver
	active map[*CompInfo]struct{}
}

func (w *layoutWalk) enter(ci *CompInfo) bool {
	if w.active == nil {
		w.active = make(map[*CompInfo]struct{}, 4)
	}
	if _, ok := w.active[ci]; ok {
		return false
	}
	w.active[ci] = struct{}{}
	return true
}

func (w *layoutWalk) leave(ci *CompInfo) {
	delete(w.active, ci)
}
