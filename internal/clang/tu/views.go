package tu

import (
	"cbind/internal/clang"
	"cbind/internal/layout"
)

type foreignType struct {
	unit      *Unit
	desc      *TypeDesc
	kind      clang.TypeKind
	layoutErr layout.LayoutErrorKind
}

func (t *foreignType) Kind() clang.TypeKind { return t.kind }

func (t *foreignType) Spelling() string {
	if t.desc.Spelling != "" {
		return t.desc.Spelling
	}
	return t.desc.ID
}

func (t *foreignType) Key() string { return t.desc.ID }

func (t *foreignType) Pointee() clang.Type       { return t.unit.Type(t.desc.Pointee) }
func (t *foreignType) Elem() clang.Type          { return t.unit.Type(t.desc.Elem) }
func (t *foreignType) Named() clang.Type         { return t.unit.Type(t.desc.Named) }
func (t *foreignType) Result() clang.Type        { return t.unit.Type(t.desc.Result) }
func (t *foreignType) Declaration() clang.Cursor { return t.unit.Decl(t.desc.Decl) }
func (t *foreignType) IsVariadic() bool          { return t.desc.Variadic }

func (t *foreignType) ArraySize() int64 {
	if t.desc.Size == nil {
		return -1
	}
	return *t.desc.Size
}

func (t *foreignType) Args() []clang.Type {
	if len(t.desc.Args) == 0 {
		return nil
	}
	out := make([]clang.Type, 0, len(t.desc.Args))
	for _, id := range t.desc.Args {
		out = append(out, t.unit.Type(id))
	}
	return out
}

// structuralRefs lists the type ids ingestion follows without going
// through a declaration.
func (t *foreignType) structuralRefs() []string {
	switch t.kind {
	case clang.TypeRecord, clang.TypeEnum, clang.TypeTypedef, clang.TypeUnexposed:
		return nil
	}
	var refs []string
	for _, id := range []string{t.desc.Pointee, t.desc.Elem, t.desc.Named, t.desc.Result} {
		if id != "" {
			refs = append(refs, id)
		}
	}
	return append(refs, t.desc.Args...)
}

func (t *foreignType) FallibleLayout() (layout.Layout, error) {
	if t.layoutErr != 0 {
		return layout.Layout{}, &layout.LayoutError{Kind: t.layoutErr, Spelling: t.Spelling()}
	}
	if t.desc.Layout == nil {
		return layout.Layout{}, &layout.LayoutError{Kind: layout.LayoutErrInvalid, Spelling: t.Spelling()}
	}
	return layout.New(t.desc.Layout.Size, t.desc.Layout.Align), nil
}

type cursor struct {
	unit *Unit
	desc *DeclDesc
	kind clang.CursorKind
}

func (c *cursor) Kind() clang.CursorKind       { return c.kind }
func (c *cursor) Spelling() string             { return c.desc.Name }
func (c *cursor) Type() clang.Type             { return c.unit.Type(c.desc.Type) }
func (c *cursor) Underlying() clang.Type       { return c.unit.Type(c.desc.Underlying) }
func (c *cursor) EnumValue() int64             { return c.desc.Value }
func (c *cursor) SemanticParent() clang.Cursor { return c.unit.Decl(c.desc.Parent) }

// USR falls back to the dump id when the parser did not emit one.
func (c *cursor) USR() string {
	if c.desc.USR != "" {
		return c.desc.USR
	}
	return "decl:" + c.desc.ID
}

func (c *cursor) isDefinition() bool {
	return c.desc.Definition || len(c.desc.Children) > 0
}

func (c *cursor) Definition() clang.Cursor {
	if !c.kind.IsRecord() {
		return c
	}
	if def, ok := c.unit.defs[c.USR()]; ok {
		return def
	}
	return nil
}

func (c *cursor) Children() []clang.Cursor {
	if len(c.desc.Children) == 0 {
		return nil
	}
	out := make([]clang.Cursor, 0, len(c.desc.Children))
	for _, id := range c.desc.Children {
		out = append(out, c.unit.Decl(id))
	}
	return out
}
