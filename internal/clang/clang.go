package clang

import "cbind/internal/layout"

// Type is a foreign type description.
type Type interface {
	Kind() TypeKind
	// Spelling is the type as written, e.g. "const struct foo *".
	Spelling() string
	// Key identifies the foreign type. Two descriptions with the same key
	// denote the same type.
	Key() string

	// Pointee is the target of pointer and reference types.
	Pointee() Type
	// Elem is the element type of array kinds.
	Elem() Type
	// ArraySize is the declared element count of a constant array, or -1.
	ArraySize() int64
	// Named is the type an elaborated type desugars to.
	Named() Type
	// Declaration is the cursor declaring the type, nil for builtins and
	// structural types.
	Declaration() Cursor

	// Result and Args describe function prototypes.
	Result() Type
	Args() []Type
	IsVariadic() bool

	// FallibleLayout reports the size and alignment the parser computed.
	FallibleLayout() (layout.Layout, error)
}

// Cursor is a handle to a foreign declaration.
type Cursor interface {
	Kind() CursorKind
	// Spelling is the declared name; empty for anonymous declarations.
	Spelling() string
	// USR uniquely identifies the declaration across all its spellings.
	USR() string
	// Type is the type the cursor declares or is declared with.
	Type() Type
	// Underlying is the aliased type of typedef declarations.
	Underlying() Type
	// EnumValue is the value of an enum constant.
	EnumValue() int64
	Children() []Cursor
	// SemanticParent is the declaring scope; nil at the translation unit.
	SemanticParent() Cursor
	// Definition is the cursor that defines the entity, which may be the
	// cursor itself. Records that are only forward declared have none.
	Definition() Cursor
}

// IsTopLevel reports whether the cursor is declared directly in the
// translation unit.
func IsTopLevel(c Cursor) bool {
	if c == nil {
		return false
	}
	p := c.SemanticParent()
	return p == nil || p.Kind() == CursorTranslationUnit
}
