package ir

// EnumVariant is one enumerator.
type EnumVariant struct {
	Name  string
	Value int64
}

// Enum describes a foreign enumeration.
type Enum struct {
	// Repr is the underlying integer type, NoItemID when the parser did not
	// report one.
	Repr     ItemID
	Variants []EnumVariant
}

func (*Enum) KindName() string { return "enum" }
func (*Enum) isTypeKind()      {}
