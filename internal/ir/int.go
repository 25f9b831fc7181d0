package ir

import "fmt"

// IntKind distinguishes the integer-like builtin types. Booleans and
// character types count as integers.
type IntKind uint8

const (
	IntBool IntKind = iota + 1
	IntChar
	IntSChar
	IntUChar
	IntWChar
	IntChar16
	IntChar32
	IntShort
	IntUShort
	IntInt
	IntUInt
	IntLong
	IntULong
	IntLongLong
	IntULongLong
	IntInt128
	IntUInt128
)

func (k IntKind) String() string {
	switch k {
	case IntBool:
		return "bool"
	case IntChar:
		return "char"
	case IntSChar:
		return "signed char"
	case IntUChar:
		return "unsigned char"
	case IntWChar:
		return "wchar_t"
	case IntChar16:
		return "char16_t"
	case IntChar32:
		return "char32_t"
	case IntShort:
		return "short"
	case IntUShort:
		return "unsigned short"
	case IntInt:
		return "int"
	case IntUInt:
		return "unsigned int"
	case IntLong:
		return "long"
	case IntULong:
		return "unsigned long"
	case IntLongLong:
		return "long long"
	case IntULongLong:
		return "unsigned long long"
	case IntInt128:
		return "__int128"
	case IntUInt128:
		return "unsigned __int128"
	default:
		return fmt.Sprintf("IntKind(%d)", k)
	}
}

// FloatKind distinguishes the floating-point builtin types.
type FloatKind uint8

const (
	FloatFloat FloatKind = iota + 1
	FloatDouble
	FloatLongDouble
)

func (k FloatKind) String() string {
	switch k {
	case FloatFloat:
		return "float"
	case FloatDouble:
		return "double"
	case FloatLongDouble:
		return "long double"
	default:
		return fmt.Sprintf("FloatKind(%d)", k)
	}
}
