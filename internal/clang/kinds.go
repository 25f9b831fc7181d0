package clang

import (
	"fmt"
	"strings"
)

// TypeKind enumerates the foreign type kinds cbind distinguishes.
// The zero value is TypeInvalid.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeUnexposed

	// builtin types

	TypeVoid
	TypeBool
	TypeCharU
	TypeUChar
	TypeChar16
	TypeChar32
	TypeUShort
	TypeUInt
	TypeULong
	TypeULongLong
	TypeUInt128
	TypeCharS
	TypeSChar
	TypeWChar
	TypeShort
	TypeInt
	TypeLong
	TypeLongLong
	TypeInt128
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypeNullPtr

	// compound and sugar types

	TypeComplex
	TypePointer
	TypeBlockPointer
	TypeLValueReference
	TypeRValueReference
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeFunctionNoProto
	TypeFunctionProto
	TypeConstantArray
	TypeVector
	TypeIncompleteArray
	TypeVariableArray
	TypeDependentSizedArray
	TypeMemberPointer
	TypeAuto
	TypeElaborated

	// TypeOther is the catch-all for parser kinds without a translation.
	TypeOther
)

var typeKindNames = [...]string{
	TypeInvalid:             "invalid",
	TypeUnexposed:           "unexposed",
	TypeVoid:                "void",
	TypeBool:                "bool",
	TypeCharU:               "char_u",
	TypeUChar:               "uchar",
	TypeChar16:              "char16",
	TypeChar32:              "char32",
	TypeUShort:              "ushort",
	TypeUInt:                "uint",
	TypeULong:               "ulong",
	TypeULongLong:           "ulonglong",
	TypeUInt128:             "uint128",
	TypeCharS:               "char_s",
	TypeSChar:               "schar",
	TypeWChar:               "wchar",
	TypeShort:               "short",
	TypeInt:                 "int",
	TypeLong:                "long",
	TypeLongLong:            "longlong",
	TypeInt128:              "int128",
	TypeFloat:               "float",
	TypeDouble:              "double",
	TypeLongDouble:          "longdouble",
	TypeNullPtr:             "nullptr",
	TypeComplex:             "complex",
	TypePointer:             "pointer",
	TypeBlockPointer:        "block_pointer",
	TypeLValueReference:     "lvalue_reference",
	TypeRValueReference:     "rvalue_reference",
	TypeRecord:              "record",
	TypeEnum:                "enum",
	TypeTypedef:             "typedef",
	TypeFunctionNoProto:     "function_no_proto",
	TypeFunctionProto:       "function_proto",
	TypeConstantArray:       "constant_array",
	TypeVector:              "vector",
	TypeIncompleteArray:     "incomplete_array",
	TypeVariableArray:       "variable_array",
	TypeDependentSizedArray: "dependent_sized_array",
	TypeMemberPointer:       "member_pointer",
	TypeAuto:                "auto",
	TypeElaborated:          "elaborated",
	TypeOther:               "other",
}

var typeKindByName = func() map[string]TypeKind {
	m := make(map[string]TypeKind, len(typeKindNames))
	for k, name := range typeKindNames {
		m[name] = TypeKind(k)
	}
	return m
}()

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) && typeKindNames[k] != "" {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// ParseTypeKind translates a parser kind name. Unknown names map to
// TypeOther and ok=false.
func ParseTypeKind(s string) (kind TypeKind, ok bool) {
	if k, found := typeKindByName[strings.ToLower(strings.TrimSpace(s))]; found {
		return k, true
	}
	return TypeOther, false
}

// IsBuiltin reports whether the kind is a primitive with no nested types.
func (k TypeKind) IsBuiltin() bool {
	return k >= TypeVoid && k <= TypeNullPtr
}

// CursorKind enumerates the declaration kinds cbind distinguishes.
type CursorKind uint8

const (
	CursorOther CursorKind = iota
	CursorTranslationUnit
	CursorStructDecl
	CursorUnionDecl
	CursorClassDecl
	CursorClassTemplate
	CursorEnumDecl
	CursorFieldDecl
	CursorEnumConstantDecl
	CursorFunctionDecl
	CursorVarDecl
	CursorParmDecl
	CursorTypedefDecl
	CursorTypeAliasDecl
	CursorDestructor
	CursorTemplateTypeParameter
	CursorBaseSpecifier
)

var cursorKindNames = [...]string{
	CursorOther:                 "other",
	CursorTranslationUnit:       "translation_unit",
	CursorStructDecl:            "struct",
	CursorUnionDecl:             "union",
	CursorClassDecl:             "class",
	CursorClassTemplate:         "class_template",
	CursorEnumDecl:              "enum",
	CursorFieldDecl:             "field",
	CursorEnumConstantDecl:      "enum_constant",
	CursorFunctionDecl:          "function",
	CursorVarDecl:               "var",
	CursorParmDecl:              "param",
	CursorTypedefDecl:           "typedef",
	CursorTypeAliasDecl:         "type_alias",
	CursorDestructor:            "destructor",
	CursorTemplateTypeParameter: "template_type_param",
	CursorBaseSpecifier:         "base",
}

var cursorKindByName = func() map[string]CursorKind {
	m := make(map[string]CursorKind, len(cursorKindNames))
	for k, name := range cursorKindNames {
		m[name] = CursorKind(k)
	}
	return m
}()

func (k CursorKind) String() string {
	if int(k) < len(cursorKindNames) && cursorKindNames[k] != "" {
		return cursorKindNames[k]
	}
	return fmt.Sprintf("CursorKind(%d)", k)
}

// ParseCursorKind translates a parser cursor kind name. Unknown names map
// to CursorOther and ok=false.
func ParseCursorKind(s string) (kind CursorKind, ok bool) {
	if k, found := cursorKindByName[strings.ToLower(strings.TrimSpace(s))]; found {
		return k, true
	}
	return CursorOther, false
}

// IsRecord reports whether the cursor declares a struct, union or class.
func (k CursorKind) IsRecord() bool {
	switch k {
	case CursorStructDecl, CursorUnionDecl, CursorClassDecl, CursorClassTemplate:
		return true
	default:
		return false
	}
}
