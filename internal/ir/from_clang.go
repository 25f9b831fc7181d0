package ir

import (
	"fmt"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"cbind/internal/clang"
	"cbind/internal/diag"
)

// TypeResult is the successful outcome of FromClangTy: AlreadyResolved or
// New.
type TypeResult interface {
	isTypeResult()
}

// AlreadyResolved means the foreign type maps to an existing item.
type AlreadyResolved struct {
	ID ItemID
}

// New carries a freshly built type for the caller to register.
type New struct {
	Type   *Type
	Origin clang.Cursor
}

func (AlreadyResolved) isTypeResult() {}
func (New) isTypeResult()             {}

// FromClangTy translates one foreign type. Structural kinds are built
// directly, with their nested types ingested through ctx; declaration
// carrying kinds answer ErrRecurse so the caller resolves the declaration
// instead; kinds outside the supported set answer ErrContinue.
func FromClangTy(ty clang.Type, ctx *Context) (TypeResult, error) {
	if ty == nil {
		return nil, &ParseError{Kind: ParseFatal, Code: diag.IngestInvalidType, Detail: "missing type"}
	}
	if id, ok := ctx.BuiltinOrResolvedTy(ty); ok {
		return AlreadyResolved{ID: id}, nil
	}

	l := ctx.layoutOf(ty)
	decl := ty.Declaration()

	var kind TypeKind
	switch ty.Kind() {
	case clang.TypeInvalid:
		return nil, &ParseError{Kind: ParseFatal, Type: ty, Code: diag.IngestInvalidType, Detail: "invalid type"}

	case clang.TypePointer:
		inner, err := nestedItem(ctx, ty, ty.Pointee(), "pointee")
		if err != nil {
			return nil, err
		}
		kind = Pointer{Target: inner}

	case clang.TypeLValueReference:
		inner, err := nestedItem(ctx, ty, ty.Pointee(), "pointee")
		if err != nil {
			return nil, err
		}
		kind = Reference{Target: inner}

	case clang.TypeVariableArray, clang.TypeDependentSizedArray, clang.TypeIncompleteArray:
		// No element count: degrade to a pointer to the element.
		inner, err := nestedItem(ctx, ty, ty.Elem(), "array element")
		if err != nil {
			return nil, err
		}
		kind = Pointer{Target: inner}

	case clang.TypeConstantArray:
		n, err := safecast.Conv[uint32](ty.ArraySize())
		if err != nil {
			return nil, &ParseError{
				Kind:   ParseFatal,
				Type:   ty,
				Code:   diag.IngestNegativeArraySize,
				Detail: fmt.Sprintf("array size %d", ty.ArraySize()),
				Cause:  err,
			}
		}
		inner, err := nestedItem(ctx, ty, ty.Elem(), "array element")
		if err != nil {
			return nil, err
		}
		kind = Array{Elem: inner, Len: n}

	case clang.TypeFunctionProto:
		sig, err := FunctionSigFromTy(ty, decl, ctx)
		if err != nil {
			return nil, &ParseError{
				Kind:   ParseFatal,
				Type:   ty,
				Code:   diag.IngestNestedFailure,
				Detail: "cannot resolve signature",
				Cause:  err,
			}
		}
		kind = sig

	case clang.TypeRecord, clang.TypeTypedef, clang.TypeUnexposed, clang.TypeEnum:
		return nil, &ParseError{Kind: ParseRecurse, Type: ty}

	case clang.TypeElaborated:
		named := ty.Named()
		if named == nil {
			return nil, &ParseError{Kind: ParseFatal, Type: ty, Code: diag.IngestNestedFailure, Detail: "elaborated type names nothing"}
		}
		return FromClangTy(named, ctx)

	default:
		ctx.logger.Warn("unsupported type",
			zap.Stringer("kind", ty.Kind()),
			zap.String("spelling", ty.Spelling()))
		return nil, &ParseError{Kind: ParseContinue, Type: ty, Code: diag.IngestUnsupportedType, Detail: "unsupported type"}
	}

	return New{Type: NewType("", l, kind), Origin: decl}, nil
}

// nestedItem ingests the pointee or element of a structural type. Any
// failure is fatal for the containing type.
func nestedItem(ctx *Context, outer, inner clang.Type, role string) (ItemID, error) {
	if inner == nil {
		return NoItemID, &ParseError{Kind: ParseFatal, Type: outer, Code: diag.IngestNestedFailure, Detail: "missing " + role}
	}
	id, err := ctx.ItemFromTy(inner)
	if err != nil {
		return NoItemID, &ParseError{
			Kind:   ParseFatal,
			Type:   outer,
			Code:   diag.IngestNestedFailure,
			Detail: "cannot resolve " + role,
			Cause:  err,
		}
	}
	return id, nil
}
