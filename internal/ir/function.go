package ir

import (
	"fmt"

	"cbind/internal/clang"
)

// Param is one formal parameter; Name is empty when the prototype has none.
type Param struct {
	Name string
	Type ItemID
}

// FunctionSig is the signature of a callable type.
type FunctionSig struct {
	Return   ItemID
	Params   []Param
	Variadic bool
}

func (*FunctionSig) KindName() string { return "function" }
func (*FunctionSig) isTypeKind()      {}

// FunctionSigFromTy ingests the return and parameter types of a function
// prototype. Parameter names come from decl when it is a function
// declaration.
func FunctionSigFromTy(ty clang.Type, decl clang.Cursor, ctx *Context) (*FunctionSig, error) {
	ret, err := ctx.ItemFromTy(ty.Result())
	if err != nil {
		return nil, fmt.Errorf("return type of `%s`: %w", ty.Spelling(), err)
	}
	names := paramNames(decl)
	args := ty.Args()
	sig := &FunctionSig{
		Return:   ret,
		Params:   make([]Param, 0, len(args)),
		Variadic: ty.IsVariadic(),
	}
	for i, arg := range args {
		id, err := ctx.ItemFromTy(arg)
		if err != nil {
			return nil, fmt.Errorf("parameter %d of `%s`: %w", i, ty.Spelling(), err)
		}
		p := Param{Type: id}
		if i < len(names) {
			p.Name = names[i]
		}
		sig.Params = append(sig.Params, p)
	}
	return sig, nil
}

func paramNames(decl clang.Cursor) []string {
	if decl == nil || decl.Kind() != clang.CursorFunctionDecl {
		return nil
	}
	var names []string
	for _, c := range decl.Children() {
		if c.Kind() == clang.CursorParmDecl {
			names = append(names, c.Spelling())
		}
	}
	return names
}
