package ir_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbind/internal/clang"
	"cbind/internal/clang/tu"
	"cbind/internal/diag"
	"cbind/internal/ir"
	"cbind/internal/layout"
)

const builtinCount = 23

func loadSample(t *testing.T) *tu.Unit {
	t.Helper()
	u, err := tu.Load("testdata/sample.toml")
	require.NoError(t, err)
	return u
}

func newCtx(t *testing.T, opts ir.Options) (*ir.Context, *tu.Unit) {
	t.Helper()
	return ir.NewContext(opts), loadSample(t)
}

func mustItem(t *testing.T, ctx *ir.Context, ty clang.Type) (ir.ItemID, *ir.Type) {
	t.Helper()
	require.NotNil(t, ty)
	id, err := ctx.ItemFromTy(ty)
	require.NoError(t, err)
	return id, ctx.ResolveType(id)
}

func TestBuiltinsAreSeeded(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	assert.Equal(t, builtinCount, ctx.Len())

	id, ty := mustItem(t, ctx, u.Type("int"))
	builtin, ok := ctx.BuiltinID(clang.TypeInt)
	require.True(t, ok)
	assert.Equal(t, builtin, id)
	assert.Equal(t, ir.Int{Kind: ir.IntInt}, ty.Kind())

	_, ch := mustItem(t, ctx, u.Type("char"))
	assert.Equal(t, "char", ch.Name())

	_, void := mustItem(t, ctx, u.Type("void"))
	_, ok = void.Layout(ctx)
	assert.False(t, ok)

	assert.Equal(t, builtinCount, ctx.Len(), "builtins never register twice")
}

func TestUnsignedPlainCharKeepsItsSpelling(t *testing.T) {
	ctx := ir.NewContext(ir.Options{})
	charU, ok := ctx.BuiltinID(clang.TypeCharU)
	require.True(t, ok)
	uchar, ok := ctx.BuiltinID(clang.TypeUChar)
	require.True(t, ok)
	assert.NotEqual(t, uchar, charU)

	ty := ctx.ResolveType(charU)
	assert.Equal(t, "char", ty.Name())
	assert.Equal(t, ir.Int{Kind: ir.IntChar}, ty.Kind())
}

func TestBuiltinLayoutsFollowTarget(t *testing.T) {
	win := ir.NewContext(ir.Options{Target: layout.X86_64PCWindowsMSVC()})
	linux := ir.NewContext(ir.Options{})

	long := func(ctx *ir.Context) layout.Layout {
		id, ok := ctx.BuiltinID(clang.TypeLong)
		require.True(t, ok)
		l, ok := ctx.ResolveType(id).Layout(ctx)
		require.True(t, ok)
		return l
	}
	assert.Equal(t, layout.Layout{Size: 4, Align: 4}, long(win))
	assert.Equal(t, layout.Layout{Size: 8, Align: 8}, long(linux))
}

func TestDedupReturnsSameItem(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})

	first, _ := mustItem(t, ctx, u.Type("node_ptr"))
	n := ctx.Len()
	second, _ := mustItem(t, ctx, u.Type("node_ptr"))
	assert.Equal(t, first, second)
	assert.Equal(t, n, ctx.Len())

	res, err := ir.FromClangTy(u.Type("node_ptr"), ctx)
	require.NoError(t, err)
	assert.Equal(t, ir.AlreadyResolved{ID: first}, res)
	assert.Equal(t, n, ctx.Len())
}

func TestSelfReferentialStruct(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})

	ptrID, ptr := mustItem(t, ctx, u.Type("node_ptr"))
	p, ok := ptr.Kind().(ir.Pointer)
	require.True(t, ok)

	node := ctx.ResolveType(p.Target)
	assert.Equal(t, "node", node.Name())
	assert.True(t, node.IsToplevel())
	ci, ok := node.Kind().(*ir.CompInfo)
	require.True(t, ok)
	assert.Equal(t, ir.CompStruct, ci.Kind)
	require.Len(t, ci.Fields, 2)
	assert.Equal(t, "next", ci.Fields[1].Name)
	assert.Equal(t, ptrID, ci.Fields[1].Type)

	assert.True(t, node.CanDeriveCopy(ctx))
	assert.True(t, node.CanDeriveDebug(ctx))
	assert.False(t, node.HasDestructor(ctx))

	l, ok := node.Layout(ctx)
	require.True(t, ok)
	assert.Equal(t, layout.Layout{Size: 16, Align: 8}, l)

	assert.Equal(t, builtinCount+2, ctx.Len(), "node and node* only")
}

func TestElaboratedResolvesLikeBareType(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})

	elab, _ := mustItem(t, ctx, u.Type("node_elab"))
	bare, _ := mustItem(t, ctx, u.Type("node_rec"))
	decl, err := ctx.ItemFromDecl(u.Decl("node"))
	require.NoError(t, err)

	assert.Equal(t, elab, bare)
	assert.Equal(t, elab, decl)
	byUSR, ok := ctx.LookupDecl("c:@S@node")
	require.True(t, ok)
	assert.Equal(t, elab, byUSR)
}

func TestRecordTypesAskForDeclaration(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})

	for _, id := range []string{"node_rec", "node_t", "color_ty", "T_ty"} {
		_, err := ir.FromClangTy(u.Type(id), ctx)
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, ir.ErrRecurse), id)

		var perr *ir.ParseError
		require.True(t, errors.As(err, &perr))
		assert.True(t, perr.Recoverable())
		require.NotNil(t, perr.Type.Declaration())
	}
	assert.Equal(t, builtinCount, ctx.Len())
}

func TestTypedefChains(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})

	id, alias := mustItem(t, ctx, u.Type("node_alias_t"))
	assert.Equal(t, "node_alias_t", alias.Name())
	a, ok := alias.Kind().(ir.Alias)
	require.True(t, ok)

	mid := ctx.ResolveType(a.Target)
	assert.Equal(t, "node_t", mid.Name())
	b, ok := mid.Kind().(ir.Alias)
	require.True(t, ok)
	node, _ := mustItem(t, ctx, u.Type("node_rec"))
	assert.Equal(t, node, b.Target)

	assert.True(t, alias.CanDeriveCopy(ctx))
	assert.True(t, alias.CanDeriveDebug(ctx))

	again, _ := mustItem(t, ctx, u.Type("node_alias_t"))
	assert.Equal(t, id, again)
}

func TestArrays(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	intID, _ := ctx.BuiltinID(clang.TypeInt)

	_, a32 := mustItem(t, ctx, u.Type("int32"))
	assert.Equal(t, ir.Array{Elem: intID, Len: 32}, a32.Kind())
	assert.True(t, a32.CanDeriveDebug(ctx))
	assert.True(t, a32.CanDeriveCopy(ctx))

	_, a33 := mustItem(t, ctx, u.Type("int33"))
	assert.False(t, a33.CanDeriveDebug(ctx))
	assert.False(t, a33.CanDeriveCopy(ctx))

	_, flex := mustItem(t, ctx, u.Type("int_flex"))
	assert.Equal(t, ir.Pointer{Target: intID}, flex.Kind())

	_, ref := mustItem(t, ctx, u.Type("int_ref"))
	assert.Equal(t, ir.Reference{Target: intID}, ref.Kind())
}

func TestFatalInputs(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})

	tests := []struct {
		id   string
		code diag.Code
	}{
		{"bogus", diag.IngestInvalidType},
		{"int_neg", diag.IngestNegativeArraySize},
		{"f4_ptr", diag.IngestNestedFailure},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			before := ctx.Len()
			_, err := ctx.ItemFromTy(u.Type(tt.id))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ir.ErrFatal))
			assert.False(t, errors.Is(err, ir.ErrContinue))
			assert.Equal(t, ir.ParseFatal, ir.KindOf(err))
			assert.Equal(t, tt.code, ir.DiagCode(err))
			assert.Equal(t, before, ctx.Len())
		})
	}

	_, err := ir.FromClangTy(nil, ctx)
	assert.True(t, errors.Is(err, ir.ErrFatal))
}

func TestUnsupportedKindIsSkippable(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	before := ctx.Len()

	res, err := ir.FromClangTy(u.Type("f4"), ctx)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrContinue))
	assert.False(t, errors.Is(err, ir.ErrFatal))
	assert.Equal(t, diag.IngestUnsupportedType, ir.DiagCode(err))
	assert.Equal(t, before, ctx.Len())

	_, err = ctx.ItemFromTy(u.Type("f4"))
	assert.True(t, errors.Is(err, ir.ErrContinue))
	assert.Equal(t, before, ctx.Len())

	// A typedef of it is skipped as well and leaves nothing behind.
	_, err = ctx.ItemFromDecl(u.Decl("f4_t"))
	assert.True(t, errors.Is(err, ir.ErrContinue))
	assert.Equal(t, before, ctx.Len())
	_, ok := ctx.LookupDecl("c:sample.h@T@f4_t")
	assert.False(t, ok)
}

func TestMemberOfUnsupportedTypeMakesCompositeOpaque(t *testing.T) {
	bag := diag.NewBag(16)
	ctx, u := newCtx(t, ir.Options{Reporter: diag.BagReporter{Bag: bag}})

	id, err := ctx.ItemFromDecl(u.Decl("vec_holder"))
	require.NoError(t, err)
	ty := ctx.ResolveType(id)

	assert.True(t, ty.IsOpaque(ctx))
	assert.False(t, ty.CanDeriveCopy(ctx))
	assert.False(t, ty.CanDeriveDebug(ctx))
	assert.True(t, ty.HasDestructor(ctx))
	ci := ty.Kind().(*ir.CompInfo)
	require.Len(t, ci.Fields, 1)
	assert.Equal(t, "n", ci.Fields[0].Name)

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, diag.IngestMemberDropped, d.Code)
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Equal(t, "vec_holder", d.Subject)
}

func TestEnumDecl(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	_, ty := mustItem(t, ctx, u.Type("color_ty"))

	e, ok := ty.Kind().(*ir.Enum)
	require.True(t, ok)
	uintID, _ := ctx.BuiltinID(clang.TypeUInt)
	assert.Equal(t, uintID, e.Repr)
	assert.Equal(t, []ir.EnumVariant{{Name: "RED", Value: 0}, {Name: "GREEN", Value: 4}}, e.Variants)
	assert.True(t, ty.CanDeriveCopy(ctx))
}

func TestUnionLayoutComputedFromFields(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	_, ty := mustItem(t, ctx, u.Type("word_rec"))

	assert.Equal(t, ir.CompUnion, ty.Kind().(*ir.CompInfo).Kind)
	l, ok := ty.Layout(ctx)
	require.True(t, ok)
	assert.Equal(t, layout.Layout{Size: 8, Align: 8}, l)
	assert.True(t, ty.CanDeriveDebug(ctx))
	assert.True(t, ty.CanDeriveCopy(ctx))
}

func TestFunctionDecl(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	intID, _ := ctx.BuiltinID(clang.TypeInt)

	id, err := ctx.ItemFromDecl(u.Decl("add"))
	require.NoError(t, err)
	ty := ctx.ResolveType(id)
	assert.Equal(t, "add", ty.Name())
	assert.Equal(t, &ir.FunctionSig{
		Return: intID,
		Params: []ir.Param{{Name: "a", Type: intID}, {Name: "b", Type: intID}},
	}, ty.Kind())

	// The bare prototype carries no parameter names.
	_, proto := mustItem(t, ctx, u.Type("add_fn"))
	sig := proto.Kind().(*ir.FunctionSig)
	require.Len(t, sig.Params, 2)
	assert.Empty(t, sig.Params[0].Name)
}

func TestDestructorClass(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	_, ty := mustItem(t, ctx, u.Type("resource_rec"))

	ci := ty.Kind().(*ir.CompInfo)
	assert.Equal(t, ir.CompClass, ci.Kind)
	assert.True(t, ci.HasDestructor)
	assert.True(t, ty.HasDestructor(ctx))
	assert.False(t, ty.CanDeriveCopy(ctx))
}

func TestClassTemplate(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	boxID, box := mustItem(t, ctx, u.Type("box_rec"))

	ci := box.Kind().(*ir.CompInfo)
	require.Len(t, ci.TemplateParams, 1)
	param := ctx.ResolveType(ci.TemplateParams[0])
	assert.Equal(t, ir.Named{Name: "T"}, param.Kind())
	assert.False(t, param.IsToplevel())

	require.Len(t, ci.Fields, 2)
	items := ctx.ResolveType(ci.Fields[0].Type)
	assert.Equal(t, ir.Array{Elem: ci.TemplateParams[0], Len: 4}, items.Kind())
	assert.True(t, items.CanDeriveCopy(ctx))
	assert.False(t, items.CanDeriveCopyInArray(ctx))
	assert.False(t, box.CanDeriveCopy(ctx))

	innerID, ok := ctx.LookupDecl("c:@ST>1#T@box@S@inner")
	require.True(t, ok)
	assert.Equal(t, innerID, ci.Fields[1].Type)
	inner, ok := ctx.Item(innerID)
	require.True(t, ok)
	assert.Equal(t, boxID, inner.Parent)
	assert.False(t, inner.Type.IsToplevel())
	assert.Equal(t, "inner", inner.Origin.Spelling())
}

func TestUnsupportedDecl(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	_, err := ctx.ItemFromDecl(u.Decl("counter"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrContinue))
	assert.Equal(t, diag.IngestUnsupportedDecl, ir.DiagCode(err))
}

func TestOptionsMarkOpaqueAndHidden(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{
		OpaqueTypes: []string{"node"},
		HiddenTypes: []string{"color"},
	})

	_, node := mustItem(t, ctx, u.Type("node_rec"))
	assert.True(t, node.IsOpaque(ctx))
	assert.False(t, node.IsHidden())
	assert.False(t, node.CanDeriveCopy(ctx))

	_, color := mustItem(t, ctx, u.Type("color_ty"))
	assert.True(t, color.IsHidden())
	assert.False(t, color.IsOpaque(ctx))
}

func TestFreezeAndResolvePanics(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	id, _ := mustItem(t, ctx, u.Type("int32"))

	ctx.Freeze()
	assert.True(t, ctx.Frozen())
	assert.NotPanics(t, func() { ctx.ResolveType(id) })
	again, err := ctx.ItemFromTy(u.Type("int32"))
	require.NoError(t, err, "lookups of known types still work")
	assert.Equal(t, id, again)

	assert.Panics(t, func() { _, _ = ctx.ItemFromTy(u.Type("int33")) })
	assert.Panics(t, func() { ctx.ResolveType(ir.NoItemID) })
	assert.Panics(t, func() { ctx.ResolveType(ir.ItemID(10_000)) })
}

func TestIDsInRegistrationOrder(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	mustItem(t, ctx, u.Type("node_ptr"))

	ids := ctx.IDs()
	require.Len(t, ids, ctx.Len())
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestParseErrorMessage(t *testing.T) {
	ctx, u := newCtx(t, ir.Options{})
	_, err := ctx.ItemFromTy(u.Type("f4_ptr"))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "[fatal]")
	assert.Contains(t, msg, "float4 *")
	assert.Contains(t, msg, "[continue] unsupported type")
}
