package ir

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cbind/internal/clang"
	"cbind/internal/diag"
)

// ItemFromTy resolves a foreign type to an item, registering whatever new
// nodes it needs. Declaration carrying types are resolved through their
// declaration.
func (c *Context) ItemFromTy(ty clang.Type) (ItemID, error) {
	res, err := FromClangTy(ty, c)
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != ParseRecurse {
			return NoItemID, err
		}
		decl := perr.Type.Declaration()
		if decl == nil {
			return NoItemID, &ParseError{
				Kind:   ParseContinue,
				Type:   perr.Type,
				Code:   diag.IngestUnsupportedDecl,
				Detail: "type has no declaration",
			}
		}
		id, err := c.ItemFromDecl(decl)
		if err != nil {
			return NoItemID, err
		}
		c.typeIndex[ty.Key()] = id
		return id, nil
	}

	switch r := res.(type) {
	case AlreadyResolved:
		return r.ID, nil
	case New:
		// Nested ingestion may have registered this very type already.
		if id, ok := c.typeIndex[ty.Key()]; ok {
			return id, nil
		}
		id := c.register(r.Type, r.Origin, NoItemID)
		c.typeIndex[ty.Key()] = id
		return id, nil
	default:
		panic(fmt.Sprintf("ir: unexpected type result %T", res))
	}
}

// ItemFromDecl resolves a foreign declaration to an item. Aggregates,
// typedefs and enums are reserved under their USR before their members are
// resolved, so references back to them dedup to the reserved id.
func (c *Context) ItemFromDecl(cur clang.Cursor) (ItemID, error) {
	if cur == nil {
		return NoItemID, &ParseError{Kind: ParseFatal, Code: diag.IngestUnsupportedDecl, Detail: "missing declaration"}
	}
	if id, ok := c.LookupDecl(cur.USR()); ok {
		return id, nil
	}

	switch k := cur.Kind(); {
	case k.IsRecord():
		return c.compFromDecl(cur), nil
	case k == clang.CursorTypedefDecl || k == clang.CursorTypeAliasDecl:
		return c.aliasFromDecl(cur)
	case k == clang.CursorEnumDecl:
		return c.enumFromDecl(cur), nil
	case k == clang.CursorTemplateTypeParameter:
		return c.declare(cur, NewType(cur.Spelling(), nil, Named{Name: cur.Spelling()})), nil
	case k == clang.CursorFunctionDecl:
		return c.functionFromDecl(cur)
	default:
		return NoItemID, &ParseError{
			Kind:   ParseContinue,
			Code:   diag.IngestUnsupportedDecl,
			Detail: fmt.Sprintf("unsupported declaration %s `%s`", k, cur.Spelling()),
		}
	}
}

// parentOf returns the item of the aggregate declaring cur, if it is
// registered.
func (c *Context) parentOf(cur clang.Cursor) ItemID {
	if clang.IsTopLevel(cur) {
		return NoItemID
	}
	p := cur.SemanticParent()
	if p == nil || !p.Kind().IsRecord() {
		return NoItemID
	}
	if id, ok := c.declIndex[p.USR()]; ok {
		return id
	}
	return NoItemID
}

// open reserves a slot for cur before its contents are resolved.
func (c *Context) open(cur clang.Cursor) ItemID {
	id := c.reserve()
	c.declIndex[cur.USR()] = id
	return id
}

// close fills a slot reserved by open.
func (c *Context) close(id ItemID, cur clang.Cursor, t *Type) {
	t.SetToplevel(clang.IsTopLevel(cur))
	c.fill(id, t, cur, c.parentOf(cur))
}

// abandon releases a reserved slot whose declaration failed. When later
// items may already point at the slot, it is kept as an opaque blob.
func (c *Context) abandon(id ItemID, cur clang.Cursor) {
	if int(id) == len(c.items)-1 {
		c.items = c.items[:id]
		delete(c.declIndex, cur.USR())
		for key, v := range c.typeIndex {
			if v == id {
				delete(c.typeIndex, key)
			}
		}
		return
	}
	t := c.declType(cur, &CompInfo{Kind: CompStruct})
	t.SetOpaque(true)
	c.close(id, cur, t)
}

func (c *Context) declare(cur clang.Cursor, t *Type) ItemID {
	id := c.open(cur)
	c.close(id, cur, t)
	return id
}

// declType builds the type a declaration introduces, with the layout the
// parser computed for it.
func (c *Context) declType(cur clang.Cursor, kind TypeKind) *Type {
	return NewType(cur.Spelling(), c.layoutOf(cur.Type()), kind)
}

func compKindOf(k clang.CursorKind) CompKind {
	switch k {
	case clang.CursorUnionDecl:
		return CompUnion
	case clang.CursorClassDecl, clang.CursorClassTemplate:
		return CompClass
	default:
		return CompStruct
	}
}

func declName(cur clang.Cursor) string {
	if name := cur.Spelling(); name != "" {
		return name
	}
	return cur.USR()
}

func (c *Context) compFromDecl(cur clang.Cursor) ItemID {
	def := cur.Definition()
	if def == nil {
		c.logger.Debug("record has no definition", zap.String("record", declName(cur)))
		t := c.declType(cur, &CompInfo{Kind: compKindOf(cur.Kind())})
		t.SetOpaque(true)
		return c.declare(cur, t)
	}
	cur = def
	id := c.open(cur)
	ci := &CompInfo{Kind: compKindOf(cur.Kind())}
	dropped := 0

	drop := func(what string, err error) {
		dropped++
		c.logger.Warn("member dropped",
			zap.String("composite", declName(cur)),
			zap.String("member", what),
			zap.Error(err))
		diag.ReportWarning(c.reporter, diag.IngestMemberDropped, declName(cur),
			fmt.Sprintf("%s dropped; composite treated as opaque", what)).
			WithNote(err.Error()).
			Emit()
	}

	for _, child := range cur.Children() {
		switch child.Kind() {
		case clang.CursorFieldDecl:
			ft, err := c.ItemFromTy(child.Type())
			if err != nil {
				drop(fmt.Sprintf("field `%s`", child.Spelling()), err)
				continue
			}
			ci.Fields = append(ci.Fields, Field{Name: child.Spelling(), Type: ft})
		case clang.CursorBaseSpecifier:
			bt, err := c.ItemFromTy(child.Type())
			if err != nil {
				drop(fmt.Sprintf("base `%s`", child.Spelling()), err)
				continue
			}
			ci.Bases = append(ci.Bases, bt)
		case clang.CursorDestructor:
			ci.HasDestructor = true
		case clang.CursorTemplateTypeParameter:
			pt, err := c.ItemFromDecl(child)
			if err != nil {
				drop(fmt.Sprintf("template parameter `%s`", child.Spelling()), err)
				continue
			}
			ci.TemplateParams = append(ci.TemplateParams, pt)
		case clang.CursorStructDecl, clang.CursorUnionDecl, clang.CursorClassDecl,
			clang.CursorClassTemplate, clang.CursorEnumDecl, clang.CursorTypedefDecl,
			clang.CursorTypeAliasDecl:
			// Nested declarations become items of their own; the aggregate
			// is still complete without them.
			if _, err := c.ItemFromDecl(child); err != nil {
				c.logger.Debug("nested declaration skipped",
					zap.String("composite", declName(cur)),
					zap.String("decl", child.Spelling()),
					zap.Error(err))
			}
		}
	}

	t := c.declType(cur, ci)
	if dropped > 0 {
		t.SetOpaque(true)
	}
	c.close(id, cur, t)
	return id
}

func (c *Context) aliasFromDecl(cur clang.Cursor) (ItemID, error) {
	id := c.open(cur)
	target, err := c.ItemFromTy(cur.Underlying())
	if err != nil {
		c.abandon(id, cur)
		return NoItemID, fmt.Errorf("typedef `%s`: %w", cur.Spelling(), err)
	}
	if c.aliasReaches(target, id) {
		c.abandon(id, cur)
		return NoItemID, &ParseError{
			Kind:   ParseFatal,
			Type:   cur.Underlying(),
			Code:   diag.IngestAliasCycle,
			Detail: fmt.Sprintf("typedef `%s` resolves to itself", cur.Spelling()),
		}
	}
	t := c.declType(cur, Alias{Name: cur.Spelling(), Target: target})
	c.close(id, cur, t)
	return id, nil
}

// aliasReaches follows the alias chain starting at from and reports
// whether it arrives at id. Every filled alias was checked the same way
// when it was built, so the chain ends at id, a non-alias item, or a slot
// that is still being built.
func (c *Context) aliasReaches(from, id ItemID) bool {
	for cur := from; ; {
		if cur == id {
			return true
		}
		t := c.items[cur].Type
		if t == nil {
			return false
		}
		a, ok := t.Kind().(Alias)
		if !ok {
			return false
		}
		cur = a.Target
	}
}

func (c *Context) enumFromDecl(cur clang.Cursor) ItemID {
	id := c.open(cur)
	e := &Enum{}
	if under := cur.Underlying(); under != nil {
		repr, err := c.ItemFromTy(under)
		if err != nil {
			c.logger.Debug("enum repr unresolved",
				zap.String("enum", declName(cur)),
				zap.Error(err))
		} else {
			e.Repr = repr
		}
	}
	for _, child := range cur.Children() {
		if child.Kind() == clang.CursorEnumConstantDecl {
			e.Variants = append(e.Variants, EnumVariant{Name: child.Spelling(), Value: child.EnumValue()})
		}
	}
	t := c.declType(cur, e)
	c.close(id, cur, t)
	return id
}

func (c *Context) functionFromDecl(cur clang.Cursor) (ItemID, error) {
	ty := cur.Type()
	if ty == nil || ty.Kind() != clang.TypeFunctionProto {
		return NoItemID, &ParseError{
			Kind:   ParseContinue,
			Type:   ty,
			Code:   diag.IngestUnsupportedDecl,
			Detail: fmt.Sprintf("function `%s` has no prototype", cur.Spelling()),
		}
	}
	sig, err := FunctionSigFromTy(ty, cur, c)
	if err != nil {
		return NoItemID, &ParseError{
			Kind:   ParseFatal,
			Type:   ty,
			Code:   diag.IngestNestedFailure,
			Detail: fmt.Sprintf("function `%s`", cur.Spelling()),
			Cause:  err,
		}
	}
	return c.declare(cur, NewType(cur.Spelling(), nil, sig)), nil
}
