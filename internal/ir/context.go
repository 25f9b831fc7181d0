package ir

import (
	"fmt"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"cbind/internal/clang"
	"cbind/internal/diag"
	"cbind/internal/layout"
)

// Options configure a Context.
type Options struct {
	Target layout.Target
	// OpaqueTypes and HiddenTypes list type names that receive the opaque
	// and hide flags when registered.
	OpaqueTypes []string
	HiddenTypes []string

	Logger   *zap.Logger
	Reporter diag.Reporter
}

// Context owns every IR node built from one translation unit, plus the
// dedup tables consulted before anything new is built.
type Context struct {
	items []Item

	builtins  map[clang.TypeKind]ItemID
	typeIndex map[string]ItemID // by foreign type key
	declIndex map[string]ItemID // by declaration USR

	opaque map[string]struct{}
	hidden map[string]struct{}

	target   layout.Target
	logger   *zap.Logger
	reporter diag.Reporter
	frozen   bool
}

var _ TypeResolver = (*Context)(nil)

// NewContext constructs a registry seeded with the builtin types.
func NewContext(opts Options) *Context {
	if opts.Target.Triple == "" {
		opts.Target = layout.X86_64LinuxGNU()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	c := &Context{
		items:     make([]Item, 1, 64), // reserve 0 as NoItemID
		builtins:  make(map[clang.TypeKind]ItemID, 24),
		typeIndex: make(map[string]ItemID, 64),
		declIndex: make(map[string]ItemID, 64),
		opaque:    nameSet(opts.OpaqueTypes),
		hidden:    nameSet(opts.HiddenTypes),
		target:    opts.Target,
		logger:    opts.Logger,
		reporter:  opts.Reporter,
	}
	c.seedBuiltins()
	return c
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

type builtin struct {
	foreign clang.TypeKind
	name    string
	kind    TypeKind
	layout  *layout.Layout
}

func scalar(n int) *layout.Layout {
	l := layout.Scalar(n)
	return &l
}

func (c *Context) seedBuiltins() {
	ptr := c.target.Pointer()
	long := c.target.Long()
	wchar := c.target.WChar()
	ldouble := c.target.LongDouble()

	table := []builtin{
		{clang.TypeVoid, "void", Void{}, nil},
		{clang.TypeNullPtr, "nullptr_t", NullPtr{}, &ptr},
		{clang.TypeBool, "bool", Int{IntBool}, scalar(1)},
		{clang.TypeCharS, "char", Int{IntChar}, scalar(1)},
		{clang.TypeSChar, "signed char", Int{IntSChar}, scalar(1)},
		{clang.TypeCharU, "char", Int{IntChar}, scalar(1)},
		{clang.TypeUChar, "unsigned char", Int{IntUChar}, scalar(1)},
		{clang.TypeWChar, "wchar_t", Int{IntWChar}, &wchar},
		{clang.TypeChar16, "char16_t", Int{IntChar16}, scalar(2)},
		{clang.TypeChar32, "char32_t", Int{IntChar32}, scalar(4)},
		{clang.TypeShort, "short", Int{IntShort}, scalar(2)},
		{clang.TypeUShort, "unsigned short", Int{IntUShort}, scalar(2)},
		{clang.TypeInt, "int", Int{IntInt}, scalar(4)},
		{clang.TypeUInt, "unsigned int", Int{IntUInt}, scalar(4)},
		{clang.TypeLong, "long", Int{IntLong}, &long},
		{clang.TypeULong, "unsigned long", Int{IntULong}, &long},
		{clang.TypeLongLong, "long long", Int{IntLongLong}, scalar(8)},
		{clang.TypeULongLong, "unsigned long long", Int{IntULongLong}, scalar(8)},
		{clang.TypeInt128, "__int128", Int{IntInt128}, scalar(16)},
		{clang.TypeUInt128, "unsigned __int128", Int{IntUInt128}, scalar(16)},
		{clang.TypeFloat, "float", Float{FloatFloat}, scalar(4)},
		{clang.TypeDouble, "double", Float{FloatDouble}, scalar(8)},
		{clang.TypeLongDouble, "long double", Float{FloatLongDouble}, &ldouble},
	}
	for _, b := range table {
		t := NewType(b.name, b.layout, b.kind)
		t.SetToplevel(true)
		c.builtins[b.foreign] = c.register(t, nil, NoItemID)
	}
}

// Target returns the data model builtin layouts were computed for.
func (c *Context) Target() layout.Target { return c.target }

// Logger returns the context's logger; never nil.
func (c *Context) Logger() *zap.Logger { return c.logger }

// Reporter returns the diagnostics sink; never nil.
func (c *Context) Reporter() diag.Reporter { return c.reporter }

// BuiltinOrResolvedTy is the dedup check every ingestion starts with. It
// returns the item already standing for ty: a builtin, a type registered
// under the same key, or a declaration registered under the same USR.
func (c *Context) BuiltinOrResolvedTy(ty clang.Type) (ItemID, bool) {
	if ty == nil {
		return NoItemID, false
	}
	if ty.Kind().IsBuiltin() {
		if id, ok := c.BuiltinID(ty.Kind()); ok {
			return id, true
		}
	}
	if id, ok := c.typeIndex[ty.Key()]; ok {
		return id, true
	}
	switch ty.Kind() {
	case clang.TypeRecord, clang.TypeEnum, clang.TypeTypedef, clang.TypeUnexposed, clang.TypeElaborated:
		if decl := ty.Declaration(); decl != nil {
			if id, ok := c.LookupDecl(decl.USR()); ok {
				return id, true
			}
		}
	}
	return NoItemID, false
}

// BuiltinID returns the builtin item for a foreign builtin kind.
func (c *Context) BuiltinID(kind clang.TypeKind) (ItemID, bool) {
	id, ok := c.builtins[kind]
	return id, ok
}

// LookupDecl returns the item registered for a declaration USR.
func (c *Context) LookupDecl(usr string) (ItemID, bool) {
	id, ok := c.declIndex[usr]
	return id, ok
}

// ResolveType implements TypeResolver. It panics on ids the context never
// issued or has not finished building: those are defects, not states.
func (c *Context) ResolveType(id ItemID) *Type {
	if id == NoItemID || int(id) >= len(c.items) {
		panic(fmt.Sprintf("ir: unknown item id %d", id))
	}
	t := c.items[id].Type
	if t == nil {
		panic(fmt.Sprintf("ir: item %d is still under construction", id))
	}
	return t
}

// Item returns the registry slot for id.
func (c *Context) Item(id ItemID) (Item, bool) {
	if id == NoItemID || int(id) >= len(c.items) || c.items[id].Type == nil {
		return Item{}, false
	}
	return c.items[id], true
}

// Len reports how many items are registered, builtins included.
func (c *Context) Len() int {
	return len(c.items) - 1
}

// IDs returns every registered id in registration order.
func (c *Context) IDs() []ItemID {
	out := make([]ItemID, 0, c.Len())
	for i := 1; i < len(c.items); i++ {
		if c.items[i].Type != nil {
			out = append(out, c.items[i].ID)
		}
	}
	return out
}

// Freeze ends the construction phase. Afterwards the graph is read-only
// and safe for concurrent resolvers.
func (c *Context) Freeze() { c.frozen = true }

func (c *Context) Frozen() bool { return c.frozen }

// reserve allocates an id whose type is filled in later. Composites use it
// so members pointing back at them dedup to the reserved id.
func (c *Context) reserve() ItemID {
	if c.frozen {
		panic("ir: registry is frozen")
	}
	n, err := safecast.Conv[uint32](len(c.items))
	if err != nil {
		panic(fmt.Errorf("len(items) overflow: %w", err))
	}
	id := ItemID(n)
	c.items = append(c.items, Item{ID: id})
	return id
}

func (c *Context) fill(id ItemID, t *Type, origin clang.Cursor, parent ItemID) {
	if c.frozen {
		panic("ir: registry is frozen")
	}
	if name := t.Name(); name != "" {
		if _, ok := c.opaque[name]; ok {
			t.SetOpaque(true)
		}
		if _, ok := c.hidden[name]; ok {
			t.SetHidden(true)
		}
	}
	c.items[id] = Item{ID: id, Parent: parent, Type: t, Origin: origin}
}

func (c *Context) register(t *Type, origin clang.Cursor, parent ItemID) ItemID {
	id := c.reserve()
	c.fill(id, t, origin, parent)
	return id
}

func (c *Context) layoutOf(ty clang.Type) *layout.Layout {
	if ty == nil {
		return nil
	}
	l, err := ty.FallibleLayout()
	if err != nil {
		c.logger.Debug("layout unavailable",
			zap.String("spelling", ty.Spelling()),
			zap.Error(err))
		return nil
	}
	return &l
}
