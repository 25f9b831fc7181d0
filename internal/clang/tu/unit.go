package tu

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"cbind/internal/clang"
	"cbind/internal/layout"
)

// Format selects the dump encoding.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%s: unrecognised dump extension (expected .toml, .mp or .msgpack)", path)
	}
}

// LayoutDesc is a size/alignment pair as reported by the parser.
type LayoutDesc struct {
	Size  int `toml:"size" msgpack:"size"`
	Align int `toml:"align" msgpack:"align"`
}

// TypeDesc is one foreign type entry.
type TypeDesc struct {
	ID          string      `toml:"id" msgpack:"id"`
	Kind        string      `toml:"kind" msgpack:"kind"`
	Spelling    string      `toml:"spelling,omitempty" msgpack:"spelling,omitempty"`
	Pointee     string      `toml:"pointee,omitempty" msgpack:"pointee,omitempty"`
	Elem        string      `toml:"elem,omitempty" msgpack:"elem,omitempty"`
	Size        *int64      `toml:"size,omitempty" msgpack:"size,omitempty"`
	Named       string      `toml:"named,omitempty" msgpack:"named,omitempty"`
	Decl        string      `toml:"decl,omitempty" msgpack:"decl,omitempty"`
	Result      string      `toml:"result,omitempty" msgpack:"result,omitempty"`
	Args        []string    `toml:"args,omitempty" msgpack:"args,omitempty"`
	Variadic    bool        `toml:"variadic,omitempty" msgpack:"variadic,omitempty"`
	Layout      *LayoutDesc `toml:"layout,omitempty" msgpack:"layout,omitempty"`
	LayoutError string      `toml:"layout_error,omitempty" msgpack:"layout_error,omitempty"`
}

// DeclDesc is one foreign declaration entry.
type DeclDesc struct {
	ID         string   `toml:"id" msgpack:"id"`
	Kind       string   `toml:"kind" msgpack:"kind"`
	Name       string   `toml:"name,omitempty" msgpack:"name,omitempty"`
	USR        string   `toml:"usr,omitempty" msgpack:"usr,omitempty"`
	Type       string   `toml:"type,omitempty" msgpack:"type,omitempty"`
	Underlying string   `toml:"underlying,omitempty" msgpack:"underlying,omitempty"`
	Parent     string   `toml:"parent,omitempty" msgpack:"parent,omitempty"`
	Value      int64    `toml:"value,omitempty" msgpack:"value,omitempty"`
	Children   []string `toml:"children,omitempty" msgpack:"children,omitempty"`

	// Definition marks a complete record definition. Records with children
	// count as definitions without it; the flag is for empty bodies.
	Definition bool `toml:"definition,omitempty" msgpack:"definition,omitempty"`
}

// Unit is a decoded translation-unit dump.
type Unit struct {
	Name  string     `toml:"name" msgpack:"name"`
	Types []TypeDesc `toml:"type" msgpack:"types"`
	Decls []DeclDesc `toml:"decl" msgpack:"decls"`

	types map[string]*foreignType
	decls map[string]*cursor
	order []*cursor
	// defs maps a record USR to its defining cursor.
	defs map[string]*cursor
}

// Load reads and indexes a dump file; the encoding follows the extension.
func Load(path string) (*Unit, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	u, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if u.Name == "" {
		u.Name = filepath.Base(path)
	}
	return u, nil
}

// Decode parses dump bytes and indexes them.
func Decode(data []byte, format Format) (*Unit, error) {
	u := &Unit{}
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(u); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(u); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported dump format %v", format)
	}
	if err := u.Index(); err != nil {
		return nil, err
	}
	return u, nil
}

// Encode writes the unit's tables in the given format.
func (u *Unit) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(u)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(u)
	default:
		return fmt.Errorf("unsupported dump format %v", format)
	}
}

// Index builds the lookup tables and validates cross references. It must
// be called after mutating Types or Decls by hand.
func (u *Unit) Index() error {
	u.types = make(map[string]*foreignType, len(u.Types))
	u.decls = make(map[string]*cursor, len(u.Decls))
	u.defs = make(map[string]*cursor)
	u.order = u.order[:0]

	for i := range u.Types {
		d := &u.Types[i]
		if d.ID == "" {
			return fmt.Errorf("type #%d has no id", i)
		}
		if _, dup := u.types[d.ID]; dup {
			return fmt.Errorf("duplicate type id %q", d.ID)
		}
		kind, _ := clang.ParseTypeKind(d.Kind)
		ft := &foreignType{unit: u, desc: d, kind: kind}
		if d.LayoutError != "" {
			lk, err := layout.ParseErrorKind(d.LayoutError)
			if err != nil {
				return fmt.Errorf("type %q: %w", d.ID, err)
			}
			ft.layoutErr = lk
		}
		u.types[d.ID] = ft
	}
	for i := range u.Decls {
		d := &u.Decls[i]
		if d.ID == "" {
			return fmt.Errorf("decl #%d has no id", i)
		}
		if _, dup := u.decls[d.ID]; dup {
			return fmt.Errorf("duplicate decl id %q", d.ID)
		}
		kind, _ := clang.ParseCursorKind(d.Kind)
		c := &cursor{unit: u, desc: d, kind: kind}
		u.decls[d.ID] = c
		u.order = append(u.order, c)
		if kind.IsRecord() && c.isDefinition() {
			if _, seen := u.defs[c.USR()]; !seen {
				u.defs[c.USR()] = c
			}
		}
	}

	for i := range u.Types {
		d := &u.Types[i]
		refs := [...]struct{ field, id string }{
			{"pointee", d.Pointee},
			{"elem", d.Elem},
			{"named", d.Named},
			{"result", d.Result},
		}
		for _, ref := range refs {
			if err := u.checkType("type "+d.ID, ref.field, ref.id); err != nil {
				return err
			}
		}
		for _, ref := range d.Args {
			if err := u.checkType("type "+d.ID, "args", ref); err != nil {
				return err
			}
		}
		if err := u.checkDecl("type "+d.ID, "decl", d.Decl); err != nil {
			return err
		}
	}
	for i := range u.Decls {
		d := &u.Decls[i]
		if err := u.checkType("decl "+d.ID, "type", d.Type); err != nil {
			return err
		}
		if err := u.checkType("decl "+d.ID, "underlying", d.Underlying); err != nil {
			return err
		}
		if err := u.checkDecl("decl "+d.ID, "parent", d.Parent); err != nil {
			return err
		}
		for _, ref := range d.Children {
			if err := u.checkDecl("decl "+d.ID, "children", ref); err != nil {
				return err
			}
		}
	}
	return u.checkCycles()
}

const (
	unvisited uint8 = iota
	visiting
	visited
)

// checkCycles rejects types that reach themselves through structural
// references alone. Declared kinds end a chain: ingestion resolves them
// through their declaration, which reserves an item first.
func (u *Unit) checkCycles() error {
	state := make(map[string]uint8, len(u.Types))
	var path []string
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), id)
			return fmt.Errorf("type %q: reference cycle %s", id, strings.Join(cycle, " -> "))
		case visited:
			return nil
		}
		state[id] = visiting
		path = append(path, id)
		for _, next := range u.types[id].structuralRefs() {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = visited
		return nil
	}
	for i := range u.Types {
		if err := visit(u.Types[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unit) checkType(owner, field, ref string) error {
	if ref == "" {
		return nil
	}
	if _, ok := u.types[ref]; !ok {
		return fmt.Errorf("%s: %s references unknown type %q", owner, field, ref)
	}
	return nil
}

func (u *Unit) checkDecl(owner, field, ref string) error {
	if ref == "" {
		return nil
	}
	if _, ok := u.decls[ref]; !ok {
		return fmt.Errorf("%s: %s references unknown decl %q", owner, field, ref)
	}
	return nil
}

// Type returns the type with the given id, or nil.
func (u *Unit) Type(id string) clang.Type {
	if u == nil || id == "" {
		return nil
	}
	t, ok := u.types[id]
	if !ok {
		return nil
	}
	return t
}

// Decl returns the declaration with the given id, or nil.
func (u *Unit) Decl(id string) clang.Cursor {
	if u == nil || id == "" {
		return nil
	}
	c, ok := u.decls[id]
	if !ok {
		return nil
	}
	return c
}

// TopLevel returns the declarations with no parent, in dump order.
func (u *Unit) TopLevel() []clang.Cursor {
	if u == nil {
		return nil
	}
	out := make([]clang.Cursor, 0, len(u.order))
	for _, c := range u.order {
		if c.desc.Parent == "" {
			out = append(out, c)
		}
	}
	return out
}
