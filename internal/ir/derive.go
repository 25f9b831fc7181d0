package ir

// DeriveInArrayLimit is the largest array length for which generated code
// may derive per-element capabilities.
const DeriveInArrayLimit = 32

// CanDeriveDebug reports whether generated code may derive debug printing.
func (t *Type) CanDeriveDebug(r TypeResolver) bool {
	return newDeriveWalk(r).debug(t)
}

// CanDeriveCopy reports whether generated code may derive value-copy
// semantics.
func (t *Type) CanDeriveCopy(r TypeResolver) bool {
	return newDeriveWalk(r).canCopy(t)
}

// CanDeriveCopyInArray reports whether t may be the element type of an
// array embedded in a type that derives copy. This is stricter than
// CanDeriveCopy: a bare template parameter member is fine, an array of
// them is not.
func (t *Type) CanDeriveCopyInArray(r TypeResolver) bool {
	return newDeriveWalk(r).copyInArray(t)
}

// HasDestructor reports whether values of t need destruction. Opaque types
// are assumed to have one.
func (t *Type) HasDestructor(r TypeResolver) bool {
	return newDeriveWalk(r).destructor(t)
}

type derivePredicate uint8

const (
	predDebug derivePredicate = iota + 1
	predCopy
	predDestructor
)

type activeKey struct {
	pred derivePredicate
	comp *CompInfo
}

// deriveWalk carries the per-query cycle guard. Pointers and references
// are never followed, so only composites reached by value through
// templates or malformed input can re-enter.
type deriveWalk struct {
	r      TypeResolver
	active map[activeKey]struct{}
}

func newDeriveWalk(r TypeResolver) *deriveWalk {
	return &deriveWalk{r: r}
}

func (w *deriveWalk) enter(pred derivePredicate, ci *CompInfo) bool {
	if w.active == nil {
		w.active = make(map[activeKey]struct{}, 8)
	}
	key := activeKey{pred: pred, comp: ci}
	if _, ok := w.active[key]; ok {
		return false
	}
	w.active[key] = struct{}{}
	return true
}

func (w *deriveWalk) leave(pred derivePredicate, ci *CompInfo) {
	delete(w.active, activeKey{pred: pred, comp: ci})
}

func (w *deriveWalk) resolve(id ItemID) *Type {
	return w.r.ResolveType(id)
}

func (w *deriveWalk) debug(t *Type) bool {
	if t.IsOpaque(w.r) {
		return false
	}
	switch k := t.kind.(type) {
	case Array:
		return k.Len <= DeriveInArrayLimit && w.debug(w.resolve(k.Elem))
	case Alias:
		return w.debug(w.resolve(k.Target))
	case *CompInfo:
		return w.compDebug(t, k)
	default:
		return true
	}
}

func (w *deriveWalk) canCopy(t *Type) bool {
	if t.IsOpaque(w.r) {
		return false
	}
	switch k := t.kind.(type) {
	case Array:
		return k.Len <= DeriveInArrayLimit && w.canCopy(w.resolve(k.Elem))
	case Alias:
		return w.canCopy(w.resolve(k.Target))
	case *CompInfo:
		return w.compCopy(k)
	default:
		return true
	}
}

func (w *deriveWalk) copyInArray(t *Type) bool {
	switch k := t.kind.(type) {
	case Alias:
		return w.copyInArray(w.resolve(k.Target))
	case Array:
		return w.copyInArray(w.resolve(k.Elem))
	case Named:
		return false
	default:
		return w.canCopy(t)
	}
}

func (w *deriveWalk) destructor(t *Type) bool {
	if t.IsOpaque(w.r) {
		return true
	}
	switch k := t.kind.(type) {
	case Alias:
		return w.destructor(w.resolve(k.Target))
	case Array:
		return w.destructor(w.resolve(k.Elem))
	case *CompInfo:
		return w.compDestructor(k)
	default:
		return false
	}
}

// compDebug: unions are emitted as arrays of alignment-sized words, so
// they print only when that array stays under the limit.
func (w *deriveWalk) compDebug(self *Type, ci *CompInfo) bool {
	if !w.enter(predDebug, ci) {
		return true
	}
	defer w.leave(predDebug, ci)

	if ci.Kind == CompUnion {
		l, ok := self.Layout(w.r)
		return ok && l.Words() <= DeriveInArrayLimit
	}
	for _, base := range ci.Bases {
		if !w.debug(w.resolve(base)) {
			return false
		}
	}
	for _, f := range ci.Fields {
		if !w.debug(w.resolve(f.Type)) {
			return false
		}
	}
	return true
}

func (w *deriveWalk) compCopy(ci *CompInfo) bool {
	if !w.enter(predCopy, ci) {
		return true
	}
	defer w.leave(predCopy, ci)

	if w.compDestructor(ci) {
		return false
	}
	if ci.Kind == CompUnion {
		return true
	}
	for _, base := range ci.Bases {
		if !w.canCopy(w.resolve(base)) {
			return false
		}
	}
	for _, f := range ci.Fields {
		ft := w.resolve(f.Type)
		if !w.canCopy(ft) {
			return false
		}
		if w.isArray(ft) && !w.copyInArray(ft) {
			return false
		}
	}
	return true
}

func (w *deriveWalk) compDestructor(ci *CompInfo) bool {
	if ci.HasDestructor {
		return true
	}
	if !w.enter(predDestructor, ci) {
		return false
	}
	defer w.leave(predDestructor, ci)

	for _, id := range ci.TemplateParams {
		if w.destructor(w.resolve(id)) {
			return true
		}
	}
	for _, base := range ci.Bases {
		if w.destructor(w.resolve(base)) {
			return true
		}
	}
	for _, f := range ci.Fields {
		if w.destructor(w.resolve(f.Type)) {
			return true
		}
	}
	return false
}

// isArray reports whether t is an array once aliases are peeled off.
func (w *deriveWalk) isArray(t *Type) bool {
	seen := make(map[*Type]struct{}, 4)
	for t != nil {
		if _, ok := seen[t]; ok {
			return false
		}
		seen[t] = struct{}{}
		switch k := t.kind.(type) {
		case Array:
			return true
		case Alias:
			t = w.resolve(k.Target)
		default:
			return false
		}
	}
	return false
}
