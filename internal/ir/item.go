package ir

import "cbind/internal/clang"

// ItemID identifies a node inside a Context.
type ItemID uint32

// NoItemID marks the absence of an item.
const NoItemID ItemID = 0

// Item is one registry slot.
type Item struct {
	ID ItemID
	// Parent is the declaring aggregate for nested declarations.
	Parent ItemID
	Type   *Type
	// Origin is the foreign declaration the item came from, if any.
	Origin clang.Cursor
}

// TypeResolver maps item ids to the types they denote.
type TypeResolver interface {
	// ResolveType returns the type registered under id. It must succeed
	// for every id handed out by the registry.
	ResolveType(id ItemID) *Type
}
