// Package tu loads translation-unit dumps written by an external C/C++
// parser and exposes them through the clang.Type and clang.Cursor views.
//
// A dump is a flat table of types and declarations that reference each
// other by id. The same schema is accepted as TOML (hand-written fixtures)
// and msgpack (machine output):
//
//	name = "list.h"
//
//	[[type]]
//	id = "node_ptr"
//	kind = "pointer"
//	spelling = "struct node *"
//	pointee = "node_elab"
//	layout = { size = 8, align = 8 }
//
//	[[decl]]
//	id = "node"
//	kind = "struct"
//	name = "node"
//	usr = "c:@S@node"
//	type = "node_rec"
//	children = ["node.next"]
//
// Loading validates every reference, so consumers never observe a dangling
// id. Kind names outside the translated set become clang.TypeOther or
// clang.CursorOther.
package tu
