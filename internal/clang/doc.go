// Package clang defines the boundary between cbind and the external C/C++
// parser that describes foreign declarations.
//
// The parser's kind enumeration is open-ended. TypeKind and CursorKind are
// the closed, translated sets cbind understands; producers map anything
// else to TypeOther / CursorOther, and ingestion treats those as
// unsupported. Nothing outside this package switches on raw parser tags.
//
// Type and Cursor are read-only views. Absent relations (a pointer with no
// pointee, a cursor with no declaration) are reported as nil interfaces.
package clang
