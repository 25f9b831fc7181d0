// Package ir is the language-neutral type IR built from foreign
// declarations, together with the ingestion protocol that produces it and
// the derivability analysis that consumes it.
//
// Every IR node lives in a Context and is addressed by an ItemID. Types
// refer to each other only through ids, never through Go pointers, so a
// struct holding a pointer to itself is an ordinary graph edge rather than
// an infinite structure. Consumers follow ids through a TypeResolver.
//
// Construction is single-threaded: one Context is threaded through every
// ingestion call. Once Context.Freeze has been called the graph is
// read-only and the derivability predicates may run concurrently.
package ir
