// Package cppon implements an in-memory DOM for a JSON-superset text
// format: UTF-8 source is scanned and parsed into a tagged-union Value
// tree whose string and numeric leaves may remain zero-copy views into
// the source buffer, with lazy numeric conversion, in-document
// path/pointer cross-references, on-demand base64 blobs, and an
// options-driven printer that re-serializes the tree under several
// layout policies.
//
// Every operation that needs per-goroutine state (root-stack entry for
// absolute paths, scanner dispatch override, exact-number mode) takes an
// *Env as its first argument; an Env must not be shared between
// goroutines that mutate the same tree concurrently.
package cppon
