// Package codec implements the dual-format export and import of store
// snapshots: a compact binary container and a JSON document.
//
// Both formats follow a two-phase size-then-write protocol: Size runs the
// emitter against a counting sink and returns the exact output size;
// Export re-runs it into a caller-supplied buffer. The store must not be
// mutated between the two passes, since the protocol depends on stable
// iteration order.
package codec
