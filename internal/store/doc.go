// Package store implements the fixed-capacity typed entry table and the
// namespace registry that partition it.
//
// All capacity is allocated once at New; set/get/delete operate without
// further allocation. Entries are addressed by (key, namespace id) and
// keys are unique within a namespace. The store assumes a single logical
// owner and performs no internal locking.
package store
