package store

import (
	"errors"
)

// MaxNamespaceNameLen caps namespace names independently of the key
// length limit.
const MaxNamespaceNameLen = 16

// DefaultNamespace is the always-present namespace id. It exists without
// registration and cannot be removed.
const DefaultNamespace uint8 = 0

// DefaultNamespaceName is the reserved name of namespace 0.
const DefaultNamespaceName = "default"

// Namespace registry errors.
var (
	// ErrNamespaceNameTooLong is returned when a name exceeds MaxNamespaceNameLen.
	ErrNamespaceNameTooLong = errors.New("store: namespace name too long")
	// ErrNamespaceFull is returned when the namespace table is full.
	ErrNamespaceFull = errors.New("store: namespace table full")
	// ErrNamespaceNotFound is returned for unknown namespace names or ids.
	ErrNamespaceNotFound = errors.New("store: namespace not found")
	// ErrInvalidNamespaceName is returned for empty names.
	ErrInvalidNamespaceName = errors.New("store: invalid namespace name")
)

// Namespaces maps namespace names to small integer ids. The mapping is
// append-only for the process lifetime; ids are assigned in registration
// order starting at 1, with id 0 reserved for the default namespace.
type Namespaces struct {
	names []string
	max   int
}

// NewNamespaces creates a registry capped at max namespaces, the default
// namespace included.
func NewNamespaces(max int) *Namespaces {
	names := make([]string, 1, max)
	names[0] = DefaultNamespaceName
	return &Namespaces{names: names, max: max}
}

// Register returns the id for name, assigning a new id when the name is
// unknown. Registering the default namespace's name returns id 0.
func (n *Namespaces) Register(name string) (uint8, error) {
	if name == "" {
		return 0, ErrInvalidNamespaceName
	}
	if len(name) > MaxNamespaceNameLen {
		return 0, ErrNamespaceNameTooLong
	}
	for id, existing := range n.names {
		if existing == name {
			return uint8(id), nil
		}
	}
	if len(n.names) >= n.max {
		return 0, ErrNamespaceFull
	}
	n.names = append(n.names, name)
	return uint8(len(n.names) - 1), nil
}

// Lookup returns the id for name without registering it.
func (n *Namespaces) Lookup(name string) (uint8, error) {
	for id, existing := range n.names {
		if existing == name {
			return uint8(id), nil
		}
	}
	return 0, ErrNamespaceNotFound
}

// Name returns the registered name for id.
func (n *Namespaces) Name(id uint8) (string, error) {
	if int(id) >= len(n.names) {
		return "", ErrNamespaceNotFound
	}
	return n.names[id], nil
}

// Known reports whether id has been assigned.
func (n *Namespaces) Known(id uint8) bool {
	return int(id) < len(n.names)
}

// Count returns the number of registered namespaces, the default included.
func (n *Namespaces) Count() int {
	return len(n.names)
}

// Each calls fn for every registered namespace in id order.
func (n *Namespaces) Each(fn func(id uint8, name string) bool) {
	for id, name := range n.names {
		if !fn(uint8(id), name) {
			return
		}
	}
}
