// Package defaults implements the fixed-capacity registry of fallback
// typed values. The registry is queried explicitly; the entry store never
// falls back to it on a miss.
package defaults

import (
	"errors"

	"github.com/KilimcininKorOglu/confbox/internal/store"
)

// MaxDefaults caps the number of registered fallback values.
const MaxDefaults = 32

// Registry errors.
var (
	// ErrFull is returned when the registry is at capacity.
	ErrFull = errors.New("defaults: registry full")
	// ErrNotFound is returned when no default is registered for a key.
	ErrNotFound = errors.New("defaults: no default for key")
	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("defaults: invalid key")
	// ErrBufferTooSmall is returned when the caller's buffer cannot hold
	// the default value; the required size is reported alongside.
	ErrBufferTooSmall = errors.New("defaults: buffer too small")
)

type entry struct {
	key   string
	typ   store.ValueType
	value []byte
}

// Registry is the fixed table of fallback values. The zero value is
// empty and ready to use.
type Registry struct {
	entries [MaxDefaults]entry
	count   int
}

// Register adds or replaces the default for key. The value bytes are
// copied.
func (r *Registry) Register(key string, typ store.ValueType, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	for i := 0; i < r.count; i++ {
		if r.entries[i].key == key {
			r.entries[i].typ = typ
			r.entries[i].value = append(r.entries[i].value[:0], value...)
			return nil
		}
	}
	if r.count >= MaxDefaults {
		return ErrFull
	}
	r.entries[r.count] = entry{
		key:   key,
		typ:   typ,
		value: append([]byte(nil), value...),
	}
	r.count++
	return nil
}

// Get copies the default value for key into buf and returns its size and
// type. An undersized buffer fails with ErrBufferTooSmall, reporting the
// required size without touching buf.
func (r *Registry) Get(key string, buf []byte) (int, store.ValueType, error) {
	for i := 0; i < r.count; i++ {
		if r.entries[i].key != key {
			continue
		}
		n := len(r.entries[i].value)
		if len(buf) < n {
			return n, r.entries[i].typ, ErrBufferTooSmall
		}
		copy(buf, r.entries[i].value)
		return n, r.entries[i].typ, nil
	}
	return 0, store.TypeInvalid, ErrNotFound
}

// Type returns the registered type for key.
func (r *Registry) Type(key string) (store.ValueType, error) {
	for i := 0; i < r.count; i++ {
		if r.entries[i].key == key {
			return r.entries[i].typ, nil
		}
	}
	return store.TypeInvalid, ErrNotFound
}

// Count returns the number of registered defaults.
func (r *Registry) Count() int {
	return r.count
}

// Clear empties the registry.
func (r *Registry) Clear() {
	for i := 0; i < r.count; i++ {
		r.entries[i] = entry{}
	}
	r.count = 0
}
