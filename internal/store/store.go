package store

import (
	"errors"
)

// Store errors.
var (
	// ErrKeyTooLong is returned when a key exceeds the configured maximum.
	ErrKeyTooLong = errors.New("store: key too long")
	// ErrValueTooLarge is returned when a value exceeds the configured maximum.
	ErrValueTooLarge = errors.New("store: value too large")
	// ErrNoSpace is returned when the entry table is full.
	ErrNoSpace = errors.New("store: no space left")
	// ErrNotFound is returned when no entry matches (key, namespace).
	ErrNotFound = errors.New("store: entry not found")
	// ErrBufferTooSmall is returned when the caller's buffer cannot hold
	// the stored value. The required size is reported alongside.
	ErrBufferTooSmall = errors.New("store: buffer too small")
	// ErrReadOnly is returned when overwriting or deleting a read-only entry.
	ErrReadOnly = errors.New("store: entry is read-only")
	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("store: invalid key")
)

// slot is one fixed entry slot. Value bytes live in the arena allocated
// at New; val aliases the slot's arena region and never grows past the
// configured maximum value size.
type slot struct {
	used  bool
	key   string
	ns    uint8
	typ   ValueType
	flags Flags
	val   []byte
}

// Store is the fixed-capacity entry table. It performs no allocation
// after New and no internal locking; the caller serializes access.
type Store struct {
	slots     []slot
	arena     []byte
	maxKeyLen int
	maxValue  int
	count     int
}

// New creates a store with capacity for maxKeys entries of up to
// maxValueSize bytes each, with keys up to maxKeyLen bytes. All memory
// is allocated here, once.
func New(maxKeys, maxKeyLen, maxValueSize int) *Store {
	return &Store{
		slots:     make([]slot, maxKeys),
		arena:     make([]byte, maxKeys*maxValueSize),
		maxKeyLen: maxKeyLen,
		maxValue:  maxValueSize,
	}
}

// find returns the slot index for (key, ns), or -1.
func (s *Store) find(ns uint8, key string) int {
	for i := range s.slots {
		if s.slots[i].used && s.slots[i].ns == ns && s.slots[i].key == key {
			return i
		}
	}
	return -1
}

// Set creates or overwrites the entry for (key, ns). The value bytes are
// copied into the store. Overwriting may change the entry's type; a
// read-only entry rejects the overwrite.
func (s *Store) Set(ns uint8, key string, typ ValueType, value []byte, flags Flags) error {
	if key == "" {
		return ErrInvalidKey
	}
	if len(key) > s.maxKeyLen {
		return ErrKeyTooLong
	}
	if len(value) > s.maxValue {
		return ErrValueTooLarge
	}

	i := s.find(ns, key)
	if i < 0 {
		i = s.freeSlot()
		if i < 0 {
			return ErrNoSpace
		}
		s.slots[i].used = true
		s.slots[i].key = key
		s.slots[i].ns = ns
		s.count++
	} else if s.slots[i].flags.Has(FlagReadOnly) {
		return ErrReadOnly
	}

	region := s.arena[i*s.maxValue : i*s.maxValue+len(value)]
	copy(region, value)
	s.slots[i].val = region
	s.slots[i].typ = typ
	s.slots[i].flags = flags
	return nil
}

// freeSlot returns the first unused slot index, or -1.
func (s *Store) freeSlot() int {
	for i := range s.slots {
		if !s.slots[i].used {
			return i
		}
	}
	return -1
}

// Get copies the value for (key, ns) into buf and returns the value size.
// If buf is smaller than the stored value, Get returns the required size
// and ErrBufferTooSmall without touching buf. A nil buf probes the size.
func (s *Store) Get(ns uint8, key string, buf []byte) (int, error) {
	i := s.find(ns, key)
	if i < 0 {
		return 0, ErrNotFound
	}
	n := len(s.slots[i].val)
	if len(buf) < n {
		return n, ErrBufferTooSmall
	}
	copy(buf, s.slots[i].val)
	return n, nil
}

// Info returns the entry's metadata view without its value bytes.
func (s *Store) Info(ns uint8, key string) (EntryInfo, error) {
	i := s.find(ns, key)
	if i < 0 {
		return EntryInfo{}, ErrNotFound
	}
	return s.info(i), nil
}

func (s *Store) info(i int) EntryInfo {
	return EntryInfo{
		Key:       s.slots[i].key,
		Namespace: s.slots[i].ns,
		Type:      s.slots[i].typ,
		Size:      len(s.slots[i].val),
		Flags:     s.slots[i].flags,
	}
}

// Exists reports whether (key, ns) is present.
func (s *Store) Exists(ns uint8, key string) bool {
	return s.find(ns, key) >= 0
}

// Delete removes the entry for (key, ns). Read-only entries reject deletion.
func (s *Store) Delete(ns uint8, key string) error {
	i := s.find(ns, key)
	if i < 0 {
		return ErrNotFound
	}
	if s.slots[i].flags.Has(FlagReadOnly) {
		return ErrReadOnly
	}
	s.clearSlot(i)
	return nil
}

func (s *Store) clearSlot(i int) {
	for j := range s.slots[i].val {
		s.slots[i].val[j] = 0
	}
	s.slots[i] = slot{}
	s.count--
}

// Count returns the number of live entries across all namespaces.
func (s *Store) Count() int {
	return s.count
}

// CountNamespace returns the number of live entries in one namespace.
func (s *Store) CountNamespace(ns uint8) int {
	n := 0
	for i := range s.slots {
		if s.slots[i].used && s.slots[i].ns == ns {
			n++
		}
	}
	return n
}

// Clear removes every entry, including read-only ones, and zeroes the
// value arena.
func (s *Store) Clear() {
	for i := range s.slots {
		if s.slots[i].used {
			s.clearSlot(i)
		}
	}
}

// Iterate calls fn once per live entry in slot order. Iteration stops
// early when fn returns false. The order is stable between calls as long
// as the store is not mutated; visitors must not mutate the store.
func (s *Store) Iterate(fn func(EntryInfo) bool) {
	for i := range s.slots {
		if !s.slots[i].used {
			continue
		}
		if !fn(s.info(i)) {
			return
		}
	}
}

// IterateNamespace is Iterate restricted to entries in one namespace.
func (s *Store) IterateNamespace(ns uint8, fn func(EntryInfo) bool) {
	for i := range s.slots {
		if !s.slots[i].used || s.slots[i].ns != ns {
			continue
		}
		if !fn(s.info(i)) {
			return
		}
	}
}

// MaxValueSize returns the configured per-value size cap.
func (s *Store) MaxValueSize() int {
	return s.maxValue
}

// MaxKeyLen returns the configured key length cap.
func (s *Store) MaxKeyLen() int {
	return s.maxKeyLen
}
