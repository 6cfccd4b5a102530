package confbox

import (
	"errors"

	"github.com/KilimcininKorOglu/confbox/internal/backend"
	"github.com/KilimcininKorOglu/confbox/internal/codec"
	"github.com/KilimcininKorOglu/confbox/internal/crypto"
	"github.com/KilimcininKorOglu/confbox/internal/defaults"
	"github.com/KilimcininKorOglu/confbox/internal/store"
)

// Re-exported store types. The facade resolves namespaces and validates
// parameters; the store addresses entries by (key, namespace id).
type (
	// ValueType identifies the kind of a stored value.
	ValueType = store.ValueType
	// Flags is the per-entry flag bitset.
	Flags = store.Flags
	// EntryInfo is the immutable view passed to iteration visitors.
	EntryInfo = store.EntryInfo
)

// Value types.
const (
	TypeInvalid = store.TypeInvalid
	TypeInt32   = store.TypeInt32
	TypeUint32  = store.TypeUint32
	TypeInt64   = store.TypeInt64
	TypeFloat   = store.TypeFloat
	TypeBool    = store.TypeBool
	TypeString  = store.TypeString
	TypeBlob    = store.TypeBlob
)

// Entry flags.
const (
	FlagEncrypted  = store.FlagEncrypted
	FlagReadOnly   = store.FlagReadOnly
	FlagPersistent = store.FlagPersistent
)

// DefaultNamespace is the always-present namespace id 0.
const DefaultNamespace = store.DefaultNamespace

// Manager is the single entry point. It owns the lifecycle of the entry
// store, namespace registry, crypto engine, callback registry, default
// registry, and backend wiring. A Manager is an owned context object;
// independent instances do not share state.
//
// The zero value is an uninitialized manager; call Init before use.
type Manager struct {
	opts       Options
	store      *store.Store
	namespaces *store.Namespaces
	engine     crypto.Engine
	codec      *codec.Codec
	callbacks  callbackRegistry
	defaults   defaults.Registry
	backend    backend.Backend
	watcher    *backend.Watcher

	// scratch and plain are the fixed crypto buffers; commitBuf holds a
	// worst-case binary snapshot for backend commits. All three are
	// allocated once at Init.
	scratch   []byte
	plain     []byte
	commitBuf []byte

	dirty       bool
	initialized bool
	lastErr     Status
}

// NewManager returns an uninitialized manager.
func NewManager() *Manager {
	return &Manager{}
}

// Init validates the configured bounds and brings the manager to the
// initialized state: entry store, then namespace registry, then callback
// registry. A failed stage unwinds the prior ones and the manager stays
// uninitialized. Init on an initialized manager fails with
// ErrAlreadyInit.
func (m *Manager) Init(opts Options) error {
	if m.initialized {
		return m.fail(ErrAlreadyInit)
	}
	if err := opts.validate(); err != nil {
		return m.fail(ErrInvalidParam)
	}

	m.opts = opts
	m.store = store.New(opts.MaxKeys, opts.MaxKeyLen, opts.MaxValueSize)
	m.namespaces = store.NewNamespaces(opts.MaxNamespaces)
	if err := m.callbacks.init(opts.MaxCallbacks); err != nil {
		m.reset()
		return m.fail(ErrInvalidParam)
	}

	m.codec = codec.New(m.store, &m.engine)
	m.scratch = make([]byte, opts.MaxValueSize)
	m.plain = make([]byte, opts.MaxValueSize)
	m.commitBuf = make([]byte, commitBufSize(opts))

	m.initialized = true
	m.lastErr = OK
	return nil
}

// commitBufSize is the worst-case binary snapshot size for the limits.
func commitBufSize(opts Options) int {
	const headerSize = 16
	const recordHeaderSize = 6
	return headerSize + opts.MaxKeys*(recordHeaderSize+opts.MaxKeyLen+opts.MaxValueSize)
}

// Deinit tears the manager down in reverse init order: backend detach,
// crypto key zeroization, callback, namespace, and store teardown, then
// the default registry. Deinit on an uninitialized manager fails with
// ErrNotInit. After a clean Deinit the manager can be initialized again.
func (m *Manager) Deinit() error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	m.backend = nil
	m.engine.Clear()
	m.reset()
	m.initialized = false
	m.lastErr = OK
	return nil
}

func (m *Manager) reset() {
	if m.store != nil {
		m.store.Clear()
	}
	m.callbacks.deinit()
	m.defaults.Clear()
	m.store = nil
	m.namespaces = nil
	m.codec = nil
	m.scratch = nil
	m.plain = nil
	m.commitBuf = nil
	m.dirty = false
}

// Initialized reports whether the manager is in the initialized state.
func (m *Manager) Initialized() bool {
	return m.initialized
}

// LastError returns the status of the most recent operation. This is a
// convenience mirror; callers should check the direct return values.
func (m *Manager) LastError() Status {
	return m.lastErr
}

// Limits returns the options the manager was initialized with.
func (m *Manager) Limits() Options {
	return m.opts
}

// fail records and returns a status.
func (m *Manager) fail(s Status) error {
	m.lastErr = s
	return s
}

// done maps an internal error onto the status surface, records it, and
// returns nil on success.
func (m *Manager) done(err error) error {
	if err == nil {
		m.lastErr = OK
		return nil
	}
	return m.fail(statusOf(err))
}

// statusOf maps internal package errors to the shared status codes.
func statusOf(err error) Status {
	var s Status
	if errors.As(err, &s) {
		return s
	}
	switch {
	case errors.Is(err, store.ErrKeyTooLong):
		return ErrKeyTooLong
	case errors.Is(err, store.ErrValueTooLarge):
		return ErrValueTooLarge
	case errors.Is(err, store.ErrNoSpace):
		return ErrNoSpace
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrBufferTooSmall):
		return ErrBufferTooSmall
	case errors.Is(err, store.ErrReadOnly):
		return ErrInvalidParam
	case errors.Is(err, store.ErrInvalidKey):
		return ErrInvalidParam
	case errors.Is(err, store.ErrNamespaceNameTooLong):
		return ErrKeyTooLong
	case errors.Is(err, store.ErrNamespaceFull):
		return ErrNoSpace
	case errors.Is(err, store.ErrNamespaceNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrInvalidNamespaceName):
		return ErrInvalidParam
	case errors.Is(err, crypto.ErrInvalidKeySize), errors.Is(err, crypto.ErrInvalidAlgorithm):
		return ErrInvalidParam
	case errors.Is(err, crypto.ErrNoKey):
		return ErrNoEncryptionKey
	case errors.Is(err, crypto.ErrDecryptFailed):
		return ErrCryptoFailed
	case errors.Is(err, crypto.ErrBufferTooSmall):
		return ErrBufferTooSmall
	case errors.Is(err, codec.ErrBufferTooSmall):
		return ErrBufferTooSmall
	case errors.Is(err, codec.ErrInvalidFormat), errors.Is(err, codec.ErrEntrySkipped):
		return ErrInvalidFormat
	case errors.Is(err, codec.ErrInvalidNamespace):
		return ErrInvalidParam
	case errors.Is(err, backend.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, backend.ErrReadFailed):
		return ErrReadFailed
	case errors.Is(err, backend.ErrWriteFailed):
		return ErrWriteFailed
	case errors.Is(err, defaults.ErrFull):
		return ErrNoSpace
	case errors.Is(err, defaults.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, defaults.ErrInvalidKey):
		return ErrInvalidParam
	case errors.Is(err, defaults.ErrBufferTooSmall):
		return ErrBufferTooSmall
	default:
		return ErrFailed
	}
}

// RegisterNamespace returns the id for name, assigning one when the name
// is new. The mapping is append-only for the manager's lifetime.
func (m *Manager) RegisterNamespace(name string) (uint8, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	id, err := m.namespaces.Register(name)
	return id, m.done(err)
}

// NamespaceID resolves a registered namespace name without registering it.
func (m *Manager) NamespaceID(name string) (uint8, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	id, err := m.namespaces.Lookup(name)
	return id, m.done(err)
}

// NamespaceName returns the name registered for id.
func (m *Manager) NamespaceName(id uint8) (string, error) {
	if !m.initialized {
		return "", m.fail(ErrNotInit)
	}
	name, err := m.namespaces.Name(id)
	return name, m.done(err)
}

// Namespaces calls fn for every registered namespace in id order.
func (m *Manager) Namespaces(fn func(id uint8, name string) bool) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	m.namespaces.Each(fn)
	return m.done(nil)
}

// checkNamespace fails with ErrNotFound for unassigned namespace ids.
func (m *Manager) checkNamespace(ns uint8) error {
	if !m.namespaces.Known(ns) {
		return store.ErrNamespaceNotFound
	}
	return nil
}

// SetBytes creates or overwrites an entry with raw value bytes.
func (m *Manager) SetBytes(ns uint8, key string, typ ValueType, value []byte, flags Flags) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if !typ.Valid() {
		return m.fail(ErrInvalidParam)
	}
	if err := m.checkNamespace(ns); err != nil {
		return m.done(err)
	}
	if err := m.store.Set(ns, key, typ, value, flags); err != nil {
		return m.done(err)
	}
	return m.done(m.mutated(OpSet, ns, key, typ))
}

// GetBytes copies an entry's raw value bytes into buf and returns the
// value size. An undersized buffer fails with ErrBufferTooSmall and
// reports the required size without touching buf; a nil buf probes the
// size.
func (m *Manager) GetBytes(ns uint8, key string, buf []byte) (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	if err := m.checkNamespace(ns); err != nil {
		return 0, m.done(err)
	}
	n, err := m.store.Get(ns, key, buf)
	return n, m.done(err)
}

// Entry returns an entry's metadata: type, size, and flags.
func (m *Manager) Entry(ns uint8, key string) (EntryInfo, error) {
	if !m.initialized {
		return EntryInfo{}, m.fail(ErrNotInit)
	}
	if err := m.checkNamespace(ns); err != nil {
		return EntryInfo{}, m.done(err)
	}
	info, err := m.store.Info(ns, key)
	return info, m.done(err)
}

// Exists reports whether an entry is present.
func (m *Manager) Exists(ns uint8, key string) bool {
	if !m.initialized || m.checkNamespace(ns) != nil {
		return false
	}
	return m.store.Exists(ns, key)
}

// Delete removes an entry.
func (m *Manager) Delete(ns uint8, key string) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if err := m.checkNamespace(ns); err != nil {
		return m.done(err)
	}
	info, err := m.store.Info(ns, key)
	if err != nil {
		return m.done(err)
	}
	if err := m.store.Delete(ns, key); err != nil {
		return m.done(err)
	}
	return m.done(m.mutated(OpDelete, ns, key, info.Type))
}

// Count returns the number of live entries across all namespaces.
func (m *Manager) Count() (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	return m.store.Count(), m.done(nil)
}

// Clear removes every entry in every namespace.
func (m *Manager) Clear() error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	m.store.Clear()
	return m.done(m.mutated(OpClear, DefaultNamespace, "", TypeInvalid))
}

// Iterate calls fn once per live entry with an immutable view. Visitors
// must not mutate the store; return false to stop early.
func (m *Manager) Iterate(fn func(EntryInfo) bool) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if fn == nil {
		return m.fail(ErrInvalidParam)
	}
	m.store.Iterate(fn)
	return m.done(nil)
}

// IterateNamespace is Iterate restricted to one namespace.
func (m *Manager) IterateNamespace(ns uint8, fn func(EntryInfo) bool) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if fn == nil {
		return m.fail(ErrInvalidParam)
	}
	if err := m.checkNamespace(ns); err != nil {
		return m.done(err)
	}
	m.store.IterateNamespace(ns, fn)
	return m.done(nil)
}

// mutated runs the post-mutation hooks: dirty tracking, change
// callbacks, and auto-commit.
func (m *Manager) mutated(op Op, ns uint8, key string, typ ValueType) error {
	m.dirty = true
	m.callbacks.fire(Event{Op: op, Namespace: ns, Key: key, Type: typ})
	if m.opts.AutoCommit && m.backend != nil {
		return m.commit()
	}
	return nil
}
