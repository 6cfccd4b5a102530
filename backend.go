package confbox

import (
	"github.com/KilimcininKorOglu/confbox/internal/backend"
)

// Backend is the injected persistence strategy.
type Backend = backend.Backend

// NewFileBackend returns a backend persisting snapshots to path with
// atomic write-then-rename commits.
func NewFileBackend(path string) *backend.File {
	return backend.NewFile(path)
}

// NewMemoryBackend returns an in-memory backend, useful for tests and
// hosts without durable storage.
func NewMemoryBackend() *backend.Memory {
	return backend.NewMemory()
}

// SetBackend installs the persistence strategy. A nil backend detaches
// persistence; Commit and Load then fail with ErrNoBackend.
func (m *Manager) SetBackend(b Backend) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	m.backend = b
	return m.done(nil)
}

// Dirty reports whether the store has mutations not yet committed to the
// backend.
func (m *Manager) Dirty() bool {
	return m.initialized && m.dirty
}

// Commit serializes the store to the binary container and hands it to
// the backend. Encrypted entries are committed as ciphertext.
func (m *Manager) Commit() error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if m.backend == nil {
		return m.fail(ErrNoBackend)
	}
	return m.done(m.commit())
}

// commit is the auto-commit entry point; callers have checked the
// backend.
func (m *Manager) commit() error {
	opts := ExportOptions{Format: FormatBinary, Namespace: AllNamespaces}
	n, err := m.codec.Export(m.commitBuf, opts)
	if err != nil {
		return err
	}
	if err := m.backend.Commit(m.commitBuf[:n]); err != nil {
		return backend.ErrWriteFailed
	}
	m.dirty = false
	return nil
}

// Load replaces the store contents with the backend's last committed
// snapshot. A backend without a snapshot fails with ErrNotFound and
// leaves the store unchanged.
func (m *Manager) Load() error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if m.backend == nil {
		return m.fail(ErrNoBackend)
	}
	data, err := m.backend.Load()
	if err != nil {
		return m.done(err)
	}
	opts := ImportOptions{Format: FormatBinary, Clear: true}
	if _, _, err := m.codec.Import(data, opts); err != nil {
		return m.done(err)
	}
	m.dirty = false
	m.callbacks.fire(Event{Op: OpLoad, Namespace: DefaultNamespace})
	return m.done(nil)
}

// WatchBackend starts watching a file backend's snapshot for external
// modification and calls onChange after each debounced change. It fails
// with ErrNoBackend when the installed backend is not a file backend.
// The watcher is stopped by SetBackend and Deinit.
func (m *Manager) WatchBackend(onChange func()) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	fb, ok := m.backend.(*backend.File)
	if !ok || fb == nil {
		return m.fail(ErrNoBackend)
	}
	if onChange == nil {
		return m.fail(ErrInvalidParam)
	}
	w, err := fb.Watch(onChange)
	if err != nil {
		return m.fail(ErrReadFailed)
	}
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.watcher = w
	return m.done(nil)
}
