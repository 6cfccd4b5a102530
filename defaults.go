package confbox

import (
	"github.com/KilimcininKorOglu/confbox/internal/defaults"
)

// MaxDefaults caps the number of registered fallback values.
const MaxDefaults = defaults.MaxDefaults

// RegisterDefault adds or replaces a fallback typed value. Defaults are
// queried explicitly with GetDefault; a store miss never falls back to
// them on its own.
func (m *Manager) RegisterDefault(key string, typ ValueType, value []byte) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if !typ.Valid() {
		return m.fail(ErrInvalidParam)
	}
	return m.done(m.defaults.Register(key, typ, value))
}

// GetDefault copies the fallback value for key into buf and returns its
// size and type, with the two-call size protocol on an undersized buf.
func (m *Manager) GetDefault(key string, buf []byte) (int, ValueType, error) {
	if !m.initialized {
		return 0, TypeInvalid, m.fail(ErrNotInit)
	}
	n, typ, err := m.defaults.Get(key, buf)
	return n, typ, m.done(err)
}

// DefaultType returns the registered type of a fallback value.
func (m *Manager) DefaultType(key string) (ValueType, error) {
	if !m.initialized {
		return TypeInvalid, m.fail(ErrNotInit)
	}
	typ, err := m.defaults.Type(key)
	return typ, m.done(err)
}

// DefaultCount returns the number of registered fallback values.
func (m *Manager) DefaultCount() (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	return m.defaults.Count(), m.done(nil)
}
