package confbox

import (
	"math"
)

// Typed accessors over the raw byte store. Scalars encode little-endian
// with the fixed sizes the binary container uses. Getters are
// type-checked: reading an entry as the wrong type fails with
// ErrTypeMismatch.

// SetInt32 stores a 32-bit signed integer.
func (m *Manager) SetInt32(ns uint8, key string, v int32, flags Flags) error {
	var buf [4]byte
	putUint32(buf[:], uint32(v))
	return m.SetBytes(ns, key, TypeInt32, buf[:], flags)
}

// GetInt32 reads a 32-bit signed integer.
func (m *Manager) GetInt32(ns uint8, key string) (int32, error) {
	var buf [4]byte
	if err := m.getScalar(ns, key, TypeInt32, buf[:]); err != nil {
		return 0, err
	}
	return int32(getUint32(buf[:])), nil
}

// SetUint32 stores a 32-bit unsigned integer.
func (m *Manager) SetUint32(ns uint8, key string, v uint32, flags Flags) error {
	var buf [4]byte
	putUint32(buf[:], v)
	return m.SetBytes(ns, key, TypeUint32, buf[:], flags)
}

// GetUint32 reads a 32-bit unsigned integer.
func (m *Manager) GetUint32(ns uint8, key string) (uint32, error) {
	var buf [4]byte
	if err := m.getScalar(ns, key, TypeUint32, buf[:]); err != nil {
		return 0, err
	}
	return getUint32(buf[:]), nil
}

// SetInt64 stores a 64-bit signed integer.
func (m *Manager) SetInt64(ns uint8, key string, v int64, flags Flags) error {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return m.SetBytes(ns, key, TypeInt64, buf[:], flags)
}

// GetInt64 reads a 64-bit signed integer.
func (m *Manager) GetInt64(ns uint8, key string) (int64, error) {
	var buf [8]byte
	if err := m.getScalar(ns, key, TypeInt64, buf[:]); err != nil {
		return 0, err
	}
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(buf[i]) << (8 * i)
	}
	return int64(u), nil
}

// SetFloat stores a single-precision float.
func (m *Manager) SetFloat(ns uint8, key string, v float32, flags Flags) error {
	var buf [4]byte
	putUint32(buf[:], math.Float32bits(v))
	return m.SetBytes(ns, key, TypeFloat, buf[:], flags)
}

// GetFloat reads a single-precision float.
func (m *Manager) GetFloat(ns uint8, key string) (float32, error) {
	var buf [4]byte
	if err := m.getScalar(ns, key, TypeFloat, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(getUint32(buf[:])), nil
}

// SetBool stores a boolean.
func (m *Manager) SetBool(ns uint8, key string, v bool, flags Flags) error {
	b := byte(0)
	if v {
		b = 1
	}
	return m.SetBytes(ns, key, TypeBool, []byte{b}, flags)
}

// GetBool reads a boolean.
func (m *Manager) GetBool(ns uint8, key string) (bool, error) {
	var buf [1]byte
	if err := m.getScalar(ns, key, TypeBool, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// SetString stores a text value.
func (m *Manager) SetString(ns uint8, key, v string, flags Flags) error {
	return m.SetBytes(ns, key, TypeString, []byte(v), flags)
}

// GetString reads a text value.
func (m *Manager) GetString(ns uint8, key string) (string, error) {
	if !m.initialized {
		return "", m.fail(ErrNotInit)
	}
	if err := m.checkTyped(ns, key, TypeString); err != nil {
		return "", err
	}
	n, err := m.store.Get(ns, key, m.scratch)
	if err != nil {
		return "", m.done(err)
	}
	return string(m.scratch[:n]), m.done(nil)
}

// SetBlob stores an opaque byte blob.
func (m *Manager) SetBlob(ns uint8, key string, v []byte, flags Flags) error {
	return m.SetBytes(ns, key, TypeBlob, v, flags)
}

// GetBlob copies a blob value into buf using the two-call size protocol.
func (m *Manager) GetBlob(ns uint8, key string, buf []byte) (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	if err := m.checkTyped(ns, key, TypeBlob); err != nil {
		return 0, err
	}
	n, err := m.store.Get(ns, key, buf)
	return n, m.done(err)
}

// GetType returns the stored type of an entry.
func (m *Manager) GetType(ns uint8, key string) (ValueType, error) {
	info, err := m.Entry(ns, key)
	if err != nil {
		return TypeInvalid, err
	}
	return info.Type, nil
}

// GetFlags returns the stored flags of an entry.
func (m *Manager) GetFlags(ns uint8, key string) (Flags, error) {
	info, err := m.Entry(ns, key)
	if err != nil {
		return 0, err
	}
	return info.Flags, nil
}

// getScalar reads a fixed-size scalar after a type check.
func (m *Manager) getScalar(ns uint8, key string, typ ValueType, buf []byte) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if err := m.checkTyped(ns, key, typ); err != nil {
		return err
	}
	n, err := m.store.Get(ns, key, buf)
	if err != nil {
		return m.done(err)
	}
	if n != len(buf) {
		return m.fail(ErrTypeMismatch)
	}
	return m.done(nil)
}

// checkTyped verifies the namespace and the stored type.
func (m *Manager) checkTyped(ns uint8, key string, typ ValueType) error {
	if err := m.checkNamespace(ns); err != nil {
		return m.done(err)
	}
	info, err := m.store.Info(ns, key)
	if err != nil {
		return m.done(err)
	}
	if info.Type != typ {
		return m.fail(ErrTypeMismatch)
	}
	return nil
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
