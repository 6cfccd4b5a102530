package confbox

import (
	"github.com/KilimcininKorOglu/confbox/internal/crypto"
	"github.com/KilimcininKorOglu/confbox/internal/store"
)

// Algorithm selects the AES key size for the encryption engine.
type Algorithm = crypto.Algorithm

// Supported algorithms. AES128 requires exactly 16 key bytes, AES256
// exactly 32.
const (
	AES128 = crypto.AES128
	AES256 = crypto.AES256
)

// EncryptedSize returns the stored size of an encrypted value for a
// plaintext of n bytes (IV plus PKCS7-padded payload).
func EncryptedSize(n int) int {
	return crypto.EncryptedSize(n)
}

// SetEncryptionKey validates the key length against the algorithm and
// activates it. On failure any previously active key stays in effect.
// Setting a new key does not re-encrypt existing encrypted entries; use
// RotateEncryptionKey for that.
func (m *Manager) SetEncryptionKey(alg Algorithm, key []byte) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	return m.done(m.engine.SetKey(alg, key))
}

// ClearEncryptionKey zeroes the active key material and disables
// encryption. Encrypted entries remain stored as ciphertext.
func (m *Manager) ClearEncryptionKey() error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	m.engine.Clear()
	return m.done(nil)
}

// EncryptionEnabled reports whether an encryption key is active.
func (m *Manager) EncryptionEnabled() bool {
	return m.initialized && m.engine.Enabled()
}

// SetStringEncrypted encrypts a text value and stores the ciphertext
// with FlagEncrypted set. The write fails with ErrValueTooLarge before
// any store mutation when the ciphertext (IV included) would exceed the
// configured maximum value size.
func (m *Manager) SetStringEncrypted(ns uint8, key, v string, flags Flags) error {
	return m.setEncrypted(ns, key, TypeString, []byte(v), flags)
}

// SetBlobEncrypted encrypts a blob value and stores the ciphertext with
// FlagEncrypted set.
func (m *Manager) SetBlobEncrypted(ns uint8, key string, v []byte, flags Flags) error {
	return m.setEncrypted(ns, key, TypeBlob, v, flags)
}

func (m *Manager) setEncrypted(ns uint8, key string, typ ValueType, plain []byte, flags Flags) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	if !m.engine.Enabled() {
		return m.fail(ErrNoEncryptionKey)
	}
	if crypto.EncryptedSize(len(plain)) > m.opts.MaxValueSize {
		return m.fail(ErrValueTooLarge)
	}
	n, err := m.engine.Encrypt(m.scratch, plain)
	if err != nil {
		return m.done(err)
	}
	return m.SetBytes(ns, key, typ, m.scratch[:n], flags|FlagEncrypted)
}

// GetStringDecrypted reads and decrypts an encrypted text entry.
func (m *Manager) GetStringDecrypted(ns uint8, key string) (string, error) {
	n, err := m.getDecrypted(ns, key, TypeString)
	if err != nil {
		return "", err
	}
	return string(m.plain[:n]), nil
}

// GetBlobDecrypted reads and decrypts an encrypted blob entry into buf
// using the two-call size protocol. The reported required size is the
// exact plaintext size.
func (m *Manager) GetBlobDecrypted(ns uint8, key string, buf []byte) (int, error) {
	n, err := m.getDecrypted(ns, key, TypeBlob)
	if err != nil {
		return n, err
	}
	if len(buf) < n {
		return n, m.fail(ErrBufferTooSmall)
	}
	copy(buf, m.plain[:n])
	return n, nil
}

// getDecrypted fetches an encrypted entry and decrypts it into m.plain.
func (m *Manager) getDecrypted(ns uint8, key string, typ ValueType) (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	if !m.engine.Enabled() {
		return 0, m.fail(ErrNoEncryptionKey)
	}
	if err := m.checkNamespace(ns); err != nil {
		return 0, m.done(err)
	}
	info, err := m.store.Info(ns, key)
	if err != nil {
		return 0, m.done(err)
	}
	if info.Type != typ {
		return 0, m.fail(ErrTypeMismatch)
	}
	if !info.Flags.Has(FlagEncrypted) {
		return 0, m.fail(ErrInvalidParam)
	}
	cn, err := m.store.Get(ns, key, m.scratch)
	if err != nil {
		return 0, m.done(err)
	}
	n, err := m.engine.Decrypt(m.plain, m.scratch[:cn])
	if err != nil {
		return 0, m.done(err)
	}
	return n, m.done(nil)
}

// RotateEncryptionKey switches to a new key and re-encrypts every
// encrypted entry under it. Entries that fail to decrypt under the old
// key, or that are read-only, keep their old ciphertext and are counted
// as skipped; rotation continues past them. The new key stays active
// even when entries were skipped.
func (m *Manager) RotateEncryptionKey(alg Algorithm, key []byte) (reencrypted, skipped int, err error) {
	if !m.initialized {
		return 0, 0, m.fail(ErrNotInit)
	}
	if !m.engine.Enabled() {
		return 0, 0, m.fail(ErrNoEncryptionKey)
	}

	var next crypto.Engine
	if err := next.SetKey(alg, key); err != nil {
		return 0, 0, m.done(err)
	}

	// Collect targets first; re-encryption mutates the store and must
	// not run inside the iteration.
	targets := make([]store.EntryInfo, 0, m.store.Count())
	m.store.Iterate(func(info store.EntryInfo) bool {
		if info.Flags.Has(store.FlagEncrypted) {
			targets = append(targets, info)
		}
		return true
	})

	for _, info := range targets {
		cn, gerr := m.store.Get(info.Namespace, info.Key, m.scratch)
		if gerr != nil {
			skipped++
			continue
		}
		pn, derr := m.engine.Decrypt(m.plain, m.scratch[:cn])
		if derr != nil {
			skipped++
			continue
		}
		en, eerr := next.Encrypt(m.scratch, m.plain[:pn])
		if eerr != nil {
			skipped++
			continue
		}
		if serr := m.store.Set(info.Namespace, info.Key, info.Type, m.scratch[:en], info.Flags); serr != nil {
			skipped++
			continue
		}
		reencrypted++
	}

	m.engine = next
	next.Clear()
	if reencrypted > 0 {
		if cerr := m.mutated(OpSet, DefaultNamespace, "", TypeInvalid); cerr != nil {
			return reencrypted, skipped, m.done(cerr)
		}
	}
	return reencrypted, skipped, m.done(nil)
}
