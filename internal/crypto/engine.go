package crypto

import (
	"errors"
)

// Key sizes in bytes.
const (
	Key128Size = 16
	Key256Size = 32
)

// maxRounds is the round count for AES-256, the largest supported key.
const maxRounds = 14

// Errors returned by crypto operations.
var (
	// ErrInvalidKeySize is returned when the key length does not match the
	// chosen algorithm. The engine's previous key, if any, stays active.
	ErrInvalidKeySize = errors.New("crypto: invalid key size for algorithm")
	// ErrInvalidAlgorithm is returned for an unknown algorithm value.
	ErrInvalidAlgorithm = errors.New("crypto: invalid algorithm")
	// ErrNoKey is returned by Encrypt/Decrypt when no key is set.
	ErrNoKey = errors.New("crypto: no encryption key set")
	// ErrDecryptFailed is returned when ciphertext structure or PKCS7
	// padding validation fails, which is the usual wrong-key symptom.
	ErrDecryptFailed = errors.New("crypto: decryption failed")
	// ErrBufferTooSmall is returned when the destination buffer cannot
	// hold the result.
	ErrBufferTooSmall = errors.New("crypto: buffer too small")
)

// Algorithm selects the AES key size.
type Algorithm int

const (
	// AES128 uses a 16-byte key and 10 rounds.
	AES128 Algorithm = iota
	// AES256 uses a 32-byte key and 14 rounds.
	AES256
)

// KeySize returns the exact key length the algorithm requires.
func (a Algorithm) KeySize() int {
	switch a {
	case AES128:
		return Key128Size
	case AES256:
		return Key256Size
	default:
		return 0
	}
}

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AES128:
		return "aes-128"
	case AES256:
		return "aes-256"
	default:
		return "unknown"
	}
}

// ParseAlgorithm returns the algorithm for a name ("aes-128" or "aes-256").
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "aes-128":
		return AES128, nil
	case "aes-256":
		return AES256, nil
	default:
		return 0, ErrInvalidAlgorithm
	}
}

// Engine holds one active key and its expanded schedule. The zero value
// is a disabled engine. Engine performs no allocation after SetKey and
// no locking; the caller serializes access.
type Engine struct {
	enabled   bool
	alg       Algorithm
	rounds    int
	roundKeys [maxRounds + 1][BlockSize]byte
	key       [Key256Size]byte
	keyLen    int
}

// SetKey validates the key length against the algorithm and swaps in the
// new schedule. On failure the previously active key and enabled state
// are left untouched. Existing ciphertexts are not re-encrypted.
func (e *Engine) SetKey(alg Algorithm, key []byte) error {
	want := alg.KeySize()
	if want == 0 {
		return ErrInvalidAlgorithm
	}
	if len(key) != want {
		return ErrInvalidKeySize
	}

	e.Clear()
	copy(e.key[:], key)
	e.keyLen = want
	e.alg = alg
	e.rounds = want/4 + 6
	expandKey(e.key[:want], want/4, &e.roundKeys)
	e.enabled = true
	return nil
}

// Clear zeroes the key material and expanded schedule and disables the
// engine.
func (e *Engine) Clear() {
	for i := range e.key {
		e.key[i] = 0
	}
	for i := range e.roundKeys {
		for j := range e.roundKeys[i] {
			e.roundKeys[i][j] = 0
		}
	}
	e.keyLen = 0
	e.rounds = 0
	e.enabled = false
}

// Enabled reports whether a key is set.
func (e *Engine) Enabled() bool {
	return e.enabled
}

// Algorithm returns the active algorithm. Meaningful only when Enabled.
func (e *Engine) Algorithm() Algorithm {
	return e.alg
}

// EncryptBlock encrypts exactly one 16-byte block without CBC chaining or
// padding. Used by known-answer tests to isolate the cipher core.
func (e *Engine) EncryptBlock(dst, src []byte) error {
	if !e.enabled {
		return ErrNoKey
	}
	if len(src) != BlockSize || len(dst) < BlockSize {
		return ErrBufferTooSmall
	}
	var state [BlockSize]byte
	copy(state[:], src)
	encryptBlock(&state, &e.roundKeys, e.rounds)
	copy(dst, state[:])
	return nil
}

// DecryptBlock is the inverse of EncryptBlock.
func (e *Engine) DecryptBlock(dst, src []byte) error {
	if !e.enabled {
		return ErrNoKey
	}
	if len(src) != BlockSize || len(dst) < BlockSize {
		return ErrBufferTooSmall
	}
	var state [BlockSize]byte
	copy(state[:], src)
	decryptBlock(&state, &e.roundKeys, e.rounds)
	copy(dst, state[:])
	return nil
}
