package crypto

import (
	"crypto/rand"
	"io"
)

// EncryptedSize returns the ciphertext size for a plaintext of n bytes:
// a 16-byte IV plus the PKCS7-padded payload. Padding is always added,
// so an exact block boundary still grows by one block.
func EncryptedSize(n int) int {
	return BlockSize + (n/BlockSize+1)*BlockSize
}

// MaxDecryptedSize returns the upper bound on the plaintext size for a
// ciphertext of n bytes. The actual size depends on the padding and is
// known only after decryption.
func MaxDecryptedSize(n int) int {
	if n < 2*BlockSize {
		return 0
	}
	return n - BlockSize
}

// Encrypt encrypts plaintext into dst as IV || CBC(PKCS7(plaintext)) and
// returns the number of bytes written. dst must hold at least
// EncryptedSize(len(plaintext)) bytes. The IV is drawn from crypto/rand.
func (e *Engine) Encrypt(dst, plaintext []byte) (int, error) {
	if !e.enabled {
		return 0, ErrNoKey
	}
	total := EncryptedSize(len(plaintext))
	if len(dst) < total {
		return 0, ErrBufferTooSmall
	}

	iv := dst[:BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return 0, err
	}

	pad := byte(BlockSize - len(plaintext)%BlockSize)
	var prev, block [BlockSize]byte
	copy(prev[:], iv)

	out := dst[BlockSize:total]
	for off := 0; off < total-BlockSize; off += BlockSize {
		for i := 0; i < BlockSize; i++ {
			if off+i < len(plaintext) {
				block[i] = plaintext[off+i]
			} else {
				block[i] = pad
			}
			block[i] ^= prev[i]
		}
		encryptBlock(&block, &e.roundKeys, e.rounds)
		copy(out[off:], block[:])
		prev = block
	}
	return total, nil
}

// Decrypt decrypts an IV-prefixed CBC ciphertext into dst, validates the
// PKCS7 padding, and returns the plaintext length. dst must hold at least
// MaxDecryptedSize(len(ciphertext)) bytes. Structural or padding
// violations return ErrDecryptFailed.
func (e *Engine) Decrypt(dst, ciphertext []byte) (int, error) {
	if !e.enabled {
		return 0, ErrNoKey
	}
	if len(ciphertext) < 2*BlockSize || (len(ciphertext)-BlockSize)%BlockSize != 0 {
		return 0, ErrDecryptFailed
	}
	padded := len(ciphertext) - BlockSize
	if len(dst) < padded {
		return 0, ErrBufferTooSmall
	}

	var prev, block [BlockSize]byte
	copy(prev[:], ciphertext[:BlockSize])

	in := ciphertext[BlockSize:]
	for off := 0; off < padded; off += BlockSize {
		copy(block[:], in[off:off+BlockSize])
		ct := block
		decryptBlock(&block, &e.roundKeys, e.rounds)
		for i := 0; i < BlockSize; i++ {
			dst[off+i] = block[i] ^ prev[i]
		}
		prev = ct
	}

	pad := int(dst[padded-1])
	if pad < 1 || pad > BlockSize {
		return 0, ErrDecryptFailed
	}
	for i := padded - pad; i < padded; i++ {
		if dst[i] != byte(pad) {
			return 0, ErrDecryptFailed
		}
	}
	return padded - pad, nil
}
