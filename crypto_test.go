package confbox

import (
	"bytes"
	"testing"
)

func key128() []byte { return bytes.Repeat([]byte{0x11}, 16) }
func key256() []byte { return bytes.Repeat([]byte{0x22}, 32) }

func TestSetEncryptionKeyValidation(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name    string
		alg     Algorithm
		keyLen  int
		wantErr error
	}{
		{"aes-128 valid", AES128, 16, nil},
		{"aes-128 short", AES128, 15, ErrInvalidParam},
		{"aes-128 long", AES128, 17, ErrInvalidParam},
		{"aes-256 valid", AES256, 32, nil},
		{"aes-256 short", AES256, 31, ErrInvalidParam},
		{"unknown algorithm", Algorithm(7), 16, ErrInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.SetEncryptionKey(tt.alg, make([]byte, tt.keyLen))
			if err != tt.wantErr {
				t.Errorf("SetEncryptionKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRejectedKeyKeepsPreviousKey(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetStringEncrypted(DefaultNamespace, "secret", "v", 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}

	if err := m.SetEncryptionKey(AES256, make([]byte, 31)); err != ErrInvalidParam {
		t.Fatalf("SetEncryptionKey(bad) error = %v, want %v", err, ErrInvalidParam)
	}

	// The previously active key still decrypts.
	if !m.EncryptionEnabled() {
		t.Fatal("EncryptionEnabled() = false after rejected key change")
	}
	got, err := m.GetStringDecrypted(DefaultNamespace, "secret")
	if err != nil || got != "v" {
		t.Errorf("GetStringDecrypted() = %q, %v, want %q, nil", got, err, "v")
	}
}

func TestEncryptedStringRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES256, key256()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}

	plain := "wifi-password-123"
	if err := m.SetStringEncrypted(DefaultNamespace, "pw", plain, 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}

	got, err := m.GetStringDecrypted(DefaultNamespace, "pw")
	if err != nil || got != plain {
		t.Fatalf("GetStringDecrypted() = %q, %v, want %q, nil", got, err, plain)
	}

	// The stored bytes are ciphertext with the flag set.
	info, err := m.Entry(DefaultNamespace, "pw")
	if err != nil {
		t.Fatalf("Entry() error = %v", err)
	}
	if !info.Flags.Has(FlagEncrypted) {
		t.Error("entry missing FlagEncrypted")
	}
	if info.Size != EncryptedSize(len(plain)) {
		t.Errorf("stored size = %d, want %d", info.Size, EncryptedSize(len(plain)))
	}
	raw := make([]byte, info.Size)
	n, err := m.GetBytes(DefaultNamespace, "pw", raw)
	if err != nil {
		t.Fatalf("GetBytes() error = %v", err)
	}
	if bytes.Contains(raw[:n], []byte(plain)) {
		t.Error("stored bytes contain the plaintext")
	}
}

func TestEncryptedBlobRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}

	blob := []byte{1, 2, 3, 4, 5, 6, 7}
	if err := m.SetBlobEncrypted(DefaultNamespace, "cert", blob, 0); err != nil {
		t.Fatalf("SetBlobEncrypted() error = %v", err)
	}

	// Two-call protocol reports the exact plaintext size.
	n, err := m.GetBlobDecrypted(DefaultNamespace, "cert", nil)
	if n != len(blob) || err != ErrBufferTooSmall {
		t.Fatalf("GetBlobDecrypted(nil) = %d, %v, want %d, %v", n, err, len(blob), ErrBufferTooSmall)
	}
	buf := make([]byte, n)
	n, err = m.GetBlobDecrypted(DefaultNamespace, "cert", buf)
	if err != nil || !bytes.Equal(buf[:n], blob) {
		t.Errorf("GetBlobDecrypted() = %x, %v, want %x, nil", buf[:n], err, blob)
	}
}

func TestEncryptionRequiresKey(t *testing.T) {
	m := newTestManager(t)

	if err := m.SetStringEncrypted(DefaultNamespace, "k", "v", 0); err != ErrNoEncryptionKey {
		t.Errorf("SetStringEncrypted() error = %v, want %v", err, ErrNoEncryptionKey)
	}
	if _, err := m.GetStringDecrypted(DefaultNamespace, "k"); err != ErrNoEncryptionKey {
		t.Errorf("GetStringDecrypted() error = %v, want %v", err, ErrNoEncryptionKey)
	}

	// Clearing the key disables encryption but keeps ciphertext entries.
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetStringEncrypted(DefaultNamespace, "k", "v", 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}
	if err := m.ClearEncryptionKey(); err != nil {
		t.Fatalf("ClearEncryptionKey() error = %v", err)
	}
	if m.EncryptionEnabled() {
		t.Error("EncryptionEnabled() = true after ClearEncryptionKey")
	}
	if !m.Exists(DefaultNamespace, "k") {
		t.Error("encrypted entry removed by ClearEncryptionKey")
	}
	if _, err := m.GetStringDecrypted(DefaultNamespace, "k"); err != ErrNoEncryptionKey {
		t.Errorf("GetStringDecrypted() after clear error = %v, want %v", err, ErrNoEncryptionKey)
	}
}

func TestDecryptWrongKeyFails(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetStringEncrypted(DefaultNamespace, "k", "sixteen byte msg", 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}

	other := bytes.Repeat([]byte{0x99}, 16)
	if err := m.SetEncryptionKey(AES128, other); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if got, err := m.GetStringDecrypted(DefaultNamespace, "k"); err == nil && got == "sixteen byte msg" {
		t.Error("GetStringDecrypted() recovered plaintext under the wrong key")
	}
}

func TestDecryptPlaintextEntryFails(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetString(DefaultNamespace, "plain", "v", 0); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	if _, err := m.GetStringDecrypted(DefaultNamespace, "plain"); err != ErrInvalidParam {
		t.Errorf("GetStringDecrypted(plaintext entry) error = %v, want %v", err, ErrInvalidParam)
	}
}

func TestEncryptedValueTooLarge(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}

	// With 256-byte values the largest storable plaintext is 239 bytes:
	// EncryptedSize(239) = 256, EncryptedSize(240) = 272.
	tooBig := make([]byte, DefaultMaxValueSize-16)
	if err := m.SetBlobEncrypted(DefaultNamespace, "big", tooBig, 0); err != ErrValueTooLarge {
		t.Errorf("SetBlobEncrypted() error = %v, want %v", err, ErrValueTooLarge)
	}
	if m.Exists(DefaultNamespace, "big") {
		t.Error("oversized encrypted write left an entry behind")
	}

	fits := make([]byte, DefaultMaxValueSize-2*16)
	if err := m.SetBlobEncrypted(DefaultNamespace, "ok", fits, 0); err != nil {
		t.Errorf("SetBlobEncrypted(fitting) error = %v", err)
	}
}

func TestRotateEncryptionKey(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetStringEncrypted(DefaultNamespace, "a", "alpha", 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}
	if err := m.SetBlobEncrypted(DefaultNamespace, "b", []byte{9, 9, 9}, 0); err != nil {
		t.Fatalf("SetBlobEncrypted() error = %v", err)
	}
	if err := m.SetString(DefaultNamespace, "plain", "untouched", 0); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}

	reencrypted, skipped, err := m.RotateEncryptionKey(AES256, key256())
	if err != nil {
		t.Fatalf("RotateEncryptionKey() error = %v", err)
	}
	if reencrypted != 2 || skipped != 0 {
		t.Errorf("RotateEncryptionKey() = %d, %d, want 2, 0", reencrypted, skipped)
	}

	// Everything decrypts under the new key.
	if got, err := m.GetStringDecrypted(DefaultNamespace, "a"); err != nil || got != "alpha" {
		t.Errorf("GetStringDecrypted(a) = %q, %v, want %q, nil", got, err, "alpha")
	}
	buf := make([]byte, 16)
	if n, err := m.GetBlobDecrypted(DefaultNamespace, "b", buf); err != nil || !bytes.Equal(buf[:n], []byte{9, 9, 9}) {
		t.Errorf("GetBlobDecrypted(b) = %x, %v, want 090909, nil", buf[:n], err)
	}
	if got, err := m.GetString(DefaultNamespace, "plain"); err != nil || got != "untouched" {
		t.Errorf("GetString(plain) = %q, %v, want %q, nil", got, err, "untouched")
	}
}

func TestRotateWithoutActiveKey(t *testing.T) {
	m := newTestManager(t)
	if _, _, err := m.RotateEncryptionKey(AES128, key128()); err != ErrNoEncryptionKey {
		t.Errorf("RotateEncryptionKey() error = %v, want %v", err, ErrNoEncryptionKey)
	}
}

func TestRotateSkipsReadOnlyEntries(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetStringEncrypted(DefaultNamespace, "locked", "v", FlagReadOnly); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}

	reencrypted, skipped, err := m.RotateEncryptionKey(AES128, bytes.Repeat([]byte{0x33}, 16))
	if err != nil {
		t.Fatalf("RotateEncryptionKey() error = %v", err)
	}
	if reencrypted != 0 || skipped != 1 {
		t.Errorf("RotateEncryptionKey() = %d, %d, want 0, 1", reencrypted, skipped)
	}
}
