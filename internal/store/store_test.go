package store

import (
	"bytes"
	"strconv"
	"testing"
)

func TestSetGet(t *testing.T) {
	s := New(8, 32, 64)

	if err := s.Set(0, "host", TypeString, []byte("example.org"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	buf := make([]byte, 64)
	n, err := s.Get(0, "host", buf)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := string(buf[:n]); got != "example.org" {
		t.Errorf("Get() = %q, want %q", got, "example.org")
	}
}

func TestSetValidation(t *testing.T) {
	s := New(8, 8, 16)

	tests := []struct {
		name    string
		key     string
		value   []byte
		wantErr error
	}{
		{"empty key", "", []byte("v"), ErrInvalidKey},
		{"key at limit", "12345678", []byte("v"), nil},
		{"key too long", "123456789", []byte("v"), ErrKeyTooLong},
		{"value at limit", "k", make([]byte, 16), nil},
		{"value too large", "k2", make([]byte, 17), ErrValueTooLarge},
		{"empty value", "k3", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(0, tt.key, TypeBlob, tt.value, 0); err != tt.wantErr {
				t.Errorf("Set() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBufferProtocol(t *testing.T) {
	s := New(4, 16, 32)
	if err := s.Set(0, "k", TypeString, []byte("twelve bytes"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Probe with nil buffer.
	n, err := s.Get(0, "k", nil)
	if n != 12 || err != ErrBufferTooSmall {
		t.Errorf("Get(nil) = %d, %v, want 12, %v", n, err, ErrBufferTooSmall)
	}

	// Undersized buffer reports the size and stays untouched.
	small := []byte{0xaa, 0xaa, 0xaa, 0xaa}
	n, err = s.Get(0, "k", small)
	if n != 12 || err != ErrBufferTooSmall {
		t.Errorf("Get(small) = %d, %v, want 12, %v", n, err, ErrBufferTooSmall)
	}
	if !bytes.Equal(small, []byte{0xaa, 0xaa, 0xaa, 0xaa}) {
		t.Error("undersized buffer was modified")
	}

	// Exact-size buffer succeeds.
	exact := make([]byte, 12)
	if n, err = s.Get(0, "k", exact); n != 12 || err != nil {
		t.Errorf("Get(exact) = %d, %v, want 12, nil", n, err)
	}
}

func TestOverwriteChangesType(t *testing.T) {
	s := New(4, 16, 32)
	if err := s.Set(0, "k", TypeString, []byte("text"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(0, "k", TypeInt32, []byte{1, 0, 0, 0}, 0); err != nil {
		t.Fatalf("overwrite Set() error = %v", err)
	}

	info, err := s.Info(0, "k")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Type != TypeInt32 || info.Size != 4 {
		t.Errorf("Info() = {%v, %d}, want {%v, 4}", info.Type, info.Size, TypeInt32)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestReadOnlyEntries(t *testing.T) {
	s := New(4, 16, 32)
	if err := s.Set(0, "locked", TypeString, []byte("v1"), FlagReadOnly); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := s.Set(0, "locked", TypeString, []byte("v2"), 0); err != ErrReadOnly {
		t.Errorf("overwrite Set() error = %v, want %v", err, ErrReadOnly)
	}
	if err := s.Delete(0, "locked"); err != ErrReadOnly {
		t.Errorf("Delete() error = %v, want %v", err, ErrReadOnly)
	}

	// Clear removes read-only entries too.
	s.Clear()
	if s.Exists(0, "locked") {
		t.Error("Exists() = true after Clear, want false")
	}
}

func TestCapacityAndSlotReuse(t *testing.T) {
	s := New(3, 16, 8)
	for i := 0; i < 3; i++ {
		if err := s.Set(0, "k"+strconv.Itoa(i), TypeString, []byte("v"), 0); err != nil {
			t.Fatalf("Set(k%d) error = %v", i, err)
		}
	}
	if err := s.Set(0, "overflow", TypeString, []byte("v"), 0); err != ErrNoSpace {
		t.Fatalf("Set() error = %v, want %v", err, ErrNoSpace)
	}

	// Overwriting a present key needs no free slot.
	if err := s.Set(0, "k1", TypeString, []byte("v2"), 0); err != nil {
		t.Fatalf("overwrite Set() error = %v", err)
	}

	// Deleting frees the slot for a new key.
	if err := s.Delete(0, "k0"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Set(0, "fresh", TypeString, []byte("v"), 0); err != nil {
		t.Fatalf("Set() after Delete error = %v", err)
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
}

func TestNamespaceIsolation(t *testing.T) {
	s := New(8, 16, 32)
	if err := s.Set(1, "key", TypeString, []byte("one"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(2, "key", TypeString, []byte("two"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	buf := make([]byte, 32)
	n, err := s.Get(1, "key", buf)
	if err != nil || string(buf[:n]) != "one" {
		t.Errorf("Get(ns 1) = %q, %v, want %q, nil", buf[:n], err, "one")
	}
	n, err = s.Get(2, "key", buf)
	if err != nil || string(buf[:n]) != "two" {
		t.Errorf("Get(ns 2) = %q, %v, want %q, nil", buf[:n], err, "two")
	}
	if _, err := s.Get(3, "key", buf); err != ErrNotFound {
		t.Errorf("Get(ns 3) error = %v, want %v", err, ErrNotFound)
	}

	if err := s.Delete(1, "key"); err != nil {
		t.Fatalf("Delete(ns 1) error = %v", err)
	}
	if !s.Exists(2, "key") {
		t.Error("Exists(ns 2) = false after deleting ns 1 twin, want true")
	}
	if got := s.CountNamespace(2); got != 1 {
		t.Errorf("CountNamespace(2) = %d, want 1", got)
	}
}

func TestIterate(t *testing.T) {
	s := New(8, 16, 32)
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(0, k, TypeString, []byte(k), 0); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}
	if err := s.Set(1, "d", TypeString, []byte("d"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var all []string
	s.Iterate(func(info EntryInfo) bool {
		all = append(all, info.Key)
		return true
	})
	if len(all) != 4 {
		t.Errorf("Iterate() visited %d entries, want 4", len(all))
	}

	var ns0 []string
	s.IterateNamespace(0, func(info EntryInfo) bool {
		ns0 = append(ns0, info.Key)
		return true
	})
	if len(ns0) != 3 {
		t.Errorf("IterateNamespace(0) visited %d entries, want 3", len(ns0))
	}

	// Early exit.
	visits := 0
	s.Iterate(func(EntryInfo) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Errorf("Iterate() early exit visited %d entries, want 1", visits)
	}
}

func TestDeleteNotFound(t *testing.T) {
	s := New(4, 16, 32)
	if err := s.Delete(0, "missing"); err != ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, ErrNotFound)
	}
}
