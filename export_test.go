package confbox

import (
	"bytes"
	"encoding/json"
	"testing"
)

func fillMixed(t *testing.T, m *Manager) uint8 {
	t.Helper()
	ns, err := m.RegisterNamespace("net")
	if err != nil {
		t.Fatalf("RegisterNamespace() error = %v", err)
	}
	if err := m.SetUint32(DefaultNamespace, "port", 8080, FlagPersistent); err != nil {
		t.Fatalf("SetUint32() error = %v", err)
	}
	if err := m.SetString(ns, "host", "example.org", 0); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	if err := m.SetFloat(ns, "ratio", 0.25, 0); err != nil {
		t.Fatalf("SetFloat() error = %v", err)
	}
	if err := m.SetBlob(DefaultNamespace, "mac", []byte{0xde, 0xad}, 0); err != nil {
		t.Fatalf("SetBlob() error = %v", err)
	}
	return ns
}

func TestBinaryExportImportRoundTrip(t *testing.T) {
	src := newTestManager(t)
	ns := fillMixed(t, src)
	if err := src.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := src.SetStringEncrypted(ns, "token", "s3cret", 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}

	opts := ExportOptions{Format: FormatBinary, Namespace: AllNamespaces}
	size, err := src.ExportSize(opts)
	if err != nil {
		t.Fatalf("ExportSize() error = %v", err)
	}
	data := make([]byte, size)
	n, err := src.Export(data, opts)
	if err != nil || n != size {
		t.Fatalf("Export() = %d, %v, want %d, nil", n, err, size)
	}

	dst := newTestManager(t)
	// Binary records keep their namespace ids; re-register the names so
	// the ids resolve in the target manager.
	if _, err := dst.RegisterNamespace("net"); err != nil {
		t.Fatalf("RegisterNamespace() error = %v", err)
	}
	imported, skipped, err := dst.Import(data, ImportOptions{Format: FormatBinary})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if imported != 5 || skipped != 0 {
		t.Fatalf("Import() = %d imported, %d skipped, want 5, 0", imported, skipped)
	}

	if v, err := dst.GetUint32(DefaultNamespace, "port"); err != nil || v != 8080 {
		t.Errorf("GetUint32(port) = %d, %v, want 8080, nil", v, err)
	}
	if v, err := dst.GetString(ns, "host"); err != nil || v != "example.org" {
		t.Errorf("GetString(host) = %q, %v, want %q, nil", v, err, "example.org")
	}
	if v, err := dst.GetFloat(ns, "ratio"); err != nil || v != 0.25 {
		t.Errorf("GetFloat(ratio) = %g, %v, want 0.25, nil", v, err)
	}

	// Ciphertext survives the round trip and decrypts in the target
	// manager under the same key.
	if err := dst.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if v, err := dst.GetStringDecrypted(ns, "token"); err != nil || v != "s3cret" {
		t.Errorf("GetStringDecrypted(token) = %q, %v, want %q, nil", v, err, "s3cret")
	}
}

func TestExportBufferProtocol(t *testing.T) {
	m := newTestManager(t)
	fillMixed(t, m)
	opts := ExportOptions{Format: FormatBinary, Namespace: AllNamespaces}

	size, err := m.ExportSize(opts)
	if err != nil {
		t.Fatalf("ExportSize() error = %v", err)
	}

	small := make([]byte, size-1)
	n, err := m.Export(small, opts)
	if err != ErrBufferTooSmall {
		t.Fatalf("Export(small) error = %v, want %v", err, ErrBufferTooSmall)
	}
	if n != size {
		t.Errorf("Export(small) reported %d, want required size %d", n, size)
	}
}

func TestJSONExportImport(t *testing.T) {
	src := newTestManager(t)
	if err := src.SetString(DefaultNamespace, "name", "confbox", 0); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	if err := src.SetInt32(DefaultNamespace, "level", -3, 0); err != nil {
		t.Fatalf("SetInt32() error = %v", err)
	}

	opts := ExportOptions{Format: FormatJSON, Namespace: AllNamespaces}
	size, err := src.ExportSize(opts)
	if err != nil {
		t.Fatalf("ExportSize() error = %v", err)
	}
	data := make([]byte, size)
	if _, err := src.Export(data, opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("export is not valid JSON: %s", data)
	}

	// JSON carries no namespace; import targets the requested one.
	dst := newTestManager(t)
	ns, err := dst.RegisterNamespace("restored")
	if err != nil {
		t.Fatalf("RegisterNamespace() error = %v", err)
	}
	imported, _, err := dst.Import(data, ImportOptions{Format: FormatJSON, Namespace: ns})
	if err != nil || imported != 2 {
		t.Fatalf("Import() = %d, %v, want 2, nil", imported, err)
	}
	if v, err := dst.GetString(ns, "name"); err != nil || v != "confbox" {
		t.Errorf("GetString(name) = %q, %v, want %q, nil", v, err, "confbox")
	}
	if v, err := dst.GetInt32(ns, "level"); err != nil || v != -3 {
		t.Errorf("GetInt32(level) = %d, %v, want -3, nil", v, err)
	}
}

func TestImportClearReplacesStore(t *testing.T) {
	src := newTestManager(t)
	if err := src.SetBool(DefaultNamespace, "fresh", true, 0); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	data := exportBinary(t, src)

	dst := newTestManager(t)
	if err := dst.SetBool(DefaultNamespace, "stale", true, 0); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	if _, _, err := dst.Import(data, ImportOptions{Format: FormatBinary, Clear: true}); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if dst.Exists(DefaultNamespace, "stale") {
		t.Error("pre-import entry survived Clear")
	}
	if !dst.Exists(DefaultNamespace, "fresh") {
		t.Error("imported entry missing")
	}
}

func TestImportInvalidDataLeavesStoreUntouched(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetBool(DefaultNamespace, "keep", true, 0); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}

	_, _, err := m.Import([]byte("not a container"), ImportOptions{Format: FormatBinary, Clear: true})
	if err != ErrInvalidFormat {
		t.Fatalf("Import() error = %v, want %v", err, ErrInvalidFormat)
	}
	if !m.Exists(DefaultNamespace, "keep") {
		t.Error("store cleared despite rejected input")
	}
}

func TestExportNamespaceFilter(t *testing.T) {
	m := newTestManager(t)
	ns := fillMixed(t, m)

	data := make([]byte, 4096)
	n, err := m.Export(data, ExportOptions{Format: FormatBinary, Namespace: int(ns)})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dst := newTestManager(t)
	if _, err := dst.RegisterNamespace("net"); err != nil {
		t.Fatalf("RegisterNamespace() error = %v", err)
	}
	imported, _, err := dst.Import(data[:n], ImportOptions{Format: FormatBinary})
	if err != nil || imported != 2 {
		t.Fatalf("Import() = %d, %v, want 2, nil", imported, err)
	}
	if dst.Exists(DefaultNamespace, "port") {
		t.Error("filtered export leaked a default-namespace entry")
	}
}

func exportBinary(t *testing.T, m *Manager) []byte {
	t.Helper()
	opts := ExportOptions{Format: FormatBinary, Namespace: AllNamespaces}
	size, err := m.ExportSize(opts)
	if err != nil {
		t.Fatalf("ExportSize() error = %v", err)
	}
	data := make([]byte, size)
	if _, err := m.Export(data, opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	return data
}

func TestDecryptOnExport(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetEncryptionKey(AES128, key128()); err != nil {
		t.Fatalf("SetEncryptionKey() error = %v", err)
	}
	if err := m.SetStringEncrypted(DefaultNamespace, "secret", "visible", 0); err != nil {
		t.Fatalf("SetStringEncrypted() error = %v", err)
	}

	opts := ExportOptions{Format: FormatJSON, Decrypt: true, Namespace: AllNamespaces}
	size, err := m.ExportSize(opts)
	if err != nil {
		t.Fatalf("ExportSize() error = %v", err)
	}
	data := make([]byte, size)
	if _, err := m.Export(data, opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.Contains(data, []byte(`"visible"`)) {
		t.Errorf("decrypted export missing plaintext: %s", data)
	}
	if bytes.Contains(data, []byte(`"encrypted"`)) {
		t.Errorf("decrypted export still carries the encrypted marker: %s", data)
	}
}
