package confbox

import (
	"github.com/KilimcininKorOglu/confbox/internal/codec"
)

// Re-exported codec types and constants.
type (
	// Format selects the export container format.
	Format = codec.Format
	// ExportOptions configures an export.
	ExportOptions = codec.ExportOptions
	// ImportOptions configures an import.
	ImportOptions = codec.ImportOptions
)

const (
	// FormatBinary is the compact CFGB container.
	FormatBinary = codec.FormatBinary
	// FormatJSON is the JSON document.
	FormatJSON = codec.FormatJSON
	// AllNamespaces disables namespace filtering in ExportOptions.
	AllNamespaces = codec.AllNamespaces
)

// ExportSize runs the size-calculation pass and returns the exact number
// of bytes Export will produce for the same options. The store must not
// be mutated between ExportSize and Export.
func (m *Manager) ExportSize(opts ExportOptions) (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	n, err := m.codec.Size(opts)
	return n, m.done(err)
}

// Export writes a snapshot into dst and returns the bytes written. An
// undersized buffer fails with ErrBufferTooSmall; no partial output is
// produced in that case.
func (m *Manager) Export(dst []byte, opts ExportOptions) (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	n, err := m.codec.Export(dst, opts)
	return n, m.done(err)
}

// Import reads a snapshot into the store, returning the number of
// entries imported and skipped. The input is validated before the store
// is touched; with SkipErrors, malformed or oversized entries are
// counted and skipped instead of aborting the import.
func (m *Manager) Import(data []byte, opts ImportOptions) (imported, skipped int, err error) {
	if !m.initialized {
		return 0, 0, m.fail(ErrNotInit)
	}
	imported, skipped, err = m.codec.Import(data, opts)
	if err != nil {
		return imported, skipped, m.done(err)
	}
	if imported > 0 || opts.Clear {
		if cerr := m.mutated(OpImport, DefaultNamespace, "", TypeInvalid); cerr != nil {
			return imported, skipped, m.done(cerr)
		}
	}
	return imported, skipped, m.done(nil)
}
