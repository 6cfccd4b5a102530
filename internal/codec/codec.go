package codec

import (
	"errors"

	"github.com/KilimcininKorOglu/confbox/internal/crypto"
	"github.com/KilimcininKorOglu/confbox/internal/store"
)

// Codec errors.
var (
	// ErrBufferTooSmall is returned when the destination buffer is smaller
	// than the size-pass result. Nothing is written in that case.
	ErrBufferTooSmall = errors.New("codec: buffer too small")
	// ErrInvalidFormat is returned for malformed import data: bad magic,
	// unsupported version, truncated records, or invalid JSON.
	ErrInvalidFormat = errors.New("codec: invalid format")
	// ErrEntrySkipped marks a malformed or oversized record during import.
	// With SkipErrors it is counted and suppressed; without it, import
	// aborts on the first occurrence.
	ErrEntrySkipped = errors.New("codec: entry skipped")
	// ErrInvalidNamespace is returned for a namespace filter outside 0..255.
	ErrInvalidNamespace = errors.New("codec: invalid namespace")
)

// Format selects the container format.
type Format int

const (
	// FormatBinary is the compact CFGB container.
	FormatBinary Format = iota
	// FormatJSON is the JSON document.
	FormatJSON
)

// AllNamespaces disables namespace filtering in ExportOptions.
const AllNamespaces = -1

// ExportOptions configures an export.
type ExportOptions struct {
	Format Format
	// Decrypt emits encrypted entries as plaintext when the crypto engine
	// is enabled. A per-entry decrypt failure falls back to emitting the
	// ciphertext unchanged; export never aborts on one entry.
	Decrypt bool
	// Pretty enables two-space indentation for JSON output.
	Pretty bool
	// Namespace restricts the export to one namespace id, or
	// AllNamespaces.
	Namespace int
}

// ImportOptions configures an import.
type ImportOptions struct {
	Format Format
	// Clear empties the store after the input validates and before any
	// entry is written.
	Clear bool
	// SkipErrors continues past malformed or oversized records, counting
	// them, instead of aborting on the first one.
	SkipErrors bool
	// Namespace is the target namespace for JSON entries, which carry no
	// namespace of their own. Binary records keep their stored namespace.
	Namespace uint8
}

// Codec serializes a store. The scratch buffers used for value fetch and
// per-entry decryption are allocated once at New, sized to the store's
// maximum value size.
type Codec struct {
	store *store.Store
	eng   *crypto.Engine
	val   []byte // raw value scratch
	plain []byte // decrypt scratch
}

// New creates a codec over s using eng for decrypt-on-export. eng may be
// nil when encryption is unused.
func New(s *store.Store, eng *crypto.Engine) *Codec {
	return &Codec{
		store: s,
		eng:   eng,
		val:   make([]byte, s.MaxValueSize()),
		plain: make([]byte, s.MaxValueSize()),
	}
}

// Size runs the size-calculation pass and returns the exact number of
// bytes Export will produce for the same options and an unchanged store.
func (c *Codec) Size(opts ExportOptions) (int, error) {
	return c.run(nil, opts)
}

// Export writes the snapshot into dst and returns the number of bytes
// written. The required size is computed first; an undersized buffer
// fails with ErrBufferTooSmall, reporting that size, before any byte is
// written.
func (c *Codec) Export(dst []byte, opts ExportOptions) (int, error) {
	need, err := c.run(nil, opts)
	if err != nil {
		return 0, err
	}
	if need > len(dst) {
		return need, ErrBufferTooSmall
	}
	return c.run(dst, opts)
}

func (c *Codec) run(dst []byte, opts ExportOptions) (int, error) {
	if opts.Namespace != AllNamespaces && (opts.Namespace < 0 || opts.Namespace > 255) {
		return 0, ErrInvalidNamespace
	}
	w := &writer{buf: dst, counting: dst == nil}
	var err error
	switch opts.Format {
	case FormatBinary:
		err = c.exportBinary(w, opts)
	case FormatJSON:
		err = c.exportJSON(w, opts)
	default:
		err = ErrInvalidFormat
	}
	if err != nil {
		return 0, err
	}
	return w.off, nil
}

// Import reads a snapshot into the store and returns the number of
// entries imported and skipped.
func (c *Codec) Import(data []byte, opts ImportOptions) (imported, skipped int, err error) {
	switch opts.Format {
	case FormatBinary:
		return c.importBinary(data, opts)
	case FormatJSON:
		return c.importJSON(data, opts)
	default:
		return 0, 0, ErrInvalidFormat
	}
}

// fetch reads the value bytes for info into the scratch buffer and
// resolves decrypt-on-export. It returns the bytes to emit and the flags
// to emit (FlagEncrypted cleared when decryption succeeded).
func (c *Codec) fetch(info store.EntryInfo, decrypt bool) ([]byte, store.Flags, error) {
	n, err := c.store.Get(info.Namespace, info.Key, c.val)
	if err != nil {
		return nil, 0, err
	}
	raw := c.val[:n]

	if !decrypt || !info.Flags.Has(store.FlagEncrypted) || c.eng == nil || !c.eng.Enabled() {
		return raw, info.Flags, nil
	}
	pn, err := c.eng.Decrypt(c.plain, raw)
	if err != nil {
		// Emit the ciphertext unchanged rather than aborting the export.
		return raw, info.Flags, nil
	}
	return c.plain[:pn], info.Flags &^ store.FlagEncrypted, nil
}

// iterate walks the store honoring the namespace filter.
func (c *Codec) iterate(opts ExportOptions, fn func(store.EntryInfo) bool) {
	if opts.Namespace == AllNamespaces {
		c.store.Iterate(fn)
		return
	}
	c.store.IterateNamespace(uint8(opts.Namespace), fn)
}
