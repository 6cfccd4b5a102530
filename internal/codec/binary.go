package codec

import (
	"github.com/KilimcininKorOglu/confbox/internal/store"
)

// Binary container constants.
const (
	// Magic identifies a CFGB container ("CFGB" packed into a u32).
	Magic uint32 = 0x43464742
	// Version is the current container version.
	Version uint8 = 1
	// headerSize is the fixed container header size:
	// magic(4) + version(1) + reserved(3) + entry_count(4) + data_size(4).
	headerSize = 16
	// recordHeaderSize is the fixed per-record prefix:
	// key_len(1) + type(1) + flags(1) + namespace(1) + value_size(2).
	recordHeaderSize = 6
)

// exportBinary emits the CFGB container: fixed header followed by packed
// records in store iteration order. entry_count and data_size are patched
// into the header after the record walk.
func (c *Codec) exportBinary(w *writer, opts ExportOptions) error {
	w.writeUint32(Magic)
	w.writeByte(Version)
	w.write([]byte{0, 0, 0})
	countOff := w.off
	w.writeUint32(0) // entry_count, patched below
	sizeOff := w.off
	w.writeUint32(0) // data_size, patched below

	var count uint32
	var ferr error
	c.iterate(opts, func(info store.EntryInfo) bool {
		val, flags, err := c.fetch(info, opts.Decrypt)
		if err != nil {
			ferr = err
			return false
		}
		w.writeByte(byte(len(info.Key)))
		w.writeByte(byte(info.Type))
		w.writeByte(byte(flags))
		w.writeByte(info.Namespace)
		w.writeUint16(uint16(len(val)))
		w.writeString(info.Key)
		w.write(val)
		count++
		return w.err == nil
	})
	if ferr != nil {
		return ferr
	}
	if w.err != nil {
		return w.err
	}

	w.patchUint32(countOff, count)
	w.patchUint32(sizeOff, uint32(w.off-headerSize))
	return nil
}

// importBinary validates the container and writes its records into the
// store. Records that exceed the store's configured limits are skipped or
// abort the import depending on SkipErrors.
func (c *Codec) importBinary(data []byte, opts ImportOptions) (imported, skipped int, err error) {
	if len(data) < headerSize {
		return 0, 0, ErrInvalidFormat
	}
	magic := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	if magic != Magic {
		return 0, 0, ErrInvalidFormat
	}
	if data[4] != Version {
		return 0, 0, ErrInvalidFormat
	}
	count := uint32(data[8]) | uint32(data[9])<<8 | uint32(data[10])<<16 | uint32(data[11])<<24
	dataSize := uint32(data[12]) | uint32(data[13])<<8 | uint32(data[14])<<16 | uint32(data[15])<<24
	if int(dataSize) != len(data)-headerSize {
		return 0, 0, ErrInvalidFormat
	}

	if opts.Clear {
		c.store.Clear()
	}

	off := headerSize
	for i := uint32(0); i < count; i++ {
		if off+recordHeaderSize > len(data) {
			return imported, skipped, ErrInvalidFormat
		}
		keyLen := int(data[off])
		typ := store.ValueType(data[off+1])
		flags := store.Flags(data[off+2])
		ns := data[off+3]
		valSize := int(data[off+4]) | int(data[off+5])<<8
		off += recordHeaderSize

		if off+keyLen+valSize > len(data) {
			// Truncated record: the remaining bytes cannot be trusted as
			// record boundaries, so this always aborts.
			return imported, skipped, ErrInvalidFormat
		}
		key := string(data[off : off+keyLen])
		val := data[off+keyLen : off+keyLen+valSize]
		off += keyLen + valSize

		if !typ.Valid() || keyLen == 0 {
			if opts.SkipErrors {
				skipped++
				continue
			}
			return imported, skipped, ErrEntrySkipped
		}
		if err := c.store.Set(ns, key, typ, val, flags); err != nil {
			if opts.SkipErrors {
				skipped++
				continue
			}
			return imported, skipped, err
		}
		imported++
	}
	return imported, skipped, nil
}
