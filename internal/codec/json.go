package codec

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"

	"github.com/KilimcininKorOglu/confbox/internal/store"
)

const hexDigits = "0123456789abcdef"

// exportJSON emits the store as a JSON object mapping each key to
// {"type": name, "value": literal} with an "encrypted": true member for
// entries whose bytes remain ciphertext in the output.
func (c *Codec) exportJSON(w *writer, opts ExportOptions) error {
	pretty := opts.Pretty

	w.writeByte('{')
	first := true
	var ferr error
	c.iterate(opts, func(info store.EntryInfo) bool {
		val, flags, err := c.fetch(info, opts.Decrypt)
		if err != nil {
			ferr = err
			return false
		}
		if !first {
			w.writeByte(',')
		}
		first = false
		if pretty {
			w.writeString("\n  ")
		}
		writeJSONString(w, info.Key)
		w.writeByte(':')
		if pretty {
			w.writeByte(' ')
		}
		writeEntryObject(w, info.Type, val, flags.Has(store.FlagEncrypted), pretty)
		return w.err == nil
	})
	if ferr != nil {
		return ferr
	}
	if pretty && !first {
		w.writeByte('\n')
	}
	w.writeByte('}')
	if pretty {
		w.writeByte('\n')
	}
	return w.err
}

// writeEntryObject emits one {"type": ..., "value": ..., "encrypted": ...}
// object. Encrypted bytes are always rendered as lowercase hex no matter
// the declared type.
func writeEntryObject(w *writer, typ store.ValueType, val []byte, encrypted, pretty bool) {
	open, sep, closing := "{", ",", "}"
	if pretty {
		open, sep, closing = "{\n    ", ",\n    ", "\n  }"
	}
	colon := ":"
	if pretty {
		colon = ": "
	}

	w.writeString(open)
	w.writeString(`"type"`)
	w.writeString(colon)
	writeJSONString(w, typ.String())
	w.writeString(sep)
	w.writeString(`"value"`)
	w.writeString(colon)
	if encrypted {
		writeHexString(w, val)
	} else {
		writeValueLiteral(w, typ, val)
	}
	if encrypted {
		w.writeString(sep)
		w.writeString(`"encrypted"`)
		w.writeString(colon)
		w.writeString("true")
	}
	w.writeString(closing)
}

// writeValueLiteral emits the typed JSON literal for a plaintext value.
// Scalar values with an unexpected stored size fall back to hex.
func writeValueLiteral(w *writer, typ store.ValueType, val []byte) {
	if n := typ.ScalarSize(); n != 0 && len(val) != n {
		writeHexString(w, val)
		return
	}
	switch typ {
	case store.TypeInt32:
		v := int32(uint32(val[0]) | uint32(val[1])<<8 | uint32(val[2])<<16 | uint32(val[3])<<24)
		w.writeString(strconv.FormatInt(int64(v), 10))
	case store.TypeUint32:
		v := uint32(val[0]) | uint32(val[1])<<8 | uint32(val[2])<<16 | uint32(val[3])<<24
		w.writeString(strconv.FormatUint(uint64(v), 10))
	case store.TypeInt64:
		var u uint64
		for i := 0; i < 8; i++ {
			u |= uint64(val[i]) << (8 * i)
		}
		w.writeString(strconv.FormatInt(int64(u), 10))
	case store.TypeFloat:
		bits := uint32(val[0]) | uint32(val[1])<<8 | uint32(val[2])<<16 | uint32(val[3])<<24
		f := math.Float32frombits(bits)
		w.writeString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	case store.TypeBool:
		if val[0] != 0 {
			w.writeString("true")
		} else {
			w.writeString("false")
		}
	case store.TypeString:
		writeJSONString(w, string(val))
	default:
		writeHexString(w, val)
	}
}

// writeJSONString emits a quoted string escaping quote, backslash, and
// control characters; \n, \r and \t use short escapes, other controls
// use \u00XX.
func writeJSONString(w *writer, s string) {
	w.writeByte('"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '"':
			w.writeString(`\"`)
		case b == '\\':
			w.writeString(`\\`)
		case b == '\n':
			w.writeString(`\n`)
		case b == '\r':
			w.writeString(`\r`)
		case b == '\t':
			w.writeString(`\t`)
		case b < 0x20:
			w.writeString(`\u00`)
			w.writeByte(hexDigits[b>>4])
			w.writeByte(hexDigits[b&0x0f])
		default:
			w.writeByte(b)
		}
	}
	w.writeByte('"')
}

// writeHexString emits a quoted lowercase hex rendering of val.
func writeHexString(w *writer, val []byte) {
	w.writeByte('"')
	for _, b := range val {
		w.writeByte(hexDigits[b>>4])
		w.writeByte(hexDigits[b&0x0f])
	}
	w.writeByte('"')
}

// jsonEntry is the import-side shape of one exported entry.
type jsonEntry struct {
	Type      string          `json:"type"`
	Value     json.RawMessage `json:"value"`
	Encrypted bool            `json:"encrypted"`
}

// importJSON parses the document and writes its entries into the store.
// The whole document must parse before the store is touched. JSON carries
// no namespace, so every entry lands in opts.Namespace.
func (c *Codec) importJSON(data []byte, opts ImportOptions) (imported, skipped int, err error) {
	var doc map[string]jsonEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, 0, ErrInvalidFormat
	}

	if opts.Clear {
		c.store.Clear()
	}

	for key, entry := range doc {
		val, typ, flags, perr := decodeJSONEntry(entry)
		if perr == nil {
			perr = c.store.Set(opts.Namespace, key, typ, val, flags)
		}
		if perr != nil {
			if opts.SkipErrors {
				skipped++
				continue
			}
			return imported, skipped, perr
		}
		imported++
	}
	return imported, skipped, nil
}

// decodeJSONEntry converts one parsed entry back to stored bytes.
func decodeJSONEntry(entry jsonEntry) ([]byte, store.ValueType, store.Flags, error) {
	typ := store.ParseType(entry.Type)
	if typ == store.TypeInvalid {
		return nil, 0, 0, ErrEntrySkipped
	}

	if entry.Encrypted {
		val, err := decodeHexValue(entry.Value)
		if err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return val, typ, store.FlagEncrypted, nil
	}

	switch typ {
	case store.TypeInt32:
		v, err := parseInt(entry.Value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return leBytes(uint64(uint32(v)), 4), typ, 0, nil
	case store.TypeUint32:
		v, err := parseUint(entry.Value, math.MaxUint32)
		if err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return leBytes(v, 4), typ, 0, nil
	case store.TypeInt64:
		v, err := parseInt(entry.Value, math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return leBytes(uint64(v), 8), typ, 0, nil
	case store.TypeFloat:
		f, err := strconv.ParseFloat(string(entry.Value), 32)
		if err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return leBytes(uint64(math.Float32bits(float32(f))), 4), typ, 0, nil
	case store.TypeBool:
		switch string(entry.Value) {
		case "true":
			return []byte{1}, typ, 0, nil
		case "false":
			return []byte{0}, typ, 0, nil
		}
		return nil, 0, 0, ErrEntrySkipped
	case store.TypeString:
		var s string
		if err := json.Unmarshal(entry.Value, &s); err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return []byte(s), typ, 0, nil
	case store.TypeBlob:
		val, err := decodeHexValue(entry.Value)
		if err != nil {
			return nil, 0, 0, ErrEntrySkipped
		}
		return val, typ, 0, nil
	}
	return nil, 0, 0, ErrEntrySkipped
}

func decodeHexValue(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return hex.DecodeString(s)
}

func parseInt(raw json.RawMessage, min, max int64) (int64, error) {
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func parseUint(raw json.RawMessage, max uint64) (uint64, error) {
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func leBytes(v uint64, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}
