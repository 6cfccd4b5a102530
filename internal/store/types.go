package store

// ValueType identifies the kind of a stored value.
type ValueType uint8

// Value types. Scalar types have a fixed encoded size; String and Blob
// are variable up to the configured maximum value size.
const (
	TypeInvalid ValueType = iota
	TypeInt32
	TypeUint32
	TypeInt64
	TypeFloat
	TypeBool
	TypeString
	TypeBlob
)

// typeNames maps value types to the names used in JSON export.
var typeNames = map[ValueType]string{
	TypeInt32:  "i32",
	TypeUint32: "u32",
	TypeInt64:  "i64",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeString: "string",
	TypeBlob:   "blob",
}

// String returns the wire name of the value type.
func (t ValueType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "invalid"
}

// ParseType returns the value type for a wire name, or TypeInvalid.
func ParseType(name string) ValueType {
	for t, n := range typeNames {
		if n == name {
			return t
		}
	}
	return TypeInvalid
}

// Valid reports whether t is a known value type.
func (t ValueType) Valid() bool {
	return t >= TypeInt32 && t <= TypeBlob
}

// ScalarSize returns the fixed encoded size of a scalar type, or 0 for
// variable-length types.
func (t ValueType) ScalarSize() int {
	switch t {
	case TypeInt32, TypeUint32, TypeFloat:
		return 4
	case TypeInt64:
		return 8
	case TypeBool:
		return 1
	default:
		return 0
	}
}

// Flags is the per-entry flag bitset.
type Flags uint8

// Entry flags.
const (
	// FlagEncrypted marks the stored bytes as an IV-prefixed ciphertext.
	FlagEncrypted Flags = 1 << 0
	// FlagReadOnly rejects overwrite and delete of the entry.
	FlagReadOnly Flags = 1 << 1
	// FlagPersistent marks the entry for inclusion in backend commits.
	FlagPersistent Flags = 1 << 2
)

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// EntryInfo is the immutable view passed to iteration visitors. It carries
// no value bytes; visitors fetch values with Get.
type EntryInfo struct {
	Key       string
	Namespace uint8
	Type      ValueType
	Size      int
	Flags     Flags
}
