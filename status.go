package confbox

// Status is the result code shared by every confbox operation.
// The zero value OK means success; every other code is an error and
// Status satisfies the error interface so codes can be compared with
// errors.Is against the package-level constants.
type Status int

// Status codes.
const (
	// OK indicates the operation completed successfully.
	OK Status = iota

	// ErrFailed indicates a generic failure not covered by another code.
	ErrFailed

	// ErrInvalidParam indicates an invalid argument (nil pointer, bad
	// length, out-of-range enum value).
	ErrInvalidParam

	// ErrNotInit indicates the manager has not been initialized.
	ErrNotInit

	// ErrAlreadyInit indicates the manager is already initialized.
	ErrAlreadyInit

	// ErrNoMemory indicates a capacity allocation failed.
	ErrNoMemory

	// ErrNotFound indicates the key or namespace does not exist.
	ErrNotFound

	// ErrAlreadyExists indicates the key or namespace already exists.
	ErrAlreadyExists

	// ErrTypeMismatch indicates the stored type differs from the requested type.
	ErrTypeMismatch

	// ErrKeyTooLong indicates the key exceeds the configured maximum length.
	ErrKeyTooLong

	// ErrValueTooLarge indicates the value exceeds the configured maximum size.
	ErrValueTooLarge

	// ErrBufferTooSmall indicates the caller's buffer cannot hold the result.
	// The operation reports the required size and writes nothing.
	ErrBufferTooSmall

	// ErrNoSpace indicates a fixed-capacity table is full.
	ErrNoSpace

	// ErrReadFailed indicates the persistence backend failed to load.
	ErrReadFailed

	// ErrWriteFailed indicates the persistence backend failed to commit.
	ErrWriteFailed

	// ErrInvalidFormat indicates malformed import data.
	ErrInvalidFormat

	// ErrNoEncryptionKey indicates no encryption key is set.
	ErrNoEncryptionKey

	// ErrCryptoFailed indicates an encryption or decryption failure,
	// including PKCS7 padding validation errors.
	ErrCryptoFailed

	// ErrNoBackend indicates no persistence backend is set.
	ErrNoBackend
)

// statusStrings maps status codes to their stable display strings.
var statusStrings = map[Status]string{
	OK:                 "OK",
	ErrFailed:          "Operation failed",
	ErrInvalidParam:    "Invalid parameter",
	ErrNotInit:         "Not initialized",
	ErrAlreadyInit:     "Already initialized",
	ErrNoMemory:        "Out of memory",
	ErrNotFound:        "Not found",
	ErrAlreadyExists:   "Already exists",
	ErrTypeMismatch:    "Type mismatch",
	ErrKeyTooLong:      "Key too long",
	ErrValueTooLarge:   "Value too large",
	ErrBufferTooSmall:  "Buffer too small",
	ErrNoSpace:         "No space left",
	ErrReadFailed:      "Backend read failed",
	ErrWriteFailed:     "Backend write failed",
	ErrInvalidFormat:   "Invalid format",
	ErrNoEncryptionKey: "No encryption key set",
	ErrCryptoFailed:    "Crypto operation failed",
	ErrNoBackend:       "No backend set",
}

// String returns the display string for the status code.
// Unknown codes render as "Unknown error".
func (s Status) String() string {
	if msg, ok := statusStrings[s]; ok {
		return msg
	}
	return "Unknown error"
}

// Error implements the error interface. OK is never returned as an error;
// operations return nil on success.
func (s Status) Error() string {
	return s.String()
}

// IsOK reports whether the status indicates success.
func (s Status) IsOK() bool {
	return s == OK
}

var _ error = Status(0)
