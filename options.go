package confbox

// Hard bounds for the configurable limits. Init rejects options outside
// these ranges with ErrInvalidParam.
const (
	MinKeysLimit = 32
	MaxKeysLimit = 256

	MinKeyLenLimit = 16
	MaxKeyLenLimit = 64

	MinValueSizeLimit = 64
	MaxValueSizeLimit = 1024
)

// Default limits applied by DefaultOptions.
const (
	DefaultMaxKeys       = 64
	DefaultMaxKeyLen     = 32
	DefaultMaxValueSize  = 256
	DefaultMaxNamespaces = 8
	DefaultMaxCallbacks  = 16
)

// Options configures a Manager. All capacities are fixed at Init;
// the core allocates once and never grows.
type Options struct {
	MaxKeys       int  // maximum live entries across all namespaces
	MaxKeyLen     int  // maximum key length in bytes
	MaxValueSize  int  // maximum stored value size in bytes
	MaxNamespaces int  // maximum registered namespaces (including default)
	MaxCallbacks  int  // maximum change-notification callbacks
	AutoCommit    bool // commit to the backend after each successful mutation
}

// DefaultOptions returns the documented default limits:
// 64 keys, 32-byte keys, 256-byte values, 8 namespaces, 16 callbacks,
// auto-commit off.
func DefaultOptions() Options {
	return Options{
		MaxKeys:       DefaultMaxKeys,
		MaxKeyLen:     DefaultMaxKeyLen,
		MaxValueSize:  DefaultMaxValueSize,
		MaxNamespaces: DefaultMaxNamespaces,
		MaxCallbacks:  DefaultMaxCallbacks,
		AutoCommit:    false,
	}
}

// validate checks the options against the hard bounds.
func (o Options) validate() error {
	if o.MaxKeys < MinKeysLimit || o.MaxKeys > MaxKeysLimit {
		return ErrInvalidParam
	}
	if o.MaxKeyLen < MinKeyLenLimit || o.MaxKeyLen > MaxKeyLenLimit {
		return ErrInvalidParam
	}
	if o.MaxValueSize < MinValueSizeLimit || o.MaxValueSize > MaxValueSizeLimit {
		return ErrInvalidParam
	}
	if o.MaxNamespaces < 1 || o.MaxNamespaces > 256 {
		return ErrInvalidParam
	}
	if o.MaxCallbacks < 0 {
		return ErrInvalidParam
	}
	return nil
}
