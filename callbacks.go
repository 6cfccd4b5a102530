package confbox

// Op identifies the kind of mutation that fired a change notification.
type Op int

// Mutation kinds.
const (
	// OpSet is an entry creation or overwrite, including re-encryption.
	OpSet Op = iota
	// OpDelete is an entry removal.
	OpDelete
	// OpClear is a whole-store clear.
	OpClear
	// OpImport is a bulk import.
	OpImport
	// OpLoad is a backend load replacing the store contents.
	OpLoad
)

// Event describes one mutation. Bulk operations (clear, import, load)
// carry no key.
type Event struct {
	Op        Op
	Namespace uint8
	Key       string
	Type      ValueType
}

// Callback receives change notifications. Callbacks run synchronously on
// the mutating call and must not call back into the manager.
type Callback func(Event)

// callbackRegistry is the fixed-capacity table of change callbacks.
// Slots are reused after unregistration; ids are slot indexes.
type callbackRegistry struct {
	slots []Callback
}

func (r *callbackRegistry) init(max int) error {
	if max < 0 {
		return ErrInvalidParam
	}
	r.slots = make([]Callback, max)
	return nil
}

func (r *callbackRegistry) deinit() {
	r.slots = nil
}

func (r *callbackRegistry) register(fn Callback) (int, error) {
	if fn == nil {
		return 0, ErrInvalidParam
	}
	for i := range r.slots {
		if r.slots[i] == nil {
			r.slots[i] = fn
			return i, nil
		}
	}
	return 0, ErrNoSpace
}

func (r *callbackRegistry) unregister(id int) error {
	if id < 0 || id >= len(r.slots) || r.slots[id] == nil {
		return ErrNotFound
	}
	r.slots[id] = nil
	return nil
}

func (r *callbackRegistry) fire(ev Event) {
	for _, fn := range r.slots {
		if fn != nil {
			fn(ev)
		}
	}
}

// RegisterCallback adds a change callback and returns its id. The table
// capacity is the MaxCallbacks option; a full table fails with
// ErrNoSpace.
func (m *Manager) RegisterCallback(fn Callback) (int, error) {
	if !m.initialized {
		return 0, m.fail(ErrNotInit)
	}
	id, err := m.callbacks.register(fn)
	return id, m.done(err)
}

// UnregisterCallback removes a callback by id.
func (m *Manager) UnregisterCallback(id int) error {
	if !m.initialized {
		return m.fail(ErrNotInit)
	}
	return m.done(m.callbacks.unregister(id))
}
