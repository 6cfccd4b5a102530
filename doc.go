// Package confbox is an embedded configuration manager: a
// bounded-capacity, typed key/value store with namespace partitioning,
// optional AES-CBC at-rest encryption, a pluggable persistence backend,
// and dual-format (binary/JSON) export-import.
//
// All capacities are fixed at Init and allocated once; the hot paths
// perform no further allocation. The Manager assumes a single logical
// owner and performs no internal locking; callers using it from multiple
// goroutines must serialize access externally.
//
// Basic usage:
//
//	m := confbox.NewManager()
//	if err := m.Init(confbox.DefaultOptions()); err != nil {
//		// handle
//	}
//	defer m.Deinit()
//
//	m.SetString(confbox.DefaultNamespace, "hostname", "sensor-42", confbox.FlagPersistent)
//	name, _ := m.GetString(confbox.DefaultNamespace, "hostname")
//
// Every operation returns nil or a Status value from the shared status
// code surface, and the most recent status is mirrored in LastError.
package confbox
