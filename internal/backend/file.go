package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File persists snapshots to a single file, written atomically via a
// temp-file rename so a crashed commit never leaves a torn snapshot.
type File struct {
	path string
}

// NewFile creates a file backend at path. The file is created on the
// first Commit.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the snapshot file path.
func (f *File) Path() string {
	return f.path
}

// Commit writes the snapshot to a temp file in the same directory and
// renames it over the target.
func (f *File) Commit(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".confbox-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Load reads the last committed snapshot.
func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return data, nil
}

// Watcher notifies when the snapshot file changes on disk outside the
// owning process, so a host can reload externally modified configuration.
// Changes are debounced to collapse editor-style write bursts.
type Watcher struct {
	backend  *File
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// Watch starts watching the backend's file and calls onChange after each
// (debounced) modification. The snapshot file must exist when Watch is
// called.
func (f *File) Watch(onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("%w: nil onChange", ErrReadFailed)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: atomic renames replace the
	// inode and would silently detach a file watch.
	if err := fw.Add(filepath.Dir(f.path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		backend:  f,
		watcher:  fw,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		running:  true,
	}
	go w.loop()
	return w, nil
}

// Stop halts the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	target := filepath.Base(w.backend.path)

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
