package storage

import "sync"

// MemoryDocument keeps a document in memory. Used by headless tools and
// tests.
type MemoryDocument struct {
	name string

	mu       sync.Mutex
	data     []byte
	writes   int
	writeErr error
}

// NewMemoryDocument creates an empty in-memory document
func NewMemoryDocument(name string) *MemoryDocument {
	return &MemoryDocument{name: name}
}

// Name implements Document
func (d *MemoryDocument) Name() string { return d.name }

// Read implements Document
func (d *MemoryDocument) Read() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.data == nil {
		return nil, ErrNotExist
	}
	return append([]byte(nil), d.data...), nil
}

// Write implements Document
func (d *MemoryDocument) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.writeErr != nil {
		return d.writeErr
	}
	d.data = append([]byte(nil), data...)
	d.writes++
	return nil
}

// Writes returns how many writes succeeded
func (d *MemoryDocument) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// FailWrites makes every following Write return err (nil to stop)
func (d *MemoryDocument) FailWrites(err error) {
	d.mu.Lock()
	d.writeErr = err
	d.mu.Unlock()
}

// Set replaces the stored body without counting a write
func (d *MemoryDocument) Set(data []byte) {
	d.mu.Lock()
	d.data = append([]byte(nil), data...)
	d.mu.Unlock()
}
