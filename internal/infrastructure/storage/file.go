package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/paths"
)

// FileBackend stores each document as a JSON file in one directory.
type FileBackend struct {
	layout paths.Layout

	mu   sync.Mutex
	docs map[string]*FileDocument
}

// NewFileBackend creates a file backend rooted at layout.Root
func NewFileBackend(layout paths.Layout) *FileBackend {
	return &FileBackend{layout: layout, docs: make(map[string]*FileDocument)}
}

// Kind implements Backend
func (b *FileBackend) Kind() string { return KindFile }

// Document returns the file document for name, shared per name.
func (b *FileBackend) Document(name string) (Document, error) {
	if err := paths.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if doc, ok := b.docs[name]; ok {
		return doc, nil
	}
	doc := NewFileDocument(name, b.layout.Document(name), b.layout.Backup(name))
	b.docs[name] = doc
	return doc, nil
}

// Close implements Backend
func (b *FileBackend) Close() error { return nil }

// FileDocument is a JSON file with a last-known-good sibling.
type FileDocument struct {
	name   string
	path   string
	backup string

	mu sync.Mutex
}

// NewFileDocument creates a document stored at path with its backup at backup
func NewFileDocument(name, path, backup string) *FileDocument {
	return &FileDocument{name: name, path: path, backup: backup}
}

// Name implements Document
func (d *FileDocument) Name() string { return d.name }

// Path returns the primary file path
func (d *FileDocument) Path() string { return d.path }

// Read returns the primary body, or the backup when the primary is
// missing, unreadable or malformed.
func (d *FileDocument) Read() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	primary, perr := os.ReadFile(d.path)
	if perr == nil && validJSON(primary) {
		return primary, nil
	}

	backup, berr := os.ReadFile(d.backup)
	if berr == nil && validJSON(backup) {
		return backup, nil
	}

	switch {
	case errors.Is(perr, fs.ErrNotExist) && errors.Is(berr, fs.ErrNotExist):
		return nil, ErrNotExist
	case perr != nil:
		return nil, fmt.Errorf("failed to read %s: %w", d.path, perr)
	default:
		return nil, fmt.Errorf("document %s is malformed and has no usable backup", d.name)
	}
}

// Write replaces the document atomically. A valid previous body becomes
// the backup.
func (d *FileDocument) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+d.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if prev, err := os.ReadFile(d.path); err == nil && validJSON(prev) {
		if err := os.Rename(d.path, d.backup); err != nil {
			return fmt.Errorf("failed to keep backup of %s: %w", d.name, err)
		}
	}

	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}
