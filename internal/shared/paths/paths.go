package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name under the user config dir
const AppName = "polychat"

// Document names, one per logical store
const (
	SessionsDocument = "sessions"
	PromptsDocument  = "prompts"
)

// Layout resolves files inside a data directory
type Layout struct {
	Root string
}

// DefaultRoot returns <user config dir>/polychat, falling back to the
// temp dir when the platform has no config dir
func DefaultRoot() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}

// New returns a layout rooted at root, or at DefaultRoot when root is empty
func New(root string) Layout {
	if root == "" {
		root = DefaultRoot()
	}
	return Layout{Root: root}
}

// Document returns the JSON file path of a named document
func (l Layout) Document(name string) string {
	return filepath.Join(l.Root, name+".json")
}

// Backup returns the last-known-good copy of a named document
func (l Layout) Backup(name string) string {
	return l.Document(name) + ".bak"
}

// Database returns the sqlite database path
func (l Layout) Database() string {
	return filepath.Join(l.Root, AppName+".db")
}

// Ensure creates the root directory
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", l.Root, err)
	}
	return nil
}

// ValidateDocumentName checks that a document name is a plain file stem
func ValidateDocumentName(name string) error {
	if name == "" {
		return fmt.Errorf("document name cannot be empty")
	}
	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) || filepath.Clean(name) != name {
		return fmt.Errorf("document name %q contains path components", name)
	}
	return nil
}
