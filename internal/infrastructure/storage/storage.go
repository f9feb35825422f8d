package storage

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/paths"
	"github.com/bytedance/sonic"
)

// ErrNotExist is returned by Read when the document was never written.
var ErrNotExist = errors.New("document does not exist")

// Document is one named, wholesale-rewritten JSON document.
type Document interface {
	Name() string
	Read() ([]byte, error)
	Write(data []byte) error
}

// Backend hands out documents by name.
type Backend interface {
	Kind() string
	Document(name string) (Document, error)
	Close() error
}

// Backend kinds
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open creates the backend selected by cfg under the data directory.
func Open(cfg config.StorageConfig) (Backend, error) {
	layout := paths.New(cfg.DataDir)
	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case "", KindFile:
		return NewFileBackend(layout), nil
	case KindSQLite:
		return OpenSQLite(layout.Database())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func validJSON(data []byte) bool {
	return len(data) > 0 && sonic.Valid(data)
}
