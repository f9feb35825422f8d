package prompt

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

var (
	// ErrTemplateNotFound is returned for unknown template keys
	ErrTemplateNotFound = errors.New("template not found")
	// ErrBadPattern is returned by List for malformed globs
	ErrBadPattern = errors.New("invalid template pattern")
)

// Templates is the prompt template store
type Templates struct {
	mu      sync.Mutex
	doc     storage.Document
	entries map[string]string // nil until first load

	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewTemplates creates a template store over doc
func NewTemplates(doc storage.Document) *Templates {
	return &Templates{doc: doc, logger: zap.NewNop()}
}

// WithMetrics adds metrics tracking
func (t *Templates) WithMetrics(metrics *monitoring.Metrics) *Templates {
	t.metrics = metrics
	return t
}

// WithLogger sets the component logger
func (t *Templates) WithLogger(logger *zap.Logger) *Templates {
	if logger != nil {
		t.logger = logger
	}
	return t
}

// Get returns one template
func (t *Templates) Get(key string) (types.Template, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	text, ok := t.loadLocked()[key]
	if !ok {
		return types.Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	return types.Template{Key: key, Text: text}, nil
}

// Set creates or replaces a template
func (t *Templates) Set(key, text string) error {
	if err := utils.ValidateTemplateKey(key); err != nil {
		return err
	}
	if err := utils.ValidatePrompt(text); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.loadLocked()
	prev, existed := entries[key]
	entries[key] = text
	if err := t.persistLocked(); err != nil {
		if existed {
			entries[key] = prev
		} else {
			delete(entries, key)
		}
		return err
	}
	return nil
}

// Delete removes a template. Returns false when key did not exist.
func (t *Templates) Delete(key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.loadLocked()
	prev, ok := entries[key]
	if !ok {
		return false, nil
	}
	delete(entries, key)
	if err := t.persistLocked(); err != nil {
		entries[key] = prev
		return false, err
	}
	return true, nil
}

// List returns the templates whose key matches pattern, sorted by key.
// An empty pattern matches everything.
func (t *Templates) List(pattern string) ([]types.Template, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.Template, 0)
	for key, text := range t.loadLocked() {
		if pattern != "" {
			ok, err := doublestar.Match(pattern, key)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, types.Template{Key: key, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (t *Templates) loadLocked() map[string]string {
	if t.entries != nil {
		return t.entries
	}
	t.entries = make(map[string]string)

	data, err := t.doc.Read()
	if errors.Is(err, storage.ErrNotExist) {
		return t.entries
	}
	if err != nil {
		t.metrics.RecordStoreError(t.doc.Name(), "read")
		t.logger.Warn("failed to read templates", zap.Error(err))
		return t.entries
	}
	if err := sonic.Unmarshal(data, &t.entries); err != nil {
		t.metrics.RecordStoreError(t.doc.Name(), "decode")
		t.logger.Warn("malformed templates document, starting empty", zap.Error(err))
		t.entries = make(map[string]string)
	}
	return t.entries
}

func (t *Templates) persistLocked() error {
	data, err := sonic.ConfigStd.MarshalIndent(t.entries, "", "  ")
	if err != nil {
		t.metrics.RecordStoreError(t.doc.Name(), "encode")
		return fmt.Errorf("failed to encode templates: %w", err)
	}
	if err := t.doc.Write(data); err != nil {
		t.metrics.RecordStoreError(t.doc.Name(), "write")
		t.logger.Warn("failed to write templates", zap.Error(err))
		return fmt.Errorf("failed to write templates: %w", err)
	}
	return nil
}
