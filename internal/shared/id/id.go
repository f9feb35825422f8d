// Package id provides centralized ID generation for the shell core.
//
// Every identifier is a prefixed ULID:
//   - Lexicographic sortability: session ids sort by creation time
//   - Prefixed types: sess_*, pane_*, req_* make logs readable
//   - Type safety: separate types prevent passing a pane id where a
//     session id is expected
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a saved session
type SessionID string

// PaneID identifies a live pane for its whole lifetime, independent of the
// URL it currently shows
type PaneID string

// RequestID identifies an API request or trace span
type RequestID string

const (
	SessionPrefix = "sess"
	PanePrefix    = "pane"
	RequestPrefix = "req"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
	now       func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
// and clock. Tests use it for deterministic ids.
func NewGeneratorWithEntropy(entropy io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: entropy,
		now:     now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// Session generates a session id from this generator
func (g *Generator) Session() SessionID {
	return SessionID(g.GenerateWithPrefix(SessionPrefix))
}

// Pane generates a pane id from this generator
func (g *Generator) Pane() PaneID {
	return PaneID(g.GenerateWithPrefix(PanePrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id SessionID) String() string { return string(id) }
func (id PaneID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }
