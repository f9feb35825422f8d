package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Store reads and writes the SessionState document
type Store struct {
	doc     storage.Document
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewStore creates a store over doc
func NewStore(doc storage.Document) *Store {
	return &Store{doc: doc, logger: zap.NewNop()}
}

// WithMetrics adds metrics tracking to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// WithLogger sets the component logger
func (s *Store) WithLogger(logger *zap.Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Load returns the persisted state, or an empty default when nothing was
// persisted or the document cannot be read. Never returns nil.
func (s *Store) Load() *types.SessionState {
	timer := monitoring.NewTimer(s.metrics, "store", "load")

	data, err := s.doc.Read()
	if errors.Is(err, storage.ErrNotExist) {
		timer.Stop("empty")
		return types.NewSessionState()
	}
	if err != nil {
		timer.Stop("error")
		s.metrics.RecordStoreError(s.doc.Name(), "read")
		s.logger.Warn("failed to read session state, using defaults", zap.Error(err))
		return types.NewSessionState()
	}

	var state types.SessionState
	if err := sonic.Unmarshal(data, &state); err != nil {
		timer.Stop("error")
		s.metrics.RecordStoreError(s.doc.Name(), "decode")
		s.logger.Warn("malformed session state, using defaults", zap.Error(err))
		return types.NewSessionState()
	}

	if repaired := Normalize(&state); repaired > 0 {
		s.logger.Info("repaired session state", zap.Int("fixes", repaired))
	}
	timer.Stop("ok")
	return &state
}

// Save overwrites the persisted document with state
func (s *Store) Save(state *types.SessionState) error {
	timer := monitoring.NewTimer(s.metrics, "store", "save")

	data, err := sonic.ConfigStd.MarshalIndent(state, "", "  ")
	if err != nil {
		timer.StopErr(err)
		s.metrics.RecordStoreError(s.doc.Name(), "encode")
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	if err := s.doc.Write(data); err != nil {
		timer.StopErr(err)
		s.metrics.RecordStoreError(s.doc.Name(), "write")
		s.logger.Warn("failed to write session state", zap.Error(err))
		return fmt.Errorf("failed to write session state: %w", err)
	}

	timer.Stop("ok")
	return nil
}

// Normalize fills nil collections and repairs references so that every
// id in order, pinned and activeId exists in items and every item has a
// layout. Returns the number of repairs made.
func Normalize(s *types.SessionState) int {
	fixes := 0

	if s.Items == nil {
		s.Items = map[id.SessionID]types.SessionMeta{}
	}
	if s.Layouts == nil {
		s.Layouts = map[id.SessionID]types.SessionLayout{}
	}

	for key, meta := range s.Items {
		if meta.ID != key {
			meta.ID = key
			s.Items[key] = meta
			fixes++
		}
	}

	seen := make(map[id.SessionID]bool, len(s.Items))
	keep := func(ids []id.SessionID, pinned bool) []id.SessionID {
		out := make([]id.SessionID, 0, len(ids))
		for _, sid := range ids {
			meta, ok := s.Items[sid]
			if !ok || seen[sid] {
				fixes++
				continue
			}
			seen[sid] = true
			if meta.Pinned != pinned {
				meta.Pinned = pinned
				s.Items[sid] = meta
				fixes++
			}
			out = append(out, sid)
		}
		return out
	}
	s.Pinned = keep(s.Pinned, true)
	s.Order = keep(s.Order, false)

	// Items missing from both lists stay reachable
	var orphans []id.SessionID
	for sid := range s.Items {
		if !seen[sid] {
			orphans = append(orphans, sid)
		}
	}
	sortByUpdatedDesc(orphans, s.Items)
	for _, sid := range orphans {
		meta := s.Items[sid]
		if meta.Pinned {
			s.Pinned = append(s.Pinned, sid)
		} else {
			s.Order = append(s.Order, sid)
		}
		fixes++
	}

	for sid, layout := range s.Layouts {
		if _, ok := s.Items[sid]; !ok {
			delete(s.Layouts, sid)
			fixes++
			continue
		}
		if layout.Tabs == nil {
			layout.Tabs = []types.TabState{}
			s.Layouts[sid] = layout
		}
	}
	for sid := range s.Items {
		if _, ok := s.Layouts[sid]; !ok {
			s.Layouts[sid] = types.SessionLayout{Tabs: []types.TabState{}}
			fixes++
		}
	}

	if active, ok := s.Active(); ok {
		if _, exists := s.Items[active]; !exists {
			s.SetActive("")
			fixes++
		}
	}

	return fixes
}

func sortByUpdatedDesc(ids []id.SessionID, items map[id.SessionID]types.SessionMeta) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := items[ids[i]], items[ids[j]]
		if a.UpdatedAt != b.UpdatedAt {
			return a.UpdatedAt > b.UpdatedAt
		}
		return a.ID < b.ID
	})
}
