// Package store owns the current diagram document. Every mutation produces a
// new revision, keeps references between nodes intact and writes the document
// to storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"erd/diagram"
	"erd/storage"

	"go.uber.org/zap"
)

// DefaultKey is the storage key the document is persisted under.
const DefaultKey = "erd-diagram"

const persistTimeout = 5 * time.Second

var (
	ErrNotFound           = errors.New("item not found")
	ErrNotConnected       = errors.New("entity is not connected to relationship")
	ErrInvalidCardinality = errors.New("invalid cardinality")
	ErrInvalidPatch       = errors.New("invalid patch")
)

// Op names the mutation that produced a revision.
type Op string

const (
	OpAdd         Op = "add"
	OpUpdate      Op = "update"
	OpMove        Op = "move"
	OpDelete      Op = "delete"
	OpConnect     Op = "connect"
	OpDisconnect  Op = "disconnect"
	OpCardinality Op = "cardinality"
	OpLoad        Op = "load"
	OpClear       Op = "clear"
)

// Change describes one committed revision. PersistErr is set when writing the
// revision to storage failed; the revision itself stays committed.
type Change struct {
	Revision   uint64
	Op         Op
	ID         string
	Kind       diagram.Kind
	PersistErr error
}

// Options configures a Store.
type Options struct {
	Key    string
	Logger *zap.Logger
}

// Store is the single owner of the diagram document. It is not safe for
// concurrent use; the front end drives it from its event loop.
type Store struct {
	storage storage.Storage
	key     string
	logger  *zap.Logger

	doc       *diagram.Diagram
	revision  uint64
	version   uint64
	selection *diagram.Selection

	subscribers []func(Change)
}

// New creates a store holding an empty document. Call Open to read the
// persisted document.
func New(s storage.Storage, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		storage: s,
		key:     opts.Key,
		logger:  opts.Logger,
		doc:     diagram.New(),
	}
}

// Open reads the persisted document. A missing or corrupt document leaves the
// store empty; only a storage failure is returned.
func (s *Store) Open(ctx context.Context) error {
	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("No stored diagram", zap.String("key", s.key))
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading stored diagram: %w", err)
	}

	doc, err := diagram.Parse(data)
	if err != nil {
		s.logger.Warn("Ignoring corrupt stored diagram",
			zap.String("key", s.key),
			zap.Error(err))
		return nil
	}

	s.doc = doc
	s.selection = nil
	s.logger.Info("Loaded stored diagram",
		zap.String("key", s.key),
		zap.Int("entities", len(doc.Entities)),
		zap.Int("attributes", len(doc.Attributes)),
		zap.Int("relationships", len(doc.Relationships)))
	return nil
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() *diagram.Diagram {
	return s.doc.Clone()
}

// Revision counts committed mutations.
func (s *Store) Revision() uint64 {
	return s.revision
}

// Version counts label changes.
func (s *Store) Version() uint64 {
	return s.version
}

// Selection returns the selected item, if any.
func (s *Store) Selection() (diagram.Selection, bool) {
	if s.selection == nil {
		return diagram.Selection{}, false
	}
	return *s.selection, true
}

// Subscribe registers fn to be called after every committed mutation.
func (s *Store) Subscribe(fn func(Change)) {
	s.subscribers = append(s.subscribers, fn)
}

// SelectItem selects the node with the given id and kind. Unknown nodes are ignored.
func (s *Store) SelectItem(id string, kind diagram.Kind) {
	if !s.doc.Contains(id, kind) {
		return
	}
	s.selection = &diagram.Selection{ID: id, Kind: kind}
}

// Deselect clears the selection.
func (s *Store) Deselect() {
	s.selection = nil
}

// commit installs next as the current revision, persists it and notifies
// subscribers.
func (s *Store) commit(next *diagram.Diagram, change Change) Change {
	s.doc = next
	s.revision++
	change.Revision = s.revision

	if s.selection != nil && !s.doc.Contains(s.selection.ID, s.selection.Kind) {
		s.selection = nil
	}

	change.PersistErr = s.persist(change.Op)
	if change.PersistErr != nil {
		s.logger.Error("Failed to persist diagram",
			zap.String("key", s.key),
			zap.String("op", string(change.Op)),
			zap.Error(change.PersistErr))
	}

	for _, fn := range s.subscribers {
		fn(change)
	}
	return change
}

// persist writes the current document. Clearing removes the key instead.
func (s *Store) persist(op Op) error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if op == OpClear {
		return s.storage.Remove(ctx, s.key)
	}
	data, err := diagram.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("serializing diagram: %w", err)
	}
	return s.storage.Save(ctx, s.key, data)
}
