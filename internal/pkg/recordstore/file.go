package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
)

type entry struct {
	id   string
	data json.RawMessage
}

// FileStore keeps a collection as a JSON array in <dir>/<name>.json and
// rewrites the whole file on every mutation. An empty dir keeps it in memory.
// Records are held encoded, so callers never share memory with the store.
type FileStore[T any, PT Record[T]] struct {
	name    string
	path    string
	mu      sync.RWMutex
	entries []entry
	loaded  bool
	now     func() time.Time
	newID   func() string
}

// NewFileStore creates a file-backed collection
func NewFileStore[T any, PT Record[T]](dir, name string) *FileStore[T, PT] {
	s := &FileStore[T, PT]{
		name:  name,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	if dir != "" {
		s.path = filepath.Join(dir, name+".json")
	}
	return s
}

// NewMemoryStore creates a collection that is never written to disk
func NewMemoryStore[T any, PT Record[T]](name string) *FileStore[T, PT] {
	return NewFileStore[T, PT]("", name)
}

// load reads the collection file once. A failed read leaves the store
// unloaded so every later call fails too and nothing overwrites the file.
// Callers hold the write lock.
func (s *FileStore[T, PT]) load() error {
	if s.loaded {
		return nil
	}
	if s.path == "" {
		s.loaded = true
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.entries = nil
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read %s collection: %w", s.name, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to parse %s collection: %w", s.name, err)
	}
	entries := make([]entry, 0, len(items))
	for _, item := range items {
		v, err := s.decode(item)
		if err != nil {
			return err
		}
		entries = append(entries, entry{id: PT(&v).GetID(), data: item})
	}
	s.entries = entries
	s.loaded = true
	return nil
}

func (s *FileStore[T, PT]) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore[T, PT]) save() error {
	if s.path == "" {
		return nil
	}

	items := make([]json.RawMessage, len(s.entries))
	for i, e := range s.entries {
		items[i] = e.data
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s collection: %w", s.name, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), s.name+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s collection: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s collection: %w", s.name, err)
	}
	return nil
}

func (s *FileStore[T, PT]) decode(raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s record: %w", s.name, err)
	}
	return v, nil
}

func (s *FileStore[T, PT]) indexOf(id string) int {
	for i, e := range s.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

func (s *FileStore[T, PT]) notFound(id string) error {
	return fmt.Errorf("%s %q: %w", s.name, id, apperrors.ErrResourceNotFound)
}

// FindAll returns every record matching pred, in insertion order
func (s *FileStore[T, PT]) FindAll(ctx context.Context, pred Predicate[T]) ([]T, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.entries))
	for _, e := range s.entries {
		v, err := s.decode(e.data)
		if err != nil {
			return nil, err
		}
		if match(pred, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// FindByID returns the record with the given id
func (s *FileStore[T, PT]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := s.ensureLoaded(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, s.notFound(id)
	}
	return s.decode(s.entries[i].data)
}

// FindOne returns the first record matching pred
func (s *FileStore[T, PT]) FindOne(ctx context.Context, pred Predicate[T]) (T, error) {
	var zero T
	all, err := s.FindAll(ctx, pred)
	if err != nil {
		return zero, err
	}
	if len(all) == 0 {
		return zero, fmt.Errorf("%s: %w", s.name, apperrors.ErrResourceNotFound)
	}
	return all[0], nil
}

// Create assigns an id and timestamps and appends the record
func (s *FileStore[T, PT]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return zero, err
	}

	now := s.now()
	p := PT(&record)
	p.SetID(s.newID())
	p.SetTimestamps(now, now)

	raw, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s record: %w", s.name, err)
	}
	s.entries = append(s.entries, entry{id: p.GetID(), data: raw})
	if err := s.save(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return zero, err
	}
	return record, nil
}

// Update applies patch to the stored record
func (s *FileStore[T, PT]) Update(ctx context.Context, id string, patch Patch[T]) (T, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return zero, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return zero, s.notFound(id)
	}
	current, err := s.decode(s.entries[i].data)
	if err != nil {
		return zero, err
	}
	createdAt := PT(&current).GetCreatedAt()

	if patch != nil {
		if err := patch(&current); err != nil {
			return zero, err
		}
	}
	p := PT(&current)
	p.SetID(id)
	p.SetTimestamps(createdAt, s.now())

	raw, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s record: %w", s.name, err)
	}
	previous := s.entries[i].data
	s.entries[i].data = raw
	if err := s.save(); err != nil {
		s.entries[i].data = previous
		return zero, err
	}
	return current, nil
}

// Delete removes the record; false means it did not exist
func (s *FileStore[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	removed := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if err := s.save(); err != nil {
		s.entries = append(s.entries[:i], append([]entry{removed}, s.entries[i:]...)...)
		return false, err
	}
	return true, nil
}

// Count returns the number of records matching pred
func (s *FileStore[T, PT]) Count(ctx context.Context, pred Predicate[T]) (int, error) {
	all, err := s.FindAll(ctx, pred)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}
