package tagcatalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	StateFileName      = "state.yaml"
	DefaultLockTimeout = 5 * time.Second
)

var ErrLockTimeout = errors.New("timeout acquiring state lock")

// GlobalState is shared by every collection: the id counter, the registered
// collection roots and the recently used collections (most recent last).
type GlobalState struct {
	Uid         UidCounter              `yaml:",inline"`
	Collections map[CollectionID]string `yaml:"collections"`
	Recent      []CollectionID          `yaml:"recent"`
}

func NewGlobalState() *GlobalState {
	return &GlobalState{Collections: make(map[CollectionID]string)}
}

// Touch marks id as the most recently used collection, keeping at most
// maxRecent ids.
func (s *GlobalState) Touch(id CollectionID, maxRecent int) {
	recent := make([]CollectionID, 0, len(s.Recent)+1)
	for _, r := range s.Recent {
		if r != id {
			recent = append(recent, r)
		}
	}
	recent = append(recent, id)
	if maxRecent > 0 && len(recent) > maxRecent {
		recent = recent[len(recent)-maxRecent:]
	}
	s.Recent = recent
}

// MostRecent returns the last used collection that is still registered.
func (s *GlobalState) MostRecent() (CollectionID, bool) {
	for i := len(s.Recent) - 1; i >= 0; i-- {
		if _, ok := s.Collections[s.Recent[i]]; ok {
			return s.Recent[i], true
		}
	}
	return "", false
}

// Register returns the id of the collection rooted at root, creating one if
// the root is new.
func (s *GlobalState) Register(root string) CollectionID {
	for id, r := range s.Collections {
		if r == root {
			return id
		}
	}
	id := CollectionID(uuid.NewString())
	s.Collections[id] = root
	return id
}

func (s *GlobalState) Forget(id CollectionID) {
	delete(s.Collections, id)
	kept := s.Recent[:0]
	for _, r := range s.Recent {
		if r != id {
			kept = append(kept, r)
		}
	}
	s.Recent = kept
}

// Find resolves a collection id, an unambiguous id prefix or a root path.
func (s *GlobalState) Find(ref string) (CollectionID, bool) {
	if _, ok := s.Collections[CollectionID(ref)]; ok {
		return CollectionID(ref), true
	}
	if abs, err := filepath.Abs(ref); err == nil {
		for id, root := range s.Collections {
			if root == abs {
				return id, true
			}
		}
	}
	var match []CollectionID
	for id := range s.Collections {
		if len(ref) >= 4 && len(id) >= len(ref) && string(id[:len(ref)]) == ref {
			match = append(match, id)
		}
	}
	if len(match) == 1 {
		return match[0], true
	}
	return "", false
}

func (s *GlobalState) CollectionInfos() []CollectionInfo {
	recent := make(map[CollectionID]bool, len(s.Recent))
	for _, r := range s.Recent {
		recent[r] = true
	}
	infos := make([]CollectionInfo, 0, len(s.Collections))
	for id, root := range s.Collections {
		infos = append(infos, CollectionInfo{ID: id, Root: root, Recent: recent[id]})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Root < infos[j].Root })
	return infos
}

// StateStore persists GlobalState as YAML guarded by an inter-process lock.
type StateStore struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
}

func NewStateStore(dataDir string) *StateStore {
	path := filepath.Join(dataDir, StateFileName)
	return &StateStore{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: DefaultLockTimeout,
	}
}

func (s *StateStore) Path() string {
	return s.path
}

// Load reads the state under a shared lock. A missing file yields an empty
// state.
func (s *StateStore) Load(ctx context.Context) (*GlobalState, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := s.lock.TryRLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.read()
}

// Update loads the state, applies fn and writes the result back while
// holding an exclusive lock.
func (s *StateStore) Update(ctx context.Context, fn func(*GlobalState) error) (*GlobalState, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	defer func() { _ = s.lock.Unlock() }()

	state, err := s.read()
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.write(state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *StateStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (s *StateStore) read() (*GlobalState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewGlobalState(), nil
	}
	if err != nil {
		return nil, err
	}

	state := NewGlobalState()
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("malformed state file %s: %w", s.path, err)
	}
	if state.Collections == nil {
		state.Collections = make(map[CollectionID]string)
	}
	return state, nil
}

func (s *StateStore) write(state *GlobalState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	tempFile := fmt.Sprintf("%s.%d.%d.tmp", s.path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tempFile, data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
