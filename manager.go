package tagcatalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Collection is an opened catalog together with the root folder it indexes.
type Collection struct {
	ID      CollectionID
	Root    string
	Catalog *Catalog

	uid UidCounter
}

// Uid returns the id allocator for this session. Allocated ids are written
// back to the global state on Save.
func (c *Collection) Uid() *UidCounter {
	return &c.uid
}

// Path resolves an entry path relative to the collection root.
func (c *Collection) Path(id EntryID) (string, error) {
	entry, ok := c.Catalog.Entries[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrNoSuchEntry, id)
	}
	return filepath.Join(c.Root, filepath.FromSlash(entry.Path)), nil
}

// ResolveEntries maps user supplied paths, absolute or relative to the root,
// to entry ids.
func (c *Collection) ResolveEntries(paths []string) ([]EntryID, error) {
	ids := make([]EntryID, 0, len(paths))
	for _, p := range paths {
		rel := p
		if filepath.IsAbs(p) {
			r, err := filepath.Rel(c.Root, p)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, p)
			}
			rel = r
		}
		id, ok := c.Catalog.EntryByPath(filepath.ToSlash(filepath.Clean(rel)))
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveTags looks up tags by name, optionally creating the missing ones.
func (c *Collection) ResolveTags(names []string, create bool) ([]TagID, error) {
	ids := make([]TagID, 0, len(names))
	for _, name := range names {
		if normalizeTagName(name) == "" {
			return nil, ErrEmptyName
		}
		if id, ok := c.Catalog.TagByName(normalizeTagName(name)); ok {
			ids = append(ids, id)
			continue
		}
		if !create {
			return nil, &NoSuchTagError{Name: name}
		}
		id, _ := c.Catalog.CreateTag(&c.uid, name)
		ids = append(ids, id)
	}
	return ids, nil
}

type Manager interface {
	Init(ctx context.Context, root string) (*Collection, error)
	Collections(ctx context.Context) ([]CollectionInfo, error)
	Open(ctx context.Context, ref string) (*Collection, error)
	Forget(ctx context.Context, ref string) error
	Save(ctx context.Context, coll *Collection) error
	Backup(ctx context.Context, coll *Collection) (string, error)
	Restore(ctx context.Context, coll *Collection) error
	Scan(ctx context.Context, coll *Collection) (ChangeSet, error)
	Apply(ctx context.Context, coll *Collection, changes ChangeSet) (*ApplyResult, error)
	Query(ctx context.Context, coll *Collection, query string) ([]EntryInfo, error)
}

type DefaultManager struct {
	scanner   Scanner
	validator Validator
	state     *StateStore
	config    *Config
	log       Logger
}

func NewDefaultManager(config *Config, log Logger) (*DefaultManager, error) {
	if log == nil {
		log = NopLogger()
	}
	validator := NewDefaultValidator()
	if err := validator.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &DefaultManager{
		scanner:   NewFilesystemScanner(log),
		validator: validator,
		state:     NewStateStore(config.DataDir),
		config:    config,
		log:       log,
	}, nil
}

func (m *DefaultManager) catalogPath(id CollectionID) string {
	return filepath.Join(m.config.DataDir, "collections", string(id)+CatalogFileSuffix)
}

func (m *DefaultManager) backupPath(id CollectionID) string {
	return m.catalogPath(id) + BackupFileSuffix
}

// Init registers root as a collection, writing an empty catalog if none
// exists yet, and makes it the most recent collection.
func (m *DefaultManager) Init(ctx context.Context, root string) (*Collection, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}
	if err := m.validator.ValidatePath(abs); err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}

	var id CollectionID
	state, err := m.state.Update(ctx, func(s *GlobalState) error {
		id = s.Register(abs)
		s.Touch(id, m.config.MaxRecent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	coll, err := m.load(id, abs, state.Uid)
	if err != nil {
		return nil, err
	}
	if err := m.Save(ctx, coll); err != nil {
		return nil, err
	}
	m.log.Info("collection initialized", "id", id, "root", abs)
	return coll, nil
}

func (m *DefaultManager) Collections(ctx context.Context) ([]CollectionInfo, error) {
	state, err := m.state.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.CollectionInfos(), nil
}

// Open loads the collection named by ref (id, id prefix or root path). An
// empty ref opens the most recently used collection.
func (m *DefaultManager) Open(ctx context.Context, ref string) (*Collection, error) {
	var (
		id   CollectionID
		root string
	)
	state, err := m.state.Update(ctx, func(s *GlobalState) error {
		var ok bool
		if ref == "" {
			id, ok = s.MostRecent()
		} else {
			id, ok = s.Find(ref)
		}
		if !ok {
			if ref == "" {
				return fmt.Errorf("%w: none initialized, run init first", ErrNoSuchCollection)
			}
			return fmt.Errorf("%w: %s", ErrNoSuchCollection, ref)
		}
		root = s.Collections[id]
		s.Touch(id, m.config.MaxRecent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.load(id, root, state.Uid)
}

func (m *DefaultManager) load(id CollectionID, root string, uid UidCounter) (*Collection, error) {
	coll := &Collection{ID: id, Root: root, uid: uid}
	path := m.catalogPath(id)
	exists, err := CatalogExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		coll.Catalog = NewCatalog(m.config.DefaultIgnoredExtensions...)
		return coll, nil
	}
	coll.Catalog, err = LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	m.log.Debug("catalog loaded", "path", path, "entries", len(coll.Catalog.Entries))
	return coll, nil
}

// Forget unregisters a collection. Its snapshot files are left in place.
func (m *DefaultManager) Forget(ctx context.Context, ref string) error {
	_, err := m.state.Update(ctx, func(s *GlobalState) error {
		id, ok := s.Find(ref)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoSuchCollection, ref)
		}
		s.Forget(id)
		return nil
	})
	return err
}

// Save writes the catalog snapshot and merges the session's id counter into
// the global state so ids are never handed out twice.
func (m *DefaultManager) Save(ctx context.Context, coll *Collection) error {
	if err := SaveCatalog(m.catalogPath(coll.ID), coll.Catalog); err != nil {
		return err
	}
	_, err := m.state.Update(ctx, func(s *GlobalState) error {
		s.Uid.Next = max(s.Uid.Next, coll.uid.Next)
		return nil
	})
	return err
}

func (m *DefaultManager) Backup(ctx context.Context, coll *Collection) (string, error) {
	path := m.backupPath(coll.ID)
	if err := SaveCatalog(path, coll.Catalog); err != nil {
		return "", err
	}
	m.log.Info("backup written", "path", path)
	return path, nil
}

// Restore replaces the collection's catalog with its backup and saves it.
func (m *DefaultManager) Restore(ctx context.Context, coll *Collection) error {
	cat, err := LoadCatalog(m.backupPath(coll.ID))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no backup for collection %s", coll.ID)
	}
	if err != nil {
		return err
	}
	coll.Catalog = cat
	return m.Save(ctx, coll)
}

func (m *DefaultManager) Scan(ctx context.Context, coll *Collection) (ChangeSet, error) {
	changes, err := m.scanner.ScanChanges(coll.Catalog, coll.Root)
	if err != nil {
		return ChangeSet{}, err
	}
	m.log.Debug("scan complete", "added", len(changes.Add), "removed", len(changes.Remove))
	return changes, nil
}

// Apply commits changes to the catalog and saves it.
func (m *DefaultManager) Apply(ctx context.Context, coll *Collection, changes ChangeSet) (*ApplyResult, error) {
	result := &ApplyResult{Added: make(map[string]EntryID), Removed: []string{}}
	adding := make(map[string]bool, len(changes.Add))
	for _, p := range changes.Add {
		adding[p] = true
	}
	reported := make(map[string]bool, len(changes.Remove))
	for _, p := range changes.Remove {
		if _, ok := coll.Catalog.EntryByPath(p); (ok || adding[p]) && !reported[p] {
			result.Removed = append(result.Removed, p)
			reported[p] = true
		}
	}
	ApplyChanges(coll.Catalog, changes, &coll.uid, func(path string, id EntryID) {
		result.Added[path] = id
	})
	if err := m.Save(ctx, coll); err != nil {
		return nil, err
	}
	return result, nil
}

// Query returns the entries matching the query text, ordered by path.
func (m *DefaultManager) Query(ctx context.Context, coll *Collection, query string) ([]EntryInfo, error) {
	reqs, err := ParseRequirements(strings.TrimSpace(query), coll.Catalog.Tags)
	if err != nil {
		return nil, err
	}
	ids := FilterEntries(coll.Catalog, reqs)
	infos := make([]EntryInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, coll.Catalog.EntryInfo(id))
	}
	return infos, nil
}
