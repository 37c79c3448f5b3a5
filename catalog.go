package tagcatalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultFilePermissions = 0644

type Catalog struct {
	Entries           map[EntryID]*Entry
	Tags              map[TagID]*Tag
	Sequences         map[SequenceID]*Sequence
	IgnoredExtensions []string
	TagApps           map[TagID]string
}

func NewCatalog(ignoredExtensions ...string) *Catalog {
	cat := &Catalog{
		Entries:   make(map[EntryID]*Entry),
		Tags:      make(map[TagID]*Tag),
		Sequences: make(map[SequenceID]*Sequence),
		TagApps:   make(map[TagID]string),
	}
	for _, ext := range ignoredExtensions {
		cat.AddIgnoredExtension(ext)
	}
	return cat
}

// InsertEntry adds an untagged entry for path. It does not check whether the
// path is already on record; ApplyChanges relies on the scanner for that.
func (c *Catalog) InsertEntry(uid *UidCounter, relPath string) EntryID {
	id := uid.NextEntry()
	c.Entries[id] = &Entry{Path: relPath, Tags: NewTagSet()}
	return id
}

func (c *Catalog) EntryByPath(relPath string) (EntryID, bool) {
	for id, entry := range c.Entries {
		if entry.Path == relPath {
			return id, true
		}
	}
	return 0, false
}

// TagByName finds the tag owning name. The comparison is exact and case
// sensitive.
func (c *Catalog) TagByName(name string) (TagID, bool) {
	for id, tag := range c.Tags {
		for _, n := range tag.Names {
			if n == name {
				return id, true
			}
		}
	}
	return 0, false
}

// TagDisplayName returns the display name of id, or an invalid reference
// label when the tag does not exist.
func (c *Catalog) TagDisplayName(id TagID) (string, bool) {
	tag, ok := c.Tags[id]
	if !ok {
		return fmt.Sprintf("<invalid tag %d>", id), false
	}
	return tag.Name(), true
}

func (c *Catalog) EntryDisplayPath(id EntryID) (string, bool) {
	entry, ok := c.Entries[id]
	if !ok {
		return fmt.Sprintf("<invalid entry %d>", id), false
	}
	return entry.Path, true
}

func (c *Catalog) AddTagToEntries(tag TagID, ids []EntryID) {
	for _, id := range ids {
		if entry, ok := c.Entries[id]; ok {
			entry.Tags[tag] = struct{}{}
		}
	}
}

func (c *Catalog) RemoveTagFromEntries(tag TagID, ids []EntryID) {
	for _, id := range ids {
		if entry, ok := c.Entries[id]; ok {
			delete(entry.Tags, tag)
		}
	}
}

// CreateTag creates a tag named after text. The boolean is false when a tag
// with that name already exists, in which case nothing is created and the
// existing tag's id is returned. An empty name creates nothing and returns
// false with a zero id.
func (c *Catalog) CreateTag(uid *UidCounter, text string) (TagID, bool) {
	name := normalizeTagName(text)
	if name == "" {
		return 0, false
	}
	if existing, ok := c.TagByName(name); ok {
		return existing, false
	}
	id := uid.NextTag()
	c.Tags[id] = &Tag{Names: []string{name}, Implies: NewTagSet()}
	return id, true
}

// AddTagName registers an additional name for a tag.
func (c *Catalog) AddTagName(id TagID, text string) error {
	tag, ok := c.Tags[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNoSuchTag, id)
	}
	name := normalizeTagName(text)
	if name == "" {
		return ErrEmptyName
	}
	if owner, taken := c.TagByName(name); taken {
		if owner == id {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	tag.Names = append(tag.Names, name)
	return nil
}

// RemoveTags deletes the given tags after stripping every reference to them
// from entries, implication sets and application overrides.
func (c *Catalog) RemoveTags(ids []TagID) {
	for _, id := range ids {
		for _, entry := range c.Entries {
			delete(entry.Tags, id)
		}
		for _, tag := range c.Tags {
			delete(tag.Implies, id)
		}
		delete(c.TagApps, id)
		delete(c.Tags, id)
	}
}

func (c *Catalog) AddImplication(tag, implied TagID) error {
	t, ok := c.Tags[tag]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNoSuchTag, tag)
	}
	if _, ok := c.Tags[implied]; !ok {
		return fmt.Errorf("%w: id %d", ErrNoSuchTag, implied)
	}
	if tag == implied {
		return fmt.Errorf("tag %q cannot imply itself", t.Name())
	}
	t.Implies[implied] = struct{}{}
	return nil
}

func (c *Catalog) RemoveImplication(tag, implied TagID) {
	if t, ok := c.Tags[tag]; ok {
		delete(t.Implies, implied)
	}
}

func (c *Catalog) SetTagApp(tag TagID, app string) error {
	if _, ok := c.Tags[tag]; !ok {
		return fmt.Errorf("%w: id %d", ErrNoSuchTag, tag)
	}
	c.TagApps[tag] = app
	return nil
}

func (c *Catalog) ClearTagApp(tag TagID) {
	delete(c.TagApps, tag)
}

// AppForEntry returns the application override of the first tag of the entry
// (by ascending id) that has one.
func (c *Catalog) AppForEntry(id EntryID) (string, bool) {
	entry, ok := c.Entries[id]
	if !ok {
		return "", false
	}
	for _, tag := range entry.Tags.Sorted() {
		if app, ok := c.TagApps[tag]; ok {
			return app, true
		}
	}
	return "", false
}

// RemoveEntries deletes entries and drops them from every sequence.
func (c *Catalog) RemoveEntries(ids []EntryID) {
	gone := make(map[EntryID]bool, len(ids))
	for _, id := range ids {
		delete(c.Entries, id)
		gone[id] = true
	}
	for _, seq := range c.Sequences {
		kept := seq.Entries[:0]
		for _, id := range seq.Entries {
			if !gone[id] {
				kept = append(kept, id)
			}
		}
		seq.Entries = kept
	}
}

// RenameEntry moves the file backing an entry and records the new path. If
// the filesystem rename fails the entry keeps its old path.
func (c *Catalog) RenameEntry(root string, id EntryID, newPath string) error {
	entry, ok := c.Entries[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNoSuchEntry, id)
	}
	newPath = path.Clean(filepath.ToSlash(newPath))
	if newPath == entry.Path {
		return nil
	}
	if !isLocalPath(newPath) {
		return fmt.Errorf("path must stay inside the collection: %s", newPath)
	}
	if _, taken := c.EntryByPath(newPath); taken {
		return fmt.Errorf("%w: %s", ErrPathExists, newPath)
	}

	src := filepath.Join(root, filepath.FromSlash(entry.Path))
	dst := filepath.Join(root, filepath.FromSlash(newPath))
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w on disk: %s", ErrPathExists, newPath)
	}
	created, err := mkdirAllTracked(filepath.Dir(dst))
	if err != nil {
		removeDirs(created)
		return fmt.Errorf("creating directory for %s: %w", newPath, err)
	}
	if err := os.Rename(src, dst); err != nil {
		removeDirs(created)
		return fmt.Errorf("renaming %s to %s: %w", entry.Path, newPath, err)
	}
	entry.Path = newPath
	return nil
}

func (c *Catalog) AddIgnoredExtension(ext string) {
	ext = normalizeExtension(ext)
	if ext == "" || c.IsIgnoredExtension(ext) {
		return
	}
	c.IgnoredExtensions = append(c.IgnoredExtensions, ext)
}

func (c *Catalog) RemoveIgnoredExtension(ext string) {
	ext = normalizeExtension(ext)
	kept := c.IgnoredExtensions[:0]
	for _, e := range c.IgnoredExtensions {
		if e != ext {
			kept = append(kept, e)
		}
	}
	c.IgnoredExtensions = kept
}

// IsIgnoredExtension reports whether ext (with or without the leading dot)
// is on the ignore list. Comparison is case-insensitive.
func (c *Catalog) IsIgnoredExtension(ext string) bool {
	return extensionListed(ext, c.IgnoredExtensions)
}

func extensionListed(ext string, list []string) bool {
	ext = normalizeExtension(ext)
	if ext == "" {
		return false
	}
	for _, e := range list {
		if normalizeExtension(e) == ext {
			return true
		}
	}
	return false
}

func (c *Catalog) EntryInfo(id EntryID) EntryInfo {
	info := EntryInfo{ID: id, Tags: []string{}}
	entry, ok := c.Entries[id]
	if !ok {
		info.Path, _ = c.EntryDisplayPath(id)
		return info
	}
	info.Path = entry.Path
	for _, tag := range entry.Tags.Sorted() {
		name, _ := c.TagDisplayName(tag)
		info.Tags = append(info.Tags, name)
	}
	sort.Strings(info.Tags)
	return info
}

// TagInfos lists all tags sorted by display name with their usage counts.
func (c *Catalog) TagInfos() []TagInfo {
	counts := make(map[TagID]int)
	for _, entry := range c.Entries {
		for tag := range entry.Tags {
			counts[tag]++
		}
	}

	result := make([]TagInfo, 0, len(c.Tags))
	for id, tag := range c.Tags {
		info := TagInfo{
			ID:    id,
			Names: append([]string(nil), tag.Names...),
			Count: counts[id],
			App:   c.TagApps[id],
		}
		for _, implied := range tag.Implies.Sorted() {
			name, _ := c.TagDisplayName(implied)
			info.Implies = append(info.Implies, name)
		}
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := c.Tags[result[i].ID].Name(), c.Tags[result[j].ID].Name()
		if a != b {
			return a < b
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func normalizeTagName(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func isLocalPath(p string) bool {
	return p != "." && p != "" && !path.IsAbs(p) && p != ".." && !strings.HasPrefix(p, "../")
}

// mkdirAllTracked creates dir and any missing parents, returning the
// directories it created, deepest first.
func mkdirAllTracked(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Lstat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	var created []string
	for i := len(missing) - 1; i >= 0; i-- {
		err := os.Mkdir(missing[i], 0755)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return created, err
		}
		created = append([]string{missing[i]}, created...)
	}
	return created, nil
}

func removeDirs(dirs []string) {
	for _, d := range dirs {
		_ = os.Remove(d)
	}
}
