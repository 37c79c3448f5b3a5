package tagcatalog

import (
	"bufio"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	snapshotMagic   = "TAGCATALOG"
	snapshotVersion = 1

	CatalogFileSuffix = ".catalog"
	BackupFileSuffix  = ".bak"
)

type catalogSnapshot struct {
	Entries           []entryRecord
	Tags              []tagRecord
	Sequences         []sequenceRecord
	IgnoredExtensions []string
	TagApps           []tagAppRecord
}

type entryRecord struct {
	ID   EntryID
	Path string
	Tags []TagID
}

type tagRecord struct {
	ID      TagID
	Names   []string
	Implies []TagID
}

type sequenceRecord struct {
	ID      SequenceID
	Name    string
	Entries []EntryID
}

type tagAppRecord struct {
	Tag TagID
	App string
}

// SaveCatalog writes a compressed snapshot of cat to path. The snapshot is
// written to a temporary file first and renamed into place.
func SaveCatalog(path string, cat *Catalog) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("saving catalog: %w", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tempPath := fmt.Sprintf("%s.%d.%d.tmp", path, os.Getpid(), time.Now().UnixNano())
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tempPath)
		}
	}()

	compressor, err := gzip.NewWriterLevel(file, gzip.BestSpeed)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(compressor, "%s %d\n", snapshotMagic, snapshotVersion); err != nil {
		return err
	}
	if err = gob.NewEncoder(compressor).Encode(snapshotOf(cat)); err != nil {
		return err
	}
	if err = compressor.Close(); err != nil {
		return err
	}
	if err = file.Sync(); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}

	if err = os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing %s with %s: %w", path, tempPath, err)
	}
	return nil
}

// LoadCatalog reads a snapshot written by SaveCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decompressor, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("catalog %s corrupted: %w", path, err)
	}
	defer decompressor.Close()

	reader := bufio.NewReader(decompressor)
	header, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("catalog %s corrupted, header not found: %w", path, err)
	}
	magic, version, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || magic != snapshotMagic {
		return nil, fmt.Errorf("%s is not a catalog file", path)
	}
	if v, err := strconv.Atoi(version); err != nil || v != snapshotVersion {
		return nil, fmt.Errorf("incompatible catalog version %q in %s", version, path)
	}

	var snap catalogSnapshot
	if err := gob.NewDecoder(reader).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return snap.catalog(), nil
}

// CatalogExists reports whether a snapshot exists at path.
func CatalogExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func snapshotOf(cat *Catalog) catalogSnapshot {
	snap := catalogSnapshot{
		IgnoredExtensions: append([]string(nil), cat.IgnoredExtensions...),
	}
	for id, entry := range cat.Entries {
		snap.Entries = append(snap.Entries, entryRecord{ID: id, Path: entry.Path, Tags: entry.Tags.Sorted()})
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].ID < snap.Entries[j].ID })

	for id, tag := range cat.Tags {
		snap.Tags = append(snap.Tags, tagRecord{ID: id, Names: append([]string(nil), tag.Names...), Implies: tag.Implies.Sorted()})
	}
	sort.Slice(snap.Tags, func(i, j int) bool { return snap.Tags[i].ID < snap.Tags[j].ID })

	for id, seq := range cat.Sequences {
		snap.Sequences = append(snap.Sequences, sequenceRecord{ID: id, Name: seq.Name, Entries: append([]EntryID(nil), seq.Entries...)})
	}
	sort.Slice(snap.Sequences, func(i, j int) bool { return snap.Sequences[i].ID < snap.Sequences[j].ID })

	for tag, app := range cat.TagApps {
		snap.TagApps = append(snap.TagApps, tagAppRecord{Tag: tag, App: app})
	}
	sort.Slice(snap.TagApps, func(i, j int) bool { return snap.TagApps[i].Tag < snap.TagApps[j].Tag })
	return snap
}

func (s catalogSnapshot) catalog() *Catalog {
	cat := NewCatalog(s.IgnoredExtensions...)
	for _, e := range s.Entries {
		cat.Entries[e.ID] = &Entry{Path: e.Path, Tags: NewTagSet(e.Tags...)}
	}
	for _, t := range s.Tags {
		cat.Tags[t.ID] = &Tag{Names: t.Names, Implies: NewTagSet(t.Implies...)}
	}
	for _, seq := range s.Sequences {
		cat.Sequences[seq.ID] = &Sequence{Name: seq.Name, Entries: seq.Entries}
	}
	for _, app := range s.TagApps {
		cat.TagApps[app.Tag] = app.App
	}
	return cat
}
