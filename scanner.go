package tagcatalog

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
)

type Scanner interface {
	WalkFiles(rootPath string, ignoredExtensions []string) iter.Seq2[string, error]
	ScanChanges(cat *Catalog, rootPath string) (ChangeSet, error)
}

type FilesystemScanner struct {
	log Logger
}

func NewFilesystemScanner(log Logger) *FilesystemScanner {
	if log == nil {
		log = NopLogger()
	}
	return &FilesystemScanner{log: log}
}

// WalkFiles yields the slash-separated path, relative to rootPath, of every
// file below rootPath in lexical order per directory. Directories and files
// with an ignored extension are skipped. Problems with individual entries are
// yielded as errors and the walk continues.
func (s *FilesystemScanner) WalkFiles(rootPath string, ignoredExtensions []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		realRoot, err := filepath.EvalSymlinks(rootPath)
		if err != nil {
			yield("", err)
			return
		}

		stopped := errors.New("walk stopped by consumer")
		err = filepath.WalkDir(realRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == realRoot {
					return err
				}
				if !yield("", fmt.Errorf("reading %s: %w", path, err)) {
					return stopped
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if extensionListed(filepath.Ext(d.Name()), ignoredExtensions) {
				return nil
			}

			if d.Type()&fs.ModeSymlink != 0 {
				skip, err := s.skipSymlink(realRoot, path)
				if err != nil {
					if !yield("", err) {
						return stopped
					}
					return nil
				}
				if skip {
					return nil
				}
			}

			rel, err := filepath.Rel(realRoot, path)
			if err != nil || !isLocalPath(filepath.ToSlash(rel)) {
				if !yield("", fmt.Errorf("cannot relativize %s against %s", path, realRoot)) {
					return stopped
				}
				return nil
			}
			if !yield(filepath.ToSlash(rel), nil) {
				return stopped
			}
			return nil
		})
		if err != nil && !errors.Is(err, stopped) {
			yield("", err)
		}
	}
}

// skipSymlink reports whether a symlink should be left out of the walk: links
// to directories are skipped silently, links leaving the root are errors.
func (s *FilesystemScanner) skipSymlink(realRoot, path string) (bool, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return true, fmt.Errorf("resolving link %s: %w", path, err)
	}
	rel, err := filepath.Rel(realRoot, target)
	if err != nil || !isLocalPath(filepath.ToSlash(rel)) {
		return true, fmt.Errorf("cannot relativize %s against %s: link leaves the collection", path, realRoot)
	}
	info, err := os.Stat(target)
	if err != nil {
		return true, fmt.Errorf("reading link target of %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// ScanChanges compares the catalog against the files below rootPath. Paths
// with no entry are reported for addition, entries without a file are
// reported for removal. The catalog is not modified.
func (s *FilesystemScanner) ScanChanges(cat *Catalog, rootPath string) (ChangeSet, error) {
	changes := ChangeSet{Add: []string{}, Remove: []string{}}

	if _, err := os.ReadDir(rootPath); err != nil {
		return changes, fmt.Errorf("reading collection root: %w", err)
	}

	known := make(map[string]bool, len(cat.Entries))
	for _, entry := range cat.Entries {
		known[entry.Path] = true
	}

	for rel, err := range s.WalkFiles(rootPath, cat.IgnoredExtensions) {
		if err != nil {
			s.log.Warn("skipping entry during scan", "root", rootPath, "error", err)
			continue
		}
		if !known[rel] {
			changes.Add = append(changes.Add, rel)
		}
	}

	for _, entry := range cat.Entries {
		info, err := os.Stat(filepath.Join(rootPath, filepath.FromSlash(entry.Path)))
		switch {
		case err == nil && !info.IsDir():
			continue
		case err == nil, errors.Is(err, fs.ErrNotExist):
			changes.Remove = append(changes.Remove, entry.Path)
		default:
			s.log.Warn("cannot check entry", "path", entry.Path, "error", err)
		}
	}
	sort.Strings(changes.Remove)

	s.log.Debug("scan finished", "root", rootPath, "add", len(changes.Add), "remove", len(changes.Remove))
	return changes, nil
}
