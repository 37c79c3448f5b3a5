package tagcatalog

import "sort"

type EntryID uint32

type TagID uint32

type SequenceID uint32

// CollectionID identifies a registered collection root in the global state.
type CollectionID string

type TagSet map[TagID]struct{}

func NewTagSet(ids ...TagID) TagSet {
	set := make(TagSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s TagSet) Has(id TagID) bool {
	_, ok := s[id]
	return ok
}

func (s TagSet) Sorted() []TagID {
	ids := make([]TagID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Entry struct {
	Path string
	Tags TagSet
}

type Tag struct {
	Names   []string
	Implies TagSet
}

// Name returns the display name of the tag.
func (t *Tag) Name() string {
	if len(t.Names) == 0 {
		return ""
	}
	return t.Names[0]
}

type Sequence struct {
	Name    string
	Entries []EntryID
}

type ChangeSet struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

func (c ChangeSet) Empty() bool {
	return len(c.Add) == 0 && len(c.Remove) == 0
}

type EntryInfo struct {
	ID   EntryID  `json:"id"`
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}

type TagInfo struct {
	ID      TagID    `json:"id"`
	Names   []string `json:"names"`
	Implies []string `json:"implies,omitempty"`
	Count   int      `json:"count"`
	App     string   `json:"app,omitempty"`
}

type SequenceInfo struct {
	ID      SequenceID `json:"id"`
	Name    string     `json:"name"`
	Entries []string   `json:"entries"`
}

type CollectionInfo struct {
	ID     CollectionID `json:"id"`
	Root   string       `json:"root"`
	Recent bool         `json:"recent"`
}

type ApplyResult struct {
	Added   map[string]EntryID `json:"added"`
	Removed []string           `json:"removed"`
}

type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
