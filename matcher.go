package tagcatalog

import (
	"fmt"
	"sort"
	"strings"
)

// Matches reports whether entry satisfies every top-level requirement.
func Matches(entry *Entry, id EntryID, reqs Requirements, tags map[TagID]*Tag, seqs map[SequenceID]*Sequence) bool {
	for _, req := range reqs {
		if !matchOne(entry, id, req, tags, seqs) {
			return false
		}
	}
	return true
}

func matchOne(entry *Entry, id EntryID, req Requirement, tags map[TagID]*Tag, seqs map[SequenceID]*Sequence) bool {
	switch req := req.(type) {
	case Any:
		for _, r := range req.Reqs {
			if matchOne(entry, id, r, tags, seqs) {
				return true
			}
		}
		return false
	case All:
		for _, r := range req.Reqs {
			if !matchOne(entry, id, r, tags, seqs) {
				return false
			}
		}
		return true
	case None:
		for _, r := range req.Reqs {
			if matchOne(entry, id, r, tags, seqs) {
				return false
			}
		}
		return true
	case HasTag:
		for tag := range entry.Tags {
			if Satisfies(tag, req.ID, tags) {
				return true
			}
		}
		return false
	case HasTagExact:
		return entry.Tags.Has(req.ID)
	case Not:
		return !matchOne(entry, id, req.Req, tags, seqs)
	case FilenameSub:
		return strings.Contains(strings.ToLower(entry.Path), req.Sub)
	case PartOfSeq:
		for _, seq := range seqs {
			for _, member := range seq.Entries {
				if member == id {
					return true
				}
			}
		}
		return false
	case NTags:
		return len(entry.Tags) == req.N
	}
	panic(fmt.Sprintf("unhandled requirement %T", req))
}

// FilterEntries returns the ids of matching entries ordered by path.
func FilterEntries(cat *Catalog, reqs Requirements) []EntryID {
	var ids []EntryID
	for id, entry := range cat.Entries {
		if Matches(entry, id, reqs, cat.Tags, cat.Sequences) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return cat.Entries[ids[i]].Path < cat.Entries[ids[j]].Path
	})
	return ids
}

// FindNext returns the position of the first matching entry after from in
// order. Ids missing from the catalog never match.
func FindNext(cat *Catalog, order []EntryID, from int, reqs Requirements) (int, bool) {
	for i := max(from+1, 0); i < len(order); i++ {
		if cat.matchesID(order[i], reqs) {
			return i, true
		}
	}
	return -1, false
}

// FindPrev returns the position of the last matching entry before from.
func FindPrev(cat *Catalog, order []EntryID, from int, reqs Requirements) (int, bool) {
	if from > len(order) {
		from = len(order)
	}
	for i := from - 1; i >= 0; i-- {
		if cat.matchesID(order[i], reqs) {
			return i, true
		}
	}
	return -1, false
}

func (c *Catalog) matchesID(id EntryID, reqs Requirements) bool {
	entry, ok := c.Entries[id]
	return ok && Matches(entry, id, reqs, c.Tags, c.Sequences)
}
