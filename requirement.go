package tagcatalog

import (
	"fmt"
	"strings"
)

// Requirement is one node of a filter expression. The set of node kinds is
// closed; Matches switches over all of them.
type Requirement interface {
	requirement()
}

// Any holds when at least one child holds.
type Any struct{ Reqs []Requirement }

// All holds when every child holds.
type All struct{ Reqs []Requirement }

// None holds when no child holds.
type None struct{ Reqs []Requirement }

// HasTag holds when the entry has the tag or a tag implying it.
type HasTag struct{ ID TagID }

// HasTagExact holds when the entry has exactly this tag.
type HasTagExact struct{ ID TagID }

type Not struct{ Req Requirement }

// FilenameSub holds when the lowercased entry path contains Sub.
type FilenameSub struct{ Sub string }

// PartOfSeq holds when the entry belongs to at least one sequence.
type PartOfSeq struct{}

// NTags holds when the entry has exactly N tags.
type NTags struct{ N int }

func (Any) requirement()         {}
func (All) requirement()         {}
func (None) requirement()        {}
func (HasTag) requirement()      {}
func (HasTagExact) requirement() {}
func (Not) requirement()         {}
func (FilenameSub) requirement() {}
func (PartOfSeq) requirement()   {}
func (NTags) requirement()       {}

// Requirements is a top-level filter; every element must hold.
type Requirements []Requirement

// HasTag reports whether the top level requires tag.
func (r Requirements) HasTag(tag TagID) bool {
	return r.index(HasTag{ID: tag}) >= 0
}

// HasNotTag reports whether the top level forbids tag.
func (r Requirements) HasNotTag(tag TagID) bool {
	return r.index(Not{Req: HasTag{ID: tag}}) >= 0
}

// SetHasTag adds or removes a top-level "must have tag" requirement. Adding
// it clears a "must not have" requirement for the same tag.
func (r *Requirements) SetHasTag(tag TagID, on bool) {
	if on {
		r.remove(Not{Req: HasTag{ID: tag}})
		if !r.HasTag(tag) {
			*r = append(*r, HasTag{ID: tag})
		}
		return
	}
	r.remove(HasTag{ID: tag})
}

func (r *Requirements) ToggleHasTag(tag TagID) {
	r.SetHasTag(tag, !r.HasTag(tag))
}

// SetNotTag adds or removes a top-level "must not have tag" requirement.
// Adding it clears a "must have" requirement for the same tag.
func (r *Requirements) SetNotTag(tag TagID, on bool) {
	if on {
		r.remove(HasTag{ID: tag})
		if !r.HasNotTag(tag) {
			*r = append(*r, Not{Req: HasTag{ID: tag}})
		}
		return
	}
	r.remove(Not{Req: HasTag{ID: tag}})
}

func (r *Requirements) ToggleNotTag(tag TagID) {
	r.SetNotTag(tag, !r.HasNotTag(tag))
}

func (r Requirements) index(want Requirement) int {
	for i, req := range r {
		if sameTopLevel(req, want) {
			return i
		}
	}
	return -1
}

func (r *Requirements) remove(want Requirement) {
	kept := (*r)[:0]
	for _, req := range *r {
		if !sameTopLevel(req, want) {
			kept = append(kept, req)
		}
	}
	*r = kept
}

// sameTopLevel compares the tag toggles handled at the top level. Other node
// kinds never compare equal.
func sameTopLevel(a, b Requirement) bool {
	switch a := a.(type) {
	case HasTag:
		b, ok := b.(HasTag)
		return ok && a.ID == b.ID
	case Not:
		inner, ok := a.Req.(HasTag)
		if !ok {
			return false
		}
		b, ok := b.(Not)
		if !ok {
			return false
		}
		other, ok := b.Req.(HasTag)
		return ok && inner.ID == other.ID
	}
	return false
}

// Format renders the requirements back into query text that ParseQuery and
// ResolveRequirements accept.
func (r Requirements) Format(tags map[TagID]*Tag) string {
	return formatList(r, tags)
}

func formatList(reqs []Requirement, tags map[TagID]*Tag) string {
	parts := make([]string, 0, len(reqs))
	for _, req := range reqs {
		parts = append(parts, formatRequirement(req, tags))
	}
	return strings.Join(parts, " ")
}

func formatRequirement(req Requirement, tags map[TagID]*Tag) string {
	switch req := req.(type) {
	case Any:
		return "@any[" + formatList(req.Reqs, tags) + "]"
	case All:
		return "@all[" + formatList(req.Reqs, tags) + "]"
	case None:
		return "@none[" + formatList(req.Reqs, tags) + "]"
	case HasTag:
		return quoteWord(tagNameOrPlaceholder(req.ID, tags))
	case HasTagExact:
		return "$" + quoteWord(tagNameOrPlaceholder(req.ID, tags))
	case Not:
		return "!" + formatRequirement(req.Req, tags)
	case FilenameSub:
		return "@f[" + quoteWord(req.Sub) + "]"
	case PartOfSeq:
		return "@seq"
	case NTags:
		if req.N == 0 {
			return "@untagged"
		}
		return fmt.Sprintf("@ntags[%d]", req.N)
	}
	panic(fmt.Sprintf("unhandled requirement %T", req))
}

func tagNameOrPlaceholder(id TagID, tags map[TagID]*Tag) string {
	if tag, ok := tags[id]; ok && tag.Name() != "" {
		return tag.Name()
	}
	return fmt.Sprintf("<invalid tag %d>", id)
}
