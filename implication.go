package tagcatalog

// MaxImplicationDepth bounds the implication search. The graph is edited by
// hand and may contain cycles; chains longer than this are not followed.
const MaxImplicationDepth = 10

// Satisfies reports whether having tag counts as having required, either
// directly or through the tags it implies.
func Satisfies(tag, required TagID, tags map[TagID]*Tag) bool {
	return satisfies(tag, required, tags, 0)
}

func satisfies(tag, required TagID, tags map[TagID]*Tag, depth int) bool {
	if tag == required {
		return true
	}
	if depth >= MaxImplicationDepth {
		return false
	}
	t, ok := tags[tag]
	if !ok {
		return false
	}
	for implied := range t.Implies {
		if satisfies(implied, required, tags, depth+1) {
			return true
		}
	}
	return false
}
