package tagcatalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tagcatalog "github.com/thrawn01/tag-catalog"
)

type matchFixture struct {
	cat     *tagcatalog.Catalog
	entries map[string]tagcatalog.EntryID
}

// newMatchFixture builds:
//
//	a/kitty.JPG  cat
//	b/rex.png    dog, animal
//	c/stone.txt  (untagged, in sequence "walk")
//	d/tom.jpg    cat, dog
func newMatchFixture(t *testing.T) matchFixture {
	cat, uid := newTestCatalog()
	catTag := mustTag(t, cat, uid, "cat")
	dog := mustTag(t, cat, uid, "dog")
	animal := mustTag(t, cat, uid, "animal")
	require.NoError(t, cat.AddImplication(catTag, animal))
	require.NoError(t, cat.AddImplication(dog, animal))

	f := matchFixture{cat: cat, entries: map[string]tagcatalog.EntryID{}}
	for _, p := range []string{"a/kitty.JPG", "b/rex.png", "c/stone.txt", "d/tom.jpg"} {
		f.entries[p] = cat.InsertEntry(uid, p)
	}
	cat.AddTagToEntries(catTag, []tagcatalog.EntryID{f.entries["a/kitty.JPG"], f.entries["d/tom.jpg"]})
	cat.AddTagToEntries(dog, []tagcatalog.EntryID{f.entries["b/rex.png"], f.entries["d/tom.jpg"]})
	cat.AddTagToEntries(animal, []tagcatalog.EntryID{f.entries["b/rex.png"]})

	seq := cat.CreateSequence(uid, "walk")
	require.NoError(t, cat.AddToSequence(seq, []tagcatalog.EntryID{f.entries["c/stone.txt"]}))
	return f
}

func (f matchFixture) paths(ids []tagcatalog.EntryID) []string {
	paths := []string{}
	for _, id := range ids {
		paths = append(paths, f.cat.Entries[id].Path)
	}
	return paths
}

func TestFilterEntries(t *testing.T) {
	f := newMatchFixture(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "Empty", query: "", expected: []string{"a/kitty.JPG", "b/rex.png", "c/stone.txt", "d/tom.jpg"}},
		{name: "Tag", query: "cat", expected: []string{"a/kitty.JPG", "d/tom.jpg"}},
		{name: "ImpliedTag", query: "animal", expected: []string{"a/kitty.JPG", "b/rex.png", "d/tom.jpg"}},
		{name: "ExactTag", query: "$animal", expected: []string{"b/rex.png"}},
		{name: "Conjunction", query: "cat dog", expected: []string{"d/tom.jpg"}},
		{name: "Negation", query: "animal !cat", expected: []string{"b/rex.png"}},
		{name: "DoubleNegation", query: "!!cat", expected: []string{"a/kitty.JPG", "d/tom.jpg"}},
		{name: "Any", query: "@any[$cat $animal]", expected: []string{"a/kitty.JPG", "b/rex.png", "d/tom.jpg"}},
		{name: "AnyEmpty", query: "@any[]", expected: []string{}},
		{name: "AllEmpty", query: "@all[]", expected: []string{"a/kitty.JPG", "b/rex.png", "c/stone.txt", "d/tom.jpg"}},
		{name: "None", query: "@none[cat dog]", expected: []string{"c/stone.txt"}},
		{name: "FilenameCaseInsensitive", query: "@f[.jpg]", expected: []string{"a/kitty.JPG", "d/tom.jpg"}},
		{name: "FilenameMatchesDirectory", query: "@f[b/]", expected: []string{"b/rex.png"}},
		{name: "Sequence", query: "@seq", expected: []string{"c/stone.txt"}},
		{name: "Untagged", query: "@untagged", expected: []string{"c/stone.txt"}},
		{name: "NTags", query: "@ntags[2]", expected: []string{"b/rex.png", "d/tom.jpg"}},
		{name: "NTagsCountsDirectOnly", query: "@ntags[1]", expected: []string{"a/kitty.JPG"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reqs, err := tagcatalog.ParseRequirements(test.query, f.cat.Tags)
			require.NoError(t, err)
			assert.Equal(t, test.expected, f.paths(tagcatalog.FilterEntries(f.cat, reqs)))
		})
	}
}

func TestMatchesLooseVersusExact(t *testing.T) {
	cat, uid := newTestCatalog()
	catTag := mustTag(t, cat, uid, "cat")
	animal := mustTag(t, cat, uid, "animal")
	require.NoError(t, cat.AddImplication(catTag, animal))
	id := cat.InsertEntry(uid, "kitty.jpg")
	cat.AddTagToEntries(catTag, []tagcatalog.EntryID{id})
	entry := cat.Entries[id]

	loose := tagcatalog.Requirements{tagcatalog.HasTag{ID: animal}}
	exact := tagcatalog.Requirements{tagcatalog.HasTagExact{ID: animal}}
	assert.True(t, tagcatalog.Matches(entry, id, loose, cat.Tags, cat.Sequences))
	assert.False(t, tagcatalog.Matches(entry, id, exact, cat.Tags, cat.Sequences))
	assert.True(t, tagcatalog.Matches(entry, id, nil, cat.Tags, cat.Sequences))
}

func TestFindNextAndPrev(t *testing.T) {
	f := newMatchFixture(t)
	order := []tagcatalog.EntryID{
		f.entries["a/kitty.JPG"],
		f.entries["b/rex.png"],
		tagcatalog.EntryID(999),
		f.entries["c/stone.txt"],
		f.entries["d/tom.jpg"],
	}
	reqs, err := tagcatalog.ParseRequirements("animal", f.cat.Tags)
	require.NoError(t, err)

	idx, ok := tagcatalog.FindNext(f.cat, order, 0, reqs)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = tagcatalog.FindNext(f.cat, order, 1, reqs)
	require.True(t, ok)
	assert.Equal(t, 4, idx)

	_, ok = tagcatalog.FindNext(f.cat, order, 4, reqs)
	assert.False(t, ok)

	idx, ok = tagcatalog.FindNext(f.cat, order, -1, reqs)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = tagcatalog.FindNext(f.cat, order, -5, reqs)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = tagcatalog.FindPrev(f.cat, order, 4, reqs)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = tagcatalog.FindPrev(f.cat, order, 0, reqs)
	assert.False(t, ok)

	idx, ok = tagcatalog.FindPrev(f.cat, order, len(order)+3, reqs)
	require.True(t, ok)
	assert.Equal(t, 4, idx)
}
