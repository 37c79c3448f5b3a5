package tagcatalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tagcatalog "github.com/thrawn01/tag-catalog"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []tagcatalog.Expr
	}{
		{
			name:     "Empty",
			query:    "   ",
			expected: nil,
		},
		{
			name:  "Words",
			query: "cat  dog",
			expected: []tagcatalog.Expr{
				tagcatalog.Word{Text: "cat"},
				tagcatalog.Word{Text: "dog"},
			},
		},
		{
			name:  "NegationAndExact",
			query: "!cat $dog !!bird",
			expected: []tagcatalog.Expr{
				tagcatalog.Negation{Inner: tagcatalog.Word{Text: "cat"}},
				tagcatalog.ExactWord{Text: "dog"},
				tagcatalog.Negation{Inner: tagcatalog.Negation{Inner: tagcatalog.Word{Text: "bird"}}},
			},
		},
		{
			name:  "CallWithParams",
			query: `@any[cat !dog] @f[".jpg"] @seq`,
			expected: []tagcatalog.Expr{
				tagcatalog.Call{Name: "any", Params: []tagcatalog.Expr{
					tagcatalog.Word{Text: "cat"},
					tagcatalog.Negation{Inner: tagcatalog.Word{Text: "dog"}},
				}},
				tagcatalog.Call{Name: "f", Params: []tagcatalog.Expr{tagcatalog.Word{Text: ".jpg", Quoted: true}}},
				tagcatalog.Call{Name: "seq"},
			},
		},
		{
			name:  "QuotedEscapes",
			query: `"big \"red\" dog"`,
			expected: []tagcatalog.Expr{
				tagcatalog.Word{Text: `big "red" dog`, Quoted: true},
			},
		},
		{
			name:  "NestedCalls",
			query: "@none[@all[a b] c]",
			expected: []tagcatalog.Expr{
				tagcatalog.Call{Name: "none", Params: []tagcatalog.Expr{
					tagcatalog.Call{Name: "all", Params: []tagcatalog.Expr{
						tagcatalog.Word{Text: "a"},
						tagcatalog.Word{Text: "b"},
					}},
					tagcatalog.Word{Text: "c"},
				}},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			exprs, err := tagcatalog.ParseQuery(test.query)
			require.NoError(t, err)
			assert.Equal(t, test.expected, exprs)
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, query := range []string{
		"@any[cat",
		"cat]",
		`"unterminated`,
		"!",
		"$",
		"[cat]",
		`"trailing\`,
	} {
		t.Run(query, func(t *testing.T) {
			_, err := tagcatalog.ParseQuery(query)
			require.Error(t, err)
			assert.ErrorIs(t, err, tagcatalog.ErrParse)

			var parseErr *tagcatalog.ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

// queryFixture has tags cat -> animal and dog.
func queryFixture(t *testing.T) (*tagcatalog.Catalog, map[string]tagcatalog.TagID) {
	cat, uid := newTestCatalog()
	ids := map[string]tagcatalog.TagID{
		"cat":    mustTag(t, cat, uid, "cat"),
		"animal": mustTag(t, cat, uid, "animal"),
		"dog":    mustTag(t, cat, uid, "dog"),
	}
	require.NoError(t, cat.AddImplication(ids["cat"], ids["animal"]))
	require.NoError(t, cat.AddTagName(ids["dog"], "hound"))
	return cat, ids
}

func TestParseRequirements(t *testing.T) {
	cat, ids := queryFixture(t)

	tests := []struct {
		name     string
		query    string
		expected tagcatalog.Requirements
	}{
		{
			name:     "Tag",
			query:    "cat",
			expected: tagcatalog.Requirements{tagcatalog.HasTag{ID: ids["cat"]}},
		},
		{
			name:     "Alias",
			query:    "hound",
			expected: tagcatalog.Requirements{tagcatalog.HasTag{ID: ids["dog"]}},
		},
		{
			name:  "ExactAndNot",
			query: "$animal !dog",
			expected: tagcatalog.Requirements{
				tagcatalog.HasTagExact{ID: ids["animal"]},
				tagcatalog.Not{Req: tagcatalog.HasTag{ID: ids["dog"]}},
			},
		},
		{
			name:  "Groups",
			query: "@any[cat dog] @all[animal] @none[]",
			expected: tagcatalog.Requirements{
				tagcatalog.Any{Reqs: []tagcatalog.Requirement{tagcatalog.HasTag{ID: ids["cat"]}, tagcatalog.HasTag{ID: ids["dog"]}}},
				tagcatalog.All{Reqs: []tagcatalog.Requirement{tagcatalog.HasTag{ID: ids["animal"]}}},
				tagcatalog.None{Reqs: []tagcatalog.Requirement{}},
			},
		},
		{
			name:     "FilenameIsLowercased",
			query:    "@filename[.JPG]",
			expected: tagcatalog.Requirements{tagcatalog.FilenameSub{Sub: ".jpg"}},
		},
		{
			name:     "FilenameAliases",
			query:    "@file[a] @fname[b] @f[c]",
			expected: tagcatalog.Requirements{tagcatalog.FilenameSub{Sub: "a"}, tagcatalog.FilenameSub{Sub: "b"}, tagcatalog.FilenameSub{Sub: "c"}},
		},
		{
			name:     "Sequence",
			query:    "@seq @sequence",
			expected: tagcatalog.Requirements{tagcatalog.PartOfSeq{}, tagcatalog.PartOfSeq{}},
		},
		{
			name:     "Untagged",
			query:    "@untagged @notag @no-tag",
			expected: tagcatalog.Requirements{tagcatalog.NTags{N: 0}, tagcatalog.NTags{N: 0}, tagcatalog.NTags{N: 0}},
		},
		{
			name:     "NTags",
			query:    "@ntags[3]",
			expected: tagcatalog.Requirements{tagcatalog.NTags{N: 3}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reqs, err := tagcatalog.ParseRequirements(test.query, cat.Tags)
			require.NoError(t, err)
			assert.Equal(t, test.expected, reqs)
		})
	}
}

func TestParseRequirementsErrors(t *testing.T) {
	cat, _ := queryFixture(t)

	t.Run("UnknownFunction", func(t *testing.T) {
		_, err := tagcatalog.ParseRequirements("@bogus[]", cat.Tags)
		require.ErrorIs(t, err, tagcatalog.ErrUnknownFn)
		var fnErr *tagcatalog.UnknownFnError
		require.True(t, errors.As(err, &fnErr))
		assert.Equal(t, "bogus", fnErr.Name)
	})

	t.Run("NoSuchTag", func(t *testing.T) {
		_, err := tagcatalog.ParseRequirements("cat unicorn", cat.Tags)
		require.ErrorIs(t, err, tagcatalog.ErrNoSuchTag)
		var tagErr *tagcatalog.NoSuchTagError
		require.True(t, errors.As(err, &tagErr))
		assert.Equal(t, "unicorn", tagErr.Name)
	})

	t.Run("NoSuchTagNested", func(t *testing.T) {
		_, err := tagcatalog.ParseRequirements("@any[cat !unicorn]", cat.Tags)
		assert.ErrorIs(t, err, tagcatalog.ErrNoSuchTag)
	})

	t.Run("MissingParameter", func(t *testing.T) {
		for _, query := range []string{"@f", "@f[]", "@ntags"} {
			_, err := tagcatalog.ParseRequirements(query, cat.Tags)
			assert.ErrorIs(t, err, tagcatalog.ErrMissingParameter, query)
		}
	})

	t.Run("InvalidParameter", func(t *testing.T) {
		for _, query := range []string{"@ntags[notanumber]", "@ntags[-1]", "@f[a b]", "@f[!a]"} {
			_, err := tagcatalog.ParseRequirements(query, cat.Tags)
			assert.ErrorIs(t, err, tagcatalog.ErrInvalidParameter, query)
		}
	})

	t.Run("ParseErrorFirst", func(t *testing.T) {
		_, err := tagcatalog.ParseRequirements("@any[cat", cat.Tags)
		assert.ErrorIs(t, err, tagcatalog.ErrParse)
	})
}

func TestRequirementsFormatRoundTrip(t *testing.T) {
	cat, uid := newTestCatalog()
	mustTag(t, cat, uid, "cat")
	mustTag(t, cat, uid, "dog")
	mustTag(t, cat, uid, "big dog")
	mustTag(t, cat, uid, "!weird")

	for _, query := range []string{
		"cat !dog",
		"$cat",
		`"big dog" "!weird"`,
		"@any[cat @all[dog !cat]] @none[dog]",
		`@f[".jpg"] @seq @untagged @ntags[2]`,
		`@f["with space"]`,
		"!!cat",
	} {
		t.Run(query, func(t *testing.T) {
			reqs, err := tagcatalog.ParseRequirements(query, cat.Tags)
			require.NoError(t, err)

			formatted := reqs.Format(cat.Tags)
			again, err := tagcatalog.ParseRequirements(formatted, cat.Tags)
			require.NoError(t, err, formatted)
			assert.Equal(t, reqs, again)
		})
	}
}

func TestRequirementsFormatDanglingTag(t *testing.T) {
	reqs := tagcatalog.Requirements{tagcatalog.HasTag{ID: 42}}
	formatted := reqs.Format(map[tagcatalog.TagID]*tagcatalog.Tag{})
	assert.Equal(t, `"<invalid tag 42>"`, formatted)
}

func TestRequirementsToggles(t *testing.T) {
	var reqs tagcatalog.Requirements
	const tag = tagcatalog.TagID(7)

	reqs.SetHasTag(tag, true)
	assert.True(t, reqs.HasTag(tag))
	assert.False(t, reqs.HasNotTag(tag))

	reqs.SetHasTag(tag, true)
	assert.Len(t, reqs, 1)

	reqs.SetNotTag(tag, true)
	assert.False(t, reqs.HasTag(tag))
	assert.True(t, reqs.HasNotTag(tag))
	assert.Len(t, reqs, 1)

	reqs.ToggleHasTag(tag)
	assert.True(t, reqs.HasTag(tag))
	assert.False(t, reqs.HasNotTag(tag))

	reqs.ToggleHasTag(tag)
	assert.False(t, reqs.HasTag(tag))
	assert.Empty(t, reqs)

	reqs.ToggleNotTag(tag)
	assert.True(t, reqs.HasNotTag(tag))
	reqs.ToggleNotTag(tag)
	assert.False(t, reqs.HasNotTag(tag))

	t.Run("NestedNodesUntouched", func(t *testing.T) {
		reqs := tagcatalog.Requirements{
			tagcatalog.Any{Reqs: []tagcatalog.Requirement{tagcatalog.HasTag{ID: tag}}},
		}
		assert.False(t, reqs.HasTag(tag))
		reqs.SetHasTag(tag, true)
		reqs.SetHasTag(tag, false)
		assert.Len(t, reqs, 1)
	})
}
