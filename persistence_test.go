package tagcatalog_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tagcatalog "github.com/thrawn01/tag-catalog"
)

func TestSaveLoadCatalog(t *testing.T) {
	cat, uid := newTestCatalog()
	cat.AddIgnoredExtension("tmp")
	catTag := mustTag(t, cat, uid, "cat")
	animal := mustTag(t, cat, uid, "animal")
	require.NoError(t, cat.AddImplication(catTag, animal))
	require.NoError(t, cat.AddTagName(catTag, "kitty"))
	require.NoError(t, cat.SetTagApp(animal, "feh"))
	a := cat.InsertEntry(uid, "a/one.jpg")
	b := cat.InsertEntry(uid, "two.jpg")
	cat.AddTagToEntries(catTag, []tagcatalog.EntryID{a})
	seq := cat.CreateSequence(uid, "trip")
	require.NoError(t, cat.AddToSequence(seq, []tagcatalog.EntryID{b, a}))

	path := filepath.Join(t.TempDir(), "nested", "c"+tagcatalog.CatalogFileSuffix)
	exists, err := tagcatalog.CatalogExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tagcatalog.SaveCatalog(path, cat))
	exists, err = tagcatalog.CatalogExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := tagcatalog.LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, cat, loaded)

	matches, err := filepath.Glob(path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files must be renamed into place")
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := tagcatalog.LoadCatalog(filepath.Join(dir, "missing.catalog"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.catalog")
	require.NoError(t, os.WriteFile(garbage, []byte("not a catalog"), tagcatalog.DefaultFilePermissions))
	_, err = tagcatalog.LoadCatalog(garbage)
	assert.Error(t, err)
}

func TestGlobalStateTouch(t *testing.T) {
	state := tagcatalog.NewGlobalState()
	for _, id := range []tagcatalog.CollectionID{"a", "b", "c", "a", "d"} {
		state.Touch(id, 3)
	}
	assert.Equal(t, []tagcatalog.CollectionID{"c", "a", "d"}, state.Recent)
}

func TestGlobalStateRegisterAndFind(t *testing.T) {
	state := tagcatalog.NewGlobalState()
	root := t.TempDir()

	id := state.Register(root)
	assert.Len(t, string(id), 36)
	assert.Equal(t, id, state.Register(root))

	found, ok := state.Find(string(id))
	require.True(t, ok)
	assert.Equal(t, id, found)

	found, ok = state.Find(root)
	require.True(t, ok)
	assert.Equal(t, id, found)

	found, ok = state.Find(string(id)[:8])
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = state.Find("zz")
	assert.False(t, ok)

	_, ok = state.MostRecent()
	assert.False(t, ok)
	state.Touch(id, 5)
	recent, ok := state.MostRecent()
	require.True(t, ok)
	assert.Equal(t, id, recent)

	state.Forget(id)
	_, ok = state.MostRecent()
	assert.False(t, ok)
	assert.Empty(t, state.CollectionInfos())
}

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	store := tagcatalog.NewStateStore(filepath.Join(t.TempDir(), "data"))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Collections)
	assert.Zero(t, state.Uid.Next)

	_, err = store.Update(ctx, func(s *tagcatalog.GlobalState) error {
		s.Uid.Next = 12
		id := s.Register("/photos")
		s.Touch(id, 5)
		return nil
	})
	require.NoError(t, err)
	assert.FileExists(t, store.Path())

	state, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), state.Uid.Next)
	require.Len(t, state.CollectionInfos(), 1)
	info := state.CollectionInfos()[0]
	assert.Equal(t, "/photos", info.Root)
	assert.True(t, info.Recent)
}

func TestStateStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store := tagcatalog.NewStateStore(dir)
			_, err := store.Update(ctx, func(s *tagcatalog.GlobalState) error {
				s.Uid.NextEntry()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := tagcatalog.NewStateStore(dir).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), state.Uid.Next)
}
