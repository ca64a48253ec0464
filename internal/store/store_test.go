package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage/memstore"
)

type recordingView struct {
	frames []Frame
	alerts []string
}

func (v *recordingView) Render(f Frame)   { v.frames = append(v.frames, f) }
func (v *recordingView) Alert(msg string) { v.alerts = append(v.alerts, msg) }

func (v *recordingView) last() Frame {
	if len(v.frames) == 0 {
		return Frame{}
	}
	return v.frames[len(v.frames)-1]
}

// clock returns ids one millisecond apart.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestStore(t *testing.T) (*ItemStore, *recordingView, *memstore.Store) {
	t.Helper()
	kv := memstore.New()
	v := &recordingView{}
	c := &clock{t: time.UnixMilli(1700000000000)}
	s := New(kv, v, Options{IDs: model.TimestampIDs{Now: c.now}})
	require.NoError(t, s.Load())
	return s, v, kv
}

func stored(t *testing.T, kv *memstore.Store) []model.Item {
	t.Helper()
	raw, ok, err := kv.Get(model.StorageKey)
	require.NoError(t, err)
	require.True(t, ok, "snapshot present")
	items, err := model.DecodeSnapshot(raw)
	require.NoError(t, err)
	return items
}

func TestAddBlankNameIsRejected(t *testing.T) {
	s, v, kv := newTestStore(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(name)
		assert.ErrorIs(t, err, ErrEmptyName)
	}

	assert.Equal(t, 0, s.Len())
	assert.Len(t, v.alerts, 3)
	_, ok, _ := kv.Get(model.StorageKey)
	assert.False(t, ok, "nothing persisted")
}

func TestAddPersistsAndReloads(t *testing.T) {
	s, _, kv := newTestStore(t)

	added, err := s.Add("  Buy milk ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", added.Name)
	assert.False(t, added.Completed)
	assert.NotEmpty(t, added.ID)

	reloaded := New(kv, nil, Options{})
	require.NoError(t, reloaded.Load())
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, added, items[0])
}

func TestAddAppendsWithUniqueIDs(t *testing.T) {
	kv := memstore.New()
	frozen := time.UnixMilli(1700000000000)
	s := New(kv, nil, Options{IDs: model.TimestampIDs{Now: func() time.Time { return frozen }}})
	require.NoError(t, s.Load())

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Add(name)
		require.NoError(t, err)
	}

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].Name, items[1].Name, items[2].Name})
	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
}

func TestToggleThenFilter(t *testing.T) {
	s, v, _ := newTestStore(t)
	milk, err := s.Add("Buy milk")
	require.NoError(t, err)
	bread, err := s.Add("Buy bread")
	require.NoError(t, err)

	require.NoError(t, s.ToggleCompleted(milk.ID))

	require.NoError(t, s.SetFilter(model.FilterCompleted))
	assert.Equal(t, []model.Item{{ID: milk.ID, Name: "Buy milk", Completed: true}}, s.Visible())
	visible := v.last().VisibleRows()
	require.Len(t, visible, 1)
	assert.Equal(t, milk.ID, visible[0].ID)

	require.NoError(t, s.SetFilter(model.FilterIncompleted))
	visible = v.last().VisibleRows()
	require.Len(t, visible, 1)
	assert.Equal(t, bread.ID, visible[0].ID)

	require.NoError(t, s.SetFilter(model.FilterAll))
	assert.Len(t, v.last().VisibleRows(), 2)
}

func TestActiveFilterIsReappliedOnAddAndToggle(t *testing.T) {
	s, v, _ := newTestStore(t)
	require.NoError(t, s.SetFilter(model.FilterCompleted))

	it, err := s.Add("hidden until done")
	require.NoError(t, err)
	assert.Empty(t, v.last().VisibleRows())
	assert.False(t, v.last().Empty)

	require.NoError(t, s.ToggleCompleted(it.ID))
	assert.Len(t, v.last().VisibleRows(), 1)

	require.NoError(t, s.ToggleCompleted(it.ID))
	assert.Empty(t, v.last().VisibleRows())
}

func TestTogglePersists(t *testing.T) {
	s, _, kv := newTestStore(t)
	it, err := s.Add("x")
	require.NoError(t, err)

	require.NoError(t, s.ToggleCompleted(it.ID))
	assert.True(t, stored(t, kv)[0].Completed)

	require.NoError(t, s.SetCompleted(it.ID, false))
	assert.False(t, stored(t, kv)[0].Completed)
}

func TestRemoveOnlyItemShowsEmptyState(t *testing.T) {
	s, v, kv := newTestStore(t)
	it, err := s.Add("only")
	require.NoError(t, err)
	assert.False(t, v.last().Empty)
	assert.True(t, v.last().ShowControls)

	require.NoError(t, s.Remove(it.ID))
	assert.True(t, v.last().Empty)
	assert.False(t, v.last().ShowControls)
	assert.Empty(t, stored(t, kv))
}

func TestEditCompletedItemIsRejected(t *testing.T) {
	s, v, kv := newTestStore(t)
	it, err := s.Add("done already")
	require.NoError(t, err)
	require.NoError(t, s.ToggleCompleted(it.ID))

	assert.ErrorIs(t, s.BeginEdit(it.ID), ErrItemCompleted)
	assert.Empty(t, s.Editing())
	assert.Empty(t, v.last().Editing)

	assert.ErrorIs(t, s.Edit(it.ID, "renamed"), ErrItemCompleted)
	assert.Equal(t, "done already", stored(t, kv)[0].Name)
}

func TestEditIncompleteItemPersistsOnCommit(t *testing.T) {
	s, v, kv := newTestStore(t)
	it, err := s.Add("Buy milk")
	require.NoError(t, err)

	require.NoError(t, s.BeginEdit(it.ID))
	assert.Equal(t, it.ID, v.last().Editing)

	require.NoError(t, s.CommitEdit("Buy oat milk"))
	assert.Empty(t, s.Editing())
	assert.Equal(t, "Buy oat milk", stored(t, kv)[0].Name)

	require.NoError(t, s.Edit(it.ID, "Buy soy milk"))
	assert.Equal(t, "Buy soy milk", stored(t, kv)[0].Name)
}

func TestCommitBlankEditKeepsName(t *testing.T) {
	s, v, kv := newTestStore(t)
	it, err := s.Add("keep me")
	require.NoError(t, err)

	require.NoError(t, s.BeginEdit(it.ID))
	assert.ErrorIs(t, s.CommitEdit("  "), ErrEmptyName)
	assert.Empty(t, s.Editing())
	assert.Len(t, v.alerts, 1)
	assert.Equal(t, "keep me", stored(t, kv)[0].Name)
}

func TestCommitWithoutEdit(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.ErrorIs(t, s.CommitEdit("x"), ErrNoEdit)
}

func TestCancelEdit(t *testing.T) {
	s, _, kv := newTestStore(t)
	it, err := s.Add("stay")
	require.NoError(t, err)
	require.NoError(t, s.BeginEdit(it.ID))
	s.CancelEdit()
	assert.Empty(t, s.Editing())
	assert.Equal(t, "stay", stored(t, kv)[0].Name)
}

func TestCompletingEditedItemClosesEdit(t *testing.T) {
	s, _, _ := newTestStore(t)
	it, err := s.Add("x")
	require.NoError(t, err)
	require.NoError(t, s.BeginEdit(it.ID))
	require.NoError(t, s.ToggleCompleted(it.ID))
	assert.Empty(t, s.Editing())
}

func TestClearAll(t *testing.T) {
	s, v, kv := newTestStore(t)
	_, err := s.Add("a")
	require.NoError(t, err)
	_, err = s.Add("b")
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())
	assert.Equal(t, 0, s.Len())
	assert.True(t, v.last().Empty)
	_, ok, err := kv.Get(model.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "snapshot removed")

	reloaded := New(kv, nil, Options{})
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 0, reloaded.Len())
}

func TestUnknownID(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.ErrorIs(t, s.ToggleCompleted("nope"), ErrItemNotFound)
	assert.ErrorIs(t, s.Remove("nope"), ErrItemNotFound)
	assert.ErrorIs(t, s.BeginEdit("nope"), ErrItemNotFound)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSetFilterRejectsUnknown(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.ErrorIs(t, s.SetFilter("someday"), model.ErrUnknownFilter)
	assert.Equal(t, model.FilterAll, s.Filter())
}

func TestLoadMalformedSnapshotIsEmpty(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set(model.StorageKey, "{not json"))
	v := &recordingView{}

	s := New(kv, v, Options{})
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Len())
	assert.True(t, v.last().Empty)
	assert.Empty(t, v.alerts, "recovery is silent")
}

func TestLoadReplacesList(t *testing.T) {
	s, _, kv := newTestStore(t)
	_, err := s.Add("in memory only")
	require.NoError(t, err)
	require.NoError(t, kv.Set(model.StorageKey, `[{"id":"7","name":"from disk","completed":true}]`))

	require.NoError(t, s.Load())
	assert.Equal(t, []model.Item{{ID: "7", Name: "from disk", Completed: true}}, s.Items())
}

func TestLoadRekeysDuplicateIDs(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set(model.StorageKey,
		`[{"id":"1","name":"first","completed":false},{"id":"1","name":"second","completed":false},{"id":"","name":"third","completed":true}]`))
	v := &recordingView{}
	c := &clock{t: time.UnixMilli(1700000000000)}
	s := New(kv, v, Options{IDs: model.TimestampIDs{Now: c.now}})

	require.NoError(t, s.Load())
	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "1", items[0].ID, "first holder keeps its id")
	seen := map[string]bool{}
	for _, it := range items {
		assert.NotEmpty(t, it.ID)
		assert.False(t, seen[it.ID], "id %q reused", it.ID)
		seen[it.ID] = true
	}
	assert.Equal(t, items, stored(t, kv), "repaired list written back")

	require.NoError(t, s.SetCompleted(items[1].ID, true))
	require.NoError(t, s.Remove(items[1].ID))
	after := s.Items()
	require.Len(t, after, 2)
	assert.Equal(t, "first", after[0].Name)
	assert.False(t, after[0].Completed)
	assert.Equal(t, "third", after[1].Name)
}

type failingStorage struct{ err error }

func (f failingStorage) Get(string) (string, bool, error) { return "", false, f.err }
func (f failingStorage) Set(string, string) error         { return f.err }
func (f failingStorage) Remove(string) error              { return f.err }

func TestStorageFailuresPropagate(t *testing.T) {
	boom := errors.New("disk full")
	v := &recordingView{}
	s := New(failingStorage{err: boom}, v, Options{})

	assert.ErrorIs(t, s.Load(), boom)

	_, err := s.Add("x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Len(), "memory keeps the change")
	assert.Len(t, v.last().Rows, 1, "screen matches memory")

	assert.ErrorIs(t, s.ClearAll(), boom)
}

func TestFrameIndexes(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, n := range []string{"a", "b", "c"} {
		_, err := s.Add(n)
		require.NoError(t, err)
	}
	f := s.Frame()
	for i, r := range f.Rows {
		assert.Equal(t, i+1, r.Index)
	}
	assert.Len(t, f.Items(), 3)
}
