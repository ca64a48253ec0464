package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage/memstore"
	"github.com/Makepad-fr/tada/internal/store"
)

type unknownEvent struct{}

func (unknownEvent) Kind() string { return "unknown" }

func TestDispatchSequence(t *testing.T) {
	s := store.New(memstore.New(), nil, store.Options{})
	require.NoError(t, s.Load())
	d := NewDispatcher(s, nil)

	require.NoError(t, d.Dispatch(Submit{Name: "Buy milk"}))
	require.NoError(t, d.Dispatch(Submit{Name: "Walk dog"}))
	items := s.Items()
	require.Len(t, items, 2)
	milk, dog := items[0], items[1]

	require.NoError(t, d.Dispatch(BeginEdit{ID: dog.ID}))
	require.NoError(t, d.Dispatch(CommitEdit{Text: "Walk the dog"}))
	require.NoError(t, d.Dispatch(Check{ID: milk.ID, Completed: true}))
	require.NoError(t, d.Dispatch(Toggle{ID: dog.ID}))
	require.NoError(t, d.Dispatch(Toggle{ID: dog.ID}))
	require.NoError(t, d.Dispatch(SelectFilter{Filter: model.FilterIncompleted}))

	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Walk the dog", visible[0].Name)

	require.NoError(t, d.Dispatch(BeginEdit{ID: dog.ID}))
	require.NoError(t, d.Dispatch(CancelEdit{}))
	assert.Empty(t, s.Editing())

	require.NoError(t, d.Dispatch(Remove{ID: dog.ID}))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, d.Dispatch(ClearAll{}))
	assert.Equal(t, 0, s.Len())
}

func TestDispatchErrors(t *testing.T) {
	s := store.New(memstore.New(), nil, store.Options{})
	d := NewDispatcher(s, nil)

	assert.ErrorIs(t, d.Dispatch(Submit{Name: " "}), store.ErrEmptyName)
	assert.ErrorIs(t, d.Dispatch(Toggle{ID: "x"}), store.ErrItemNotFound)
	assert.ErrorIs(t, d.Dispatch(SelectFilter{Filter: "x"}), model.ErrUnknownFilter)
	assert.ErrorContains(t, d.Dispatch(unknownEvent{}), "unhandled event")
	assert.Same(t, s, d.Store())
}
