// Package store holds the ordered to-do list, projects it onto a View and
// writes a snapshot to key-value storage after every change.
//
// An ItemStore is not safe for concurrent use. All operations are expected
// to run on the one goroutine that handles UI events.
package store

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

var (
	ErrEmptyName     = errors.New("item name cannot be empty")
	ErrItemNotFound  = errors.New("item not found")
	ErrItemCompleted = errors.New("completed items cannot be edited")
	ErrNoEdit        = errors.New("no item is being edited")
)

// Storage is the subset of storage.Storage the store writes through.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Options tune an ItemStore. Zero values pick the defaults.
type Options struct {
	Key    string            // storage key, default model.StorageKey
	IDs    model.IDGenerator // default timestamp ids
	Logger *log.Logger       // default discards
}

type ItemStore struct {
	items   []model.Item
	filter  model.Filter
	editing string

	view    View
	storage Storage
	key     string
	ids     model.IDGenerator
	log     *log.Logger
}

// New returns an empty store. Call Load to read the persisted snapshot.
func New(s Storage, v View, opt Options) *ItemStore {
	if v == nil {
		v = NopView{}
	}
	if opt.Key == "" {
		opt.Key = model.StorageKey
	}
	if opt.IDs == nil {
		opt.IDs = model.TimestampIDs{}
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	return &ItemStore{
		items:   []model.Item{},
		filter:  model.FilterAll,
		view:    v,
		storage: s,
		key:     opt.Key,
		ids:     opt.IDs,
		log:     opt.Logger,
	}
}

// SetView swaps the rendering surface and draws the current state on it.
func (s *ItemStore) SetView(v View) {
	if v == nil {
		v = NopView{}
	}
	s.view = v
	s.render()
}

// Load replaces the list with the stored snapshot. A missing or malformed
// snapshot yields an empty list. Items whose id is empty or already used by an
// earlier item get a fresh id, and the repaired list is written back.
func (s *ItemStore) Load() error {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	items := []model.Item{}
	if ok {
		decoded, err := model.DecodeSnapshot(raw)
		if err != nil {
			s.log.Warn("ignoring stored items", "key", s.key, "err", err)
		} else {
			items = decoded
		}
	}
	s.items = items
	s.editing = ""
	s.log.Debug("loaded", "key", s.key, "items", len(items))
	if s.rekeyDuplicates() > 0 {
		return s.commit()
	}
	s.render()
	return nil
}

// Add appends a new incomplete item. A blank name raises an alert and
// leaves the list untouched.
func (s *ItemStore) Add(name string) (model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.view.Alert(ErrEmptyName.Error())
		return model.Item{}, ErrEmptyName
	}
	it := model.Item{ID: s.ids.NewID(s.takenIDs()), Name: name}
	s.items = append(s.items, it)
	s.log.Debug("added", "id", it.ID)
	return it, s.commit()
}

// ToggleCompleted flips the completed flag of id.
func (s *ItemStore) ToggleCompleted(id string) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	return s.setCompleted(i, !s.items[i].Completed)
}

// SetCompleted sets the completed flag of id.
func (s *ItemStore) SetCompleted(id string, completed bool) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	return s.setCompleted(i, completed)
}

func (s *ItemStore) setCompleted(i int, completed bool) error {
	s.items[i].Completed = completed
	if completed && s.editing == s.items[i].ID {
		s.editing = ""
	}
	s.log.Debug("completed", "id", s.items[i].ID, "value", completed)
	return s.commit()
}

// BeginEdit puts id into edit mode. Completed items refuse.
func (s *ItemStore) BeginEdit(id string) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	if s.items[i].Completed {
		return ErrItemCompleted
	}
	s.editing = id
	s.render()
	return nil
}

// CommitEdit stores text as the new name of the item in edit mode and
// leaves edit mode. Blank text cancels the edit.
func (s *ItemStore) CommitEdit(text string) error {
	if s.editing == "" {
		return ErrNoEdit
	}
	i, err := s.indexOf(s.editing)
	if err != nil {
		s.editing = ""
		return err
	}
	s.editing = ""
	text = strings.TrimSpace(text)
	if text == "" {
		s.view.Alert(ErrEmptyName.Error())
		s.render()
		return ErrEmptyName
	}
	s.items[i].Name = text
	s.log.Debug("edited", "id", s.items[i].ID)
	return s.commit()
}

// CancelEdit leaves edit mode without changing anything.
func (s *ItemStore) CancelEdit() {
	if s.editing == "" {
		return
	}
	s.editing = ""
	s.render()
}

// Edit renames id in one step.
func (s *ItemStore) Edit(id, text string) error {
	if err := s.BeginEdit(id); err != nil {
		return err
	}
	return s.CommitEdit(text)
}

// Remove deletes id from the list.
func (s *ItemStore) Remove(id string) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.editing == id {
		s.editing = ""
	}
	s.log.Debug("removed", "id", id)
	return s.commit()
}

// ClearAll empties the list and deletes the stored snapshot.
func (s *ItemStore) ClearAll() error {
	s.items = []model.Item{}
	s.editing = ""
	err := s.storage.Remove(s.key)
	s.render()
	if err != nil {
		s.log.Error("clear failed", "key", s.key, "err", err)
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	s.log.Debug("cleared", "key", s.key)
	return nil
}

// SetFilter changes which items are visible. The filter sticks for later
// adds and toggles.
func (s *ItemStore) SetFilter(f model.Filter) error {
	switch f {
	case model.FilterAll, model.FilterCompleted, model.FilterIncompleted:
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownFilter, string(f))
	}
	s.filter = f
	s.render()
	return nil
}

// Persist writes the whole list under the storage key.
func (s *ItemStore) Persist() error {
	raw, err := model.EncodeSnapshot(s.items)
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.key, raw); err != nil {
		s.log.Error("persist failed", "key", s.key, "err", err)
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	return nil
}

// Items returns a copy of the list in insertion order.
func (s *ItemStore) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Visible returns the items that pass the active filter.
func (s *ItemStore) Visible() []model.Item {
	var out []model.Item
	for _, it := range s.items {
		if s.filter.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Get looks up id.
func (s *ItemStore) Get(id string) (model.Item, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return model.Item{}, err
	}
	return s.items[i], nil
}

func (s *ItemStore) Len() int                   { return len(s.items) }
func (s *ItemStore) Filter() model.Filter       { return s.filter }
func (s *ItemStore) Editing() string            { return s.editing }
func (s *ItemStore) Stats() (done, pending int) { return model.Stats(s.items) }

// Frame projects the current state.
func (s *ItemStore) Frame() Frame {
	rows := make([]Row, len(s.items))
	for i, it := range s.items {
		rows[i] = Row{Item: it, Index: i + 1, Visible: s.filter.Match(it)}
	}
	empty := len(s.items) == 0
	return Frame{
		Rows:         rows,
		Filter:       s.filter,
		Editing:      s.editing,
		Empty:        empty,
		ShowControls: !empty,
	}
}

// commit persists, then redraws. The redraw happens even if the write
// failed so the screen matches memory.
func (s *ItemStore) commit() error {
	err := s.Persist()
	s.render()
	return err
}

func (s *ItemStore) render() { s.view.Render(s.Frame()) }

func (s *ItemStore) indexOf(id string) (int, error) {
	for i, it := range s.items {
		if it.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// rekeyDuplicates gives every item after the first holder of an id a new one.
func (s *ItemStore) rekeyDuplicates() int {
	taken := make(map[string]bool, len(s.items))
	n := 0
	for i := range s.items {
		id := s.items[i].ID
		if id == "" || taken[id] {
			id = s.ids.NewID(s.takenIDs())
			s.log.Warn("stored item id reused, assigned a new one", "old", s.items[i].ID, "id", id)
			s.items[i].ID = id
			n++
		}
		taken[id] = true
	}
	return n
}

func (s *ItemStore) takenIDs() map[string]bool {
	taken := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		taken[it.ID] = true
	}
	return taken
}
