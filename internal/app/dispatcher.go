// Package app turns user events into ItemStore operations.
package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/store"
)

// Dispatcher feeds events to a store one at a time.
type Dispatcher struct {
	store *store.ItemStore
	log   *log.Logger
}

func NewDispatcher(s *store.ItemStore, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{store: s, log: logger}
}

// Store returns the store events are applied to.
func (d *Dispatcher) Store() *store.ItemStore { return d.store }

// Dispatch applies ev and returns the store's error, if any.
func (d *Dispatcher) Dispatch(ev Event) error {
	d.log.Debug("event", "kind", ev.Kind())
	var err error
	switch e := ev.(type) {
	case Submit:
		_, err = d.store.Add(e.Name)
	case Toggle:
		err = d.store.ToggleCompleted(e.ID)
	case Check:
		err = d.store.SetCompleted(e.ID, e.Completed)
	case BeginEdit:
		err = d.store.BeginEdit(e.ID)
	case CommitEdit:
		err = d.store.CommitEdit(e.Text)
	case CancelEdit:
		d.store.CancelEdit()
	case Remove:
		err = d.store.Remove(e.ID)
	case ClearAll:
		err = d.store.ClearAll()
	case SelectFilter:
		err = d.store.SetFilter(e.Filter)
	default:
		err = fmt.Errorf("unhandled event %T", ev)
	}
	if err != nil {
		d.log.Debug("event rejected", "kind", ev.Kind(), "err", err)
	}
	return err
}
