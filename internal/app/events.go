package app

import "github.com/Makepad-fr/tada/internal/model"

// Event is one user action. Handlers run to completion before the next
// event is taken.
type Event interface {
	Kind() string
}

// Submit adds a new item from the entry form.
type Submit struct{ Name string }

// Toggle flips an item's checkbox.
type Toggle struct{ ID string }

// Check sets an item's checkbox to Completed.
type Check struct {
	ID        string
	Completed bool
}

// BeginEdit opens an item's name for editing.
type BeginEdit struct{ ID string }

// CommitEdit ends editing with Text (Enter or loss of focus).
type CommitEdit struct{ Text string }

type CancelEdit struct{}

type Remove struct{ ID string }

type ClearAll struct{}

// SelectFilter picks one of the filter buttons.
type SelectFilter struct{ Filter model.Filter }

func (Submit) Kind() string       { return "submit" }
func (Toggle) Kind() string       { return "toggle" }
func (Check) Kind() string        { return "check" }
func (BeginEdit) Kind() string    { return "begin-edit" }
func (CommitEdit) Kind() string   { return "commit-edit" }
func (CancelEdit) Kind() string   { return "cancel-edit" }
func (Remove) Kind() string       { return "remove" }
func (ClearAll) Kind() string     { return "clear-all" }
func (SelectFilter) Kind() string { return "select-filter" }
