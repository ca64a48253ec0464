package store

import "github.com/Makepad-fr/tada/internal/model"

// View is the rendering surface an ItemStore draws onto.
type View interface {
	// Render replaces whatever is on screen with f.
	Render(f Frame)
	// Alert surfaces a user-facing error message.
	Alert(msg string)
}

// Frame is a projection of the store's state. Views hold no state of
// their own beyond what the latest Frame tells them.
type Frame struct {
	Rows    []Row
	Filter  model.Filter
	Editing string // id of the item in edit mode, or ""

	// Empty is true exactly when there are no items; the filter and clear
	// controls are shown only when it is false.
	Empty        bool
	ShowControls bool
}

// Row is one item as displayed.
type Row struct {
	model.Item
	Index   int // 1-based position in the full list
	Visible bool
}

// VisibleRows returns the rows that pass the active filter.
func (f Frame) VisibleRows() []Row {
	out := make([]Row, 0, len(f.Rows))
	for _, r := range f.Rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Items returns the items in list order.
func (f Frame) Items() []model.Item {
	out := make([]model.Item, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Item
	}
	return out
}

// NopView discards frames and alerts.
type NopView struct{}

func (NopView) Render(Frame) {}
func (NopView) Alert(string) {}
