// Package tui is the interactive Bubble Tea view over the item store.
// Every key that changes the list is dispatched to the store, which
// persists before the next message is handled.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// listItem adapts a store.Row to bubbles/list.Item
type listItem struct {
	row     store.Row
	editing bool
}

func (i listItem) Title() string       { return i.row.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.row.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := it.row.Name
	if it.row.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if it.editing {
		text = editingStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

// frameView is the store.View the model reads from. It is shared by every
// copy of Model that Bubble Tea makes.
type frameView struct {
	frame store.Frame
	alert string
}

func (v *frameView) Render(f store.Frame) { v.frame = f }
func (v *frameView) Alert(msg string)     { v.alert = msg }

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// Model implements tea.Model.
type Model struct {
	d    *app.Dispatcher
	view *frameView
	keys keyMap

	list   list.Model
	ti     textinput.Model // shared text input model (used for add & edit)
	mode   mode
	status string

	width, height int
}

// New wires a model to d and draws the store's current state.
func New(d *app.Dispatcher) Model {
	v := &frameView{}
	m := Model{
		d:      d,
		view:   v,
		keys:   newKeyMap(),
		width:  80,
		height: 24,
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = m.keys.short
	l.AdditionalFullHelpKeys = m.keys.full
	m.list = l

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200

	d.Store().SetView(v)
	m.resize()
	m.sync()
	return m
}

// Run starts the program on the terminal and returns when the user quits.
func Run(d *app.Dispatcher) error {
	_, err := tea.NewProgram(New(d), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case adding:
		return m.updateAdding(msg)
	case editing:
		return m.updateEditing(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	m.status = ""

	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.Add):
		m.mode = adding
		m.ti.SetValue("")
		m.ti.Placeholder = "New item name..."
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd
	case key.Matches(km, m.keys.Edit):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.dispatch(app.BeginEdit{ID: row.ID}); err != nil {
			return m, nil
		}
		m.mode = editing
		m.ti.SetValue(row.Name)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit item name..."
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd
	case key.Matches(km, m.keys.Toggle):
		if row, ok := m.selected(); ok {
			m.dispatch(app.Toggle{ID: row.ID})
		}
		return m, nil
	case key.Matches(km, m.keys.Delete):
		if row, ok := m.selected(); ok {
			m.dispatch(app.Remove{ID: row.ID})
		}
		return m, nil
	case key.Matches(km, m.keys.Filter):
		m.dispatch(app.SelectFilter{Filter: m.view.frame.Filter.Next()})
		return m, nil
	case key.Matches(km, m.keys.All):
		m.dispatch(app.SelectFilter{Filter: model.FilterAll})
		return m, nil
	case key.Matches(km, m.keys.Done):
		m.dispatch(app.SelectFilter{Filter: model.FilterCompleted})
		return m, nil
	case key.Matches(km, m.keys.Open):
		m.dispatch(app.SelectFilter{Filter: model.FilterIncompleted})
		return m, nil
	case key.Matches(km, m.keys.Clear):
		if m.view.frame.ShowControls {
			m.dispatch(app.ClearAll{})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter:
			if err := m.dispatch(app.Submit{Name: m.ti.Value()}); errors.Is(err, store.ErrEmptyName) {
				return m, nil
			}
			m.leaveInput()
			if n := len(m.list.Items()); n > 0 {
				m.list.Select(n - 1)
			}
			return m, nil
		case tea.KeyEsc:
			m.status = ""
			m.leaveInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// updateEditing commits on enter and on esc; leaving the field is a commit,
// not a cancel.
func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.dispatch(app.CommitEdit{Text: m.ti.Value()})
			m.leaveInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) leaveInput() {
	m.mode = browsing
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// dispatch runs ev, redraws the list and turns any error into the status
// line.
func (m *Model) dispatch(ev app.Event) error {
	m.view.alert = ""
	m.status = ""
	err := m.d.Dispatch(ev)
	m.sync()
	switch {
	case m.view.alert != "":
		m.status = m.view.alert
	case err != nil:
		m.status = err.Error()
	}
	return err
}

func (m *Model) selected() (store.Row, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return store.Row{}, false
	}
	return it.row, true
}

// sync rebuilds the list from the latest frame.
func (m *Model) sync() {
	f := m.view.frame
	rows := f.VisibleRows()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, listItem{row: r, editing: r.ID == f.Editing})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.list.Select(idx)

	d, p := model.Stats(f.Items())
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), d,
		pendingStyle.Render("•"), p,
		accentStyle.Render("Total"), d+p,
	)
}

func (m *Model) resize() {
	h := m.height - 6
	if m.mode != browsing {
		h -= 4
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	f := m.view.frame
	var b strings.Builder

	if f.Empty {
		b.WriteString(m.list.Title + "\n\n")
		b.WriteString(mutedStyle.Render("No items yet. Press a to add one.") + "\n")
		b.WriteString(helpStyle.Render("a add • q quit"))
	} else {
		b.WriteString(m.list.View())
	}

	if f.ShowControls {
		b.WriteString("\n" + filterBar(f.Filter) + "  " + helpStyle.Render("C clear all"))
	}

	if m.mode != browsing {
		title := "Add new item"
		if m.mode == editing {
			title = "Edit item"
		}
		if m.status != "" {
			title += " - " + errorStyle.Render(m.status)
		}
		b.WriteString("\n" + borderStyle.Render(title+"\n"+m.ti.View()))
	} else if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status))
	}
	return borderStyle.Render(b.String())
}

func filterBar(active model.Filter) string {
	parts := make([]string, 0, 3)
	for i, k := range model.Filters() {
		label := fmt.Sprintf("%d %s", i+1, k)
		if k == active {
			parts = append(parts, accentStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
