package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

const maxNameWidth = 80

// Renderer is the store.View for one-shot commands. Frames are kept and
// drawn on demand; alerts go straight to Err.
type Renderer struct {
	Out, Err io.Writer
	Group    bool // list grouped by pending/done

	frame store.Frame
}

func NewRenderer(out, errw io.Writer) *Renderer {
	return &Renderer{Out: out, Err: errw}
}

func (r *Renderer) Render(f store.Frame) { r.frame = f }

func (r *Renderer) Alert(msg string) { Fail(r.Err, msg) }

// Frame returns the last frame rendered.
func (r *Renderer) Frame() store.Frame { return r.frame }

// Draw prints the last frame as a panel.
func (r *Renderer) Draw() {
	Panel(r.Out, r.Lines())
}

// Lines builds the panel body for the last frame.
func (r *Renderer) Lines() []string {
	f := r.frame
	t := Current()
	items := f.Items()
	d, p := model.Stats(items)

	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			C(t.Title, "Todos"),
			C(t.Success, t.SymDone), d,
			C(t.Pending, t.SymPending), p,
			C(t.Accent, "Total"), len(items),
		),
		C(t.Muted, ProgressBar(d, d+p, 28)),
		"",
	}

	if f.Empty {
		lines = append(lines, C(t.Muted, "no items"))
		lines = append(lines, "")
		lines = append(lines, C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
		return lines
	}

	if r.Group {
		lines = append(lines, groupLines(f)...)
	} else {
		lines = append(lines, flatLines(f.VisibleRows(), f.Filter)...)
	}
	if f.ShowControls {
		lines = append(lines, "")
		lines = append(lines, filterBar(f.Filter))
		lines = append(lines, C(t.Muted, "clear all: `todo clear`"))
	}
	return lines
}

func filterBar(active model.Filter) string {
	t := Current()
	parts := make([]string, 0, len(model.Filters()))
	for _, k := range model.Filters() {
		if k == active {
			parts = append(parts, C(t.Accent, "["+k.String()+"]"))
		} else {
			parts = append(parts, C(t.Muted, k.String()))
		}
	}
	return C(t.Muted, "filter: ") + strings.Join(parts, " ")
}

func rowLine(r store.Row) string {
	t := Current()
	idx := fmt.Sprintf("%2d.", r.Index)
	box, color := t.BoxUnchecked, t.Muted
	if r.Completed {
		box, color = t.BoxChecked, t.Success
	}
	return fmt.Sprintf("%s %s %s", C(dim, idx), C(color, box), Truncate(r.Name, maxNameWidth))
}

func flatLines(rows []store.Row, f model.Filter) []string {
	if len(rows) == 0 {
		return []string{C(Current().Muted, "nothing "+f.String())}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowLine(r))
	}
	return out
}

// groupLines splits the visible rows into Pending and Done sections.
func groupLines(f store.Frame) []string {
	t := Current()
	var pend, done []string
	for _, r := range f.VisibleRows() {
		if r.Completed {
			done = append(done, rowLine(r))
		} else {
			pend = append(pend, rowLine(r))
		}
	}
	section := func(title string, rows []string) []string {
		out := []string{C(t.Accent, title)}
		if len(rows) == 0 {
			return append(out, C(t.Muted, "(none)"))
		}
		return append(out, rows...)
	}
	var lines []string
	lines = append(lines, section("Pending", pend)...)
	lines = append(lines, "")
	lines = append(lines, section("Done", done)...)
	return lines
}
