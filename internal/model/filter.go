package model

import (
	"errors"
	"fmt"
	"strings"
)

// Filter selects which items are shown.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterCompleted   Filter = "completed"
	FilterIncompleted Filter = "incompleted"
)

// ErrUnknownFilter is returned by ParseFilter for names outside the three kinds.
var ErrUnknownFilter = errors.New("unknown filter")

// Filters lists the kinds in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterCompleted, FilterIncompleted}
}

// ParseFilter accepts a filter name, case-insensitively. "" means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "incompleted", "incomplete", "pending":
		return FilterIncompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Match reports whether it is shown under f.
func (f Filter) Match(it Item) bool {
	switch f {
	case FilterCompleted:
		return it.Completed
	case FilterIncompleted:
		return !it.Completed
	default:
		return true
	}
}

// Next cycles all -> completed -> incompleted -> all.
func (f Filter) Next() Filter {
	fs := Filters()
	for i, k := range fs {
		if k == f {
			return fs[(i+1)%len(fs)]
		}
	}
	return FilterAll
}

func (f Filter) String() string { return string(f) }
