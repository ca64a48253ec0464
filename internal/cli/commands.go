package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: todo %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: todo %s", usage)
		}
		return nil
	}
}

func newAddCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a new item (name can be multiple words)",
		Args:  minArgs(1, "add <name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.d.Dispatch(app.Submit{Name: strings.Join(args, " ")}); err != nil {
				return err
			}
			ui.OK(s.out, fmt.Sprintf("added #%d", s.store.Len()))
			return nil
		},
	}
}

func newListCmd(s *session) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    exactArgs(0, "ls [--filter all|completed|incompleted] [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usageError{err: err}
			}
			if err := s.d.Dispatch(app.SelectFilter{Filter: f}); err != nil {
				return err
			}
			s.view.Group = group
			s.view.Draw()
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "show all, completed or incompleted items")
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by pending/done")
	return cmd
}

func newCheckCmd(s *session, name, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <index|id>",
		Short: short,
		Args:  exactArgs(1, name+" <index|id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.d.Dispatch(app.Check{ID: it.ID, Completed: completed}); err != nil {
				return err
			}
			if completed {
				ui.OK(s.out, "completed")
			} else {
				ui.OK(s.out, "reopened")
			}
			return nil
		},
	}
}

func newToggleCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <index|id>",
		Short: "Toggle completion of an item",
		Args:  exactArgs(1, "toggle <index|id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.d.Dispatch(app.Toggle{ID: it.ID}); err != nil {
				return err
			}
			ui.OK(s.out, "toggled")
			return nil
		},
	}
}

func newEditCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index|id> <name...>",
		Short: "Rename an item that is not completed",
		Args:  minArgs(2, "edit <index|id> <name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.d.Dispatch(app.BeginEdit{ID: it.ID}); err != nil {
				if errors.Is(err, store.ErrItemCompleted) {
					ui.Hint(s.errw, "Hint: run `todo undone "+args[0]+"` first")
				}
				return fmt.Errorf("edit: %w", err)
			}
			if err := s.d.Dispatch(app.CommitEdit{Text: strings.Join(args[1:], " ")}); err != nil {
				return err
			}
			ui.OK(s.out, "edited")
			return nil
		},
	}
}

func newRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index|id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove an item",
		Args:    exactArgs(1, "rm <index|id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.d.Dispatch(app.Remove{ID: it.ID}); err != nil {
				return err
			}
			ui.OK(s.out, "removed")
			if s.view.Frame().Empty {
				ui.Hint(s.out, "no items left")
			}
			return nil
		},
	}
}

func newClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		Args:  exactArgs(0, "clear"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.d.Dispatch(app.ClearAll{}); err != nil {
				return err
			}
			ui.OK(s.out, "cleared")
			return nil
		},
	}
}

func newTUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit items interactively",
		Args:  exactArgs(0, "tui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Run(s.d); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}

// resolve maps a 1-based index into the full list, or failing that an item
// id, to an item.
func (s *session) resolve(ref string) (model.Item, error) {
	items := s.store.Items()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], nil
	}
	it, err := s.store.Get(ref)
	if err == nil {
		return it, nil
	}
	ui.Hint(s.errw, "Hint: run `todo ls` to see valid indexes")
	if _, nerr := strconv.Atoi(ref); nerr == nil {
		return model.Item{}, usagef("index out of range: have %d, got %s", len(items), ref)
	}
	return model.Item{}, usageError{err: err}
}
