package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/tui"
	"github.com/idilsaglam/todo/internal/ui"
)

func newListCommand(a *app) *cobra.Command {
	var group, asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.loaded(cmd)
			if err != nil {
				return err
			}
			if asJSON {
				b, err := json.MarshalIndent(ctrl.Items(), "", "  ")
				if err != nil {
					return fmt.Errorf("json marshal: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			if !cmd.Flags().Changed("group") {
				group = a.cfg.Group
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.ListPanel(ctrl.Items(), group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")
	return cmd
}

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a new item (name can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.newController(a.log)
			ctrl.SetDraft(strings.Join(args, " "))
			res, sent := ctrl.Submit(cmd.Context())
			if !sent {
				return usagef("add: empty name")
			}
			return report(cmd, res, "added")
		},
	}
}

func newEditCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index|id> <name...>",
		Short: "Rename an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.loaded(cmd)
			if err != nil {
				return err
			}
			id, err := resolveRef(ctrl.Items(), args[0])
			if err != nil {
				return err
			}
			ctrl.SelectForEdit(id)
			ctrl.SetDraft(strings.Join(args[1:], " "))
			res, sent := ctrl.Submit(cmd.Context())
			if !sent {
				return usagef("edit: empty name")
			}
			return report(cmd, res, "updated")
		},
	}
}

func newDoneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index|id>",
		Short: "Toggle done for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.loaded(cmd)
			if err != nil {
				return err
			}
			id, err := resolveRef(ctrl.Items(), args[0])
			if err != nil {
				return err
			}
			res, _ := ctrl.Toggle(cmd.Context(), id)
			return report(cmd, res, "toggled")
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index|id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.loaded(cmd)
			if err != nil {
				return err
			}
			id, err := resolveRef(ctrl.Items(), args[0])
			if err != nil {
				return err
			}
			return report(cmd, ctrl.Delete(cmd.Context(), id), "removed")
		},
	}
}

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit items interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alternate screen owns the terminal; only log to a file.
			logger := logging.Discard()
			if a.cfg.LogFile != "" {
				logger = a.log
			}
			return tui.Run(cmd.Context(), a.newController(logger))
		},
	}
}

// loaded returns a controller whose list has been fetched.
func (a *app) loaded(cmd *cobra.Command) (*controller.Controller, error) {
	ctrl := a.newController(a.log)
	if res := ctrl.Load(cmd.Context()); !res.OK() {
		return nil, &exitError{code: ExitFailed}
	}
	return ctrl, nil
}

func report(cmd *cobra.Command, res controller.Result, verb string) error {
	if !res.OK() {
		return &exitError{code: ExitFailed}
	}
	ui.OK(cmd.OutOrStdout(), verb)
	return nil
}

// resolveRef matches ref against item ids first, then as a 1-based index.
func resolveRef(items []model.Item, ref string) (string, error) {
	for _, it := range items {
		if it.ID == ref {
			return it.ID, nil
		}
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return "", usagef("no item with id %q (hint: run `todo ls` to see ids and indexes)", ref)
	}
	if n < 1 || n > len(items) {
		return "", usagef("index out of range: have %d, got %d (hint: run `todo ls` to see valid indexes)", len(items), n)
	}
	return items[n-1].ID, nil
}
