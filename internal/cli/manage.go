package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lotas/tabstash/internal/catalog"
	"github.com/lotas/tabstash/internal/types"
)

// newRenameCommand creates the rename command.
func newRenameCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename SNAPSHOT NAME...",
		Short: "Rename a snapshot",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.loadSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			out := cmd.OutOrStdout()
			if name == "" {
				fmt.Fprintf(out, "Name unchanged: %q\n", s.Name)
				return nil
			}
			if err := a.catalog().Rename(ctx, s.ID, name); err != nil {
				return err
			}
			fmt.Fprintf(out, "Renamed %q to %q\n", s.Name, name)
			return nil
		},
	}
}

// newDeleteCommand creates the delete command.
func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete SNAPSHOT...",
		Aliases: []string{"rm"},
		Short:   "Delete snapshots",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snaps, err := a.catalog().List(ctx)
			if err != nil {
				return err
			}
			// Resolve every reference before deleting so positions stay stable.
			targets := make([]types.Snapshot, 0, len(args))
			for _, ref := range args {
				s, err := resolveSnapshot(snaps, ref)
				if err != nil {
					return err
				}
				targets = append(targets, s)
			}
			return deleteAll(ctx, a.catalog(), targets, cmd)
		},
	}
}

func deleteAll(ctx context.Context, c *catalog.Catalog, targets []types.Snapshot, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, s := range targets {
		if err := c.Delete(ctx, s.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %q\n", s.Name)
	}
	return nil
}
