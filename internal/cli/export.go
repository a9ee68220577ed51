package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotas/tabstash/internal/export"
	"github.com/lotas/tabstash/internal/filter"
	"github.com/lotas/tabstash/internal/snapshot"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	FilterOptions
	JSON bool
	Out  string
}

// newExportCommand creates the export command.
func newExportCommand(a *app) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export snapshots as markdown or JSON",
		Example: `
tabstash export > tabs.md
tabstash export --json --out tabs.json
tabstash export --domain github.com --query review
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := a.catalog().List(cmd.Context())
			if err != nil {
				return err
			}
			fs := opts.state()
			views := filter.Apply(snaps, fs)
			eo := export.Options{Filter: fs, Now: a.now()}

			var output string
			if opts.JSON {
				output, err = export.JSON(views, eo)
				if err != nil {
					return fmt.Errorf("generate JSON: %w", err)
				}
			} else {
				output = export.Markdown(views, eo)
			}

			if opts.Out == "" {
				fmt.Fprint(cmd.OutOrStdout(), output)
				return nil
			}
			if err := os.WriteFile(opts.Out, []byte(output), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.Out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d snapshots to %s\n", len(views), opts.Out)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Export as JSON instead of markdown")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output file path (default: stdout)")
	return cmd
}

// newDiffCommand creates the diff command.
func newDiffCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff FROM TO",
		Short: "Compare the URLs of two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := a.catalog().List(cmd.Context())
			if err != nil {
				return err
			}
			from, err := resolveSnapshot(snaps, args[0])
			if err != nil {
				return err
			}
			to, err := resolveSnapshot(snaps, args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), snapshot.FormatDiff(snapshot.Diff(from, to)))
			return nil
		},
	}
}
