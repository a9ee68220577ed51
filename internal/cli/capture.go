package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lotas/tabstash/internal/catalog"
)

// CaptureOptions holds options for the capture command.
type CaptureOptions struct {
	Live    bool
	Window  int
	Indices string
	Name    string
}

// newCaptureCommand creates the capture command.
func newCaptureCommand(a *app) *cobra.Command {
	opts := &CaptureOptions{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save the open tabs as a new snapshot",
		Long:  "Capture reads the open tabs from the Firefox session file, or from the browser extension with --live, and stores them as a new snapshot.",
		Example: `
tabstash capture
tabstash capture --live --window 2
tabstash capture --index 1,3,5-7 --name "Reading list"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCapture(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Live, "live", false, "Read tabs from the browser extension")
	cmd.Flags().IntVarP(&opts.Window, "window", "w", 0, "Only capture this window (1-based, 0 = all)")
	cmd.Flags().StringVarP(&opts.Indices, "index", "i", "", "Only capture these tabs (1-based, e.g. 1,3,5-7)")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Snapshot name (default derived from domains)")

	return cmd
}

func (a *app) runCapture(cmd *cobra.Command, opts *CaptureOptions) error {
	if opts.Window < 0 {
		return fmt.Errorf("invalid window %d", opts.Window)
	}
	indices, err := parseIndices(opts.Indices)
	if err != nil {
		return err
	}
	sel := catalog.Selection{Indices: indices}
	if opts.Window > 0 {
		sel.OnlyWindow = true
		sel.Window = opts.Window - 1
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src, err := a.captureSource(ctx, opts.Live, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c := a.catalog()
	s, err := c.Capture(ctx, src, sel, a.now())
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if name := strings.TrimSpace(opts.Name); name != "" {
		if err := c.Rename(ctx, s.ID, name); err != nil {
			return fmt.Errorf("name snapshot: %w", err)
		}
		s.Name = name
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Captured %q (%d tabs) %s\n", s.Name, len(s.Tabs), s.ID)
	return nil
}
