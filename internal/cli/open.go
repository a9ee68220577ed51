package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lotas/tabstash/internal/catalog"
)

// newOpenCommand creates the open command.
func newOpenCommand(a *app) *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "open SNAPSHOT",
		Short: "Open the tabs of a snapshot in a new browser window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := a.loadSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			urls := catalog.URLs(s)
			out := cmd.OutOrStdout()
			if len(urls) == 0 {
				fmt.Fprintf(out, "%q has no URLs to open\n", s.Name)
				return nil
			}
			opener := a.windowOpener(ctx, live, cmd.ErrOrStderr())
			if err := catalog.Open(ctx, opener, s); err != nil {
				return err
			}
			fmt.Fprintf(out, "Opened %d tabs from %q\n", len(urls), s.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "Open through the browser extension")
	return cmd
}

// newCopyCommand creates the copy command.
func newCopyCommand(a *app) *cobra.Command {
	var tab int

	cmd := &cobra.Command{
		Use:   "copy SNAPSHOT",
		Short: "Copy the URLs of a snapshot to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var text, what string
			switch {
			case tab < 0 || tab > len(s.Tabs):
				return fmt.Errorf("tab %d out of range (1-%d)", tab, len(s.Tabs))
			case tab > 0:
				text = s.Tabs[tab-1].URL
				what = "URL"
			default:
				urls := catalog.URLs(s)
				text = strings.Join(urls, "\n")
				what = fmt.Sprintf("%d URLs", len(urls))
			}

			out := cmd.OutOrStdout()
			if strings.TrimSpace(text) == "" {
				fmt.Fprintln(out, "Nothing to copy")
				return nil
			}
			if err := a.clipboard().Copy(text); err != nil {
				return fmt.Errorf("copy: %w", err)
			}
			fmt.Fprintf(out, "Copied %s\n", what)
			return nil
		},
	}
	cmd.Flags().IntVarP(&tab, "tab", "t", 0, "Copy only this tab's URL (1-based)")
	return cmd
}
