package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/filter"
	"github.com/lotas/tabstash/internal/types"
)

// shortIDLen is how much of a snapshot id list output shows.
const shortIDLen = 8

// FilterOptions holds the query and domain facet shared by list and export.
type FilterOptions struct {
	Query  string
	Domain string
}

func (o *FilterOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Query, "query", "q", "", "Only tabs whose title or URL contains this text")
	cmd.Flags().StringVarP(&o.Domain, "domain", "d", "", "Only tabs from this domain")
}

func (o *FilterOptions) state() types.FilterState {
	return types.NewFilterState(o.Query, o.Domain)
}

// newListCommand creates the list command.
func newListCommand(a *app) *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved snapshots",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := a.catalog().List(cmd.Context())
			if err != nil {
				return err
			}
			fs := opts.state()
			views := filter.Apply(snaps, fs)
			printList(cmd.OutOrStdout(), snaps, views, fs, a)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func printList(out io.Writer, snaps []types.Snapshot, views []filter.View, fs types.FilterState, a *app) {
	if len(views) == 0 {
		if fs.Active() {
			fmt.Fprintln(out, "No snapshots match the current filter.")
		} else {
			fmt.Fprintln(out, "No snapshots yet. Run 'tabstash capture' to save your open tabs.")
		}
		return
	}

	position := make(map[string]int, len(snaps))
	for i, s := range snaps {
		position[s.ID] = i + 1
	}
	now := a.now()
	for _, v := range views {
		count := fmt.Sprintf("%d tabs", v.TotalTabs)
		if len(v.Tabs) != v.TotalTabs {
			count = fmt.Sprintf("%d/%d tabs", len(v.Tabs), v.TotalTabs)
		}
		fmt.Fprintf(out, "%3d  %-8s  %-40s  %10s  %s\n",
			position[v.Snapshot.ID],
			shortID(v.Snapshot.ID),
			types.DisplayName(v.Snapshot, v.Position),
			count,
			humanize.RelTime(v.Snapshot.CreatedAt, now, "ago", "from now"),
		)
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// newShowCommand creates the show command.
func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show SNAPSHOT",
		Short: "Show the tabs of a snapshot",
		Long:  "Show prints the tabs of a snapshot. SNAPSHOT is an id, an id prefix or the position printed by list.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), s, a)
			return nil
		},
	}
}

func printSnapshot(out io.Writer, s types.Snapshot, a *app) {
	fmt.Fprintf(out, "%s\n", s.Name)
	fmt.Fprintf(out, "ID:      %s\n", s.ID)
	fmt.Fprintf(out, "Saved:   %s (%s)\n",
		s.CreatedAt.Local().Format("2006-01-02 15:04"),
		humanize.RelTime(s.CreatedAt, a.now(), "ago", "from now"))

	stats := analyzer.ComputeStats([]types.Snapshot{s})
	fmt.Fprintf(out, "Tabs:    %d (%d pinned, %d duplicates, %d domains)\n\n",
		stats.Tabs, stats.PinnedTabs, stats.DuplicateTabs, stats.Domains)

	dups := analyzer.DuplicateTabs(s.Tabs)
	for i, tab := range s.Tabs {
		var marks []string
		if tab.Pinned {
			marks = append(marks, "pinned")
		}
		if _, ok := dups[i]; ok {
			marks = append(marks, "duplicate")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " [" + strings.Join(marks, ", ") + "]"
		}
		fmt.Fprintf(out, "%3d. %s%s\n", i+1, types.DisplayTitle(tab), suffix)
		if tab.URL != "" && tab.Title != "" {
			fmt.Fprintf(out, "     %s\n", tab.URL)
		}
	}
}

// newDomainsCommand creates the domains command.
func newDomainsCommand(a *app) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Show the most frequent domains across all snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return fmt.Errorf("invalid --top %d", top)
			}
			snaps, err := a.catalog().List(cmd.Context())
			if err != nil {
				return err
			}
			counts := analyzer.CountsByDomain(snaps)
			ranked := analyzer.RankedDomains(counts)
			if top > 0 {
				ranked = analyzer.TopDomains(counts, top)
			}
			out := cmd.OutOrStdout()
			if len(ranked) == 0 {
				fmt.Fprintln(out, "No domains.")
				return nil
			}
			for _, d := range ranked {
				fmt.Fprintf(out, "%6s  %s\n", humanize.Comma(int64(d.Count)), d.Domain)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 0, "Only show the N most frequent domains (0 = all)")
	return cmd
}
