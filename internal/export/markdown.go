package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lotas/tabstash/internal/filter"
	"github.com/lotas/tabstash/internal/types"
)

// Options describes the export context.
type Options struct {
	Filter types.FilterState
	Now    time.Time // zero means time.Now
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Markdown formats filtered snapshot views as a markdown document.
func Markdown(views []filter.View, opts Options) string {
	var b strings.Builder
	now := opts.now()

	b.WriteString("# Tab snapshots\n")
	fmt.Fprintf(&b, "> Exported %s\n", now.Format("2006-01-02 15:04"))
	if opts.Filter.Active() {
		fmt.Fprintf(&b, "> Filter: %s\n", describeFilter(opts.Filter))
	}
	if len(views) == 0 {
		b.WriteString("\nNo snapshots.\n")
		return b.String()
	}

	for _, v := range views {
		fmt.Fprintf(&b, "\n## %s (%s)\n", types.DisplayName(v.Snapshot, v.Position), tabCount(len(v.Tabs), v.TotalTabs))
		fmt.Fprintf(&b, "Saved %s\n\n", humanize.RelTime(v.Snapshot.CreatedAt, now, "ago", "from now"))

		for _, tab := range v.Snapshot.Tabs {
			title := types.DisplayTitle(tab)
			pin := ""
			if tab.Pinned {
				pin = " (pinned)"
			}
			if tab.URL == "" {
				fmt.Fprintf(&b, "- %s%s\n", title, pin)
				continue
			}
			fmt.Fprintf(&b, "- [%s](%s)%s\n", escapeBrackets(title), tab.URL, pin)
		}
	}

	return b.String()
}

func tabCount(shown, total int) string {
	noun := "tabs"
	if total == 1 {
		noun = "tab"
	}
	if shown == total {
		return fmt.Sprintf("%d %s", total, noun)
	}
	return fmt.Sprintf("%d of %d %s", shown, total, noun)
}

func describeFilter(fs types.FilterState) string {
	var parts []string
	if fs.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", fs.Query))
	}
	if fs.Domain != "" && fs.Domain != types.DomainAll {
		parts = append(parts, "domain "+fs.Domain)
	}
	return strings.Join(parts, ", ")
}

var bracketEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

func escapeBrackets(s string) string {
	return bracketEscaper.Replace(s)
}
