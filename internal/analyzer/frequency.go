package analyzer

import (
	"sort"

	"github.com/lotas/tabstash/internal/types"
)

// DomainCount maps a domain label to the number of tabs carrying it.
type DomainCount map[string]int

// DomainFreq is one entry of a ranked domain list.
type DomainFreq struct {
	Domain string
	Count  int
}

// CountsByDomain counts tabs per domain across every snapshot. Tabs whose
// URL has no attributable domain are skipped.
func CountsByDomain(snaps []types.Snapshot) DomainCount {
	counts := make(DomainCount)
	for _, s := range snaps {
		for _, tab := range s.Tabs {
			d := DomainOf(tab.URL)
			if d == "" {
				continue
			}
			counts[d]++
		}
	}
	return counts
}

// TopDomains returns at most n domains ordered by descending count, ties
// broken by label.
func TopDomains(counts DomainCount, n int) []DomainFreq {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	ranked := make([]DomainFreq, 0, len(counts))
	for d, c := range counts {
		ranked = append(ranked, DomainFreq{Domain: d, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RankedDomains returns every counted domain in TopDomains order.
func RankedDomains(counts DomainCount) []DomainFreq {
	return TopDomains(counts, len(counts))
}
