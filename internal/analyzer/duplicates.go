package analyzer

import (
	"net/url"
	"sort"
	"strings"

	"github.com/lotas/tabstash/internal/types"
)

func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	params := u.Query()
	for k := range params {
		sort.Strings(params[k])
	}
	u.RawQuery = params.Encode()
	result := u.String()
	if strings.HasSuffix(result, "/") && result != u.Scheme+"://"+u.Host+"/" {
		result = strings.TrimRight(result, "/")
	}
	return result
}

// DuplicateTabs returns, for each tab index that shares its normalized URL
// with another tab of the same slice, the indices of the other copies.
// Tabs without a URL never count as duplicates.
func DuplicateTabs(tabs []types.Tab) map[int][]int {
	groups := make(map[string][]int)
	for i, tab := range tabs {
		if tab.URL == "" {
			continue
		}
		normalized := NormalizeURL(tab.URL)
		groups[normalized] = append(groups[normalized], i)
	}
	dups := make(map[int][]int)
	for _, indices := range groups {
		if len(indices) < 2 {
			continue
		}
		for _, i := range indices {
			var others []int
			for _, j := range indices {
				if j != i {
					others = append(others, j)
				}
			}
			dups[i] = others
		}
	}
	return dups
}
