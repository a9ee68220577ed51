package snapshot

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/types"
)

// ShortDateLayout renders the date suffix of a default snapshot name.
const ShortDateLayout = "Jan 2"

const (
	nameSeparator  = " • "
	fallbackLabel  = "Web"
	fallbackPrefix = "Snapshot"
)

// friendlyAliases maps well-known domains to curated labels.
var friendlyAliases = map[string]string{
	"mail.google.com":   "Gmail",
	"docs.google.com":   "Google Docs",
	"youtube.com":       "YouTube",
	"m.youtube.com":     "YouTube",
	"youtu.be":          "YouTube",
	"github.com":        "GitHub",
	"medium.com":        "Medium",
	"stackoverflow.com": "Stack Overflow",
	"reddit.com":        "Reddit",
	"en.wikipedia.org":  "Wikipedia",
}

// FriendlyLabel returns the label used for a tab URL in default names.
func FriendlyLabel(rawURL string) string {
	domain := analyzer.DomainOf(rawURL)
	if domain == "" {
		return fallbackLabel
	}
	if alias, ok := friendlyAliases[domain]; ok {
		return alias
	}
	first, _, _ := strings.Cut(domain, ".")
	if first == "" {
		return fallbackLabel
	}
	r, size := utf8.DecodeRuneInString(first)
	return string(unicode.ToUpper(r)) + first[size:]
}

// NameFor builds the default name of a snapshot from its two most frequent
// friendly labels and its creation date.
func NameFor(tabs []types.Tab, createdAt time.Time) string {
	date := createdAt.Format(ShortDateLayout)

	type labelCount struct {
		label string
		count int
	}
	var order []*labelCount
	seen := make(map[string]*labelCount)
	for _, tab := range tabs {
		label := FriendlyLabel(tab.URL)
		lc, ok := seen[label]
		if !ok {
			lc = &labelCount{label: label}
			seen[label] = lc
			order = append(order, lc)
		}
		lc.count++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	switch len(order) {
	case 0:
		return fallbackPrefix + nameSeparator + date
	case 1:
		return order[0].label + nameSeparator + date
	default:
		return order[0].label + " + " + order[1].label + nameSeparator + date
	}
}
