package filter

import (
	"strings"
	"unicode/utf8"
)

// Span splits a text around the first case-insensitive occurrence of a
// query. When nothing matched, Before holds the whole text.
type Span struct {
	Matched bool
	Before  string
	Match   string
	After   string
	Start   int // rune offset of Match within the text
	Len     int // rune length of Match
}

// Text reassembles the original text.
func (s Span) Text() string {
	return s.Before + s.Match + s.After
}

// MatchSpan finds the first occurrence of query in text, ignoring case.
// Only one span is reported even if the query repeats.
func MatchSpan(text, query string) Span {
	if text == "" || query == "" {
		return Span{Before: text}
	}
	qn := utf8.RuneCountInString(query)

	start := 0
	for i := range text {
		end, n := i, 0
		for end < len(text) && n < qn {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
			n++
		}
		if n < qn {
			break
		}
		if strings.EqualFold(text[i:end], query) {
			return Span{
				Matched: true,
				Before:  text[:i],
				Match:   text[i:end],
				After:   text[end:],
				Start:   start,
				Len:     qn,
			}
		}
		start++
	}
	return Span{Before: text}
}
