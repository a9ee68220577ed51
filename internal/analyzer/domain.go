package analyzer

import (
	"net/url"
	"strings"
)

// DomainOf returns the display domain of rawURL: its hostname with one
// leading "www." removed. Unparsable URLs and URLs without a host yield "".
func DomainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := lowerASCII(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// lowerASCII lowercases A-Z only; internationalized labels are left alone.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
