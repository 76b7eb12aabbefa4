// Package magna understands the plain HTML directory listings served by the
// Magna log host and the layout of the must-gather trees stored there.
package magna

import (
	"regexp"
	"strings"
)

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// Predicate selects hrefs of interest in a directory listing.
type Predicate func(href string) bool

// Contains matches hrefs containing any of the given substrings.
func Contains(substrs ...string) Predicate {
	return func(href string) bool {
		for _, s := range substrs {
			if strings.Contains(href, s) {
				return true
			}
		}
		return false
	}
}

// ScanHrefs returns the first href of every listing line that has one and
// satisfies match, in listing order.
func ScanHrefs(lines []string, match Predicate) []string {
	hrefs := []string{}
	for _, line := range lines {
		m := hrefPattern.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}
		if match != nil && !match(m[1]) {
			continue
		}
		hrefs = append(hrefs, m[1])
	}
	return hrefs
}

// AnyLineContains reports whether any listing line contains s.
func AnyLineContains(lines []string, s string) bool {
	for _, line := range lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}
