package helpers

import (
	"errors"
	"strings"
)

// LastPathSegment returns the last non-empty path segment of a URL, with any
// query string or fragment stripped first. Listing URLs like
// https://streeteasy.com/building/51-1-avenue-new_york/9 yield "9".
func LastPathSegment(link string) (string, error) {
	base := strings.Split(link, "?")[0]
	base = strings.Split(base, "#")[0]

	parts := strings.Split(base, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if segment := strings.TrimSpace(parts[i]); segment != "" {
			return segment, nil
		}
	}
	return "", errors.New("no path segment found")
}

// SplitRecipients splits a recipient list on commas and semicolons and trims
// surrounding whitespace, dropping empty entries.
func SplitRecipients(list string) []string {
	normalized := strings.ReplaceAll(list, ";", ",")

	var recipients []string
	for _, part := range strings.Split(normalized, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	return recipients
}
