package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

const maxSanitizePasses = 8

// SanitizeText strips every tag from s and trims it. The policy output is decoded back to plain
// text and stripped again until it no longer changes, so entity-encoded markup never survives.
func SanitizeText(s string) string {
	cur := s
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(cur))
}

func SanitizeMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = SanitizeText(v)
	}
	return out
}
