package main

import (
	"strings"

	"github.com/rivo/uniseg"
)

const maxPathGraphemes = 48

// truncateMiddle shortens s to at most limit grapheme clusters by replacing
// its middle with an ellipsis, so both the root and the folder name stay visible.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}

	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	keep := limit - 1
	head := keep / 2
	tail := keep - head
	return strings.Join(clusters[:head], "") + "…" + strings.Join(clusters[len(clusters)-tail:], "")
}

func pathLabelText(path string) string {
	if path == "" {
		return "Not selected"
	}
	return truncateMiddle(path, maxPathGraphemes)
}
