package textnorm

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	mdLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// StripLinks removes markdown links (keeping the link text) and bare URLs.
// Harvested reviews routinely carry pasted links that add nothing to the
// summary and waste prompt budget.
func StripLinks(input string) string {
	input = mdLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// Flatten renders any markdown in the review, drops the resulting markup,
// strips links, and collapses the text to a single whitespace-normalized
// line suitable for embedding in a prompt.
func Flatten(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := htmlTagPattern.ReplaceAllString(string(rendered), " ")
	plain = StripLinks(plain)
	return strings.Join(strings.Fields(plain), " ")
}
