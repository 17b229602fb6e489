package googledocs

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Pre-compiled expressions for the HTML-to-markdown conversion.
var (
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	headingTags   = [4]*regexp.Regexp{}
	strongTags    = regexp.MustCompile(`(?is)<(?:strong|b)[^>]*>(.*?)</(?:strong|b)>`)
	emTags        = regexp.MustCompile(`(?is)<(?:em|i)[^>]*>(.*?)</(?:em|i)>`)
	listItemTag   = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	listWrapTags  = regexp.MustCompile(`(?i)</?[ou]l[^>]*>`)
	paragraphTag  = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	brTag         = regexp.MustCompile(`(?i)<br[^>]*>`)
	remainingTags = regexp.MustCompile(`<[^>]+>`)
	blankLineRuns = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

func init() {
	for i := range headingTags {
		level := i + 1
		headingTags[i] = regexp.MustCompile(fmt.Sprintf(`(?is)<h%d[^>]*>(.*?)</h%d>`, level, level))
	}
}

// HTMLToMarkdown converts a Google Docs HTML export into the plain
// markdown-ish text representation the content store uses: style blocks
// stripped, heading/bold/italic/list tags mapped, entities decoded, runs of
// blank lines collapsed.
func HTMLToMarkdown(in string) string {
	out := in

	out = styleTag.ReplaceAllString(out, "")
	out = scriptTag.ReplaceAllString(out, "")

	for i, re := range headingTags {
		prefix := strings.Repeat("#", i+1)
		out = re.ReplaceAllString(out, prefix+" $1\n\n")
	}

	out = strongTags.ReplaceAllString(out, "**$1**")
	out = emTags.ReplaceAllString(out, "*$1*")

	out = listItemTag.ReplaceAllString(out, "- $1\n")
	out = listWrapTags.ReplaceAllString(out, "\n")

	out = paragraphTag.ReplaceAllString(out, "$1\n\n")
	out = brTag.ReplaceAllString(out, "\n")

	out = remainingTags.ReplaceAllString(out, "")
	out = html.UnescapeString(out)

	out = blankLineRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
