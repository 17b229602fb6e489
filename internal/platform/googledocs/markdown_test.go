package googledocs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLToMarkdownHeadingsAndInline(t *testing.T) {
	in := `<style>.c1{color:red}</style><h1>Title</h1><h2 class="c1">Section</h2><p>Some <strong>bold</strong> and <em>italic</em> text.</p>`

	out := HTMLToMarkdown(in)

	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "## Section")
	assert.Contains(t, out, "**bold**")
	assert.Contains(t, out, "*italic*")
	assert.NotContains(t, out, "color:red")
	assert.NotContains(t, out, "<")
}

func TestHTMLToMarkdownLists(t *testing.T) {
	in := `<ul><li>first</li><li>second</li></ul>`

	out := HTMLToMarkdown(in)

	assert.Contains(t, out, "- first")
	assert.Contains(t, out, "- second")
}

func TestHTMLToMarkdownEntitiesAndBlankLines(t *testing.T) {
	in := "<p>Fish &amp; Chips</p>\n\n\n\n<p>Next</p><br>tail"

	out := HTMLToMarkdown(in)

	assert.Contains(t, out, "Fish & Chips")
	assert.NotContains(t, out, "\n\n\n")
}

func TestHTMLToMarkdownStripsScripts(t *testing.T) {
	in := `<script>alert("x")</script><p>safe</p>`

	out := HTMLToMarkdown(in)

	assert.Equal(t, "safe", out)
}
