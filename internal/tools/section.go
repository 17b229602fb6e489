package tools

import "strings"

// sliceSection extracts the section of a markdown document matching the
// requested heading. The first line whose lowercased text contains (or, after
// trimming, exactly equals) the heading starts the section; it extends to the
// line before the next heading at the same or a higher markup level, or to
// the end of the document. Non-heading match lines are bounded at level 2,
// so "## B" ends a section opened by a plain-text match while "### sub"
// does not. First match wins; there is no fuzzy fallback.
func sliceSection(content, heading string) (string, bool) {
	lines := strings.Split(content, "\n")
	needle := strings.ToLower(strings.TrimSpace(heading))
	if needle == "" {
		return "", false
	}

	start := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, needle) || strings.TrimSpace(lower) == needle {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}

	boundary := headingLevel(lines[start])
	if boundary == 0 {
		boundary = 2
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if lvl := headingLevel(lines[i]); lvl != 0 && lvl <= boundary {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n")), true
}

// headingLevel returns the markdown heading level of a line, or 0 when the
// line is not a heading.
func headingLevel(line string) int {
	trimmed := strings.TrimSpace(line)
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 {
		return 0
	}
	if n == len(trimmed) || trimmed[n] == ' ' {
		return n
	}
	return 0
}
