// Package markdown provides line-based markdown structure helpers
// shared by validation and chunking: code-fence region tracking,
// heading extraction, and slug generation.
//
// Everything here is deterministic and line-based; no markdown AST is
// built. Fences toggle on lines beginning (after indentation) with
// ``` or ~~~, and only the matching delimiter closes a fence.
package markdown

import (
	"regexp"
	"strings"
)

// Region is a run of consecutive lines that are either all inside or
// all outside fenced code blocks. Fence delimiter lines themselves are
// code regions.
type Region struct {
	InFence bool
	Lines   []string
}

var (
	reFence   = regexp.MustCompile("^\\s*(```|~~~)")
	reH1      = regexp.MustCompile(`^\s*#\s+\S`)
	reH2      = regexp.MustCompile(`^\s*##\s+(.+?)\s*$`)
	reSlugDis = regexp.MustCompile(`[^a-z0-9]+`)
	reSlugDup = regexp.MustCompile(`-{2,}`)
)

// FenceRegions splits lines into fence-aware regions. Lines must keep
// their trailing newlines so regions concatenate back to the input.
func FenceRegions(lines []string) []Region {
	var out []Region
	inFence := false
	fenceDelim := ""
	var buf []string

	flush := func() {
		if len(buf) > 0 {
			out = append(out, Region{InFence: inFence, Lines: buf})
			buf = nil
		}
	}

	for _, line := range lines {
		m := reFence.FindStringSubmatch(line)
		if m == nil {
			buf = append(buf, line)
			continue
		}
		flush()
		out = append(out, Region{InFence: true, Lines: []string{line}})
		delim := m[1]
		if !inFence {
			inFence = true
			fenceDelim = delim
		} else if fenceDelim == delim {
			inFence = false
			fenceDelim = ""
		}
	}

	flush()
	return out
}

// SplitLines splits text into lines keeping the trailing newline on
// each, so joining the result reproduces the input exactly.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ExtractH1 returns the first H1 heading text in body, or "".
func ExtractH1(body string) string {
	for _, line := range SplitLines(body) {
		if reH1.MatchString(line) {
			text := strings.TrimSpace(line)
			text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
			return text
		}
	}
	return ""
}

// HasH1 reports whether body contains an H1 heading.
func HasH1(body string) bool {
	return ExtractH1(body) != ""
}

// MatchH2 returns the H2 heading text of a line, or "" when the line
// is not an H2 heading.
func MatchH2(line string) string {
	m := reH2.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	// "### deeper" also matches `##` prefix; reject deeper levels.
	if strings.HasPrefix(strings.TrimSpace(line), "###") {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Slugify lowercases s and collapses non-alphanumeric runs into single
// hyphens. Empty results become "root" so slugs are always usable as
// chunk id components.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reSlugDis.ReplaceAllString(s, "-")
	s = reSlugDup.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "root"
	}
	return s
}
