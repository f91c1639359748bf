// Package markup converts the lightweight inline syntax used in page
// bodies (bold, italic, and flat bullet/numbered lists) into HTML.
// It performs no escaping: page bodies are trusted content and anything
// outside the recognized syntax passes through verbatim.
package markup

import (
	"regexp"
	"strings"
)

var (
	doubleBoldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`_([^_\n]+?)_`)
	listMarkerRe = regexp.MustCompile(`^\s*([-*]|\d+\.)\s`)
	bulletRe     = regexp.MustCompile(`^(\s*)([-*])\s+(.+)$`)
	numberedRe   = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.+)$`)
)

// Convert applies the inline passes in their fixed order: double-asterisk
// bold, single-asterisk bold, underscore italic, then list conversion.
// Each pass is written so it cannot re-trigger the previous one.
func Convert(content string) string {
	content = convertEmphasis(content)
	return convertLists(content)
}

func convertEmphasis(content string) string {
	content = doubleBoldRe.ReplaceAllString(content, "<strong>$1</strong>")

	// Single-asterisk bold is applied line by line so list bullets are
	// never mistaken for emphasis markers.
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if listMarkerRe.MatchString(line) {
			continue
		}
		lines[i] = convertSingleBold(line)
	}
	content = strings.Join(lines, "\n")

	return italicRe.ReplaceAllString(content, "<em>$1</em>")
}

// convertSingleBold wraps *text* in strong tags. A delimiter adjacent to
// another asterisk is not a delimiter, which keeps this pass from
// re-matching text the double-asterisk pass already handled.
func convertSingleBold(line string) string {
	var sb strings.Builder
	i := 0
	for i < len(line) {
		c := line[i]
		if c != '*' || (i > 0 && line[i-1] == '*') {
			sb.WriteByte(c)
			i++
			continue
		}
		// Candidate opener: find the closing asterisk.
		j := strings.IndexByte(line[i+1:], '*')
		if j < 0 || j == 0 {
			// No closer, or empty content.
			sb.WriteByte(c)
			i++
			continue
		}
		end := i + 1 + j
		if end+1 < len(line) && line[end+1] == '*' {
			// Closer is part of a "**" pair; not a delimiter here.
			sb.WriteByte(c)
			i++
			continue
		}
		sb.WriteString("<strong>")
		sb.WriteString(line[i+1 : end])
		sb.WriteString("</strong>")
		i = end + 1
	}
	return sb.String()
}

type listKind int

const (
	kindNone listKind = iota
	kindBullet
	kindNumbered
)

func matchListItem(line string) (listKind, string) {
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		return kindBullet, m[3]
	}
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		return kindNumbered, m[3]
	}
	return kindNone, ""
}

// convertLists collects runs of consecutive list lines into flat ul/ol
// blocks. A run ends on a blank line, a non-list line, or a change of
// list kind; indentation never nests.
func convertLists(content string) string {
	lines := strings.Split(content, "\n")
	var out []string
	i := 0

	for i < len(lines) {
		kind, item := matchListItem(lines[i])
		if kind == kindNone {
			out = append(out, lines[i])
			i++
			continue
		}

		items := []string{item}
		i++
		for i < len(lines) {
			if strings.TrimSpace(lines[i]) == "" {
				break
			}
			k, it := matchListItem(lines[i])
			if k != kind {
				break
			}
			items = append(items, it)
			i++
		}

		tag, class := "ul", "bullet-list"
		if kind == kindNumbered {
			tag, class = "ol", "numbered-list"
		}
		out = append(out, "<"+tag+` class="`+class+`">`)
		for _, it := range items {
			out = append(out, "  <li>"+it+"</li>")
		}
		out = append(out, "</"+tag+">")
	}

	return strings.Join(out, "\n")
}
