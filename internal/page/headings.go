package page

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	boardPlaceholderRe = regexp.MustCompile(`(?i)\[\[\s*(BOARD|BOARDS)\s*:\s*([^\]]+?)\s*\]\]`)
	headingRe          = regexp.MustCompile(`(?i)<div class="(h1|h2|h3)">(.*?)</div>`)
	anchorStripRe      = regexp.MustCompile(`[^a-z0-9\s-]`)
	anchorSpaceRe      = regexp.MustCompile(`\s+`)
)

// Heading is a level 1–3 heading extracted from rendered page HTML.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// AnchorID derives a URL-fragment-safe id from heading text: lowercase,
// unsupported characters stripped, whitespace runs collapsed to single
// hyphens, leading and trailing hyphens trimmed.
func AnchorID(text string) string {
	id := strings.ToLower(text)
	id = anchorStripRe.ReplaceAllString(id, "")
	id = anchorSpaceRe.ReplaceAllString(id, "-")
	return strings.Trim(id, "-")
}

// ExtractHeadings scans rendered HTML for heading blocks and returns them
// in document order with computed anchor ids. Duplicate headings are
// reported once per occurrence; ids are not deduplicated.
func ExtractHeadings(html string) []Heading {
	var out []Heading
	for _, m := range headingRe.FindAllStringSubmatch(html, -1) {
		text := strings.TrimSpace(m[2])
		level := int(m[1][1] - '0')
		out = append(out, Heading{Level: level, Text: text, ID: AnchorID(text)})
	}
	return out
}

// AddHeadingIDs rewrites heading blocks in place to carry their anchor id.
// Only the first occurrence of each (level, text) pair is rewritten; a
// repeated heading keeps no anchor on later occurrences. That asymmetry is
// long-standing behavior that in-page links rely on, so it stays.
func AddHeadingIDs(html string, headings []Heading) string {
	type key struct {
		level int
		text  string
	}
	seen := make(map[key]bool, len(headings))
	for _, h := range headings {
		k := key{h.Level, h.Text}
		if seen[k] {
			continue
		}
		seen[k] = true
		target := fmt.Sprintf(`<div class="h%d">%s</div>`, h.Level, h.Text)
		repl := fmt.Sprintf(`<div class="h%d" id="%s">%s</div>`, h.Level, h.ID, h.Text)
		html = strings.Replace(html, target, repl, 1)
	}
	return html
}
