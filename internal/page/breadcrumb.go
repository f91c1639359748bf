package page

import (
	"regexp"
	"strings"

	"github.com/marden/tetrion/internal/titlecase"
)

var articleTitleRe = regexp.MustCompile(`<div class="article-title">(.*?)</div>`)

// Crumb is one segment of a breadcrumb trail.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumb builds the trail for a page path: one crumb per path segment,
// each carrying its cumulative path and a display name (hyphens to spaces,
// title-cased).
func Breadcrumb(pagePath string) []Crumb {
	parts := strings.Split(pagePath, "/")
	out := make([]Crumb, len(parts))
	for i, part := range parts {
		out[i] = Crumb{
			Name: titlecase.Title(strings.ReplaceAll(part, "-", " ")),
			Path: strings.Join(parts[:i+1], "/"),
		}
	}
	return out
}

// InjectBreadcrumb prefixes the breadcrumb trail inside the page's first
// article-title block. Directory segments render as inert labels; only the
// final segment is marked current. Pages without a title block are
// returned unchanged.
func InjectBreadcrumb(html string, crumbs []Crumb) string {
	if len(crumbs) == 0 {
		return html
	}

	var sb strings.Builder
	sb.WriteString(`<div class="breadcrumb">`)
	for _, c := range crumbs[:len(crumbs)-1] {
		sb.WriteString(`<span class="breadcrumb-directory">` + c.Name + `</span>`)
		sb.WriteString(`<span class="breadcrumb-separator">→</span>`)
	}
	sb.WriteString(`<span class="breadcrumb-current">` + crumbs[len(crumbs)-1].Name + `</span>`)
	sb.WriteString(`</div>`)

	loc := articleTitleRe.FindStringSubmatchIndex(html)
	if loc == nil {
		return html
	}
	// Insert between the opening tag and the title text.
	return html[:loc[2]] + sb.String() + html[loc[2]:]
}
