// Package page turns raw page text into rendered HTML fragments.
//
// The page grammar is line-oriented: "---" section breaks, "SOURCE:"
// citation lines, [[BOARD: ...]] / [[BOARDS: ...]] board embeds, and the
// inline bold/italic/list syntax handled by the markup package. Anything
// else passes through as raw markup.
package page

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marden/tetrion/internal/apperr"
	"github.com/marden/tetrion/internal/board"
	"github.com/marden/tetrion/internal/markup"
	"github.com/marden/tetrion/internal/storage"
)

// Citation is a source reference extracted from a SOURCE: line.
type Citation struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Result is the output of rendering one page.
type Result struct {
	HTML     string
	Sources  []Citation
	Headings []Heading
}

// Parser renders pages from a content store, delegating embedded boards
// to the board reader. It holds no mutable state; every render reads
// fresh from the store.
type Parser struct {
	store  storage.Provider
	boards *board.Reader
}

// NewParser creates a Parser over the given content store.
func NewParser(store storage.Provider) *Parser {
	return &Parser{store: store, boards: board.NewReader(store)}
}

// SourcePath returns the content-root path of a page's backing file.
func SourcePath(pagePath string) string {
	return pagePath + "/" + storage.PageFile
}

// ReadSource returns the raw text of a page. A missing backing file is
// reported as apperr.ErrPageNotFound.
func (p *Parser) ReadSource(pagePath string) (string, error) {
	data, err := p.store.Read(SourcePath(pagePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrPageNotFound, pagePath)
		}
		return "", err
	}
	return string(data), nil
}

// Render reads a page and converts it to an HTML fragment. breadcrumb, when
// non-nil, is injected into the page's title block. editor switches embedded
// boards to their editor variant.
func (p *Parser) Render(pagePath string, breadcrumb []Crumb, editor bool) (*Result, error) {
	raw, err := p.ReadSource(pagePath)
	if err != nil {
		return nil, err
	}
	return p.render(pagePath, raw, breadcrumb, editor)
}

type placeholder struct {
	kind      string // "BOARD" or "BOARDS"
	filenames []string
}

func (p *Parser) render(pagePath, raw string, breadcrumb []Crumb, editor bool) (*Result, error) {
	res := &Result{}

	// Line pass: section breaks and citations. Citation lines are removed
	// from the body entirely.
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "---":
			kept = append(kept, `<hr class="section-separator">`)
		case len(stripped) >= len("SOURCE:") && strings.EqualFold(stripped[:len("SOURCE:")], "SOURCE:"):
			payload := strings.TrimSpace(stripped[len("SOURCE:"):])
			// "label - url"; lines without the separator are dropped.
			if label, url, ok := strings.Cut(payload, " - "); ok {
				res.Sources = append(res.Sources, Citation{
					Label: strings.TrimSpace(label),
					URL:   strings.TrimSpace(url),
				})
			}
		default:
			kept = append(kept, line)
		}
	}
	body := strings.Join(kept, "\n")

	// Replace board embeds with numbered tokens so the markup passes never
	// see board payloads, then restore them in declaration order.
	var placeholders []placeholder
	body = boardPlaceholderRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := boardPlaceholderRe.FindStringSubmatch(m)
		placeholders = append(placeholders, placeholder{
			kind:      strings.ToUpper(sub[1]),
			filenames: splitFilenames(sub[2]),
		})
		return placeholderToken(len(placeholders) - 1)
	})

	body = markup.Convert(body)

	for idx, ph := range placeholders {
		frag, err := p.renderPlaceholder(pagePath, ph, editor)
		if err != nil {
			return nil, err
		}
		body = strings.ReplaceAll(body, placeholderToken(idx), frag)
	}

	res.Headings = ExtractHeadings(body)
	body = AddHeadingIDs(body, res.Headings)

	if len(breadcrumb) > 0 {
		body = InjectBreadcrumb(body, breadcrumb)
	}

	res.HTML = body
	return res, nil
}

// renderPlaceholder resolves one embed. A BOARD embed renders only its
// first filename; BOARDS renders up to the row limit. An empty filename
// list degrades to an empty fragment.
func (p *Parser) renderPlaceholder(pagePath string, ph placeholder, editor bool) (string, error) {
	if len(ph.filenames) == 0 {
		return "", nil
	}
	if ph.kind == "BOARD" {
		return p.boards.RenderRow(pagePath, ph.filenames[:1], editor)
	}
	return p.boards.RenderRow(pagePath, ph.filenames, editor)
}

func placeholderToken(idx int) string {
	return fmt.Sprintf("@@BOARDPLACEHOLDER%d@@", idx)
}

func splitFilenames(payload string) []string {
	var out []string
	for _, f := range strings.Split(payload, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
