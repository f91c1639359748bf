package board

import (
	"path"
	"strings"

	"github.com/marden/tetrion/internal/titlecase"
)

// Fixed board geometry. Grids are clamped to these dimensions on render,
// never on read.
const (
	Height = 20
	Width  = 10
)

const emptyRow = "__________"

// MaxRowBoards caps how many boards render side by side in one row.
const MaxRowBoards = 3

var pieces = map[byte]bool{
	'i': true, 'o': true, 't': true, 's': true, 'z': true, 'j': true, 'l': true,
}

// Render converts a parsed board into a self-contained HTML fragment.
// boardID is the opaque identity attached to the markup
// (pagePath/boards/filename). In editor mode an options dropdown carrying
// the id is emitted above the grid; nothing else changes.
func Render(b *Board, boardID string, editor bool) string {
	rows := make([]string, len(b.Rows))
	copy(rows, b.Rows)
	for len(rows) < Height {
		rows = append(rows, emptyRow)
	}
	rows = rows[:Height]

	var sb strings.Builder

	if editor {
		sb.WriteString(`<div class="tetris-board-header">`)
		sb.WriteString(`<div class="board-dropdown">`)
		sb.WriteString(`<button class="board-dropdown-toggle" type="button" aria-label="Board options">`)
		sb.WriteString(`<span class="board-dropdown-icon">⋯</span>`)
		sb.WriteString(`</button>`)
		sb.WriteString(`<div class="board-dropdown-menu" style="display: none;">`)
		sb.WriteString(`<button class="board-dropdown-item" data-action="edit" data-board-id="` + boardID + `">Edit Board</button>`)
		sb.WriteString(`</div>`)
		sb.WriteString(`</div>`)
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`<div class="tetris-board" data-board-id="` + boardID + `"`)
	if len(b.Pieces) > 0 {
		sb.WriteString(` data-pieces="` + strings.Join(b.Pieces, ",") + `"`)
	}
	escaped := make([]string, len(rows))
	for i, r := range rows {
		escaped[i] = strings.ReplaceAll(r, `"`, "&quot;")
	}
	sb.WriteString(` data-grid="` + strings.Join(escaped, "|") + `"`)
	sb.WriteString(`>`)

	for _, row := range rows {
		sb.WriteString(`<div class="tetris-row">`)
		// Each row independently clamped to the board width.
		padded := pad(row)
		for i := 0; i < len(padded); i++ {
			ch := lower(padded[i])
			if pieces[ch] {
				sb.WriteString(`<div class="tetris-cell cell-` + string(ch) + `" data-piece="` + string(ch) + `"></div>`)
			} else {
				sb.WriteString(`<div class="tetris-cell cell-empty" data-piece=""></div>`)
			}
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// RenderRow renders up to MaxRowBoards boards side by side with captions
// derived from their filenames. Extra filenames are silently discarded.
// Rendering order follows the given order.
func (r *Reader) RenderRow(pagePath string, filenames []string, editor bool) (string, error) {
	limited := filenames
	if len(limited) > MaxRowBoards {
		limited = limited[:MaxRowBoards]
	}
	var sb strings.Builder
	sb.WriteString(`<div class="tetris-board-row">`)
	for _, filename := range limited {
		b, err := r.Read(pagePath, filename)
		if err != nil {
			return "", err
		}
		sb.WriteString(`<figure class="tetris-board-wrapper">`)
		sb.WriteString(Render(b, Path(pagePath, filename), editor))
		sb.WriteString(`<div class="tetris-board-caption">` + Caption(filename) + `</div>`)
		sb.WriteString(`</figure>`)
	}
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

// Caption derives a board's display caption from its filename stem:
// underscores become spaces, words are title-cased.
func Caption(filename string) string {
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	return titlecase.Title(strings.ReplaceAll(stem, "_", " "))
}

func pad(row string) string {
	if len(row) < Width {
		return row + strings.Repeat(" ", Width-len(row))
	}
	return row[:Width]
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
