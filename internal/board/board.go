// Package board reads Tetris board files and renders them as HTML grids.
//
// A board file holds an optional metadata header followed by the grid:
//
//	# PIECES: t, s, z
//	__________
//	____tt____
//	...
//
// Rows are read top first. Each cell is one of {i,o,t,s,z,j,l} or an empty
// marker; anything unrecognized renders as empty.
package board

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marden/tetrion/internal/apperr"
	"github.com/marden/tetrion/internal/storage"
)

// Board is a parsed board file: raw grid rows plus optional active pieces.
type Board struct {
	Rows   []string
	Pieces []string
}

// Reader loads board files from a page's boards directory.
type Reader struct {
	store storage.Provider
}

// NewReader creates a Reader over the given content store.
func NewReader(store storage.Provider) *Reader {
	return &Reader{store: store}
}

// Path returns the content-root path of a board file, which doubles as the
// board's opaque identity in rendered markup.
func Path(pagePath, filename string) string {
	return pagePath + "/" + storage.BoardsDir + "/" + filename
}

// Read loads and parses the board file for a page. A missing file is
// reported as apperr.ErrBoardNotFound.
func (r *Reader) Read(pagePath, filename string) (*Board, error) {
	data, err := r.store.Read(Path(pagePath, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrBoardNotFound, Path(pagePath, filename))
		}
		return nil, err
	}
	return Parse(data), nil
}

// Parse scans board file content. Lines before the grid may be blank
// (skipped) or metadata ("#"-prefixed). A metadata payload starting with
// PIECES: (case-insensitive) yields the piece list; other metadata lines
// are ignored. The first non-empty, non-metadata line starts the grid and
// every line from there on, blank or not, is a grid row verbatim.
func Parse(data []byte) *Board {
	b := &Board{}
	inGrid := false
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if inGrid {
			b.Rows = append(b.Rows, line)
			continue
		}
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if strings.HasPrefix(stripped, "#") {
			meta := strings.TrimSpace(strings.TrimLeft(stripped, "#"))
			if rest, ok := cutPrefixFold(meta, "PIECES:"); ok {
				b.Pieces = splitPieces(rest)
			}
			continue
		}
		inGrid = true
		b.Rows = append(b.Rows, line)
	}
	return b
}

// GridStart returns the index of the first grid line in raw board content,
// i.e. the number of leading blank/metadata lines. Used by save operations
// to preserve the metadata header.
func GridStart(data []byte) int {
	lines := strings.Split(string(data), "\n")
	end := 0
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if !strings.HasPrefix(stripped, "#") {
			return i
		}
		end = i + 1
	}
	// No grid yet: everything up to the last metadata line is header.
	return end
}

func splitPieces(payload string) []string {
	var out []string
	for _, p := range strings.Split(payload, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cutPrefixFold is strings.CutPrefix with ASCII case folding.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimSpace(s[len(prefix):]), true
	}
	return s, false
}
