// Package guideservice coordinates storage, rendering, and navigation for
// the API layer.
package guideservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marden/tetrion/internal/apperr"
	"github.com/marden/tetrion/internal/board"
	"github.com/marden/tetrion/internal/checksum"
	"github.com/marden/tetrion/internal/nav"
	"github.com/marden/tetrion/internal/page"
	"github.com/marden/tetrion/internal/storage"
)

// PageDetail is the full rendered representation of a page.
type PageDetail struct {
	Path       string          `json:"path"`
	Raw        string          `json:"raw"`
	HTML       string          `json:"html"`
	Sources    []page.Citation `json:"sources"`
	Headings   []page.Heading  `json:"headings"`
	Breadcrumb []page.Crumb    `json:"breadcrumb,omitempty"`
	Checksum   string          `json:"checksum"`
}

// PageListItem is a lightweight item in a page list response.
type PageListItem struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Displayable bool   `json:"displayable"`
}

// Service coordinates content storage with the rendering pipeline.
type Service struct {
	store  storage.Provider
	parser *page.Parser
	nav    *nav.Builder
}

// NewService creates a guide service with the given sidebar ordering.
func NewService(store storage.Provider, ordering nav.Ordering) *Service {
	return &Service{
		store:  store,
		parser: page.NewParser(store),
		nav:    nav.NewBuilder(store, ordering),
	}
}

// GetPage reads and renders a page. The reading view carries a breadcrumb
// trail; the editor view renders boards with their edit controls and no
// breadcrumb.
func (s *Service) GetPage(_ context.Context, path string, editor bool) (*PageDetail, error) {
	raw, err := s.parser.ReadSource(path)
	if err != nil {
		return nil, err
	}

	var crumbs []page.Crumb
	if !editor {
		crumbs = page.Breadcrumb(path)
	}

	res, err := s.parser.Render(path, crumbs, editor)
	if err != nil {
		return nil, err
	}

	return &PageDetail{
		Path:       path,
		Raw:        raw,
		HTML:       res.HTML,
		Sources:    nonNilSlice(res.Sources),
		Headings:   nonNilSlice(res.Headings),
		Breadcrumb: crumbs,
		Checksum:   checksum.Sum([]byte(raw)),
	}, nil
}

// ListPages returns every discovered page with its display name and
// whether the navigation tree will show it.
func (s *Service) ListPages(_ context.Context) ([]PageListItem, error) {
	paths, err := s.store.ListPages()
	if err != nil {
		return nil, err
	}
	items := make([]PageListItem, len(paths))
	for i, p := range paths {
		parts := strings.Split(p, "/")
		items[i] = PageListItem{
			Path:        p,
			Name:        parts[len(parts)-1],
			Displayable: s.nav.Displayable(p),
		}
	}
	return items, nil
}

// Sidebar builds the ordered navigation forest from the current content.
func (s *Service) Sidebar(_ context.Context) ([]*nav.Node, error) {
	return s.nav.Build()
}

// SavePage overwrites a page's raw source with optimistic concurrency:
// a non-empty ifMatch must equal the current source checksum. Saving
// never creates pages; a missing backing file is ErrPageNotFound.
func (s *Service) SavePage(ctx context.Context, path string, content []byte, ifMatch string) (*PageDetail, error) {
	existing, err := s.store.Read(page.SourcePath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPageNotFound, path)
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(page.SourcePath(path), content); err != nil {
		return nil, err
	}
	return s.GetPage(ctx, path, false)
}

// SaveBoard replaces a board's grid by its opaque id
// (pagePath/boards/filename), preserving the metadata header lines at the
// top of the file.
func (s *Service) SaveBoard(_ context.Context, boardID string, grid []string) error {
	if !validBoardID(boardID) {
		return fmt.Errorf("%w: %s", apperr.ErrBoardNotFound, boardID)
	}
	existing, err := s.store.Read(boardID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", apperr.ErrBoardNotFound, boardID)
		}
		return err
	}

	lines := strings.Split(string(existing), "\n")
	meta := lines[:board.GridStart(existing)]

	content := strings.Join(append(meta, grid...), "\n") + "\n"
	return s.store.Write(boardID, []byte(content))
}

// validBoardID accepts only paths of the form <page path>/boards/<file>.
func validBoardID(id string) bool {
	parts := strings.Split(id, "/")
	return len(parts) >= 3 && parts[len(parts)-2] == storage.BoardsDir
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
