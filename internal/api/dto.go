package api

import (
	"github.com/marden/tetrion/internal/guideservice"
	"github.com/marden/tetrion/internal/nav"
)

// SavePageRequest is the request body for saving a page source.
type SavePageRequest struct {
	Content string `json:"content" example:"**Keep the stack flat.**" validate:"required"`
}

// SaveBoardRequest is the request body for saving a board grid.
type SaveBoardRequest struct {
	Grid []string `json:"grid" example:"tt________" validate:"required"`
}

// PageDetail is the full page response type (aliased from the domain layer).
type PageDetail = guideservice.PageDetail

// PageListItem is a lightweight item in a list response (aliased from the domain layer).
type PageListItem = guideservice.PageListItem

// PageListResponse wraps page listings.
type PageListResponse struct {
	Pages []PageListItem `json:"pages" validate:"required"`
	Total int            `json:"total" example:"12" validate:"required"`
}

// SidebarResponse wraps the navigation tree.
type SidebarResponse struct {
	Tree []*nav.Node `json:"tree" validate:"required"`
}
