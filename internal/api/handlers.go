package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marden/tetrion/internal/apperr"
	"github.com/marden/tetrion/internal/guideservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *guideservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *guideservice.Service) *Handler {
	return &Handler{svc: svc}
}

// wildcardPath extracts the content path from the URL (everything after the
// route prefix). Supports encoded slashes from OpenAPI clients
// (e.g. openers%2Fperfect-clear).
func wildcardPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
//
//	@Summary		List all guide pages
//	@Tags			pages
//	@Produce		json
//	@Success		200	{object}	PageListResponse
//	@Security		BearerAuth
//	@Router			/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPages(r.Context())
	if err != nil {
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pages": items,
		"total": len(items),
	})
}

// GetPage handles GET /api/pages/*.
//
//	@Summary		Get a rendered page by path
//	@Tags			pages
//	@Produce		json
//	@Param			path	path		string	true	"Page path"
//	@Param			editor	query		bool	false	"Render boards with editing controls"
//	@Success		200		{object}	PageDetail
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{path} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	editor, _ := strconv.ParseBool(r.URL.Query().Get("editor"))
	page, err := h.svc.GetPage(r.Context(), path, editor)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrPageNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrBoardNotFound):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("page references a missing board"))
		default:
			slog.Error("get page failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SavePage handles PUT /api/pages/*.
//
//	@Summary		Save a page source with optimistic concurrency
//	@Tags			pages
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string			true	"Page path"
//	@Param			If-Match	header	string			false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	SavePageRequest	true	"New page source"
//	@Success		200		{object}	PageDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{path} [put]
func (h *Handler) SavePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req SavePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	page, err := h.svc.SavePage(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrPageNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			slog.Error("save page failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SaveBoard handles PUT /api/boards/*.
//
//	@Summary		Save a board grid, preserving its metadata header
//	@Tags			boards
//	@Accept			json
//	@Param			path	path	string				true	"Board path"
//	@Param			body	body	SaveBoardRequest	true	"New grid rows"
//	@Success		204		"Board saved"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{path} [put]
func (h *Handler) SaveBoard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	boardID := wildcardPath(r)
	if boardID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req SaveBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Grid) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("grid is required"))
		return
	}

	if err := h.svc.SaveBoard(r.Context(), boardID, req.Grid); err != nil {
		switch {
		case errors.Is(err, apperr.ErrBoardNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("save board failed", slog.String("path", boardID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sidebar handles GET /api/sidebar.
//
//	@Summary		Get the navigation tree
//	@Tags			sidebar
//	@Produce		json
//	@Success		200	{object}	SidebarResponse
//	@Security		BearerAuth
//	@Router			/sidebar [get]
func (h *Handler) Sidebar(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Sidebar(r.Context())
	if err != nil {
		slog.Error("sidebar failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tree": tree,
	})
}
