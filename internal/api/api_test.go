package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marden/tetrion/internal/guideservice"
	"github.com/marden/tetrion/internal/nav"
	"github.com/marden/tetrion/internal/storage"
	"github.com/marden/tetrion/internal/testutil"
)

// testEnv sets up a temp content root, service, and router for testing.
// authToken="" means disabled mode; non-empty means token mode.
func testEnv(t *testing.T, authToken string) (storage.Provider, http.Handler) {
	t.Helper()
	_, store := testutil.TestContent(t)
	svc := guideservice.NewService(store, nav.DefaultOrdering())
	router := NewRouter(svc, authToken != "", authToken, nil)
	return store, router
}

func TestGetPage(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics", `<div class="h1">The Basics</div>`+"\nKeep the stack flat.")

	req := httptest.NewRequest(http.MethodGet, "/pages/basics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var page PageDetail
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if page.Path != "basics" {
		t.Errorf("path = %q", page.Path)
	}
	if !strings.Contains(page.HTML, `<div class="h1"`) {
		t.Errorf("html missing heading: %s", page.HTML)
	}
	if page.Checksum == "" {
		t.Error("checksum should be set")
	}
}

func TestGetPage_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/pages/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing page = %d, want 404", w.Code)
	}
}

func TestGetPage_EditorMode(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics/openers", "[[BOARD: start.txt]]")
	testutil.WriteBoard(t, store, "basics/openers", "start.txt", "tt________")

	req := httptest.NewRequest(http.MethodGet, "/pages/basics/openers?editor=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var page PageDetail
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if !strings.Contains(page.HTML, "board-dropdown-item") {
		t.Error("editor mode should render editing controls")
	}
	// Editor views carry no breadcrumb.
	if len(page.Breadcrumb) != 0 {
		t.Errorf("breadcrumb in editor mode = %v, want none", page.Breadcrumb)
	}
}

func TestGetPage_EncodedSlash(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics/overview", "hello")

	req := httptest.NewRequest(http.MethodGet, "/pages/basics%2Foverview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("encoded slash get = %d, want 200", w.Code)
	}
}

func TestSavePageWithOptimisticLocking(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics", "v1")

	req := httptest.NewRequest(http.MethodGet, "/pages/basics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var current PageDetail
	_ = json.Unmarshal(w.Body.Bytes(), &current)

	// Save with correct checksum.
	body, _ := json.Marshal(map[string]string{"content": "v2"})
	req = httptest.NewRequest(http.MethodPut, "/pages/basics", bytes.NewReader(body))
	req.Header.Set("If-Match", current.Checksum)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save with correct checksum = %d, body = %s", w.Code, w.Body.String())
	}

	// Save with stale checksum → 409.
	req = httptest.NewRequest(http.MethodPut, "/pages/basics", bytes.NewReader(body))
	req.Header.Set("If-Match", current.Checksum) // stale now
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("save with stale checksum = %d, want 409", w.Code)
	}
}

func TestSavePage_QuotedIfMatch(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics", "v1")

	req := httptest.NewRequest(http.MethodGet, "/pages/basics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var current PageDetail
	_ = json.Unmarshal(w.Body.Bytes(), &current)

	body, _ := json.Marshal(map[string]string{"content": "v2"})
	req = httptest.NewRequest(http.MethodPut, "/pages/basics", bytes.NewReader(body))
	req.Header.Set("If-Match", `"`+current.Checksum+`"`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("save with quoted If-Match = %d, want 200", w.Code)
	}
}

func TestSavePage_WithoutIfMatch(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics", "v1")

	// Save without If-Match should succeed (no locking enforced).
	body, _ := json.Marshal(map[string]string{"content": "v2"})
	req := httptest.NewRequest(http.MethodPut, "/pages/basics", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("save without If-Match = %d, want 200", w.Code)
	}
}

func TestSavePage_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	// Saving never creates pages.
	body, _ := json.Marshal(map[string]string{"content": "x"})
	req := httptest.NewRequest(http.MethodPut, "/pages/ghost", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("save missing page = %d, want 404", w.Code)
	}
}

func TestSaveBoard(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WriteBoard(t, store, "basics", "start.txt", "# PIECES: t\ntt________")

	body, _ := json.Marshal(map[string][]string{"grid": {"zz________", "s_________"}})
	req := httptest.NewRequest(http.MethodPut, "/boards/basics/boards/start.txt", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("save board = %d, body = %s", w.Code, w.Body.String())
	}

	saved, err := store.Read("basics/boards/start.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := "# PIECES: t\nzz________\ns_________\n"
	if string(saved) != want {
		t.Errorf("saved board = %q, want %q", saved, want)
	}
}

func TestSaveBoard_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(map[string][]string{"grid": {"zz________"}})
	req := httptest.NewRequest(http.MethodPut, "/boards/basics/boards/nope.txt", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("save missing board = %d, want 404", w.Code)
	}
}

func TestSaveBoard_InvalidPath(t *testing.T) {
	_, router := testEnv(t, "")

	// Path not under a boards directory resolves to no board.
	body, _ := json.Marshal(map[string][]string{"grid": {"zz________"}})
	req := httptest.NewRequest(http.MethodPut, "/boards/basics/start.txt", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("invalid board path = %d, want 404", w.Code)
	}
}

func TestSaveBoard_EmptyGrid(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(map[string][]string{"grid": {}})
	req := httptest.NewRequest(http.MethodPut, "/boards/basics/boards/x.txt", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty grid = %d, want 400", w.Code)
	}
}

func TestListPages(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics", "a")
	testutil.WritePage(t, store, "openers/tki", "b")

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	pages := resp["pages"].([]any)
	if len(pages) != 2 {
		t.Errorf("len(pages) = %d, want 2", len(pages))
	}
}

func TestSidebarEndpoint(t *testing.T) {
	store, router := testEnv(t, "")
	testutil.WritePage(t, store, "basics/overview", "a")
	testutil.WritePage(t, store, "basics/stacking", "b")

	req := httptest.NewRequest(http.MethodGet, "/sidebar", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sidebar = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	tree := resp["tree"].([]any)
	if len(tree) != 1 {
		t.Fatalf("top-level nodes = %d, want 1", len(tree))
	}
	top := tree[0].(map[string]any)
	if top["name"] != "Basics" {
		t.Errorf("top name = %v, want Basics", top["name"])
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	store, router := testEnv(t, "secret123")
	testutil.WritePage(t, store, "basics", "a")

	req := httptest.NewRequest(http.MethodGet, "/pages/basics", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed get = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	_, store := testutil.TestContent(t)
	svc := guideservice.NewService(store, nav.DefaultOrdering())

	// Minimal SSE handler stub: writes headers and blocks until context done.
	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})

	return NewRouter(svc, authEnabled, token, sseHandler)
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}
