// Package testutil provides shared test helpers for setting up content roots.
package testutil

import (
	"testing"

	"github.com/marden/tetrion/internal/storage"
)

// TestContent creates a temporary content root with a storage.Provider.
func TestContent(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WritePage writes a page.txt for the given page path.
func WritePage(t *testing.T, store storage.Provider, pagePath, content string) {
	t.Helper()
	if err := store.Write(pagePath+"/"+storage.PageFile, []byte(content)); err != nil {
		t.Fatal(err)
	}
}

// WriteBoard writes a board file under the page's boards directory.
func WriteBoard(t *testing.T, store storage.Provider, pagePath, filename, content string) {
	t.Helper()
	if err := store.Write(pagePath+"/"+storage.BoardsDir+"/"+filename, []byte(content)); err != nil {
		t.Fatal(err)
	}
}
