// Package storage defines the content-root file-system abstraction.
package storage

// PageFile is the marker file that makes a directory a page folder.
const PageFile = "page.txt"

// BoardsDir is the per-page subdirectory holding board files.
const BoardsDir = "boards"

// Provider is the interface for content-root file operations. All paths are
// slash-separated and relative to the content root.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating directories as needed.
	Write(path string, content []byte) error
	// Exists reports whether a file exists at path.
	Exists(path string) bool
	// ListPages returns the path of every page folder (a directory containing
	// a page.txt), sorted, excluding reserved technical directories.
	ListPages() ([]string, error)
}
