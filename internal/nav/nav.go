// Package nav discovers pages and builds the ordered sidebar tree.
package nav

import (
	"regexp"
	"sort"
	"strings"

	"github.com/marden/tetrion/internal/storage"
	"github.com/marden/tetrion/internal/titlecase"
)

// Node types.
const (
	TypeDir  = "dir"
	TypePage = "page"
)

// Node is one entry in the sidebar tree: a directory with children or a
// leaf page.
type Node struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Key      string  `json:"key,omitempty"`
	Path     string  `json:"path,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Ordering carries the explicit sidebar ordering tables. TopLevel lists
// top-level directory keys in display order; Pages maps a directory key to
// its page order (matched by the page folder name). Entries are compared
// case-insensitively with hyphens and spaces treated alike, so "Overview"
// matches a folder named "overview" and "T-Spin Double" matches
// "t-spin-double". Anything absent from a table sorts after it,
// alphabetically.
type Ordering struct {
	TopLevel []string
	Pages    map[string][]string
}

// DefaultOrdering is the production sidebar ordering.
func DefaultOrdering() Ordering {
	return Ordering{
		TopLevel: []string{
			"Basics",
			"Single Double",
			"Double Double",
			"Double Triple",
			"Super T-Spin Double",
			"Imperial Cross",
			"C-Spin",
			"Advanced",
		},
		Pages: map[string][]string{
			"Basics":              {"Overview", "T-Spin Double", "T-Spin Triple"},
			"Single Double":       {"Main setup"},
			"Double Double":       {"Fractal", "Cut Copy", "STSD & Imperial Cross"},
			"Double Triple":       {"DT Cannon", "DT Cannon 2", "BT Cannon"},
			"Super T-Spin Double": {"Main setup", "Used in spliced setups"},
			"Imperial Cross":      {"Main setup", "Used in spliced setups"},
			"C-Spin":              {"Main setup"},
			"Advanced": {
				"Spliced STSD variants",
				"Sandwhiching a setup with notch and base",
				"Sandwhiching a T-Spin Triple",
				"Layering a setup on top of a setup",
				"Sandwhiching a set up inside a setup",
			},
		},
	}
}

// normalize folds a key for ordering-table comparison.
func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "-", " "))
}

func (o Ordering) pageOrder(dirKey string) ([]string, bool) {
	want := normalize(dirKey)
	for k, v := range o.Pages {
		if normalize(k) == want {
			return v, true
		}
	}
	return nil, false
}

// Builder constructs the sidebar tree from the current content set.
// The tree is rebuilt from storage on every Build call.
type Builder struct {
	store    storage.Provider
	ordering Ordering
}

// NewBuilder creates a Builder with the given ordering tables.
func NewBuilder(store storage.Provider, ordering Ordering) *Builder {
	return &Builder{store: store, ordering: ordering}
}

// boardRefRe re-parses board embeds independently of the render path; the
// validity check must not depend on a full render succeeding.
var boardRefRe = regexp.MustCompile(`(?i)\[\[\s*(?:BOARD|BOARDS)\s*:\s*([^\]]+?)\s*\]\]`)

// Displayable reports whether every board a page references exists on
// disk. Unreadable pages report false; the check is advisory and hides
// the page from navigation without ever failing the tree build.
func (b *Builder) Displayable(pagePath string) bool {
	data, err := b.store.Read(pagePath + "/" + storage.PageFile)
	if err != nil {
		return false
	}
	for _, m := range boardRefRe.FindAllStringSubmatch(string(data), -1) {
		for _, f := range strings.Split(m[1], ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if !b.store.Exists(pagePath + "/" + storage.BoardsDir + "/" + f) {
				return false
			}
		}
	}
	return true
}

// Build discovers all displayable pages and assembles the ordered forest.
// Path depth maps to tree shape: one segment puts the page under a
// synthetic root bucket, two segments under a top-level directory, and
// three or more under one second-level subdirectory (only the first two
// segments key directories).
func (b *Builder) Build() ([]*Node, error) {
	pages, err := b.store.ListPages()
	if err != nil {
		return nil, err
	}

	tops := make(map[string]*Node)
	var topKeys []string

	for _, pagePath := range pages {
		if !b.Displayable(pagePath) {
			continue
		}

		parts := strings.Split(pagePath, "/")
		var topKey, subKey, name string
		switch len(parts) {
		case 1:
			topKey, name = "root", parts[0]
		case 2:
			topKey, name = parts[0], parts[1]
		default:
			topKey, subKey, name = parts[0], parts[1], parts[len(parts)-1]
		}

		top, ok := tops[topKey]
		if !ok {
			display := "Root"
			if topKey != "root" {
				display = displayName(topKey)
			}
			top = &Node{Type: TypeDir, Name: display, Key: topKey}
			tops[topKey] = top
			topKeys = append(topKeys, topKey)
		}

		pageNode := &Node{Type: TypePage, Name: displayName(name), Path: pagePath}

		if subKey != "" {
			sub := findDir(top.Children, subKey)
			if sub == nil {
				sub = &Node{Type: TypeDir, Name: displayName(subKey), Key: subKey}
				top.Children = append(top.Children, sub)
			}
			sub.Children = append(sub.Children, pageNode)
		} else {
			top.Children = append(top.Children, pageNode)
		}
	}

	for _, top := range tops {
		b.sortChildren(top)
	}

	return b.orderTopLevel(tops, topKeys), nil
}

func findDir(children []*Node, key string) *Node {
	for _, c := range children {
		if c.Type == TypeDir && c.Key == key {
			return c
		}
	}
	return nil
}

func displayName(segment string) string {
	return titlecase.Title(strings.ReplaceAll(segment, "-", " "))
}

// sortChildren orders a directory's children: subdirectories first,
// alphabetical by display name, then pages per the directory's override
// list with the rest appended alphabetically.
func (b *Builder) sortChildren(dir *Node) {
	var dirs, pages []*Node
	for _, c := range dir.Children {
		if c.Type == TypeDir {
			b.sortChildren(c)
			dirs = append(dirs, c)
		} else {
			pages = append(pages, c)
		}
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].Name) < strings.ToLower(dirs[j].Name)
	})

	if order, ok := b.ordering.pageOrder(dir.Key); ok {
		pages = orderPages(pages, order)
	} else {
		sort.SliceStable(pages, func(i, j int) bool {
			return strings.ToLower(pages[i].Name) < strings.ToLower(pages[j].Name)
		})
	}

	dir.Children = append(dirs, pages...)
}

// orderPages emits pages named in the override list first, in list order,
// then the remainder alphabetically by display name.
func orderPages(pages []*Node, order []string) []*Node {
	pageKey := func(n *Node) string {
		parts := strings.Split(n.Path, "/")
		return parts[len(parts)-1]
	}

	used := make(map[*Node]bool, len(pages))
	var out []*Node
	for _, name := range order {
		want := normalize(name)
		for _, p := range pages {
			if !used[p] && normalize(pageKey(p)) == want {
				used[p] = true
				out = append(out, p)
				break
			}
		}
	}

	var rest []*Node
	for _, p := range pages {
		if !used[p] {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return strings.ToLower(rest[i].Name) < strings.ToLower(rest[j].Name)
	})
	return append(out, rest...)
}

// orderTopLevel emits top-level directories per the global order list,
// then any remaining directories alphabetically by key.
func (b *Builder) orderTopLevel(tops map[string]*Node, keys []string) []*Node {
	used := make(map[string]bool, len(tops))
	var out []*Node
	for _, name := range b.ordering.TopLevel {
		want := normalize(name)
		for _, k := range keys {
			if !used[k] && normalize(k) == want {
				used[k] = true
				out = append(out, tops[k])
			}
		}
	}

	var rest []string
	for _, k := range keys {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, tops[k])
	}
	return out
}
