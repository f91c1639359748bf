package board

import (
	"strings"
	"testing"
)

func TestRender_PadsToFullGrid(t *testing.T) {
	b := &Board{Rows: []string{"tt"}}
	html := Render(b, "p/boards/a.txt", false)

	if got := strings.Count(html, `<div class="tetris-row">`); got != Height {
		t.Errorf("row count = %d, want %d", got, Height)
	}
	if got := strings.Count(html, `<div class="tetris-cell`); got != Height*Width {
		t.Errorf("cell count = %d, want %d", got, Height*Width)
	}
	// Short row is space-padded: two t cells then empties.
	if got := strings.Count(html, "cell-t"); got != 2 {
		t.Errorf("t cells = %d, want 2", got)
	}
}

func TestRender_TruncatesOversizeGrid(t *testing.T) {
	rows := make([]string, 25)
	for i := range rows {
		rows[i] = strings.Repeat("i", 14) // wider than the board
	}
	html := Render(&Board{Rows: rows}, "p/boards/a.txt", false)

	if got := strings.Count(html, `<div class="tetris-row">`); got != Height {
		t.Errorf("row count = %d, want %d", got, Height)
	}
	if got := strings.Count(html, "cell-i"); got != Height*Width {
		t.Errorf("i cells = %d, want %d", got, Height*Width)
	}
}

func TestRender_CellClasses(t *testing.T) {
	b := &Board{Rows: []string{"IoXg______"}}
	html := Render(b, "id", false)

	for _, want := range []string{
		`class="tetris-cell cell-i" data-piece="i"`,
		`class="tetris-cell cell-o" data-piece="o"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q", want)
		}
	}
	// Unrecognized characters, including "g" and the padding underscore,
	// are empty.
	if strings.Contains(html, "cell-x") || strings.Contains(html, "cell-g") {
		t.Error("unrecognized char should not get a piece class")
	}
	if got := strings.Count(html, `cell-empty" data-piece=""`); got != Height*Width-2 {
		t.Errorf("empty cells = %d, want %d", got, Height*Width-2)
	}
}

func TestRender_DataAttributes(t *testing.T) {
	b := &Board{Rows: []string{`a"b`}, Pieces: []string{"i", "o"}}
	html := Render(b, "misc/demo/boards/x.txt", false)

	if !strings.Contains(html, `data-board-id="misc/demo/boards/x.txt"`) {
		t.Error("missing board id attribute")
	}
	if !strings.Contains(html, `data-pieces="i,o"`) {
		t.Error("missing pieces attribute")
	}
	if !strings.Contains(html, `data-grid="a&quot;b|`+emptyRow) {
		t.Error("grid attribute should carry escaped raw rows")
	}
}

func TestRender_NoPiecesAttributeWhenAbsent(t *testing.T) {
	html := Render(&Board{}, "id", false)
	if strings.Contains(html, "data-pieces") {
		t.Error("pieces attribute should be omitted when no pieces are set")
	}
}

func TestRender_EditorDropdown(t *testing.T) {
	html := Render(&Board{}, "p/boards/a.txt", true)
	if !strings.Contains(html, `class="board-dropdown-item" data-action="edit" data-board-id="p/boards/a.txt"`) {
		t.Error("editor mode should emit the dropdown with the board id")
	}

	plain := Render(&Board{}, "p/boards/a.txt", false)
	if strings.Contains(plain, "board-dropdown") {
		t.Error("read mode should not emit the dropdown")
	}
}

func TestRenderRow_LimitsToThree(t *testing.T) {
	store := testStore(t)
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		_ = store.Write("p/boards/"+name, []byte("tt________\n"))
	}
	r := NewReader(store)

	html, err := r.RenderRow("p", []string{"a.txt", "b.txt", "c.txt", "d.txt"}, false)
	if err != nil {
		t.Fatalf("RenderRow: %v", err)
	}
	if got := strings.Count(html, `<figure class="tetris-board-wrapper">`); got != 3 {
		t.Errorf("boards rendered = %d, want 3", got)
	}
	if strings.Contains(html, "d.txt") {
		t.Error("fourth board should be discarded")
	}
	// Declaration order preserved.
	if strings.Index(html, "a.txt") > strings.Index(html, "b.txt") {
		t.Error("boards out of order")
	}
}

func TestRenderRow_MissingBoardFails(t *testing.T) {
	r := NewReader(testStore(t))
	if _, err := r.RenderRow("p", []string{"nope.txt"}, false); err == nil {
		t.Error("expected error for missing board")
	}
}

func TestCaption(t *testing.T) {
	cases := map[string]string{
		"main_setup.txt":  "Main Setup",
		"t-spin_base.txt": "T-Spin Base",
		"overview.txt":    "Overview",
		"dt_cannon_2.txt": "Dt Cannon 2",
	}
	for in, want := range cases {
		if got := Caption(in); got != want {
			t.Errorf("Caption(%q) = %q, want %q", in, got, want)
		}
	}
}
