package mcpserver

// PageFormatContract describes the page and board text formats that
// LLM consumers should follow when reading or proposing edits.
const PageFormatContract = `# Tetrion Page Format Contract

Every guide page is a directory under the content root holding a ` + "`" + `page.txt` + "`" + `
source file and an optional ` + "`" + `boards/` + "`" + ` directory of board files.

## Page source (page.txt)

The grammar is line-oriented and processed in this order:

1. **Section separators.** A line containing exactly ` + "`" + `---` + "`" + ` becomes
   ` + "`" + `<hr class="section-separator">` + "`" + `.
2. **Citations.** A line of the form ` + "`" + `SOURCE: Label - https://example.com` + "`" + `
   is removed from the body and collected into the page's source list.
   The ` + "`" + ` - ` + "`" + ` separator between label and URL is mandatory; lines without
   it are dropped.
3. **Board embeds.**
   - ` + "`" + `[[BOARD: filename.txt]]` + "`" + ` embeds one board from the page's
     ` + "`" + `boards/` + "`" + ` directory.
   - ` + "`" + `[[BOARDS: a.txt, b.txt, c.txt]]` + "`" + ` embeds up to three boards
     side by side in declaration order.
   Keywords are case-insensitive; referenced files must exist.
4. **Emphasis.** ` + "`" + `**text**` + "`" + ` and ` + "`" + `*text*` + "`" + ` become ` + "`" + `<strong>` + "`" + `,
   ` + "`" + `_text_` + "`" + ` becomes ` + "`" + `<em>` + "`" + `. Emphasis never spans lines.
5. **Lists.** Consecutive lines starting with ` + "`" + `- ` + "`" + ` form a bullet list;
   lines starting with ` + "`" + `1. ` + "`" + ` (any number) form a numbered list. A blank
   line or a change of marker kind ends the run. Lists are flat; there is
   no nesting.
6. **Headings** are written directly as ` + "`" + `<div class="h1">Title</div>` + "`" + `
   (also h2, h3). Anchor ids are derived automatically from the text; do
   not add ` + "`" + `id` + "`" + ` attributes by hand.

Anything else passes through to the output verbatim.

## Board files (boards/*.txt)

` + "```" + `
# PIECES: t, z
# optional further comment lines
tt________
_z________
` + "```" + `

- Lines starting with ` + "`" + `#` + "`" + ` before the grid are metadata. ` + "`" + `# PIECES:` + "`" + `
  (case-insensitive) names the pieces the board demonstrates.
- The grid starts at the first non-empty line that does not start with
  ` + "`" + `#` + "`" + `. From there every line is a grid row, ` + "`" + `#` + "`" + ` included.
- Rows are 10 cells wide; boards render 20 rows tall. Short boards are
  padded with empty rows at the top, long boards are truncated.
- Cell characters are piece letters (` + "`" + `i o t s z j l` + "`" + `); ` + "`" + `_` + "`" + ` or any
  other character renders as an empty cell.

## Rules

1. **File paths** use forward slashes and are relative to the content root.
2. **Reserved directory names** ` + "`" + `boards` + "`" + `, ` + "`" + `pages` + "`" + `, and ` + "`" + `boards_old` + "`" + `
   never hold pages.
3. **Encoding** is UTF-8 with Unix line endings and a trailing newline.
4. **Editing is conservative:** when changing a board, keep its metadata
   header lines intact and replace only the grid rows.
`
