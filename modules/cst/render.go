package cst

import "strings"

// Render walks b in order and reconstructs the original source text,
// emitting newlines and spaces to reach each leaf's recorded start
// position before emitting its text. Nil leaves contribute nothing.
func Render(b *BCST) string {
	var sb strings.Builder
	row, col := 0, 0
	renderNode(b, &sb, &row, &col)
	return sb.String()
}

func renderNode(b *BCST, sb *strings.Builder, row, col *int) {
	if IsNilLeaf(b) {
		return
	}
	if b.IsLeaf() {
		advanceTo(sb, row, col, b.data.RowStart, b.data.ColStart)
		sb.WriteString(b.data.Text)
		*row, *col = b.data.RowEnd, b.data.ColEnd
		return
	}
	renderNode(b.left, sb, row, col)
	renderNode(b.right, sb, row, col)
}

func advanceTo(sb *strings.Builder, row, col *int, targetRow, targetCol int) {
	for *row < targetRow {
		sb.WriteByte('\n')
		*row++
		*col = 0
	}
	for *col < targetCol {
		sb.WriteByte(' ')
		*col++
	}
}
