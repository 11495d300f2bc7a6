package classify

import "unicode/utf8"

// Position converts a byte offset into a 1-based line and rune column.
func Position(buffer string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(buffer) {
		offset = len(buffer)
	}
	line, col := 1, 1
	for i, r := range buffer {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Offset converts a 1-based line and rune column into a byte offset.
// Columns past the end of a line resolve to the line's end.
func Offset(buffer string, line, column int) int {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	curLine, curCol := 1, 1
	for i := 0; i < len(buffer); {
		if curLine == line && curCol >= column {
			return i
		}
		r, size := utf8.DecodeRuneInString(buffer[i:])
		if r == '\n' {
			if curLine == line {
				return i
			}
			curLine++
			curCol = 1
			i += size
			continue
		}
		curCol++
		i += size
	}
	return len(buffer)
}
