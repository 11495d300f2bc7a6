// Package insert computes where a completion replaces the buffer and what
// the buffer looks like afterwards. Offsets are byte offsets.
package insert

import (
	"regexp"
	"strings"

	"github.com/bastiangx/cppcomplete/internal/utils"
)

var (
	includePrefixRe = regexp.MustCompile(`^\s*#include`)
	includeRestRe   = regexp.MustCompile(`^\s*#include\s*(.*)$`)
	triggerRe       = regexp.MustCompile(`^[a-zA-Z_#<"]`)
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WordStart returns the start of the word ending at cursor.
//
// On an #include line that already has `<` or `"`, the word starts after the
// last `<`, `"`, whitespace or `/`; without a delimiter it starts at the first
// non-space after "include". A `<` right before the cursor is a word of its
// own. Everywhere else the word is the run of [a-zA-Z0-9_] before the cursor.
func WordStart(buffer string, cursor int) int {
	cursor = clamp(cursor, 0, len(buffer))
	lineStart := strings.LastIndexByte(buffer[:cursor], '\n') + 1
	line := buffer[lineStart:cursor]

	if includePrefixRe.MatchString(line) {
		if m := includeRestRe.FindStringSubmatch(line); m != nil {
			if strings.ContainsAny(m[1], `<"`) {
				start := cursor
				for start > lineStart && !isIncludeDelimiter(buffer[start-1]) {
					start--
				}
				return start
			}
			start := lineStart + strings.Index(line, "include") + len("include")
			for start < cursor && isSpace(buffer[start]) {
				start++
			}
			return start
		}
	}

	if cursor > 0 && buffer[cursor-1] == '<' {
		return cursor - 1
	}

	start := cursor
	for start > 0 && utils.IsWordByte(buffer[start-1]) {
		start--
	}
	return start
}

// Prefix returns the word ending at cursor and its start offset.
func Prefix(buffer string, cursor int) (string, int) {
	cursor = clamp(cursor, 0, len(buffer))
	start := WordStart(buffer, cursor)
	return buffer[start:cursor], start
}

// ShouldTrigger reports whether typing prefix opens the popup without an
// explicit request.
func ShouldTrigger(prefix string) bool {
	return triggerRe.MatchString(prefix)
}

// NeedsTrailingSpace reports whether a space goes after text when the
// character at the cursor is next. atEnd is true when the cursor is at the
// end of the buffer.
func NeedsTrailingSpace(text string, next byte, atEnd bool) bool {
	if !atEnd && (isSpace(next) || strings.IndexByte("()[]{};,.", next) >= 0) {
		return false
	}
	if strings.HasPrefix(text, "<") || strings.HasPrefix(text, `"`) || strings.HasPrefix(text, "#include") {
		return false
	}
	return true
}

// Insert replaces buffer[prefixStart:cursor] with text, adding a trailing
// space when NeedsTrailingSpace says so. It returns the new buffer and the
// cursor placed after the inserted text.
func Insert(buffer string, cursor, prefixStart int, text string) (string, int) {
	cursor = clamp(cursor, 0, len(buffer))
	atEnd := cursor == len(buffer)
	var next byte
	if !atEnd {
		next = buffer[cursor]
	}
	if NeedsTrailingSpace(text, next, atEnd) {
		text += " "
	}
	return Splice(buffer, prefixStart, cursor, text)
}

// Splice replaces buffer[start:end] with text and returns the new buffer and
// the offset right after text.
func Splice(buffer string, start, end int, text string) (string, int) {
	end = clamp(end, 0, len(buffer))
	start = clamp(start, 0, end)
	return buffer[:start] + text + buffer[end:], start + len(text)
}

func isIncludeDelimiter(c byte) bool {
	return c == '<' || c == '"' || c == '/' || isSpace(c)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
