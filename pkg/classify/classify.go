// Package classify decides what kind of completion makes sense at a cursor
// position, using line-local regular scans over a possibly invalid buffer.
package classify

import (
	"regexp"
	"strings"
)

var (
	includeLineRe  = regexp.MustCompile(`^\s*#include`)
	afterIncludeRe = []*regexp.Regexp{
		regexp.MustCompile(`^\s*#include\s*$`),
		regexp.MustCompile(`^\s*#include\s+[<"][^>"]*$`),
		regexp.MustCompile(`^\s*#include\s+[^<"]*$`),
	}
	afterDotRe    = regexp.MustCompile(`\.\w*$`)
	afterArrowRe  = regexp.MustCompile(`->\w*$`)
	funcHeaderRe  = regexp.MustCompile(`\w+\s*\([^)]*\)\s*\{`)
	classHeaderRe = regexp.MustCompile(`(?:class|struct)\s+\w+.*\{`)
)

// Context describes the cursor's lexical surroundings.
type Context struct {
	AfterInclude  bool
	AfterDot      bool
	AfterArrow    bool
	InString      bool
	InComment     bool
	InFunction    bool
	InClass       bool
	IsIncludeLine bool
}

// Suppressed reports whether no completion should be offered at all.
func (c Context) Suppressed() bool {
	return c.InString || c.InComment
}

// MemberAccess reports whether the cursor follows `.` or `->`.
func (c Context) MemberAccess() bool {
	return c.AfterDot || c.AfterArrow
}

// Flags lists the names of the set fields, in declaration order.
func (c Context) Flags() []string {
	var out []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"afterInclude", c.AfterInclude},
		{"afterDot", c.AfterDot},
		{"afterArrow", c.AfterArrow},
		{"inString", c.InString},
		{"inComment", c.InComment},
		{"inFunction", c.InFunction},
		{"inClass", c.InClass},
		{"isIncludeLine", c.IsIncludeLine},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}

func (c Context) String() string {
	flags := c.Flags()
	if len(flags) == 0 {
		return "{}"
	}
	return "{" + strings.Join(flags, " ") + "}"
}

// Classify computes the Context for a 1-based line and rune column. The cursor
// sits before the column-th rune of the line. Out-of-range positions are clamped.
func Classify(buffer string, line, column int) Context {
	lines := strings.Split(buffer, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if column < 1 {
		column = 1
	}

	current := lines[line-1]
	runes := []rune(current)
	cut := column - 1
	if cut > len(runes) {
		cut = len(runes)
	}
	before := string(runes[:cut])

	isInclude := includeLineRe.MatchString(current)
	afterInclude := false
	if isInclude {
		for _, re := range afterIncludeRe {
			if re.MatchString(before) {
				afterInclude = true
				break
			}
		}
	}

	return Context{
		AfterInclude:  afterInclude,
		AfterDot:      afterDotRe.MatchString(before),
		AfterArrow:    afterArrowRe.MatchString(before),
		InString:      inString(before),
		InComment:     inComment(before),
		InFunction:    inBlock(lines[:line], funcHeaderRe),
		InClass:       inBlock(lines[:line], classHeaderRe),
		IsIncludeLine: isInclude,
	}
}

// ClassifyOffset is Classify for a byte offset into buffer.
func ClassifyOffset(buffer string, offset int) Context {
	line, column := Position(buffer, offset)
	return Classify(buffer, line, column)
}

// inString toggles on every unescaped quote of either kind. A backslash
// escapes exactly the next character.
func inString(before string) bool {
	in := false
	escaped := false
	for _, r := range before {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '"', '\'':
			in = !in
		}
	}
	return in
}

func inComment(before string) bool {
	if strings.Contains(before, "//") {
		return true
	}
	open := strings.LastIndex(before, "/*")
	if open == -1 {
		return false
	}
	return open > strings.LastIndex(before, "*/")
}

// inBlock runs a brace counter over lines. A line matching header opens the
// block; the block closes whenever the counter is back to zero after a line.
// Nesting is not tracked: a closed inner block ends the outer one too if the
// counter happens to hit zero.
func inBlock(lines []string, header *regexp.Regexp) bool {
	depth := 0
	in := false
	for _, l := range lines {
		if header.MatchString(l) {
			in = true
		}
		depth += strings.Count(l, "{") - strings.Count(l, "}")
		if depth == 0 && in {
			in = false
		}
	}
	return in
}
