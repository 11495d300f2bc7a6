// Package symbols extracts user-defined names from a C/C++ buffer with a
// fixed set of regular sweeps and keeps the latest result for readers.
package symbols

import (
	"fmt"
	"strings"
)

// Kind is the category of a user symbol.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
	KindType
	KindEnum
	KindMember
	KindMacro
)

var kindNames = map[Kind]string{
	KindFunction: "function",
	KindVariable: "variable",
	KindType:     "type",
	KindEnum:     "enum",
	KindMember:   "member",
	KindMacro:    "macro",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name to a Kind. "class", "struct", "property",
// "method" and "constant" are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "function", "func":
		return KindFunction, nil
	case "variable", "var":
		return KindVariable, nil
	case "type", "class", "struct":
		return KindType, nil
	case "enum":
		return KindEnum, nil
	case "member", "property", "method":
		return KindMember, nil
	case "macro", "constant", "define":
		return KindMacro, nil
	}
	return 0, fmt.Errorf("unknown symbol kind %q", s)
}

// Symbol is a user-defined name found in the buffer. Identity is (Name, Kind).
type Symbol struct {
	Name   string
	Kind   Kind
	Detail string
}

type symbolKey struct {
	name string
	kind Kind
}

func (s Symbol) key() symbolKey {
	return symbolKey{name: s.Name, kind: s.Kind}
}
