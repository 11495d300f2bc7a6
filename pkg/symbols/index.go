package symbols

import (
	"regexp"
	"strings"

	"github.com/bastiangx/cppcomplete/internal/utils"
	"github.com/charmbracelet/log"
)

var (
	functionRe = regexp.MustCompile(`(?m)(?:^|\n)\s*(?:static\s+|inline\s+|virtual\s+)?(?:const\s+)?(\w+(?:\s*\*)*)\s+(\w+)\s*\([^)]*\)\s*(?:\{|;)`)
	variableRe = regexp.MustCompile(`(?m)(?:^|\n|\{|;)\s*(?:static\s+|const\s+|volatile\s+)*(?:int|long|float|double|char|string|bool|auto|unsigned|signed|short|void\s*\*|std::\w+|vector|map|set|queue|stack|pair)\s*[*&]*\s+(\w+)(?:\s*=|\s*;|\s*,|\s*\[)`)
	typeRe     = regexp.MustCompile(`(?:class|struct)\s+(\w+)`)
	enumRe     = regexp.MustCompile(`enum\s+(?:class\s+)?(\w+)`)
	memberRe   = regexp.MustCompile(`(\w+)\.(\w+)|(\w+)->(\w+)`)
	macroRe    = regexp.MustCompile(`#define\s+(\w+)`)
)

const (
	detailVariable = "User variable"
	detailType     = "User defined class/struct"
	detailEnum     = "User defined enum"
	detailMember   = "Member function/variable"
	detailMacro    = "Macro definition"
)

// Reserved tells the indexer which words can never be user symbols.
type Reserved interface {
	IsKeyword(name string) bool
}

// Indexer runs the extraction passes. It is safe for concurrent use.
type Indexer struct {
	reserved Reserved
	cache    *Cache
}

// NewIndexer returns an Indexer. A cacheSize of zero disables result caching.
func NewIndexer(reserved Reserved, cacheSize int) *Indexer {
	ix := &Indexer{reserved: reserved}
	if cacheSize > 0 {
		ix.cache = NewCache(cacheSize)
	}
	return ix
}

// Cache returns the result cache, or nil when caching is disabled.
func (ix *Indexer) Cache() *Cache {
	return ix.cache
}

// Index extracts every user symbol from buffer. Passes run in a fixed order
// (functions, variables, types, enums, members, macros); duplicates by
// (Name, Kind) keep their first occurrence.
func (ix *Indexer) Index(buffer string) []Symbol {
	if ix.cache != nil {
		if syms, ok := ix.cache.Get(buffer); ok {
			return syms
		}
	}

	c := newCollector()
	ix.functions(buffer, c)
	ix.variables(buffer, c)
	for _, m := range typeRe.FindAllStringSubmatch(buffer, -1) {
		c.add(Symbol{Name: m[1], Kind: KindType, Detail: detailType})
	}
	for _, m := range enumRe.FindAllStringSubmatch(buffer, -1) {
		c.add(Symbol{Name: m[1], Kind: KindEnum, Detail: detailEnum})
	}
	ix.members(buffer, c)
	for _, m := range macroRe.FindAllStringSubmatch(buffer, -1) {
		c.add(Symbol{Name: m[1], Kind: KindMacro, Detail: detailMacro})
	}

	log.Debugf("Indexed %d symbols from %d bytes", len(c.out), len(buffer))

	if ix.cache != nil {
		ix.cache.Put(buffer, c.out)
	}
	return c.out
}

func (ix *Indexer) functions(buffer string, c *collector) {
	for _, m := range functionRe.FindAllStringSubmatch(buffer, -1) {
		ret := strings.TrimSpace(m[1])
		name := m[2]
		// Compared verbatim, so "int" is rejected while "int*" is not.
		if ix.isKeyword(name) || ix.isKeyword(ret) {
			continue
		}
		c.add(Symbol{Name: name, Kind: KindFunction, Detail: ret + " " + name + "(...)"})
	}
}

func (ix *Indexer) variables(buffer string, c *collector) {
	for _, m := range variableRe.FindAllStringSubmatch(buffer, -1) {
		if ix.isKeyword(m[1]) {
			continue
		}
		c.add(Symbol{Name: m[1], Kind: KindVariable, Detail: detailVariable})
	}
}

func (ix *Indexer) members(buffer string, c *collector) {
	for _, m := range memberRe.FindAllStringSubmatch(buffer, -1) {
		name := m[2]
		if name == "" {
			name = m[4]
		}
		if name == "" || ix.isKeyword(name) {
			continue
		}
		c.add(Symbol{Name: name, Kind: KindMember, Detail: detailMember})
	}
}

func (ix *Indexer) isKeyword(name string) bool {
	return ix.reserved != nil && ix.reserved.IsKeyword(name)
}

type collector struct {
	seen map[symbolKey]struct{}
	out  []Symbol
}

func newCollector() *collector {
	return &collector{seen: make(map[symbolKey]struct{})}
}

func (c *collector) add(s Symbol) {
	// Drops captures such as the "14" of "3.14".
	if !utils.IsIdentifier(s.Name) {
		return
	}
	if _, dup := c.seen[s.key()]; dup {
		return
	}
	c.seen[s.key()] = struct{}{}
	c.out = append(c.out, s)
}
