package tables

import "sort"

// SnippetTemplate is a named code template. Body holds $N placeholder markers:
// $1..$N are visited in order, $0 is the final cursor position.
type SnippetTemplate struct {
	Trigger     string `toml:"trigger"`
	Body        string `toml:"body"`
	Description string `toml:"description"`
}

// Expand strips the placeholder markers from the body and returns the plain
// text along with the byte offsets of the tab stops in visiting order.
// A marker that occurs more than once is anchored at its first occurrence.
// Bodies without markers get a single stop at the end of the text.
func (s SnippetTemplate) Expand() (string, []int) {
	body := s.Body
	out := make([]byte, 0, len(body))
	first := make(map[int]int)

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '$' || i+1 >= len(body) || !isDigit(body[i+1]) {
			out = append(out, c)
			continue
		}
		j := i + 1
		n := 0
		for j < len(body) && isDigit(body[j]) {
			n = n*10 + int(body[j]-'0')
			j++
		}
		if _, seen := first[n]; !seen {
			first[n] = len(out)
		}
		i = j - 1
	}

	text := string(out)
	if len(first) == 0 {
		return text, []int{len(text)}
	}

	numbers := make([]int, 0, len(first))
	for n := range first {
		if n != 0 {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	stops := make([]int, 0, len(first))
	for _, n := range numbers {
		stops = append(stops, first[n])
	}
	if final, ok := first[0]; ok {
		stops = append(stops, final)
	}
	return text, stops
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
