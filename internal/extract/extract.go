// Package extract pulls structured values out of decoded booking text.
//
// Every extractor is independent and never fails: it returns the value and
// whether it was found. Fields with several heuristics are expressed as an
// ordered Chain of named strategies; the first strategy that finds a value
// wins, so strategies can be tested and reordered on their own.
package extract

import "strings"

// Input is what strategies look at. Raw is the undecoded message (headers
// included); Text is the decoded body, or Raw when decoding found nothing.
type Input struct {
	Raw  string
	Text string
}

// Strategy is one named heuristic for a field.
type Strategy[T any] struct {
	Name string
	Find func(in Input) (T, bool)
}

// Chain is an ordered fallback list of strategies.
type Chain[T any] []Strategy[T]

// First runs the strategies in order and returns the first value found,
// together with the name of the strategy that produced it.
func (c Chain[T]) First(in Input) (T, string, bool) {
	for _, s := range c {
		if v, ok := s.Find(in); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// nonEmptyLines splits s into trimmed lines and drops blank ones.
func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}
