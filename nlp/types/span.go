package types

import (
	"fmt"
	"sort"
	"strings"
)

// Span is the token range [Start,End) with an optional type.
type Span struct {
	Start, End int
	Type       string
}

func NewSpan(start, end int, typ string) Span {
	if start < 0 || end < start {
		panic(fmt.Sprintf("invalid span [%d..%d)", start, end))
	}
	return Span{start, end, typ}
}

func (s Span) Length() int {
	return s.End - s.Start
}

func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s Span) ContainsIndex(i int) bool {
	return s.Start <= i && i < s.End
}

// Intersects reports whether the spans share a token.
func (s Span) Intersects(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Crosses reports whether the spans overlap without either containing the
// other.
func (s Span) Crosses(other Span) bool {
	return s.Intersects(other) && !s.Contains(other) && !other.Contains(s)
}

// Compare orders spans by start, then by longer first, then by type.
func (s Span) Compare(other Span) int {
	switch {
	case s.Start < other.Start:
		return -1
	case s.Start > other.Start:
		return 1
	case s.End > other.End:
		return -1
	case s.End < other.End:
		return 1
	}
	return strings.Compare(s.Type, other.Type)
}

// CoveredText joins the tokens the span covers.
func (s Span) CoveredText(tokens []string) string {
	return strings.Join(tokens[s.Start:s.End], " ")
}

func (s Span) String() string {
	if s.Type == "" {
		return fmt.Sprintf("[%d..%d)", s.Start, s.End)
	}
	return fmt.Sprintf("[%d..%d) %s", s.Start, s.End, s.Type)
}

func SortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Compare(spans[j]) < 0 })
}

func SpansToStrings(spans []Span, tokens []string) []string {
	retval := make([]string, len(spans))
	for i, s := range spans {
		retval[i] = s.CoveredText(tokens)
	}
	return retval
}

// DropOverlapping keeps, in order, the spans that do not intersect an
// earlier kept span.
func DropOverlapping(spans []Span) []Span {
	retval := make([]Span, 0, len(spans))
	for _, s := range spans {
		overlaps := false
		for _, kept := range retval {
			if kept.Intersects(s) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			retval = append(retval, s)
		}
	}
	return retval
}
