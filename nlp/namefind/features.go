package namefind

import (
	"strconv"
	"strings"
	"unicode"
)

// FeatureGenerator appends the features of tokens[index] to features.
// Adaptive generators learn from the sentences tagged so far in a
// document; the others ignore UpdateAdaptiveData and ClearAdaptiveData.
type FeatureGenerator interface {
	CreateFeatures(features []string, tokens []string, index int, previousOutcomes []string) []string
	UpdateAdaptiveData(tokens, outcomes []string)
	ClearAdaptiveData()
}

type static struct{}

func (static) UpdateAdaptiveData(tokens, outcomes []string) {}
func (static) ClearAdaptiveData()                           {}

// TokenClass names the shape of a token: lc, 2d, 4d, an, dd, ds, dc, dp,
// num, sc, ac, cp, ic or other.
func TokenClass(token string) string {
	var (
		letters, lower, upper, digits int
		hyphen, slash, comma, period  bool
		first                         rune
		runes                         int
	)
	for i, r := range token {
		if i == 0 {
			first = r
		}
		runes++
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsLower(r) {
				lower++
			} else if unicode.IsUpper(r) {
				upper++
			}
		case unicode.IsDigit(r):
			digits++
		case r == '-':
			hyphen = true
		case r == '/':
			slash = true
		case r == ',':
			comma = true
		case r == '.':
			period = true
		}
	}
	switch {
	case runes == 0:
		return "other"
	case lower == runes:
		return "lc"
	case digits == 2 && runes == 2:
		return "2d"
	case digits == 4 && runes == 4:
		return "4d"
	case digits > 0:
		switch {
		case letters > 0:
			return "an"
		case hyphen:
			return "dd"
		case slash:
			return "ds"
		case comma:
			return "dc"
		case period:
			return "dp"
		}
		return "num"
	case upper == runes && runes == 1:
		return "sc"
	case upper == runes:
		return "ac"
	case runes == 2 && unicode.IsUpper(first) && strings.HasSuffix(token, "."):
		return "cp"
	case unicode.IsUpper(first):
		return "ic"
	}
	return "other"
}

// TokenFeatureGenerator fires the lowercased token.
type TokenFeatureGenerator struct{ static }

func (TokenFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, _ []string) []string {
	return append(features, "w="+strings.ToLower(tokens[index]))
}

// TokenClassFeatureGenerator fires the token class, and with WordAndClass
// the lowercased token with its class.
type TokenClassFeatureGenerator struct {
	static
	WordAndClass bool
}

func (g TokenClassFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, _ []string) []string {
	class := TokenClass(tokens[index])
	features = append(features, "wc="+class)
	if g.WordAndClass {
		features = append(features, "w&c="+strings.ToLower(tokens[index])+","+class)
	}
	return features
}

// WindowFeatureGenerator fires the features of Generator for the token and
// for up to Prev tokens before and Next tokens after it, prefixed with
// their relative position ("p1", "n2").
type WindowFeatureGenerator struct {
	Generator  FeatureGenerator
	Prev, Next int
}

func (g *WindowFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, previousOutcomes []string) []string {
	features = g.Generator.CreateFeatures(features, tokens, index, previousOutcomes)
	for i := 1; i <= g.Prev && index-i >= 0; i++ {
		prefix := "p" + strconv.Itoa(i)
		for _, f := range g.Generator.CreateFeatures(nil, tokens, index-i, previousOutcomes) {
			features = append(features, prefix+f)
		}
	}
	for i := 1; i <= g.Next && index+i < len(tokens); i++ {
		prefix := "n" + strconv.Itoa(i)
		for _, f := range g.Generator.CreateFeatures(nil, tokens, index+i, previousOutcomes) {
			features = append(features, prefix+f)
		}
	}
	return features
}

func (g *WindowFeatureGenerator) UpdateAdaptiveData(tokens, outcomes []string) {
	g.Generator.UpdateAdaptiveData(tokens, outcomes)
}

func (g *WindowFeatureGenerator) ClearAdaptiveData() {
	g.Generator.ClearAdaptiveData()
}

// OutcomePriorFeatureGenerator fires a constant feature, learning the
// outcome prior.
type OutcomePriorFeatureGenerator struct{ static }

const OUTCOME_PRIOR_FEATURE = "def"

func (OutcomePriorFeatureGenerator) CreateFeatures(features []string, _ []string, _ int, _ []string) []string {
	return append(features, OUTCOME_PRIOR_FEATURE)
}

// BigramNameFeatureGenerator fires token and class bigrams with both
// neighbours.
type BigramNameFeatureGenerator struct{ static }

func (BigramNameFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, _ []string) []string {
	wc := TokenClass(tokens[index])
	if index > 0 {
		features = append(features, "pw,w="+tokens[index-1]+","+tokens[index])
		features = append(features, "pwc,wc="+TokenClass(tokens[index-1])+","+wc)
	}
	if index+1 < len(tokens) {
		features = append(features, "w,nw="+tokens[index]+","+tokens[index+1])
		features = append(features, "wc,nc="+wc+","+TokenClass(tokens[index+1]))
	}
	return features
}

// SentenceFeatureGenerator marks the first and last token of a sentence.
type SentenceFeatureGenerator struct {
	static
	Begin, End bool
}

func (g SentenceFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, _ []string) []string {
	if g.Begin && index == 0 {
		features = append(features, "S=begin")
	}
	if g.End && index == len(tokens)-1 {
		features = append(features, "S=end")
	}
	return features
}

// PreviousMapFeatureGenerator fires the outcome a token last had in the
// current document.
type PreviousMapFeatureGenerator struct {
	previous map[string]string
}

func NewPreviousMapFeatureGenerator() *PreviousMapFeatureGenerator {
	return &PreviousMapFeatureGenerator{make(map[string]string)}
}

func (g *PreviousMapFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, _ []string) []string {
	if outcome, exists := g.previous[tokens[index]]; exists {
		features = append(features, "pd="+outcome)
	}
	return features
}

func (g *PreviousMapFeatureGenerator) UpdateAdaptiveData(tokens, outcomes []string) {
	for i, token := range tokens {
		g.previous[token] = outcomes[i]
	}
}

func (g *PreviousMapFeatureGenerator) ClearAdaptiveData() {
	g.previous = make(map[string]string)
}

// AggregatedFeatureGenerator runs its generators in order.
type AggregatedFeatureGenerator []FeatureGenerator

func (a AggregatedFeatureGenerator) CreateFeatures(features []string, tokens []string, index int, previousOutcomes []string) []string {
	for _, g := range a {
		features = g.CreateFeatures(features, tokens, index, previousOutcomes)
	}
	return features
}

func (a AggregatedFeatureGenerator) UpdateAdaptiveData(tokens, outcomes []string) {
	for _, g := range a {
		g.UpdateAdaptiveData(tokens, outcomes)
	}
}

func (a AggregatedFeatureGenerator) ClearAdaptiveData() {
	for _, g := range a {
		g.ClearAdaptiveData()
	}
}

// DefaultFeatureGenerator is the generator names are found with unless
// another one is configured.
func DefaultFeatureGenerator() AggregatedFeatureGenerator {
	return AggregatedFeatureGenerator{
		&WindowFeatureGenerator{TokenFeatureGenerator{}, 2, 2},
		&WindowFeatureGenerator{TokenClassFeatureGenerator{WordAndClass: true}, 2, 2},
		OutcomePriorFeatureGenerator{},
		NewPreviousMapFeatureGenerator(),
		BigramNameFeatureGenerator{},
		SentenceFeatureGenerator{Begin: true},
	}
}
