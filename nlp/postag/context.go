package postag

import (
	"strings"
	"unicode"

	"github.com/quicquam/opennlp4net-sub003/alg/search"
	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
	"github.com/quicquam/opennlp4net-sub003/util"
)

const (
	PREFIX_LENGTH = 4
	SUFFIX_LENGTH = 4
)

// ContextGenerator fires the standard tagging features: the word, its
// prefixes and suffixes, shape flags, two words either side and the two
// previous tags.
type ContextGenerator struct{}

var _ search.ContextGenerator = ContextGenerator{}

func (ContextGenerator) Context(i int, tokens []string, tags []string, _ interface{}) []string {
	lex := tokens[i]
	features := make([]string, 0, 16)
	features = append(features, "default", "w="+lex)
	for k := 1; k <= SUFFIX_LENGTH; k++ {
		features = append(features, "suf="+util.Suffix(lex, k))
	}
	for k := 1; k <= PREFIX_LENGTH; k++ {
		features = append(features, "pre="+util.Prefix(lex, k))
	}
	if strings.ContainsRune(lex, '-') {
		features = append(features, "h")
	}
	if strings.IndexFunc(lex, unicode.IsUpper) >= 0 {
		features = append(features, "c")
	}
	if strings.IndexFunc(lex, unicode.IsDigit) >= 0 {
		features = append(features, "d")
	}

	features = append(features, "p="+nlp.Window(tokens, i, -1))
	if i > 0 {
		features = append(features, "t="+tags[i-1])
		features = append(features, "pp="+nlp.Window(tokens, i, -2))
		if i > 1 {
			features = append(features, "t2="+tags[i-2]+","+tags[i-1])
		}
	}
	features = append(features, "n="+nlp.Window(tokens, i, 1))
	if i+1 < len(tokens) {
		features = append(features, "nn="+nlp.Window(tokens, i, 2))
	}
	return features
}
