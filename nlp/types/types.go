package types

import (
	"reflect"
	"strings"
)

const (
	SENTENCE_BEGIN = "*SB*"
	SENTENCE_END   = "*SE*"
)

type TaggedToken struct {
	Token, POS string
}

type TaggedSentence []TaggedToken

func NewTaggedSentence(tokens, tags []string) TaggedSentence {
	if len(tokens) != len(tags) {
		panic("tokens and tags differ in length")
	}
	retval := make(TaggedSentence, len(tokens))
	for i, token := range tokens {
		retval[i] = TaggedToken{token, tags[i]}
	}
	return retval
}

func (b TaggedSentence) Tokens() []string {
	tokens := make([]string, len(b))
	for i, token := range b {
		tokens[i] = token.Token
	}
	return tokens
}

func (b TaggedSentence) Tags() []string {
	tags := make([]string, len(b))
	for i, token := range b {
		tags[i] = token.POS
	}
	return tags
}

func (b TaggedSentence) Equal(other TaggedSentence) bool {
	return reflect.DeepEqual(b, other)
}

// String writes the sentence as "token_TAG" pairs.
func (b TaggedSentence) String() string {
	pairs := make([]string, len(b))
	for i, token := range b {
		pairs[i] = token.Token + "_" + token.POS
	}
	return strings.Join(pairs, " ")
}

// Window returns the item at i+offset or the sentence boundary marker.
func Window(items []string, i, offset int) string {
	j := i + offset
	if j < 0 {
		return SENTENCE_BEGIN
	}
	if j >= len(items) {
		return SENTENCE_END
	}
	return items[j]
}
