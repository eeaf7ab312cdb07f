// Package chunker splits POS tagged sentences into non-recursive phrases
// with BIO chunk tags ("B-NP", "I-NP", "O").
package chunker

import (
	"strings"

	"github.com/pkg/errors"

	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
)

const (
	BEGIN  = "B-"
	INSIDE = "I-"
	OTHER  = "O"
)

// Sample is a sentence with POS tags and chunk tags.
type Sample struct {
	Sentence []string
	Tags     []string
	Preds    []string
}

func NewSample(sentence, tags, preds []string) (*Sample, error) {
	if len(sentence) != len(tags) || len(sentence) != len(preds) {
		return nil, errors.Errorf("%d tokens, %d tags and %d chunk tags", len(sentence), len(tags), len(preds))
	}
	return &Sample{sentence, tags, preds}, nil
}

// ParseSample reads "token_POS_CHUNK" triples.
func ParseSample(line string) (*Sample, error) {
	triples := strings.Fields(line)
	s := &Sample{make([]string, len(triples)), make([]string, len(triples)), make([]string, len(triples))}
	for i, triple := range triples {
		chunkSplit := strings.LastIndex(triple, "_")
		if chunkSplit <= 0 {
			return nil, errors.Errorf("token %d (%q) is not a token_POS_CHUNK triple", i+1, triple)
		}
		posSplit := strings.LastIndex(triple[:chunkSplit], "_")
		if posSplit <= 0 || posSplit == chunkSplit-1 || chunkSplit == len(triple)-1 {
			return nil, errors.Errorf("token %d (%q) is not a token_POS_CHUNK triple", i+1, triple)
		}
		s.Sentence[i], s.Tags[i], s.Preds[i] = triple[:posSplit], triple[posSplit+1:chunkSplit], triple[chunkSplit+1:]
	}
	return s, nil
}

func (s *Sample) String() string {
	triples := make([]string, len(s.Sentence))
	for i, token := range s.Sentence {
		triples[i] = token + "_" + s.Tags[i] + "_" + s.Preds[i]
	}
	return strings.Join(triples, " ")
}

// PhrasesAsSpans returns the typed phrases of s.
func (s *Sample) PhrasesAsSpans() []nlp.Span {
	return PhrasesAsSpans(s.Preds)
}

// PhrasesAsSpans reads typed phrases off chunk tags. A B- tag, or an I-
// tag of a type other than the open phrase, starts a phrase.
func PhrasesAsSpans(preds []string) []nlp.Span {
	var (
		spans     []nlp.Span
		start     = -1
		startType string
	)
	for i, pred := range preds {
		switch {
		case start != -1 && pred == INSIDE+startType:
			continue
		case strings.HasPrefix(pred, BEGIN) || strings.HasPrefix(pred, INSIDE):
			if start != -1 {
				spans = append(spans, nlp.NewSpan(start, i, startType))
			}
			start, startType = i, pred[2:]
		default:
			if start != -1 {
				spans = append(spans, nlp.NewSpan(start, i, startType))
			}
			start, startType = -1, ""
		}
	}
	if start != -1 {
		spans = append(spans, nlp.NewSpan(start, len(preds), startType))
	}
	return spans
}
