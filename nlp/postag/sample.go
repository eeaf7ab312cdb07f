// Package postag is a part of speech tagger over the maxent and perceptron
// models: features, tag dictionary, training streams and beam decoding.
package postag

import (
	"strings"

	"github.com/pkg/errors"

	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// Sample is one tagged sentence.
type Sample struct {
	Sentence []string
	Tags     []string
}

func NewSample(sentence, tags []string) (*Sample, error) {
	if len(sentence) != len(tags) {
		return nil, errors.Errorf("%d tokens but %d tags", len(sentence), len(tags))
	}
	return &Sample{sentence, tags}, nil
}

// ParseSample reads "token_TAG token_TAG ..."; the tag follows the last
// underscore of each pair.
func ParseSample(line string) (*Sample, error) {
	pairs := strings.Fields(line)
	s := &Sample{make([]string, len(pairs)), make([]string, len(pairs))}
	for i, pair := range pairs {
		split := strings.LastIndex(pair, "_")
		if split <= 0 || split == len(pair)-1 {
			return nil, errors.Errorf("token %d (%q) is not a token_TAG pair", i+1, pair)
		}
		s.Sentence[i], s.Tags[i] = pair[:split], pair[split+1:]
	}
	return s, nil
}

func (s *Sample) Tagged() nlp.TaggedSentence {
	return nlp.NewTaggedSentence(s.Sentence, s.Tags)
}

func (s *Sample) String() string {
	return s.Tagged().String()
}

// NewSampleStream parses a line stream of samples, skipping blank lines.
func NewSampleStream(lines util.ObjectStream[string]) util.ObjectStream[*Sample] {
	return util.Transform[string, *Sample](lines, func(line string) (*Sample, bool, error) {
		if len(strings.TrimSpace(line)) == 0 {
			return nil, true, nil
		}
		s, err := ParseSample(line)
		if err != nil {
			return nil, false, errors.Wrap(err, "parsing sample")
		}
		return s, false, nil
	})
}

// OpenSampleFile streams the samples of a file, one sentence per line.
func OpenSampleFile(filename string) (util.ObjectStream[*Sample], error) {
	lines, err := util.OpenLineStream(filename)
	if err != nil {
		return nil, err
	}
	return NewSampleStream(lines), nil
}
