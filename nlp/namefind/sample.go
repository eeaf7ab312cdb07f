// Package namefind finds typed names (people, places, organizations) in
// tokenized sentences.
package namefind

import (
	"strings"

	"github.com/pkg/errors"

	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
	"github.com/quicquam/opennlp4net-sub003/util"
)

const (
	START_TAG    = "<START>"
	START_PREFIX = "<START:"
	END_TAG      = "<END>"

	DEFAULT_TYPE = "default"
)

// Sample is a sentence with its names. ClearAdaptiveData marks the first
// sentence of a new document.
type Sample struct {
	Sentence          []string
	Names             []nlp.Span
	ClearAdaptiveData bool
}

func NewSample(sentence []string, names []nlp.Span, clearAdaptiveData bool) (*Sample, error) {
	for _, name := range names {
		if name.End > len(sentence) {
			return nil, errors.Errorf("name %v is outside a sentence of %d tokens", name, len(sentence))
		}
	}
	sorted := append([]nlp.Span{}, names...)
	nlp.SortSpans(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Intersects(sorted[i-1]) {
			return nil, errors.Errorf("names %v and %v overlap", sorted[i-1], sorted[i])
		}
	}
	return &Sample{sentence, sorted, clearAdaptiveData}, nil
}

func startType(token string) (string, bool) {
	if token == START_TAG {
		return "", true
	}
	if strings.HasPrefix(token, START_PREFIX) && strings.HasSuffix(token, ">") {
		typ := token[len(START_PREFIX) : len(token)-1]
		if typ == "" || strings.ContainsAny(typ, ":>") {
			return "", false
		}
		return typ, true
	}
	return "", false
}

// ParseSample reads "<START:type> tokens <END>" annotated text. Names
// without a type get defaultType.
func ParseSample(line, defaultType string, clearAdaptiveData bool) (*Sample, error) {
	var (
		tokens []string
		names  []nlp.Span
		start  = -1
		typ    string
	)
	for _, token := range strings.Fields(line) {
		if t, isStart := startType(token); isStart {
			if start != -1 {
				return nil, errors.Errorf("nested name at token %d", len(tokens)+1)
			}
			start, typ = len(tokens), t
			if typ == "" {
				typ = defaultType
			}
			continue
		}
		if token == END_TAG {
			if start == -1 {
				return nil, errors.Errorf("%s without %s at token %d", END_TAG, START_TAG, len(tokens)+1)
			}
			if start == len(tokens) {
				return nil, errors.Errorf("empty name at token %d", len(tokens)+1)
			}
			names = append(names, nlp.NewSpan(start, len(tokens), typ))
			start = -1
			continue
		}
		tokens = append(tokens, token)
	}
	if start != -1 {
		return nil, errors.Errorf("name starting at token %d is not closed", start+1)
	}
	return &Sample{tokens, names, clearAdaptiveData}, nil
}

func (s *Sample) String() string {
	var parts []string
	ni := 0
	for i, token := range s.Sentence {
		if ni < len(s.Names) && s.Names[ni].Start == i {
			if s.Names[ni].Type == "" {
				parts = append(parts, START_TAG)
			} else {
				parts = append(parts, START_PREFIX+s.Names[ni].Type+">")
			}
		}
		parts = append(parts, token)
		if ni < len(s.Names) && s.Names[ni].End == i+1 {
			parts = append(parts, END_TAG)
			ni++
		}
	}
	return strings.Join(parts, " ")
}

// NewSampleStream parses a line stream of annotated sentences. A blank line
// ends a document: the next sample clears adaptive data. A non-nil mapping
// renames types and drops names of unmapped types.
func NewSampleStream(lines util.ObjectStream[string], defaultType string, mapping *TypeMapping) util.ObjectStream[*Sample] {
	return &sampleStream{lines: lines, defaultType: defaultType, mapping: mapping}
}

type sampleStream struct {
	lines       util.ObjectStream[string]
	defaultType string
	mapping     *TypeMapping
	clear       bool
}

func (s *sampleStream) Read() (*Sample, error) {
	for {
		line, err := s.lines.Read()
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(line)) == 0 {
			s.clear = true
			continue
		}
		sample, err := ParseSample(line, s.defaultType, s.clear)
		if err != nil {
			return nil, errors.Wrap(err, "parsing name sample")
		}
		s.clear = false
		if s.mapping != nil {
			sample.Names = s.mapping.MapSpans(sample.Names)
		}
		return sample, nil
	}
}

func (s *sampleStream) Reset() error {
	s.clear = false
	return s.lines.Reset()
}

func (s *sampleStream) Close() error {
	return s.lines.Close()
}

func OpenSampleFile(filename, defaultType string, mapping *TypeMapping) (util.ObjectStream[*Sample], error) {
	lines, err := util.OpenLineStream(filename)
	if err != nil {
		return nil, err
	}
	return NewSampleStream(lines, defaultType, mapping), nil
}
