package postag

import (
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/search"
)

// Tagger tags sentences with a trained model. A Tagger keeps the
// probabilities of its last sentence and is not safe for concurrent use.
type Tagger struct {
	Model      *model.Model
	Generator  search.ContextGenerator
	Dictionary *TagDictionary
	Beam       *search.Beam

	best *search.Sequence
}

// NewTagger decodes with a beam of beamSize; dict may be nil.
func NewTagger(m *model.Model, beamSize int, dict *TagDictionary) (*Tagger, error) {
	t := &Tagger{Model: m, Generator: ContextGenerator{}, Dictionary: dict}
	var validator search.SequenceValidator = search.AllValid
	if dict != nil {
		validator = dict
	}
	beam, err := search.NewBeam(beamSize, m, t.Generator, validator, 0)
	if err != nil {
		return nil, err
	}
	t.Beam = beam
	return t, nil
}

// Tag returns the best tag sequence for tokens, nil if the dictionary
// admits none.
func (t *Tagger) Tag(tokens []string) []string {
	t.best = t.Beam.BestSequence(tokens, nil)
	if t.best == nil {
		return nil
	}
	return t.best.Outcomes
}

// TagSample tags the sentence of a sample.
func (t *Tagger) TagSample(tokens []string) *Sample {
	tags := t.Tag(tokens)
	if tags == nil {
		return nil
	}
	return &Sample{tokens, tags}
}

// TopKSequences returns up to beam size tag sequences, best first.
func (t *Tagger) TopKSequences(tokens []string) []*search.Sequence {
	return t.Beam.BestSequences(t.Beam.Size, tokens, nil, search.ZeroLog)
}

// Probs returns the probability of every tag of the last tagged sentence.
func (t *Tagger) Probs() []float64 {
	if t.best == nil {
		return nil
	}
	return t.best.Probs
}

// AllTags lists the tags the model knows.
func (t *Tagger) AllTags() []string {
	return t.Model.Outcomes()
}
