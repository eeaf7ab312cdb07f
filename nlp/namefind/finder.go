package namefind

import (
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/search"
	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
)

// Finder finds names with a trained model. Names found in a sentence feed
// the adaptive features of the following sentences until
// ClearAdaptiveData is called. A Finder is not safe for concurrent use.
type Finder struct {
	Model     *model.Model
	Generator *ContextGenerator
	Beam      *search.Beam

	best *search.Sequence
}

// NewFinder decodes with a beam of beamSize, caching the distributions of
// as many contexts.
func NewFinder(m *model.Model, beamSize int) (*Finder, error) {
	cg := NewContextGenerator()
	beam, err := search.NewBeam(beamSize, m, cg, SequenceValidator{}, beamSize)
	if err != nil {
		return nil, err
	}
	return &Finder{Model: m, Generator: cg, Beam: beam}, nil
}

// Find returns the names of tokens. additional may hold extra features per
// token and may be nil.
func (f *Finder) Find(tokens []string, additional [][]string) []nlp.Span {
	f.best = f.Beam.BestSequence(tokens, additional)
	if f.best == nil {
		return nil
	}
	f.Generator.UpdateAdaptiveData(tokens, f.best.Outcomes)
	return Decode(f.best.Outcomes)
}

// Probs returns the outcome probability of every token of the last
// sentence.
func (f *Finder) Probs() []float64 {
	if f.best == nil {
		return nil
	}
	return f.best.Probs
}

// SpanProbs averages the token probabilities of the last sentence over each
// span.
func (f *Finder) SpanProbs(spans []nlp.Span) []float64 {
	probs := f.Probs()
	retval := make([]float64, len(spans))
	for i, s := range spans {
		var sum float64
		for j := s.Start; j < s.End; j++ {
			sum += probs[j]
		}
		retval[i] = sum / float64(s.Length())
	}
	return retval
}

// ClearAdaptiveData forgets the previous sentences; call it at document
// boundaries.
func (f *Finder) ClearAdaptiveData() {
	f.Generator.ClearAdaptiveData()
}
