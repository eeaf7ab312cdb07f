package eval

import (
	"io"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/nlp/chunker"
	"github.com/quicquam/opennlp4net-sub003/nlp/namefind"
	"github.com/quicquam/opennlp4net-sub003/nlp/postag"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// Evaluator runs a decoder over every sample of a stream. KeepResults keeps
// the per sample results (and their errors) in the total; OnSample is
// called after every sample.
type Evaluator struct {
	KeepResults bool
	OnSample    func(i int, r *Result)
}

func (e *Evaluator) total() *Total {
	t := &Total{}
	if e.KeepResults {
		t.Results = make([]*Result, 0, 100)
	}
	return t
}

func run[T any](e *Evaluator, samples util.ObjectStream[T], score func(T) *Result) (*Total, error) {
	total := e.total()
	for i := 0; ; i++ {
		sample, err := samples.Read()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, errors.Wrapf(err, "reading sample %d", i+1)
		}
		r := score(sample)
		total.Add(r)
		if e.OnSample != nil {
			e.OnSample(i, r)
		}
	}
}

// Tagger measures the word accuracy of a POS tagger.
func (e *Evaluator) Tagger(tagger *postag.Tagger, samples util.ObjectStream[*postag.Sample]) (*Total, error) {
	return run(e, samples, func(s *postag.Sample) *Result {
		return Words(s.Sentence, s.Tags, tagger.Tag(s.Sentence))
	})
}

// Chunker measures phrase precision and recall of a chunker.
func (e *Evaluator) Chunker(c *chunker.Chunker, samples util.ObjectStream[*chunker.Sample]) (*Total, error) {
	return run(e, samples, func(s *chunker.Sample) *Result {
		return Spans(s.PhrasesAsSpans(), c.ChunkAsSpans(s.Sentence, s.Tags))
	})
}

// Finder measures name precision and recall of a name finder, clearing its
// adaptive data at document boundaries.
func (e *Evaluator) Finder(f *namefind.Finder, samples util.ObjectStream[*namefind.Sample]) (*Total, error) {
	return run(e, samples, func(s *namefind.Sample) *Result {
		if s.ClearAdaptiveData {
			f.ClearAdaptiveData()
		}
		return Spans(s.Names, f.Find(s.Sentence, nil))
	})
}
