package chunker

import (
	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/search"
	"github.com/quicquam/opennlp4net-sub003/alg/train"
	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// Chunker tags POS tagged sentences with chunk tags. It keeps the
// probabilities of its last sentence and is not safe for concurrent use.
type Chunker struct {
	Model *model.Model
	Beam  *search.Beam

	best *search.Sequence
}

func NewChunker(m *model.Model, beamSize int) (*Chunker, error) {
	beam, err := search.NewBeam(beamSize, m, ContextGenerator{}, SequenceValidator{}, 0)
	if err != nil {
		return nil, err
	}
	return &Chunker{Model: m, Beam: beam}, nil
}

// Chunk returns the chunk tag of every token, nil if no valid sequence
// exists.
func (c *Chunker) Chunk(tokens, tags []string) []string {
	c.best = c.Beam.BestSequence(tokens, tags)
	if c.best == nil {
		return nil
	}
	return c.best.Outcomes
}

// ChunkAsSpans returns the phrases of the best chunking.
func (c *Chunker) ChunkAsSpans(tokens, tags []string) []nlp.Span {
	return PhrasesAsSpans(c.Chunk(tokens, tags))
}

func (c *Chunker) TopKSequences(tokens, tags []string) []*search.Sequence {
	return c.Beam.BestSequences(c.Beam.Size, tokens, tags, search.ZeroLog)
}

// Probs returns the chunk tag probabilities of the last sentence.
func (c *Chunker) Probs() []float64 {
	if c.best == nil {
		return nil
	}
	return c.best.Probs
}

func Events(s *Sample, cg search.ContextGenerator) []*event.Event {
	events := make([]*event.Event, len(s.Sentence))
	for i := range s.Sentence {
		events[i] = event.New(s.Preds[i], cg.Context(i, s.Sentence, s.Preds, s.Tags))
	}
	return events
}

func NewEventStream(samples util.ObjectStream[*Sample], cg search.ContextGenerator) event.Stream {
	return util.Expand[*Sample, *event.Event](samples, func(s *Sample) ([]*event.Event, error) {
		return Events(s, cg), nil
	})
}

// Train trains a chunking model on samples. Chunking models are trained on
// independent events only.
func Train(samples util.ObjectStream[*Sample], params *train.Params) (*model.Model, error) {
	if train.IsSequenceTraining(params) {
		return nil, &train.ConfigError{Param: "Algorithm", Value: params.Algorithm, Msg: "the chunker trains on events only"}
	}
	return train.TrainModel(NewEventStream(samples, ContextGenerator{}), params)
}
