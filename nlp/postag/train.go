package postag

import (
	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/search"
	"github.com/quicquam/opennlp4net-sub003/alg/train"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// Events generates the event of every token of a sample, with the gold
// tags as history.
func Events(s *Sample, cg search.ContextGenerator) []*event.Event {
	events := make([]*event.Event, len(s.Sentence))
	for i := range s.Sentence {
		events[i] = event.New(s.Tags[i], cg.Context(i, s.Sentence, s.Tags, nil))
	}
	return events
}

func NewEventStream(samples util.ObjectStream[*Sample], cg search.ContextGenerator) event.Stream {
	return util.Expand[*Sample, *event.Event](samples, func(s *Sample) ([]*event.Event, error) {
		return Events(s, cg), nil
	})
}

// SequenceStream presents every sample as one sequence; UpdateContext tags
// the sample with the model being trained.
type SequenceStream struct {
	Samples   util.ObjectStream[*Sample]
	Generator search.ContextGenerator
	BeamSize  int
}

var _ event.SequenceStream = &SequenceStream{}

func NewSequenceStream(samples util.ObjectStream[*Sample], cg search.ContextGenerator, beamSize int) *SequenceStream {
	return &SequenceStream{samples, cg, beamSize}
}

func (s *SequenceStream) Read() (*event.Sequence, error) {
	sample, err := s.Samples.Read()
	if err != nil {
		return nil, err
	}
	return &event.Sequence{Events: Events(sample, s.Generator), Source: sample}, nil
}

func (s *SequenceStream) Reset() error {
	return s.Samples.Reset()
}

func (s *SequenceStream) Close() error {
	return s.Samples.Close()
}

func (s *SequenceStream) UpdateContext(seq *event.Sequence, m *model.Model) ([]*event.Event, error) {
	sample := seq.Source.(*Sample)
	beam, err := search.NewBeam(s.BeamSize, m, s.Generator, nil, 0)
	if err != nil {
		return nil, err
	}
	best := beam.BestSequence(sample.Sentence, nil)
	if best == nil {
		return nil, errors.Errorf("no tag sequence for %v", sample.Sentence)
	}
	return Events(&Sample{sample.Sentence, best.Outcomes}, s.Generator), nil
}

// Train trains a tagging model on samples with the algorithm of params.
func Train(samples util.ObjectStream[*Sample], params *train.Params) (*model.Model, error) {
	cg := ContextGenerator{}
	if train.IsSequenceTraining(params) {
		return train.TrainSequenceModel(NewSequenceStream(samples, cg, params.BeamSize), params)
	}
	return train.TrainModel(NewEventStream(samples, cg), params)
}
