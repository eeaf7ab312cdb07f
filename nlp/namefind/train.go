package namefind

import (
	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/search"
	"github.com/quicquam/opennlp4net-sub003/alg/train"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// Events generates the events of one sentence with gold outcomes as
// history.
func Events(tokens, outcomes []string, cg *ContextGenerator) []*event.Event {
	events := make([]*event.Event, len(tokens))
	for i := range tokens {
		events[i] = event.New(outcomes[i], cg.Context(i, tokens, outcomes, nil))
	}
	return events
}

// EventStream generates the events of a sample stream, updating the
// adaptive features after every sentence the way a Finder does.
type EventStream struct {
	*util.ExpandStream[*Sample, *event.Event]
	Generator *ContextGenerator
}

var _ event.Stream = &EventStream{}

func NewEventStream(samples util.ObjectStream[*Sample], cg *ContextGenerator) *EventStream {
	return &EventStream{
		ExpandStream: util.Expand[*Sample, *event.Event](samples, func(s *Sample) ([]*event.Event, error) {
			if s.ClearAdaptiveData {
				cg.ClearAdaptiveData()
			}
			outcomes := Encode(s.Names, len(s.Sentence))
			events := Events(s.Sentence, outcomes, cg)
			cg.UpdateAdaptiveData(s.Sentence, outcomes)
			return events, nil
		}),
		Generator: cg,
	}
}

func (s *EventStream) Reset() error {
	s.Generator.ClearAdaptiveData()
	return s.ExpandStream.Reset()
}

// SequenceStream presents every sample as one sequence; UpdateContext finds
// the names of the sample with the model being trained. Adaptive features
// are not used in sequence training.
type SequenceStream struct {
	Samples   util.ObjectStream[*Sample]
	Generator *ContextGenerator
	BeamSize  int
}

var _ event.SequenceStream = &SequenceStream{}

func NewSequenceStream(samples util.ObjectStream[*Sample], beamSize int) *SequenceStream {
	return &SequenceStream{samples, NewContextGenerator(), beamSize}
}

func (s *SequenceStream) Read() (*event.Sequence, error) {
	sample, err := s.Samples.Read()
	if err != nil {
		return nil, err
	}
	outcomes := Encode(sample.Names, len(sample.Sentence))
	return &event.Sequence{Events: Events(sample.Sentence, outcomes, s.Generator), Source: sample}, nil
}

func (s *SequenceStream) Reset() error {
	return s.Samples.Reset()
}

func (s *SequenceStream) Close() error {
	return s.Samples.Close()
}

func (s *SequenceStream) UpdateContext(seq *event.Sequence, m *model.Model) ([]*event.Event, error) {
	sample := seq.Source.(*Sample)
	beam, err := search.NewBeam(s.BeamSize, m, s.Generator, SequenceValidator{}, 0)
	if err != nil {
		return nil, err
	}
	best := beam.BestSequence(sample.Sentence, nil)
	if best == nil {
		return nil, errors.Errorf("no outcome sequence for %v", sample.Sentence)
	}
	return Events(sample.Sentence, best.Outcomes, s.Generator), nil
}

// Train trains a name finding model on samples with the algorithm of
// params.
func Train(samples util.ObjectStream[*Sample], params *train.Params) (*model.Model, error) {
	if train.IsSequenceTraining(params) {
		return train.TrainSequenceModel(NewSequenceStream(samples, params.BeamSize), params)
	}
	return train.TrainModel(NewEventStream(samples, NewContextGenerator()), params)
}
