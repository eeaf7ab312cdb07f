package perceptron

import (
	"fmt"
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	. "github.com/quicquam/opennlp4net-sub003/alg/featurevector"
	"github.com/quicquam/opennlp4net-sub003/alg/indexer"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// SequenceTrainer is the perceptron over whole sequences. Each sequence
// is decoded with the current parameters; when the decoding differs from
// the gold sequence, the gold features are added and the decoded features
// subtracted, per outcome, only at the positions whose outcomes differ.
// Positions that agree are left alone even when their decoded history
// features differ from the gold ones.
type SequenceTrainer struct {
	Iterations int
	Cutoff     int
	UseAverage bool
	Tolerance  float64
	Log        bool

	Continue StopCondition

	Accuracies []float64
	// Generations is the number of sequences processed by the last run
	Generations int
}

func (t *SequenceTrainer) String() string {
	return fmt.Sprintf("Sequence Perceptron [%d iterations, cutoff %d, averaged %v]", t.Iterations, t.Cutoff, t.UseAverage)
}

// Train fits a perceptron model to the sequences of stream. The stream is
// reset before indexing and before every iteration.
func (t *SequenceTrainer) Train(stream event.SequenceStream) (*model.Model, error) {
	if t.Iterations < 1 {
		return nil, errors.Errorf("perceptron needs at least one iteration, got %d", t.Iterations)
	}
	if t.Continue == nil {
		t.Continue = ToleranceStop(t.Tolerance)
	}
	if err := stream.Reset(); err != nil {
		return nil, errors.Wrap(err, "resetting sequence stream")
	}
	idx := &indexer.OnePass{Cutoff: t.Cutoff, Log: t.Log}
	d, err := idx.Index(event.NewFlattenStream(stream))
	if err != nil {
		return nil, errors.Wrap(err, "indexing sequences")
	}
	if d.NumUniqueEvents() == 0 {
		return nil, errors.New("no events to train on")
	}
	numOutcomes := len(d.OutcomeLabels)
	outcomes, err := util.NewFrozenEnumSet(d.OutcomeLabels)
	if err != nil {
		return nil, err
	}
	predicates, err := util.NewFrozenEnumSet(d.PredLabels)
	if err != nil {
		return nil, err
	}
	params, evalParams := newParams(len(d.PredLabels), numOutcomes)
	// current decodes with the live parameter buffer
	current, err := model.New(model.Perceptron, evalParams.Params, d.PredLabels, d.OutcomeLabels, 0, 0)
	if err != nil {
		return nil, err
	}
	var averages []*LockedArray
	if t.UseAverage {
		averages = make([]*LockedArray, len(params))
		for pi := range averages {
			averages[pi] = NewLockedArray(numOutcomes)
		}
	}
	featureCounts := make([]Sparse, numOutcomes)
	for oi := range featureCounts {
		featureCounts[oi] = NewSparse()
	}

	prevPrefix, prevFlags := log.Prefix(), log.Flags()
	defer func() {
		log.SetPrefix(prevPrefix)
		log.SetFlags(prevFlags)
	}()

	var generation int
	t.Accuracies = make([]float64, 0, t.Iterations)
	for i := 1; i <= t.Iterations; i++ {
		if t.Log {
			log.SetPrefix(fmt.Sprintf("IT #%d ", i) + prevPrefix)
		}
		if err := stream.Reset(); err != nil {
			return nil, errors.Wrap(err, "resetting sequence stream")
		}
		var numCorrect, numEvents int
		for si := 0; ; si++ {
			seq, err := stream.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.Wrapf(err, "reading sequence %d", si+1)
			}
			decoded, err := stream.UpdateContext(seq, current)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding sequence %d", si+1)
			}
			if len(decoded) != len(seq.Events) {
				return nil, errors.Errorf("sequence %d: decoded %d events for %d gold events", si+1, len(decoded), len(seq.Events))
			}
			var update bool
			for ei, gold := range seq.Events {
				if decoded[ei].Outcome != gold.Outcome {
					update = true
				} else {
					numCorrect++
				}
				numEvents++
			}
			if update {
				for _, fc := range featureCounts {
					fc.Clear()
				}
				for ei, gold := range seq.Events {
					if decoded[ei].Outcome == gold.Outcome {
						continue
					}
					if oi, known := outcomes.IndexOf(gold.Outcome); known {
						featureCounts[oi].UpdateAdd(FromContext(gold.Context, gold.Values))
					}
					if oi, known := outcomes.IndexOf(decoded[ei].Outcome); known {
						featureCounts[oi].UpdateSubtract(FromContext(decoded[ei].Context, decoded[ei].Values))
					}
				}
				for oi, fc := range featureCounts {
					for _, pred := range fc.Keys() {
						pi, known := predicates.IndexOf(pred)
						if !known {
							continue
						}
						amount := fc[pred]
						params[pi].UpdateParameter(oi, amount)
						if averages != nil {
							averages[pi].Add(generation, oi, amount)
						}
					}
				}
			}
			generation++
		}
		if numEvents == 0 {
			return nil, errors.New("sequence stream is empty")
		}
		accuracy := float64(numCorrect) / float64(numEvents)
		t.Accuracies = append(t.Accuracies, accuracy)
		if t.Log {
			log.Printf("%d: (%d/%d) %v", i, numCorrect, numEvents, accuracy)
		}
		if t.Continue(i, t.Accuracies) {
			if t.Log {
				log.Println("Stopping: change in training set accuracy less than", t.Tolerance)
			}
			break
		}
	}
	t.Generations = generation

	final := contexts(params)
	if averages != nil {
		for pi, c := range final {
			c.Parameters = averages[pi].Averages(generation)
		}
	}
	return model.New(model.Perceptron, final, d.PredLabels, d.OutcomeLabels, 0, 0)
}
