package perceptron

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/quicquam/opennlp4net-sub003/alg/indexer"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
)

const DEFAULT_TOLERANCE = 0.00001

// Trainer is the averaged perceptron over independent events. Events are
// visited in index order, each repeated as many times as it was seen.
type Trainer struct {
	Iterations int
	Log        bool

	// StepSizeDecrease is the percentage the step size shrinks by at the
	// start of every iteration; zero keeps it at 1.
	StepSizeDecrease float64
	Tolerance        float64

	Updater  UpdateStrategy
	Continue StopCondition

	Accuracies []float64
}

// NewTrainer configures a trainer the usual way: averaging (skipped if
// asked) and tolerance based stopping.
func NewTrainer(iterations int, tolerance, stepSizeDecrease float64, useAverage, useSkippedAveraging bool) *Trainer {
	t := &Trainer{
		Iterations:       iterations,
		StepSizeDecrease: stepSizeDecrease,
		Tolerance:        tolerance,
		Updater:          &TrivialStrategy{},
	}
	if useAverage {
		t.Updater = &AveragedStrategy{Skipped: useSkippedAveraging}
	}
	return t
}

func (t *Trainer) String() string {
	return fmt.Sprintf("Perceptron [%d iterations, tolerance %v, step size decrease %v%%]", t.Iterations, t.Tolerance, t.StepSizeDecrease)
}

func allOutcomes(numOutcomes int) []int {
	outcomes := make([]int, numOutcomes)
	for i := range outcomes {
		outcomes[i] = i
	}
	return outcomes
}

func newParams(numPreds, numOutcomes int) ([]*model.MutableContext, *model.EvalParameters) {
	outcomes := allOutcomes(numOutcomes)
	params := make([]*model.MutableContext, numPreds)
	contexts := make([]*model.Context, numPreds)
	for pi := range params {
		params[pi] = model.NewMutableContext(outcomes, make([]float64, numOutcomes))
		contexts[pi] = &params[pi].Context
	}
	return params, model.NewEvalParameters(contexts, numOutcomes, 0, 0)
}

func contexts(params []*model.MutableContext) []*model.Context {
	retval := make([]*model.Context, len(params))
	for pi, p := range params {
		retval[pi] = p.Context.Copy()
	}
	return retval
}

// Train fits a perceptron model to the indexed events d.
func (t *Trainer) Train(d *indexer.Indexed) (*model.Model, error) {
	if t.Iterations < 1 {
		return nil, errors.Errorf("perceptron needs at least one iteration, got %d", t.Iterations)
	}
	if t.StepSizeDecrease < 0 || t.StepSizeDecrease >= 100 {
		return nil, errors.Errorf("step size decrease %v is not a percentage in [0,100)", t.StepSizeDecrease)
	}
	if d.NumUniqueEvents() == 0 {
		return nil, errors.New("no events to train on")
	}
	if t.Updater == nil {
		t.Updater = &TrivialStrategy{}
	}
	if t.Continue == nil {
		t.Continue = ToleranceStop(t.Tolerance)
	}
	numOutcomes := len(d.OutcomeLabels)
	params, evalParams := newParams(len(d.PredLabels), numOutcomes)
	t.Updater.Init(params, t.Iterations)

	prevPrefix, prevFlags := log.Prefix(), log.Flags()
	defer func() {
		log.SetPrefix(prevPrefix)
		log.SetFlags(prevFlags)
	}()
	if t.Log {
		log.Println("Performing", t.Iterations, "iterations.")
	}

	numEvents := float64(d.NumEvents())
	stepSize := 1.0
	dist := make([]float64, numOutcomes)
	t.Accuracies = make([]float64, 0, t.Iterations)
	for i := 1; i <= t.Iterations; i++ {
		if t.Log {
			log.SetPrefix(fmt.Sprintf("IT #%d ", i) + prevPrefix)
		}
		if t.StepSizeDecrease > 0 {
			stepSize *= 1 - t.StepSizeDecrease/100
		}
		var numCorrect int
		for ei, context := range d.Contexts {
			target := d.OutcomeList[ei]
			values := d.Values[ei]
			for ni := 0; ni < d.NumTimesEventsSeen[ei]; ni++ {
				for oi := range dist {
					dist[oi] = 0
				}
				model.EvalPerceptron(context, values, dist, evalParams, false)
				max := floats.MaxIdx(dist)
				if max == target {
					numCorrect++
					continue
				}
				for ci, pi := range context {
					value := stepSize
					if values != nil {
						value *= values[ci]
					}
					params[pi].UpdateParameter(target, value)
					params[pi].UpdateParameter(max, -value)
				}
			}
		}
		accuracy := float64(numCorrect) / numEvents
		t.Accuracies = append(t.Accuracies, accuracy)
		if t.Log {
			log.Printf("%d: (%d/%d) %v", i, numCorrect, int(numEvents), accuracy)
		}
		t.Updater.Update(i, params)
		if t.Continue(i, t.Accuracies) {
			if t.Log {
				log.Println("Stopping: change in training set accuracy less than", t.Tolerance)
			}
			break
		}
	}

	final := t.Updater.Finalize(params)
	return model.New(model.Perceptron, contexts(final), d.PredLabels, d.OutcomeLabels, 0, 0)
}
