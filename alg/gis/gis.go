package gis

import (
	"fmt"
	"log"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/quicquam/opennlp4net-sub003/alg/indexer"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
)

const DEFAULT_SMOOTHING_OBSERVATION = 0.1

// Trainer fits a maxent model by Generalized Iterative Scaling with a
// slack (correction) feature. It always runs exactly Iterations
// iterations.
type Trainer struct {
	Iterations int
	Cutoff     int
	Threads    int
	Log        bool

	// CorrectionConstant fixes C; zero computes it as the largest
	// feature mass of any event. A fixed C must not be smaller.
	CorrectionConstant int

	// Smoothing makes every outcome active for every predicate; unseen
	// (predicate, outcome) pairs are observed SmoothingObservation times.
	Smoothing            bool
	SmoothingObservation float64

	// LogLikelihoods and Accuracies record every iteration of the last run
	LogLikelihoods []float64
	Accuracies     []float64

	// training state
	d                  *indexer.Indexed
	numOutcomes        int
	correctionConstant float64
	params             []*model.MutableContext
	observed           []*model.MutableContext
	evalParams         *model.EvalParameters
	prior              *model.UniformPrior
	observedSlack      float64
}

// expectations is the per worker share of one iteration
type expectations struct {
	model         [][]float64
	slack         float64
	logLikelihood float64
	correct       int
}

func (t *Trainer) String() string {
	return fmt.Sprintf("GIS [%d iterations, cutoff %d, %d threads]", t.Iterations, t.Cutoff, t.Threads)
}

func eventMass(context []int, values []float64) float64 {
	if values == nil {
		return float64(len(context))
	}
	return floats.Sum(values)
}

// Train fits the parameters for the indexed events d.
func (t *Trainer) Train(d *indexer.Indexed) (*model.Model, error) {
	if t.Iterations < 1 {
		return nil, errors.Errorf("GIS needs at least one iteration, got %d", t.Iterations)
	}
	if len(d.OutcomeLabels) == 0 || d.NumUniqueEvents() == 0 {
		return nil, errors.New("no events to train on")
	}
	threads := t.Threads
	if threads < 1 {
		threads = 1
	}
	if threads > d.NumUniqueEvents() {
		threads = d.NumUniqueEvents()
	}
	if err := t.init(d); err != nil {
		return nil, err
	}

	prevPrefix, prevFlags := log.Prefix(), log.Flags()
	defer func() {
		log.SetPrefix(prevPrefix)
		log.SetFlags(prevFlags)
	}()
	if t.Log {
		log.Println("Number of Event Tokens:", d.NumUniqueEvents())
		log.Println("    Number of Outcomes:", t.numOutcomes)
		log.Println("  Number of Predicates:", len(d.PredLabels))
		log.Println("   Correction constant:", t.correctionConstant)
		log.Println("Computing model parameters...")
	}
	t.LogLikelihoods = make([]float64, 0, t.Iterations)
	t.Accuracies = make([]float64, 0, t.Iterations)
	numEvents := float64(d.NumEvents())
	for i := 1; i <= t.Iterations; i++ {
		if t.Log {
			log.SetPrefix(fmt.Sprintf("IT #%d ", i))
			log.SetFlags(0)
		}
		ll, correct, err := t.iterate(threads)
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d", i)
		}
		accuracy := float64(correct) / numEvents
		if t.Log {
			log.Printf("%d - loglikelihood=%v\t%v", i, ll, accuracy)
			if n := len(t.LogLikelihoods); n > 0 && ll < t.LogLikelihoods[n-1] {
				log.Println("Warning: log likelihood decreased from", t.LogLikelihoods[n-1])
			}
		}
		t.LogLikelihoods = append(t.LogLikelihoods, ll)
		t.Accuracies = append(t.Accuracies, accuracy)
	}

	contexts := make([]*model.Context, len(t.params))
	for pi, p := range t.params {
		contexts[pi] = p.Context.Copy()
	}
	return model.New(model.GIS, contexts, d.PredLabels, d.OutcomeLabels, t.correctionConstant, t.evalParams.CorrectionParam)
}

func (t *Trainer) init(d *indexer.Indexed) error {
	t.d = d
	t.numOutcomes = len(d.OutcomeLabels)
	numPreds := len(d.PredLabels)

	var maxMass float64
	for ti, context := range d.Contexts {
		if mass := eventMass(context, d.Values[ti]); mass > maxMass {
			maxMass = mass
		}
	}
	c := math.Ceil(maxMass)
	if t.CorrectionConstant > 0 {
		if float64(t.CorrectionConstant) < maxMass {
			return errors.Errorf("correction constant %d is smaller than the largest event feature mass %v", t.CorrectionConstant, maxMass)
		}
		c = float64(t.CorrectionConstant)
	}
	if c < 1 {
		c = 1
	}
	t.correctionConstant = c

	predCount := make([][]float64, numPreds)
	for pi := range predCount {
		predCount[pi] = make([]float64, t.numOutcomes)
	}
	for ti, context := range d.Contexts {
		oi := d.OutcomeList[ti]
		seen := float64(d.NumTimesEventsSeen[ti])
		for j, pi := range context {
			value := 1.0
			if d.Values[ti] != nil {
				value = d.Values[ti][j]
			}
			predCount[pi][oi] += seen * value
		}
	}

	smoothing := t.SmoothingObservation
	if smoothing <= 0 {
		smoothing = DEFAULT_SMOOTHING_OBSERVATION
	}
	t.params = make([]*model.MutableContext, numPreds)
	t.observed = make([]*model.MutableContext, numPreds)
	contexts := make([]*model.Context, numPreds)
	for pi := range predCount {
		active := make([]int, 0, t.numOutcomes)
		for oi, count := range predCount[pi] {
			if t.Smoothing || count > 0 {
				active = append(active, oi)
			}
		}
		observed := make([]float64, len(active))
		for ai, oi := range active {
			if count := predCount[pi][oi]; count > 0 {
				observed[ai] = count
			} else {
				observed[ai] = smoothing
			}
		}
		t.params[pi] = model.NewMutableContext(active, make([]float64, len(active)))
		t.observed[pi] = model.NewMutableContext(active, observed)
		contexts[pi] = &t.params[pi].Context
	}
	t.evalParams = model.NewEvalParameters(contexts, t.numOutcomes, c, 0)
	t.prior = model.NewUniformPrior(t.numOutcomes)

	t.observedSlack = 0
	for ti, context := range d.Contexts {
		t.observedSlack += (c - eventMass(context, d.Values[ti])) * float64(d.NumTimesEventsSeen[ti])
	}
	return nil
}

func (t *Trainer) newExpectations() *expectations {
	e := &expectations{model: make([][]float64, len(t.params))}
	for pi, p := range t.params {
		e.model[pi] = make([]float64, len(p.Outcomes))
	}
	return e
}

// expect accumulates the model expectations of events [start, end)
func (t *Trainer) expect(e *expectations, start, end int) error {
	d := t.d
	dist := make([]float64, t.numOutcomes)
	numfeats := make([]float64, t.numOutcomes)
	for ti := start; ti < end; ti++ {
		context, values := d.Contexts[ti], d.Values[ti]
		seen := float64(d.NumTimesEventsSeen[ti])
		for oi := range numfeats {
			numfeats[oi] = 0
		}
		t.prior.LogPrior(dist, context, values)
		model.EvalGISFanout(context, values, dist, numfeats, t.evalParams)
		for j, pi := range context {
			if d.PredCounts[pi] < t.Cutoff {
				continue
			}
			value := 1.0
			if values != nil {
				value = values[j]
			}
			row := e.model[pi]
			for ai, oi := range t.params[pi].Outcomes {
				row[ai] += dist[oi] * value * seen
			}
		}
		for oi, p := range dist {
			e.slack += p * (t.correctionConstant - numfeats[oi]) * seen
		}
		gold := dist[d.OutcomeList[ti]]
		if math.IsNaN(gold) {
			return errors.Errorf("model probability of event %d is not a number", ti)
		}
		e.logLikelihood += math.Log(gold) * seen
		if floats.MaxIdx(dist) == d.OutcomeList[ti] {
			e.correct += d.NumTimesEventsSeen[ti]
		}
	}
	return nil
}

// iterate runs one GIS iteration and returns the log likelihood and the
// number of correctly classified events under the parameters it started
// from.
func (t *Trainer) iterate(threads int) (float64, int, error) {
	numUnique := t.d.NumUniqueEvents()
	shares := make([]*expectations, threads)
	var g errgroup.Group
	for i := 0; i < threads; i++ {
		i := i
		start, end := i*numUnique/threads, (i+1)*numUnique/threads
		shares[i] = t.newExpectations()
		g.Go(func() error {
			return t.expect(shares[i], start, end)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	total := shares[0]
	for _, share := range shares[1:] {
		for pi, row := range share.model {
			floats.Add(total.model[pi], row)
		}
		total.slack += share.slack
		total.logLikelihood += share.logLikelihood
		total.correct += share.correct
	}

	for pi, p := range t.params {
		observed := t.observed[pi].Parameters
		for ai := range p.Outcomes {
			expected := total.model[pi][ai]
			if expected <= 0 || observed[ai] <= 0 {
				continue
			}
			p.UpdateParameter(ai, math.Log(observed[ai])-math.Log(expected))
		}
	}
	if t.observedSlack > 0 && total.slack > 0 {
		t.evalParams.CorrectionParam += math.Log(t.observedSlack) - math.Log(total.slack)
	}
	return total.logLikelihood, total.correct, nil
}
