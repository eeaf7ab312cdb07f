package model

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/quicquam/opennlp4net-sub003/util"
)

// Model is a trained, immutable maxent or perceptron model: predicate and
// outcome tables plus the evaluation parameters.
type Model struct {
	kind       Kind
	params     *EvalParameters
	predicates *util.EnumSet
	outcomes   *util.EnumSet
	prior      Prior
}

// New builds a model over params. params[i] holds the weights of
// predLabels[i]; outcome ids index outcomeNames.
func New(kind Kind, params []*Context, predLabels, outcomeNames []string, correctionConstant, correctionParam float64) (*Model, error) {
	if len(params) != len(predLabels) {
		return nil, errors.Errorf("%d predicate labels for %d contexts", len(predLabels), len(params))
	}
	if len(outcomeNames) == 0 {
		return nil, errors.New("model has no outcomes")
	}
	predicates, err := util.NewFrozenEnumSet(predLabels)
	if err != nil {
		return nil, errors.Wrap(err, "predicate table")
	}
	outcomes, err := util.NewFrozenEnumSet(outcomeNames)
	if err != nil {
		return nil, errors.Wrap(err, "outcome table")
	}
	for pid, c := range params {
		if c == nil {
			return nil, errors.Errorf("predicate %q has no context", predLabels[pid])
		}
		if len(c.Outcomes) != len(c.Parameters) {
			return nil, errors.Errorf("predicate %q has %d outcomes and %d parameters", predLabels[pid], len(c.Outcomes), len(c.Parameters))
		}
		for _, oid := range c.Outcomes {
			if oid < 0 || oid >= len(outcomeNames) {
				return nil, errors.Errorf("predicate %q refers to unknown outcome %d", predLabels[pid], oid)
			}
		}
	}
	if kind == GIS && correctionConstant <= 0 {
		correctionConstant = 1
	}
	m := &Model{
		kind:       kind,
		params:     NewEvalParameters(params, len(outcomeNames), correctionConstant, correctionParam),
		predicates: predicates,
		outcomes:   outcomes,
	}
	if kind == GIS {
		m.prior = NewUniformPrior(len(outcomeNames))
	}
	return m, nil
}

func (m *Model) Kind() Kind {
	return m.kind
}

// Parameters exposes the evaluation parameters; callers must not modify them.
func (m *Model) Parameters() *EvalParameters {
	return m.params
}

func (m *Model) NumOutcomes() int {
	return m.params.NumOutcomes
}

func (m *Model) Outcome(i int) string {
	return m.outcomes.ValueOf(i)
}

// Index returns the id of outcome, or -1 when the model does not know it.
func (m *Model) Index(outcome string) int {
	if i, exists := m.outcomes.IndexOf(outcome); exists {
		return i
	}
	return -1
}

func (m *Model) Outcomes() []string {
	return m.outcomes.Values()
}

func (m *Model) Predicates() []string {
	return m.predicates.Values()
}

// PredicateIndex returns the id of pred, or -1 when it is unknown.
func (m *Model) PredicateIndex(pred string) int {
	if i, exists := m.predicates.IndexOf(pred); exists {
		return i
	}
	return -1
}

func (m *Model) indexContext(context []string) []int {
	scontexts := make([]int, len(context))
	for i, pred := range context {
		scontexts[i] = m.PredicateIndex(pred)
	}
	return scontexts
}

// Eval returns the normalized outcome distribution for context.
func (m *Model) Eval(context []string) []float64 {
	return m.EvalValues(context, nil)
}

// EvalValues is Eval with a real value per context predicate. A nil values
// slice means every predicate has value 1.
func (m *Model) EvalValues(context []string, values []float64) []float64 {
	return m.EvalRaw(context, values, true)
}

// EvalRaw evaluates context, normalizing only when normalize is set.
// Unnormalized scores are the plain weighted sums.
func (m *Model) EvalRaw(context []string, values []float64, normalize bool) []float64 {
	if values != nil && len(values) != len(context) {
		panic(fmt.Sprintf("%d values for %d context predicates", len(values), len(context)))
	}
	return m.EvalIndexed(m.indexContext(context), values, normalize)
}

// EvalIndexed evaluates an already indexed context.
func (m *Model) EvalIndexed(context []int, values []float64, normalize bool) []float64 {
	dist := make([]float64, m.params.NumOutcomes)
	switch m.kind {
	case GIS:
		if !normalize {
			accumulate(context, values, dist, nil, m.params)
			return dist
		}
		m.prior.LogPrior(dist, context, values)
		return EvalGIS(context, values, dist, m.params)
	case Perceptron:
		return EvalPerceptron(context, values, dist, m.params, normalize)
	default:
		panic("unknown model kind " + m.kind.String())
	}
}

// BestOutcome returns the label with the highest probability; ties go to
// the lowest outcome id.
func (m *Model) BestOutcome(dist []float64) string {
	return m.outcomes.ValueOf(floats.MaxIdx(dist))
}

// AllOutcomes pretty prints dist as "label[0.1234]" pairs.
func (m *Model) AllOutcomes(dist []float64) string {
	if len(dist) != m.params.NumOutcomes {
		return fmt.Sprintf("the distribution has %d outcomes, the model %d", len(dist), m.params.NumOutcomes)
	}
	var buf bytes.Buffer
	for i, p := range dist {
		if i > 0 {
			buf.WriteString("  ")
		}
		fmt.Fprintf(&buf, "%s[%.4f]", m.outcomes.ValueOf(i), p)
	}
	return buf.String()
}

// Weights maps every predicate to its per outcome parameters. Zero
// perceptron parameters are left out since they never affect evaluation.
func (m *Model) Weights() map[string]map[string]float64 {
	retval := make(map[string]map[string]float64, len(m.params.Params))
	for pid, c := range m.params.Params {
		row := make(map[string]float64, len(c.Outcomes))
		for ai, oid := range c.Outcomes {
			if m.kind == Perceptron && c.Parameters[ai] == 0 {
				continue
			}
			row[m.outcomes.ValueOf(oid)] = c.Parameters[ai]
		}
		if m.kind == Perceptron && len(row) == 0 {
			continue
		}
		retval[m.predicates.ValueOf(pid)] = row
	}
	return retval
}

// Equal reports whether other evaluates identically: same kind, outcome
// table, correction values and per predicate weights. Predicate ids may
// differ, as they do after a round trip through a model file.
func (m *Model) Equal(other *Model) bool {
	if other == nil || m.kind != other.kind {
		return false
	}
	if m.params.CorrectionConstant != other.params.CorrectionConstant ||
		m.params.CorrectionParam != other.params.CorrectionParam {
		return false
	}
	mo, oo := m.Outcomes(), other.Outcomes()
	if len(mo) != len(oo) {
		return false
	}
	for i := range mo {
		if mo[i] != oo[i] {
			return false
		}
	}
	mw, ow := m.Weights(), other.Weights()
	if len(mw) != len(ow) {
		return false
	}
	for pred, row := range mw {
		orow, exists := ow[pred]
		if !exists || len(orow) != len(row) {
			return false
		}
		for outcome, w := range row {
			if ow, exists := orow[outcome]; !exists || ow != w {
				return false
			}
		}
	}
	return true
}

func (m *Model) String() string {
	return fmt.Sprintf("%v model: %d outcomes [%s], %d predicates",
		m.kind, m.NumOutcomes(), strings.Join(m.Outcomes(), " "), m.predicates.Len())
}
