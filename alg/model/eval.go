package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Prior fills dist with log prior probabilities before evaluation.
type Prior interface {
	LogPrior(dist []float64, context []int, values []float64)
}

// UniformPrior assigns log(1/numOutcomes) to every outcome.
type UniformPrior struct {
	r float64
}

var _ Prior = &UniformPrior{}

func NewUniformPrior(numOutcomes int) *UniformPrior {
	return &UniformPrior{math.Log(1.0 / float64(numOutcomes))}
}

func (u *UniformPrior) LogPrior(dist []float64, context []int, values []float64) {
	for i := range dist {
		dist[i] = u.r
	}
}

func featureValue(values []float64, i int) float64 {
	if values == nil {
		return 1
	}
	return values[i]
}

// accumulate adds the weighted parameters of every known predicate in
// context to dist, counting the active features per outcome into numfeats
// when it is not nil. The count ignores feature values. Negative predicate ids are unknown
// predicates and are skipped.
func accumulate(context []int, values []float64, dist []float64, numfeats []float64, p *EvalParameters) {
	for ci, pid := range context {
		if pid < 0 {
			continue
		}
		predParams := p.Params[pid]
		if predParams == nil {
			continue
		}
		value := featureValue(values, ci)
		for ai, oid := range predParams.Outcomes {
			if numfeats != nil {
				numfeats[oid]++
			}
			dist[oid] += predParams.Parameters[ai] * value
		}
	}
}

// EvalGIS turns the log prior in dist into the normalized outcome
// distribution of a GIS model, in place.
func EvalGIS(context []int, values []float64, dist []float64, p *EvalParameters) []float64 {
	return EvalGISFanout(context, values, dist, make([]float64, p.NumOutcomes), p)
}

// EvalGISFanout is EvalGIS leaving the active feature count of every
// outcome in numfeats, which must be zeroed by the caller.
func EvalGISFanout(context []int, values []float64, dist, numfeats []float64, p *EvalParameters) []float64 {
	accumulate(context, values, dist, numfeats, p)
	for oid := range dist {
		dist[oid] *= p.ConstantInverse
		if p.CorrectionParam != 0 {
			dist[oid] += (1.0 - numfeats[oid]/p.CorrectionConstant) * p.CorrectionParam
		}
	}
	return softmax(dist)
}

// EvalPerceptron adds the perceptron scores to dist. When normalize is
// set the scores are divided by the largest absolute score (at least 1),
// exponentiated and renormalized; otherwise the raw sums are returned.
func EvalPerceptron(context []int, values []float64, dist []float64, p *EvalParameters, normalize bool) []float64 {
	accumulate(context, values, dist, nil, p)
	if !normalize {
		return dist
	}
	maxPrior := 1.0
	for _, score := range dist {
		if abs := math.Abs(score); abs > maxPrior {
			maxPrior = abs
		}
	}
	for oid := range dist {
		dist[oid] = math.Exp(dist[oid] / maxPrior)
	}
	floats.Scale(1/floats.Sum(dist), dist)
	return dist
}

// softmax exponentiates and normalizes dist in place. The maximum is
// subtracted first so large sums do not overflow.
func softmax(dist []float64) []float64 {
	if len(dist) == 0 {
		return dist
	}
	max := floats.Max(dist)
	for i := range dist {
		dist[i] = math.Exp(dist[i] - max)
	}
	floats.Scale(1/floats.Sum(dist), dist)
	return dist
}
