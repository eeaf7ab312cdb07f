package perceptron

import (
	"math"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/util"
)

// StopCondition reports whether training should stop after an iteration,
// given the training accuracy of every iteration so far.
type StopCondition func(iteration int, accuracies []float64) bool

// ToleranceStop stops once the latest accuracy is within tolerance of each
// of the three before it. Iterations before the first count as accuracy 0.
func ToleranceStop(tolerance float64) StopCondition {
	return func(iteration int, accuracies []float64) bool {
		n := len(accuracies)
		if n == 0 {
			return false
		}
		current := accuracies[n-1]
		for k := 2; k <= 4; k++ {
			var prev float64
			if n-k >= 0 {
				prev = accuracies[n-k]
			}
			if math.Abs(prev-current) >= tolerance {
				return false
			}
		}
		return true
	}
}

// NeverStop runs the full iteration budget.
func NeverStop(iteration int, accuracies []float64) bool {
	return false
}

// UpdateStrategy decides what the trainer returns from its parameter
// buffer: Update is called once at the end of every iteration.
type UpdateStrategy interface {
	Init(params []*model.MutableContext, iterations int)
	Update(iteration int, params []*model.MutableContext)
	Finalize(params []*model.MutableContext) []*model.MutableContext
}

type TrivialStrategy struct{}

var _ UpdateStrategy = &TrivialStrategy{}

func (u *TrivialStrategy) Init(params []*model.MutableContext, iterations int) {

}

func (u *TrivialStrategy) Update(iteration int, params []*model.MutableContext) {

}

func (u *TrivialStrategy) Finalize(params []*model.MutableContext) []*model.MutableContext {
	return params
}

// AveragedStrategy sums the parameters after each iteration and returns
// their mean. With Skipped set only iterations below 20 and perfect
// squares are summed.
type AveragedStrategy struct {
	Skipped    bool
	N          int
	accumModel []*model.MutableContext
}

var _ UpdateStrategy = &AveragedStrategy{}

func (u *AveragedStrategy) Init(params []*model.MutableContext, iterations int) {
	// explicitly reset u.N in case of reuse
	u.N = 0
	u.accumModel = make([]*model.MutableContext, len(params))
	for pi, p := range params {
		u.accumModel[pi] = model.NewMutableContext(p.Outcomes, make([]float64, len(p.Parameters)))
	}
}

func (u *AveragedStrategy) Update(iteration int, params []*model.MutableContext) {
	if u.Skipped && iteration >= 20 && !util.IsPerfectSquare(iteration) {
		return
	}
	for pi, p := range params {
		for ai, value := range p.Parameters {
			u.accumModel[pi].UpdateParameter(ai, value)
		}
	}
	u.N++
}

func (u *AveragedStrategy) Finalize(params []*model.MutableContext) []*model.MutableContext {
	if u.N == 0 {
		return params
	}
	for _, p := range u.accumModel {
		for ai, value := range p.Parameters {
			p.SetParameter(ai, value/float64(u.N))
		}
	}
	return u.accumModel
}
