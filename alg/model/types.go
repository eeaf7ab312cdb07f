package model

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind selects how the shared parameter payload is evaluated.
type Kind int

const (
	GIS Kind = iota
	Perceptron
)

var kindNames = []string{"GIS", "Perceptron"}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return GIS, errors.Errorf("unknown model kind %q", s)
}

// Context is one row of the sparse weight matrix: the outcomes a predicate
// is active for and the parameter of each. Both slices have equal length.
type Context struct {
	Outcomes   []int
	Parameters []float64
}

func NewContext(outcomes []int, parameters []float64) *Context {
	if len(outcomes) != len(parameters) {
		panic(fmt.Sprintf("context outcomes and parameters differ in length: %d != %d", len(outcomes), len(parameters)))
	}
	return &Context{outcomes, parameters}
}

func (c *Context) Copy() *Context {
	outcomes := make([]int, len(c.Outcomes))
	copy(outcomes, c.Outcomes)
	params := make([]float64, len(c.Parameters))
	copy(params, c.Parameters)
	return &Context{outcomes, params}
}

// MutableContext is the trainer side view of a Context. Parameters are
// addressed by their position in Outcomes.
type MutableContext struct {
	Context
}

func NewMutableContext(outcomes []int, parameters []float64) *MutableContext {
	return &MutableContext{*NewContext(outcomes, parameters)}
}

func (c *MutableContext) SetParameter(outcomeIndex int, value float64) {
	c.Parameters[outcomeIndex] = value
}

func (c *MutableContext) UpdateParameter(outcomeIndex int, value float64) {
	c.Parameters[outcomeIndex] += value
}

// Contains reports whether outcome is active for this context.
func (c *MutableContext) Contains(outcome int) bool {
	return c.IndexOf(outcome) >= 0
}

// IndexOf returns the position of outcome in Outcomes, or -1.
func (c *MutableContext) IndexOf(outcome int) int {
	for i, o := range c.Outcomes {
		if o == outcome {
			return i
		}
	}
	return -1
}

// EvalParameters is the parameter payload shared by every model kind.
// CorrectionConstant and CorrectionParam are only meaningful for GIS.
type EvalParameters struct {
	Params             []*Context
	NumOutcomes        int
	CorrectionConstant float64
	ConstantInverse    float64
	CorrectionParam    float64
}

func NewEvalParameters(params []*Context, numOutcomes int, correctionConstant, correctionParam float64) *EvalParameters {
	inverse := 1.0
	if correctionConstant > 0 {
		inverse = 1.0 / correctionConstant
	}
	return &EvalParameters{
		Params:             params,
		NumOutcomes:        numOutcomes,
		CorrectionConstant: correctionConstant,
		ConstantInverse:    inverse,
		CorrectionParam:    correctionParam,
	}
}

// Copy returns a deep copy, detaching the result from any trainer buffer.
func (p *EvalParameters) Copy() *EvalParameters {
	params := make([]*Context, len(p.Params))
	for i, c := range p.Params {
		if c != nil {
			params[i] = c.Copy()
		}
	}
	return NewEvalParameters(params, p.NumOutcomes, p.CorrectionConstant, p.CorrectionParam)
}
