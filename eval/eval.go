// Package eval measures taggers, chunkers and name finders against
// reference samples.
package eval

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
)

// Precision, Recall and F1 are 0 when undefined.
func Precision(truePositives, testPositives int) float64 {
	if testPositives == 0 {
		return 0
	}
	return float64(truePositives) / float64(testPositives)
}

func Recall(truePositives, conditionPositives int) float64 {
	if conditionPositives == 0 {
		return 0
	}
	return float64(truePositives) / float64(conditionPositives)
}

func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2.0 * (precision * recall) / (precision + recall)
}

type Error interface {
	String() string
	Class() string
}

type Errors []Error

func (ers Errors) ByType() map[string]int {
	retval := make(map[string]int)
	for _, e := range ers {
		retval[e.Class()]++
	}
	return retval
}

// SpanError is a reference span the prediction missed, or a predicted span
// not in the reference.
type SpanError struct {
	Span     nlp.Span
	Spurious bool
}

func (e *SpanError) Class() string {
	if e.Spurious {
		return "spurious " + e.Span.Type
	}
	return "missed " + e.Span.Type
}

func (e *SpanError) String() string {
	return fmt.Sprintf("%s %v", e.Class(), e.Span)
}

// TagError is a token tagged Predicted instead of Reference.
type TagError struct {
	Token, Reference, Predicted string
}

func (e *TagError) Class() string {
	return e.Reference + "->" + e.Predicted
}

func (e *TagError) String() string {
	return fmt.Sprintf("%s %s", e.Token, e.Class())
}

type Result struct {
	TP, FP, TN, FN int
	Errors         Errors
}

func (r *Result) All() int {
	return r.TP + r.FP + r.TN + r.FN
}

func (r *Result) Correct() int {
	return r.TP + r.TN
}

func (r *Result) Incorrect() int {
	return r.FP + r.FN
}

func (r *Result) TestPositives() int {
	return r.TP + r.FP
}

func (r *Result) TestNegatives() int {
	return r.TN + r.FN
}

func (r *Result) ConditionPositives() int {
	return r.TP + r.FN
}

func (r *Result) ConditionNegatives() int {
	return r.FP + r.TN
}

func (r *Result) Precision() float64 {
	return Precision(r.TP, r.TestPositives())
}

func (r *Result) Recall() float64 {
	return Recall(r.TP, r.ConditionPositives())
}

func (r *Result) Accuracy() float64 {
	if r.All() == 0 {
		return 0
	}
	return float64(r.Correct()) / float64(r.All())
}

func (r *Result) F1() float64 {
	return F1(r.Precision(), r.Recall())
}

// Spans compares predicted spans to the reference: a predicted span is a
// true positive only if the reference holds an identical span, type
// included.
func Spans(reference, predicted []nlp.Span) *Result {
	r := &Result{}
	found := make(map[nlp.Span]bool, len(predicted))
	for _, s := range predicted {
		found[s] = true
	}
	expected := make(map[nlp.Span]bool, len(reference))
	for _, s := range reference {
		expected[s] = true
		if found[s] {
			r.TP++
		} else {
			r.FN++
			r.Errors = append(r.Errors, &SpanError{Span: s})
		}
	}
	for _, s := range predicted {
		if !expected[s] {
			r.FP++
			r.Errors = append(r.Errors, &SpanError{Span: s, Spurious: true})
		}
	}
	return r
}

// Words compares tags token by token. A correct tag counts as a true
// positive and a wrong one as a false positive, so Accuracy is the word
// accuracy.
func Words(tokens, reference, predicted []string) *Result {
	r := &Result{}
	for i, tag := range reference {
		if i < len(predicted) && predicted[i] == tag {
			r.TP++
			continue
		}
		r.FP++
		pred := ""
		if i < len(predicted) {
			pred = predicted[i]
		}
		r.Errors = append(r.Errors, &TagError{tokens[i], tag, pred})
	}
	return r
}

type Eval func(test, condition interface{}) *Result

// Total accumulates the results of a test set. Results are kept when
// Results is non-nil.
type Total struct {
	Result
	Results           []*Result
	Exact, Population int

	accuracies []float64
}

func (t *Total) Add(r *Result) {
	t.TP += r.TP
	t.FP += r.FP
	t.TN += r.TN
	t.FN += r.FN
	if r.Incorrect() == 0 {
		t.Exact += 1
	}
	t.Population += 1
	if r.All() > 0 {
		t.accuracies = append(t.accuracies, r.Accuracy())
	}
	if t.Results != nil {
		t.Results = append(t.Results, r)
	}
}

func (t *Total) ExactMatch() float64 {
	if t.Population == 0 {
		return 0
	}
	return float64(t.Exact) / float64(t.Population)
}

// SentenceAccuracy is the mean accuracy of the non-empty results.
func (t *Total) SentenceAccuracy() float64 {
	if len(t.accuracies) == 0 {
		return 0
	}
	return floats.Sum(t.accuracies) / float64(len(t.accuracies))
}

func (t *Total) Errors() Errors {
	retval := make(Errors, 0, t.Incorrect())
	for _, v := range t.Results {
		if v.Errors != nil {
			retval = append(retval, v.Errors...)
		}
	}
	return retval
}

func (t *Total) String() string {
	return fmt.Sprintf("Precision: %.4f Recall: %.4f F1: %.4f Accuracy: %.4f Exact: %d/%d",
		t.Precision(), t.Recall(), t.F1(), t.Accuracy(), t.Exact, t.Population)
}
