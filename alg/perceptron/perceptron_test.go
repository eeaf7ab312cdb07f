package perceptron

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/indexer"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/util"
)

func toyIndexed(t *testing.T) *indexer.Indexed {
	events := make([]*event.Event, 0, 10)
	for i := 0; i < 5; i++ {
		events = append(events, event.New("A", []string{"f1", "f3"}))
		events = append(events, event.New("B", []string{"f2", "f3"}))
	}
	d, err := (&indexer.OnePass{Cutoff: 1}).Index(event.NewSliceStream(events))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestTrivialStrategy(t *testing.T) {
	params := []*model.MutableContext{model.NewMutableContext([]int{0}, []float64{2})}
	w := new(TrivialStrategy)
	w.Init(params, 10)
	w.Update(1, params)
	if final := w.Finalize(params); final[0] != params[0] {
		t.Error("Should return trivial value")
	}
}

func TestAveragedStrategy(t *testing.T) {
	params := []*model.MutableContext{model.NewMutableContext([]int{0, 1}, []float64{4, 1})}
	w := new(AveragedStrategy)
	w.Init(params, 4)
	w.Update(1, params)
	params[0].SetParameter(0, 0)
	w.Update(2, params)
	avg := w.Finalize(params)
	if avg[0].Parameters[0] != 2.0 {
		t.Error("Got averaged value", avg[0].Parameters[0], "expected", 2.0)
	}
	if avg[0].Parameters[1] != 1.0 {
		t.Error("Got averaged value", avg[0].Parameters[1], "expected", 1.0)
	}
}

func TestSkippedAveraging(t *testing.T) {
	params := []*model.MutableContext{model.NewMutableContext([]int{0}, []float64{1})}
	w := &AveragedStrategy{Skipped: true}
	w.Init(params, 30)
	for i := 1; i <= 30; i++ {
		w.Update(i, params)
	}
	// 1..19 and 25
	if w.N != 20 {
		t.Error("Averaged", w.N, "iterations expected 20")
	}
}

func TestToleranceStop(t *testing.T) {
	stop := ToleranceStop(0.01)
	cases := []struct {
		accuracies []float64
		expected   bool
	}{
		{[]float64{}, false},
		{[]float64{0.005}, true},
		{[]float64{0.8, 1, 1}, false},
		{[]float64{0.8, 1, 1, 1}, false},
		{[]float64{0.8, 1, 1, 1, 1}, true},
		{[]float64{1, 1, 0.995, 1}, true},
		{[]float64{1, 1, 0.98, 1}, false},
	}
	for _, c := range cases {
		if got := stop(len(c.accuracies), c.accuracies); got != c.expected {
			t.Error("Accuracies", c.accuracies, "got", got, "expected", c.expected)
		}
	}
	if NeverStop(10, []float64{1, 1, 1, 1}) {
		t.Error("NeverStop stopped")
	}
}

func TestToyScenario(t *testing.T) {
	d := toyIndexed(t)
	trainer := NewTrainer(100, DEFAULT_TOLERANCE, 0, true, false)
	m, err := trainer.Train(d)
	if err != nil {
		t.Fatal(err)
	}
	// 0.8 in the first iteration, then perfect; stops once three previous
	// accuracies agree
	expected := []float64{0.8, 1, 1, 1, 1}
	if len(trainer.Accuracies) != len(expected) {
		t.Fatal("Got accuracies", trainer.Accuracies, "expected", expected)
	}
	for i := range expected {
		if trainer.Accuracies[i] != expected[i] {
			t.Error("Iteration", i+1, "got accuracy", trainer.Accuracies[i], "expected", expected[i])
		}
	}
	if best := m.BestOutcome(m.Eval([]string{"f1", "f3"})); best != "A" {
		t.Error("Got", best, "expected A")
	}
	if best := m.BestOutcome(m.Eval([]string{"f2", "f3"})); best != "B" {
		t.Error("Got", best, "expected B")
	}
	raw := m.EvalRaw([]string{"f1"}, nil, false)
	if raw[0] != 1 || raw[1] != -1 {
		t.Error("Got raw scores", raw, "expected [1 -1]")
	}
}

func TestStepSizeDecrease(t *testing.T) {
	d := toyIndexed(t)
	trainer := NewTrainer(100, DEFAULT_TOLERANCE, 50, false, false)
	m, err := trainer.Train(d)
	if err != nil {
		t.Fatal(err)
	}
	raw := m.EvalRaw([]string{"f1"}, nil, false)
	if raw[0] != 0.5 || raw[1] != -0.5 {
		t.Error("Got raw scores", raw, "expected [0.5 -0.5]")
	}
	if _, err := NewTrainer(10, 0, 100, true, false).Train(d); err == nil {
		t.Error("Expected error for a step size decrease of 100%")
	}
}

func TestRunsAllIterationsWithoutTolerance(t *testing.T) {
	trainer := NewTrainer(12, 0, 0, true, true)
	if _, err := trainer.Train(toyIndexed(t)); err != nil {
		t.Fatal(err)
	}
	if len(trainer.Accuracies) != 12 {
		t.Error("Ran", len(trainer.Accuracies), "iterations expected 12")
	}
}

func TestProbabilitiesSumToOne(t *testing.T) {
	m, err := NewTrainer(100, DEFAULT_TOLERANCE, 0, true, false).Train(toyIndexed(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, context := range [][]string{{"f1"}, {"f1", "f2", "f3"}, {}} {
		var sum float64
		for _, p := range m.Eval(context) {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Error("Distribution for", context, "sums to", sum)
		}
	}
}

// greedy tagger over "word/TAG" sentences, with the previous tag as a
// feature so decoding errors change later contexts
type toyTagger struct {
	*util.SliceStream[*event.Sequence]
}

func toyContext(words []string, i int, prev string) []string {
	return []string{"w=" + words[i], "p=" + prev}
}

func newToyTagger(sentences []string) *toyTagger {
	seqs := make([]*event.Sequence, len(sentences))
	for si, sentence := range sentences {
		var words, tags []string
		for _, token := range strings.Fields(sentence) {
			parts := strings.Split(token, "/")
			words, tags = append(words, parts[0]), append(tags, parts[1])
		}
		events := make([]*event.Event, len(words))
		prev := "*SB*"
		for i := range words {
			events[i] = event.New(tags[i], toyContext(words, i, prev))
			prev = tags[i]
		}
		seqs[si] = &event.Sequence{Events: events, Source: words}
	}
	return &toyTagger{util.NewSliceStream(seqs)}
}

func (tt *toyTagger) decode(words []string, m *model.Model) []*event.Event {
	events := make([]*event.Event, len(words))
	prev := "*SB*"
	for i := range words {
		context := toyContext(words, i, prev)
		prev = m.BestOutcome(m.Eval(context))
		events[i] = event.New(prev, context)
	}
	return events
}

func (tt *toyTagger) UpdateContext(seq *event.Sequence, m *model.Model) ([]*event.Event, error) {
	return tt.decode(seq.Source.([]string), m), nil
}

var toySentences = []string{
	"the/DT dog/NN barks/VB",
	"a/DT cat/NN sleeps/VB",
	"the/DT cat/NN barks/VB",
	"dogs/NN bark/VB",
}

func tags(events []*event.Event) string {
	outcomes := make([]string, len(events))
	for i, e := range events {
		outcomes[i] = e.Outcome
	}
	return strings.Join(outcomes, " ")
}

func TestSequenceTrainer(t *testing.T) {
	stream := newToyTagger(toySentences)
	trainer := &SequenceTrainer{Iterations: 50, Cutoff: 1, Tolerance: DEFAULT_TOLERANCE}
	m, err := trainer.Train(stream)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{7.0 / 11, 9.0 / 11, 1, 1, 1, 1}
	if len(trainer.Accuracies) != len(expected) {
		t.Fatal("Got accuracies", trainer.Accuracies, "expected", expected)
	}
	for i := range expected {
		if math.Abs(trainer.Accuracies[i]-expected[i]) > 1e-12 {
			t.Error("Iteration", i+1, "got accuracy", trainer.Accuracies[i], "expected", expected[i])
		}
	}
	if trainer.Generations != 24 {
		t.Error("Got", trainer.Generations, "generations expected 24")
	}
	for _, sentence := range toySentences {
		gold := newToyTagger([]string{sentence})
		seq, _ := gold.Read()
		if got, want := tags(stream.decode(seq.Source.([]string), m)), tags(seq.Events); got != want {
			t.Error("Decoded", got, "expected", want)
		}
	}
}

func TestSequenceTrainerAveraged(t *testing.T) {
	stream := newToyTagger(toySentences)
	trainer := &SequenceTrainer{Iterations: 50, Cutoff: 1, Tolerance: DEFAULT_TOLERANCE, UseAverage: true}
	m, err := trainer.Train(stream)
	if err != nil {
		t.Fatal(err)
	}
	if len(trainer.Accuracies) != 6 {
		t.Error("Got accuracies", trainer.Accuracies)
	}
	decoded := tags(stream.decode([]string{"the", "dog", "barks"}, m))
	if decoded != "DT NN VB" {
		t.Error("Decoded", decoded, "expected DT NN VB")
	}
	unseen := tags(stream.decode([]string{"the", "dogs", "sleeps"}, m))
	if unseen != "DT NN VB" {
		t.Error("Decoded", unseen, "expected DT NN VB")
	}
}

func TestSequenceTrainerEmpty(t *testing.T) {
	if _, err := (&SequenceTrainer{Iterations: 5}).Train(newToyTagger(nil)); err == nil {
		t.Error("Expected error for an empty sequence stream")
	}
}

// replays a fixed decoding whatever the model
type fixedDecoding struct {
	*util.SliceStream[*event.Sequence]
	decoded []*event.Event
}

func (f *fixedDecoding) UpdateContext(seq *event.Sequence, m *model.Model) ([]*event.Event, error) {
	return f.decoded, nil
}

func TestSequenceTrainerUpdatesOnlyDisagreements(t *testing.T) {
	gold := []*event.Event{
		event.New("A", []string{"x"}),
		event.New("B", []string{"y", "p=A"}),
	}
	// the second outcome agrees but was decoded under a different history
	stream := &fixedDecoding{
		SliceStream: util.NewSliceStream([]*event.Sequence{{Events: gold}}),
		decoded: []*event.Event{
			event.New("B", []string{"x"}),
			event.New("B", []string{"y", "p=B"}),
		},
	}
	trainer := &SequenceTrainer{Iterations: 1, Cutoff: 1, Continue: NeverStop}
	m, err := trainer.Train(stream)
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]map[string]float64{"x": {"A": 1, "B": -1}}
	if weights := m.Weights(); !reflect.DeepEqual(weights, expected) {
		t.Error("Got weights", weights, "expected", expected)
	}
	if trainer.Accuracies[0] != 0.5 {
		t.Error("Got accuracy", trainer.Accuracies[0], "expected 0.5")
	}
}
