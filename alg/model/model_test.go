package model

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func toyGIS(t *testing.T) *Model {
	params := []*Context{
		NewContext([]int{0}, []float64{1.0}),
		NewContext([]int{1}, []float64{1.0}),
		NewContext([]int{0, 1}, []float64{0.25, -0.5}),
	}
	m, err := New(GIS, params, []string{"f1", "f2", "f3"}, []string{"A", "B"}, 2, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func toyPerceptron(t *testing.T) *Model {
	params := []*Context{
		NewContext([]int{0, 1}, []float64{2, -1}),
		NewContext([]int{1, 2}, []float64{1.5, 0.5}),
		NewContext([]int{2}, []float64{-3}),
	}
	m, err := New(Perceptron, params, []string{"w=a", "w=b", "suf=s"}, []string{"X", "Y", "Z"}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func sum(dist []float64) float64 {
	var s float64
	for _, p := range dist {
		s += p
	}
	return s
}

func TestEvalSumsToOne(t *testing.T) {
	contexts := [][]string{
		{"f1"}, {"f2", "f3"}, {"f1", "f2", "f3"}, {}, {"unknown"},
		{"w=a"}, {"w=b", "suf=s"}, {"w=a", "w=b", "suf=s"},
	}
	for _, m := range []*Model{toyGIS(t), toyPerceptron(t)} {
		for _, context := range contexts {
			dist := m.Eval(context)
			if len(dist) != m.NumOutcomes() {
				t.Fatal("Got", len(dist), "outcomes expected", m.NumOutcomes())
			}
			if s := sum(dist); math.Abs(s-1) > 1e-9 {
				t.Error(m.Kind(), "distribution for", context, "sums to", s)
			}
		}
	}
}

func TestEvalGIS(t *testing.T) {
	params := []*Context{
		NewContext([]int{0}, []float64{1.0}),
		NewContext([]int{1}, []float64{1.0}),
	}
	m, err := New(GIS, params, []string{"f1", "f2"}, []string{"A", "B"}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	dist := m.Eval([]string{"f1"})
	expected := math.E / (math.E + 1)
	if math.Abs(dist[0]-expected) > 1e-12 {
		t.Error("Got", dist[0], "expected", expected)
	}
	if m.BestOutcome(dist) != "A" {
		t.Error("Got best", m.BestOutcome(dist), "expected A")
	}
}

func TestEvalGISCorrection(t *testing.T) {
	m := toyGIS(t)
	// f1 only: A has 1 active feature, B none; C=2
	dist := m.Eval([]string{"f1"})
	a := 1.0/2 + (1-1.0/2)*0.3
	b := 0 + (1-0.0/2)*0.3
	expected := math.Exp(a) / (math.Exp(a) + math.Exp(b))
	if math.Abs(dist[0]-expected) > 1e-12 {
		t.Error("Got", dist[0], "expected", expected)
	}
}

func TestEvalGISFanoutCountsFeatures(t *testing.T) {
	m := toyGIS(t)
	// f1 and f3 with values 3 and 0.5: A has 2 active features, B 1
	dist := make([]float64, 2)
	m.prior.LogPrior(dist, []int{0, 2}, []float64{3, 0.5})
	numfeats := make([]float64, 2)
	EvalGISFanout([]int{0, 2}, []float64{3, 0.5}, dist, numfeats, m.Parameters())
	if numfeats[0] != 2 || numfeats[1] != 1 {
		t.Error("Got fan-out", numfeats, "expected [2 1]")
	}
	a := (math.Log(0.5)+3+0.25*0.5)/2 + (1-2.0/2)*0.3
	b := (math.Log(0.5)-0.5*0.5)/2 + (1-1.0/2)*0.3
	expected := math.Exp(a) / (math.Exp(a) + math.Exp(b))
	if math.Abs(dist[0]-expected) > 1e-12 {
		t.Error("Got", dist[0], "expected", expected)
	}
}

func TestEvalPerceptron(t *testing.T) {
	m := toyPerceptron(t)
	raw := m.EvalRaw([]string{"w=a", "w=b"}, nil, false)
	expectedRaw := []float64{2, 0.5, 0.5}
	for i := range raw {
		if raw[i] != expectedRaw[i] {
			t.Error("Got raw", raw, "expected", expectedRaw)
			break
		}
	}
	dist := m.Eval([]string{"w=a", "w=b"})
	e0, e1 := math.Exp(1), math.Exp(0.25)
	expected := e0 / (e0 + 2*e1)
	if math.Abs(dist[0]-expected) > 1e-12 {
		t.Error("Got", dist[0], "expected", expected)
	}
	small := m.Eval([]string{"w=b"})
	f1, f2 := math.Exp(1.5/1.5), math.Exp(0.5/1.5)
	if math.Abs(small[1]-f1/(1+f1+f2)) > 1e-12 {
		t.Error("Got", small[1], "expected", f1/(1+f1+f2))
	}
}

func TestEvalValues(t *testing.T) {
	m := toyPerceptron(t)
	raw := m.EvalRaw([]string{"w=a", "suf=s"}, []float64{0.5, 2}, false)
	expected := []float64{1, -0.5, -6}
	for i := range raw {
		if raw[i] != expected[i] {
			t.Error("Got raw", raw, "expected", expected)
			break
		}
	}
}

func TestUnknownPredicates(t *testing.T) {
	m := toyPerceptron(t)
	dist := m.Eval([]string{"nothing", "here"})
	for i, p := range dist {
		if math.Abs(p-1.0/3) > 1e-12 {
			t.Error("Outcome", i, "got", p, "expected uniform")
		}
	}
}

func TestOutcomeTable(t *testing.T) {
	m := toyPerceptron(t)
	if m.Index("Y") != 1 || m.Outcome(1) != "Y" {
		t.Error("Outcome table is not bijective")
	}
	if m.Index("W") != -1 {
		t.Error("Got index", m.Index("W"), "for unknown outcome")
	}
	s := m.AllOutcomes([]float64{0.5, 0.25, 0.25})
	if s != "X[0.5000]  Y[0.2500]  Z[0.2500]" {
		t.Error("Got", s)
	}
}

func TestNewRejectsInconsistent(t *testing.T) {
	if _, err := New(GIS, []*Context{NewContext([]int{3}, []float64{1})}, []string{"a"}, []string{"A"}, 1, 0); err == nil {
		t.Error("Expected error for out of range outcome")
	}
	if _, err := New(GIS, []*Context{}, []string{"a"}, []string{"A"}, 1, 0); err == nil {
		t.Error("Expected error for missing context")
	}
	if _, err := New(Perceptron, nil, nil, []string{"A", "A"}, 0, 0); err == nil {
		t.Error("Expected error for duplicate outcomes")
	}
}

func TestCompressOutcomes(t *testing.T) {
	params := []*Context{
		NewContext([]int{0, 2}, []float64{1, 2}),
		NewContext([]int{1}, []float64{3}),
		NewContext([]int{0, 2}, []float64{4, 5}),
	}
	m, err := New(GIS, params, []string{"a", "b", "c"}, []string{"X", "Y", "Z"}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	sorted := SortedPredicates(m)
	if sorted[0].Name != "a" || sorted[1].Name != "c" || sorted[2].Name != "b" {
		t.Error("Got order", sorted[0].Name, sorted[1].Name, sorted[2].Name, "expected a c b")
	}
	groups := CompressOutcomes(sorted)
	if len(groups) != 2 {
		t.Fatal("Got", len(groups), "groups expected 2")
	}
	if len(groups[0]) != 2 || groups[0][0].String() != " 0 2" {
		t.Error("Got first group", len(groups[0]), groups[0][0].String())
	}
	if len(groups[1]) != 1 || groups[1][0].String() != " 1" {
		t.Error("Got second group", len(groups[1]), groups[1][0].String())
	}
	if CompressOutcomes(nil) != nil {
		t.Error("Expected no groups for no predicates")
	}
}

func TestComparablePredicateOrder(t *testing.T) {
	a := &ComparablePredicate{Name: "a", Outcomes: []int{0, 1}}
	b := &ComparablePredicate{Name: "b", Outcomes: []int{0, 1, 2}}
	c := &ComparablePredicate{Name: "c", Outcomes: []int{1}}
	if a.Compare(b) >= 0 || b.Compare(c) >= 0 || c.Compare(a) <= 0 {
		t.Error("Unexpected predicate order")
	}
	if a.Compare(a) != 0 {
		t.Error("Predicate differs from itself")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, m := range []*Model{toyGIS(t), toyPerceptron(t)} {
		for _, format := range []Format{Binary, Text, Gob} {
			var buf bytes.Buffer
			if err := Write(&buf, m, format); err != nil {
				t.Fatal(m.Kind(), format, err)
			}
			read, err := Read(&buf, format)
			if err != nil {
				t.Fatal(m.Kind(), format, err)
			}
			if !m.Equal(read) {
				t.Error(m.Kind(), format, "round trip changed the model")
			}
			context := m.Predicates()
			orig, again := m.Eval(context), read.Eval(context)
			for i := range orig {
				if orig[i] != again[i] {
					t.Error(m.Kind(), format, "round trip changed evaluation", orig, again)
					break
				}
			}
		}
	}
}

func TestRoundTripFile(t *testing.T) {
	m := toyGIS(t)
	dir := t.TempDir()
	for _, name := range []string{"model.bin", "model.txt.gz", "model.gob"} {
		path := filepath.Join(dir, name)
		format := FormatForFile(name)
		if err := WriteFile(path, m, format); err != nil {
			t.Fatal(name, err)
		}
		read, err := ReadFile(path, format)
		if err != nil {
			t.Fatal(name, err)
		}
		if !m.Equal(read) {
			t.Error(name, "round trip changed the model")
		}
	}
}

func TestPerceptronWriterDropsZeros(t *testing.T) {
	params := []*Context{
		NewContext([]int{0, 1}, []float64{0, 1}),
		NewContext([]int{0, 1}, []float64{0, 0}),
	}
	m, err := New(Perceptron, params, []string{"keep", "drop"}, []string{"A", "B"}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, m, Text); err != nil {
		t.Fatal(err)
	}
	read, err := Read(&buf, Text)
	if err != nil {
		t.Fatal(err)
	}
	preds := read.Predicates()
	if len(preds) != 1 || preds[0] != "keep" {
		t.Error("Got predicates", preds, "expected [keep]")
	}
	if !m.Equal(read) {
		t.Error("Dropping zero parameters changed the model")
	}
}

func TestReadFormatErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, toyGIS(t), Binary); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-4]
	inputs := map[string][]byte{
		"truncated":     truncated,
		"unknown type":  []byte("Bayes\n"),
		"pattern count": []byte("Perceptron\n1\nA\n1\n2 0\n1\na\n0.5\n"),
		"bad outcome":   []byte("Perceptron\n1\nA\n1\n1 4\n1\na\n0.5\n"),
		"empty":         {},
	}
	for name, input := range inputs {
		format := Text
		if name == "truncated" {
			format = Binary
		}
		m, err := Read(bytes.NewReader(input), format)
		if err == nil {
			t.Error(name, "expected error")
			continue
		}
		if m != nil {
			t.Error(name, "returned a partial model")
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Error(name, "got", err, "expected a FormatError")
		}
	}
	if _, err := Read(bytes.NewReader([]byte("garbage")), Gob); err == nil {
		t.Error("Expected gob decoding error")
	}
}
