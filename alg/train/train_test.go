package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/indexer"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
)

const TEST_PROPERTIES = `# perceptron training
Algorithm=PERCEPTRON
Iterations=50
Cutoff=1
UseSkippedAveraging=true
StepSizeDecrease=10
language=en
`

const TEST_YAML = `Algorithm: MAXENT
Iterations: 20
Cutoff: 0
DataIndexer: TwoPass
Threads: 2
Smoothing: true
`

func toyEvents() []*event.Event {
	events := make([]*event.Event, 0, 10)
	for i := 0; i < 5; i++ {
		events = append(events, event.New("A", []string{"f1", "f3"}))
		events = append(events, event.New("B", []string{"f2", "f3"}))
	}
	return events
}

func TestDefaults(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.Algorithm != MAXENT || p.Iterations != 100 || p.Cutoff != 5 || p.BeamSize != 3 {
		t.Error("Got defaults", p)
	}
	if !p.UseAverage || p.UseSkippedAveraging {
		t.Error("Got averaging defaults", p.UseAverage, p.UseSkippedAveraging)
	}
}

func TestLoadProperties(t *testing.T) {
	p, err := LoadProperties([]byte(TEST_PROPERTIES))
	if err != nil {
		t.Fatal(err)
	}
	if p.Algorithm != PERCEPTRON {
		t.Error("Got algorithm", p.Algorithm, "expected", PERCEPTRON)
	}
	if p.Iterations != 50 || p.Cutoff != 1 {
		t.Error("Got iterations", p.Iterations, "cutoff", p.Cutoff)
	}
	if !p.UseSkippedAveraging || p.StepSizeDecrease != 10 {
		t.Error("Got skipped averaging", p.UseSkippedAveraging, "step size decrease", p.StepSizeDecrease)
	}
	if p.Threads != 1 || p.DataIndexer != ONE_PASS {
		t.Error("Defaults were not kept", p)
	}
}

func TestLoadPropertiesErrors(t *testing.T) {
	for _, data := range []string{
		"Iterations=many",
		"Tolerance=-1",
		"StepSizeDecrease=100",
		"Algorithm=QN",
		"DataIndexer=ThreePass",
		"Threads=0",
		"UseAverage=maybe",
	} {
		_, err := LoadProperties([]byte(data))
		if err == nil {
			t.Error("Expected error for", data)
			continue
		}
		if _, ok := errors.Cause(err).(*ConfigError); !ok {
			t.Errorf("Got %T for %s expected *ConfigError", err, data)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	p, err := LoadYAML([]byte(TEST_YAML))
	if err != nil {
		t.Fatal(err)
	}
	if p.Iterations != 20 || p.Cutoff != 0 || p.DataIndexer != TWO_PASS || p.Threads != 2 || !p.Smoothing {
		t.Error("Got", p)
	}
	if _, err := LoadYAML([]byte("Iteratons: 20\n")); err == nil {
		t.Error("Expected error for an unknown key")
	}
	if p, err := LoadYAML(nil); err != nil || p.Iterations != 100 {
		t.Error("Empty YAML should give the defaults, got", p, err)
	}
}

func TestLoadParamsFile(t *testing.T) {
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "params.yaml")
	propsFile := filepath.Join(dir, "params.txt")
	if err := os.WriteFile(yamlFile, []byte(TEST_YAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(propsFile, []byte(TEST_PROPERTIES), 0644); err != nil {
		t.Fatal(err)
	}
	if p, err := LoadParamsFile(yamlFile); err != nil || p.Algorithm != MAXENT {
		t.Error("Got", p, err)
	}
	if p, err := LoadParamsFile(propsFile); err != nil || p.Algorithm != PERCEPTRON {
		t.Error("Got", p, err)
	}
	if _, err := LoadParamsFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestIndexerChoice(t *testing.T) {
	p := DefaultParams()
	if idx, ok := p.Indexer().(*indexer.OnePass); !ok || !idx.Sort || idx.Cutoff != 5 {
		t.Error("Got indexer", p.Indexer())
	}
	p.Algorithm, p.DataIndexer = PERCEPTRON, TWO_PASS
	if idx, ok := p.Indexer().(*indexer.TwoPass); !ok || idx.Sort {
		t.Error("Got indexer", p.Indexer())
	}
}

func TestTrainModel(t *testing.T) {
	for _, algorithm := range []string{MAXENT, PERCEPTRON} {
		p := DefaultParams()
		p.Algorithm, p.Cutoff = algorithm, 1
		m, err := TrainModel(event.NewSliceStream(toyEvents()), p)
		if err != nil {
			t.Fatal(algorithm, err)
		}
		expectedKind := model.GIS
		if algorithm == PERCEPTRON {
			expectedKind = model.Perceptron
		}
		if m.Kind() != expectedKind {
			t.Error("Trained", m.Kind(), "expected", expectedKind)
		}
		if best := m.BestOutcome(m.Eval([]string{"f1", "f3"})); best != "A" {
			t.Error(algorithm, "got", best, "expected A")
		}
	}
}

func TestTrainModelRejects(t *testing.T) {
	p := DefaultParams()
	p.Algorithm = PERCEPTRON_SEQUENCE
	if _, err := TrainModel(event.NewSliceStream(toyEvents()), p); err == nil {
		t.Error("Expected error training a sequence algorithm on events")
	}
	p = DefaultParams()
	p.Tolerance = -1
	if _, err := TrainModel(event.NewSliceStream(toyEvents()), p); err == nil {
		t.Error("Expected error for a negative tolerance")
	}
	if IsSequenceTraining(DefaultParams()) {
		t.Error("MAXENT is not sequence training")
	}
}

type fixedSequences struct {
	event.SequenceStream
}

func TestTrainSequenceModelRejects(t *testing.T) {
	if _, err := TrainSequenceModel(fixedSequences{}, DefaultParams()); err == nil {
		t.Error("Expected error for MAXENT sequence training")
	}
}
