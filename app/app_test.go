package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/train"
)

const EVENTS = `yes sunny warm
yes sunny cold
no rainy cold
no rainy warm
`

func writeFile(t *testing.T, dir, name, content string) string {
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestTrainingParams(t *testing.T) {
	allOut = false
	dir := t.TempDir()
	input = writeFile(t, dir, "events.txt", EVENTS)
	writeFile(t, dir, "train.properties", "Algorithm=PERCEPTRON\nIterations=20\n")
	paramsFile = "train.properties"
	Iterations, Cutoff = 0, 1
	defer func() { paramsFile, Cutoff = "", 0 }()

	params, err := TrainingParams()
	if err != nil {
		t.Fatal(err)
	}
	if params.Algorithm != train.PERCEPTRON || params.Iterations != 20 || params.Cutoff != 1 {
		t.Error("Got", params.Algorithm, params.Iterations, params.Cutoff)
	}

	paramsFile = "missing.properties"
	if _, err := TrainingParams(); err == nil {
		t.Error("Expected error for a missing parameters file")
	}
}

func TestModelFormat(t *testing.T) {
	modelFormat = ""
	if f, _ := ModelFormat("m.txt.gz"); f != model.Text {
		t.Error("Got", f)
	}
	modelFormat = "gob"
	defer func() { modelFormat = "" }()
	if f, _ := ModelFormat("m.txt"); f != model.Gob {
		t.Error("Got", f)
	}
	modelFormat = "xml"
	if _, err := ModelFormat("m.txt"); err == nil {
		t.Error("Expected error for an unknown format")
	}
}

func TestTrainEvents(t *testing.T) {
	allOut = false
	dir := t.TempDir()
	events := writeFile(t, dir, "events.txt", EVENTS)
	out := filepath.Join(dir, "model.bin.gz")

	cmd := TrainCmd()
	if err := cmd.Flag.Parse([]string{"-data", events, "-model", out, "-cutoff", "1", "-it", "50"}); err != nil {
		t.Fatal(err)
	}
	defer func() { Cutoff, Iterations = 0, 0 }()
	if err := TrainEvents(cmd, nil); err != nil {
		t.Fatal(err)
	}
	m, err := model.ReadFile(out, model.Binary)
	if err != nil {
		t.Fatal(err)
	}
	if m.Kind() != model.GIS || m.NumOutcomes() != 2 {
		t.Error("Got", m)
	}
	if best := m.BestOutcome(m.Eval(strings.Fields("sunny cold"))); best != "yes" {
		t.Error("Got", best, "expected yes")
	}
}
