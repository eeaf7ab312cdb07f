package app

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gonuts/commander"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/train"
	"github.com/quicquam/opennlp4net-sub003/util"
)

var (
	allOut bool = true

	// training options; zero values leave the parameters file (or the
	// defaults) in charge
	algorithm                 string
	Iterations, Cutoff        int
	Threads, BeamSize         int
	realValued, caseSensitive bool

	// file names
	input       string
	inputGold   string
	outFile     string
	modelFile   string
	modelFormat string
	paramsFile  string
	dictFile    string
	mappingFile string
	defaultType string
)

// the number of error classes reported by evaluations
const TOP_ERRORS = 10

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			return errors.Errorf("required flag -%s not set", f.Name)
		}
	}
	return nil
}

// TrainingParams loads the parameters file, looked up next to the training
// data when not found as given, and applies the command line overrides.
func TrainingParams() (*train.Params, error) {
	params := train.DefaultParams()
	if paramsFile != "" {
		located, exists := util.LocateFile(paramsFile, []string{filepath.Dir(input)})
		if !exists {
			return nil, errors.Errorf("parameters file %s not found", paramsFile)
		}
		loaded, err := train.LoadParamsFile(located)
		if err != nil {
			return nil, err
		}
		params = loaded
	}
	if algorithm != "" {
		params.Algorithm = algorithm
	}
	if Iterations > 0 {
		params.Iterations = Iterations
	}
	if Cutoff > 0 {
		params.Cutoff = Cutoff
	}
	if Threads > 0 {
		params.Threads = Threads
	}
	if BeamSize > 0 {
		params.BeamSize = BeamSize
	}
	params.Log = allOut
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func ModelFormat(filename string) (model.Format, error) {
	if modelFormat == "" {
		return model.FormatForFile(filename), nil
	}
	return model.ParseFormat(modelFormat)
}

func ReadModel(filename string) (*model.Model, error) {
	format, err := ModelFormat(filename)
	if err != nil {
		return nil, err
	}
	if allOut {
		log.Println("Reading", format, "model from", filename)
	}
	return model.ReadFile(filename, format)
}

func WriteModel(filename string, m *model.Model) error {
	format, err := ModelFormat(filename)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Writing", format, "model to", filename)
	}
	return model.WriteFile(filename, m, format)
}

// TrainAndWrite runs a trainer, timing it, and writes the model.
func TrainAndWrite(trainer func() (*model.Model, error)) error {
	startTime := time.Now()
	m, err := trainer()
	if err != nil {
		return errors.Wrap(err, "training")
	}
	if allOut {
		log.Println("TRAIN Total Time:", time.Since(startTime))
		log.Println("Trained", m.Kind(), "model with", m.NumOutcomes(), "outcomes and", len(m.Predicates()), "predicates")
		util.LogMemory()
	}
	return WriteModel(modelFile, m)
}

func ReadLines(filename string) ([]string, error) {
	lines, err := util.OpenLineStream(filename)
	if err != nil {
		return nil, err
	}
	defer lines.Close()
	return util.ReadAll[string](lines)
}

// Output opens the output file, or stdout when none is set.
func Output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewBar starts a progress bar on stderr, or returns nil when output is
// quiet.
func NewBar(total int) *pb.ProgressBar {
	if !allOut {
		return nil
	}
	bar := pb.New(total)
	bar.Output = os.Stderr
	bar.Start()
	return bar
}

func Increment(bar *pb.ProgressBar) {
	if bar != nil {
		bar.Increment()
	}
}

func Finish(bar *pb.ProgressBar) {
	if bar != nil {
		bar.Finish()
	}
}

func ErrorsOut(byType map[string]int) {
	log.Println("Top errors:")
	for _, datum := range util.GetTopNStrInt(byType, TOP_ERRORS) {
		log.Printf("%6d %s", datum.N, datum.S)
	}
}
