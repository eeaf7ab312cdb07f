package train

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	MAXENT              = "MAXENT"
	PERCEPTRON          = "PERCEPTRON"
	PERCEPTRON_SEQUENCE = "PERCEPTRON_SEQUENCE"

	ONE_PASS = "OnePass"
	TWO_PASS = "TwoPass"
)

// Params are the training parameters shared by every trainer. Keys in
// .properties and YAML files are the field names.
type Params struct {
	Algorithm   string `yaml:"Algorithm"`
	Iterations  int    `yaml:"Iterations"`
	Cutoff      int    `yaml:"Cutoff"`
	DataIndexer string `yaml:"DataIndexer"`
	Threads     int    `yaml:"Threads"`

	// perceptron
	UseAverage          bool    `yaml:"UseAverage"`
	UseSkippedAveraging bool    `yaml:"UseSkippedAveraging"`
	Tolerance           float64 `yaml:"Tolerance"`
	StepSizeDecrease    float64 `yaml:"StepSizeDecrease"`

	// maxent
	CorrectionConstant   int     `yaml:"CorrectionConstant"`
	Smoothing            bool    `yaml:"Smoothing"`
	SmoothingObservation float64 `yaml:"SmoothingObservation"`

	// decoders trained on top of the model
	BeamSize int `yaml:"BeamSize"`

	Log bool `yaml:"-"`
}

func DefaultParams() *Params {
	return &Params{
		Algorithm:            MAXENT,
		Iterations:           100,
		Cutoff:               5,
		DataIndexer:          ONE_PASS,
		Threads:              1,
		UseAverage:           true,
		Tolerance:            0.00001,
		SmoothingObservation: 0.1,
		BeamSize:             3,
	}
}

// ConfigError reports a training parameter that is malformed or out of
// range.
type ConfigError struct {
	Param string
	Value interface{}
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("training parameter %s=%v: %s", e.Param, e.Value, e.Msg)
}

// Validate rejects parameter combinations no trainer accepts.
func (p *Params) Validate() error {
	switch p.Algorithm {
	case MAXENT, PERCEPTRON, PERCEPTRON_SEQUENCE:
	default:
		return &ConfigError{"Algorithm", p.Algorithm, "unknown algorithm"}
	}
	switch p.DataIndexer {
	case ONE_PASS, TWO_PASS:
	default:
		return &ConfigError{"DataIndexer", p.DataIndexer, "unknown data indexer"}
	}
	if p.Iterations < 1 {
		return &ConfigError{"Iterations", p.Iterations, "at least one iteration is required"}
	}
	if p.Cutoff < 0 {
		return &ConfigError{"Cutoff", p.Cutoff, "must not be negative"}
	}
	if p.Threads < 1 {
		return &ConfigError{"Threads", p.Threads, "at least one thread is required"}
	}
	if p.Tolerance < 0 {
		return &ConfigError{"Tolerance", p.Tolerance, "must not be negative"}
	}
	if p.StepSizeDecrease < 0 || p.StepSizeDecrease >= 100 {
		return &ConfigError{"StepSizeDecrease", p.StepSizeDecrease, "must be a percentage in [0,100)"}
	}
	if p.CorrectionConstant < 0 {
		return &ConfigError{"CorrectionConstant", p.CorrectionConstant, "must not be negative"}
	}
	if p.SmoothingObservation < 0 {
		return &ConfigError{"SmoothingObservation", p.SmoothingObservation, "must not be negative"}
	}
	if p.BeamSize < 1 {
		return &ConfigError{"BeamSize", p.BeamSize, "must be positive"}
	}
	return nil
}

// ConfigOut logs the parameters one per line.
func (p *Params) ConfigOut() {
	log.Printf("Algorithm:\t\t%s", p.Algorithm)
	log.Printf("Iterations:\t\t%d", p.Iterations)
	log.Printf("Cutoff:\t\t\t%d", p.Cutoff)
	log.Printf("Data Indexer:\t\t%s", p.DataIndexer)
	switch p.Algorithm {
	case MAXENT:
		log.Printf("Threads:\t\t%d", p.Threads)
		log.Printf("Correction Constant:\t%d", p.CorrectionConstant)
		log.Printf("Smoothing:\t\t%v", p.Smoothing)
		if p.Smoothing {
			log.Printf("Smoothing Observation:\t%v", p.SmoothingObservation)
		}
	default:
		log.Printf("Use Average:\t\t%v", p.UseAverage)
		log.Printf("Skipped Averaging:\t%v", p.UseSkippedAveraging)
		log.Printf("Tolerance:\t\t%v", p.Tolerance)
		log.Printf("Step Size Decrease:\t%v", p.StepSizeDecrease)
	}
	log.Printf("Beam Size:\t\t%d", p.BeamSize)
}

func parseInt(key, value string) (int, error) {
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigError{key, value, "not an integer"}
	}
	return i, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ConfigError{key, value, "not a number"}
	}
	return f, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &ConfigError{key, value, "not a boolean"}
	}
	return b, nil
}

// FromProperties overrides the defaults with the keys of props. Keys that
// name no parameter are left for other components and ignored.
func FromProperties(props *properties.Properties) (*Params, error) {
	p := DefaultParams()
	var err error
	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Algorithm":
			p.Algorithm = value
		case "DataIndexer":
			p.DataIndexer = value
		case "Iterations":
			p.Iterations, err = parseInt(key, value)
		case "Cutoff":
			p.Cutoff, err = parseInt(key, value)
		case "Threads":
			p.Threads, err = parseInt(key, value)
		case "CorrectionConstant":
			p.CorrectionConstant, err = parseInt(key, value)
		case "BeamSize":
			p.BeamSize, err = parseInt(key, value)
		case "UseAverage":
			p.UseAverage, err = parseBool(key, value)
		case "UseSkippedAveraging":
			p.UseSkippedAveraging, err = parseBool(key, value)
		case "Smoothing":
			p.Smoothing, err = parseBool(key, value)
		case "Tolerance":
			p.Tolerance, err = parseFloat(key, value)
		case "StepSizeDecrease":
			p.StepSizeDecrease, err = parseFloat(key, value)
		case "SmoothingObservation":
			p.SmoothingObservation, err = parseFloat(key, value)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProperties reads Java style "Key=Value" parameters.
func LoadProperties(data []byte) (*Params, error) {
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, errors.Wrap(err, "parsing training parameters")
	}
	return FromProperties(props)
}

// LoadYAML reads parameters from a YAML mapping. Unknown keys are errors.
func LoadYAML(data []byte) (*Params, error) {
	p := DefaultParams()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing training parameters")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadParamsFile reads a parameters file; .yaml and .yml files are YAML,
// everything else is read as properties.
func LoadParamsFile(filename string) (*Params, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var p *Params
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		p, err = LoadYAML(data)
	} else {
		p, err = LoadProperties(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filename)
	}
	return p, nil
}
