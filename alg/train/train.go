// Package train picks and configures the indexer and trainer named by a
// set of training parameters.
package train

import (
	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/gis"
	"github.com/quicquam/opennlp4net-sub003/alg/indexer"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/perceptron"
)

// IsSequenceTraining reports whether p trains on whole sequences.
func IsSequenceTraining(p *Params) bool {
	return p.Algorithm == PERCEPTRON_SEQUENCE
}

// Indexer returns the data indexer p names. Only maxent training sorts and
// merges events; the perceptron visits them in stream order.
func (p *Params) Indexer() indexer.Interface {
	sort := p.Algorithm == MAXENT
	if p.DataIndexer == TWO_PASS {
		return &indexer.TwoPass{Cutoff: p.Cutoff, Sort: sort, Log: p.Log}
	}
	return &indexer.OnePass{Cutoff: p.Cutoff, Sort: sort, Log: p.Log}
}

// TrainModel indexes stream and trains a MAXENT or PERCEPTRON model on it.
func TrainModel(stream event.Stream, p *Params) (*model.Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if IsSequenceTraining(p) {
		return nil, &ConfigError{"Algorithm", p.Algorithm, "sequence training needs a sequence stream"}
	}
	d, err := p.Indexer().Index(stream)
	if err != nil {
		return nil, errors.Wrap(err, "indexing events")
	}
	switch p.Algorithm {
	case MAXENT:
		trainer := &gis.Trainer{
			Iterations:           p.Iterations,
			Cutoff:               p.Cutoff,
			Threads:              p.Threads,
			Log:                  p.Log,
			CorrectionConstant:   p.CorrectionConstant,
			Smoothing:            p.Smoothing,
			SmoothingObservation: p.SmoothingObservation,
		}
		return trainer.Train(d)
	default:
		trainer := perceptron.NewTrainer(p.Iterations, p.Tolerance, p.StepSizeDecrease, p.UseAverage, p.UseSkippedAveraging)
		trainer.Log = p.Log
		return trainer.Train(d)
	}
}

// TrainSequenceModel trains a PERCEPTRON_SEQUENCE model on stream.
func TrainSequenceModel(stream event.SequenceStream, p *Params) (*model.Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !IsSequenceTraining(p) {
		return nil, &ConfigError{"Algorithm", p.Algorithm, "not a sequence training algorithm"}
	}
	trainer := &perceptron.SequenceTrainer{
		Iterations: p.Iterations,
		Cutoff:     p.Cutoff,
		UseAverage: p.UseAverage,
		Tolerance:  p.Tolerance,
		Log:        p.Log,
	}
	return trainer.Train(stream)
}
