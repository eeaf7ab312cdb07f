package app

import (
	"log"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/alg/train"
)

func TrainConfigOut(params *train.Params) {
	log.Println("Configuration")
	params.ConfigOut()
	log.Println()
	log.Println("Data")
	log.Printf("Train file:\t\t%s", input)
	log.Printf("Real valued:\t\t%v", realValued)
	log.Printf("Out Model file:\t\t%s", modelFile)
	log.Println()
}

// AddTrainingFlags binds the flags shared by every training command.
func AddTrainingFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&input, "data", "", "Training data file")
	cmd.Flag.StringVar(&modelFile, "model", "", "Output model file")
	cmd.Flag.StringVar(&modelFormat, "format", "", "Model format: binary, text or gob (default: by file extension)")
	cmd.Flag.StringVar(&paramsFile, "params", "", "Training parameters file (.properties or .yaml)")
	cmd.Flag.StringVar(&algorithm, "alg", "", "Algorithm: MAXENT, PERCEPTRON or PERCEPTRON_SEQUENCE")
	cmd.Flag.IntVar(&Iterations, "it", 0, "Number of training iterations")
	cmd.Flag.IntVar(&Cutoff, "cutoff", 0, "Minimum predicate count")
	cmd.Flag.IntVar(&Threads, "threads", 0, "Number of GIS threads")
	cmd.Flag.IntVar(&BeamSize, "b", 0, "Beam size of the decoder used in sequence training")
}

func TrainEvents(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"data", "model"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if !VerifyExists(input) {
		return errors.Errorf("cannot access training data %s", input)
	}
	params, err := TrainingParams()
	if err != nil {
		return err
	}
	if allOut {
		TrainConfigOut(params)
	}
	if train.IsSequenceTraining(params) {
		return errors.Errorf("%s needs sequences; train a tagger with postrain or nertrain", params.Algorithm)
	}
	events, err := event.OpenFile(input, realValued)
	if err != nil {
		return err
	}
	defer events.Close()
	return TrainAndWrite(func() (*model.Model, error) {
		return train.TrainModel(events, params)
	})
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       TrainEvents,
		UsageLine: "train <file options> [arguments]",
		Short:     "trains a model on an event file",
		Long: `
trains a maxent or perceptron model on an event file, one event per line:
the outcome followed by its context predicates (pred=value with -real)

	$ ./opennlp4net-sub003 train -data <events> -model <file> [options]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	AddTrainingFlags(cmd)
	cmd.Flag.BoolVar(&realValued, "real", false, "Context predicates carry values (pred=1.5)")
	return cmd
}
