package app

import (
	"bufio"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/eval"
	"github.com/quicquam/opennlp4net-sub003/nlp/postag"
)

func PosConfigOut() {
	log.Println("Configuration")
	log.Printf("Model file:\t\t%s", modelFile)
	log.Printf("Beam Size:\t\t%d", BeamSize)
	if dictFile != "" {
		log.Printf("Tag Dictionary:\t\t%s", dictFile)
		log.Printf("Case Sensitive:\t\t%v", caseSensitive)
	}
	log.Println()
	log.Println("Data")
	log.Printf("Input file:\t\t%s", input)
	if outFile != "" {
		log.Printf("Output file:\t\t%s", outFile)
	}
	log.Println()
}

func PosTrain(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"data", "model"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	params, err := TrainingParams()
	if err != nil {
		return err
	}
	if allOut {
		TrainConfigOut(params)
	}
	samples, err := postag.OpenSampleFile(input)
	if err != nil {
		return err
	}
	defer samples.Close()
	return TrainAndWrite(func() (*model.Model, error) {
		return postag.Train(samples, params)
	})
}

// SetupTagger reads the model and the optional tag dictionary.
func SetupTagger() (*postag.Tagger, error) {
	if BeamSize == 0 {
		BeamSize = 3
	}
	m, err := ReadModel(modelFile)
	if err != nil {
		return nil, err
	}
	var dict *postag.TagDictionary
	if dictFile != "" {
		dict, err = postag.LoadTagDictionary(dictFile, caseSensitive)
		if err != nil {
			return nil, err
		}
		if allOut {
			log.Println("Read", dict.Len(), "dictionary entries from", dictFile)
		}
	}
	return postag.NewTagger(m, BeamSize, dict)
}

func PosTag(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"model", "in"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if allOut {
		PosConfigOut()
	}
	tagger, err := SetupTagger()
	if err != nil {
		return err
	}
	sentences, err := ReadLines(input)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Read", len(sentences), "sentences from", input)
	}
	out, err := Output()
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	startTime := time.Now()
	bar := NewBar(len(sentences))
	for i, sentence := range sentences {
		tokens := strings.Fields(sentence)
		if len(tokens) == 0 {
			fmt.Fprintln(w)
			Increment(bar)
			continue
		}
		sample := tagger.TagSample(tokens)
		if sample == nil {
			Finish(bar)
			return errors.Errorf("no tag sequence for sentence %d", i+1)
		}
		fmt.Fprintln(w, sample.String())
		Increment(bar)
	}
	Finish(bar)
	if allOut {
		log.Println("TAG Total Time:", time.Since(startTime))
	}
	return w.Flush()
}

func PosEval(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"model", "in"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if allOut {
		PosConfigOut()
	}
	tagger, err := SetupTagger()
	if err != nil {
		return err
	}
	samples, err := postag.OpenSampleFile(input)
	if err != nil {
		return err
	}
	defer samples.Close()

	var numSamples int
	evaluator := &eval.Evaluator{
		KeepResults: true,
		OnSample: func(i int, r *eval.Result) {
			numSamples = i + 1
			if allOut && numSamples%100 == 0 {
				log.Println("Evaluated", numSamples, "sentences")
			}
		},
	}
	total, err := evaluator.Tagger(tagger, samples)
	if err != nil {
		return err
	}
	log.Println("Result (Word Accuracy, Sentence Accuracy, Exact #, Exact %):", total.Accuracy(), total.SentenceAccuracy(), total.Exact, total.ExactMatch(), "Words:", total.All())
	if allOut {
		ErrorsOut(total.Errors().ByType())
	}
	return nil
}

func addTaggerFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&modelFile, "model", "", "Model file")
	cmd.Flag.StringVar(&modelFormat, "format", "", "Model format: binary, text or gob (default: by file extension)")
	cmd.Flag.IntVar(&BeamSize, "b", 0, "Beam size (default 3)")
	cmd.Flag.StringVar(&dictFile, "dict", "", "Tag dictionary file (word TAG1 TAG2 ...)")
	cmd.Flag.BoolVar(&caseSensitive, "case", false, "Case sensitive tag dictionary")
}

func PosTrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       PosTrain,
		UsageLine: "postrain <file options> [arguments]",
		Short:     "trains a pos tagger",
		Long: `
trains a pos tagger on a file of tagged sentences, one per line (word_TAG)

	$ ./opennlp4net-sub003 postrain -data <tagged> -model <file> [options]

`,
		Flag: *flag.NewFlagSet("postrain", flag.ExitOnError),
	}
	AddTrainingFlags(cmd)
	return cmd
}

func PosTagCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       PosTag,
		UsageLine: "postag <file options> [arguments]",
		Short:     "tags tokenized sentences",
		Long: `
tags a file of tokenized sentences, one per line, writing word_TAG lines

	$ ./opennlp4net-sub003 postag -model <file> -in <text> [-out <file>] [options]

`,
		Flag: *flag.NewFlagSet("postag", flag.ExitOnError),
	}
	addTaggerFlags(cmd)
	cmd.Flag.StringVar(&input, "in", "", "Tokenized input file")
	cmd.Flag.StringVar(&outFile, "out", "", "Output file (default stdout)")
	return cmd
}

func PosEvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       PosEval,
		UsageLine: "poseval <file options> [arguments]",
		Short:     "evaluates a pos tagger",
		Long: `
measures the word accuracy of a pos tagger on a file of tagged sentences

	$ ./opennlp4net-sub003 poseval -model <file> -in <tagged> [options]

`,
		Flag: *flag.NewFlagSet("poseval", flag.ExitOnError),
	}
	addTaggerFlags(cmd)
	cmd.Flag.StringVar(&input, "in", "", "Tagged sentences file (word_TAG)")
	return cmd
}
