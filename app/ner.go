package app

import (
	"bufio"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/eval"
	"github.com/quicquam/opennlp4net-sub003/nlp/namefind"
	"github.com/quicquam/opennlp4net-sub003/util"
)

func NerConfigOut() {
	log.Println("Configuration")
	log.Printf("Model file:\t\t%s", modelFile)
	log.Printf("Beam Size:\t\t%d", BeamSize)
	log.Println()
	log.Println("Data")
	log.Printf("Input file:\t\t%s", input)
	if outFile != "" {
		log.Printf("Output file:\t\t%s", outFile)
	}
	if mappingFile != "" {
		log.Printf("Type mapping:\t\t%s", mappingFile)
	}
	log.Println()
}

// OpenNameSamples opens a name sample file, mapping its types when a
// mapping file is set.
func OpenNameSamples(filename string) (util.ObjectStream[*namefind.Sample], error) {
	var mapping *namefind.TypeMapping
	if mappingFile != "" {
		var err error
		mapping, err = namefind.LoadTypeMapping(mappingFile)
		if err != nil {
			return nil, err
		}
		if allOut {
			log.Println("Mapping", mapping.Len(), "categories to types", mapping.Types())
		}
	}
	return namefind.OpenSampleFile(filename, defaultType, mapping)
}

func NerTrain(cmd *commander.Command, args []string) error {
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
	samples, err := OpenNameSamples(input)
	if err != nil {
		return err
	}
	defer samples.Close()
	return TrainAndWrite(func() (*model.Model, error) {
		return namefind.Train(samples, params)
	})
}

func SetupFinder() (*namefind.Finder, error) {
	if BeamSize == 0 {
		BeamSize = 3
	}
	m, err := ReadModel(modelFile)
	if err != nil {
		return nil, err
	}
	return namefind.NewFinder(m, BeamSize)
}

func Ner(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"model", "in"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if allOut {
		NerConfigOut()
	}
	finder, err := SetupFinder()
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
	var numNames int
	bar := NewBar(len(sentences))
	for _, sentence := range sentences {
		tokens := strings.Fields(sentence)
		if len(tokens) == 0 {
			// documents are separated by blank lines
			finder.ClearAdaptiveData()
			fmt.Fprintln(w)
			Increment(bar)
			continue
		}
		names := finder.Find(tokens, nil)
		numNames += len(names)
		sample := &namefind.Sample{Sentence: tokens, Names: names}
		fmt.Fprintln(w, sample.String())
		Increment(bar)
	}
	Finish(bar)
	if allOut {
		log.Println("Found", numNames, "names")
		log.Println("NER Total Time:", time.Since(startTime))
	}
	return w.Flush()
}

func NerEval(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"model", "in"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if allOut {
		NerConfigOut()
	}
	finder, err := SetupFinder()
	if err != nil {
		return err
	}
	samples, err := OpenNameSamples(input)
	if err != nil {
		return err
	}
	defer samples.Close()

	evaluator := &eval.Evaluator{KeepResults: true}
	total, err := evaluator.Finder(finder, samples)
	if err != nil {
		return err
	}
	log.Println("Result (Precision, Recall, F1, Exact #):", total.Precision(), total.Recall(), total.F1(), total.Exact, "Sentences:", total.Population)
	if allOut {
		ErrorsOut(total.Errors().ByType())
	}
	return nil
}

func addFinderFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&modelFile, "model", "", "Model file")
	cmd.Flag.StringVar(&modelFormat, "format", "", "Model format: binary, text or gob (default: by file extension)")
	cmd.Flag.IntVar(&BeamSize, "b", 0, "Beam size (default 3)")
}

func addNameSampleFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&defaultType, "type", namefind.DEFAULT_TYPE, "Type of names annotated without one")
	cmd.Flag.StringVar(&mappingFile, "mapping", "", "YAML type mapping file")
}

func NerTrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       NerTrain,
		UsageLine: "nertrain <file options> [arguments]",
		Short:     "trains a name finder",
		Long: `
trains a name finder on annotated sentences, one per line, names marked
<START:type> ... <END>; a blank line separates documents

	$ ./opennlp4net-sub003 nertrain -data <annotated> -model <file> [options]

`,
		Flag: *flag.NewFlagSet("nertrain", flag.ExitOnError),
	}
	AddTrainingFlags(cmd)
	addNameSampleFlags(cmd)
	return cmd
}

func NerCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Ner,
		UsageLine: "ner <file options> [arguments]",
		Short:     "finds names in tokenized sentences",
		Long: `
finds names in a file of tokenized sentences, one per line, writing them
annotated; a blank line separates documents

	$ ./opennlp4net-sub003 ner -model <file> -in <text> [-out <file>] [options]

`,
		Flag: *flag.NewFlagSet("ner", flag.ExitOnError),
	}
	addFinderFlags(cmd)
	cmd.Flag.StringVar(&input, "in", "", "Tokenized input file")
	cmd.Flag.StringVar(&outFile, "out", "", "Output file (default stdout)")
	return cmd
}

func NerEvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       NerEval,
		UsageLine: "nereval <file options> [arguments]",
		Short:     "evaluates a name finder",
		Long: `
measures name precision and recall of a name finder on annotated sentences

	$ ./opennlp4net-sub003 nereval -model <file> -in <annotated> [options]

`,
		Flag: *flag.NewFlagSet("nereval", flag.ExitOnError),
	}
	addFinderFlags(cmd)
	addNameSampleFlags(cmd)
	cmd.Flag.StringVar(&input, "in", "", "Annotated sentences file")
	return cmd
}
