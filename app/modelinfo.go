package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
	"github.com/quicquam/opennlp4net-sub003/util"
)

var (
	outFormat   string
	evalContext string
)

func ModelInfo(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"model"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	m, err := ReadModel(modelFile)
	if err != nil {
		return err
	}
	md5, err := util.MD5File(modelFile)
	if err != nil {
		return err
	}
	fmt.Println("File:\t\t", modelFile)
	fmt.Println("MD5:\t\t", md5)
	fmt.Println("Kind:\t\t", m.Kind())
	fmt.Println("Outcomes:\t", m.NumOutcomes(), m.Outcomes())
	fmt.Println("Predicates:\t", len(m.Predicates()))
	params := m.Parameters()
	if m.Kind() == model.GIS {
		fmt.Println("Correction:\t", params.CorrectionConstant, params.CorrectionParam)
	}

	if evalContext != "" {
		fmt.Println(m.AllOutcomes(m.Eval(strings.Fields(evalContext))))
	}

	if outFile != "" {
		format := model.FormatForFile(outFile)
		if outFormat != "" {
			format, err = model.ParseFormat(outFormat)
			if err != nil {
				return err
			}
		}
		if allOut {
			log.Println("Converting to", format, "model", outFile)
		}
		return model.WriteFile(outFile, m, format)
	}
	return nil
}

func ModelInfoCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       ModelInfo,
		UsageLine: "modelinfo <file options> [arguments]",
		Short:     "summarizes and converts models",
		Long: `
prints a summary of a model, optionally evaluating a context or writing the
model in another format

	$ ./opennlp4net-sub003 modelinfo -model <file> [-eval "pred1 pred2"] [-out <file> -outformat text]

`,
		Flag: *flag.NewFlagSet("modelinfo", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&modelFile, "model", "", "Model file")
	cmd.Flag.StringVar(&modelFormat, "format", "", "Model format: binary, text or gob (default: by file extension)")
	cmd.Flag.StringVar(&evalContext, "eval", "", "Context predicates to evaluate, space separated")
	cmd.Flag.StringVar(&outFile, "out", "", "Converted model file")
	cmd.Flag.StringVar(&outFormat, "outformat", "", "Converted model format (default: by file extension)")
	return cmd
}
