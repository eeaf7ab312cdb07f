package namefind

import (
	"strings"

	"github.com/quicquam/opennlp4net-sub003/alg/search"
	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
)

const (
	START    = "start"
	CONTINUE = "cont"
	OTHER    = "other"
)

// Encode gives every token an outcome: "type-start" on the first token of
// a name, "type-cont" on the rest and "other" outside names.
func Encode(names []nlp.Span, length int) []string {
	outcomes := make([]string, length)
	for i := range outcomes {
		outcomes[i] = OTHER
	}
	for _, name := range names {
		typ := name.Type
		if typ == "" {
			typ = DEFAULT_TYPE
		}
		outcomes[name.Start] = typ + "-" + START
		for i := name.Start + 1; i < name.End; i++ {
			outcomes[i] = typ + "-" + CONTINUE
		}
	}
	return outcomes
}

func outcomeType(outcome string) string {
	if i := strings.LastIndex(outcome, "-"); i >= 0 {
		return outcome[:i]
	}
	return ""
}

// Decode reads the names off a sequence of outcomes.
func Decode(outcomes []string) []nlp.Span {
	var (
		names      []nlp.Span
		start, end = -1, -1
		typ        string
	)
	for i, outcome := range outcomes {
		switch {
		case strings.HasSuffix(outcome, "-"+START):
			if start != -1 {
				names = append(names, nlp.NewSpan(start, end, typ))
			}
			start, end, typ = i, i+1, outcomeType(outcome)
		case strings.HasSuffix(outcome, "-"+CONTINUE):
			end = i + 1
		default:
			if start != -1 {
				names = append(names, nlp.NewSpan(start, end, typ))
				start, end = -1, -1
			}
		}
	}
	if start != -1 {
		names = append(names, nlp.NewSpan(start, end, typ))
	}
	return names
}

// SequenceValidator only lets a "type-cont" follow a start or continuation
// of the same type.
type SequenceValidator struct{}

var _ search.SequenceValidator = SequenceValidator{}

func (SequenceValidator) ValidSequence(i int, _ []string, outcomesSoFar []string, outcome string) bool {
	if !strings.HasSuffix(outcome, "-"+CONTINUE) {
		return true
	}
	if len(outcomesSoFar) == 0 {
		return false
	}
	prev := outcomesSoFar[len(outcomesSoFar)-1]
	if prev == OTHER {
		return false
	}
	return outcomeType(prev) == outcomeType(outcome)
}
