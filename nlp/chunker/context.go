package chunker

import "github.com/quicquam/opennlp4net-sub003/alg/search"

// ContextGenerator fires word and POS features in a five token window,
// combined with the two previous chunk tags. The POS tags of the sentence
// are the additional context.
type ContextGenerator struct{}

var _ search.ContextGenerator = ContextGenerator{}

func window(name string, items []string, i, offset int) string {
	j := i + offset
	switch {
	case j < 0:
		return name + "=bos"
	case j >= len(items):
		return name + "=eos"
	}
	return name + "=" + items[j]
}

func (ContextGenerator) Context(i int, tokens []string, preds []string, additional interface{}) []string {
	tags := additional.([]string)
	w_2, w_1, w0, w1, w2 := window("w_2", tokens, i, -2), window("w_1", tokens, i, -1), window("w0", tokens, i, 0), window("w1", tokens, i, 1), window("w2", tokens, i, 2)
	t_2, t_1, t0, t1, t2 := window("t_2", tags, i, -2), window("t_1", tags, i, -1), window("t0", tags, i, 0), window("t1", tags, i, 1), window("t2", tags, i, 2)
	// only decided positions count
	p_2, p_1 := window("p_2", preds[:i], i, -2), window("p_1", preds[:i], i, -1)

	return []string{
		w_2, w_1, w0, w1, w2, w_1 + w0, w0 + w1,

		t_2, t_1, t0, t1, t2,
		t_2 + t_1, t_1 + t0, t0 + t1, t1 + t2,
		t_2 + t_1 + t0, t_1 + t0 + t1, t0 + t1 + t2,

		p_2, p_1, p_2 + p_1,

		p_1 + t_2, p_1 + t_1, p_1 + t0, p_1 + t1, p_1 + t2,
		p_1 + t_2 + t_1, p_1 + t_1 + t0, p_1 + t0 + t1, p_1 + t1 + t2,
		p_1 + t_2 + t_1 + t0, p_1 + t_1 + t0 + t1, p_1 + t0 + t1 + t2,

		p_1 + w_2, p_1 + w_1, p_1 + w0, p_1 + w1, p_1 + w2,
		p_1 + w_1 + w0, p_1 + w0 + w1,
	}
}

// SequenceValidator forbids an I- tag that does not continue a phrase of
// the same type.
type SequenceValidator struct{}

var _ search.SequenceValidator = SequenceValidator{}

func ValidOutcome(outcome, prevOutcome string) bool {
	if len(outcome) < 2 || outcome[:2] != INSIDE {
		return true
	}
	if prevOutcome == "" || prevOutcome == OTHER || len(prevOutcome) < 2 {
		return false
	}
	return prevOutcome[2:] == outcome[2:]
}

func (SequenceValidator) ValidSequence(i int, _ []string, outcomesSoFar []string, outcome string) bool {
	var prev string
	if len(outcomesSoFar) > 0 {
		prev = outcomesSoFar[len(outcomesSoFar)-1]
	}
	return ValidOutcome(outcome, prev)
}
