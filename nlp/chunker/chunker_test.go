package chunker

import (
	"strings"
	"testing"

	"github.com/quicquam/opennlp4net-sub003/alg/train"
	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
	"github.com/quicquam/opennlp4net-sub003/util"
)

const TEST_CORPUS = `the_DT_B-NP dog_NN_I-NP barks_VBZ_B-VP
a_DT_B-NP cat_NN_I-NP sleeps_VBZ_B-VP
the_DT_B-NP big_JJ_I-NP cat_NN_I-NP sleeps_VBZ_B-VP
he_PRP_B-NP barks_VBZ_B-VP ._._O
`

func corpus(t *testing.T, repeat int) util.ObjectStream[*Sample] {
	var samples []*Sample
	for r := 0; r < repeat; r++ {
		for _, line := range strings.Split(strings.TrimSpace(TEST_CORPUS), "\n") {
			s, err := ParseSample(line)
			if err != nil {
				t.Fatal(err)
			}
			samples = append(samples, s)
		}
	}
	return util.NewSliceStream(samples)
}

func TestParseSample(t *testing.T) {
	s, err := ParseSample("a_b_DT_B-NP ._._O")
	if err != nil {
		t.Fatal(err)
	}
	if s.Sentence[0] != "a_b" || s.Tags[0] != "DT" || s.Preds[0] != "B-NP" || s.Sentence[1] != "." {
		t.Error("Got", s.Sentence, s.Tags, s.Preds)
	}
	if s.String() != "a_b_DT_B-NP ._._O" {
		t.Error("Got", s.String())
	}
	for _, bad := range []string{"dog", "dog_NN", "dog__B-NP", "dog_NN_"} {
		if _, err := ParseSample(bad); err == nil {
			t.Error("Expected error for", bad)
		}
	}
	if _, err := NewSample([]string{"a"}, []string{"DT"}, nil); err == nil {
		t.Error("Expected error for missing chunk tags")
	}
}

func TestPhrasesAsSpans(t *testing.T) {
	spans := PhrasesAsSpans([]string{"B-NP", "I-NP", "B-VP", "O", "I-PP", "I-NP", "B-NP"})
	expected := []nlp.Span{
		nlp.NewSpan(0, 2, "NP"),
		nlp.NewSpan(2, 3, "VP"),
		nlp.NewSpan(4, 5, "PP"),
		nlp.NewSpan(5, 6, "NP"),
		nlp.NewSpan(6, 7, "NP"),
	}
	if len(spans) != len(expected) {
		t.Fatal("Got", spans, "expected", expected)
	}
	for i := range expected {
		if spans[i] != expected[i] {
			t.Error("Got", spans[i], "expected", expected[i])
		}
	}
}

func TestValidOutcome(t *testing.T) {
	cases := []struct {
		outcome, prev string
		expected      bool
	}{
		{"B-NP", "", true},
		{"O", "I-VP", true},
		{"I-NP", "", false},
		{"I-NP", "O", false},
		{"I-NP", "B-VP", false},
		{"I-NP", "B-NP", true},
		{"I-NP", "I-NP", true},
	}
	for _, c := range cases {
		if got := ValidOutcome(c.outcome, c.prev); got != c.expected {
			t.Error("Outcome", c.outcome, "after", c.prev, "got", got, "expected", c.expected)
		}
	}
}

func TestContextGenerator(t *testing.T) {
	tokens := []string{"the", "dog", "barks"}
	tags := []string{"DT", "NN", "VBZ"}
	features := ContextGenerator{}.Context(1, tokens, []string{"B-NP"}, tags)
	if len(features) != 41 {
		t.Error("Got", len(features), "features expected 41")
	}
	for _, f := range []string{"w_2=bos", "w0=dog", "w2=eos", "t_1=DT", "p_1=B-NP", "p_2=bos", "p_1=B-NPt0=NN", "w_1=thew0=dog"} {
		found := false
		for _, feature := range features {
			if feature == f {
				found = true
				break
			}
		}
		if !found {
			t.Error("Missing", f)
		}
	}
}

func TestTrainAndChunk(t *testing.T) {
	params := train.DefaultParams()
	params.Cutoff = 1
	m, err := Train(corpus(t, 3), params)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewChunker(m, params.BeamSize)
	if err != nil {
		t.Fatal(err)
	}
	tokens := []string{"the", "big", "cat", "sleeps"}
	tags := []string{"DT", "JJ", "NN", "VBZ"}
	if chunks := strings.Join(c.Chunk(tokens, tags), " "); chunks != "B-NP I-NP I-NP B-VP" {
		t.Error("Got", chunks)
	}
	if len(c.Probs()) != 4 {
		t.Error("Got probs", c.Probs())
	}
	spans := c.ChunkAsSpans([]string{"he", "barks", "."}, []string{"PRP", "VBZ", "."})
	if len(spans) != 2 || spans[0] != nlp.NewSpan(0, 1, "NP") || spans[1] != nlp.NewSpan(1, 2, "VP") {
		t.Error("Got spans", spans)
	}
	for _, seq := range c.TopKSequences(tokens, tags) {
		for i, o := range seq.Outcomes {
			var prev string
			if i > 0 {
				prev = seq.Outcomes[i-1]
			}
			if !ValidOutcome(o, prev) {
				t.Error("Invalid sequence", seq)
			}
		}
	}
}

func TestTrainRejectsSequenceTraining(t *testing.T) {
	params := train.DefaultParams()
	params.Algorithm = train.PERCEPTRON_SEQUENCE
	if _, err := Train(corpus(t, 1), params); err == nil {
		t.Error("Expected error for sequence training")
	}
}
