package search

import (
	"fmt"
	"log"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

const (
	DEFAULT_BEAM_SIZE  = 3
	DEFAULT_CACHE_SIZE = 0
)

// Beam finds the best outcome sequences for a sequence of tokens. At each
// position every kept partial sequence is extended by the outcomes that
// score within the top Size and pass the validator; the Size best
// extensions are kept for the next position.
type Beam struct {
	Size      int
	Model     Model
	Generator ContextGenerator
	Validator SequenceValidator

	Log bool

	probs *lru.Cache
}

// NewBeam creates a beam decoder. A positive cacheSize memoizes the
// distributions of the last cacheSize distinct contexts.
func NewBeam(size int, m Model, generator ContextGenerator, validator SequenceValidator, cacheSize int) (*Beam, error) {
	if m == nil {
		panic("beam search requires a model")
	}
	if generator == nil {
		panic("beam search requires a context generator")
	}
	if size < 1 {
		return nil, errors.Errorf("beam size must be positive, got %d", size)
	}
	if validator == nil {
		validator = AllValid
	}
	b := &Beam{Size: size, Model: m, Generator: generator, Validator: validator}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "creating probability cache")
		}
		b.probs = cache
	}
	return b, nil
}

func (b *Beam) Name() string {
	cached := "Not "
	if b.probs != nil {
		cached = ""
	}
	return fmt.Sprintf("Beam Search [size %d, %sCached]", b.Size, cached)
}

func (b *Beam) eval(context []string) []float64 {
	if b.probs == nil {
		return b.Model.Eval(context)
	}
	key := strings.Join(context, "\x00")
	if cached, exists := b.probs.Get(key); exists {
		return cached.([]float64)
	}
	dist := b.Model.Eval(context)
	b.probs.Add(key, dist)
	return dist
}

// BestSequence returns the best sequence for sequence, or nil when no valid
// sequence exists.
func (b *Beam) BestSequence(sequence []string, additional interface{}) *Sequence {
	seqs := b.BestSequences(1, sequence, additional, ZeroLog)
	if len(seqs) == 0 {
		return nil
	}
	return seqs[0]
}

// BestSequences returns up to numSequences (at least 0) sequences scoring above
// minSequenceScore, best first. An empty input yields the single empty
// sequence; fewer sequences (possibly none) are returned when the validator
// prunes every extension of a branch.
func (b *Beam) BestSequences(numSequences int, sequence []string, additional interface{}, minSequenceScore float64) []*Sequence {
	prev, next := NewAgenda(b.Size), NewAgenda(b.Size)
	prev.Add(NewSequence())
	numOutcomes := b.Model.NumOutcomes()
	sortedScores := make([]float64, numOutcomes)

	for i := range sequence {
		tops := prev.Sorted()
		for _, top := range tops {
			context := b.Generator.Context(i, sequence, top.Outcomes, additional)
			scores := b.eval(context)
			if len(scores) != numOutcomes {
				panic(fmt.Sprintf("model returned %d scores for %d outcomes", len(scores), numOutcomes))
			}
			copy(sortedScores, scores)
			sort.Float64s(sortedScores)
			thresholdIdx := numOutcomes - b.Size
			if thresholdIdx < 0 {
				thresholdIdx = 0
			}
			threshold := sortedScores[thresholdIdx]
			for p, score := range scores {
				if score < threshold {
					continue
				}
				b.extend(next, top, i, sequence, p, score, minSequenceScore)
			}
			if next.Len() == 0 {
				// nothing within the beam was valid, try everything
				for p, score := range scores {
					b.extend(next, top, i, sequence, p, score, minSequenceScore)
				}
			}
		}
		if b.Log {
			log.Println("Position", i, "kept", next.Len(), "of", len(tops)*numOutcomes)
		}
		prev.Clear()
		prev, next = next, prev
		if prev.Len() == 0 {
			return []*Sequence{}
		}
	}

	sorted := prev.Sorted()
	if numSequences < 0 {
		numSequences = 0
	}
	if numSequences < len(sorted) {
		sorted = sorted[:numSequences]
	}
	return sorted
}

func (b *Beam) extend(agenda *Agenda, top *Sequence, i int, sequence []string, p int, score, minSequenceScore float64) {
	outcome := b.Model.Outcome(p)
	if !b.Validator.ValidSequence(i, sequence, top.Outcomes, outcome) {
		return
	}
	ns := top.Extend(outcome, score)
	if ns.Score > minSequenceScore {
		agenda.Add(ns)
	}
}
