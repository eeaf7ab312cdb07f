package search

import (
	"container/heap"
	"sort"
)

type scoredSequence struct {
	*Sequence
	// insertion order, earlier wins ties
	num int
}

// Agenda keeps the BeamSize best sequences pushed onto it. The heap root is
// the worst kept sequence so a better newcomer replaces it in O(log n).
type Agenda struct {
	BeamSize int
	Seqs     []*scoredSequence
	pushed   int
}

var _ heap.Interface = &Agenda{}

func NewAgenda(size int) *Agenda {
	return &Agenda{BeamSize: size, Seqs: make([]*scoredSequence, 0, size)}
}

// worse reports whether a ranks below b.
func worse(a, b *scoredSequence) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.num > b.num
}

func (a *Agenda) Len() int {
	return len(a.Seqs)
}

func (a *Agenda) Less(i, j int) bool {
	return worse(a.Seqs[i], a.Seqs[j])
}

func (a *Agenda) Swap(i, j int) {
	a.Seqs[i], a.Seqs[j] = a.Seqs[j], a.Seqs[i]
}

func (a *Agenda) Push(x interface{}) {
	a.Seqs = append(a.Seqs, x.(*scoredSequence))
}

func (a *Agenda) Pop() interface{} {
	n := len(a.Seqs)
	scored := a.Seqs[n-1]
	a.Seqs = a.Seqs[0 : n-1]
	return scored
}

// Add offers s to the agenda and reports whether it was kept.
func (a *Agenda) Add(s *Sequence) bool {
	scored := &scoredSequence{s, a.pushed}
	a.pushed++
	if len(a.Seqs) < a.BeamSize {
		heap.Push(a, scored)
		return true
	}
	if !worse(a.Seqs[0], scored) {
		return false
	}
	heap.Pop(a)
	heap.Push(a, scored)
	return true
}

// Sorted returns the kept sequences best first.
func (a *Agenda) Sorted() []*Sequence {
	sorted := make([]*scoredSequence, len(a.Seqs))
	copy(sorted, a.Seqs)
	sort.Slice(sorted, func(i, j int) bool { return worse(sorted[j], sorted[i]) })
	retval := make([]*Sequence, len(sorted))
	for i, s := range sorted {
		retval[i] = s.Sequence
	}
	return retval
}

func (a *Agenda) Clear() {
	a.Seqs = a.Seqs[0:0]
	a.pushed = 0
}
