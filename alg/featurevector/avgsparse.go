package featurevector

import (
	"sync"
)

// HistoryValue is a lazily averaged parameter. Total holds the sum of the
// value over all generations before Generation; the current Value has
// held since Generation.
type HistoryValue struct {
	sync.Mutex
	Generation   int
	Value, Total float64
}

// IntegratedValue is the sum of the value over generations [0, generation).
func (h *HistoryValue) IntegratedValue(generation int) float64 {
	return h.Total + float64(generation-h.Generation)*h.Value
}

// Add changes the value by amount starting at generation.
func (h *HistoryValue) Add(generation int, amount float64) {
	h.Lock()
	defer h.Unlock()
	if h.Generation < generation {
		h.Total += float64(generation-h.Generation) * h.Value
		h.Generation = generation
	}
	h.Value = h.Value + amount
}

// Average is the mean value over generations [0, generation).
func (h *HistoryValue) Average(generation int) float64 {
	if generation <= 0 {
		return h.Value
	}
	return h.IntegratedValue(generation) / float64(generation)
}

func NewHistoryValue(generation int, value float64) *HistoryValue {
	return &HistoryValue{Generation: generation, Value: value}
}

// LockedArray holds the history values of one predicate, indexed by
// outcome. Missing entries are zero valued since generation 0.
type LockedArray struct {
	sync.RWMutex
	Vals []*HistoryValue
}

func NewLockedArray(size int) *LockedArray {
	return &LockedArray{Vals: make([]*HistoryValue, size)}
}

func (l *LockedArray) ExtendFor(key int) {
	newVals := make([]*HistoryValue, key+1)
	copy(newVals[0:len(l.Vals)], l.Vals[0:len(l.Vals)])
	l.Vals = newVals
}

func (l *LockedArray) Add(generation, key int, amount float64) {
	l.Lock()
	defer l.Unlock()
	if key >= len(l.Vals) {
		l.ExtendFor(key)
	}
	if l.Vals[key] != nil {
		l.Vals[key].Add(generation, amount)
		return
	}
	// zero since generation 0
	l.Vals[key] = NewHistoryValue(generation, amount)
}

// Averages returns the mean value of every key over generations
// [0, generation).
func (l *LockedArray) Averages(generation int) []float64 {
	l.RLock()
	defer l.RUnlock()
	retval := make([]float64, len(l.Vals))
	for i, h := range l.Vals {
		if h != nil {
			retval[i] = h.Average(generation)
		}
	}
	return retval
}
