package featurevector

import (
	"sort"
)

// Sparse maps feature (predicate) names to values; absent keys are zero.
type Sparse map[string]float64

// FromContext sums the values of a context into a vector. A nil values
// slice gives every predicate the value 1.
func FromContext(context []string, values []float64) Sparse {
	vec := make(Sparse, len(context))
	for i, pred := range context {
		if values == nil {
			vec[pred] += 1
		} else {
			vec[pred] += values[i]
		}
	}
	return vec
}

func (v Sparse) UpdateAdd(other Sparse) Sparse {
	vec := v
	var val float64
	for key, otherVal := range other {
		// vec[key] == 0 if vec[key] does not exist
		val = vec[key] + otherVal
		if val != 0.0 {
			vec[key] = val
		} else {
			delete(vec, key)
		}
	}
	return v
}

func (v Sparse) UpdateSubtract(other Sparse) Sparse {
	vec := v
	var val float64
	for key, otherVal := range other {
		val = vec[key] - otherVal
		if val != 0.0 {
			vec[key] = val
		} else {
			delete(vec, key)
		}
	}
	return v
}

func (v Sparse) Clear() {
	for k := range v {
		delete(v, k)
	}
}

// Keys returns the features of v in lexical order.
func (v Sparse) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func NewSparse() Sparse {
	return make(Sparse)
}
