package featurevector

import "testing"

func TestSparseUpdates(t *testing.T) {
	gold := FromContext([]string{"w=a", "p=b", "w=a"}, nil)
	if gold["w=a"] != 2 || gold["p=b"] != 1 {
		t.Error("Got", gold)
	}
	counts := NewSparse()
	counts.UpdateAdd(gold)
	counts.UpdateSubtract(FromContext([]string{"w=a", "p=c"}, []float64{2, 0.5}))
	if _, exists := counts["w=a"]; exists {
		t.Error("Zeroed feature should be removed, got", counts)
	}
	if counts["p=b"] != 1 || counts["p=c"] != -0.5 {
		t.Error("Got", counts)
	}
	if keys := counts.Keys(); len(keys) != 2 || keys[0] != "p=b" || keys[1] != "p=c" {
		t.Error("Got keys", keys)
	}
	if gold["w=a"] != 2 {
		t.Error("UpdateAdd modified its argument")
	}
	counts.Clear()
	if len(counts) != 0 {
		t.Error("Got", counts, "after Clear")
	}
}

func TestHistoryValue(t *testing.T) {
	h := NewHistoryValue(0, 0)
	h.Add(2, 3)  // 0 for generations 0,1; 3 from 2
	h.Add(5, -1) // 3 for 2,3,4; 2 from 5
	if h.IntegratedValue(5) != 9 {
		t.Error("Got", h.IntegratedValue(5), "expected 9")
	}
	if h.IntegratedValue(10) != 19 {
		t.Error("Got", h.IntegratedValue(10), "expected 19")
	}
	if h.Average(10) != 1.9 {
		t.Error("Got", h.Average(10), "expected 1.9")
	}
	h.Add(5, 1)
	if h.Value != 3 || h.IntegratedValue(6) != 12 {
		t.Error("Got", h.Value, h.IntegratedValue(6))
	}
}

func TestLockedArray(t *testing.T) {
	l := NewLockedArray(2)
	l.Add(1, 0, 2)
	l.Add(3, 4, 1)
	if len(l.Vals) != 5 {
		t.Error("Got length", len(l.Vals), "expected 5")
	}
	if l.Vals[0].Value != 2 || l.Vals[4].Value != 1 || l.Vals[2] != nil {
		t.Error("Unexpected values")
	}
	avg := l.Averages(4)
	// 2 for generations 1..3, 1 for generation 3
	if avg[0] != 1.5 || avg[4] != 0.25 || avg[1] != 0 {
		t.Error("Got averages", avg)
	}
}
