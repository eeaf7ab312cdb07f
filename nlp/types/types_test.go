package types

import "testing"

func TestTaggedSentence(t *testing.T) {
	sent := NewTaggedSentence([]string{"the", "dog"}, []string{"DT", "NN"})
	if sent.String() != "the_DT dog_NN" {
		t.Error("Got", sent.String())
	}
	if tags := sent.Tags(); tags[1] != "NN" {
		t.Error("Got tags", tags)
	}
	if !sent.Equal(TaggedSentence{{"the", "DT"}, {"dog", "NN"}}) {
		t.Error("Sentences should be equal")
	}
	tokens := sent.Tokens()
	if Window(tokens, 0, -1) != SENTENCE_BEGIN || Window(tokens, 1, 1) != SENTENCE_END || Window(tokens, 0, 1) != "dog" {
		t.Error("Window markers are wrong")
	}
}

func TestSpan(t *testing.T) {
	a, b, c := NewSpan(0, 3, "person"), NewSpan(1, 2, ""), NewSpan(2, 5, "")
	if !a.Contains(b) || b.Contains(a) {
		t.Error("Containment is wrong")
	}
	if !a.Crosses(c) || a.Crosses(b) {
		t.Error("Crossing is wrong")
	}
	if a.Intersects(NewSpan(3, 4, "")) {
		t.Error("Adjacent spans do not intersect")
	}
	if a.String() != "[0..3) person" || b.String() != "[1..2)" {
		t.Error("Got", a.String(), b.String())
	}
	if text := a.CoveredText([]string{"John", "Q", "Public", "said"}); text != "John Q Public" {
		t.Error("Got", text)
	}
	spans := []Span{c, b, a, NewSpan(0, 1, "")}
	SortSpans(spans)
	if spans[0] != a || spans[1].End != 1 || spans[3] != c {
		t.Error("Got order", spans)
	}
	if kept := DropOverlapping([]Span{a, b, NewSpan(3, 4, "")}); len(kept) != 2 {
		t.Error("Got", kept)
	}
}
