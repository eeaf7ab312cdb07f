package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quicquam/opennlp4net-sub003/util"
)

// Event is a single training instance: an outcome and the predicates that
// were active when it was observed. Values, when not nil, holds a real
// value per context predicate.
type Event struct {
	Outcome string
	Context []string
	Values  []float64
}

func New(outcome string, context []string) *Event {
	return &Event{Outcome: outcome, Context: context}
}

func NewWithValues(outcome string, context []string, values []float64) *Event {
	return &Event{outcome, context, values}
}

// Validate checks the event is usable for training.
func (e *Event) Validate() error {
	if len(e.Outcome) == 0 {
		return &MalformedEventError{e, "empty outcome"}
	}
	if e.Values != nil && len(e.Values) != len(e.Context) {
		return &MalformedEventError{e, fmt.Sprintf("%d values for %d context predicates", len(e.Values), len(e.Context))}
	}
	for i, v := range e.Values {
		if v < 0 {
			return &MalformedEventError{e, fmt.Sprintf("negative value %v for %s", v, e.Context[i])}
		}
	}
	return nil
}

func (e *Event) String() string {
	var b strings.Builder
	b.WriteString(e.Outcome)
	b.WriteString(" [")
	for i, pred := range e.Context {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pred)
		if e.Values != nil {
			b.WriteByte('=')
			b.WriteString(strconv.FormatFloat(e.Values[i], 'g', -1, 64))
		}
	}
	b.WriteByte(']')
	return b.String()
}

type MalformedEventError struct {
	Event  *Event
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event %v: %s", e.Event, e.Reason)
}

// Stream is a restartable source of events.
type Stream = util.ObjectStream[*Event]

func NewSliceStream(events []*Event) Stream {
	return util.NewSliceStream(events)
}
