package event

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/util"
)

// ParseLine reads an event in the "outcome pred1 pred2 ..." line format.
// With realValued set, a predicate ending in "=<number>" carries that
// value and is stored without the suffix.
func ParseLine(line string, realValued bool) (*Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &MalformedEventError{&Event{}, "empty line"}
	}
	e := New(fields[0], fields[1:])
	if realValued {
		values, err := parseValues(e.Context)
		if err != nil {
			return nil, err
		}
		e.Values = values
	}
	return e, nil
}

func parseValues(context []string) ([]float64, error) {
	values := make([]float64, len(context))
	var hasRealValue bool
	for i, pred := range context {
		values[i] = 1
		eq := strings.LastIndexByte(pred, '=')
		if eq <= 0 || eq+1 >= len(pred) {
			continue
		}
		v, err := strconv.ParseFloat(pred[eq+1:], 64)
		if err != nil {
			log.Println("Unable to determine value in context:", pred)
			continue
		}
		if v < 0 {
			return nil, &MalformedEventError{&Event{Context: context}, "negative value in " + pred}
		}
		values[i] = v
		context[i] = pred[:eq]
		hasRealValue = true
	}
	if !hasRealValue {
		return nil, nil
	}
	return values, nil
}

// FormatLine renders e in the format read by ParseLine.
func FormatLine(e *Event) string {
	var b strings.Builder
	b.WriteString(e.Outcome)
	for i, pred := range e.Context {
		b.WriteByte(' ')
		b.WriteString(pred)
		if e.Values != nil {
			b.WriteByte('=')
			b.WriteString(strconv.FormatFloat(e.Values[i], 'g', -1, 64))
		}
	}
	return b.String()
}

// NewLineStream parses events from a line stream, one event per non
// blank line.
func NewLineStream(lines util.ObjectStream[string], realValued bool) Stream {
	return util.Transform[string, *Event](lines, func(line string) (*Event, bool, error) {
		if len(strings.TrimSpace(line)) == 0 {
			return nil, true, nil
		}
		e, err := ParseLine(line, realValued)
		return e, false, err
	})
}

// OpenFile streams the events of an event file.
func OpenFile(filename string, realValued bool) (Stream, error) {
	lines, err := util.OpenLineStream(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening event file")
	}
	return NewLineStream(lines, realValued), nil
}

// WriteAll drains stream into w in the line format and returns the
// number of events written.
func WriteAll(w io.Writer, stream Stream) (int, error) {
	buf := bufio.NewWriter(w)
	var count int
	for {
		e, err := stream.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if _, err := buf.WriteString(FormatLine(e) + "\n"); err != nil {
			return count, err
		}
		count++
	}
	return count, buf.Flush()
}
