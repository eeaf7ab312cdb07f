package util

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ObjectStream is a lazy, finite, restartable sequence. Read returns
// io.EOF once the stream is exhausted; Reset rewinds to the first item.
type ObjectStream[T any] interface {
	Read() (T, error)
	Reset() error
	Close() error
}

type SliceStream[T any] struct {
	items []T
	pos   int
}

var _ ObjectStream[string] = &SliceStream[string]{}

func NewSliceStream[T any](items []T) *SliceStream[T] {
	return &SliceStream[T]{items: items}
}

func (s *SliceStream[T]) Read() (T, error) {
	var zero T
	if s.pos >= len(s.items) {
		return zero, io.EOF
	}
	s.pos++
	return s.items[s.pos-1], nil
}

func (s *SliceStream[T]) Reset() error {
	s.pos = 0
	return nil
}

func (s *SliceStream[T]) Close() error {
	return nil
}

// ReadAll drains s from its current position.
func ReadAll[T any](s ObjectStream[T]) ([]T, error) {
	retval := make([]T, 0, 64)
	for {
		item, err := s.Read()
		if err == io.EOF {
			return retval, nil
		}
		if err != nil {
			return retval, err
		}
		retval = append(retval, item)
	}
}

// LineStream reads lines from a source that is reopened on Reset.
type LineStream struct {
	open    func() (io.ReadCloser, error)
	source  io.ReadCloser
	scanner *bufio.Scanner
	line    int
}

var _ ObjectStream[string] = &LineStream{}

func NewLineStream(open func() (io.ReadCloser, error)) *LineStream {
	return &LineStream{open: open}
}

// OpenLineStream streams the lines of a file.
func OpenLineStream(filename string) (*LineStream, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}
	return NewLineStream(func() (io.ReadCloser, error) {
		return os.Open(filename)
	}), nil
}

// StringLineStream streams the lines of an in memory document.
func StringLineStream(document string) *LineStream {
	return NewLineStream(func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(document)), nil
	})
}

func (l *LineStream) Read() (string, error) {
	if l.scanner == nil {
		source, err := l.open()
		if err != nil {
			return "", errors.Wrap(err, "opening line stream")
		}
		l.source = source
		l.scanner = bufio.NewScanner(source)
		l.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		l.line = 0
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", errors.Wrapf(err, "reading line %d", l.line+1)
		}
		return "", io.EOF
	}
	l.line++
	return strings.TrimRight(l.scanner.Text(), "\r"), nil
}

// Line is the number of the last line read.
func (l *LineStream) Line() int {
	return l.line
}

func (l *LineStream) Reset() error {
	return l.Close()
}

func (l *LineStream) Close() error {
	l.scanner = nil
	if l.source == nil {
		return nil
	}
	err := l.source.Close()
	l.source = nil
	return err
}

// TransformStream maps every item of a source stream. Items for which
// the function returns skip are dropped.
type TransformStream[S, T any] struct {
	Source ObjectStream[S]
	F      func(S) (item T, skip bool, err error)
}

func Transform[S, T any](source ObjectStream[S], f func(S) (T, bool, error)) *TransformStream[S, T] {
	return &TransformStream[S, T]{source, f}
}

func (t *TransformStream[S, T]) Read() (T, error) {
	var zero T
	for {
		s, err := t.Source.Read()
		if err != nil {
			return zero, err
		}
		item, skip, err := t.F(s)
		if err != nil {
			return zero, err
		}
		if !skip {
			return item, nil
		}
	}
}

func (t *TransformStream[S, T]) Reset() error {
	return t.Source.Reset()
}

func (t *TransformStream[S, T]) Close() error {
	return t.Source.Close()
}

// ExpandStream maps every item of a source stream to any number of items,
// returned in order.
type ExpandStream[S, T any] struct {
	Source  ObjectStream[S]
	F       func(S) ([]T, error)
	pending []T
}

func Expand[S, T any](source ObjectStream[S], f func(S) ([]T, error)) *ExpandStream[S, T] {
	return &ExpandStream[S, T]{Source: source, F: f}
}

func (e *ExpandStream[S, T]) Read() (T, error) {
	var zero T
	for len(e.pending) == 0 {
		s, err := e.Source.Read()
		if err != nil {
			return zero, err
		}
		if e.pending, err = e.F(s); err != nil {
			return zero, err
		}
	}
	item := e.pending[0]
	e.pending = e.pending[1:]
	return item, nil
}

func (e *ExpandStream[S, T]) Reset() error {
	e.pending = nil
	return e.Source.Reset()
}

func (e *ExpandStream[S, T]) Close() error {
	return e.Source.Close()
}
