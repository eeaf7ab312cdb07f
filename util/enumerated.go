package util

import (
	"fmt"
	"log"
	"sync"

	"github.com/pkg/errors"
)

// EnumSet is a dense, zero based mapping between strings and integer ids.
// Predicate and outcome tables of a model are EnumSets; once Frozen no more
// values may be added.
type EnumSet struct {
	mu     sync.RWMutex
	Enum   map[string]int
	Index  []string
	Frozen bool
}

func (e *EnumSet) RebuildIndex() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Index = make([]string, len(e.Enum))
	for k, v := range e.Enum {
		e.Index[v] = k
	}
}

func (e *EnumSet) Add(value string) (int, bool) {
	if e.Frozen {
		panic("Cannot add value to frozen enum set")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	enum, exists := e.Enum[value]
	if exists {
		return enum, false
	}
	enum = len(e.Index)
	e.Enum[value] = enum
	e.Index = append(e.Index, value)
	return enum, true
}

func (e *EnumSet) IndexOf(value string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enum, exists := e.Enum[value]
	return enum, exists
}

func (e *EnumSet) ValueOf(index int) string {
	if index < 0 {
		panic("Negative index requested")
	}
	e.mu.RLock()
	stale := len(e.Index) != len(e.Enum)
	e.mu.RUnlock()
	if stale {
		log.Println("Rebuilding index!")
		e.RebuildIndex()
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.Index) <= index {
		panic("Unknown index requested: " + fmt.Sprintf("%v of %v", index, len(e.Index)))
	}
	return e.Index[index]
}

func (e *EnumSet) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Index)
}

// Values returns a copy of the values in id order.
func (e *EnumSet) Values() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	retval := make([]string, len(e.Index))
	copy(retval, e.Index)
	return retval
}

func NewEnumSet(capacity int) *EnumSet {
	e := &EnumSet{
		sync.RWMutex{},
		make(map[string]int, capacity),
		make([]string, 0, capacity),
		false,
	}
	return e
}

// NewFrozenEnumSet builds a frozen set whose ids are the positions of
// values. Duplicate values would break the bijection and are rejected.
func NewFrozenEnumSet(values []string) (*EnumSet, error) {
	e := NewEnumSet(len(values))
	for i, v := range values {
		if _, added := e.Add(v); !added {
			return nil, errors.Errorf("duplicate value %q at position %d", v, i)
		}
	}
	e.Frozen = true
	return e, nil
}
