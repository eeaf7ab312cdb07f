package namefind

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	nlp "github.com/quicquam/opennlp4net-sub003/nlp/types"
)

// TypeMapping renames corpus categories to entity types. It is built once
// and never modified.
//
//	types:
//	  PESSOA: person
//	  LOCAL: location
type TypeMapping struct {
	types map[string]string
}

type typeMappingFile struct {
	Types map[string]string `yaml:"types"`
}

func NewTypeMapping(types map[string]string) *TypeMapping {
	m := &TypeMapping{make(map[string]string, len(types))}
	for raw, typ := range types {
		m.types[raw] = typ
	}
	return m
}

func ReadTypeMapping(data []byte) (*TypeMapping, error) {
	var f typeMappingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing type mapping")
	}
	for raw, typ := range f.Types {
		if typ == "" {
			return nil, errors.Errorf("category %s maps to an empty type", raw)
		}
	}
	return NewTypeMapping(f.Types), nil
}

func LoadTypeMapping(filename string) (*TypeMapping, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m, err := ReadTypeMapping(data)
	if err != nil {
		return nil, errors.Wrapf(err, "type mapping %s", filename)
	}
	return m, nil
}

// Map returns the entity type of a corpus category.
func (m *TypeMapping) Map(raw string) (string, bool) {
	typ, exists := m.types[raw]
	return typ, exists
}

// MapSpans renames the types of spans, dropping spans of unmapped types.
func (m *TypeMapping) MapSpans(spans []nlp.Span) []nlp.Span {
	retval := make([]nlp.Span, 0, len(spans))
	for _, s := range spans {
		if typ, exists := m.types[s.Type]; exists {
			s.Type = typ
			retval = append(retval, s)
		}
	}
	return retval
}

func (m *TypeMapping) Len() int {
	return len(m.types)
}

// Types lists the distinct entity types, sorted.
func (m *TypeMapping) Types() []string {
	set := make(map[string]bool)
	for _, typ := range m.types {
		set[typ] = true
	}
	retval := make([]string, 0, len(set))
	for typ := range set {
		retval = append(retval, typ)
	}
	sort.Strings(retval)
	return retval
}
