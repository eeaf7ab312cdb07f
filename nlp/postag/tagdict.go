package postag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/search"
	"github.com/quicquam/opennlp4net-sub003/util/conf"
)

// TagDictionary restricts the tags of known words. Words it does not list
// may take any tag.
type TagDictionary struct {
	CaseSensitive bool
	tags          map[string][]string
}

var _ search.SequenceValidator = &TagDictionary{}

func NewTagDictionary(caseSensitive bool) *TagDictionary {
	return &TagDictionary{caseSensitive, make(map[string][]string)}
}

func (d *TagDictionary) key(word string) string {
	if d.CaseSensitive {
		return word
	}
	return strings.ToLower(word)
}

func (d *TagDictionary) Put(word string, tags ...string) {
	d.tags[d.key(word)] = tags
}

// Tags returns the allowed tags of word, nil if the word is unknown.
func (d *TagDictionary) Tags(word string) []string {
	return d.tags[d.key(word)]
}

func (d *TagDictionary) Len() int {
	return len(d.tags)
}

func (d *TagDictionary) ValidSequence(i int, sequence []string, _ []string, outcome string) bool {
	tags := d.Tags(sequence[i])
	if tags == nil {
		return true
	}
	for _, tag := range tags {
		if tag == outcome {
			return true
		}
	}
	return false
}

// Write writes one "word TAG1 TAG2 ..." line per word, sorted by word.
func (d *TagDictionary) Write(w io.Writer) error {
	words := make([]string, 0, len(d.tags))
	for word := range d.tags {
		words = append(words, word)
	}
	sort.Strings(words)
	for _, word := range words {
		if _, err := fmt.Fprintln(w, word, strings.Join(d.tags[word], " ")); err != nil {
			return err
		}
	}
	return nil
}

// ReadTagDictionary reads "word TAG1 TAG2 ..." lines; # starts a comment.
func ReadTagDictionary(r io.Reader, caseSensitive bool) (*TagDictionary, error) {
	c, err := conf.Read(r)
	if err != nil {
		return nil, err
	}
	return fromConf(c, caseSensitive)
}

func LoadTagDictionary(filename string, caseSensitive bool) (*TagDictionary, error) {
	c, err := conf.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	d, err := fromConf(c, caseSensitive)
	return d, errors.Wrapf(err, "tag dictionary %s", filename)
}

func fromConf(c *conf.Conf, caseSensitive bool) (*TagDictionary, error) {
	d := NewTagDictionary(caseSensitive)
	for i, fields := range c.Fields() {
		if len(fields) < 2 {
			return nil, errors.Errorf("entry %d (%q) has no tags", i+1, c.Values[i])
		}
		d.Put(fields[0], fields[1:]...)
	}
	return d, nil
}
