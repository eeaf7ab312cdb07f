package model

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Format is a model file encoding.
type Format int

const (
	Binary Format = iota
	Text
	Gob
)

var formatNames = []string{"binary", "text", "gob"}

func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
	return formatNames[f]
}

func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return Binary, errors.Errorf("unknown model format %q (expected binary, text or gob)", s)
}

// FormatForFile guesses the format from the file name: .txt is text, .gob
// is gob, anything else binary. A trailing .gz is ignored.
func FormatForFile(name string) Format {
	name = strings.TrimSuffix(name, ".gz")
	switch {
	case strings.HasSuffix(name, ".txt"):
		return Text
	case strings.HasSuffix(name, ".gob"):
		return Gob
	}
	return Binary
}

type dataWriter interface {
	writeString(string) error
	writeInt(int) error
	writeFloat(float64) error
	flush() error
}

type dataReader interface {
	readString() (string, error)
	readInt() (int, error)
	readFloat() (float64, error)
}

// binary: big endian, strings prefixed by a uint16 byte length
type binaryWriter struct {
	w *bufio.Writer
}

func (b *binaryWriter) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return errors.Errorf("string of %d bytes is too long for the binary format", len(s))
	}
	if err := binary.Write(b.w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := b.w.WriteString(s)
	return err
}

func (b *binaryWriter) writeInt(i int) error {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return errors.Errorf("integer %d overflows the binary format", i)
	}
	return binary.Write(b.w, binary.BigEndian, int32(i))
}

func (b *binaryWriter) writeFloat(f float64) error {
	return binary.Write(b.w, binary.BigEndian, math.Float64bits(f))
}

func (b *binaryWriter) flush() error {
	return b.w.Flush()
}

type binaryReader struct {
	r *bufio.Reader
}

func (b *binaryReader) readString() (string, error) {
	var length uint16
	if err := binary.Read(b.r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (b *binaryReader) readInt() (int, error) {
	var i int32
	err := binary.Read(b.r, binary.BigEndian, &i)
	return int(i), err
}

func (b *binaryReader) readFloat() (float64, error) {
	var bits uint64
	err := binary.Read(b.r, binary.BigEndian, &bits)
	return math.Float64frombits(bits), err
}

// text: one item per line
type textWriter struct {
	w *bufio.Writer
}

func (t *textWriter) writeString(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return errors.Errorf("string %q contains a line break", s)
	}
	_, err := t.w.WriteString(s + "\n")
	return err
}

func (t *textWriter) writeInt(i int) error {
	return t.writeString(strconv.Itoa(i))
}

func (t *textWriter) writeFloat(f float64) error {
	return t.writeString(strconv.FormatFloat(f, 'g', -1, 64))
}

func (t *textWriter) flush() error {
	return t.w.Flush()
}

type textReader struct {
	r *bufio.Reader
}

func (t *textReader) readString() (string, error) {
	line, err := t.r.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *textReader) readInt() (int, error) {
	s, err := t.readString()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func (t *textReader) readFloat() (float64, error) {
	s, err := t.readString()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Write serializes m to w in the given format.
func Write(w io.Writer, m *Model, format Format) error {
	switch format {
	case Binary:
		return writeModel(&binaryWriter{bufio.NewWriter(w)}, m)
	case Text:
		return writeModel(&textWriter{bufio.NewWriter(w)}, m)
	case Gob:
		return writeGob(w, m)
	}
	return errors.Errorf("unknown model format %v", format)
}

// Read loads a model written by Write in the same format.
func Read(r io.Reader, format Format) (*Model, error) {
	switch format {
	case Binary:
		return readModel(&binaryReader{bufio.NewReader(r)}, format)
	case Text:
		return readModel(&textReader{bufio.NewReader(r)}, format)
	case Gob:
		return readGob(r)
	}
	return nil, errors.Errorf("unknown model format %v", format)
}

// WriteFile writes m to name, gzip compressed when name ends with .gz.
func WriteFile(name string, m *Model, format Format) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating model file")
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", name)
		}
	}()
	var w io.Writer = file
	if strings.HasSuffix(name, ".gz") {
		gz := gzip.NewWriter(file)
		defer func() {
			if cerr := gz.Close(); err == nil && cerr != nil {
				err = errors.Wrapf(cerr, "compressing %s", name)
			}
		}()
		w = gz
	}
	return errors.Wrapf(Write(w, m, format), "writing %s", name)
}

// ReadFile reads a model from name, decompressing when name ends with .gz.
func ReadFile(name string, format Format) (*Model, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "opening model file")
	}
	defer file.Close()
	var r io.Reader = file
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, formatErrorf(format, err, "%s is not gzip compressed", name)
		}
		defer gz.Close()
		r = gz
	}
	return Read(r, format)
}

func writeModel(w dataWriter, m *Model) error {
	sorted := SortedPredicates(m)
	groups := CompressOutcomes(sorted)
	if err := w.writeString(m.kind.String()); err != nil {
		return err
	}
	if m.kind == GIS {
		if err := w.writeInt(int(m.params.CorrectionConstant)); err != nil {
			return err
		}
		if err := w.writeFloat(m.params.CorrectionParam); err != nil {
			return err
		}
	}
	outcomes := m.Outcomes()
	if err := w.writeInt(len(outcomes)); err != nil {
		return err
	}
	for _, label := range outcomes {
		if err := w.writeString(label); err != nil {
			return err
		}
	}
	if err := w.writeInt(len(groups)); err != nil {
		return err
	}
	for _, group := range groups {
		if err := w.writeString(strconv.Itoa(len(group)) + group[0].String()); err != nil {
			return err
		}
	}
	if err := w.writeInt(len(sorted)); err != nil {
		return err
	}
	for _, pred := range sorted {
		if err := w.writeString(pred.Name); err != nil {
			return err
		}
	}
	for _, pred := range sorted {
		for _, param := range pred.Params {
			if err := w.writeFloat(param); err != nil {
				return err
			}
		}
	}
	return w.flush()
}

// counts read from a file only bound preallocation
func capacity(n int) int {
	if n > 1<<16 {
		return 1 << 16
	}
	return n
}

func readCount(r dataReader, format Format, what string) (int, error) {
	n, err := r.readInt()
	if err != nil {
		return 0, formatErrorf(format, err, "reading number of %s", what)
	}
	if n < 0 {
		return 0, formatErrorf(format, nil, "negative number of %s: %d", what, n)
	}
	return n, nil
}

type outcomePattern struct {
	count    int
	outcomes []int
}

func readModel(r dataReader, format Format) (*Model, error) {
	typ, err := r.readString()
	if err != nil {
		return nil, formatErrorf(format, err, "reading model type")
	}
	kind, err := ParseKind(typ)
	if err != nil {
		return nil, formatErrorf(format, err, "bad model type")
	}
	var correctionConstant, correctionParam float64
	if kind == GIS {
		cc, err := r.readInt()
		if err != nil {
			return nil, formatErrorf(format, err, "reading correction constant")
		}
		correctionConstant = float64(cc)
		if correctionParam, err = r.readFloat(); err != nil {
			return nil, formatErrorf(format, err, "reading correction parameter")
		}
	}

	numOutcomes, err := readCount(r, format, "outcomes")
	if err != nil {
		return nil, err
	}
	outcomes := make([]string, 0, capacity(numOutcomes))
	for i := 0; i < numOutcomes; i++ {
		label, err := r.readString()
		if err != nil {
			return nil, formatErrorf(format, err, "reading outcome %d", i)
		}
		outcomes = append(outcomes, label)
	}

	numPatterns, err := readCount(r, format, "outcome patterns")
	if err != nil {
		return nil, err
	}
	patterns := make([]outcomePattern, 0, capacity(numPatterns))
	var patternTotal int
	for i := 0; i < numPatterns; i++ {
		line, err := r.readString()
		if err != nil {
			return nil, formatErrorf(format, err, "reading outcome pattern %d", i)
		}
		pattern, err := parsePattern(line, numOutcomes)
		if err != nil {
			return nil, formatErrorf(format, err, "outcome pattern %d", i)
		}
		patternTotal += pattern.count
		patterns = append(patterns, pattern)
	}

	numPreds, err := readCount(r, format, "predicates")
	if err != nil {
		return nil, err
	}
	if numPreds != patternTotal {
		return nil, formatErrorf(format, nil, "outcome patterns cover %d predicates, found %d", patternTotal, numPreds)
	}
	preds := make([]string, 0, capacity(numPreds))
	for i := 0; i < numPreds; i++ {
		label, err := r.readString()
		if err != nil {
			return nil, formatErrorf(format, err, "reading predicate %d", i)
		}
		preds = append(preds, label)
	}

	contexts := make([]*Context, 0, len(preds))
	for _, pattern := range patterns {
		for j := 0; j < pattern.count; j++ {
			params := make([]float64, len(pattern.outcomes))
			for k := range params {
				if params[k], err = r.readFloat(); err != nil {
					return nil, formatErrorf(format, err, "reading parameters of predicate %d", len(contexts))
				}
			}
			contexts = append(contexts, NewContext(pattern.outcomes, params))
		}
	}
	m, err := New(kind, contexts, preds, outcomes, correctionConstant, correctionParam)
	if err != nil {
		return nil, formatErrorf(format, err, "inconsistent model")
	}
	return m, nil
}

func parsePattern(line string, numOutcomes int) (outcomePattern, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return outcomePattern{}, errors.New("empty pattern")
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return outcomePattern{}, errors.Wrap(err, "pattern count")
	}
	if count < 0 {
		return outcomePattern{}, errors.Errorf("negative pattern count %d", count)
	}
	outcomes := make([]int, len(fields)-1)
	for i, field := range fields[1:] {
		oid, err := strconv.Atoi(field)
		if err != nil {
			return outcomePattern{}, errors.Wrap(err, "pattern outcome")
		}
		if oid < 0 || oid >= numOutcomes {
			return outcomePattern{}, errors.Errorf("outcome id %d out of range [0,%d)", oid, numOutcomes)
		}
		outcomes[i] = oid
	}
	return outcomePattern{count, outcomes}, nil
}

// gob: the whole model as one object
type serialization struct {
	Kind               string
	CorrectionConstant float64
	CorrectionParam    float64
	Outcomes           []string
	Predicates         []string
	Contexts           []Context
}

func writeGob(w io.Writer, m *Model) error {
	data := &serialization{
		Kind:               m.kind.String(),
		CorrectionConstant: m.params.CorrectionConstant,
		CorrectionParam:    m.params.CorrectionParam,
		Outcomes:           m.Outcomes(),
		Predicates:         m.Predicates(),
		Contexts:           make([]Context, len(m.params.Params)),
	}
	for i, c := range m.params.Params {
		data.Contexts[i] = *c
	}
	return errors.Wrap(gob.NewEncoder(w).Encode(data), "encoding model")
}

func readGob(r io.Reader) (*Model, error) {
	data := &serialization{}
	if err := gob.NewDecoder(r).Decode(data); err != nil {
		return nil, formatErrorf(Gob, err, "decoding model")
	}
	kind, err := ParseKind(data.Kind)
	if err != nil {
		return nil, formatErrorf(Gob, err, "bad model type")
	}
	contexts := make([]*Context, len(data.Contexts))
	for i := range data.Contexts {
		c := data.Contexts[i]
		if c.Outcomes == nil {
			c.Outcomes = []int{}
		}
		if c.Parameters == nil {
			c.Parameters = []float64{}
		}
		contexts[i] = &c
	}
	m, err := New(kind, contexts, data.Predicates, data.Outcomes, data.CorrectionConstant, data.CorrectionParam)
	if err != nil {
		return nil, formatErrorf(Gob, err, "inconsistent model")
	}
	return m, nil
}
