package conf

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Conf holds the non-empty, non-comment lines of a line oriented
// configuration file (label lists, tag dictionaries).
type Conf struct {
	Values []string
}

func Read(reader io.Reader) (*Conf, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	retval := make([]string, 0, 64)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) > 0 && line[0] != '#' {
			retval = append(retval, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	return &Conf{retval}, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "file %s", filename)
	}
	return c, nil
}

// Fields splits every value on whitespace.
func (c *Conf) Fields() [][]string {
	retval := make([][]string, len(c.Values))
	for i, line := range c.Values {
		retval[i] = strings.Fields(line)
	}
	return retval
}
