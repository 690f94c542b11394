package parse

import (
	"bufio"
	"io"

	"github.com/jf-tech/go-corelib/ios"
)

// LineCursor reads an input stream one physical line at a time with a single
// line of lookahead. Trailing '\n'/'\r\n' are stripped; a final line without a
// newline is still returned. Empty lines are returned as empty strings, never
// skipped: molblocks carry significant blank lines.
type LineCursor struct {
	r       *bufio.Reader
	line    int // number of the last line returned by Next, 1-based.
	pending *string
	err     error
}

func NewLineCursor(r io.Reader) *LineCursor {
	return &LineCursor{r: bufio.NewReader(r)}
}

func (c *LineCursor) read() (string, error) {
	b, err := ios.ByteReadLine(c.r)
	if err != nil {
		return "", err
	}
	// ByteReadLine's slice aliases the bufio buffer; copy before the next read.
	return string(b), nil
}

// Next advances the cursor and returns the next line, or io.EOF.
func (c *LineCursor) Next() (string, error) {
	if c.pending != nil {
		line := *c.pending
		c.pending = nil
		c.line++
		return line, nil
	}
	if c.err != nil {
		return "", c.err
	}
	line, err := c.read()
	if err != nil {
		c.err = err
		return "", err
	}
	c.line++
	return line, nil
}

// Peek returns the next line without advancing the cursor.
func (c *LineCursor) Peek() (string, error) {
	if c.pending != nil {
		return *c.pending, nil
	}
	if c.err != nil {
		return "", c.err
	}
	line, err := c.read()
	if err != nil {
		c.err = err
		return "", err
	}
	c.pending = &line
	return line, nil
}

// Line returns the 1-based number of the line most recently returned by Next,
// or 0 if Next has not been called.
func (c *LineCursor) Line() int { return c.line }
