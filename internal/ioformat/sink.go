package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/DSI-Lab1/USRule/internal/rule"
	"github.com/DSI-Lab1/USRule/internal/sequence"
)

// FileSink writes every emitted rule to an io.Writer in the format:
//
//	item,item,...	==> 	item,item,...	#SUP: <int>	#CONF: <real>	#UTIL: <real>
//
// one rule per line, tab-separated fields. Buffered, and must be Close()d to
// flush and report any write error.
type FileSink struct {
	w   *bufio.Writer
	err error
}

// NewFileSink wraps w in a buffered FileSink.
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{w: bufio.NewWriter(w)}
}

// Emit writes one rule line. Once a write fails, every subsequent Emit is a
// no-op that returns the same error.
func (s *FileSink) Emit(r rule.Rule) error {
	if s.err != nil {
		return s.err
	}
	line := fmt.Sprintf("%s\t==> \t%s\t#SUP: %d\t#CONF: %g\t#UTIL: %g\n",
		joinItems(r.Antecedent), joinItems(r.Consequent), int(r.Support), r.Confidence, r.Utility)
	if _, err := s.w.WriteString(line); err != nil {
		s.err = errors.Wrap(err, "ioformat: writing rule")
		return s.err
	}
	return nil
}

// Close flushes the buffer.
func (s *FileSink) Close() error {
	if s.err != nil {
		return s.err
	}
	return errors.Wrap(s.w.Flush(), "ioformat: flushing rule output")
}

func joinItems(items []sequence.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%d", it)
	}
	return strings.Join(parts, ",")
}
