package transcript

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
)

// maxLineSize bounds a single transcript line.
const maxLineSize = 1024 * 1024

// SyntaxError records the transcript line a classification failed on.
type SyntaxError struct {
	// Line is the 1-based line number in the input.
	Line int
	// Text is the trimmed line content.
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Scanner reads classified lines from a transcript stream. It applies the
// same preparation as Lines and SkipHeader: blank lines are skipped and the
// root header is dropped when it is the first line. The running total of
// listed sizes is checked so that no directory rollup can overflow.
type Scanner struct {
	sc      *bufio.Scanner
	line    Line
	lineNum int
	seen    int
	unknown int
	total   int64
	err     error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Scanner{sc: sc}
}

// Scan advances to the next classified line. It returns false at the end of
// input or on the first error; Err reports which.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	for s.sc.Scan() {
		s.lineNum++
		text, ok := clean(s.sc.Text())
		if !ok {
			continue
		}

		header := isHeader(s.seen, text)
		s.seen++
		if header {
			continue
		}

		line, err := Classify(text)
		if err == nil && line.Kind == KindListedFile {
			s.total, err = AddSize(s.total, line.Size)
		}
		if err != nil {
			s.err = &SyntaxError{Line: s.lineNum, Text: text, Err: err}
			return false
		}
		if line.Kind == KindUnknown {
			s.unknown++
		}
		s.line = line
		return true
	}

	if err := s.sc.Err(); err != nil {
		s.err = fmt.Errorf("reading transcript: %w", err)
	}
	return false
}

// Line returns the most recent line produced by Scan.
func (s *Scanner) Line() Line {
	return s.line
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Unknown returns how many informational lines have been seen so far.
func (s *Scanner) Unknown() int {
	return s.unknown
}

// Total returns the sum of the file sizes listed so far.
func (s *Scanner) Total() int64 {
	return s.total
}

// Read classifies a whole transcript. It stops at the first malformed line
// and returns no lines in that case.
func Read(r io.Reader) ([]Line, error) {
	s := NewScanner(r)

	var lines []Line
	for s.Scan() {
		lines = append(lines, s.Line())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	logging.Get("transcript").Debug("transcript classified",
		"lines", len(lines), "informational", s.Unknown(), "total", s.Total())
	return lines, nil
}
