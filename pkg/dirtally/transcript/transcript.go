// Package transcript classifies the lines of a shell session log made of
// cd/ls commands and the directory listings they print.
//
// A transcript looks like this:
//
//	$ cd /
//	$ ls
//	dir a
//	14848514 b.txt
//	$ cd a
//	$ ls
//	29116 f
//	$ cd ..
//
// Each trimmed, non-empty line classifies into exactly one Kind. The prompt
// marker ("$ ") in front of commands is optional.
package transcript

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a transcript line means for tree construction.
type Kind uint8

const (
	// KindUnknown is any line that carries no structural information,
	// including the bare ls command.
	KindUnknown Kind = iota

	// KindEnter is "cd <name>" for any name other than "..".
	KindEnter

	// KindLeave is "cd ..".
	KindLeave

	// KindListedDir is a listing entry of the form "dir <name>".
	KindListedDir

	// KindListedFile is a listing entry of the form "<size> <name>".
	KindListedFile
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEnter:
		return "enter"
	case KindLeave:
		return "leave"
	case KindListedDir:
		return "dir"
	case KindListedFile:
		return "file"
	default:
		return "unknown"
	}
}

// Line is a classified transcript line.
type Line struct {
	Kind Kind
	// Name is set for KindEnter, KindListedDir and KindListedFile.
	Name string
	// Size is set for KindListedFile.
	Size int64
}

// Commands and listing markers.
const (
	Prompt    = "$"
	CmdCd     = "cd"
	CmdLs     = "ls"
	DirMarker = "dir"
	ParentDir = ".."
	RootDir   = "/"
)

// ErrMalformedSize is returned when a listing line has the shape
// "<digits> <name>" but the digits do not fit a non-negative int64.
var ErrMalformedSize = errors.New("malformed size")

// ErrSizeOverflow is returned when the listed file sizes add up to more
// than an int64 can hold. Every directory rollup is bounded by that sum.
var ErrSizeOverflow = errors.New("total size overflows int64")

// AddSize returns total+size, or ErrSizeOverflow when the sum does not fit.
// Both operands must be non-negative.
func AddSize(total, size int64) (int64, error) {
	if size > math.MaxInt64-total {
		return total, fmt.Errorf("%w: %d + %d", ErrSizeOverflow, total, size)
	}
	return total + size, nil
}

// Enter returns a KindEnter line.
func Enter(name string) Line { return Line{Kind: KindEnter, Name: name} }

// Leave returns a KindLeave line.
func Leave() Line { return Line{Kind: KindLeave} }

// ListedDir returns a KindListedDir line.
func ListedDir(name string) Line { return Line{Kind: KindListedDir, Name: name} }

// ListedFile returns a KindListedFile line.
func ListedFile(name string, size int64) Line {
	return Line{Kind: KindListedFile, Name: name, Size: size}
}

// Classify classifies a single trimmed line. It has no side effects.
//
// The only failure is ErrMalformedSize. An empty line classifies as
// KindUnknown.
func Classify(line string) (Line, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Line{}, nil
	}

	command := fields[0] == Prompt
	if command {
		fields = fields[1:]
	}

	if len(fields) == 2 && fields[0] == CmdCd {
		if fields[1] == ParentDir {
			return Leave(), nil
		}
		return Enter(fields[1]), nil
	}

	// Everything else behind a prompt (ls, unknown commands) is informational.
	if command || len(fields) != 2 {
		return Line{}, nil
	}

	if fields[0] == DirMarker {
		return ListedDir(fields[1]), nil
	}

	if isDigits(fields[0]) {
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return Line{}, fmt.Errorf("%w: %q", ErrMalformedSize, fields[0])
		}
		return ListedFile(fields[1], size), nil
	}

	return Line{}, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsRootHeader reports whether line is the "cd /" command that opens
// every transcript.
func IsRootHeader(line string) bool {
	l, err := Classify(line)
	return err == nil && l.Kind == KindEnter && l.Name == RootDir
}

// Lines splits text on newlines, trims every line and drops empty ones.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l, ok := clean(l); ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// SkipHeader drops the leading "cd /" line, since the root directory is
// created implicitly. Other first lines are kept.
func SkipHeader(lines []string) []string {
	if len(lines) > 0 && isHeader(0, lines[0]) {
		return lines[1:]
	}
	return lines
}

// clean trims raw and reports whether anything is left.
func clean(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	return line, line != ""
}

// isHeader reports whether line, the n-th non-empty line counting from
// zero, is the root header.
func isHeader(n int, line string) bool {
	return n == 0 && IsRootHeader(line)
}
