package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/jamesainslie/dirtally/pkg/dirtally/transcript"
)

var logger = logging.Get("tree")

// Parse classifies and replays a full transcript. A leading "cd /" is
// consumed as the root. A malformed size, or listed sizes whose sum does not
// fit an int64, abort the parse and no tree is returned.
func Parse(text string) (*Entry, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader is Parse over a stream.
func ParseReader(r io.Reader) (*Entry, error) {
	lines, err := transcript.Read(r)
	if err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	return Build(lines)
}

// Build replays classified lines against a fresh root directory.
//
// Listing lines append to the directory currently open. "cd <name>" appends
// a new child directory and descends into it, even when a sibling with the
// same name already exists; "cd .." returns to the parent and is ignored at
// the root. End of input closes every open directory.
//
// Sizes must be non-negative and their sum must fit an int64; otherwise
// Build fails with transcript.ErrMalformedSize or transcript.ErrSizeOverflow
// and returns no tree.
func Build(lines []transcript.Line) (*Entry, error) {
	root := NewDir(RootName)
	b := &builder{lines: lines}
	if err := b.fill(root, 0); err != nil {
		return nil, fmt.Errorf("building tree at entry %d: %w", b.pos, err)
	}

	dirs, files := Count(root)
	logger.Debug("tree built", "lines", len(lines), "dirs", dirs, "files", files,
		"max_depth", b.maxDepth, "total", b.total)
	return root, nil
}

// builder is the parse cursor. The call stack of fill holds the open
// directories; pos and total are shared by every frame.
type builder struct {
	lines    []transcript.Line
	pos      int
	total    int64
	maxDepth int
}

func (b *builder) fill(dir *Entry, depth int) error {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	for b.pos < len(b.lines) {
		line := b.lines[b.pos]
		b.pos++

		switch line.Kind {
		case transcript.KindListedFile:
			if line.Size < 0 {
				return fmt.Errorf("%w: %d", transcript.ErrMalformedSize, line.Size)
			}
			total, err := transcript.AddSize(b.total, line.Size)
			if err != nil {
				return err
			}
			b.total = total
			dir.add(NewFile(line.Name, line.Size))
		case transcript.KindListedDir:
			dir.add(NewDir(line.Name))
		case transcript.KindEnter:
			child := NewDir(line.Name)
			dir.add(child)
			if err := b.fill(child, depth+1); err != nil {
				return err
			}
		case transcript.KindLeave:
			if depth == 0 {
				continue
			}
			return nil
		}
	}
	return nil
}
