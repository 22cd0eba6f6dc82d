package tree

import (
	"errors"
	"fmt"
)

// ErrThresholdUnsatisfiable is returned by SmallestAtLeast when no
// directory is large enough.
var ErrThresholdUnsatisfiable = errors.New("no directory satisfies the requirement")

// Size returns the stored size of a file, or the recursive sum of every
// file underneath a directory. Directory sizes are recomputed on each call.
func Size(e *Entry) int64 {
	if !e.IsDir() {
		return e.Size
	}
	var total int64
	for _, child := range e.Children {
		total += Size(child)
	}
	return total
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the visited entry.
func Walk(e *Entry, fn func(e *Entry, depth int) bool) {
	walk(e, 0, fn)
}

func walk(e *Entry, depth int, fn func(*Entry, int) bool) {
	if !fn(e, depth) || !e.IsDir() {
		return
	}
	for _, child := range e.Children {
		walk(child, depth+1, fn)
	}
}

// Directories returns every directory in the tree, root included, in
// pre-order.
func Directories(root *Entry) []*Entry {
	var dirs []*Entry
	Walk(root, func(e *Entry, _ int) bool {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
		return true
	})
	return dirs
}

// Files returns every file in the tree in pre-order.
func Files(root *Entry) []*Entry {
	var files []*Entry
	Walk(root, func(e *Entry, _ int) bool {
		if !e.IsDir() {
			files = append(files, e)
		}
		return true
	})
	return files
}

// Count returns the number of directories (root included) and files.
func Count(root *Entry) (dirs, files int) {
	Walk(root, func(e *Entry, _ int) bool {
		if e.IsDir() {
			dirs++
		} else {
			files++
		}
		return true
	})
	return dirs, files
}

// FindSubdirectory returns the immediate child directory of dir with the
// given name. When the transcript produced several same-named siblings
// (a listing placeholder, repeated visits) the last one appended wins.
func FindSubdirectory(dir *Entry, name string) (*Entry, bool) {
	for i := len(dir.Children) - 1; i >= 0; i-- {
		child := dir.Children[i]
		if child.IsDir() && child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// SmallDirectories returns, in pre-order, every directory whose size is
// strictly below limit. Each directory is judged on its own, so small
// directories nested in a large one are still included.
func SmallDirectories(root *Entry, limit int64) []*Entry {
	var small []*Entry
	for _, d := range Directories(root) {
		if Size(d) < limit {
			small = append(small, d)
		}
	}
	return small
}

// SmallDirectoriesTotal sums the sizes of SmallDirectories.
func SmallDirectoriesTotal(root *Entry, limit int64) int64 {
	var total int64
	for _, d := range SmallDirectories(root, limit) {
		total += Size(d)
	}
	return total
}

// SmallestAtLeast returns the smallest directory whose size is at least
// required, together with that size. Ties go to the directory that comes
// first in pre-order. The root always qualifies when required <= Size(root).
func SmallestAtLeast(root *Entry, required int64) (*Entry, int64, error) {
	var best *Entry
	var bestSize int64
	for _, d := range Directories(root) {
		size := Size(d)
		if size < required {
			continue
		}
		if best == nil || size < bestSize {
			best, bestSize = d, size
		}
	}
	if best == nil {
		return nil, 0, fmt.Errorf("%w: need %d bytes, largest directory has %d",
			ErrThresholdUnsatisfiable, required, Size(root))
	}
	return best, bestSize, nil
}
