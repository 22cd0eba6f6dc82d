// Package tree builds a directory hierarchy from a replayed transcript and
// answers size queries over it.
//
// Entries own their children exclusively and carry no parent pointers. Use
// an Index when a parent or path lookup is needed.
package tree

// RootName is the name of the implicit root directory.
const RootName = "/"

// Kind distinguishes files from directories.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// Entry is a file or a directory.
type Entry struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`

	// Size is the stored size of a file in bytes. Directories leave it zero;
	// their size is always computed with Size.
	Size int64 `json:"size,omitempty"`

	// Children of a directory, in transcript order.
	Children []*Entry `json:"children,omitempty"`
}

// NewFile returns a file entry.
func NewFile(name string, size int64) *Entry {
	return &Entry{Kind: KindFile, Name: name, Size: size}
}

// NewDir returns a directory entry owning the given children.
func NewDir(name string, children ...*Entry) *Entry {
	return &Entry{Kind: KindDir, Name: name, Children: children}
}

// IsDir reports whether e is a directory.
func (e *Entry) IsDir() bool {
	return e.Kind == KindDir
}

// IsLeaf reports whether e is a file or an empty directory.
func (e *Entry) IsLeaf() bool {
	return !e.IsDir() || len(e.Children) == 0
}

func (e *Entry) add(child *Entry) {
	e.Children = append(e.Children, child)
}
