package tree

import (
	"strconv"
	"strings"
)

// Index maps every entry of a tree to its parent. Entries are keyed by
// identity, so same-named siblings stay distinct.
type Index struct {
	root    *Entry
	parents map[*Entry]*Entry
	depths  map[*Entry]int
}

// NewIndex indexes the tree under root.
func NewIndex(root *Entry) *Index {
	x := &Index{
		root:    root,
		parents: make(map[*Entry]*Entry),
		depths:  make(map[*Entry]int),
	}
	if root == nil {
		return x
	}
	x.depths[root] = 0
	Walk(root, func(e *Entry, depth int) bool {
		x.depths[e] = depth
		for _, child := range e.Children {
			x.parents[child] = e
		}
		return true
	})
	return x
}

// Root returns the indexed root.
func (x *Index) Root() *Entry {
	return x.root
}

// Parent returns the parent of e. The root and entries outside the tree
// have none.
func (x *Index) Parent(e *Entry) (*Entry, bool) {
	p, ok := x.parents[e]
	return p, ok
}

// Contains reports whether e belongs to the indexed tree.
func (x *Index) Contains(e *Entry) bool {
	_, ok := x.depths[e]
	return ok
}

// Depth returns the distance from the root (root = 0), or -1 for entries
// outside the tree.
func (x *Index) Depth(e *Entry) int {
	d, ok := x.depths[e]
	if !ok {
		return -1
	}
	return d
}

// Path returns the slash-separated path of e from the root, e.g. "/a/e".
// A name that is empty or contains a slash, such as a directory entered with
// a literal "cd /" mid-transcript, is quoted: "/a/\"/\"".
func (x *Index) Path(e *Entry) string {
	if e == x.root {
		return RootName
	}

	var names []string
	for cur := e; cur != nil && cur != x.root; {
		names = append(names, pathComponent(cur.Name))
		parent, ok := x.parents[cur]
		if !ok {
			break
		}
		cur = parent
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return RootName + strings.Join(names, "/")
}

func pathComponent(name string) string {
	if name == "" || strings.Contains(name, RootName) {
		return strconv.Quote(name)
	}
	return name
}
