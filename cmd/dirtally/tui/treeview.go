package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
)

// Tree view icons using Unicode symbols.
const (
	iconExpanded  = "▼" // Black down-pointing triangle
	iconCollapsed = "▶" // Black right-pointing triangle
	iconFile      = "•" // Bullet
	iconEmpty     = "◦" // White bullet, a directory with nothing inside
)

// TreeView displays a transcript tree with expand/collapse and scrolling.
// Expansion state is kept here, keyed by entry identity, so the tree itself
// is never modified.
type TreeView struct {
	root      *tree.Entry
	index     *tree.Index
	sizes     map[*tree.Entry]int64
	expanded  map[*tree.Entry]bool
	flat      []*tree.Entry // Visible entries in display order
	cursor    int
	offset    int
	limit     int64
	candidate *tree.Entry
}

// NewTreeView creates a TreeView with the root expanded. Directories below
// limit are highlighted as small; candidate, if any, as the deletion
// candidate.
func NewTreeView(root *tree.Entry, limit int64, candidate *tree.Entry) *TreeView {
	tv := &TreeView{
		root:      root,
		index:     tree.NewIndex(root),
		sizes:     make(map[*tree.Entry]int64),
		expanded:  make(map[*tree.Entry]bool),
		limit:     limit,
		candidate: candidate,
	}
	if root != nil {
		tv.expanded[root] = true
		tree.Walk(root, func(e *tree.Entry, _ int) bool {
			tv.sizes[e] = tree.Size(e)
			return true
		})
	}
	tv.refresh()
	return tv
}

// refresh rebuilds the flat list from the current expansion state.
func (tv *TreeView) refresh() {
	tv.flat = tv.flat[:0]
	if tv.root == nil {
		return
	}
	tree.Walk(tv.root, func(e *tree.Entry, _ int) bool {
		tv.flat = append(tv.flat, e)
		return e.IsDir() && tv.expanded[e]
	})

	if tv.cursor >= len(tv.flat) {
		tv.cursor = len(tv.flat) - 1
	}
	if tv.cursor < 0 {
		tv.cursor = 0
	}
}

// Len returns the number of visible rows.
func (tv *TreeView) Len() int {
	return len(tv.flat)
}

// Cursor returns the cursor row.
func (tv *TreeView) Cursor() int {
	return tv.cursor
}

// Selected returns the entry under the cursor.
func (tv *TreeView) Selected() *tree.Entry {
	if len(tv.flat) == 0 || tv.cursor < 0 || tv.cursor >= len(tv.flat) {
		return nil
	}
	return tv.flat[tv.cursor]
}

// SelectedPath returns the slash path of the entry under the cursor.
func (tv *TreeView) SelectedPath() string {
	e := tv.Selected()
	if e == nil {
		return ""
	}
	return tv.index.Path(e)
}

// SizeOf returns the rolled-up size of e as computed when the view was built.
func (tv *TreeView) SizeOf(e *tree.Entry) int64 {
	return tv.sizes[e]
}

// IsExpanded reports whether the directory e shows its children.
func (tv *TreeView) IsExpanded(e *tree.Entry) bool {
	return tv.expanded[e]
}

// MoveUp moves the cursor up one position.
func (tv *TreeView) MoveUp() {
	if tv.cursor > 0 {
		tv.cursor--
	}
}

// MoveDown moves the cursor down one position.
func (tv *TreeView) MoveDown() {
	if tv.cursor < len(tv.flat)-1 {
		tv.cursor++
	}
}

// Top moves the cursor to the first row.
func (tv *TreeView) Top() {
	tv.cursor = 0
}

// Bottom moves the cursor to the last row.
func (tv *TreeView) Bottom() {
	if len(tv.flat) > 0 {
		tv.cursor = len(tv.flat) - 1
	}
}

// Expand opens the directory under the cursor. Empty directories have
// nothing to open.
func (tv *TreeView) Expand() {
	e := tv.Selected()
	if e == nil || e.IsLeaf() {
		return
	}
	tv.expanded[e] = true
	tv.refresh()
}

// Collapse closes the directory under the cursor. On a file or an already
// collapsed directory the cursor moves to the parent instead.
func (tv *TreeView) Collapse() {
	e := tv.Selected()
	if e == nil {
		return
	}
	if e.IsDir() && tv.expanded[e] {
		delete(tv.expanded, e)
		tv.refresh()
		return
	}
	if parent, ok := tv.index.Parent(e); ok {
		tv.moveTo(parent)
	}
}

// Toggle expands or collapses the directory under the cursor.
func (tv *TreeView) Toggle() {
	e := tv.Selected()
	if e == nil || e.IsLeaf() {
		return
	}
	if tv.expanded[e] {
		delete(tv.expanded, e)
	} else {
		tv.expanded[e] = true
	}
	tv.refresh()
}

// ExpandAll opens every directory.
func (tv *TreeView) ExpandAll() {
	for _, d := range tree.Directories(tv.root) {
		tv.expanded[d] = true
	}
	tv.refresh()
}

// CollapseAll closes everything but the root and moves to the top.
func (tv *TreeView) CollapseAll() {
	tv.expanded = map[*tree.Entry]bool{tv.root: true}
	tv.cursor = 0
	tv.refresh()
}

// JumpToCandidate reveals the deletion candidate and moves the cursor onto
// it. It reports false when there is no candidate or the candidate does not
// belong to the viewed tree.
func (tv *TreeView) JumpToCandidate() bool {
	if tv.candidate == nil || !tv.index.Contains(tv.candidate) {
		return false
	}
	for p, ok := tv.index.Parent(tv.candidate); ok; p, ok = tv.index.Parent(p) {
		tv.expanded[p] = true
	}
	tv.refresh()
	tv.moveTo(tv.candidate)
	return true
}

func (tv *TreeView) moveTo(e *tree.Entry) {
	for i, f := range tv.flat {
		if f == e {
			tv.cursor = i
			return
		}
	}
}

// View renders the tree view within the given dimensions.
func (tv *TreeView) View(width, height int) string {
	if len(tv.flat) == 0 {
		return center(mutedTextStyle.Render("Empty transcript"), width) + "\n"
	}

	visibleRows := height
	if visibleRows < 1 {
		visibleRows = 1
	}
	tv.ensureVisible(visibleRows)

	var b strings.Builder
	for i := tv.offset; i < tv.offset+visibleRows && i < len(tv.flat); i++ {
		b.WriteString(tv.renderEntry(tv.flat[i], width, i == tv.cursor))
		b.WriteString("\n")
	}
	for i := len(tv.flat) - tv.offset; i < visibleRows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// ensureVisible adjusts offset to keep the cursor on screen.
func (tv *TreeView) ensureVisible(visible int) {
	if tv.cursor < tv.offset {
		tv.offset = tv.cursor
	} else if tv.cursor >= tv.offset+visible {
		tv.offset = tv.cursor - visible + 1
	}
	if tv.offset < 0 {
		tv.offset = 0
	}
}

func (tv *TreeView) renderEntry(e *tree.Entry, width int, isCursor bool) string {
	var content strings.Builder
	content.WriteString(strings.Repeat("  ", tv.index.Depth(e)))

	switch {
	case !e.IsDir():
		content.WriteString(iconFile)
	case e.IsLeaf():
		content.WriteString(iconEmpty)
	case tv.expanded[e]:
		content.WriteString(iconExpanded)
	default:
		content.WriteString(iconCollapsed)
	}
	content.WriteString(" ")
	content.WriteString(e.Name)

	size := tv.sizes[e]
	sizeStr := humanize.IBytes(uint64(size))
	if e.IsDir() {
		sizeStr = fmt.Sprintf("%s (%s)", sizeStr, humanize.Comma(size))
	}

	contentLen := lipgloss.Width(content.String())
	padding := width - contentLen - lipgloss.Width(sizeStr) - 1
	if padding < 1 {
		padding = 1
	}
	gap := strings.Repeat(" ", padding)

	if isCursor {
		return treeRowHighlightStyle.Width(width).Render(content.String() + gap + sizeStr)
	}

	name := content.String()
	switch {
	case e == tv.candidate:
		name = candidateStyle.Render(name)
	case e.IsDir() && size < tv.limit:
		name = smallStyle.Render(name)
	}
	return treeRowNormalStyle.Width(width).Render(name + gap + sizeStyle.Render(sizeStr))
}
