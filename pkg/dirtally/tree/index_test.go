package tree_test

import (
	"testing"

	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	root := parseSample(t)
	idx := tree.NewIndex(root)

	a, ok := tree.FindSubdirectory(root, "a")
	require.True(t, ok)
	e, ok := tree.FindSubdirectory(a, "e")
	require.True(t, ok)
	i := e.Children[0]

	t.Run("paths", func(t *testing.T) {
		assert.Equal(t, "/", idx.Path(root))
		assert.Equal(t, "/a", idx.Path(a))
		assert.Equal(t, "/a/e", idx.Path(e))
		assert.Equal(t, "/a/e/i", idx.Path(i))
	})

	t.Run("parents", func(t *testing.T) {
		parent, ok := idx.Parent(e)
		require.True(t, ok)
		assert.Same(t, a, parent)

		_, ok = idx.Parent(root)
		assert.False(t, ok, "root has no parent")
	})

	t.Run("depths", func(t *testing.T) {
		assert.Equal(t, 0, idx.Depth(root))
		assert.Equal(t, 1, idx.Depth(a))
		assert.Equal(t, 3, idx.Depth(i))
	})

	t.Run("same-named siblings stay distinct", func(t *testing.T) {
		placeholder := root.Children[0]
		require.Equal(t, "a", placeholder.Name)
		require.NotSame(t, placeholder, a)

		assert.True(t, idx.Contains(placeholder))
		assert.Equal(t, "/a", idx.Path(placeholder))
		assert.Equal(t, 1, idx.Depth(placeholder))
	})

	t.Run("foreign entries", func(t *testing.T) {
		stray := tree.NewFile("stray", 1)
		assert.False(t, idx.Contains(stray))
		assert.Equal(t, -1, idx.Depth(stray))
	})

	assert.Same(t, root, idx.Root())
}

func TestIndexPathQuotesSlashNames(t *testing.T) {
	root, err := tree.Parse("$ cd /\n$ cd a\n$ cd /\n$ ls\n1 x\n")
	require.NoError(t, err)
	idx := tree.NewIndex(root)

	a := root.Children[0]
	slash := a.Children[0]
	require.Equal(t, tree.RootName, slash.Name)

	assert.Equal(t, `/a/"/"`, idx.Path(slash))
	assert.Equal(t, `/a/"/"/x`, idx.Path(slash.Children[0]))

	unnamed := tree.NewDir("")
	assert.Equal(t, `/""`, tree.NewIndex(tree.NewDir(tree.RootName, unnamed)).Path(unnamed))
}
