package tree_test

import (
	"bytes"
	"testing"

	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTree(t *testing.T) *tree.Entry {
	t.Helper()
	root, err := tree.Parse("$ cd /\n$ ls\ndir a\n5 x\n$ cd a\n$ ls\n3 y\n")
	require.NoError(t, err)
	return root
}

func TestRender(t *testing.T) {
	t.Run("draws every entry", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, tree.Render(&buf, smallTree(t), tree.RenderOptions{}))

		want := "/ (dir, 8)\n" +
			"├── a (dir, 0)\n" +
			"├── x (file, 5)\n" +
			"└── a (dir, 3)\n" +
			"    └── y (file, 3)\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("directories only", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, tree.Render(&buf, smallTree(t), tree.RenderOptions{DirsOnly: true}))

		want := "/ (dir, 8)\n" +
			"├── a (dir, 0)\n" +
			"└── a (dir, 3)\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("max depth", func(t *testing.T) {
		var buf bytes.Buffer
		root := parseSample(t)

		require.NoError(t, tree.Render(&buf, root, tree.RenderOptions{MaxDepth: 1}))

		assert.NotContains(t, buf.String(), "h.lst")
		assert.Contains(t, buf.String(), "b.txt")
	})

	t.Run("nested pipes", func(t *testing.T) {
		var buf bytes.Buffer
		root := tree.NewDir("/",
			tree.NewDir("a", tree.NewFile("f", 1)),
			tree.NewFile("g", 2),
		)

		require.NoError(t, tree.Render(&buf, root, tree.RenderOptions{}))

		want := "/ (dir, 3)\n" +
			"├── a (dir, 1)\n" +
			"│   └── f (file, 1)\n" +
			"└── g (file, 2)\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("human sizes", func(t *testing.T) {
		var buf bytes.Buffer
		root := tree.NewDir("/", tree.NewFile("big", 2048))

		require.NoError(t, tree.Render(&buf, root, tree.RenderOptions{HumanSizes: true}))

		assert.Contains(t, buf.String(), "big (file, 2.0 KiB)")
	})
}
