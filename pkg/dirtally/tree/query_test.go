package tree_test

import (
	"errors"
	"testing"

	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizes(entries []*tree.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = tree.Size(e)
	}
	return out
}

func TestSize(t *testing.T) {
	t.Run("root equals the sum of every file", func(t *testing.T) {
		root := parseSample(t)

		var total int64
		for _, f := range tree.Files(root) {
			total += f.Size
		}
		assert.Equal(t, total, tree.Size(root))
	})

	t.Run("each file counts once in its parent", func(t *testing.T) {
		root := parseSample(t)

		for _, d := range tree.Directories(root) {
			var direct, nested int64
			for _, c := range d.Children {
				if c.IsDir() {
					nested += tree.Size(c)
				} else {
					direct += c.Size
				}
			}
			assert.Equal(t, direct+nested, tree.Size(d), "directory %s", d.Name)
		}
	})

	t.Run("file size is stored size", func(t *testing.T) {
		assert.Equal(t, int64(42), tree.Size(tree.NewFile("f", 42)))
	})
}

func TestDirectories(t *testing.T) {
	root := parseSample(t)

	dirs := tree.Directories(root)

	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"/", "a", "d", "a", "e", "e", "d"}, names)
	assert.Same(t, root, dirs[0])

	again := tree.Directories(root)
	assert.Equal(t, sizes(dirs), sizes(again), "queries must not mutate the tree")
}

func TestCountAndFiles(t *testing.T) {
	root := parseSample(t)

	dirs, files := tree.Count(root)

	assert.Equal(t, 7, dirs)
	assert.Equal(t, 10, files)
	assert.Len(t, tree.Files(root), 10)
}

func TestSmallDirectoriesTotal(t *testing.T) {
	root := parseSample(t)

	assert.Equal(t, int64(95437), tree.SmallDirectoriesTotal(root, 100000))
	assert.Equal(t, int64(0), tree.SmallDirectoriesTotal(root, 0))

	t.Run("nested small directories count under a large parent", func(t *testing.T) {
		big := tree.NewDir("big",
			tree.NewFile("blob", 500),
			tree.NewDir("s1", tree.NewFile("x", 10)),
			tree.NewDir("s2", tree.NewFile("y", 20)),
		)
		r := tree.NewDir("/", big)

		assert.Equal(t, int64(30), tree.SmallDirectoriesTotal(r, 100))
		assert.Len(t, tree.SmallDirectories(r, 100), 2)
	})

	t.Run("limit is exclusive", func(t *testing.T) {
		r := tree.NewDir("/", tree.NewDir("a", tree.NewFile("f", 100)))
		assert.Equal(t, int64(0), tree.SmallDirectoriesTotal(r, 100))
		assert.Equal(t, int64(200), tree.SmallDirectoriesTotal(r, 101))
	})
}

func TestSmallestAtLeast(t *testing.T) {
	t.Run("finds the deletion candidate", func(t *testing.T) {
		root := parseSample(t)
		required := int64(30000000) - (70000000 - tree.Size(root))
		require.Equal(t, int64(8381165), required)

		dir, size, err := tree.SmallestAtLeast(root, required)

		require.NoError(t, err)
		assert.Equal(t, "d", dir.Name)
		assert.Equal(t, int64(24933642), size)
	})

	t.Run("root qualifies for its own size", func(t *testing.T) {
		root := parseSample(t)

		dir, size, err := tree.SmallestAtLeast(root, tree.Size(root))

		require.NoError(t, err)
		assert.Same(t, root, dir)
		assert.Equal(t, tree.Size(root), size)
	})

	t.Run("ties go to pre-order position", func(t *testing.T) {
		first := tree.NewDir("first", tree.NewFile("x", 50))
		second := tree.NewDir("second", tree.NewFile("y", 50))
		r := tree.NewDir("/", first, second)

		dir, _, err := tree.SmallestAtLeast(r, 40)

		require.NoError(t, err)
		assert.Same(t, first, dir)
	})

	t.Run("unsatisfiable requirement is an error", func(t *testing.T) {
		root := parseSample(t)

		dir, _, err := tree.SmallestAtLeast(root, tree.Size(root)+1)

		require.Error(t, err)
		assert.Nil(t, dir)
		assert.True(t, errors.Is(err, tree.ErrThresholdUnsatisfiable))
	})

	t.Run("zero requirement picks the smallest directory", func(t *testing.T) {
		root := parseSample(t)

		dir, size, err := tree.SmallestAtLeast(root, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(0), size)
		assert.Equal(t, "a", dir.Name, "the first empty placeholder wins")
	})
}

func TestWalkSkipsChildren(t *testing.T) {
	root := parseSample(t)

	var visited []string
	tree.Walk(root, func(e *tree.Entry, depth int) bool {
		visited = append(visited, e.Name)
		return depth == 0
	})

	assert.Equal(t, []string{"/", "a", "b.txt", "c.dat", "d", "a", "d"}, visited)
}
