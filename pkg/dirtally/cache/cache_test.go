package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleReport() *report.Report {
	return &report.Report{
		Source:      "input.txt",
		Options:     report.DefaultOptions(),
		TotalSize:   48381165,
		Directories: 7,
		Files:       10,
		SmallDirectories: []report.Directory{
			{Path: "/a", Name: "a", Size: 94853},
			{Path: "/a/e", Name: "e", Size: 584},
		},
		SmallTotal: 95437,
		Free:       21618835,
		Deficit:    8381165,
		Candidate:  &report.Directory{Path: "/d", Name: "d", Size: 24933642},
	}
}

func TestDigest(t *testing.T) {
	opts := report.DefaultOptions()
	base := Digest("$ ls\n", opts)

	assert.Len(t, base, 64)
	assert.Equal(t, base, Digest("$ ls\n", opts))
	assert.NotEqual(t, base, Digest("$ ls\ndir a\n", opts))

	changed := opts
	changed.Limit++
	assert.NotEqual(t, base, Digest("$ ls\n", changed))

	changed = opts
	changed.Required++
	assert.NotEqual(t, base, Digest("$ ls\n", changed))
}

func TestSaveLookup(t *testing.T) {
	c := openTestCache(t)
	digest := Digest("text", report.DefaultOptions())

	_, err := c.Lookup(digest)
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Save(digest, sampleReport()))

	got, err := c.Lookup(digest)
	require.NoError(t, err)
	assert.Equal(t, int64(48381165), got.TotalSize)
	assert.Equal(t, int64(95437), got.SmallTotal)
	require.NotNil(t, got.Candidate)
	assert.Equal(t, "/d", got.Candidate.Path)
	assert.Len(t, got.SmallDirectories, 2)
	assert.Equal(t, report.DefaultOptions(), got.Options)
}

func TestLookupWithoutCandidate(t *testing.T) {
	c := openTestCache(t)
	r := sampleReport()
	r.Candidate = nil

	require.NoError(t, c.Save("k", r))

	got, err := c.Lookup("k")
	require.NoError(t, err)
	assert.Nil(t, got.Candidate)
}

func TestLookupStaleVersion(t *testing.T) {
	c := openTestCache(t)

	stale := CachedReport{Version: CacheVersion + 1, Report: *sampleReport()}
	require.NoError(t, c.store.Put(reportKey("k"), &stale))

	_, err := c.Lookup("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordAndHistory(t *testing.T) {
	c := openTestCache(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, source := range []string{"first", "second", "third"} {
		_, err := c.Record(Run{Source: source, Time: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := c.History(0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "third", runs[0].Source)
		assert.Equal(t, "second", runs[1].Source)
		assert.Equal(t, "first", runs[2].Source)
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := c.History(2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "third", runs[0].Source)
	})

	t.Run("ids assigned", func(t *testing.T) {
		runs, err := c.History(0)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, r := range runs {
			assert.NotEmpty(t, r.ID)
			assert.False(t, seen[r.ID])
			seen[r.ID] = true
		}
	})
}

func TestRecordFillsTime(t *testing.T) {
	c := openTestCache(t)
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	run, err := c.Record(Run{ID: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "abc", run.ID)
	assert.True(t, run.Time.Equal(fixed))
}

func TestNewRun(t *testing.T) {
	run := NewRun("input.txt", "digest", sampleReport(), true)

	assert.Equal(t, "input.txt", run.Source)
	assert.Equal(t, "digest", run.Digest)
	assert.Equal(t, "/d", run.Candidate)
	assert.Equal(t, int64(24933642), run.CandidateSize)
	assert.True(t, run.Cached)

	r := sampleReport()
	r.Candidate = nil
	assert.Empty(t, NewRun("-", "d", r, false).Candidate)
}

func TestClearAndStats(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Save("one", sampleReport()))
	require.NoError(t, c.Save("two", sampleReport()))
	_, err := c.Record(Run{Source: "x"})
	require.NoError(t, err)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Reports)
	assert.Equal(t, 1, stats.Runs)

	require.NoError(t, c.ClearReports())
	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Reports)
	assert.Equal(t, 1, stats.Runs)

	require.NoError(t, c.Clear())
	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Runs)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Save("k", sampleReport()))
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Lookup("k")
	require.NoError(t, err)
	assert.Equal(t, int64(48381165), got.TotalSize)
}

func TestRunKeyOrdering(t *testing.T) {
	early := runKey(Run{ID: "b", Time: time.Unix(1, 0)})
	late := runKey(Run{ID: "a", Time: time.Unix(100, 0)})

	assert.Less(t, string(early), string(late))
	assert.Equal(t, MakeKeyPrefix(runNamespace), early[:len(runNamespace)+1])
}
