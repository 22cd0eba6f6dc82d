// Package cache persists analysis reports and the history of runs in a
// Badger database, so re-analysing an unchanged transcript skips parsing.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// Cache provides report lookups and run history on top of a Store.
type Cache struct {
	store *Store
	now   func() time.Time
}

// Stats summarises the cache contents.
type Stats struct {
	Reports  int
	Runs     int
	LSMSize  int64
	VlogSize int64
}

// Open opens or creates a cache at the given path.
func Open(path string) (*Cache, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", path, err)
	}
	return &Cache{store: store, now: time.Now}, nil
}

// OpenInMemory returns a cache that is discarded on Close.
func OpenInMemory() (*Cache, error) {
	store, err := OpenMemoryStore()
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, now: time.Now}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Lookup returns the report cached under digest. Entries written by a
// different CacheVersion are reported as ErrNotFound.
func (c *Cache) Lookup(digest string) (*report.Report, error) {
	var cached CachedReport
	if err := c.store.Get(reportKey(digest), &cached); err != nil {
		return nil, err
	}
	if cached.Version != CacheVersion {
		logging.Get("cache").Debug("discarding stale report", "digest", digest, "version", cached.Version)
		return nil, ErrNotFound
	}
	return &cached.Report, nil
}

// Save stores r under digest.
func (c *Cache) Save(digest string, r *report.Report) error {
	cached := CachedReport{
		Version:   CacheVersion,
		CreatedAt: c.now(),
		Report:    *r,
	}
	if err := c.store.Put(reportKey(digest), &cached); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// Record appends a run to the history. A missing ID or Time is filled in;
// the stored run is returned.
func (c *Cache) Record(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Time.IsZero() {
		run.Time = c.now()
	}
	if err := c.store.Put(runKey(run), &run); err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// History returns up to limit runs, newest first. A limit <= 0 returns all.
func (c *Cache) History(limit int) ([]Run, error) {
	var runs []Run
	err := c.store.Scan(MakeKeyPrefix(runNamespace), true, func(_, value []byte) (bool, error) {
		var run Run
		if err := decode(value, &run); err != nil {
			return false, err
		}
		runs = append(runs, run)
		return limit <= 0 || len(runs) < limit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return runs, nil
}

// ClearReports removes cached reports but keeps the history.
func (c *Cache) ClearReports() error {
	return c.store.DeletePrefix(MakeKeyPrefix(reportNamespace))
}

// Clear removes every report and run.
func (c *Cache) Clear() error {
	return c.store.DropAll()
}

// Stats counts reports and runs and reports the database size.
func (c *Cache) Stats() (Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.Reports, err = c.store.Count(MakeKeyPrefix(reportNamespace)); err != nil {
		return Stats{}, err
	}
	if s.Runs, err = c.store.Count(MakeKeyPrefix(runNamespace)); err != nil {
		return Stats{}, err
	}
	s.LSMSize, s.VlogSize = c.store.Size()
	return s, nil
}

// IsNotFound reports whether err is a cache miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NewRun describes an analysis of the transcript identified by digest.
func NewRun(source, digest string, r *report.Report, cached bool) Run {
	run := Run{
		Source:     source,
		Digest:     digest,
		TotalSize:  r.TotalSize,
		SmallTotal: r.SmallTotal,
		Deficit:    r.Deficit,
		Cached:     cached,
	}
	if r.Candidate != nil {
		run.Candidate = r.Candidate.Path
		run.CandidateSize = r.Candidate.Size
	}
	return run
}
