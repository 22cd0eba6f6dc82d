// Package report runs the standard size analysis over a transcript tree:
// total usage, the directories under a size limit, and the smallest
// directory whose deletion frees enough space on a device.
package report

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
)

// Defaults for the reference device.
const (
	DefaultLimit    int64 = 100000
	DefaultCapacity int64 = 70000000
	DefaultRequired int64 = 30000000
)

// ErrInvalidOptions is returned for negative limits or capacities.
var ErrInvalidOptions = errors.New("invalid report options")

// Options parameterise an analysis.
type Options struct {
	// Limit is the exclusive upper bound for "small" directories.
	Limit int64 `json:"limit" yaml:"limit"`

	// Capacity is the total size of the device.
	Capacity int64 `json:"capacity" yaml:"capacity"`

	// Required is the free space the device must end up with.
	Required int64 `json:"required" yaml:"required"`
}

// DefaultOptions returns the reference limit, capacity and requirement.
func DefaultOptions() Options {
	return Options{
		Limit:    DefaultLimit,
		Capacity: DefaultCapacity,
		Required: DefaultRequired,
	}
}

// Validate checks that every option is non-negative.
func (o Options) Validate() error {
	switch {
	case o.Limit < 0:
		return fmt.Errorf("%w: limit %d is negative", ErrInvalidOptions, o.Limit)
	case o.Capacity < 0:
		return fmt.Errorf("%w: capacity %d is negative", ErrInvalidOptions, o.Capacity)
	case o.Required < 0:
		return fmt.Errorf("%w: required %d is negative", ErrInvalidOptions, o.Required)
	}
	return nil
}

// Deficit returns how much must be freed on a device holding used bytes.
// Zero or less means the requirement is already met.
func (o Options) Deficit(used int64) int64 {
	return o.Required - (o.Capacity - used)
}

// Directory describes one directory of the tree.
type Directory struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

// Report is the result of Analyze.
type Report struct {
	// Source names the transcript, e.g. a file path or "-" for stdin.
	Source string `json:"source" yaml:"source"`

	Options Options `json:"options" yaml:"options"`

	TotalSize   int64 `json:"total_size" yaml:"total_size"`
	Directories int   `json:"directories" yaml:"directories"`
	Files       int   `json:"files" yaml:"files"`

	// SmallDirectories are the directories below Options.Limit in pre-order.
	SmallDirectories []Directory `json:"small_directories" yaml:"small_directories"`
	SmallTotal       int64       `json:"small_total" yaml:"small_total"`

	Free    int64 `json:"free" yaml:"free"`
	Deficit int64 `json:"deficit" yaml:"deficit"`

	// Candidate is the smallest directory freeing at least Deficit bytes.
	// It is nil when Deficit <= 0.
	Candidate *Directory `json:"candidate,omitempty" yaml:"candidate,omitempty"`

	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// NeedsDeletion reports whether the device is short of free space.
func (r *Report) NeedsDeletion() bool {
	return r.Deficit > 0
}

// Analyze runs every query against the tree under root. The small-directory
// scan and the candidate search are independent and run concurrently; the
// tree is never modified.
func Analyze(root *tree.Entry, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	idx := tree.NewIndex(root)
	total := tree.Size(root)
	dirs, files := tree.Count(root)

	r := &Report{
		Options:     opts,
		TotalSize:   total,
		Directories: dirs,
		Files:       files,
		Free:        opts.Capacity - total,
		Deficit:     opts.Deficit(total),
	}

	var (
		wg           sync.WaitGroup
		candidate    *Directory
		candidateErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		small := tree.SmallDirectories(root, opts.Limit)
		r.SmallDirectories = make([]Directory, 0, len(small))
		for _, d := range small {
			size := tree.Size(d)
			r.SmallDirectories = append(r.SmallDirectories, describe(idx, d, size))
			r.SmallTotal += size
		}
	}()

	if r.NeedsDeletion() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, size, err := tree.SmallestAtLeast(root, r.Deficit)
			if err != nil {
				candidateErr = err
				return
			}
			c := describe(idx, d, size)
			candidate = &c
		}()
	}

	wg.Wait()
	if candidateErr != nil {
		return nil, fmt.Errorf("finding deletion candidate: %w", candidateErr)
	}
	r.Candidate = candidate
	r.Elapsed = time.Since(start)

	logging.Get("report").Debug("analysis complete",
		"total", r.TotalSize, "small_total", r.SmallTotal, "deficit", r.Deficit, "elapsed", r.Elapsed)
	return r, nil
}

func describe(idx *tree.Index, d *tree.Entry, size int64) Directory {
	return Directory{Path: idx.Path(d), Name: d.Name, Size: size}
}
