// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/depscan/runtimex"
	"go.chromium.org/infra/build/depscan/sync/semaphore"
)

// readSema caps concurrent file reads so an unbounded scan doesn't run
// out of file descriptors.
var readSema = semaphore.New("fileread", runtimex.NumCPU())

// workQueue is a FIFO of resolved paths awaiting scanning, shared across
// workers. Order only drives the pool; the final output is sorted.
type workQueue struct {
	mu    sync.Mutex
	items []string
}

func (q *workQueue) push(p string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, p)
}

func (q *workQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, true
}

// processedSet records every path already scheduled for scanning.
// Entries are only added for the lifetime of one scan, so each path is
// scanned at most once and a cyclic include graph terminates.
type processedSet struct {
	mu    sync.Mutex
	paths map[string]bool
}

// insert reports whether p was newly inserted. The check and the insert
// are atomic; only the caller that wins may schedule p.
func (s *processedSet) insert(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paths == nil {
		s.paths = make(map[string]bool)
	}
	if s.paths[p] {
		return false
	}
	s.paths[p] = true
	return true
}

func (s *processedSet) drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.paths))
	for p := range s.paths {
		paths = append(paths, p)
	}
	return paths
}

// resolvedCache memoizes, per origin directory, which include specs have
// already been resolved, to avoid repeat filesystem probes. One instance
// exists per search kind. Only successful resolutions are recorded.
type resolvedCache struct {
	mu   sync.Mutex
	dirs map[string]map[string]bool
}

func (c *resolvedCache) seen(dir, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirs[dir][name]
}

func (c *resolvedCache) add(dir, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirs == nil {
		c.dirs = make(map[string]map[string]bool)
	}
	names := c.dirs[dir]
	if names == nil {
		names = make(map[string]bool)
		c.dirs[dir] = names
	}
	names[name] = true
}

// scheduler owns the shared scan state and dispatches one worker per
// dequeued file. Workers are also producers: a scanned file may enqueue
// more files, so completion is detected by observing an empty queue with
// zero jobs in flight.
type scheduler struct {
	queue     workQueue
	processed processedSet
	local     resolvedCache
	system    resolvedCache

	searchDirs []string
	defines    map[string]string // seed table; read-only during the run

	inflight atomic.Int64
	scanned  atomic.Int64
}

// run drives the dispatch loop until the queue is empty and no job is in
// flight. The in-flight counter is incremented before the worker starts,
// and the zero check only happens when the queue is observed empty, so
// the loop cannot terminate while a live job could still enqueue work.
func (s *scheduler) run(ctx context.Context, singleThreaded bool, jobs int) {
	var g errgroup.Group
	if !singleThreaded && jobs > 0 {
		g.SetLimit(jobs)
	}
	for {
		fname, ok := s.queue.pop()
		if !ok {
			if s.inflight.Load() == 0 {
				break
			}
			runtime.Gosched()
			continue
		}
		s.inflight.Add(1)
		if singleThreaded {
			s.process(ctx, fname)
			s.inflight.Add(-1)
			continue
		}
		g.Go(func() error {
			defer s.inflight.Add(-1)
			s.process(ctx, fname)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warnf("scan worker: %v", err)
	}
}

// process scans one file: read its content, extract directives, and hand
// every include spec to fileAdd. A read failure drops the job with a
// warning; the scan carries on with whatever was discovered so far.
func (s *scheduler) process(ctx context.Context, fname string) {
	var buf []byte
	err := readSema.Do(ctx, func(ctx context.Context) error {
		var err error
		buf, err = os.ReadFile(fname)
		return err
	})
	if err != nil {
		log.Warnf("failed to read %s: %v", fname, err)
		return
	}
	s.scanned.Add(1)
	originDir := filepath.Dir(fname)
	defines := maps.Clone(s.defines)
	cppScan(fname, buf, defines, func(name string, kind includeKind) {
		s.fileAdd(originDir, name, kind)
	})
}

// fileAdd resolves one include spec and schedules the result if it has
// not been scheduled before. The resolution cache is consulted first and
// updated after a successful resolve whether or not the insert won; the
// processed-set insert decides which caller pushes to the queue. No lock
// is held across the filesystem probes in resolveInclude, and no lock is
// held while taking another.
func (s *scheduler) fileAdd(originDir, name string, kind includeKind) {
	cache := &s.local
	if kind == includeSystem {
		cache = &s.system
	}
	if cache.seen(originDir, name) {
		return
	}
	resolved, err := resolveInclude(originDir, name, kind, s.searchDirs)
	if err != nil {
		return
	}
	if s.processed.insert(resolved) {
		log.Debugf("add %s include %q -> %s", kind, name, resolved)
		s.queue.push(resolved)
	}
	cache.add(originDir, name)
}
