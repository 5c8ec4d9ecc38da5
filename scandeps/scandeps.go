// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"context"
	"maps"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// ScanDeps is a simple concurrent C/C++ dependency scanner.
type ScanDeps struct{}

// New creates a new ScanDeps.
func New() *ScanDeps {
	return &ScanDeps{}
}

// Request is a request to scan deps.
type Request struct {
	// Sources are the root files to scan.
	Sources []string

	// Dirs are include search directories, tried in this order.
	Dirs []string

	// Defines are macros defined on the command line.
	// A macro value would be `"path.h"` or `<path.h>`.
	Defines map[string]string

	// SingleThreaded runs every job sequentially on the calling
	// goroutine. Output is identical either way.
	SingleThreaded bool

	// Jobs caps concurrently running scan jobs. 0 means no cap.
	Jobs int
}

// Scan scans the request's root files and everything they transitively
// include, and returns the deduplicated resolved paths in lexicographic
// order. Unresolvable includes and unreadable files are reported as
// warnings and skipped; Scan always returns the best-effort list.
func (s *ScanDeps) Scan(ctx context.Context, req Request) ([]string, error) {
	started := time.Now()
	// the seed table is never nil so per-job clones can take #defines.
	defines := make(map[string]string, len(req.Defines))
	maps.Copy(defines, req.Defines)
	sched := &scheduler{
		defines: defines,
	}
	for _, dir := range req.Dirs {
		sched.searchDirs = append(sched.searchDirs, sanitizePath(dir))
	}
	for _, src := range req.Sources {
		p := collapsePath(sanitizePath(src))
		if sched.processed.insert(p) {
			sched.queue.push(p)
		}
	}
	sched.run(ctx, req.SingleThreaded, req.Jobs)

	deps := sched.processed.drain()
	sort.Strings(deps)
	log.Debugf("scanned %d files -> %d deps in %s", sched.scanned.Load(), len(deps), time.Since(started))
	return deps, nil
}
