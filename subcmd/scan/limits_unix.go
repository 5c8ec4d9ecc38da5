// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package scan

import (
	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"go.chromium.org/infra/build/depscan/runtimex"
)

func (c *run) checkResourceLimits() {
	var lim unix.Rlimit
	err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim)
	if err != nil {
		log.Warnf("failed to get rlimit: %v", err)
		return
	}
	// reads are capped by the fileread semaphore; outputs stay open
	// while written.
	nfile := uint64(runtimex.NumCPU()+len(c.outputs)) + 8
	log.Debugf("rlimit.nofile=%d,%d required=%d?", lim.Cur, lim.Max, nfile)
	if lim.Cur < nfile {
		log.Warnf("too low file limit=%d. would fail with too many open files", lim.Cur)
	}
}
