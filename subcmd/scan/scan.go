// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package scan is the scan subcommand: it runs the dependency scanner
// over the root files and writes the sorted result to the output
// destinations.
package scan

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/cpuid/v2"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/depscan/flagutil"
	"go.chromium.org/infra/build/depscan/scandeps"
	"go.chromium.org/infra/build/depscan/sync/semaphore"
)

const usage = `scan transitive #include dependencies of the root files.

 $ depscan scan -f=<file> [-f=<file>...] [-i=<dir>...] [-d<KEY>=<VALUE>...] [-o=<file>...] [-st] [-j=<n>]

Each -i directory is searched in the order given. Each -o destination
receives an identical copy of the sorted list, one path per line; a name
ending in .gz is gzip-compressed. Without -o the list goes to stdout.
The bare form without the scan keyword is also accepted:

 $ depscan -f=main.cc -i=include -dCONFIG_H="release.h" -o=deps.txt
`

// Cmd returns the Command for the `scan` subcommand provided by this package.
func Cmd(version string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "scan <args>...",
		ShortDesc: "scan transitive #include dependencies",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{version: version}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	version string

	files   flagutil.StringList
	dirs    flagutil.StringList
	outputs flagutil.StringList
	defines flagutil.Defines

	singleThreaded bool
	jobs           int
	verbose        bool
}

func (c *run) init() {
	c.Flags.Var(&c.files, "f", "root file to scan (repeatable)")
	c.Flags.Var(&c.dirs, "i", "include search directory, searched in the order given (repeatable)")
	c.Flags.Var(&c.outputs, "o", "output file. repeatable, each receives the same list. *.gz is gzip-compressed")
	c.Flags.Var(&c.defines, "d", "seed macro define as KEY=VALUE (repeatable, last occurrence per key wins)")
	c.Flags.BoolVar(&c.singleThreaded, "st", false, "scan files sequentially on one thread")
	c.Flags.IntVar(&c.jobs, "j", 0, "limit of concurrently scanned files. 0 means no limit")
	c.Flags.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context) error {
	if c.verbose {
		log.SetLevel(log.DebugLevel)
	}
	if len(c.files) == 0 {
		return fmt.Errorf("missing -f: %w", flag.ErrHelp)
	}
	invocationID := uuid.New().String()
	log.Debugf("depscan %s id:%s", c.version, invocationID)
	log.Debugf("%s", cpuinfo())
	if !c.singleThreaded {
		c.checkResourceLimits()
	}

	started := time.Now()
	s := scandeps.New()
	deps, err := s.Scan(ctx, scandeps.Request{
		Sources:        c.files,
		Dirs:           c.dirs,
		Defines:        c.defines,
		SingleThreaded: c.singleThreaded,
		Jobs:           c.jobs,
	})
	if err != nil {
		return err
	}
	log.Infof("%d deps for %d roots in %s", len(deps), len(c.files), time.Since(started))
	if sema := semaphore.Lookup("fileread"); sema != nil {
		log.Debugf("fileread sema: cap=%d reqs=%d", sema.Capacity(), sema.NumRequests())
	}

	if len(c.outputs) == 0 {
		w := bufio.NewWriter(os.Stdout)
		for _, dep := range deps {
			fmt.Fprintln(w, dep)
		}
		return w.Flush()
	}
	// a failing destination doesn't stop the remaining ones.
	for _, out := range c.outputs {
		err := writeDeps(out, deps)
		if err != nil {
			log.Warnf("failed to write %s: %v", out, err)
		}
	}
	return nil
}

// writeDeps writes the list to fname, one path per line, gzip-compressed
// when fname ends in .gz.
func writeDeps(fname string, deps []string) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()
	var w io.Writer = f
	var gw *gzip.Writer
	if strings.HasSuffix(fname, ".gz") {
		gw = gzip.NewWriter(f)
		w = gw
	}
	bw := bufio.NewWriter(w)
	for _, dep := range deps {
		_, err = fmt.Fprintln(bw, dep)
		if err != nil {
			return err
		}
	}
	err = bw.Flush()
	if err != nil {
		return err
	}
	if gw != nil {
		return gw.Close()
	}
	return nil
}

func cpuinfo() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cpu brand=%q vendor=%q ", cpuid.CPU.BrandName, cpuid.CPU.VendorString)
	fmt.Fprintf(&sb, "physicalCores=%d threadsPerCore=%d logicalCores=%d", cpuid.CPU.PhysicalCores, cpuid.CPU.ThreadsPerCore, cpuid.CPU.LogicalCores)
	return sb.String()
}
