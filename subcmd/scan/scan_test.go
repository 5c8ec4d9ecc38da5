// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
)

func TestScanFlags(t *testing.T) {
	c := &run{version: "test"}
	c.init()
	err := c.Flags.Parse([]string{
		"-f=a.c", "-f=b.c",
		"-i=inc1", "-i=inc2",
		`-d=HDR="x.h"`, `-d=HDR="y.h"`,
		"-o=deps.txt", "-o=deps.txt.gz",
		"-st",
		"-j=4",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"a.c", "b.c"}, []string(c.files)); diff != "" {
		t.Errorf("files diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"inc1", "inc2"}, []string(c.dirs)); diff != "" {
		t.Errorf("dirs diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"HDR": `"y.h"`}, map[string]string(c.defines)); diff != "" {
		t.Errorf("defines diff -want +got:\n%s", diff)
	}
	if !c.singleThreaded {
		t.Errorf("singleThreaded=false; want true")
	}
	if c.jobs != 4 {
		t.Errorf("jobs=%d; want 4", c.jobs)
	}
}

func TestWriteDeps(t *testing.T) {
	dir := t.TempDir()
	deps := []string{"/src/a.c", "/src/b.h", "/sysroot/c.h"}

	fname := filepath.Join(dir, "deps.txt")
	err := writeDeps(fname, deps)
	if err != nil {
		t.Fatalf("writeDeps: %v", err)
	}
	got, err := readLines(fname, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(deps, got); diff != "" {
		t.Errorf("writeDeps diff -want +got:\n%s", diff)
	}
}

func TestWriteDeps_Gzip(t *testing.T) {
	dir := t.TempDir()
	deps := []string{"/src/a.c", "/src/b.h"}

	fname := filepath.Join(dir, "deps.txt.gz")
	err := writeDeps(fname, deps)
	if err != nil {
		t.Fatalf("writeDeps: %v", err)
	}
	got, err := readLines(fname, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(deps, got); diff != "" {
		t.Errorf("writeDeps gzip diff -want +got:\n%s", diff)
	}
}

func TestWriteDeps_BadDestination(t *testing.T) {
	dir := t.TempDir()
	err := writeDeps(filepath.Join(dir, "no/such/dir/deps.txt"), []string{"/a"})
	if err == nil {
		t.Errorf("writeDeps=nil; want error")
	}
}

func readLines(fname string, compressed bool) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var s *bufio.Scanner
	if compressed {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		s = bufio.NewScanner(gr)
	} else {
		s = bufio.NewScanner(f)
	}
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines, s.Err()
}
