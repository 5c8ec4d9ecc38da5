// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package flagutil

import (
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringList(t *testing.T) {
	var files StringList
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&files, "f", "input file")

	err := fs.Parse([]string{"-f=a.c", "-f=b.c", "-f", "c.c"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := StringList{"a.c", "b.c", "c.c"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("StringList diff -want +got:\n%s", diff)
	}
}

func TestDefines(t *testing.T) {
	var defines Defines
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&defines, "d", "macro define")

	err := fs.Parse([]string{`-d=HDR="a.h"`, "-d=SYS=<b.h>", `-d=HDR="c.h"`})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Defines{
		"HDR": `"c.h"`, // last occurrence wins
		"SYS": "<b.h>",
	}
	if diff := cmp.Diff(want, defines); diff != "" {
		t.Errorf("Defines diff -want +got:\n%s", diff)
	}
}

func TestDefines_Invalid(t *testing.T) {
	var defines Defines
	for _, value := range []string{"NOVALUE", "=x"} {
		if err := defines.Set(value); err == nil {
			t.Errorf("Set(%q)=nil; want error", value)
		}
	}
}

func TestDefines_EmptyValue(t *testing.T) {
	var defines Defines
	if err := defines.Set("KEY="); err != nil {
		t.Errorf("Set(%q)=%v; want nil", "KEY=", err)
	}
	if got, ok := defines["KEY"]; !ok || got != "" {
		t.Errorf("defines[KEY]=%q,%t; want empty value present", got, ok)
	}
}

func TestNormalizeArgs(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "empty",
		},
		{
			name: "legacy-flags-get-default-command",
			args: []string{"-f=a.c", "-i=inc", "-o=out.txt", "-st"},
			want: []string{"scan", "-f=a.c", "-i=inc", "-o=out.txt", "-st"},
		},
		{
			name: "attached-define-rewritten",
			args: []string{"-f=a.c", `-dHDR="b.h"`, "-d_X=<y.h>"},
			want: []string{"scan", "-f=a.c", `-d=HDR="b.h"`, "-d=_X=<y.h>"},
		},
		{
			name: "detached-define-untouched",
			args: []string{"scan", `-d=HDR="b.h"`},
			want: []string{"scan", `-d=HDR="b.h"`},
		},
		{
			name: "subcommand-untouched",
			args: []string{"version"},
			want: []string{"version"},
		},
		{
			name: "help-untouched",
			args: []string{"help", "scan"},
			want: []string{"help", "scan"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeArgs("scan", tc.args)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("NormalizeArgs(%q) diff -want +got:\n%s", tc.args, diff)
			}
		})
	}
}
