// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package flagutil provides flag values for depscan's repeatable options
// and normalization of legacy command lines.
package flagutil

import (
	"fmt"
	"sort"
	"strings"
)

// StringList is a flag value for a list of strings.
// It supports repeatedly setting a value, e.g. -i=a -i=b.
type StringList []string

func (l *StringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *StringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Defines is a flag value collecting key=value macro definitions.
// The last occurrence per key wins.
type Defines map[string]string

func (d *Defines) String() string {
	var kvs []string
	for k, v := range *d {
		kvs = append(kvs, k+"="+v)
	}
	sort.Strings(kvs)
	return strings.Join(kvs, ", ")
}

func (d *Defines) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	if *d == nil {
		*d = make(Defines)
	}
	(*d)[key] = val
	return nil
}

// NormalizeArgs rewrites a legacy single-command invocation into
// subcommand form: a leading flag inserts defaultCmd, and the original
// scanner's attached define syntax -dKEY=VALUE becomes -d=KEY=VALUE so
// the flag package can parse it. Everything else passes through.
func NormalizeArgs(defaultCmd string, args []string) []string {
	if len(args) == 0 {
		return args
	}
	normalized := make([]string, 0, len(args)+1)
	if strings.HasPrefix(args[0], "-") {
		normalized = append(normalized, defaultCmd)
	}
	for _, arg := range args {
		if isAttachedDefine(arg) {
			arg = "-d=" + arg[len("-d"):]
		}
		normalized = append(normalized, arg)
	}
	return normalized
}

// isAttachedDefine reports whether arg looks like -dKEY=VALUE with a
// macro identifier attached directly to the flag.
func isAttachedDefine(arg string) bool {
	rest, ok := strings.CutPrefix(arg, "-d")
	if !ok || rest == "" {
		return false
	}
	c := rest[0]
	if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
		return false
	}
	return strings.Contains(rest, "=")
}
