// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// errNotFound reports that an include spec resolved to no existing file.
var errNotFound = errors.New("include not found")

// sanitizePath rewrites path separators for the host platform.
func sanitizePath(p string) string {
	if filepath.Separator == '/' {
		return strings.ReplaceAll(p, `\`, "/")
	}
	return strings.ReplaceAll(p, "/", `\`)
}

// collapsePath removes `..` segments syntactically: walking components
// left to right, `..` drops the most recently kept component, or nothing
// when none precedes it. No filesystem access, no symlink awareness, so
// this is a best-effort normalization, not canonicalization.
// filepath.Clean is not used here since it keeps a leading `..`.
func collapsePath(p string) string {
	sep := string(filepath.Separator)
	var kept []string
	for i, c := range strings.Split(p, sep) {
		switch {
		case c == "..":
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			}
		case c == "." && i > 0:
		case c == "" && i > 0:
		default:
			kept = append(kept, c)
		}
	}
	collapsed := strings.Join(kept, sep)
	if collapsed == "" && strings.HasPrefix(p, sep) {
		return sep
	}
	return collapsed
}

// joinPath joins dir and name without cleaning the result.
// An empty or "." dir leaves name as is, the way the scanner sees an
// include next to a root file given as a bare relative path.
func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// probe reports the collapsed join of dir and name if it names an
// existing regular file.
func probe(dir, name string) (string, bool) {
	p := collapsePath(joinPath(dir, name))
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}
	return p, true
}

// resolveInclude turns an include spec into a resolved path, first
// success wins:
//  1. for a local spec, the origin directory with the sanitized name,
//  2. each search directory in caller order with the name as given,
//  3. the origin directory again, regardless of kind.
//
// The local directory beats every search directory; search directories
// are tried strictly in the supplied order. An unresolvable spec is
// reported once here and returns errNotFound.
func resolveInclude(originDir, name string, kind includeKind, searchDirs []string) (string, error) {
	sanitized := sanitizePath(name)
	if kind == includeLocal {
		if p, ok := probe(originDir, sanitized); ok {
			return p, nil
		}
	}
	for _, dir := range searchDirs {
		if p, ok := probe(dir, name); ok {
			return p, nil
		}
	}
	if p, ok := probe(originDir, sanitized); ok {
		return p, nil
	}
	log.Warnf("file not found %s", name)
	return "", errNotFound
}
