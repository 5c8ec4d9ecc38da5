// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package scandeps provides a simple concurrent C/C++ dependency scanner.
// Given a set of root files it discovers every file they transitively
// include, resolving each include against the including file's directory
// and a caller-ordered list of search directories, and returns the
// deduplicated, sorted list of resolved paths.
//
// It only checks the following forms of #include
//
//	#include "foo.h"
//	#include <foo.h>
//	#include FOO_H
//
// to support the last case, it also checks the following form of #define
//
//	#define FOO_H "foo.h"
//	#define FOO_H <foo.h>
//
// A macro value is used verbatim; it is not re-expanded, so macro chains
// (#define FOO_H BAR_H) are not followed. It doesn't process `#if` or
// `#ifdef`, doesn't allow comments between a directive and its argument,
// and doesn't handle line continuations (\ at the end of line).
//
// Each scan job clones the seed define table when its file is dequeued;
// defines discovered while scanning a file are visible to `#include MACRO`
// in that same file only, never to other files. Which files observe which
// defines is therefore independent of scheduling, but matches a textual
// preprocessor only for the single-file case.
//
// Directive bytes are interpreted as characters directly. This is correct
// for the ASCII punctuation the directive syntax uses; sources are
// expected to be in an ASCII-compatible encoding.
package scandeps
