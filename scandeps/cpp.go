// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"github.com/charmbracelet/log"
)

// includeKind distinguishes the two include search policies.
type includeKind int

const (
	// includeLocal is a quoted include, e.g. #include "foo.h".
	includeLocal includeKind = iota
	// includeSystem is an angle-bracket include, e.g. #include <foo.h>.
	includeSystem
)

func (k includeKind) String() string {
	if k == includeSystem {
		return "system"
	}
	return "local"
}

// emitFunc receives each include spec found in a file, without its
// delimiters. e.g. `#include "foo.h"` emits ("foo.h", includeLocal).
type emitFunc func(name string, kind includeKind)

type scanMode int

const (
	scanForHash scanMode = iota
	scanDirective
	scanWhitespace
	scanDefineKey
	scanDefineValue
	scanQuote
	scanArrow
	scanMacro
)

type directiveKind int

const (
	directiveInclude directiveKind = iota
	directiveDefineKey
	directiveDefineValue
)

// cppScan runs the directive state machine over the raw bytes of one file.
// It emits every #include spec via emit, substituting `#include MACRO`
// through defines, and records `#define KEY VALUE` pairs into defines
// verbatim (value keeps its delimiter characters).
//
// A directive whose argument is cut off by a newline is dropped, as is a
// quote/bracket spec left unclosed at end of input. These match what a
// compiler would reject anyway and are not reported.
func cppScan(fname string, buf []byte, defines map[string]string, emit emitFunc) {
	mode := scanForHash
	directive := directiveInclude
	start := 0
	defineKey := ""

	for cursor := 0; cursor < len(buf); cursor++ {
		c := buf[cursor]
		switch mode {
		case scanForHash:
			if c == '#' {
				mode = scanDirective
				start = cursor
			}
		case scanDirective:
			if c == ' ' || c == '\t' {
				switch string(buf[start:cursor]) {
				case "#include":
					directive = directiveInclude
					mode = scanWhitespace
				case "#define":
					directive = directiveDefineKey
					mode = scanWhitespace
				default:
					mode = scanForHash
				}
			}
		case scanWhitespace:
			start = cursor
			switch c {
			case ' ', '\t':
			case '\r', '\n':
				// directive without argument
				mode = scanForHash
			default:
				switch directive {
				case directiveInclude:
					switch c {
					case '"':
						mode = scanQuote
					case '<':
						mode = scanArrow
					default:
						mode = scanMacro
					}
				case directiveDefineKey:
					mode = scanDefineKey
				case directiveDefineValue:
					mode = scanDefineValue
				}
			}
		case scanDefineKey:
			switch c {
			case ' ', '\t', '\r', '\n':
				defineKey = string(buf[start:cursor])
				directive = directiveDefineValue
				mode = scanWhitespace
			}
		case scanDefineValue:
			switch c {
			case ' ', '\t', '\r', '\n':
				defines[defineKey] = string(buf[start:cursor])
				mode = scanForHash
			}
		case scanQuote:
			if c == '"' {
				emit(string(buf[start+1:cursor]), includeLocal)
				mode = scanForHash
			}
		case scanArrow:
			if c == '>' {
				emit(string(buf[start+1:cursor]), includeSystem)
				mode = scanForHash
			}
		case scanMacro:
			switch c {
			case ' ', '\t', '\r', '\n':
				expandMacroInclude(fname, string(buf[start:cursor]), defines, emit)
				mode = scanForHash
			}
		}
	}
}

// expandMacroInclude handles `#include MACRO`: the macro value must be a
// quoted or bracketed filename; its interior is emitted with the matching
// kind. A lookup miss or an unsupported lead character drops the spec with
// a warning.
func expandMacroInclude(fname, key string, defines map[string]string, emit emitFunc) {
	value, ok := defines[key]
	if !ok {
		log.Warnf("%s: couldn't find macro %s", fname, key)
		return
	}
	if len(value) <= 1 {
		return
	}
	switch value[0] {
	case '"':
		emit(value[1:len(value)-1], includeLocal)
	case '<':
		emit(value[1:len(value)-1], includeSystem)
	default:
		log.Warnf("%s: malformed filename for macro %s: %s", fname, key, value)
	}
}
