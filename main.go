// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/depscan/flagutil"
	"go.chromium.org/infra/build/depscan/subcmd/scan"
	"go.chromium.org/infra/build/depscan/subcmd/version"
)

// Depscan is a standalone C/C++ include dependency scanner.

const depscanVersion = "0.9.2"

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "depscan",
		Title: "C/C++ include dependency scanner",
		Context: func(ctx context.Context) context.Context {
			return ctx
		},
		Commands: []*subcommands.Command{
			scan.Cmd(depscanVersion),
			version.Cmd(depscanVersion),
			subcommands.CmdHelp,
		},
	}
}

func main() {
	// keep accepting the original flat invocation
	// `depscan -f=... -i=... -dKEY=VALUE -o=... [-st]`
	// by routing it to the scan subcommand.
	args := flagutil.NormalizeArgs("scan", os.Args[1:])
	os.Exit(subcommands.Run(getApplication(), args))
}
