// Copyright 2025 The hostipc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli is the main entrypoint for ipcq.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/hostipc/hostipc/ipcq/cmd"
	"github.com/hostipc/hostipc/ipcq/cmd/util"
	"github.com/hostipc/hostipc/ipcq/config"
	"github.com/hostipc/hostipc/ipcq/flag"
	"github.com/hostipc/hostipc/ipcq/version"
	"github.com/hostipc/hostipc/pkg/log"
)

// versionFlagName is the name of a flag on the main command line that makes
// ipcq print its version and exit.
const versionFlagName = "version"

// The version flag is not part of the Config; it is registered directly so
// it shows up in the main help.
var _ = flag.Bool(versionFlagName, false, "show version and exit.")

// Main is the main entrypoint.
func Main() {
	// Register all commands.
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(cmd.Create), "")
	subcommands.Register(new(cmd.Recv), "")
	subcommands.Register(new(cmd.Send), "")
	subcommands.Register(new(cmd.Stat), "")
	subcommands.Register(new(cmd.Unlink), "")

	// Register flags that populate the config and parse the whole command
	// line.
	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	// The version flag must work even when the rest of the command line
	// would not validate.
	if flag.Get(flag.Lookup(versionFlagName).Value).(bool) {
		fmt.Fprintf(os.Stdout, "ipcq version %s\n", version.Version())
		os.Exit(0)
	}

	conf, err := config.NewFromFlags(flag.CommandLine)
	if err != nil {
		util.Fatalf("%v", err)
	}

	if conf.Debug {
		log.SetLevel(log.Debug)
	}

	// Set up logging early so everything below is captured.
	var emitters log.MultiEmitter
	if conf.LogFilename != "" {
		f, err := os.OpenFile(conf.LogFilename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			util.Fatalf("opening log file %q: %v", conf.LogFilename, err)
		}
		emitters = append(emitters, newEmitter(conf.LogFormat, f))
		if conf.AlsoLogToStderr {
			emitters = append(emitters, newEmitter(conf.LogFormat, os.Stderr))
		} else {
			// The log no longer reaches the terminal, so user-visible errors
			// need their own path to stderr.
			util.ErrorLogger = os.Stderr
		}
	} else {
		emitters = append(emitters, newEmitter(conf.LogFormat, os.Stderr))
	}
	switch len(emitters) {
	case 1:
		log.SetTarget(emitters[0])
	default:
		log.SetTarget(&emitters)
	}

	log.Debugf("***************************")
	log.Debugf("ipcq version %s", version.Version())
	log.Debugf("PID: %d", os.Getpid())
	log.Debugf("Args: %v", os.Args)
	conf.Log()
	log.Debugf("***************************")

	// Call the subcommand and pass in the configuration.
	ws := subcommands.Execute(context.Background(), conf)
	log.Debugf("Exiting with status: %v", ws)
	os.Exit(int(ws))
}

func newEmitter(format string, logFile io.Writer) log.Emitter {
	switch format {
	case "text":
		return log.GoogleEmitter{Writer: &log.Writer{Next: logFile}}
	case "json":
		return log.JSONEmitter{Writer: &log.Writer{Next: logFile}}
	}
	util.Fatalf("invalid log format %q, must be 'text' or 'json'", format)
	panic("unreachable")
}
