// This file is part of MemWatch.
//
// MemWatch is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// MemWatch is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with MemWatch.  If not, see <https://www.gnu.org/licenses/>.

// Command memwatch inspects and maintains the watch store written by the
// memory watcher and runs the watcher against a simulated host.
//
// The store commands are LIST, EXPORT and CLEAR. The SIMULATE command builds
// a host from a TOML scenario file and prints the in-game HUD for a number of
// ticks. The GRAPH command prints the structure of the watch registry for a
// scenario in the Graphviz dot format.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/imgta/memwatch/logger"
	"github.com/imgta/memwatch/modalflag"
	"github.com/imgta/memwatch/paths"
	"github.com/imgta/memwatch/persist"
	"github.com/imgta/memwatch/statsview"
	"github.com/imgta/memwatch/version"
)

func main() {
	os.Exit(launch(os.Stdout, os.Args[1:]))
}

// launch the command with the arguments. returns the exit value for the
// process.
func launch(output io.Writer, args []string) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("LIST", "EXPORT", "CLEAR", "SIMULATE", "GRAPH", "VERSION")

	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.URL("")))
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		stop := statsview.Launch(output, "")
		defer stop()
	}

	switch md.Mode() {
	case "LIST":
		err = list(md, output)

	case "EXPORT":
		err = export(md, output)

	case "CLEAR":
		err = clearStore(md, output)

	case "SIMULATE":
		err = simulate(md, output)

	case "GRAPH":
		err = graph(md, output)

	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// defaultStore is the store used by the mod when no settings folder has been
// specified.
func defaultStore() string {
	fn, err := paths.ResourcePath("", persist.DefaultFilename)
	if err != nil {
		return persist.DefaultFilename
	}
	return fn
}
