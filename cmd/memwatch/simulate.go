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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/imgta/memwatch/address"
	"github.com/imgta/memwatch/hud"
	"github.com/imgta/memwatch/mod"
	"github.com/imgta/memwatch/modalflag"
	"github.com/imgta/memwatch/prefs"
	"github.com/imgta/memwatch/watches"
)

const scenarioHelp = `The scenario is a TOML file. All tables are optional:

  version = "1.0.1"     build version of the simulated host
  globals = 1000        number of words in the global table

  [[global]]            initial global values
  index = 10
  value = 42            integer, float, string or [x, y, z]

  [[script]]            scripts with the tick they start and stop
  name = "main"
  locals = 200
  start = 0
  stop = 5

  [[script.local]]      local values written when the script starts
  index = 3
  value = 1.5

  [[change]]            values written at the start of a tick
  tick = 2
  script = "main"
  index = 3
  value = 2.5

  [[watch]]             watches added at the start of a tick
  tick = 0
  index = 3
  type = "Float"
  script = "main"`

func simulate(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	scenarioFile := md.AddString("scenario", "", "TOML scenario file")
	ticks := md.AddInt("ticks", 1, "number of ticks to simulate")
	dir := md.AddString("dir", "", "settings folder for preferences and watch store (default: temporary folder)")
	save := md.AddBool("save", false, "save watches and preferences when the simulation ends")
	override := md.AddString("prefs", "", "override preferences (eg. \"memwatcher.displayInfo::false\")")
	md.AdditionalHelp(scenarioHelp)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sc, err := loadScenario(*scenarioFile)
	if err != nil {
		return err
	}

	if *dir == "" {
		tmp, err := os.MkdirTemp("", "memwatch")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		*dir = tmp
	}

	return runSimulation(sc, *dir, *ticks, *save, *override, output)
}

// runSimulation loads the mod against the simulated host and prints the HUD
// for every tick. The override string is in the format accepted by
// prefs.SetCommandLine().
func runSimulation(sc *scenario, dir string, ticks int, save bool, override string, output io.Writer) error {
	sim, err := newSimulation(sc)
	if err != nil {
		return err
	}

	mw, err := mod.NewMemWatcher(sim.arena, hud.WriterDrawer{W: output}, dir)
	if err != nil {
		return err
	}

	if err := mw.Load(); err != nil {
		return err
	}

	if override != "" {
		prefs.SetCommandLine(override)
		if err := mw.Prefs.Load(); err != nil {
			return err
		}
		if u := prefs.UnusedCommandLine(); u != "" {
			fmt.Fprintf(output, "! unused preferences: %s\n", u)
		}
		prefs.SetCommandLine("")
	}

	report := func(err error) {
		fmt.Fprintf(output, "! %v\n", err)
	}

	for t := 0; t < ticks; t++ {
		if err := sim.step(t); err != nil {
			return err
		}
		sim.addWatches(t, mw.Watches, report)

		fmt.Fprintf(output, "-- tick %d --\n", t)
		mw.Think()
	}

	if save {
		return mw.Unload()
	}

	return nil
}

func graph(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	scenarioFile := md.AddString("scenario", "", "TOML scenario file")
	ticks := md.AddInt("ticks", 1, "number of ticks to simulate before the graph is output")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sc, err := loadScenario(*scenarioFile)
	if err != nil {
		return err
	}

	return graphScenario(sc, *ticks, output)
}

// graphScenario runs the scenario without the mod and outputs the registry
// entries in the dot format.
func graphScenario(sc *scenario, ticks int, output io.Writer) error {
	sim, err := newSimulation(sc)
	if err != nil {
		return err
	}

	reg := watches.NewRegistry(address.NewResolver(sim.arena, sim.arena), sim.arena)

	report := func(err error) {
		fmt.Fprintf(os.Stderr, "! %v\n", err)
	}

	for t := 0; t < max(ticks, 1); t++ {
		if err := sim.step(t); err != nil {
			return err
		}
		sim.addWatches(t, reg, report)
		reg.Tick()
	}

	entries := reg.Entries()
	memviz.Map(output, &entries)

	return nil
}
