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
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/host/arena"
	"github.com/imgta/memwatch/watches"
)

// value is a word (or words) of memory to be written. The Go type of the
// decoded TOML value decides the encoding: integers are written as Int,
// floats as Float, strings as String and an array of three numbers as
// Vector3.
type value struct {
	Index int `toml:"index"`
	Value any `toml:"value"`
}

func (v value) data() (any, error) {
	switch d := v.Value.(type) {
	case int64, float64, string:
		return d, nil
	case []any:
		if len(d) != 3 {
			return nil, fmt.Errorf("vector at index %d must have three members", v.Index)
		}
		var vec [3]float32
		for i := range d {
			switch n := d[i].(type) {
			case int64:
				vec[i] = float32(n)
			case float64:
				vec[i] = float32(n)
			default:
				return nil, fmt.Errorf("vector at index %d has a non-numeric member", v.Index)
			}
		}
		return vec, nil
	case nil:
		return nil, fmt.Errorf("no value for index %d", v.Index)
	}
	return nil, fmt.Errorf("unsupported value for index %d (%T)", v.Index, v.Value)
}

type script struct {
	Name   string  `toml:"name"`
	Locals int     `toml:"locals"`
	Start  int     `toml:"start"`
	Stop   int     `toml:"stop"`
	Local  []value `toml:"local"`
}

// change is a value written to memory at the start of a tick. An empty
// script name means the global table.
type change struct {
	Tick   int    `toml:"tick"`
	Script string `toml:"script"`
	Index  int    `toml:"index"`
	Value  any    `toml:"value"`
}

// watch is a watch added by the scenario at the start of a tick.
type watch struct {
	Tick        int    `toml:"tick"`
	Index       int    `toml:"index"`
	Count       int    `toml:"count"`
	Type        string `toml:"type"`
	Script      string `toml:"script"`
	Info        string `toml:"info"`
	ItemType    string `toml:"itemType"`
	ItemSize    int    `toml:"itemSize"`
	IndexInItem int    `toml:"indexInItem"`
}

func (w watch) params() (watches.Params, error) {
	p := watches.Params{
		Index:       w.Index,
		ScriptName:  w.Script,
		Info:        w.Info,
		ItemSize:    w.ItemSize,
		IndexInItem: w.IndexInItem,
	}

	var err error
	p.Type, err = codec.ParseType(w.Type)
	if err != nil {
		return p, err
	}

	if p.Type == codec.Array {
		p.ArrayItemType, err = codec.ParseType(w.ItemType)
		if err != nil {
			return p, err
		}
	}

	return p, nil
}

// scenario describes a simulated host and the watches to add to it.
type scenario struct {
	Version string   `toml:"version"`
	Globals int      `toml:"globals"`
	Global  []value  `toml:"global"`
	Script  []script `toml:"script"`
	Change  []change `toml:"change"`
	Watch   []watch  `toml:"watch"`
}

const defaultGlobals = 1000

// parseScenario decodes a scenario from TOML. Unknown keys are an error.
func parseScenario(data string) (*scenario, error) {
	sc := &scenario{
		Version: "simulated",
		Globals: defaultGlobals,
	}

	md, err := toml.Decode(data, sc)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("scenario: unknown keys: %s", strings.Join(keys, ", "))
	}

	if sc.Globals < 1 {
		return nil, fmt.Errorf("scenario: globals must be positive")
	}

	for _, s := range sc.Script {
		if s.Name == "" || strings.EqualFold(s.Name, host.GlobalName) {
			return nil, fmt.Errorf("scenario: invalid script name %q", s.Name)
		}
		if s.Locals < 1 {
			return nil, fmt.Errorf("scenario: script %s must have locals", s.Name)
		}
	}

	for _, w := range sc.Watch {
		if _, err := w.params(); err != nil {
			return nil, fmt.Errorf("scenario: watch at index %d: %w", w.Index, err)
		}
	}

	return sc, nil
}

func loadScenario(filename string) (*scenario, error) {
	if filename == "" {
		return nil, fmt.Errorf("scenario: no file specified")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return parseScenario(string(data))
}

// simulation is a running scenario.
type simulation struct {
	sc    *scenario
	arena *arena.Arena
}

func newSimulation(sc *scenario) (*simulation, error) {
	sim := &simulation{
		sc:    sc,
		arena: arena.NewArena(sc.Version, sc.Globals),
	}

	for _, g := range sc.Global {
		d, err := g.data()
		if err != nil {
			return nil, fmt.Errorf("scenario: global: %w", err)
		}
		if err := sim.arena.SetGlobal(g.Index, d); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
	}

	return sim, nil
}

// step applies the script starts and stops and the memory changes for the
// tick. Scripts are stopped before they are started so that a script can be
// restarted in the same tick.
func (sim *simulation) step(tick int) error {
	for _, s := range sim.sc.Script {
		if s.Stop > 0 && s.Stop == tick {
			if err := sim.arena.StopScript(s.Name); err != nil {
				return err
			}
		}
	}

	for _, s := range sim.sc.Script {
		if s.Start != tick {
			continue
		}
		sim.arena.StartScript(s.Name, s.Locals)
		for _, l := range s.Local {
			d, err := l.data()
			if err != nil {
				return fmt.Errorf("script %s: %w", s.Name, err)
			}
			if err := sim.arena.SetLocal(s.Name, l.Index, d); err != nil {
				return err
			}
		}
	}

	for _, c := range sim.sc.Change {
		if c.Tick != tick {
			continue
		}
		d, err := value{Index: c.Index, Value: c.Value}.data()
		if err != nil {
			return err
		}
		if c.Script == "" || strings.EqualFold(c.Script, host.GlobalName) {
			err = sim.arena.SetGlobal(c.Index, d)
		} else {
			err = sim.arena.SetLocal(c.Script, c.Index, d)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// addWatches adds the watches for the tick to the registry. A watch that
// cannot be added is not fatal and the error is passed to the report
// function.
func (sim *simulation) addWatches(tick int, reg *watches.Registry, report func(error)) {
	for _, w := range sim.sc.Watch {
		if w.Tick != tick {
			continue
		}
		p, err := w.params()
		if err == nil {
			err = reg.Add(p, w.Count)
		}
		if err != nil {
			report(err)
		}
	}
}
