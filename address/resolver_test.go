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

package address_test

import (
	"errors"
	"testing"

	"github.com/imgta/memwatch/address"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/host/arena"
	"github.com/imgta/memwatch/test"
)

func TestGlobalSpace(t *testing.T) {
	a := arena.NewArena("1.0", 200)
	res := address.NewResolver(a, a)

	loc, err := res.Resolve(address.Global, 100, host.GlobalHash)
	test.ExpectSuccess(t, err)
	exp, _ := a.GlobalAddress(100)
	test.ExpectEquality(t, loc, exp)

	// null slot in the global table
	_, err = res.Resolve(address.Global, 200, host.GlobalHash)
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))
	test.ExpectFailure(t, errors.Is(err, address.ScriptNotRunning))

	// out of range index
	_, err = res.Resolve(address.Global, address.MaxIndex+1, host.GlobalHash)
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))
	_, err = res.Resolve(address.Global, -1, host.GlobalHash)
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))

	test.ExpectSuccess(t, res.Running(host.GlobalHash))
}

func TestScriptLocalSpace(t *testing.T) {
	a := arena.NewArena("1.0", 1)
	res := address.NewResolver(a, a)

	h := a.StartScript("freemode", 10)
	test.ExpectEquality(t, res.HashOf("freemode"), h)
	test.ExpectEquality(t, res.HashOf(host.GlobalName), host.GlobalHash)
	test.ExpectEquality(t, address.SpaceOf(h), address.ScriptLocal)
	test.ExpectEquality(t, address.SpaceOf(host.GlobalHash), address.Global)

	loc, err := res.ResolveScript(3, h)
	test.ExpectSuccess(t, err)
	exp, _ := a.ScriptLocalAddress(3, h)
	test.ExpectEquality(t, loc, exp)

	_, err = res.ResolveScript(10, h)
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))
	test.ExpectFailure(t, errors.Is(err, address.ScriptNotRunning))

	// a stopped script does not resolve even though the local table is intact
	test.DemandSuccess(t, a.StopScript("freemode"))
	_, ok := a.ScriptLocalAddress(3, h)
	test.DemandSuccess(t, ok)
	_, err = res.ResolveScript(3, h)
	test.ExpectSuccess(t, errors.Is(err, address.ScriptNotRunning))
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))
	test.ExpectFailure(t, res.Running(h))

	// unknown script
	_, err = res.ResolveScript(0, res.HashOf("nosuchscript"))
	test.ExpectSuccess(t, errors.Is(err, address.ScriptNotRunning))
}

func TestResolutionIsNotCached(t *testing.T) {
	a := arena.NewArena("1.0", 1)
	res := address.NewResolver(a, a)

	h := a.StartScript("shop", 4)
	_, err := res.ResolveScript(1, h)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, a.ReleaseScript("shop"))
	_, err = res.ResolveScript(1, h)
	test.ExpectFailure(t, err)

	// restarting the script allocates a new local block which is picked up
	// by the next resolution
	a.StartScript("shop", 4)
	loc, err := res.ResolveScript(1, h)
	test.ExpectSuccess(t, err)
	exp, _ := a.ScriptLocalAddress(1, h)
	test.ExpectEquality(t, loc, exp)
}
