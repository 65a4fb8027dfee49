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

package prefs_test

import (
	"testing"

	"github.com/imgta/memwatch/prefs"
	"github.com/imgta/memwatch/test"
)

func TestCommandLineValues(t *testing.T) {
	prefs.SetCommandLine("")
	test.ExpectEquality(t, prefs.UnusedCommandLine(), "")

	// single value but with additional space
	prefs.SetCommandLine("   foo:: bar ")
	test.ExpectEquality(t, prefs.UnusedCommandLine(), "foo::bar")

	// more than one key/value in the prefs string. remaining string will
	// will be sorted
	prefs.SetCommandLine("foo::bar; baz::qux")
	test.ExpectEquality(t, prefs.UnusedCommandLine(), "baz::qux; foo::bar")

	// (partially) invalid prefs string
	prefs.SetCommandLine("foo_bar;baz::qux")
	test.ExpectEquality(t, prefs.UnusedCommandLine(), "baz::qux")

	prefs.SetCommandLine("")
}

func TestCommandLineOverridesDisk(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var hex prefs.Bool
	var size prefs.Int
	test.DemandSuccess(t, dsk.Add("memwatcher.hexIndex", &hex))
	test.DemandSuccess(t, dsk.Add("memwatcher.fontSize", &size))
	test.DemandSuccess(t, size.Set(4))
	test.DemandSuccess(t, dsk.Save())

	prefs.SetCommandLine("memwatcher.hexIndex::true; other.key::1")
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, hex.Get().(bool), true)
	test.ExpectEquality(t, size.Get().(int), 4)

	// the key not known to the disk has not been consumed
	test.ExpectEquality(t, prefs.UnusedCommandLine(), "other.key::1")
	prefs.SetCommandLine("")
}
