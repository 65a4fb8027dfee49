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

// Package modalflag is a wrapper for the github.com/spf13/pflag package. It
// provides a convenient method of handling program modes (and sub-modes) and
// allows different flags for each mode.
//
// Whereas, with pflag.FlagSet you call Parse() with the array of strings as
// the only argument, with modalflag you first call NewArgs() with the array
// of arguments and then Parse() with no arguments:
//
//	md = Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	_, _ = md.Parse()
//
// The reason for this difference is to allow effective parsing of modes and
// sub-modes. A mode is a special command line argument that when specified
// puts the program into a different mode of operation, in the same way as the
// go command has the build, doc and test modes. Each mode has its own flags.
//
// Sub-modes are added with AddSubModes() before calling Parse(). After Parse()
// the selected mode is returned by Mode(). The first sub-mode is the default
// if no mode is given on the command line:
//
//	md.NewMode()
//	md.AddSubModes("LIST", "EXPORT", "CLEAR")
//	p, err := md.Parse()
//	switch md.Mode() {
//	case "LIST":
//		...
//	}
//
// Flags for the next mode are added after NewMode() and before the next call
// to Parse(). Flags must precede the mode argument. Non-flag arguments
// following the mode are available with RemainingArgs() or GetArg().
package modalflag
