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

package host

import (
	"fmt"
	"image/color"
)

// Location is the address of a value in host memory.
type Location uintptr

func (l Location) String() string {
	return fmt.Sprintf("%#x", uintptr(l))
}

// Hash identifies a script by the hash of its name. The zero hash is reserved
// for the global space.
type Hash uint32

// GlobalHash is the script hash used by watches in the global space.
const GlobalHash Hash = 0

// GlobalName is the script name used by watches in the global space.
const GlobalName = "Global"

// WordSize is the size in bytes of one slot in the global and script-local
// address tables.
const WordSize = 8

// Addresses is implemented by the host's address tables. The bool return
// value is false if the table slot is null.
type Addresses interface {
	GlobalAddress(index int) (Location, bool)
	ScriptLocalAddress(index int, script Hash) (Location, bool)
}

// Scripts is implemented by the host's script machine.
type Scripts interface {
	// the number of references held on the script. a script with no
	// references is not running
	ReferenceCount(script Hash) int

	// HashOf returns the hash of the script name
	HashOf(name string) Hash
}

// Memory gives direct access to host memory. There is no protection against
// the host freeing the memory between a call to Addresses and a call to
// Memory.
type Memory interface {
	// Peek fills buf with the bytes starting at loc
	Peek(loc Location, buf []byte) error

	// Poke writes data starting at loc
	Poke(loc Location, data []byte) error
}

// TextDrawer draws text on the game screen. Coordinates and font size are in
// the host's normalised screen units.
type TextDrawer interface {
	DrawText(text string, x float32, y float32, fontSize float32, col color.RGBA)
}

// Host bundles all the interfaces required by the memory watcher.
type Host interface {
	Addresses
	Scripts
	Memory

	// BuildVersion identifies the build of the host. Indexes into the
	// address tables are only meaningful for a specific build
	BuildVersion() string
}
