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

package arena

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/imgta/memwatch/host"
)

// the location of the first byte in the arena. the zero location is never
// valid.
const baseLocation = 0x10000

// OutOfBounds is returned by Peek() and Poke() if the location is not inside
// an allocated block.
var OutOfBounds = errors.New("location out of bounds")

// UnknownScript is returned by functions that take a script name if the script
// has never been started.
var UnknownScript = errors.New("unknown script")

type block struct {
	start int
	words int
}

func (b block) location(index int) (host.Location, bool) {
	if index < 0 || index >= b.words {
		return 0, false
	}
	return host.Location(baseLocation + b.start + index*host.WordSize), true
}

type script struct {
	name   string
	refs   int
	locals block

	// a released script has no local block
	released bool
}

// Arena is a simulated host. It implements the host.Host interface and is
// safe for concurrent use.
type Arena struct {
	crit sync.Mutex

	version string
	mem     []byte
	globals block
	scripts map[host.Hash]*script
}

// NewArena is the preferred method of initialisation for the Arena type.
func NewArena(version string, globals int) *Arena {
	a := &Arena{
		version: version,
		scripts: make(map[host.Hash]*script),
	}
	a.globals = a.alloc(globals)
	return a
}

func (a *Arena) alloc(words int) block {
	b := block{start: len(a.mem), words: words}
	a.mem = append(a.mem, make([]byte, words*host.WordSize)...)
	return b
}

// BuildVersion implements the host.Host interface.
func (a *Arena) BuildVersion() string {
	return a.version
}

// HashOf implements the host.Scripts interface. The hash is the Jenkins
// one-at-a-time hash of the lower case name.
func (a *Arena) HashOf(name string) host.Hash {
	return Joaat(name)
}

// ReferenceCount implements the host.Scripts interface.
func (a *Arena) ReferenceCount(hash host.Hash) int {
	a.crit.Lock()
	defer a.crit.Unlock()

	if s, ok := a.scripts[hash]; ok {
		return s.refs
	}
	return 0
}

// GlobalAddress implements the host.Addresses interface.
func (a *Arena) GlobalAddress(index int) (host.Location, bool) {
	a.crit.Lock()
	defer a.crit.Unlock()
	return a.globals.location(index)
}

// ScriptLocalAddress implements the host.Addresses interface. Note that the
// address of a stopped script's locals is still returned if the script has not
// been released.
func (a *Arena) ScriptLocalAddress(index int, hash host.Hash) (host.Location, bool) {
	a.crit.Lock()
	defer a.crit.Unlock()

	s, ok := a.scripts[hash]
	if !ok || s.released {
		return 0, false
	}
	return s.locals.location(index)
}

func (a *Arena) offset(loc host.Location, n int) (int, error) {
	o := int(loc) - baseLocation
	if o < 0 || o+n > len(a.mem) {
		return 0, fmt.Errorf("%w: %v", OutOfBounds, loc)
	}
	return o, nil
}

// Peek implements the host.Memory interface.
func (a *Arena) Peek(loc host.Location, buf []byte) error {
	a.crit.Lock()
	defer a.crit.Unlock()

	o, err := a.offset(loc, len(buf))
	if err != nil {
		return err
	}
	copy(buf, a.mem[o:])
	return nil
}

// Poke implements the host.Memory interface.
func (a *Arena) Poke(loc host.Location, data []byte) error {
	a.crit.Lock()
	defer a.crit.Unlock()

	o, err := a.offset(loc, len(data))
	if err != nil {
		return err
	}
	copy(a.mem[o:], data)
	return nil
}

// StartScript starts the named script with the specified number of local
// words. Starting a script that is already running adds a reference. Starting
// a stopped script that has not been released reuses its local block.
func (a *Arena) StartScript(name string, locals int) host.Hash {
	a.crit.Lock()
	defer a.crit.Unlock()

	h := Joaat(name)
	s, ok := a.scripts[h]
	if !ok {
		s = &script{name: name}
		a.scripts[h] = s
	}

	if s.released || !ok {
		s.locals = a.alloc(locals)
		s.released = false
	}
	s.refs++

	return h
}

// StopScript drops all references to the named script. The local block is
// kept.
func (a *Arena) StopScript(name string) error {
	a.crit.Lock()
	defer a.crit.Unlock()

	s, ok := a.scripts[Joaat(name)]
	if !ok {
		return fmt.Errorf("%w: %s", UnknownScript, name)
	}
	s.refs = 0
	return nil
}

// ReleaseScript stops the named script and nulls its local table.
func (a *Arena) ReleaseScript(name string) error {
	a.crit.Lock()
	defer a.crit.Unlock()

	s, ok := a.scripts[Joaat(name)]
	if !ok {
		return fmt.Errorf("%w: %s", UnknownScript, name)
	}
	s.refs = 0
	s.released = true
	return nil
}

// encode a Go value into the bytes stored in a word (or words for strings and
// vectors). the encoding matches the encoding used by the codec package.
func encode(v any) ([]byte, error) {
	switch v := v.(type) {
	case int:
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(v))), nil
	case int64:
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(v))), nil
	case int32:
		return binary.LittleEndian.AppendUint32(nil, uint32(v)), nil
	case uint32:
		return binary.LittleEndian.AppendUint32(nil, v), nil
	case float32:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(v)), nil
	case float64:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(v))), nil
	case string:
		return append([]byte(v), 0), nil
	case [3]float32:
		b := make([]byte, 3*host.WordSize)
		for i := range v {
			binary.LittleEndian.PutUint32(b[i*host.WordSize:], math.Float32bits(v[i]))
		}
		return b, nil
	}
	return nil, fmt.Errorf("arena: unsupported value type (%T)", v)
}

// SetGlobal writes the value to the global at index. Supported types are int,
// int32, int64, uint32, float32, float64, string and [3]float32.
func (a *Arena) SetGlobal(index int, v any) error {
	loc, ok := a.GlobalAddress(index)
	if !ok {
		return fmt.Errorf("%w: global %d", OutOfBounds, index)
	}
	b, err := encode(v)
	if err != nil {
		return err
	}
	return a.Poke(loc, b)
}

// SetLocal writes the value to the local at index of the named script. The
// script must have been started. Supported types are the same as for
// SetGlobal().
func (a *Arena) SetLocal(name string, index int, v any) error {
	loc, ok := a.ScriptLocalAddress(index, Joaat(name))
	if !ok {
		return fmt.Errorf("%w: local %d of %s", OutOfBounds, index, name)
	}
	b, err := encode(v)
	if err != nil {
		return err
	}
	return a.Poke(loc, b)
}
