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

package address

import (
	"errors"
	"fmt"

	"github.com/imgta/memwatch/host"
)

// Space distinguishes the global address table from the script-local tables.
type Space int

// List of valid Space values.
const (
	Global Space = iota
	ScriptLocal
)

func (s Space) String() string {
	switch s {
	case Global:
		return "global"
	case ScriptLocal:
		return "local"
	}
	return "unknown space"
}

// SpaceOf returns the space implied by the script hash.
func SpaceOf(script host.Hash) Space {
	if script == host.GlobalHash {
		return Global
	}
	return ScriptLocal
}

// MaxIndex is the largest index accepted by the resolver.
const MaxIndex = 999999

// sentinel errors returned by Resolve(). note that ScriptNotRunning errors
// also match Unavailable with errors.Is()
var (
	Unavailable      = errors.New("cannot get memory address")
	ScriptNotRunning = fmt.Errorf("%w: script is not running", Unavailable)
)

// Resolver maps addresses to locations in host memory.
type Resolver struct {
	addr    host.Addresses
	scripts host.Scripts
}

// NewResolver is the preferred method of initialisation for the Resolver type.
func NewResolver(addr host.Addresses, scripts host.Scripts) *Resolver {
	return &Resolver{
		addr:    addr,
		scripts: scripts,
	}
}

// Running returns true if the script holds at least one reference. The global
// space is always running.
func (r *Resolver) Running(script host.Hash) bool {
	if script == host.GlobalHash {
		return true
	}
	return r.scripts.ReferenceCount(script) > 0
}

// HashOf returns the script hash for the name. The global name has the global
// hash.
func (r *Resolver) HashOf(name string) host.Hash {
	if name == host.GlobalName || name == "" {
		return host.GlobalHash
	}
	return r.scripts.HashOf(name)
}

// Resolve returns the location of the address. The returned location must
// not be kept.
func (r *Resolver) Resolve(space Space, index int, script host.Hash) (host.Location, error) {
	if index < 0 || index > MaxIndex {
		return 0, fmt.Errorf("%w: index %d out of range", Unavailable, index)
	}

	switch space {
	case Global:
		loc, ok := r.addr.GlobalAddress(index)
		if !ok || loc == 0 {
			return 0, fmt.Errorf("%w: global %d", Unavailable, index)
		}
		return loc, nil

	case ScriptLocal:
		if !r.Running(script) {
			return 0, fmt.Errorf("%w: %d", ScriptNotRunning, script)
		}
		loc, ok := r.addr.ScriptLocalAddress(index, script)
		if !ok || loc == 0 {
			return 0, fmt.Errorf("%w: local %d of script %d", Unavailable, index, script)
		}
		return loc, nil
	}

	return 0, fmt.Errorf("%w: %v", Unavailable, space)
}

// ResolveScript is a convenience function that resolves an index in the space
// implied by the script hash.
func (r *Resolver) ResolveScript(index int, script host.Hash) (host.Location, error) {
	return r.Resolve(SpaceOf(script), index, script)
}
