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

package watches

import (
	"fmt"

	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
)

// UnavailableValue is the Value of an entry that could not be resolved or
// decoded during the most recent tick.
const UnavailableValue = "unavailable"

// Entry is a single watched memory slot.
type Entry struct {
	AddressIndex int
	Type         codec.Type

	// the owning script. global watches have the name host.GlobalName and
	// the hash host.GlobalHash
	ScriptName string
	ScriptHash host.Hash

	Info       string
	ShowInGame bool

	// array items are created by the parent array and cannot change type or
	// be removed
	IsArrayItem bool

	// array fields. ItemSize and IndexInItem are measured in words
	ArrayItemType codec.Type
	ItemSize      int
	IndexInItem   int
	ArrayWatches  []*Entry

	// updated every tick
	Running   bool
	Value     string
	Available bool
}

// IsGlobal returns true if the entry is in the global space.
func (e *Entry) IsGlobal() bool {
	return e.ScriptHash == host.GlobalHash
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s %d (%s)", e.ScriptName, e.AddressIndex, e.Type)
}

// Label returns the index label of the entry as used in the HUD and the
// debugger panel. Array items are labelled with their position in the parent
// and the member offset.
func (e *Entry) Label(parent *Entry, position int, hex bool) string {
	idx := e.AddressIndex
	if parent != nil {
		idx = parent.AddressIndex
	}

	var s string
	if hex {
		s = fmt.Sprintf("0x%x", idx)
	} else {
		s = fmt.Sprintf("%d", idx)
	}

	if parent != nil {
		s = fmt.Sprintf("%s[%d]", s, position)
		if parent.IndexInItem > 0 {
			s = fmt.Sprintf("%s.f_%d", s, parent.IndexInItem)
		}
	}

	return s
}

// ChildIndex returns the address index of the array element at position.
func (e *Entry) ChildIndex(position int) int {
	return e.AddressIndex + 1 + position*e.ItemSize + e.IndexInItem
}

// resize the number of array watches and derive the fields of every child
// from the parent. the ShowInGame field of existing children is kept
func (e *Entry) derive(n int) {
	if e.Type != codec.Array {
		e.ArrayWatches = nil
		return
	}

	if n < 0 {
		n = 0
	} else if n > codec.MaxArrayItems {
		n = codec.MaxArrayItems
	}

	if n < len(e.ArrayWatches) {
		e.ArrayWatches = e.ArrayWatches[:n]
	}
	for len(e.ArrayWatches) < n {
		e.ArrayWatches = append(e.ArrayWatches, &Entry{ShowInGame: true})
	}

	for i, c := range e.ArrayWatches {
		c.AddressIndex = e.ChildIndex(i)
		c.Type = e.ArrayItemType
		c.ScriptName = e.ScriptName
		c.ScriptHash = e.ScriptHash
		c.IsArrayItem = true
		c.ItemSize = 0
		c.IndexInItem = 0
		c.ArrayWatches = nil
	}
}

func (e *Entry) unavailable() {
	e.Value = UnavailableValue
	e.Available = false
}

// copy returns a deep copy of the entry.
func (e *Entry) copy() Entry {
	c := *e
	c.ArrayWatches = make([]*Entry, len(e.ArrayWatches))
	for i := range e.ArrayWatches {
		cc := e.ArrayWatches[i].copy()
		c.ArrayWatches[i] = &cc
	}
	return c
}

// matches returns true if the entry has the identifying tuple.
func (e *Entry) matches(index int, hash host.Hash, typ codec.Type) bool {
	return e.AddressIndex == index && e.ScriptHash == hash && e.Type == typ
}
