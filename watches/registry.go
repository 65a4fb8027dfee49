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
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/imgta/memwatch/address"
	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/logger"
)

// the maximum number of consecutive watches created by a single call to Add()
const maxCount = 100

// Params are the addressing parameters of a new watch. A ScriptName of
// host.GlobalName or the empty string indicates a global watch.
type Params struct {
	Index         int
	Type          codec.Type
	ScriptName    string
	Info          string
	ArrayItemType codec.Type
	ItemSize      int
	IndexInItem   int
}

// Registry is the collection of watch entries. All functions are safe for
// concurrent use.
type Registry struct {
	crit sync.Mutex

	res *address.Resolver
	mem host.Memory

	entries []*Entry

	// set by Add() and cleared by TakeScrollRequest()
	scroll bool
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry(res *address.Resolver, mem host.Memory) *Registry {
	return &Registry{
		res: res,
		mem: mem,
	}
}

// Len returns the number of top-level entries.
func (r *Registry) Len() int {
	r.crit.Lock()
	defer r.crit.Unlock()
	return len(r.entries)
}

// BorrowWatches gives the provided function the critical section and access
// to the list of top-level entries. Entries must not be changed and must not
// be retained after the function returns. Registry functions must not be
// called from inside the function.
func (r *Registry) BorrowWatches(f func([]*Entry)) {
	r.crit.Lock()
	defer r.crit.Unlock()
	f(r.entries)
}

// BorrowEntry is like BorrowWatches() but for a single entry. Returns false
// if the entry is no longer watched, in which case the function is not
// called.
func (r *Registry) BorrowEntry(e *Entry, f func(*Entry)) bool {
	r.crit.Lock()
	defer r.crit.Unlock()
	if !r.owns(e) {
		return false
	}
	f(e)
	return true
}

// TakeScrollRequest returns true if entries have been added since the last
// call to the function.
func (r *Registry) TakeScrollRequest() bool {
	r.crit.Lock()
	defer r.crit.Unlock()
	s := r.scroll
	r.scroll = false
	return s
}

// owns returns true if the entry is a top-level entry or an array item of a
// top-level entry. must be called with the critical section held
func (r *Registry) owns(e *Entry) bool {
	if e == nil {
		return false
	}
	for _, w := range r.entries {
		if w == e {
			return true
		}
		for _, c := range w.ArrayWatches {
			if c == e {
				return true
			}
		}
	}
	return false
}

// watched returns true if a top-level entry, other than the excluded entry,
// has the identifying tuple. must be called with the critical section held
func (r *Registry) watched(index int, hash host.Hash, typ codec.Type, exclude *Entry) bool {
	for _, w := range r.entries {
		if w != exclude && w.matches(index, hash, typ) {
			return true
		}
	}
	return false
}

// Add count new watches. The address index of each watch is one more than
// the previous. Nothing is added unless every watch can be added.
//
// The count is clamped to the range 1 to 100. For a script-local watch the
// script must be running. Every address must resolve and must not already be
// watched with the same type.
func (r *Registry) Add(p Params, count int) error {
	r.crit.Lock()
	defer r.crit.Unlock()

	err := r.add(p, count)
	if err != nil {
		logger.Logf(logger.Allow, "watches", "add: %v", err)
	}
	return err
}

func (r *Registry) add(p Params, count int) error {
	if count < 1 {
		count = 1
	} else if count > maxCount {
		count = maxCount
	}

	if p.Index < 0 || p.Index+count-1 > address.MaxIndex {
		return fmt.Errorf("%w: %d", IndexRange, p.Index)
	}

	if !p.Type.Valid() {
		return fmt.Errorf("watches: invalid type (%d)", int(p.Type))
	}

	if p.Type == codec.Array {
		if p.ArrayItemType == codec.Array {
			return NestedArray
		}
		if !p.ArrayItemType.Valid() {
			return fmt.Errorf("watches: invalid array item type (%d)", int(p.ArrayItemType))
		}
	}

	hash := r.res.HashOf(p.ScriptName)
	name := p.ScriptName
	if hash == host.GlobalHash {
		name = host.GlobalName
	} else if !r.res.Running(hash) {
		return fmt.Errorf("%w: %s", address.ScriptNotRunning, name)
	}

	for i := 0; i < count; i++ {
		if _, err := r.res.ResolveScript(p.Index+i, hash); err != nil {
			return err
		}
		if r.watched(p.Index+i, hash, p.Type, nil) {
			return fmt.Errorf("%w: %s %d (%s)", DuplicateWatch, name, p.Index+i, p.Type)
		}
	}

	for i := 0; i < count; i++ {
		e := &Entry{
			AddressIndex:  p.Index + i,
			Type:          p.Type,
			ScriptName:    name,
			ScriptHash:    hash,
			Info:          p.Info,
			ShowInGame:    true,
			ArrayItemType: p.ArrayItemType,
			ItemSize:      max(p.ItemSize, 1),
			IndexInItem:   max(p.IndexInItem, 0),
		}
		r.tick(e)
		r.entries = append(r.entries, e)
	}

	r.scroll = true

	return nil
}

// Remove the top-level entry and all of its array items.
func (r *Registry) Remove(e *Entry) error {
	r.crit.Lock()
	defer r.crit.Unlock()

	if e != nil && e.IsArrayItem {
		return ArrayItem
	}

	for i, w := range r.entries {
		if w == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}

	return NotWatched
}

// Clear all entries.
func (r *Registry) Clear() {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.entries = r.entries[:0]
}

// Sort the entries. Global entries are first followed by script-local entries
// ordered by script name. Entries with the same script are ordered by address
// index and then by type.
func (r *Registry) Sort() {
	r.crit.Lock()
	defer r.crit.Unlock()

	sort.SliceStable(r.entries, func(i, j int) bool {
		a := r.entries[i]
		b := r.entries[j]

		if a.IsGlobal() != b.IsGlobal() {
			return a.IsGlobal()
		}
		if a.ScriptName != b.ScriptName {
			return a.ScriptName < b.ScriptName
		}
		if a.AddressIndex != b.AddressIndex {
			return a.AddressIndex < b.AddressIndex
		}
		return a.Type < b.Type
	})
}

// Tick refreshes the liveness and value of every entry.
func (r *Registry) Tick() {
	r.crit.Lock()
	defer r.crit.Unlock()

	for _, e := range r.entries {
		r.tick(e)
	}
}

// tick a single entry and its array items. must be called with the critical
// section held
func (r *Registry) tick(e *Entry) {
	e.Running = r.res.Running(e.ScriptHash)

	loc, err := r.res.ResolveScript(e.AddressIndex, e.ScriptHash)
	if err != nil {
		e.unavailable()
	} else if e.Type == codec.Array {
		n, err := codec.ReadArrayLength(r.mem, loc)
		if err != nil {
			e.unavailable()
		} else {
			e.derive(n)
			e.Value = codec.FormatArray(n)
			e.Available = true
		}
	} else {
		v, err := codec.Decode(r.mem, e.Type, loc)
		if err != nil {
			e.unavailable()
		} else {
			e.Value = v
			e.Available = true
		}
	}

	for _, c := range e.ArrayWatches {
		r.tick(c)
	}
}

// Records returns the persisted form of every top-level entry.
func (r *Registry) Records() []Record {
	r.crit.Lock()
	defer r.crit.Unlock()

	recs := make([]Record, 0, len(r.entries))
	for _, e := range r.entries {
		recs = append(recs, NewRecord(e))
	}
	return recs
}

// Entries returns a deep copy of every top-level entry.
func (r *Registry) Entries() []Entry {
	r.crit.Lock()
	defer r.crit.Unlock()

	c := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		c = append(c, e.copy())
	}
	return c
}

// Replace all entries with entries created from the records. Records that
// are array items or have an invalid type or index are dropped. The script
// hash of every record is recalculated from the script name.
func (r *Registry) Replace(recs []Record) {
	r.crit.Lock()
	defer r.crit.Unlock()

	r.entries = r.entries[:0]

	for _, rec := range recs {
		if rec.IsArrayItem || !rec.Type.Valid() {
			logger.Logf(logger.Allow, "watches", "dropping record: %s %d", rec.ScriptName, rec.AddressIndex)
			continue
		}
		if rec.AddressIndex < 0 || rec.AddressIndex > address.MaxIndex {
			logger.Logf(logger.Allow, "watches", "dropping record: %s %d", rec.ScriptName, rec.AddressIndex)
			continue
		}

		rec.ScriptHash = r.res.HashOf(rec.ScriptName)
		if rec.ScriptHash == host.GlobalHash {
			rec.ScriptName = host.GlobalName
		}

		if r.watched(rec.AddressIndex, rec.ScriptHash, rec.Type, nil) {
			logger.Logf(logger.Allow, "watches", "dropping duplicate record: %s %d", rec.ScriptName, rec.AddressIndex)
			continue
		}

		r.entries = append(r.entries, rec.entry())
	}
}

// edit calls the function with the critical section held if the entry is
// watched. array items are rejected unless items is true
func (r *Registry) edit(e *Entry, items bool, f func() error) error {
	r.crit.Lock()
	defer r.crit.Unlock()

	if !r.owns(e) {
		return NotWatched
	}
	if e.IsArrayItem && !items {
		return ArrayItem
	}

	err := f()
	if err != nil {
		logger.Logf(logger.Allow, "watches", "%s: %v", e, err)
	}
	return err
}

// SetType changes the type of a top-level entry. Changing the type away from
// Array removes all array items.
func (r *Registry) SetType(e *Entry, typ codec.Type) error {
	return r.edit(e, false, func() error {
		if !typ.Valid() {
			return fmt.Errorf("watches: invalid type (%d)", int(typ))
		}
		if typ == e.Type {
			return nil
		}
		if r.watched(e.AddressIndex, e.ScriptHash, typ, e) {
			return fmt.Errorf("%w: %s %d (%s)", DuplicateWatch, e.ScriptName, e.AddressIndex, typ)
		}

		e.Type = typ
		if typ == codec.Array {
			if e.ArrayItemType == codec.Array || !e.ArrayItemType.Valid() {
				e.ArrayItemType = codec.Int
			}
			e.ItemSize = max(e.ItemSize, 1)
		} else {
			e.ArrayWatches = nil
		}
		r.tick(e)
		return nil
	})
}

// SetInfo changes the information text of a top-level entry.
func (r *Registry) SetInfo(e *Entry, info string) error {
	return r.edit(e, false, func() error {
		e.Info = info
		return nil
	})
}

// SetShowInGame changes whether the entry is drawn in the HUD. Array items can
// be changed independently of the parent.
func (r *Registry) SetShowInGame(e *Entry, show bool) error {
	return r.edit(e, true, func() error {
		e.ShowInGame = show
		return nil
	})
}

// SetArrayLayout changes the element type and layout of an Array entry. The
// address index of every array item is derived again.
func (r *Registry) SetArrayLayout(e *Entry, itemType codec.Type, itemSize int, indexInItem int) error {
	return r.edit(e, false, func() error {
		if e.Type != codec.Array {
			return fmt.Errorf("%w: %s is not an array", WrongType, e)
		}
		if itemType == codec.Array {
			return NestedArray
		}
		if !itemType.Valid() {
			return fmt.Errorf("watches: invalid array item type (%d)", int(itemType))
		}

		e.ArrayItemType = itemType
		e.ItemSize = max(itemSize, 1)
		e.IndexInItem = max(indexInItem, 0)
		e.derive(len(e.ArrayWatches))
		r.tick(e)
		return nil
	})
}

// SetScript changes the script of a top-level script-local entry. The script
// must be running.
func (r *Registry) SetScript(e *Entry, name string) error {
	return r.edit(e, false, func() error {
		if e.IsGlobal() {
			return fmt.Errorf("watches: cannot change the script of a global watch")
		}

		hash := r.res.HashOf(name)
		if hash == host.GlobalHash {
			return fmt.Errorf("watches: cannot change a script-local watch to a global watch")
		}
		if !r.res.Running(hash) {
			return fmt.Errorf("%w: %s", address.ScriptNotRunning, name)
		}
		if r.watched(e.AddressIndex, hash, e.Type, e) {
			return fmt.Errorf("%w: %s %d (%s)", DuplicateWatch, name, e.AddressIndex, e.Type)
		}

		e.ScriptName = name
		e.ScriptHash = hash
		e.derive(len(e.ArrayWatches))
		r.tick(e)
		return nil
	})
}

// poke resolves the location of the entry and calls the function with it.
// the location is not used after the function returns. must be called with
// the critical section held
func (r *Registry) poke(e *Entry, typ codec.Type, f func(host.Location) error) error {
	if typ != e.Type {
		return fmt.Errorf("%w: %s is not %s", WrongType, e, typ)
	}

	loc, err := r.res.ResolveScript(e.AddressIndex, e.ScriptHash)
	if err != nil {
		return err
	}

	if err := f(loc); err != nil {
		return err
	}

	r.tick(e)
	return nil
}

// Poke parses the text and writes the value to the memory location of the
// entry. The text is interpreted according to the entry's type.
func (r *Registry) Poke(e *Entry, text string) error {
	return r.edit(e, true, func() error {
		return r.poke(e, e.Type, func(loc host.Location) error {
			return codec.Encode(r.mem, e.Type, loc, text)
		})
	})
}

// PokeInt writes the value to the memory location of an Int entry.
func (r *Registry) PokeInt(e *Entry, v int32) error {
	return r.edit(e, true, func() error {
		return r.poke(e, codec.Int, func(loc host.Location) error {
			return codec.WriteInt(r.mem, loc, v)
		})
	})
}

// PokeFloat writes the value to the memory location of a Float entry.
func (r *Registry) PokeFloat(e *Entry, v float32) error {
	return r.edit(e, true, func() error {
		return r.poke(e, codec.Float, func(loc host.Location) error {
			return codec.WriteFloat(r.mem, loc, v)
		})
	})
}

// PokeVector3 writes the value to the memory location of a Vector3 entry.
func (r *Registry) PokeVector3(e *Entry, v codec.Vector) error {
	return r.edit(e, true, func() error {
		return r.poke(e, codec.Vector3, func(loc host.Location) error {
			return codec.WriteVector3(r.mem, loc, v)
		})
	})
}

// ToggleBit inverts a single bit of a Bitfield32 entry.
func (r *Registry) ToggleBit(e *Entry, bit int) error {
	return r.edit(e, true, func() error {
		if bit < 0 || bit > 31 {
			return fmt.Errorf("watches: bit %d out of range", bit)
		}
		return r.poke(e, codec.Bitfield32, func(loc host.Location) error {
			v, err := codec.ReadBitfield(r.mem, loc)
			if err != nil {
				return err
			}
			return codec.SetBit(r.mem, loc, bit, v&(1<<bit) == 0)
		})
	})
}

// ShiftLeft shifts the value of a Bitfield32 entry left by one bit.
func (r *Registry) ShiftLeft(e *Entry) error {
	return r.edit(e, true, func() error {
		return r.poke(e, codec.Bitfield32, func(loc host.Location) error {
			return codec.ShiftLeft(r.mem, loc)
		})
	})
}

// ShiftRight shifts the value of a Bitfield32 entry right by one bit.
func (r *Registry) ShiftRight(e *Entry) error {
	return r.edit(e, true, func() error {
		return r.poke(e, codec.Bitfield32, func(loc host.Location) error {
			return codec.ShiftRight(r.mem, loc)
		})
	})
}

// Peek returns the current value of an Int, Float, Vector3 or Bitfield32
// entry, read directly from memory. The type of the returned value is int32,
// float32, codec.Vector or uint32 respectively. Used by widgets that edit a
// value in place.
func (r *Registry) Peek(e *Entry) (any, error) {
	r.crit.Lock()
	defer r.crit.Unlock()

	if !r.owns(e) {
		return nil, NotWatched
	}

	loc, err := r.res.ResolveScript(e.AddressIndex, e.ScriptHash)
	if err != nil {
		return nil, err
	}

	switch e.Type {
	case codec.Int:
		return codec.ReadInt(r.mem, loc)
	case codec.Float:
		return codec.ReadFloat(r.mem, loc)
	case codec.Vector3:
		return codec.ReadVector3(r.mem, loc)
	case codec.Bitfield32:
		return codec.ReadBitfield(r.mem, loc)
	}

	return nil, fmt.Errorf("%w: %v", codec.ReadOnly, e.Type)
}

// IsUnavailable returns true if the error indicates that the address of a
// watch could not be resolved.
func IsUnavailable(err error) bool {
	return errors.Is(err, address.Unavailable)
}
