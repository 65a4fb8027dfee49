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

package watches_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/imgta/memwatch/address"
	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/host/arena"
	"github.com/imgta/memwatch/test"
	"github.com/imgta/memwatch/watches"
)

func newRegistry() (*arena.Arena, *watches.Registry) {
	a := arena.NewArena("1.0", 1000)
	return a, watches.NewRegistry(address.NewResolver(a, a), a)
}

func first(r *watches.Registry) *watches.Entry {
	var e *watches.Entry
	r.BorrowWatches(func(w []*watches.Entry) {
		if len(w) > 0 {
			e = w[0]
		}
	})
	return e
}

func TestGlobalInt(t *testing.T) {
	a, r := newRegistry()

	test.DemandSuccess(t, a.SetGlobal(100, 99))
	test.ExpectSuccess(t, r.Add(watches.Params{Index: 100, Type: codec.Int}, 1))
	test.ExpectEquality(t, r.Len(), 1)

	e := first(r)
	test.ExpectEquality(t, e.ScriptHash, host.GlobalHash)
	test.ExpectEquality(t, e.ScriptName, host.GlobalName)
	test.ExpectSuccess(t, e.IsGlobal())

	r.Tick()
	test.ExpectEquality(t, e.Value, "99")
	test.ExpectSuccess(t, e.Available)
	test.ExpectSuccess(t, e.Running)

	test.DemandSuccess(t, a.SetGlobal(100, -7))
	r.Tick()
	test.ExpectEquality(t, e.Value, "-7")
}

func TestUnavailable(t *testing.T) {
	a, r := newRegistry()

	h := a.StartScript("shop", 10)
	test.DemandSuccess(t, a.SetLocal("shop", 2, 5))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 2, Type: codec.Int, ScriptName: "shop"}, 1))

	e := first(r)
	test.ExpectEquality(t, e.ScriptHash, h)
	r.Tick()
	test.ExpectEquality(t, e.Value, "5")
	test.ExpectSuccess(t, e.Running)

	// the local table still exists but the script is stopped
	test.DemandSuccess(t, a.StopScript("shop"))
	r.Tick()
	test.ExpectFailure(t, e.Running)
	test.ExpectFailure(t, e.Available)
	test.ExpectEquality(t, e.Value, watches.UnavailableValue)

	// liveness and value recover when the script restarts
	a.StartScript("shop", 10)
	r.Tick()
	test.ExpectSuccess(t, e.Running)
	test.ExpectEquality(t, e.Value, "5")
}

func TestAddRejections(t *testing.T) {
	a, r := newRegistry()

	test.DemandSuccess(t, r.Add(watches.Params{Index: 10, Type: codec.Int}, 1))

	err := r.Add(watches.Params{Index: 10, Type: codec.Int}, 1)
	test.ExpectSuccess(t, errors.Is(err, watches.DuplicateWatch))
	test.ExpectEquality(t, r.Len(), 1)

	// same index with a different type is a different watch
	test.ExpectSuccess(t, r.Add(watches.Params{Index: 10, Type: codec.Float}, 1))
	test.ExpectEquality(t, r.Len(), 2)

	// a range that overlaps an existing watch adds nothing
	err = r.Add(watches.Params{Index: 8, Type: codec.Int}, 5)
	test.ExpectSuccess(t, errors.Is(err, watches.DuplicateWatch))
	test.ExpectEquality(t, r.Len(), 2)

	// a range that runs off the end of the global table adds nothing
	err = r.Add(watches.Params{Index: 998, Type: codec.Int}, 5)
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))
	test.ExpectEquality(t, r.Len(), 2)

	err = r.Add(watches.Params{Index: address.MaxIndex + 1, Type: codec.Int}, 1)
	test.ExpectSuccess(t, errors.Is(err, watches.IndexRange))

	err = r.Add(watches.Params{Index: 0, Type: codec.Array, ArrayItemType: codec.Array}, 1)
	test.ExpectSuccess(t, errors.Is(err, watches.NestedArray))

	err = r.Add(watches.Params{Index: 0, Type: codec.Int, ScriptName: "shop"}, 1)
	test.ExpectSuccess(t, errors.Is(err, address.ScriptNotRunning))
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))

	a.StartScript("shop", 4)
	err = r.Add(watches.Params{Index: 4, Type: codec.Int, ScriptName: "shop"}, 1)
	test.ExpectSuccess(t, errors.Is(err, address.Unavailable))
	test.ExpectFailure(t, errors.Is(err, address.ScriptNotRunning))
	test.ExpectEquality(t, r.Len(), 2)
}

func TestAddRange(t *testing.T) {
	_, r := newRegistry()

	test.ExpectFailure(t, r.TakeScrollRequest())
	test.DemandSuccess(t, r.Add(watches.Params{Index: 20, Type: codec.Float, Info: "speed"}, 4))
	test.ExpectSuccess(t, r.TakeScrollRequest())
	test.ExpectFailure(t, r.TakeScrollRequest())

	r.BorrowWatches(func(w []*watches.Entry) {
		test.DemandEquality(t, len(w), 4)
		for i, e := range w {
			test.ExpectEquality(t, e.AddressIndex, 20+i)
			test.ExpectEquality(t, e.Info, "speed")
			test.ExpectSuccess(t, e.ShowInGame)
		}
	})

	// count is clamped
	test.DemandSuccess(t, r.Add(watches.Params{Index: 500, Type: codec.Int}, 1000))
	test.ExpectEquality(t, r.Len(), 104)
	test.DemandSuccess(t, r.Add(watches.Params{Index: 700, Type: codec.Int}, 0))
	test.ExpectEquality(t, r.Len(), 105)
}

func TestSort(t *testing.T) {
	a, r := newRegistry()
	a.StartScript("b_script", 10)
	a.StartScript("a_script", 10)

	test.DemandSuccess(t, r.Add(watches.Params{Index: 5, Type: codec.Int, ScriptName: "b_script"}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 7, Type: codec.Float}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 1, Type: codec.Int, ScriptName: "a_script"}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 7, Type: codec.Int}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 3, Type: codec.Int}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 0, Type: codec.Int, ScriptName: "a_script"}, 1))

	type key struct {
		name  string
		index int
		typ   codec.Type
	}

	order := func() []key {
		var k []key
		r.BorrowWatches(func(w []*watches.Entry) {
			for _, e := range w {
				k = append(k, key{e.ScriptName, e.AddressIndex, e.Type})
			}
		})
		return k
	}

	expected := []key{
		{host.GlobalName, 3, codec.Int},
		{host.GlobalName, 7, codec.Int},
		{host.GlobalName, 7, codec.Float},
		{"a_script", 0, codec.Int},
		{"a_script", 1, codec.Int},
		{"b_script", 5, codec.Int},
	}

	r.Sort()
	sorted := order()
	test.DemandEquality(t, len(sorted), len(expected))
	for i := range expected {
		test.ExpectEquality(t, sorted[i], expected[i], i)
	}

	r.Sort()
	second := order()
	for i := range sorted {
		test.ExpectEquality(t, second[i], sorted[i], i)
	}
}

func TestArray(t *testing.T) {
	a, r := newRegistry()

	test.DemandSuccess(t, a.SetGlobal(50, 3))
	test.DemandSuccess(t, a.SetGlobal(51, float32(1.0)))
	test.DemandSuccess(t, a.SetGlobal(53, float32(2.0)))
	test.DemandSuccess(t, a.SetGlobal(55, float32(3.0)))

	test.DemandSuccess(t, r.Add(watches.Params{
		Index:         50,
		Type:          codec.Array,
		ArrayItemType: codec.Float,
		ItemSize:      2,
		IndexInItem:   0,
	}, 1))

	e := first(r)
	r.Tick()
	test.ExpectEquality(t, e.Value, "[3]")
	test.DemandEquality(t, len(e.ArrayWatches), 3)
	for i, c := range e.ArrayWatches {
		test.ExpectEquality(t, c.AddressIndex, 51+i*2, i)
		test.ExpectEquality(t, c.Type, codec.Float, i)
		test.ExpectEquality(t, c.Value, []string{"1.0000", "2.0000", "3.0000"}[i], i)
		test.ExpectSuccess(t, c.IsArrayItem, i)
	}

	// change of layout derives every child again
	test.ExpectSuccess(t, r.SetArrayLayout(e, codec.Int, 3, 1))
	for i, c := range e.ArrayWatches {
		test.ExpectEquality(t, c.AddressIndex, 50+1+i*3+1, i)
		test.ExpectEquality(t, c.Type, codec.Int, i)
	}

	err := r.SetArrayLayout(e, codec.Array, 1, 0)
	test.ExpectSuccess(t, errors.Is(err, watches.NestedArray))

	// the number of children follows the count in memory
	test.DemandSuccess(t, a.SetGlobal(50, 5))
	r.Tick()
	test.ExpectEquality(t, len(e.ArrayWatches), 5)
	test.DemandSuccess(t, a.SetGlobal(50, 1))
	r.Tick()
	test.ExpectEquality(t, len(e.ArrayWatches), 1)

	// array items cannot be removed or retyped
	c := e.ArrayWatches[0]
	test.ExpectSuccess(t, errors.Is(r.Remove(c), watches.ArrayItem))
	test.ExpectSuccess(t, errors.Is(r.SetType(c, codec.Float), watches.ArrayItem))
	test.ExpectSuccess(t, r.SetShowInGame(c, false))
	test.ExpectFailure(t, c.ShowInGame)

	// changing type away from array clears the children
	test.ExpectSuccess(t, r.SetType(e, codec.Int))
	test.ExpectEquality(t, len(e.ArrayWatches), 0)
	test.ExpectEquality(t, e.Value, "1")
}

func TestRemove(t *testing.T) {
	a, r := newRegistry()
	test.DemandSuccess(t, a.SetGlobal(10, 2))

	test.DemandSuccess(t, r.Add(watches.Params{Index: 10, Type: codec.Array, ArrayItemType: codec.Int}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 20, Type: codec.Int}, 1))

	e := first(r)
	test.DemandEquality(t, len(e.ArrayWatches), 2)
	c := e.ArrayWatches[1]

	test.ExpectSuccess(t, r.Remove(e))
	test.ExpectEquality(t, r.Len(), 1)

	// the children went with the parent
	test.ExpectSuccess(t, errors.Is(r.SetShowInGame(c, true), watches.NotWatched))
	test.ExpectSuccess(t, errors.Is(r.Remove(e), watches.NotWatched))
	test.ExpectFailure(t, r.BorrowEntry(e, func(*watches.Entry) {}))

	r.Clear()
	test.ExpectEquality(t, r.Len(), 0)
}

func TestEdit(t *testing.T) {
	a, r := newRegistry()
	a.StartScript("main", 10)
	a.StartScript("shop", 10)

	test.DemandSuccess(t, r.Add(watches.Params{Index: 1, Type: codec.Int, ScriptName: "main"}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 1, Type: codec.Int, ScriptName: "shop"}, 1))
	e := first(r)

	err := r.SetScript(e, "shop")
	test.ExpectSuccess(t, errors.Is(err, watches.DuplicateWatch))
	err = r.SetScript(e, "stopped")
	test.ExpectSuccess(t, errors.Is(err, address.ScriptNotRunning))
	test.ExpectEquality(t, e.ScriptName, "main")

	a.StartScript("garage", 10)
	test.ExpectSuccess(t, r.SetScript(e, "garage"))
	test.ExpectEquality(t, e.ScriptName, "garage")
	test.ExpectEquality(t, e.ScriptHash, arena.Joaat("garage"))

	test.ExpectSuccess(t, r.SetInfo(e, "money"))
	test.ExpectSuccess(t, r.BorrowEntry(e, func(e *watches.Entry) {
		test.ExpectEquality(t, e.Info, "money")
	}))

	// a type change that would duplicate another watch is rejected
	test.DemandSuccess(t, r.Add(watches.Params{Index: 1, Type: codec.Float, ScriptName: "garage"}, 1))
	err = r.SetType(e, codec.Float)
	test.ExpectSuccess(t, errors.Is(err, watches.DuplicateWatch))
	test.ExpectEquality(t, e.Type, codec.Int)
}

func TestPoke(t *testing.T) {
	a, r := newRegistry()

	test.DemandSuccess(t, r.Add(watches.Params{Index: 1, Type: codec.Int}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 2, Type: codec.Bitfield32}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 3, Type: codec.Vector3}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 10, Type: codec.String}, 1))

	var w []*watches.Entry
	r.BorrowWatches(func(e []*watches.Entry) {
		w = append(w, e...)
	})

	test.ExpectSuccess(t, r.Poke(w[0], "42"))
	test.ExpectEquality(t, w[0].Value, "42")
	test.ExpectSuccess(t, r.PokeInt(w[0], 43))
	test.ExpectEquality(t, w[0].Value, "43")
	v, err := r.Peek(w[0])
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v.(int32), 43)

	test.ExpectSuccess(t, errors.Is(r.PokeFloat(w[0], 1.0), watches.WrongType))

	test.ExpectSuccess(t, r.ToggleBit(w[1], 1))
	test.ExpectSuccess(t, r.ShiftLeft(w[1]))
	test.ExpectSuccess(t, r.ToggleBit(w[1], 0))
	b, _ := codec.ReadBitfield(a, mustGlobal(t, a, 2))
	test.ExpectEquality(t, b, 5)
	test.ExpectSuccess(t, r.ShiftRight(w[1]))
	test.ExpectEquality(t, w[1].Value, "00000000000000000000000000000010")
	test.ExpectFailure(t, r.ToggleBit(w[1], 32))

	test.ExpectSuccess(t, r.PokeVector3(w[2], codec.Vector{X: 1, Y: 2, Z: 3}))
	test.ExpectEquality(t, w[2].Value, "1.0000, 2.0000, 3.0000")

	test.ExpectSuccess(t, errors.Is(r.Poke(w[3], "text"), codec.ReadOnly))
}

func mustGlobal(t *testing.T, a *arena.Arena, index int) host.Location {
	t.Helper()
	loc, ok := a.GlobalAddress(index)
	test.DemandSuccess(t, ok)
	return loc
}

func TestRecords(t *testing.T) {
	a, r := newRegistry()
	test.DemandSuccess(t, a.SetGlobal(50, 2))
	a.StartScript("shop", 10)

	test.DemandSuccess(t, r.Add(watches.Params{Index: 50, Type: codec.Array, ArrayItemType: codec.Float, ItemSize: 2}, 1))
	test.DemandSuccess(t, r.Add(watches.Params{Index: 3, Type: codec.Int, ScriptName: "shop", Info: "price"}, 1))
	e := first(r)
	test.DemandSuccess(t, r.SetShowInGame(e.ArrayWatches[1], false))

	recs := r.Records()
	test.DemandEquality(t, len(recs), 2)
	test.ExpectEquality(t, len(recs[0].ArrayWatches), 2)
	test.ExpectSuccess(t, recs[0].ArrayWatches[0].IsArrayItem)

	_, r2 := newRegistry()
	r2.Replace(recs)
	recs2 := r2.Records()
	test.DemandEquality(t, len(recs2), 2)
	test.ExpectEquality(t, recs2[1].ScriptName, "shop")
	test.ExpectEquality(t, recs2[1].ScriptHash, arena.Joaat("shop"))
	test.ExpectEquality(t, recs2[1].Info, "price")
	test.DemandEquality(t, len(recs2[0].ArrayWatches), 2)
	test.ExpectEquality(t, recs2[0].ArrayWatches[0].AddressIndex, 51)
	test.ExpectEquality(t, recs2[0].ArrayWatches[1].AddressIndex, 53)
	test.ExpectFailure(t, recs2[0].ArrayWatches[1].ShowInGame)

	// copies are not affected by changes to the registry
	c := r2.Entries()
	r2.Clear()
	test.ExpectEquality(t, len(c), 2)
	test.ExpectEquality(t, len(c[0].ArrayWatches), 2)

	// bad records are dropped
	r2.Replace([]watches.Record{
		{AddressIndex: -1, Type: codec.Int, ScriptName: host.GlobalName},
		{AddressIndex: 1, Type: codec.Int, ScriptName: host.GlobalName, IsArrayItem: true},
		{AddressIndex: 1, Type: codec.Int, ScriptName: host.GlobalName},
		{AddressIndex: 1, Type: codec.Int, ScriptName: host.GlobalName},
	})
	test.ExpectEquality(t, r2.Len(), 1)
}

// the host frame, the overlay and the editing functions all run at the same
// time. run with the race detector
func TestConcurrentTick(t *testing.T) {
	a, r := newRegistry()

	const rounds = 200

	var wg sync.WaitGroup
	wg.Add(4)

	// host frame
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = a.SetGlobal(i%50, i)
			r.Tick()
		}
	}()

	// overlay
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			r.BorrowWatches(func(w []*watches.Entry) {
				for _, e := range w {
					_ = e.Value
					_ = e.Available
				}
			})
			r.TakeScrollRequest()
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = r.Add(watches.Params{Index: i % 50, Type: codec.Int}, 2)
			r.Sort()
			if e := first(r); e != nil {
				_ = r.Remove(e)
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if i%20 == 0 {
				r.Clear()
			}
			_ = r.Add(watches.Params{Index: 500 + i%50, Type: codec.Float}, 1)
			_ = r.Records()
		}
	}()

	wg.Wait()

	// no watch is duplicated and every watch can be read
	r.Tick()
	type key struct {
		index int
		typ   codec.Type
	}
	seen := make(map[key]bool)
	r.BorrowWatches(func(w []*watches.Entry) {
		for _, e := range w {
			k := key{index: e.AddressIndex, typ: e.Type}
			test.ExpectFailure(t, seen[k])
			seen[k] = true
			test.ExpectSuccess(t, e.Available)
		}
	})
	test.ExpectEquality(t, len(seen), r.Len())
}
