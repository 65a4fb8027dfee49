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
	"encoding/json"

	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
)

// Record is the persisted form of an Entry. The transient fields of Entry
// are not included.
type Record struct {
	AddressIndex  int        `json:"addressIndex" yaml:"addressIndex"`
	Type          codec.Type `json:"type" yaml:"type"`
	ScriptName    string     `json:"scriptName" yaml:"scriptName"`
	ScriptHash    host.Hash  `json:"scriptHash" yaml:"scriptHash"`
	Info          string     `json:"info" yaml:"info,omitempty"`
	ShowInGame    bool       `json:"showInGame" yaml:"showInGame"`
	IsArrayItem   bool       `json:"isArrayItem" yaml:"isArrayItem,omitempty"`
	ArrayItemType codec.Type `json:"arrayItemType" yaml:"arrayItemType"`
	ItemSize      int        `json:"itemSize" yaml:"itemSize"`
	IndexInItem   int        `json:"indexInItem" yaml:"indexInItem"`
	ArrayWatches  []Record   `json:"arrayWatches,omitempty" yaml:"arrayWatches,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface. Missing fields
// take the same default values as a newly added watch.
func (rec *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	p := plain{
		ScriptName: host.GlobalName,
		ShowInGame: true,
		ItemSize:   1,
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*rec = Record(p)
	return nil
}

// NewRecord creates the Record for the Entry.
func NewRecord(e *Entry) Record {
	rec := Record{
		AddressIndex:  e.AddressIndex,
		Type:          e.Type,
		ScriptName:    e.ScriptName,
		ScriptHash:    e.ScriptHash,
		Info:          e.Info,
		ShowInGame:    e.ShowInGame,
		IsArrayItem:   e.IsArrayItem,
		ArrayItemType: e.ArrayItemType,
		ItemSize:      e.ItemSize,
		IndexInItem:   e.IndexInItem,
		ArrayWatches:  []Record{},
	}
	for _, c := range e.ArrayWatches {
		rec.ArrayWatches = append(rec.ArrayWatches, NewRecord(c))
	}
	return rec
}

// entry creates a new Entry from the record. the array children are derived
// from the parent with only the ShowInGame field taken from the child
// records
func (rec Record) entry() *Entry {
	e := &Entry{
		AddressIndex:  rec.AddressIndex,
		Type:          rec.Type,
		ScriptName:    rec.ScriptName,
		ScriptHash:    rec.ScriptHash,
		Info:          rec.Info,
		ShowInGame:    rec.ShowInGame,
		ArrayItemType: rec.ArrayItemType,
		ItemSize:      rec.ItemSize,
		IndexInItem:   rec.IndexInItem,
		Value:         UnavailableValue,
	}

	if e.Type == codec.Array {
		if e.ArrayItemType == codec.Array || !e.ArrayItemType.Valid() {
			e.ArrayItemType = codec.Int
		}
		if e.ItemSize < 1 {
			e.ItemSize = 1
		}
		if e.IndexInItem < 0 {
			e.IndexInItem = 0
		}
		e.derive(len(rec.ArrayWatches))
		for i, c := range e.ArrayWatches {
			c.ShowInGame = rec.ArrayWatches[i].ShowInGame
			c.Value = UnavailableValue
		}
	}

	return e
}
