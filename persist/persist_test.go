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

package persist_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/persist"
	"github.com/imgta/memwatch/test"
	"github.com/imgta/memwatch/watches"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), persist.DefaultFilename)
}

func sample() []watches.Record {
	return []watches.Record{
		{
			AddressIndex: 100,
			Type:         codec.Int,
			ScriptName:   host.GlobalName,
			ShowInGame:   true,
			ItemSize:     1,
		},
		{
			AddressIndex:  50,
			Type:          codec.Array,
			ScriptName:    "shop",
			ScriptHash:    1234,
			Info:          "prices",
			ShowInGame:    true,
			ArrayItemType: codec.Float,
			ItemSize:      2,
			ArrayWatches: []watches.Record{
				{AddressIndex: 51, Type: codec.Float, ScriptName: "shop", ScriptHash: 1234, IsArrayItem: true, ShowInGame: false},
			},
		},
	}
}

func equalRecords(t *testing.T, a []watches.Record, b []watches.Record) {
	t.Helper()
	test.DemandEquality(t, len(a), len(b))
	for i := range a {
		test.ExpectEquality(t, a[i].AddressIndex, b[i].AddressIndex, i)
		test.ExpectEquality(t, a[i].Type, b[i].Type, i)
		test.ExpectEquality(t, a[i].ScriptName, b[i].ScriptName, i)
		test.ExpectEquality(t, a[i].ScriptHash, b[i].ScriptHash, i)
		test.ExpectEquality(t, a[i].Info, b[i].Info, i)
		test.ExpectEquality(t, a[i].ShowInGame, b[i].ShowInGame, i)
		test.ExpectEquality(t, a[i].IsArrayItem, b[i].IsArrayItem, i)
		test.ExpectEquality(t, a[i].ArrayItemType, b[i].ArrayItemType, i)
		test.ExpectEquality(t, a[i].ItemSize, b[i].ItemSize, i)
		test.ExpectEquality(t, a[i].IndexInItem, b[i].IndexInItem, i)
		equalRecords(t, a[i].ArrayWatches, b[i].ArrayWatches)
	}
}

func TestMissingStore(t *testing.T) {
	fn := storePath(t)

	recs, err := persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(recs), 0)

	// the store has been created with an empty list for the version
	v, err := persist.Versions(fn)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(v), 1)
	test.ExpectEquality(t, v[0], "1.0")
}

func TestRoundTrip(t *testing.T) {
	fn := storePath(t)

	test.DemandSuccess(t, persist.Save(fn, "1.0", sample(), true))
	test.DemandSuccess(t, persist.Save(fn, "2.0", sample()[:1], true))

	recs, err := persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	equalRecords(t, recs, sample())

	recs, err = persist.Load(fn, "2.0")
	test.ExpectSuccess(t, err)
	equalRecords(t, recs, sample()[:1])

	// saving an empty list for one version leaves the other intact
	test.DemandSuccess(t, persist.Save(fn, "2.0", nil, true))
	recs, err = persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	equalRecords(t, recs, sample())
	recs, err = persist.Load(fn, "2.0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(recs), 0)

	// without merging the other versions are lost
	test.DemandSuccess(t, persist.Save(fn, "3.0", sample(), false))
	v, err := persist.Versions(fn)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(v), 1)
	test.ExpectEquality(t, v[0], "3.0")
}

func TestReset(t *testing.T) {
	fn := storePath(t)

	test.DemandSuccess(t, persist.Save(fn, "1.0", sample(), true))
	test.DemandSuccess(t, persist.Save(fn, "2.0", sample(), true))
	test.DemandSuccess(t, persist.Reset(fn, "2.0"))

	v, err := persist.Versions(fn)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(v), 1)
	test.ExpectEquality(t, v[0], "2.0")

	recs, err := persist.Load(fn, "2.0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(recs), 0)
}

func TestCorruptStore(t *testing.T) {
	fn := storePath(t)
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`{"1.0": [ {"addressIndex": `), 0o600))

	// load degrades to empty
	recs, err := persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(recs), 0)

	_, err = persist.Read(fn, "1.0")
	test.ExpectSuccess(t, errors.Is(err, persist.StorageUnparseable))

	// save overwrites with the current version only
	test.ExpectSuccess(t, persist.Save(fn, "1.0", sample(), true))
	recs, err = persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	equalRecords(t, recs, sample())

	// the corrupt store was backed up
	dir, err := os.ReadDir(filepath.Dir(fn))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(dir), 2)
}

func TestSchemaFailure(t *testing.T) {
	fn := storePath(t)

	// valid JSON but an address index that is out of range
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`{"1.0": [ {"addressIndex": 1000000, "type": "Int"} ]}`), 0o600))
	_, err := persist.Read(fn, "1.0")
	test.ExpectSuccess(t, errors.Is(err, persist.StorageUnparseable))

	test.DemandSuccess(t, os.WriteFile(fn, []byte(`{"1.0": [ {"addressIndex": 1, "type": "Matrix"} ]}`), 0o600))
	_, err = persist.Read(fn, "1.0")
	test.ExpectSuccess(t, errors.Is(err, persist.StorageUnparseable))

	test.DemandSuccess(t, os.WriteFile(fn, []byte(`["1.0"]`), 0o600))
	_, err = persist.Read(fn, "1.0")
	test.ExpectSuccess(t, errors.Is(err, persist.StorageUnparseable))
}

func TestHandEditedStore(t *testing.T) {
	fn := storePath(t)

	doc := `{
	// watches for the current build
	"1.0": [
		{
			"addressIndex": 7,
			"type": 1, /* float */
			"info": "timer",
		},
	],
	"0.9": [],
}`
	test.DemandSuccess(t, os.WriteFile(fn, []byte(doc), 0o600))

	recs, err := persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(recs), 1)
	test.ExpectEquality(t, recs[0].AddressIndex, 7)
	test.ExpectEquality(t, recs[0].Type, codec.Float)
	test.ExpectEquality(t, recs[0].Info, "timer")

	// missing fields take default values
	test.ExpectEquality(t, recs[0].ScriptName, host.GlobalName)
	test.ExpectSuccess(t, recs[0].ShowInGame)
	test.ExpectEquality(t, recs[0].ItemSize, 1)

	// merging keeps the other version and writes plain JSON
	test.DemandSuccess(t, persist.Save(fn, "1.0", recs, true))
	v, err := persist.Versions(fn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.Join(v, ","), "0.9,1.0")

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, strings.Contains(string(data), "//"))
	test.ExpectSuccess(t, strings.Contains(string(data), `"type": "Float"`))
}

func TestInvalidOtherVersion(t *testing.T) {
	fn := storePath(t)

	// the records for 0.9 have a negative item index
	doc := `{
	"1.0": [ {"addressIndex": 7, "type": "Int"} ],
	"0.9": [ {"addressIndex": 5, "type": "Int", "indexInItem": -1} ]
}`
	test.DemandSuccess(t, os.WriteFile(fn, []byte(doc), 0o600))

	recs, err := persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(recs), 1)
	test.ExpectEquality(t, recs[0].AddressIndex, 7)

	_, err = persist.Read(fn, "0.9")
	test.ExpectSuccess(t, errors.Is(err, persist.StorageUnparseable))

	test.DemandSuccess(t, persist.Save(fn, "1.0", recs, true))
	v, err := persist.Versions(fn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.Join(v, ","), "0.9,1.0")

	// the invalid records are written back as they were read
	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(data), `"indexInItem": -1`))

	// no backup is made for a store that could be parsed
	entries, err := os.ReadDir(filepath.Dir(fn))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(entries), 1)
}

func TestInvalidCurrentVersion(t *testing.T) {
	fn := storePath(t)

	doc := `{
	"1.0": [ {"addressIndex": 1000000, "type": "Int"} ],
	"0.9": [ {"addressIndex": 5, "type": "Float"} ]
}`
	test.DemandSuccess(t, os.WriteFile(fn, []byte(doc), 0o600))

	// only the current version is treated as empty
	recs, err := persist.Load(fn, "1.0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(recs), 0)

	old, err := persist.Read(fn, "0.9")
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(old), 1)
	test.ExpectEquality(t, old[0].Type, codec.Float)

	test.DemandSuccess(t, persist.Save(fn, "1.0", sample(), true))
	v, err := persist.Versions(fn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.Join(v, ","), "0.9,1.0")

	recs, err = persist.Read(fn, "1.0")
	test.ExpectSuccess(t, err)
	equalRecords(t, recs, sample())
}
