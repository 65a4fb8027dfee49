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

package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/imgta/memwatch/logger"
	"github.com/imgta/memwatch/paths"
	"github.com/imgta/memwatch/watches"
)

// DefaultFilename is the name of the watch store in the settings folder.
const DefaultFilename = "MemWatch.json"

// StorageUnparseable is returned when the watch store exists but cannot be
// parsed, or when the records of a version do not satisfy the schema.
var StorageUnparseable = errors.New("watch storage cannot be parsed")

// the document is kept as raw messages so that the records of other
// versions are written back exactly as they were read
type document map[string]json.RawMessage

// parse the data as a document. comments and trailing commas are allowed. the
// records of each version are not checked until they are needed
func parse(data []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", StorageUnparseable, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not an object", StorageUnparseable)
	}
	return doc, nil
}

// read and parse the file. the os.ErrNotExist error is returned unwrapped if
// the file does not exist
func read(path string) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// records returns the records for the version in the document. the records
// are validated against the schema before they are decoded
func (doc document) records(version string) ([]watches.Record, error) {
	raw, ok := doc[version]
	if !ok {
		return []watches.Record{}, nil
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", StorageUnparseable, version, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", StorageUnparseable, version, err)
	}

	var recs []watches.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", StorageUnparseable, version, err)
	}
	if recs == nil {
		recs = []watches.Record{}
	}
	return recs, nil
}

func (doc document) set(version string, recs []watches.Record) error {
	if recs == nil {
		recs = []watches.Record{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	doc[version] = raw
	return nil
}

func write(path string, doc document) error {
	data, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("persist: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	return nil
}

// backup copies the unreadable file at path to a uniquely named file in the
// same directory.
func backup(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	ext := filepath.Ext(path)
	fn := filepath.Join(filepath.Dir(path), paths.UniqueFilename(strings.TrimSuffix(filepath.Base(path), ext), ext))
	if err := os.WriteFile(fn, data, 0o600); err != nil {
		logger.Logf(logger.Allow, "persist", "backup failed: %v", err)
		return
	}

	logger.Logf(logger.Allow, "persist", "unreadable store copied to %s", fn)
}

// Load returns the records for the build version. If the store does not exist
// then it is created with an empty list for the version.
//
// A store that cannot be parsed is logged and treated as empty. In this case
// the returned error is nil.
func Load(path string, version string) ([]watches.Record, error) {
	doc, err := read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Logf(logger.Allow, "persist", "creating %s", path)
			return []watches.Record{}, Reset(path, version)
		}
		if errors.Is(err, StorageUnparseable) {
			logger.Log(logger.Allow, "persist", err)
			return []watches.Record{}, nil
		}
		return nil, fmt.Errorf("persist: %w", err)
	}

	recs, err := doc.records(version)
	if err != nil {
		logger.Log(logger.Allow, "persist", err)
		return []watches.Record{}, nil
	}

	logger.Logf(logger.Allow, "persist", "loaded %d watches for %s", len(recs), version)

	return recs, nil
}

// Save the records for the build version.
//
// If merge is true then the existing store is read and only the entry for
// the version is replaced. If the existing store cannot be parsed then it is
// backed up and overwritten with just the records for the version.
//
// If merge is false the store is overwritten with just the records for the
// version.
func Save(path string, version string, recs []watches.Record, merge bool) error {
	doc := make(document)

	if merge {
		old, err := read(path)
		if err == nil {
			doc = old
		} else if errors.Is(err, StorageUnparseable) {
			logger.Log(logger.Allow, "persist", err)
			backup(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("persist: %w", err)
		}
	}

	if err := doc.set(version, recs); err != nil {
		return err
	}

	if err := write(path, doc); err != nil {
		return err
	}

	logger.Logf(logger.Allow, "persist", "saved %d watches for %s", len(recs), version)

	return nil
}

// Reset the store so that it contains only an empty list for the build
// version. Records for all other versions are lost.
func Reset(path string, version string) error {
	doc := make(document)
	if err := doc.set(version, nil); err != nil {
		return err
	}
	return write(path, doc)
}

// Versions returns the sorted list of build versions in the store.
func Versions(path string) ([]string, error) {
	doc, err := read(path)
	if err != nil {
		return nil, err
	}

	v := make([]string, 0, len(doc))
	for k := range doc {
		v = append(v, k)
	}
	sort.Strings(v)

	return v, nil
}

// Read returns the records for the build version without creating the store
// if it does not exist. Unlike Load(), a store that cannot be parsed is an
// error.
func Read(path string, version string) ([]watches.Record, error) {
	doc, err := read(path)
	if err != nil {
		return nil, err
	}
	return doc.records(version)
}
