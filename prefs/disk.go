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

package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every prefs file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// the separator between key and value in the prefs file.
const keySep = " :: "

// NoPrefsFile is returned by Load() when the prefs file does not exist.
var NoPrefsFile = errors.New("no prefs file")

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: no path for prefs file")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

func (dsk *Disk) String() string {
	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add a preference value to the Disk. The key must be unique to the Disk and
// must not contain the key separator or a newline.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, strings.TrimSpace(keySep)) || strings.ContainsAny(key, "\n ") {
		return fmt.Errorf("prefs: illegal key (%s)", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return fmt.Errorf("prefs: key already added (%s)", key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all values registered with the Disk to their zero value.
func (dsk *Disk) Reset() error {
	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
	}
	return nil
}

// read the prefs file into a map of strings. an empty map and NoPrefsFile is
// returned if the file does not exist.
func (dsk *Disk) read() (map[string]string, error) {
	values := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, fmt.Errorf("%w: %s", NoPrefsFile, dsk.path)
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// first line is the boilerplate warning. it isn't required to be there
	// but there's no point in trying to parse it
	first := true

	for scanner.Scan() {
		ln := scanner.Text()
		if first {
			first = false
			if ln == WarningBoilerPlate {
				continue
			}
		}

		kv := strings.SplitN(ln, keySep, 2)
		if len(kv) != 2 {
			continue
		}
		values[kv[0]] = kv[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	return values, nil
}

// Save current preference values to disk. Keys in the prefs file that are not
// known to this Disk are preserved. Defunct keys are dropped.
func (dsk *Disk) Save() error {
	values, err := dsk.read()
	if err != nil && !errors.Is(err, NoPrefsFile) {
		return err
	}

	for k := range values {
		if isDefunct(k) {
			delete(values, k)
		}
	}

	for k, p := range dsk.entries {
		values[k] = p.String()
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, values[k]))
	}

	return writeFile(dsk.path, []byte(s.String()))
}

// Load preference values from disk. If saveOnFail is true then the current
// values are saved if the prefs file does not exist; otherwise a missing
// prefs file results in a NoPrefsFile error.
//
// Command line values set with SetCommandLine() are applied after the values
// in the file.
func (dsk *Disk) Load(saveOnFail bool) error {
	values, err := dsk.read()
	if err != nil {
		if !errors.Is(err, NoPrefsFile) || !saveOnFail {
			return err
		}
		if err := dsk.Save(); err != nil {
			return err
		}
	}

	for k, v := range values {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}

	for _, k := range dsk.keys() {
		if v, ok := takeCommandLine(k); ok {
			if err := dsk.entries[k].Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}

	return nil
}

// writeFile writes data to a temporary file in the same directory as path
// and then renames it into place.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("prefs: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}
