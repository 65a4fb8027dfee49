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
	"fmt"
	"sort"
	"strings"
	"sync"
)

// preference values specified on the command line. values are consumed
// when a Disk that knows about the key is loaded.
var commandLine struct {
	crit   sync.Mutex
	values map[string]string
}

// SetCommandLine parses a prefs string of the form "key::value; key::value"
// and replaces any previously set command line values. Malformed pairs are
// ignored.
func SetCommandLine(prefs string) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	commandLine.values = make(map[string]string)

	for _, p := range strings.Split(prefs, ";") {
		kv := strings.Split(p, "::")
		if len(kv) == 2 {
			commandLine.values[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
}

// UnusedCommandLine returns the command line values that have not yet been
// consumed by a Disk, in the same format as accepted by SetCommandLine().
func UnusedCommandLine() string {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	keys := make([]string, 0, len(commandLine.values))
	for key := range commandLine.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, key := range keys {
		s.WriteString(fmt.Sprintf("%s::%s; ", key, commandLine.values[key]))
	}

	return strings.TrimSuffix(s.String(), "; ")
}

// takeCommandLine returns the command line value for key. the value is
// deleted when it is returned.
func takeCommandLine(key string) (string, bool) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	v, ok := commandLine.values[key]
	if ok {
		delete(commandLine.values, key)
	}
	return v, ok
}
