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
	"strings"

	"github.com/imgta/memwatch/host"
)

// Joaat is the Jenkins one-at-a-time hash of the lower case string. This is
// the hash used by the game to identify scripts by name.
func Joaat(s string) host.Hash {
	var h uint32
	for _, c := range []byte(strings.ToLower(s)) {
		h += uint32(c)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return host.Hash(h)
}
