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

// Package address resolves watch addresses to host memory locations.
//
// An address is the triple of space, index and script hash. The global space
// is addressed through the host's global table and is independent of any
// script. The script-local space is addressed through the local table of a
// running script. A script that holds no references is not running and none
// of its locals resolve, whatever the state of its local table.
//
// Resolve() never caches. A location is obtained, used immediately and then
// discarded.
package address
