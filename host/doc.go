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

// Package host defines the narrow interfaces through which MemWatch consumes
// the process it is injected into: the global and script-local address
// tables, script reference counts, name hashing, raw memory access and
// on-screen text drawing.
//
// A Location returned by the host is only valid for the operation that
// requested it. It must never be kept between ticks because the memory it
// points to can be freed when the owning script stops.
package host
