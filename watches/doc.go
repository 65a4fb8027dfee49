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

// Package watches implements the watch registry. A watch is a registered
// monitor of one location in host memory, decoded according to its type.
//
// The Registry owns every Entry. Entries are only mutated through the
// registry's command methods and are only read through BorrowWatches() and
// BorrowEntry(), both of which hold the registry's lock for the duration of
// the provided function. The Tick() function is the single per-frame refresh
// of liveness and decoded values.
//
// Watches of type Array have no scalar value. Instead, the first word at the
// array's location holds the number of elements and one child watch is kept
// for each element. The address index of the child at position i is always
// derived from the parent:
//
//	parent.AddressIndex + 1 + i*parent.ItemSize + parent.IndexInItem
//
// Memory locations are never kept between calls. Every tick and every value
// write resolves the location afresh.
package watches
