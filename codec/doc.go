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

// Package codec decodes and encodes the values found at host memory
// locations.
//
// Values are little-endian. Int, Float and Bitfield32 occupy the first four
// bytes of a word. A Vector3 occupies three consecutive words with one float
// at the start of each. A String is a null-terminated sequence of bytes and is
// read-only. An Array cannot be decoded directly: the first word at the array
// location holds the number of elements and each element is decoded on its
// own according to the array's item type.
//
// There is no protection against writing to memory. A successful Encode()
// changes the host's memory immediately and cannot be undone.
package codec
