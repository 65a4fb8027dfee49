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

// Package persist loads and saves watch records. The store is a single JSON
// document mapping a build version string to the list of records for that
// version:
//
//	{
//		"1.0.2802.0": [ { "addressIndex": 100, "type": "Int", ... } ],
//		"1.0.2944.0": []
//	}
//
// Only the records of the current build version are ever loaded. Records for
// other versions are left untouched by Save() when merging.
//
// The document may contain comments and trailing commas. A document that
// cannot be parsed is treated as empty by Load() and is overwritten (after a
// backup is made) by Save().
//
// The records of a version are checked against the embedded schema only when
// that version is loaded. Records of the current version that fail the check
// are treated as empty by Load(). Records of other versions are never checked
// and are kept by Save() even if they would fail.
package persist
