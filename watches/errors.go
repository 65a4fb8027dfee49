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

package watches

import "errors"

// sentinel errors returned by the registry
var (
	DuplicateWatch = errors.New("this variable is already on the watch list")
	ArrayItem      = errors.New("array items cannot be changed independently")
	NotWatched     = errors.New("entry is not on the watch list")
	IndexRange     = errors.New("address index out of range")
	NestedArray    = errors.New("arrays cannot be nested")
	WrongType      = errors.New("entry is not of the required type")
)
