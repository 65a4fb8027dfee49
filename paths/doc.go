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

// Package paths contains functions to prepare paths to MemWatch resources.
//
// The ResourcePath() function returns the supplied resource prepended with the
// settings folder. For example, the following will return the path to the
// watch store.
//
//	pth, err := paths.ResourcePath("", "memwatch.json")
//
// The policy of ResourcePath() is simple: if the base resource path, currently
// defined to be ".memwatch", is present in the program's current directory
// then that is the base path that will used. If it is not present then the
// user's config directory is used. The package uses os.UserConfigDir() from
// the go standard library for this.
//
// On a modern Linux system, the path returned in the example above will be:
//
//	/home/user/.config/memwatch/memwatch.json
package paths
