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

// Package arena implements the host interfaces with an in-process memory
// arena. It stands in for the game when testing and when running the memwatch
// command line tool without a game.
//
// Memory is allocated in words of host.WordSize bytes. The global table is a
// single block of words starting at index zero; indexes beyond the end of the
// block are null slots. Each script has its own block of local words. A
// stopped script holds no references but its block is not freed until
// ReleaseScript() is called, which makes it possible to check that stopped
// scripts are never read.
package arena
