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

// Package mod is the memory watcher as seen by the host. The host calls
// Load() when the watcher is activated and Unload() when it is deactivated.
// Think() is called once per frame from the host's update loop and Draw()
// from the host's render loop while the debug panel is visible.
//
// The debug panel itself is provided by the gui/memwatcher package and is
// attached with AttachPanel().
package mod
