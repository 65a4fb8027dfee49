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

// Package prefs facilitates the storage of preferential values in the MemWatch
// system. It is intended to be used for values that are set by the user, such
// as the HUD font size or whether watches should be saved on exit.
//
// Values are registered with a Disk instance using the Add() function. The
// Disk can then be saved and loaded as required. Saving a Disk does not
// clobber keys in the prefs file that the Disk instance does not know about,
// so many Disk instances can share the same file.
//
// Preference values can be overridden on the command line with
// SetCommandLine(). Overridden values are applied the next time the relevant
// Disk is loaded.
package prefs
