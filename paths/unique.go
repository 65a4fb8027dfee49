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

package paths

import (
	"fmt"
	"strings"
	"time"
)

// UniqueFilename creates a filename that (assuming a functioning clock) should
// not collide with any existing file. Note that the function does not test for
// this.
//
// Used to generate filenames for backups of unreadable watch stores.
//
// Format of returned string is:
//
//	prepend_YYYYMMDD_HHMMSS.ext
//
// The ext argument can be empty, in which case the filename has no extension.
func UniqueFilename(prepend string, ext string) string {
	fn := fmt.Sprintf("%s_%s", strings.TrimSpace(prepend), time.Now().Format("20060102_150405"))

	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext != "" {
		fn = fmt.Sprintf("%s.%s", fn, ext)
	}

	return fn
}
