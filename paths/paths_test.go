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

package paths_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/imgta/memwatch/paths"
	"github.com/imgta/memwatch/test"
)

func TestPaths(t *testing.T) {
	// run the test in a temporary directory that contains the base path so
	// that the user's config directory is never touched
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	tmp := t.TempDir()
	test.DemandSuccess(t, os.Chdir(tmp))
	defer os.Chdir(wd)
	test.DemandSuccess(t, os.Mkdir(".memwatch", 0o700))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".memwatch", "foo", "bar", "baz"))

	// the sub-path has been created
	_, err = os.Stat(filepath.Join(".memwatch", "foo", "bar"))
	test.ExpectSuccess(t, err)

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".memwatch", "baz"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".memwatch")
}

func TestUniqueFilename(t *testing.T) {
	re := regexp.MustCompile(`^memwatch_\d{8}_\d{6}\.json$`)
	test.ExpectSuccess(t, re.MatchString(paths.UniqueFilename("memwatch", ".json")))

	re = regexp.MustCompile(`^backup_\d{8}_\d{6}$`)
	test.ExpectSuccess(t, re.MatchString(paths.UniqueFilename("backup", "")))
}
