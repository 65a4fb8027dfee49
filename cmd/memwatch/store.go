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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/modalflag"
	"github.com/imgta/memwatch/persist"
	"github.com/imgta/memwatch/watches"
)

// describe a record as a single line. children are indented below the
// parent.
func describe(output io.Writer, rec watches.Record, indent int) {
	pad := strings.Repeat("  ", indent)

	s := fmt.Sprintf("%s%d %s", pad, rec.AddressIndex, rec.Type)
	if rec.ScriptHash != host.GlobalHash {
		s = fmt.Sprintf("%s %s (%08x)", s, rec.ScriptName, uint32(rec.ScriptHash))
	}
	if rec.Info != "" {
		s = fmt.Sprintf("%s %q", s, rec.Info)
	}
	if !rec.ShowInGame {
		s = fmt.Sprintf("%s [hidden]", s)
	}
	if rec.Type == codec.Array {
		s = fmt.Sprintf("%s of %s size=%d index=%d", s, rec.ArrayItemType, rec.ItemSize, rec.IndexInItem)
	}
	fmt.Fprintln(output, s)

	for _, c := range rec.ArrayWatches {
		describe(output, c, indent+1)
	}
}

func list(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	file := md.AddString("file", defaultStore(), "watch store")
	ver := md.AddString("version", "", "list only this build version")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	versions := []string{*ver}
	if *ver == "" {
		versions, err = persist.Versions(*file)
		if err != nil {
			return err
		}
	}

	for _, v := range versions {
		recs, err := persist.Read(*file, v)
		if err != nil {
			// the records of one version can be invalid without the
			// others being affected
			if *ver == "" && errors.Is(err, persist.StorageUnparseable) {
				fmt.Fprintf(output, "%s: unreadable\n", v)
				continue
			}
			return err
		}
		fmt.Fprintf(output, "%s: %d watches\n", v, len(recs))
		for _, rec := range recs {
			describe(output, rec, 1)
		}
	}

	return nil
}

func export(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	file := md.AddString("file", defaultStore(), "watch store")
	ver := md.AddString("version", "", "build version to export")
	useYAML := md.AddBool("yaml", false, "export as YAML rather than JSON")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *ver == "" {
		return fmt.Errorf("build version required for %s mode", md)
	}

	recs, err := persist.Read(*file, *ver)
	if err != nil {
		return err
	}

	if *useYAML {
		enc := yaml.NewEncoder(output)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	}

	b, err := json.MarshalIndent(recs, "", "\t")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = output.Write(b)
	return err
}

// confirmationRequired is returned by the clear command when the yes flag has
// not been given.
var confirmationRequired = errors.New("confirmation required")

func clearStore(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	file := md.AddString("file", defaultStore(), "watch store")
	ver := md.AddString("version", "", "build version to keep an empty list for")
	yes := md.AddBool("yes", false, "confirm that all saved watches should be lost")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *ver == "" {
		return fmt.Errorf("build version required for %s mode", md)
	}

	if !*yes {
		return fmt.Errorf("%w: all saved watches in %s will be lost (use --yes)", confirmationRequired, *file)
	}

	if err := persist.Reset(*file, *ver); err != nil {
		return err
	}

	fmt.Fprintf(output, "cleared %s\n", *file)

	return nil
}
