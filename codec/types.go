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

package codec

import (
	"fmt"
	"strings"
)

// Type of the value at a memory location.
type Type int

// List of valid Type values. The order is significant: it is the order used
// when sorting watches and the order of names in the GUI.
const (
	Int Type = iota
	Float
	String
	Vector3
	Bitfield32
	Array
)

// Types lists the names of all types in Type order.
var Types = []string{"Int", "Float", "String", "Vector3", "Bitfield32", "Array"}

// ItemTypes lists the names of the types that can be used for array items.
// There are no nested arrays.
var ItemTypes = Types[:Array]

func (t Type) String() string {
	if t.Valid() {
		return Types[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid returns true if the type is one of the listed types.
func (t Type) Valid() bool {
	return t >= Int && t <= Array
}

// ParseType returns the Type for the name. The comparison is not case
// sensitive.
func ParseType(name string) (Type, error) {
	for i, n := range Types {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Type(i), nil
		}
	}
	return Int, fmt.Errorf("codec: unknown type (%s)", name)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("codec: invalid type (%d)", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. Types can be
// stored by name or by number.
func (t *Type) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		return t.UnmarshalText([]byte(strings.Trim(s, `"`)))
	}

	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fmt.Errorf("codec: invalid type (%s)", s)
	}
	if !Type(n).Valid() {
		return fmt.Errorf("codec: invalid type (%d)", n)
	}
	*t = Type(n)
	return nil
}
