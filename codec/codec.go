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
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/imgta/memwatch/host"
)

// sentinel errors returned by Decode() and Encode()
var (
	ReadOnly     = errors.New("value cannot be edited")
	NotDecodable = errors.New("value cannot be decoded")
	PeekError    = errors.New("cannot peek location")
	PokeError    = errors.New("cannot poke location")
)

// MaxStringLength is the maximum number of bytes read for a String value.
const MaxStringLength = 256

// MaxArrayItems is the maximum number of elements considered to be in an
// array. Element counts outside of the range zero to MaxArrayItems indicate
// that the location is not an array.
const MaxArrayItems = 1024

// Vector is the Go representation of a Vector3 value.
type Vector struct {
	X, Y, Z float32
}

func (v Vector) String() string {
	return fmt.Sprintf("%.4f, %.4f, %.4f", v.X, v.Y, v.Z)
}

func peek32(mem host.Memory, loc host.Location) (uint32, error) {
	var b [4]byte
	if err := mem.Peek(loc, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", PeekError, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func poke32(mem host.Memory, loc host.Location, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	if err := mem.Poke(loc, b[:]); err != nil {
		return fmt.Errorf("%w: %v", PokeError, err)
	}
	return nil
}

// ReadInt returns the 4-byte signed integer at the location.
func ReadInt(mem host.Memory, loc host.Location) (int32, error) {
	v, err := peek32(mem, loc)
	return int32(v), err
}

// WriteInt writes a 4-byte signed integer to the location.
func WriteInt(mem host.Memory, loc host.Location, v int32) error {
	return poke32(mem, loc, uint32(v))
}

// ReadFloat returns the 4-byte float at the location.
func ReadFloat(mem host.Memory, loc host.Location) (float32, error) {
	v, err := peek32(mem, loc)
	return math.Float32frombits(v), err
}

// WriteFloat writes a 4-byte float to the location.
func WriteFloat(mem host.Memory, loc host.Location, v float32) error {
	return poke32(mem, loc, math.Float32bits(v))
}

// ReadVector3 returns the three floats at the location. Each float is at the
// start of its own word.
func ReadVector3(mem host.Memory, loc host.Location) (Vector, error) {
	var v Vector
	var err error
	for i, f := range []*float32{&v.X, &v.Y, &v.Z} {
		*f, err = ReadFloat(mem, loc+host.Location(i*host.WordSize))
		if err != nil {
			return Vector{}, err
		}
	}
	return v, nil
}

// WriteVector3 writes the three floats to the location.
func WriteVector3(mem host.Memory, loc host.Location, v Vector) error {
	for i, f := range []float32{v.X, v.Y, v.Z} {
		if err := WriteFloat(mem, loc+host.Location(i*host.WordSize), f); err != nil {
			return err
		}
	}
	return nil
}

// ReadBitfield returns the 4-byte unsigned value at the location.
func ReadBitfield(mem host.Memory, loc host.Location) (uint32, error) {
	return peek32(mem, loc)
}

// WriteBitfield writes the 4-byte unsigned value to the location.
func WriteBitfield(mem host.Memory, loc host.Location, v uint32) error {
	return poke32(mem, loc, v)
}

// SetBit sets or clears a single bit of the Bitfield32 at the location.
func SetBit(mem host.Memory, loc host.Location, bit int, on bool) error {
	if bit < 0 || bit > 31 {
		return fmt.Errorf("codec: bit %d out of range", bit)
	}
	v, err := ReadBitfield(mem, loc)
	if err != nil {
		return err
	}
	if on {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	return WriteBitfield(mem, loc, v)
}

// ShiftLeft shifts the Bitfield32 at the location left by one bit.
func ShiftLeft(mem host.Memory, loc host.Location) error {
	v, err := ReadBitfield(mem, loc)
	if err != nil {
		return err
	}
	return WriteBitfield(mem, loc, v<<1)
}

// ShiftRight shifts the Bitfield32 at the location right by one bit.
func ShiftRight(mem host.Memory, loc host.Location) error {
	v, err := ReadBitfield(mem, loc)
	if err != nil {
		return err
	}
	return WriteBitfield(mem, loc, v>>1)
}

// ReadString returns the null-terminated string at the location. At most
// MaxStringLength bytes are read. A string that runs to the end of readable
// memory is returned without error.
func ReadString(mem host.Memory, loc host.Location) (string, error) {
	s := strings.Builder{}
	var b [1]byte
	for i := 0; i < MaxStringLength; i++ {
		if err := mem.Peek(loc+host.Location(i), b[:]); err != nil {
			if i == 0 {
				return "", fmt.Errorf("%w: %v", PeekError, err)
			}
			break
		}
		if b[0] == 0 {
			break
		}
		s.WriteByte(b[0])
	}
	return s.String(), nil
}

// ReadArrayLength returns the number of elements in the array at the
// location.
func ReadArrayLength(mem host.Memory, loc host.Location) (int, error) {
	n, err := ReadInt(mem, loc)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxArrayItems {
		return 0, fmt.Errorf("%w: array length %d out of range", NotDecodable, n)
	}
	return int(n), nil
}

// FormatBitfield returns the binary representation of a Bitfield32 value.
func FormatBitfield(v uint32) string {
	return fmt.Sprintf("%032b", v)
}

// FormatArray returns the text used for the value of an array with n
// elements.
func FormatArray(n int) string {
	return fmt.Sprintf("[%d]", n)
}

// Decode returns the text representation of the value at the location.
// Arrays cannot be decoded and return NotDecodable.
func Decode(mem host.Memory, typ Type, loc host.Location) (string, error) {
	switch typ {
	case Int:
		v, err := ReadInt(mem, loc)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(int(v)), nil

	case Float:
		v, err := ReadFloat(mem, loc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.4f", v), nil

	case String:
		return ReadString(mem, loc)

	case Vector3:
		v, err := ReadVector3(mem, loc)
		if err != nil {
			return "", err
		}
		return v.String(), nil

	case Bitfield32:
		v, err := ReadBitfield(mem, loc)
		if err != nil {
			return "", err
		}
		return FormatBitfield(v), nil

	case Array:
		return "", fmt.Errorf("%w: %v", NotDecodable, typ)
	}

	return "", fmt.Errorf("%w: %v", NotDecodable, typ)
}

// splitBase returns the digits of an integer and the base they should be parsed
// in. the sign, if any, is kept with the digits
func splitBase(text string) (string, int) {
	var sign string
	if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
		sign, text = text[:1], text[1:]
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return sign + text[2:], 16
	}
	return sign + text, 10
}

// Encode parses the text and writes the value to the location. The text
// formats accepted are the formats returned by Decode(). In addition, Int
// and Bitfield32 values accept a hexadecimal value with the 0x prefix. Without
// the prefix the value is decimal, so a leading zero does not mean octal.
// Vector3 values can be separated by commas or spaces.
//
// Strings and arrays cannot be encoded and return ReadOnly.
func Encode(mem host.Memory, typ Type, loc host.Location, text string) error {
	text = strings.TrimSpace(text)

	switch typ {
	case Int:
		digits, base := splitBase(text)
		v, err := strconv.ParseInt(digits, base, 32)
		if err != nil {
			return fmt.Errorf("codec: %w", err)
		}
		return WriteInt(mem, loc, int32(v))

	case Float:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return fmt.Errorf("codec: %w", err)
		}
		return WriteFloat(mem, loc, float32(v))

	case Vector3:
		f := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '(' || r == ')'
		})
		if len(f) != 3 {
			return fmt.Errorf("codec: vector requires three values (%s)", text)
		}
		var v [3]float32
		for i := range f {
			p, err := strconv.ParseFloat(f[i], 32)
			if err != nil {
				return fmt.Errorf("codec: %w", err)
			}
			v[i] = float32(p)
		}
		return WriteVector3(mem, loc, Vector{X: v[0], Y: v[1], Z: v[2]})

	case Bitfield32:
		// a string of 32 binary digits is the Decode() format. a
		// shorter string is hexadecimal or decimal
		digits, base := splitBase(text)
		if len(text) == 32 && strings.Trim(text, "01") == "" {
			digits, base = text, 2
		}
		v, err := strconv.ParseUint(digits, base, 32)
		if err != nil {
			return fmt.Errorf("codec: %w", err)
		}
		return WriteBitfield(mem, loc, uint32(v))

	case String, Array:
		return fmt.Errorf("%w: %v", ReadOnly, typ)
	}

	return fmt.Errorf("%w: %v", ReadOnly, typ)
}

// Editable returns true if values of the type can be encoded.
func Editable(typ Type) bool {
	switch typ {
	case Int, Float, Vector3, Bitfield32:
		return true
	}
	return false
}
