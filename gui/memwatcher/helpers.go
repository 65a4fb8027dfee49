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

package memwatcher

import (
	"strconv"
	"strings"

	"github.com/inkyblackness/imgui-go/v4"
)

var (
	colWarning = imgui.Vec4{X: 1.0, Y: 0.2, Z: 0.2, W: 1.0}
	colStopped = imgui.Vec4{X: 0.6, Y: 0.6, Z: 0.6, W: 1.0}
	colLabel   = imgui.Vec4{X: 0.9, Y: 0.8, Z: 0.4, W: 1.0}
)

// the characters allowed in the different number inputs
const (
	decimalChars = "-0123456789"
	hexChars     = "abcdefABCDEF0123456789"
	floatChars   = "-+.eE0123456789"
)

// imguiInput is a text input that only accepts the allowed characters.
// Returns true when enter is pressed.
func imguiInput(label string, content *string, allowedChars string) bool {
	cb := func(d imgui.InputTextCallbackData) int32 {
		if d.EventFlag() == imgui.InputTextFlagsCallbackCharFilter {
			if !strings.ContainsRune(allowedChars, d.EventChar()) {
				return -1
			}
		}
		return 0
	}

	flags := imgui.InputTextFlagsCallbackCharFilter |
		imgui.InputTextFlagsEnterReturnsTrue |
		imgui.InputTextFlagsAutoSelectAll

	return imgui.InputTextV(label, content, flags, cb)
}

// imguiIntInput shows the value in an input that accepts decimal or
// hexadecimal numbers. Returns the new value and true when enter is pressed
// and the input can be parsed.
func imguiIntInput(label string, v int, hex bool) (int, bool) {
	var s string
	var chars string
	if hex {
		s = strconv.FormatInt(int64(v), 16)
		chars = hexChars
	} else {
		s = strconv.Itoa(v)
		chars = decimalChars
	}

	imguiLabel(label)
	if !imguiInput("##"+label, &s, chars) {
		return v, false
	}

	base := 10
	if hex {
		base = 16
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), base, 64)
	if err != nil {
		return v, false
	}
	return int(n), true
}

// imguiLabel places a label on the same line as the next widget.
func imguiLabel(text string) {
	imgui.AlignTextToFramePadding()
	imgui.Text(text)
	imgui.SameLine()
}

// pads imgui.Separator with additional spacing.
func imguiSeparator() {
	imgui.Spacing()
	imgui.Separator()
	imgui.Spacing()
}

// imguiColorText displays text in the specified colour.
func imguiColorText(text string, col imgui.Vec4) {
	imgui.PushStyleColor(imgui.StyleColorText, col)
	imgui.Text(text)
	imgui.PopStyleColor()
}

// imguiTypeCombo is a combo box for selecting one of the names. Returns the
// index of the selected name and true if the selection changed.
func imguiTypeCombo(label string, names []string, selected int) (int, bool) {
	preview := ""
	if selected >= 0 && selected < len(names) {
		preview = names[selected]
	}

	changed := false
	imguiLabel(label)
	if imgui.BeginComboV("##"+label, preview, imgui.ComboFlagsNone) {
		for i, n := range names {
			if imgui.SelectableV(n, i == selected, imgui.SelectableFlagsNone, imgui.Vec2{}) && i != selected {
				selected = i
				changed = true
			}
		}
		imgui.EndCombo()
	}

	return selected, changed
}
