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
	"fmt"
	"strconv"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/watches"
)

// edit buffers for the properties popup. the buffers are initialised from
// the entry when the popup is opened
type entryEdit struct {
	init   bool
	info   string
	script string
	err    error
}

func (ed *entryEdit) reset() {
	ed.init = false
	ed.err = nil
}

func (win *Window) drawEntryProperties() {
	if !imgui.BeginPopup(popupEntryProperties) {
		return
	}
	defer imgui.EndPopup()

	reg := win.mw.Watches

	// take a copy of the entry. registry functions cannot be called with the
	// entry borrowed
	var e watches.Entry
	if win.selected == nil || !reg.BorrowEntry(win.selected, func(w *watches.Entry) {
		e = *w
	}) {
		win.selected = nil
		imgui.CloseCurrentPopup()
		return
	}
	sel := win.selected

	if !win.edit.init {
		win.edit.info = e.Info
		win.edit.script = e.ScriptName
		win.edit.init = true
	}

	imguiColorText(fmt.Sprintf("%s %d", e.ScriptName, e.AddressIndex), colLabel)
	imguiSeparator()

	if !e.IsArrayItem {
		if v, ok := imguiTypeCombo("Type", codec.Types, int(e.Type)); ok {
			win.edit.err = reg.SetType(sel, codec.Type(v))
		}
	}

	show := e.ShowInGame
	if imgui.Checkbox("Show Ingame", &show) {
		win.edit.err = reg.SetShowInGame(sel, show)
	}

	if !e.IsArrayItem {
		imguiLabel("Info")
		if imgui.InputText("##propInfo", &win.edit.info) {
			win.edit.err = reg.SetInfo(sel, win.edit.info)
		}
	}

	if e.Type == codec.Array {
		itemType, itemSize, indexInItem := e.ArrayItemType, e.ItemSize, e.IndexInItem
		changed := false
		if v, ok := imguiIntInput("Index In Item", indexInItem, false); ok {
			indexInItem = v
			changed = true
		}
		if v, ok := imguiTypeCombo("Array Item Type", codec.ItemTypes, int(itemType)); ok {
			itemType = codec.Type(v)
			changed = true
		}
		if v, ok := imguiIntInput("Item Size QWORD", itemSize, false); ok {
			itemSize = v
			changed = true
		}
		if changed {
			win.edit.err = reg.SetArrayLayout(sel, itemType, itemSize, indexInItem)
		}
	}

	if !e.IsGlobal() && !e.IsArrayItem {
		imguiLabel("Script Name")
		if imgui.InputTextV("##propScript", &win.edit.script, imgui.InputTextFlagsEnterReturnsTrue, nil) {
			win.edit.err = reg.SetScript(sel, win.edit.script)
			if win.edit.err != nil {
				win.edit.script = e.ScriptName
			}
		}
	}

	imguiSeparator()
	win.drawValueEditor(sel, e)

	if !e.IsArrayItem {
		imguiSeparator()
		if imgui.Button("Remove") {
			win.edit.err = reg.Remove(sel)
			if win.edit.err == nil {
				win.selected = nil
				imgui.CloseCurrentPopup()
				return
			}
		}
	}

	if win.edit.err != nil {
		imguiColorText(win.edit.err.Error(), colWarning)
	}
}

func (win *Window) drawValueEditor(sel *watches.Entry, e watches.Entry) {
	reg := win.mw.Watches

	if e.Type == codec.String {
		imguiColorText("Cannot edit string.", colStopped)
		return
	}

	if e.Type == codec.Array {
		imgui.Text(fmt.Sprintf("Length: %s", e.Value))
		return
	}

	v, err := reg.Peek(sel)
	if err != nil {
		imguiColorText("Cannot get memory address", colWarning)
		return
	}

	switch v := v.(type) {
	case int32:
		s := strconv.Itoa(int(v))
		imguiLabel("Value")
		if imguiInput("##value", &s, decimalChars) {
			win.edit.err = reg.Poke(sel, s)
		}

	case float32:
		s := fmt.Sprintf("%.4f", v)
		imguiLabel("Value")
		if imguiInput("##value", &s, floatChars) {
			win.edit.err = reg.Poke(sel, s)
		}

	case codec.Vector:
		vals := [3]float32{v.X, v.Y, v.Z}
		changed := false
		for i, l := range []string{"X", "Y", "Z"} {
			s := fmt.Sprintf("%.4f", vals[i])
			imguiLabel(l)
			if imguiInput("##vector"+l, &s, floatChars) {
				if f, err := strconv.ParseFloat(s, 32); err == nil {
					vals[i] = float32(f)
					changed = true
				}
			}
		}
		if changed {
			win.edit.err = reg.PokeVector3(sel, codec.Vector{X: vals[0], Y: vals[1], Z: vals[2]})
		}

	case uint32:
		for bit := 31; bit >= 0; bit-- {
			on := v&(1<<bit) != 0
			if imgui.Checkbox(fmt.Sprintf("##bit%d", bit), &on) {
				win.edit.err = reg.ToggleBit(sel, bit)
			}
			if bit%8 != 0 {
				imgui.SameLine()
			}
		}
		if imgui.Button("LS<<") {
			win.edit.err = reg.ShiftLeft(sel)
		}
		imgui.SameLine()
		if imgui.Button(">>RS") {
			win.edit.err = reg.ShiftRight(sel)
		}
	}
}
