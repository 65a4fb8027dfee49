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
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/imgta/memwatch/codec"
)

// drawAddWatch draws the add watch form. The form is drawn inside a menu.
func (win *Window) drawAddWatch(global bool) {
	s := win.mw.Add
	hex := win.mw.Prefs.HexIndex.Get().(bool)

	label := "Decimal Index"
	if hex {
		label = "Hex Index"
	}
	if v, ok := imguiIntInput(label, s.Index, hex); ok {
		s.SetIndex(v)
	}

	if v, ok := imguiIntInput("Range size", s.Range, false); ok {
		s.SetRange(v)
	}

	if v, ok := imguiTypeCombo("Type", codec.Types, int(s.Type)); ok {
		s.Type = codec.Type(v)
		s.Updated()
	}

	if s.Type == codec.Array {
		if v, ok := imguiTypeCombo("Array Item Type", codec.ItemTypes, int(s.ArrayItemType)); ok {
			s.ArrayItemType = codec.Type(v)
			s.Updated()
		}
		if v, ok := imguiIntInput("Item Size QWORD", s.ItemSize, false); ok {
			s.ItemSize = max(v, 1)
			s.Updated()
		}
		if v, ok := imguiIntInput("Index in Item", s.IndexInItem, false); ok {
			s.IndexInItem = max(v, 0)
			s.Updated()
		}
	}

	if !global {
		imguiLabel("Script Name")
		if imgui.InputText("##addScriptName", &s.ScriptName) {
			s.Updated()
		}
	}

	imguiLabel("Info")
	imgui.InputText("##addInfo", &s.Info)

	if win.mw.CanAdd(global) {
		if imgui.Button("Add") {
			// errors are reported by AddMessages()
			_ = win.mw.AddWatch(global)
		}
	}

	for _, m := range win.mw.AddMessages(global) {
		imguiColorText(m, colWarning)
	}
}
