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

// Package memwatcher is the dear imgui debug panel for the memory watcher.
//
// The panel must be drawn from inside an imgui frame owned by the host.
package memwatcher

import (
	"fmt"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/imgta/memwatch/logger"
	"github.com/imgta/memwatch/mod"
	"github.com/imgta/memwatch/watches"
)

const winTitle = "Memory Watcher"

const (
	popupEntryProperties = "Entry Properties"
	popupClearJSON       = "Are you sure?"
)

// Window is the debug panel.
type Window struct {
	mw   *mod.MemWatcher
	open bool

	// the entry being edited in the properties popup
	selected *watches.Entry
	edit     entryEdit
}

// Attach creates a new window and attaches it to the memory watcher.
func Attach(mw *mod.MemWatcher) *Window {
	win := &Window{
		mw:   mw,
		open: true,
	}
	mw.AttachPanel(win)
	return win
}

// SetOpen opens or closes the window.
func (win *Window) SetOpen(open bool) {
	win.open = open
}

// Draw implements the mod.Panel interface. Returns false if the window has
// been closed.
func (win *Window) Draw() bool {
	if !win.open {
		return false
	}

	imgui.SetNextWindowPosV(imgui.Vec2{X: 50, Y: 50}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: 650, Y: 400}, imgui.ConditionFirstUseEver)

	if imgui.BeginV(winTitle, &win.open, imgui.WindowFlagsMenuBar) {
		win.drawMenuBar()

		imguiColorText(fmt.Sprintf("Game build version: %s. Variable indexes are dependent on the game version.",
			win.mw.Version()), colWarning)

		win.drawTable()
		win.drawEntryProperties()
	}
	imgui.End()

	return win.open
}

func (win *Window) drawMenuBar() {
	if !imgui.BeginMenuBar() {
		return
	}

	// the modal must be opened outside of the menu
	// https://github.com/ocornut/imgui/issues/331
	openClear := false

	if imgui.BeginMenu("Watch") {
		if imgui.BeginMenu("Add Global Index") {
			win.drawAddWatch(true)
			imgui.EndMenu()
		}
		if imgui.BeginMenu("Add Local Index") {
			win.drawAddWatch(false)
			imgui.EndMenu()
		}
		if imgui.MenuItem("Sort all watches") {
			win.mw.Watches.Sort()
		}
		if imgui.MenuItem("Clear") {
			win.mw.Watches.Clear()
		}
		if imgui.MenuItem("Clear JSON") {
			openClear = true
		}
		imgui.EndMenu()
	}

	if openClear {
		imgui.OpenPopup(popupClearJSON)
	}

	if imgui.BeginPopupModalV(popupClearJSON, nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.Text("Are you sure you want to clear JSON?")
		if imgui.Button("Yes") {
			if err := win.mw.ClearSavedWatches(); err != nil {
				logger.Log(logger.Allow, "memwatcher", err)
			}
			imgui.CloseCurrentPopup()
		}
		imgui.SameLine()
		if imgui.Button("No") {
			imgui.CloseCurrentPopup()
		}
		imgui.EndPopup()
	}

	imgui.Separator()

	hud := win.mw.Prefs.HUD.Get().(bool)
	if imgui.Checkbox("##enableHUD", &hud) {
		win.mw.Prefs.HUD.Set(hud)
	}
	if imgui.BeginMenu("HUD") {
		win.drawHUDMenu()
		imgui.EndMenu()
	}

	persist := win.mw.Prefs.Persist.Get().(bool)
	if imgui.Checkbox("Save to JSON", &persist) {
		win.mw.Prefs.Persist.Set(persist)
	}

	imgui.EndMenuBar()
}

func (win *Window) drawHUDMenu() {
	p := win.mw.Prefs

	f := float32(p.FontSize.Get().(float64))
	if imgui.SliderFloatV("Font size", &f, 0.1, 1.0, "%.2f", imgui.SliderFlagsNone) {
		p.FontSize.Set(f)
	}

	col := p.Color()
	r, g, b := int32(col.R), int32(col.G), int32(col.B)
	changed := imgui.SliderIntV("Red", &r, 0, 255, "%d", imgui.SliderFlagsNone)
	changed = imgui.SliderIntV("Green", &g, 0, 255, "%d", imgui.SliderFlagsNone) || changed
	changed = imgui.SliderIntV("Blue", &b, 0, 255, "%d", imgui.SliderFlagsNone) || changed
	if changed {
		col.R, col.G, col.B = uint8(r), uint8(g), uint8(b)
		p.SetColor(col)
	}

	x := float32(p.OffsetX.Get().(float64))
	if imgui.SliderFloatV("Offset X", &x, 0.0, 1.0, "%.3f", imgui.SliderFlagsNone) {
		p.OffsetX.Set(x)
	}
	y := float32(p.OffsetY.Get().(float64))
	if imgui.SliderFloatV("Offset Y", &y, 0.0, 1.0, "%.3f", imgui.SliderFlagsNone) {
		p.OffsetY.Set(y)
	}
	s := float32(p.ColumnSpacing.Get().(float64))
	if imgui.SliderFloatV("Column spacing", &s, 0.0, 1.0, "%.3f", imgui.SliderFlagsNone) {
		p.ColumnSpacing.Set(s)
	}

	imgui.Separator()

	hex := p.HexIndex.Get().(bool)
	if imgui.MenuItemV("Hexadecimal index", "", hex, true) {
		p.HexIndex.Set(!hex)
	}
	info := p.DisplayInfo.Get().(bool)
	if imgui.MenuItemV("Display information detail", "", info, true) {
		p.DisplayInfo.Set(!info)
	}
}

func (win *Window) drawTable() {
	hex := win.mw.Prefs.HexIndex.Get().(bool)

	// the popup is opened outside of the table. the table pushes its own ID
	// onto the stack and the popup would not be found by BeginPopup()
	var open *watches.Entry

	flgs := imgui.TableFlagsScrollY
	flgs |= imgui.TableFlagsSizingStretchProp
	flgs |= imgui.TableFlagsResizable
	flgs |= imgui.TableFlagsRowBg

	if !imgui.BeginTableV("##watches", 5, flgs, imgui.Vec2{}, 0.0) {
		return
	}

	width := imgui.ContentRegionAvail().X
	imgui.TableSetupColumnV("Index", imgui.TableColumnFlagsNone, width*0.15, 0)
	imgui.TableSetupColumnV("Type", imgui.TableColumnFlagsNone, width*0.12, 1)
	imgui.TableSetupColumnV("Script (Hash)", imgui.TableColumnFlagsNone, width*0.25, 2)
	imgui.TableSetupColumnV("Info", imgui.TableColumnFlagsNone, width*0.18, 3)
	imgui.TableSetupColumnV("Value", imgui.TableColumnFlagsNone, width*0.30, 4)
	imgui.TableSetupScrollFreeze(0, 1)
	imgui.TableHeadersRow()

	win.mw.Watches.BorrowWatches(func(entries []*watches.Entry) {
		for _, e := range entries {
			if win.drawRow(e, nil, 0, hex) {
				open = e
			}
			for i, c := range e.ArrayWatches {
				if win.drawRow(c, e, i, hex) {
					open = c
				}
			}
		}
	})

	if win.mw.Watches.TakeScrollRequest() {
		imgui.SetScrollHereY(1.0)
	}

	imgui.EndTable()

	if open != nil {
		win.selected = open
		win.edit.reset()
		imgui.OpenPopup(popupEntryProperties)
	}
}

// drawRow returns true if the row has been clicked.
func (win *Window) drawRow(e *watches.Entry, parent *watches.Entry, position int, hex bool) bool {
	imgui.TableNextRow()
	imgui.TableNextColumn()

	label := fmt.Sprintf("%s##%p", e.Label(parent, position, hex), e)
	clicked := imgui.SelectableV(label, e == win.selected, imgui.SelectableFlagsSpanAllColumns, imgui.Vec2{})

	imgui.TableNextColumn()
	imgui.Text(e.Type.String())

	imgui.TableNextColumn()
	if e.Running {
		imgui.Text(fmt.Sprintf("%s (%d)", e.ScriptName, e.ScriptHash))
	} else {
		imguiColorText(fmt.Sprintf("%s (%d)", e.ScriptName, e.ScriptHash), colStopped)
	}

	imgui.TableNextColumn()
	imgui.Text(e.Info)

	imgui.TableNextColumn()
	if e.Available {
		imgui.Text(e.Value)
	} else {
		imguiColorText(e.Value, colStopped)
	}

	return clicked
}
