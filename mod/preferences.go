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

package mod

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/imgta/memwatch/hud"
	"github.com/imgta/memwatch/paths"
	"github.com/imgta/memwatch/prefs"
)

// the prefix of every preferences key
const prefsGroup = "memwatcher"

// script names longer than this are cropped when stored
const maxScriptName = 63

// Preferences for the memory watcher.
type Preferences struct {
	dsk *prefs.Disk

	HUD           prefs.Bool
	FontSize      prefs.Float
	FontColor     *prefs.Generic
	OffsetX       prefs.Float
	OffsetY       prefs.Float
	ColumnSpacing prefs.Float
	HexIndex      prefs.Bool
	DisplayInfo   prefs.Bool
	Persist       prefs.Bool

	// the script name most recently used to add a script-local watch
	ScriptName prefs.String

	// the FontColor preference is stored as "r,g,b"
	crit  sync.Mutex
	color color.RGBA
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// newPreferences creates the preferences with the file at path. If path is
// empty the default preferences file in the settings folder is used.
func newPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	if path == "" {
		var err error
		path, err = paths.ResourcePath("", prefs.DefaultPrefsFile)
		if err != nil {
			return nil, fmt.Errorf("memwatcher: %w", err)
		}
	}

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, fmt.Errorf("memwatcher: %w", err)
	}

	p.FontColor = prefs.NewGeneric(
		func(s string) error {
			var r, g, b uint8
			_, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b)
			if err != nil {
				return err
			}
			p.SetColor(color.RGBA{R: r, G: g, B: b, A: 255})
			return nil
		},
		func() string {
			c := p.Color()
			return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
		},
	)

	err = p.dsk.Add(fmt.Sprintf("%s.hud", prefsGroup), &p.HUD)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.fontSize", prefsGroup), &p.FontSize)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.fontColor", prefsGroup), p.FontColor)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.offsetX", prefsGroup), &p.OffsetX)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.offsetY", prefsGroup), &p.OffsetY)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.columnSpacing", prefsGroup), &p.ColumnSpacing)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.hexIndex", prefsGroup), &p.HexIndex)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.displayInfo", prefsGroup), &p.DisplayInfo)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add(fmt.Sprintf("%s.persist", prefsGroup), &p.Persist)
	if err != nil {
		return nil, err
	}
	p.ScriptName.SetMaxLen(maxScriptName)
	err = p.dsk.Add(fmt.Sprintf("%s.scriptName", prefsGroup), &p.ScriptName)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Load(true); err != nil {
		return nil, fmt.Errorf("memwatcher: %w", err)
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.HUD.Set(true)
	p.FontSize.Set(0.3)
	p.SetColor(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	p.OffsetX.Set(0.01)
	p.OffsetY.Set(0.05)
	p.ColumnSpacing.Set(0.2)
	p.HexIndex.Set(false)
	p.DisplayInfo.Set(true)
	p.Persist.Set(true)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Color returns the colour of the HUD text.
func (p *Preferences) Color() color.RGBA {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.color
}

// SetColor sets the colour of the HUD text. The alpha component is ignored.
func (p *Preferences) SetColor(c color.RGBA) {
	p.crit.Lock()
	defer p.crit.Unlock()
	c.A = 255
	p.color = c
}

// HUDSettings returns the current preferences as hud.Settings.
func (p *Preferences) HUDSettings() hud.Settings {
	return hud.Settings{
		FontSize:      float32(p.FontSize.Get().(float64)),
		Color:         p.Color(),
		OffsetX:       float32(p.OffsetX.Get().(float64)),
		OffsetY:       float32(p.OffsetY.Get().(float64)),
		ColumnSpacing: float32(p.ColumnSpacing.Get().(float64)),
		DisplayInfo:   p.DisplayInfo.Get().(bool),
	}
}
