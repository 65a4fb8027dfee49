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
	"path/filepath"

	"github.com/imgta/memwatch/address"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/hud"
	"github.com/imgta/memwatch/logger"
	"github.com/imgta/memwatch/paths"
	"github.com/imgta/memwatch/persist"
	"github.com/imgta/memwatch/prefs"
	"github.com/imgta/memwatch/watches"
)

// Panel is implemented by the debug panel.
type Panel interface {
	Draw() bool
}

// MemWatcher is the memory watcher mod.
type MemWatcher struct {
	host   host.Host
	drawer host.TextDrawer

	Prefs    *Preferences
	Resolver *address.Resolver
	Watches  *watches.Registry
	Add      *AddState

	storePath string
	version   string

	panel Panel
}

// NewMemWatcher is the preferred method of initialisation for the MemWatcher
// type. The dir argument is the settings folder for the preferences file and
// the watch store. If it is empty the default settings folder is used.
func NewMemWatcher(h host.Host, d host.TextDrawer, dir string) (*MemWatcher, error) {
	m := &MemWatcher{
		host:   h,
		drawer: d,
		Add:    newAddState(),
	}

	var prefsPath string
	if dir == "" {
		var err error
		m.storePath, err = paths.ResourcePath("", persist.DefaultFilename)
		if err != nil {
			return nil, fmt.Errorf("memwatcher: %w", err)
		}
	} else {
		m.storePath = filepath.Join(dir, persist.DefaultFilename)
		prefsPath = filepath.Join(dir, prefs.DefaultPrefsFile)
	}

	var err error
	m.Prefs, err = newPreferences(prefsPath)
	if err != nil {
		return nil, err
	}

	// the add watch form starts with the most recently used script name
	m.Add.ScriptName = m.Prefs.ScriptName.String()
	m.Prefs.ScriptName.SetHookPost(func(v prefs.Value) error {
		m.Add.ScriptName = v.(string)
		return nil
	})

	m.Resolver = address.NewResolver(h, h)
	m.Watches = watches.NewRegistry(m.Resolver, h)

	return m, nil
}

// AttachPanel sets the panel that is drawn by Draw().
func (m *MemWatcher) AttachPanel(p Panel) {
	m.panel = p
}

// Version returns the build version of the host. Only valid after Load().
func (m *MemWatcher) Version() string {
	return m.version
}

// StorePath returns the path of the watch store.
func (m *MemWatcher) StorePath() string {
	return m.storePath
}

// Load is called when the mod is activated. The watches for the host's build
// version are loaded from the watch store.
func (m *MemWatcher) Load() error {
	if err := m.Prefs.Load(); err != nil {
		logger.Log(logger.Allow, "memwatcher", err)
	}

	m.version = m.host.BuildVersion()

	recs, err := persist.Load(m.storePath, m.version)
	if err != nil {
		return fmt.Errorf("memwatcher: %w", err)
	}
	m.Watches.Replace(recs)
	m.Watches.Tick()

	logger.Logf(logger.Allow, "memwatcher", "loaded for build %s", m.version)

	return nil
}

// Unload is called when the mod is deactivated. The preferences are saved and,
// if the Persist preference is set, so are the watches.
func (m *MemWatcher) Unload() error {
	if err := m.Prefs.Save(); err != nil {
		logger.Log(logger.Allow, "memwatcher", err)
	}
	return m.SaveWatches()
}

// SaveWatches saves the watches to the watch store if the Persist preference
// is set. The entries for other build versions are kept.
func (m *MemWatcher) SaveWatches() error {
	if !m.Prefs.Persist.Get().(bool) {
		return nil
	}
	if err := persist.Save(m.storePath, m.version, m.Watches.Records(), true); err != nil {
		return fmt.Errorf("memwatcher: %w", err)
	}
	return nil
}

// ClearSavedWatches resets the watch store to an empty list for the current
// build version. The watches for all other versions are lost.
func (m *MemWatcher) ClearSavedWatches() error {
	if err := persist.Reset(m.storePath, m.version); err != nil {
		return fmt.Errorf("memwatcher: %w", err)
	}
	logger.Logf(logger.Allow, "memwatcher", "cleared watch store")
	return nil
}

// Think is called once per frame. The watches are refreshed and drawn to the
// HUD if the HUD preference is set.
func (m *MemWatcher) Think() {
	if m.Watches.Len() == 0 {
		return
	}

	m.Watches.Tick()

	if m.drawer != nil && m.Prefs.HUD.Get().(bool) {
		hud.Render(m.Watches, m.drawer, m.Prefs.HUDSettings())
	}
}

// Draw the debug panel. Returns false if there is no panel or if the panel
// has been closed.
func (m *MemWatcher) Draw() bool {
	if m.panel == nil {
		return false
	}
	return m.panel.Draw()
}
