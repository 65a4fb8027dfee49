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
	"errors"
	"fmt"

	"github.com/imgta/memwatch/address"
	"github.com/imgta/memwatch/codec"
	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/watches"
)

// the maximum range size that can be entered in the add watch form
const maxRange = 100

// AddState is the state of the add watch form. The form is shared by the
// global and script-local variants.
type AddState struct {
	Index         int
	Range         int
	Type          codec.Type
	ArrayItemType codec.Type
	ItemSize      int
	IndexInItem   int
	ScriptName    string
	Info          string

	// the result of the most recent add attempt. the error is only
	// reported until the inputs are next changed
	err     error
	updated bool
}

func newAddState() *AddState {
	return &AddState{
		Range:    1,
		ItemSize: 1,
		updated:  true,
	}
}

// Updated should be called whenever an input of the form is changed. Any
// message from a previous add attempt is cleared.
func (s *AddState) Updated() {
	s.updated = true
	s.err = nil
}

// SetIndex sets the address index. The range is reset to one.
func (s *AddState) SetIndex(index int) {
	s.Index = min(max(index, 0), address.MaxIndex)
	s.Range = 1
	s.Updated()
}

// SetRange sets the number of consecutive watches to add.
func (s *AddState) SetRange(n int) {
	s.Range = min(max(n, 1), maxRange)
}

func (s *AddState) params(global bool) watches.Params {
	p := watches.Params{
		Index:         s.Index,
		Type:          s.Type,
		ArrayItemType: s.ArrayItemType,
		ItemSize:      s.ItemSize,
		IndexInItem:   s.IndexInItem,
		Info:          s.Info,
	}
	if global {
		p.ScriptName = host.GlobalName
	} else {
		p.ScriptName = s.ScriptName
	}
	return p
}

// AddWatch adds watches as described by the add watch form. The error is
// also retained for the messages returned by AddMessages().
func (m *MemWatcher) AddWatch(global bool) error {
	s := m.Add

	var err error
	if !global && s.ScriptName == "" {
		err = fmt.Errorf("%w: no script name", address.ScriptNotRunning)
	} else {
		err = m.Watches.Add(s.params(global), s.Range)
		if err == nil && !global {
			m.Prefs.ScriptName.Set(s.ScriptName)
		}
	}
	s.err = err
	s.updated = false
	return err
}

// ScriptRunning returns true if the named script is running.
func (m *MemWatcher) ScriptRunning(name string) bool {
	return m.Resolver.Running(m.Resolver.HashOf(name))
}

// CanAdd returns false if the add watch form is for a script-local watch and
// the script is not running.
func (m *MemWatcher) CanAdd(global bool) bool {
	return global || (m.Add.ScriptName != "" && m.ScriptRunning(m.Add.ScriptName))
}

// AddMessages returns the messages to show with the add watch form. A script
// that is not running is reported for as long as it is not running. The
// result of the last add attempt is reported until the inputs change.
func (m *MemWatcher) AddMessages(global bool) []string {
	var msgs []string

	if !m.CanAdd(global) {
		msgs = append(msgs, fmt.Sprintf("Script '%s' is not running", m.Add.ScriptName))
	}

	s := m.Add
	if !s.updated && s.err != nil {
		switch {
		case errors.Is(s.err, address.ScriptNotRunning):
			// already reported while the condition persists
			if m.CanAdd(global) {
				msgs = append(msgs, s.err.Error())
			}
		case errors.Is(s.err, address.Unavailable):
			msgs = append(msgs, "Cannot get memory address")
		case errors.Is(s.err, watches.DuplicateWatch):
			msgs = append(msgs, "This variable is already on the watch list")
		default:
			msgs = append(msgs, s.err.Error())
		}
	}

	return msgs
}
