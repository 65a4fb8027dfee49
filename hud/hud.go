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

// Package hud lays out watch entries as blocks of text to be drawn over the
// game screen.
package hud

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/imgta/memwatch/host"
	"github.com/imgta/memwatch/watches"
)

// LinesPerColumn is the number of lines drawn before moving to a new column.
const LinesPerColumn = 30

// the height of a line relative to the font size
const lineSpacing = 1.2

// Settings for the HUD layout.
type Settings struct {
	FontSize      float32
	Color         color.RGBA
	OffsetX       float32
	OffsetY       float32
	ColumnSpacing float32
	DisplayInfo   bool
}

// Block is a column of text with the position of its top-left corner.
type Block struct {
	Text string
	X, Y float32
}

// Line returns the HUD text for the entry. Array items should be passed with
// their parent and their position in the parent. The parent should be nil for
// top-level entries.
func Line(e *watches.Entry, parent *watches.Entry, position int, displayInfo bool) string {
	s := strings.Builder{}
	if !e.Running {
		s.WriteString("(STOPPED) ")
	}
	s.WriteString(e.ScriptName)
	s.WriteString(" ")
	s.WriteString(e.Label(parent, position, false))
	if displayInfo && e.Info != "" {
		s.WriteString(fmt.Sprintf(" (%s)", e.Info))
	}
	s.WriteString(": ")
	s.WriteString(e.Value)
	return s.String()
}

// Lines returns the HUD text of every entry that is to be shown in game.
func Lines(entries []*watches.Entry, displayInfo bool) []string {
	var l []string
	for _, e := range entries {
		if !e.ShowInGame {
			continue
		}
		l = append(l, Line(e, nil, 0, displayInfo))
		for i, c := range e.ArrayWatches {
			if c.ShowInGame {
				l = append(l, Line(c, e, i, displayInfo))
			}
		}
	}
	return l
}

// Layout splits the lines into columns of LinesPerColumn lines.
func Layout(lines []string, set Settings) []Block {
	step := lineSpacing * set.FontSize

	var blocks []Block
	for i := 0; i < len(lines); i += LinesPerColumn {
		j := min(i+LinesPerColumn, len(lines))
		col := float32(i / LinesPerColumn)
		blocks = append(blocks, Block{
			Text: strings.Join(lines[i:j], "\n"),
			X:    set.OffsetX + col*(set.ColumnSpacing+step),
			Y:    set.OffsetY,
		})
	}
	return blocks
}

// Draw the blocks using the drawer.
func Draw(d host.TextDrawer, blocks []Block, set Settings) {
	for _, b := range blocks {
		d.DrawText(b.Text, b.X, b.Y, set.FontSize, set.Color)
	}
}

// Render the watches in the registry. The text is prepared with the registry
// lock held but drawn after the lock has been released.
func Render(reg *watches.Registry, d host.TextDrawer, set Settings) {
	var lines []string
	reg.BorrowWatches(func(entries []*watches.Entry) {
		lines = Lines(entries, set.DisplayInfo)
	})
	Draw(d, Layout(lines, set), set)
}

// WriterDrawer implements the host.TextDrawer interface by writing text to
// an io.Writer. Position, size and colour are ignored.
type WriterDrawer struct {
	W io.Writer
}

// DrawText implements the host.TextDrawer interface.
func (d WriterDrawer) DrawText(text string, _, _, _ float32, _ color.RGBA) {
	io.WriteString(d.W, text)
	io.WriteString(d.W, "\n")
}
