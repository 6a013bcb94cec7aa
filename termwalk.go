// Copyright (C) 2025, VigilantDoomer
//
// This file is part of IdBSP program.
//
// IdBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// IdBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with IdBSP.  If not, see <https://www.gnu.org/licenses/>.

// termwalk
package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// Interactive walk over leaves in traversal order. The map is scaled to the
// terminal, then each key press lights up the next leaf

var (
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleVisited = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleCurrent = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleView    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

const (
	CELL_WALL = '.'
	CELL_LEAF = '#'
	CELL_VIEW = '@'
)

type terminalWalk struct {
	screen tcell.Screen
	walls  []*SourceWall
	order  []*BSPNode
	view   Point
	area   BoundingBox
	shown  int // number of leaves lit so far
	// map to cell transformation, recomputed on resize
	scaleX float64
	scaleY float64
	rows   int
}

// RunTerminalWalk takes over the terminal until user quits or all leaves
// have been shown
func RunTerminalWalk(tree *BSPNode, walls []*SourceWall, view Point) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "creating terminal screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initializing terminal screen")
	}
	defer screen.Fini()
	shown := walkOnScreen(screen, tree, walls, view)
	Log.Verbose(1, "Terminal walk ended after %d leaves\n", shown)
	return nil
}

// walkOnScreen runs the walk on an already initialized screen, returns how
// many leaves were lit when it ended
func walkOnScreen(screen tcell.Screen, tree *BSPNode, walls []*SourceWall,
	view Point) int {
	w := &terminalWalk{
		screen: screen,
		walls:  walls,
		order:  LeafOrder(tree, view),
		view:   view,
		area:   tree.BBox,
	}
	w.area.addPoint(view)
	w.resize()
	w.draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return w.shown
			}
			if w.shown == len(w.order) {
				return w.shown
			}
			w.shown++
			w.draw()
		case *tcell.EventResize:
			screen.Sync()
			w.resize()
			w.draw()
		case nil:
			// screen was finalized
			return w.shown
		}
	}
}

func (w *terminalWalk) resize() {
	width, height := w.screen.Size()
	w.rows = height - 1 // last row is status line
	// Terminal cells are about twice as tall as they are wide
	sx := float64(width-1) / math.Max(w.area.Width(), 1)
	sy := 2 * float64(w.rows-1) / math.Max(w.area.Height(), 1)
	s := math.Min(sx, sy)
	if s < 0 {
		s = 0
	}
	w.scaleX = s
	w.scaleY = s / 2
}

func (w *terminalWalk) toCell(p Point) (int, int) {
	x := int(math.Round((p.X - w.area.X1) * w.scaleX))
	y := w.rows - 1 - int(math.Round((p.Y-w.area.Y1)*w.scaleY))
	return x, y
}

func (w *terminalWalk) plot(a, b Point, ch rune, style tcell.Style) {
	x1, y1 := w.toCell(a)
	x2, y2 := w.toCell(b)
	steps := max(abs(x2-x1), abs(y2-y1))
	if steps == 0 {
		w.screen.SetContent(x1, y1, ch, nil, style)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + int(math.Round(float64((x2-x1)*i)/float64(steps)))
		y := y1 + int(math.Round(float64((y2-y1)*i)/float64(steps)))
		w.screen.SetContent(x, y, ch, nil, style)
	}
}

func (w *terminalWalk) draw() {
	w.screen.Clear()
	for _, wall := range w.walls {
		w.plot(wall.P1, wall.P2, CELL_WALL, styleWall)
	}
	for i := 0; i < w.shown; i++ {
		style := styleVisited
		if i == w.shown-1 {
			style = styleCurrent
		}
		for _, line := range w.order[i].Lines {
			w.plot(line.P1, line.P2, CELL_LEAF, style)
		}
	}
	vx, vy := w.toCell(w.view)
	w.screen.SetContent(vx, vy, CELL_VIEW, nil, styleView)
	w.status()
	w.screen.Show()
}

func (w *terminalWalk) status() {
	var s string
	if w.shown == 0 {
		s = fmt.Sprintf(" %d leaves, nearest first from (%v,%v). Any key - next, q - quit ",
			len(w.order), w.view.X, w.view.Y)
	} else {
		s = fmt.Sprintf(" leaf %d/%d: %d segs within %s ", w.shown, len(w.order),
			len(w.order[w.shown-1].Lines), w.order[w.shown-1].BBox.String())
	}
	x := 0
	for _, r := range s {
		w.screen.SetContent(x, w.rows, r, nil, styleStatus)
		x++
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
