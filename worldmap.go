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

// worldmap
package main

// Structures of the editor map as the map loader produces them. Nothing here
// is touched by the nodes builder except for reading endpoints and flags.

const WORLD_SERVER_VERSION = 4

// Linedef flags
const (
	ML_BLOCKING      = 1
	ML_BLOCKMONSTERS = 2
	ML_TWOSIDED      = 4 // backside will not be present at all if not two sided
)

// Thing type of player 1 start
const THING_PLAYER1 = 1

type Point struct {
	X float64
	Y float64
}

type SectorDef struct {
	FloorHeight   int
	CeilingHeight int
	FloorFlat     string
	CeilingFlat   string
	LightLevel    int
	Special       int
	Tag           int
}

type WallSide struct {
	FirstRow      int
	FirstColumn   int
	TopTexture    string
	BottomTexture string
	MidTexture    string
	Sector        SectorDef
}

// SourceWall is a wall exactly as the map describes it. Segments keep a
// pointer to their wall, so it must not be modified once segments are made.
type SourceWall struct {
	P1      Point
	P2      Point
	Flags   int
	Special int
	Tag     int
	Sides   []WallSide // 1 entry, or 2 if Flags has ML_TWOSIDED
}

func (w *SourceWall) IsTwoSided() bool {
	return w.Flags&ML_TWOSIDED != 0
}

type WorldThing struct {
	Origin  Point
	Angle   int
	Type    int
	Options int
}

type DoomMap struct {
	Version int
	Lines   []*SourceWall
	Things  []WorldThing
}

// PlayerStart returns origin of the first player 1 start, if there is one
func (m *DoomMap) PlayerStart() (Point, bool) {
	for _, thing := range m.Things {
		if thing.Type == THING_PLAYER1 {
			return thing.Origin, true
		}
	}
	return Point{}, false
}
