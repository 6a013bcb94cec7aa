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

// maploader
package main

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Loader of the editor's text map format (.dwd). Files are Latin-1, texture
// and flat names are decoded to UTF-8 on reading.

var ErrMapSyntax = errors.New("map syntax error")

var (
	reVersion   = regexp.MustCompile(`^WorldServer version (\d+)$`)
	reLineCount = regexp.MustCompile(`^lines:(\d+)$`)
	reThingCnt  = regexp.MustCompile(`^things:(\d+)$`)
	reWallEnds  = regexp.MustCompile(`^\((.+),(.+)\) to \((.+),(.+)\) : (.+) : (.+) : (.+)$`)
	reWallSide  = regexp.MustCompile(`^(.+) \((.+) : (.+) / (.+) / (.+) \)$`)
	reSectorDef = regexp.MustCompile(`^(.+) : (.+) (.+) : (.+) (.+) (.+) (.+)$`)
	reThing     = regexp.MustCompile(`^\((.+),(.+), (.+)\) :(.+), (.+)$`)
)

type mapReader struct {
	scanner *bufio.Scanner
	lineNum int
	err     error // first conversion error of the current line
}

// nextLine returns next non-blank line, trimmed
func (r *mapReader) nextLine() (string, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", errors.Wrapf(err, "reading map at line %d", r.lineNum)
	}
	return "", errors.Wrapf(ErrMapSyntax, "unexpected end of map after line %d", r.lineNum)
}

// match reads next line and matches it against re, what is used for error
// message
func (r *mapReader) match(re *regexp.Regexp, what string) ([]string, error) {
	line, err := r.nextLine()
	if err != nil {
		return nil, errors.Wrapf(err, "expected %s", what)
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil, errors.Wrapf(ErrMapSyntax, "line %d: expected %s, got '%s'",
			r.lineNum, what, line)
	}
	r.err = nil
	return m, nil
}

func (r *mapReader) atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && r.err == nil {
		r.err = errors.Wrapf(ErrMapSyntax, "line %d: bad integer '%s'", r.lineNum, s)
	}
	return v
}

func (r *mapReader) atof(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && r.err == nil {
		r.err = errors.Wrapf(ErrMapSyntax, "line %d: bad number '%s'", r.lineNum, s)
	}
	return v
}

func (r *mapReader) readCount(re *regexp.Regexp, what string) (int, error) {
	m, err := r.match(re, what)
	if err != nil {
		return 0, err
	}
	count := r.atoi(m[1])
	return count, r.err
}

// Counts come from the file, so they only hint at the capacity
const MAX_PREALLOC = 4096

// LoadDoomMap reads the whole map. Walls are returned in file order
func LoadDoomMap(rd io.Reader) (*DoomMap, error) {
	r := &mapReader{
		scanner: bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(rd)),
	}
	m, err := r.match(reVersion, "WorldServer version")
	if err != nil {
		return nil, err
	}
	version := r.atoi(m[1])
	if r.err != nil {
		return nil, r.err
	}
	if version != WORLD_SERVER_VERSION {
		return nil, errors.Wrapf(ErrMapSyntax, "not a version %d doom map (version %d)",
			WORLD_SERVER_VERSION, version)
	}
	Log.Verbose(1, "Doom map version: %d\n", version)
	doomMap := &DoomMap{Version: version}

	lineCount, err := r.readCount(reLineCount, "line count")
	if err != nil {
		return nil, err
	}
	Log.Verbose(1, "%d lines\n", lineCount)
	doomMap.Lines = make([]*SourceWall, 0, min(lineCount, MAX_PREALLOC))
	for i := 0; i < lineCount; i++ {
		wall, err := r.readWall(i)
		if err != nil {
			return nil, err
		}
		doomMap.Lines = append(doomMap.Lines, wall)
	}

	thingCount, err := r.readCount(reThingCnt, "thing count")
	if err != nil {
		return nil, err
	}
	Log.Verbose(1, "%d things\n", thingCount)
	doomMap.Things = make([]WorldThing, 0, min(thingCount, MAX_PREALLOC))
	for i := 0; i < thingCount; i++ {
		thing, err := r.readThing()
		if err != nil {
			return nil, err
		}
		doomMap.Things = append(doomMap.Things, thing)
	}
	return doomMap, nil
}

func (r *mapReader) readWall(wallNum int) (*SourceWall, error) {
	m, err := r.match(reWallEnds, "line")
	if err != nil {
		return nil, err
	}
	wall := &SourceWall{
		P1:      Point{X: r.atof(m[1]), Y: r.atof(m[2])},
		P2:      Point{X: r.atof(m[3]), Y: r.atof(m[4])},
		Flags:   r.atoi(m[5]),
		Special: r.atoi(m[6]),
		Tag:     r.atoi(m[7]),
	}
	if r.err != nil {
		return nil, r.err
	}

	sides := 1
	if wall.IsTwoSided() {
		sides = 2
	}
	wall.Sides = make([]WallSide, sides)
	for i := 0; i < sides; i++ {
		m, err = r.match(reWallSide, "line side")
		if err != nil {
			return nil, err
		}
		side := &wall.Sides[i]
		side.FirstRow = r.atoi(m[1])
		side.FirstColumn = r.atoi(m[2])
		side.TopTexture = m[3]
		side.BottomTexture = m[4]
		side.MidTexture = m[5]
		if r.err != nil {
			return nil, r.err
		}

		m, err = r.match(reSectorDef, "sector definition")
		if err != nil {
			return nil, err
		}
		side.Sector = SectorDef{
			FloorHeight:   r.atoi(m[1]),
			FloorFlat:     m[2],
			CeilingHeight: r.atoi(m[3]),
			CeilingFlat:   m[4],
			LightLevel:    r.atoi(m[5]),
			Special:       r.atoi(m[6]),
			Tag:           r.atoi(m[7]),
		}
		if r.err != nil {
			return nil, r.err
		}
		if side.Sector.FloorFlat == "-" {
			Log.Error("WARNING: line %d has no sectordef\n", wallNum)
		}
	}
	return wall, nil
}

func (r *mapReader) readThing() (WorldThing, error) {
	m, err := r.match(reThing, "thing")
	if err != nil {
		return WorldThing{}, err
	}
	x := r.atoi(m[1])
	y := r.atoi(m[2])
	thing := WorldThing{
		// things sit on a 16 unit grid
		Origin:  Point{X: float64(x & -16), Y: float64(y & -16)},
		Angle:   r.atoi(m[3]),
		Type:    r.atoi(m[4]),
		Options: r.atoi(m[5]),
	}
	return thing, r.err
}

// LoadDoomMapFile opens the map through file control, which takes care of
// closing it
func LoadDoomMapFile(fc *FileControl, fileName string) (*DoomMap, error) {
	f, err := fc.OpenInputFile(fileName)
	if err != nil {
		return nil, err
	}
	doomMap, err := LoadDoomMap(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading '%s'", fileName)
	}
	return doomMap, nil
}
