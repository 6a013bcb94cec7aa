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

// splitter
package main

import (
	"math"

	"github.com/pkg/errors"
)

// Errors that abort the nodes builder. The first two are never caused by bad
// input: they mean the side predicates and the cutting code disagree, and a
// tree built past that point would be corrupt.
var (
	ErrDegenerateGeometry    = errors.New("degenerate geometry")
	ErrInvalidClassification = errors.New("invalid classification")
	ErrNothingToPartition    = errors.New("no segments to partition")
)

// Intercept points closer than this to a whole number get snapped to it, so
// that cutting the same area over and over doesn't accumulate float garbage
const SNAP_EPSILON = 0.1

// Intercept returns the fractional intercept point along first vector, which
// is always inside (0, 1) unless an error is returned
func Intercept(v2 DivLine, v1 DivLine) (float64, error) {
	den := v1.Dy*v2.Dx - v1.Dx*v2.Dy
	if den == 0 {
		return 0, errors.Wrapf(ErrDegenerateGeometry,
			"intercept of %s with %s: parallel", v2.String(), v1.String())
	}
	num := (v1.Pt.X-v2.Pt.X)*v1.Dy + (v2.Pt.Y-v1.Pt.Y)*v1.Dx
	frac := num / den
	if frac <= 0.0 || frac >= 1.0 {
		return 0, errors.Wrapf(ErrDegenerateGeometry,
			"intercept of %s with %s: intersection outside line (%v)",
			v2.String(), v1.String(), frac)
	}
	return frac, nil
}

func snapToGrid(x float64) float64 {
	t := math.Trunc(x)
	d := math.Abs(x - t)
	if d < SNAP_EPSILON {
		return t
	}
	if d > 1-SNAP_EPSILON {
		return t + math.Copysign(1, x)
	}
	return x
}

// snapWithin snaps d, a part of full, unless that would take it past 0 or full
func snapWithin(d, full float64) float64 {
	res := snapToGrid(d)
	if res < math.Min(0, full) || res > math.Max(0, full) {
		return d
	}
	return res
}

// CutSegment truncates the given segment to the front side of the divline
// and returns the cut off back side in a newly allocated segment. The two
// share no state: endpoints are values, only the wall reference is common
// (and that is read-only).
func CutSegment(s *Segment, bl DivLine) (*Segment, error) {
	wld := DivlineFromSegment(s)
	frac, err := Intercept(wld, bl)
	if err != nil {
		return nil, errors.Wrapf(err, "cutting segment %s", s.String())
	}

	// only the distance travelled along the segment is snapped, so the
	// intercept stays on the segment wherever its start is
	intr := Point{
		X: wld.Pt.X + snapWithin(wld.Dx*frac, wld.Dx),
		Y: wld.Pt.Y + snapWithin(wld.Dy*frac, wld.Dy),
	}
	length := math.Sqrt(wld.Dx*wld.Dx + wld.Dy*wld.Dy)
	offset := int(float64(s.Offset) + snapToGrid(frac*length))

	newSeg := &Segment{
		P1:      s.P1,
		P2:      s.P2,
		Wall:    s.Wall,
		Side:    s.Side,
		Offset:  s.Offset,
		Grouped: s.Grouped,
	}
	if PointSide(s.P1, bl) == SIDE_FRONT {
		// segment starts on front side
		s.P2 = intr
		newSeg.P1 = intr
		newSeg.Offset = offset
	} else {
		// segment starts on back side
		s.P1 = intr
		s.Offset = offset
		newSeg.P2 = intr
	}
	return newSeg, nil
}

// CutLine is CutSegment which also counts the cut towards the build totals
func (w *NodesWork) CutLine(s *Segment, bl DivLine) (*Segment, error) {
	w.totals.cuts++
	newSeg, err := CutSegment(s, bl)
	if err != nil {
		return nil, err
	}
	w.mlog.Verbose(3, "Cut %s at divline %s, fragment %s\n",
		s.String(), bl.String(), newSeg.String())
	return newSeg, nil
}
