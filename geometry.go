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

// geometry
package main

import (
	"fmt"
	"math"
)

// Side predicates used by the nodes builder. Everything here is pure and
// works on float64, so coordinates produced by cutting segments can be
// classified without converting them back to the map grid.

const ( // PointSide / SegmentSide results
	SIDE_SPLIT    = -2 // segment must be cut (SegmentSide only)
	SIDE_COLINEAR = -1 // point within the tolerance band (PointSide only)
	SIDE_FRONT    = 0
	SIDE_BACK     = 1
)

// Half-width of the band around a dividing line inside of which a point is
// considered to lie on it. Absorbs map grid rounding and the drift from
// repeated cuts.
const COLINEAR_EPSILON = 2.0

// DivLine is the infinite line through Pt with direction (Dx, Dy)
type DivLine struct {
	Pt Point
	Dx float64
	Dy float64
}

func (d DivLine) String() string {
	return fmt.Sprintf("(%v,%v) d(%v,%v)", d.Pt.X, d.Pt.Y, d.Dx, d.Dy)
}

type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Contains tells whether other lies within this box (borders included)
func (b BoundingBox) Contains(other BoundingBox) bool {
	return other.X1 >= b.X1 && other.Y1 >= b.Y1 &&
		other.X2 <= b.X2 && other.Y2 <= b.Y2
}

func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

func (b BoundingBox) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%v,%v)-(%v,%v)", b.X1, b.Y1, b.X2, b.Y2)
}

// ComputeBBox scans all segments in a list to find a minimal bounding box
// within which they all fit. For an empty list the box is inverted (min > max)
func ComputeBBox(lines []*Segment) BoundingBox {
	bbox := BoundingBox{
		X1: math.MaxFloat64,
		Y1: math.MaxFloat64,
		X2: -math.MaxFloat64,
		Y2: -math.MaxFloat64,
	}
	for _, line := range lines {
		bbox.addPoint(line.P1)
		bbox.addPoint(line.P2)
	}
	return bbox
}

func (b *BoundingBox) addPoint(p Point) {
	if p.X < b.X1 {
		b.X1 = p.X
	}
	if p.X > b.X2 {
		b.X2 = p.X
	}
	if p.Y < b.Y1 {
		b.Y1 = p.Y
	}
	if p.Y > b.Y2 {
		b.Y2 = p.Y
	}
}

func DivlineFromSegment(s *Segment) DivLine {
	return DivLine{
		Pt: s.P1,
		Dx: s.P2.X - s.P1.X,
		Dy: s.P2.Y - s.P1.Y,
	}
}

// PointSide returns SIDE_FRONT, SIDE_BACK or SIDE_COLINEAR
func PointSide(p Point, l DivLine) int {
	// Quick checks when divline is parallel to an axis
	if l.Dx == 0 {
		if p.X > l.Pt.X-COLINEAR_EPSILON && p.X < l.Pt.X+COLINEAR_EPSILON {
			return SIDE_COLINEAR
		}
		if p.X < l.Pt.X {
			if l.Dy > 0 {
				return SIDE_BACK
			}
			return SIDE_FRONT
		}
		if l.Dy < 0 {
			return SIDE_BACK
		}
		return SIDE_FRONT
	}

	if l.Dy == 0 {
		if p.Y > l.Pt.Y-COLINEAR_EPSILON && p.Y < l.Pt.Y+COLINEAR_EPSILON {
			return SIDE_COLINEAR
		}
		if p.Y < l.Pt.Y {
			if l.Dx < 0 {
				return SIDE_BACK
			}
			return SIDE_FRONT
		}
		if l.Dx > 0 {
			return SIDE_BACK
		}
		return SIDE_FRONT
	}

	dx := p.X - l.Pt.X
	dy := p.Y - l.Pt.Y

	// Does the circle of radius COLINEAR_EPSILON around p touch the line?
	// |(dx,dy) - t*(Dx,Dy)|^2 < eps^2 has a solution for t iff the quadratic
	// a*t^2 + b*t + c has positive discriminant
	a := l.Dx*l.Dx + l.Dy*l.Dy
	b := -2.0 * (l.Dx*dx + l.Dy*dy)
	c := dx*dx + dy*dy - COLINEAR_EPSILON*COLINEAR_EPSILON
	if b*b-4*a*c > 0 {
		return SIDE_COLINEAR
	}

	// z component of the cross product
	if dx*l.Dy-dy*l.Dx > 0 {
		return SIDE_FRONT
	}
	return SIDE_BACK
}

// SegmentSide returns SIDE_FRONT, SIDE_BACK or SIDE_SPLIT if segment must be
// cut. A colinear segment goes to the front side if it runs the same
// direction as the dividing line.
func SegmentSide(s *Segment, l DivLine) int {
	s1 := PointSide(s.P1, l)
	s2 := PointSide(s.P2, l)

	if s1 == s2 {
		if s1 == SIDE_COLINEAR {
			dx := s.P2.X - s.P1.X
			dy := s.P2.Y - s.P1.Y
			if signum(dx) == signum(l.Dx) && signum(dy) == signum(l.Dy) {
				return SIDE_FRONT
			}
			return SIDE_BACK
		}
		return s1
	}
	if s1 == SIDE_COLINEAR {
		return s2
	}
	if s2 == SIDE_COLINEAR {
		return s1
	}
	return SIDE_SPLIT
}

func signum(v float64) int {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

func SideName(side int) string {
	switch side {
	case SIDE_FRONT:
		return "front"
	case SIDE_BACK:
		return "back"
	case SIDE_COLINEAR:
		return "colinear"
	case SIDE_SPLIT:
		return "split"
	}
	return fmt.Sprintf("invalid(%d)", side)
}

// ClipToBox returns the part of the infinite dividing line that lies inside
// the box, ok = false if the line misses it. Used for drawing partitions.
func (l DivLine) ClipToBox(b BoundingBox) (Point, Point, bool) {
	if l.Dx == 0 && l.Dy == 0 {
		return Point{}, Point{}, false
	}
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	clip := func(p, d, lo, hi float64) bool {
		if d == 0 {
			return p >= lo && p <= hi
		}
		t1 := (lo - p) / d
		t2 := (hi - p) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		return tmin <= tmax
	}
	if !clip(l.Pt.X, l.Dx, b.X1, b.X2) || !clip(l.Pt.Y, l.Dy, b.Y1, b.Y2) {
		return Point{}, Point{}, false
	}
	return Point{X: l.Pt.X + tmin*l.Dx, Y: l.Pt.Y + tmin*l.Dy},
		Point{X: l.Pt.X + tmax*l.Dx, Y: l.Pt.Y + tmax*l.Dy}, true
}
