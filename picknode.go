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

// picknode
package main

// To be able to divide the nodes down, this routine must decide which is the
// best segment to use as a dividing line. Every segment is tried in turn (or
// every stride-th one when sampling), and graded on how evenly it splits the
// rest and how many segments it would have to cut.

// Cost of cutting a segment relative to one segment of imbalance
const SPLIT_COST = 8

// Grade of a candidate that doesn't divide anything. Also the starting best
// grade, so nothing is pruned before the first usable candidate is found.
const INITIAL_BIG_COST = 2147483647 // 32-bit signed positive max

// EvaluateSplit returns a number grading the quality of a split along the
// given segment for the current list of segments. Evaluation is halted as
// soon as it is determined that a better split already exists.
//
// A split is good if it divides the segments evenly without cutting many of
// them. The LOWER the returned value, the better. If the split line does not
// divide the segments at all, INITIAL_BIG_COST is returned.
func EvaluateSplit(lines []*Segment, spliton *Segment, worstgrade int) int {
	frontcount := 0
	backcount := 0
	grade := 0
	divline := DivlineFromSegment(spliton)

	for _, line := range lines {
		side := SIDE_FRONT
		if line != spliton {
			side = SegmentSide(line, divline)
		}
		switch side {
		case SIDE_FRONT:
			frontcount++
		case SIDE_BACK:
			backcount++
		case SIDE_SPLIT:
			frontcount++
			backcount++
		}

		maxl := frontcount
		if backcount > maxl {
			maxl = backcount
		}
		// measure for cuts (bad). Negative until the whole list has been
		// seen, which makes the running grade only grow - pruning on it is
		// safe
		newl := (frontcount + backcount) - len(lines)
		grade = maxl + newl*SPLIT_COST
		if grade > worstgrade {
			return grade // might as well stop now
		}
	}

	if frontcount == 0 || backcount == 0 {
		return INITIAL_BIG_COST // line does not partition at all
	}
	return grade
}

// PickDivider returns the segment to partition on and its grade, or nil if
// no segment divides the list (the list is convex). Only every stride-th
// segment is tried; if that finds nothing, the search is repeated
// exhaustively before giving up.
func PickDivider(lines []*Segment, stride int) (*Segment, int) {
	if stride < 1 {
		stride = 1
	}
	grade := INITIAL_BIG_COST
	var best *Segment
	for {
		for i := 0; i < len(lines); i += stride {
			line := lines[i]
			v := EvaluateSplit(lines, line, grade)
			if v < grade {
				grade = v
				best = line
			}
		}
		if best != nil {
			return best, grade
		}
		if stride == 1 {
			return nil, INITIAL_BIG_COST
		}
		stride = 1
	}
}
