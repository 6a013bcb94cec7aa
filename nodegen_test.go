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

// nodegen_test.go
package main

import (
	"testing"

	"github.com/pkg/errors"
)

func TestMakeSegments(t *testing.T) {
	walls := []*SourceWall{
		{P1: Point{0, 0}, P2: Point{0, 64}, Flags: ML_BLOCKING, Sides: make([]WallSide, 1)},
		{P1: Point{64, 0}, P2: Point{64, 64}, Flags: ML_TWOSIDED, Sides: make([]WallSide, 2)},
	}
	segs := MakeSegments(walls)
	if len(segs) != 3 {
		t.Fatalf("got %d segs, expected 3\n", len(segs))
	}
	if segs[0].Wall != walls[0] || segs[0].Side != 0 || segs[0].P1 != walls[0].P1 {
		t.Errorf("first seg %s doesn't follow its wall\n", segs[0].String())
	}
	if segs[1].Wall != walls[1] || segs[1].Side != 0 || segs[1].P1 != walls[1].P1 {
		t.Errorf("second seg %s doesn't follow its wall\n", segs[1].String())
	}
	if segs[2].Wall != walls[1] || segs[2].Side != 1 || segs[2].P1 != walls[1].P2 ||
		segs[2].P2 != walls[1].P1 {
		t.Errorf("back side seg %s must run opposite to its wall\n", segs[2].String())
	}
	for _, s := range segs {
		if s.Offset != 0 {
			t.Errorf("fresh seg %s has non-zero offset\n", s.String())
		}
	}
}

func TestBuildConvexRoom(t *testing.T) {
	tree, stats, err := BuildTree(MakeSegments(squareWalls()), DefaultBuildOptions())
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	if !tree.IsLeaf() || len(tree.Lines) != 4 {
		t.Errorf("convex room must give a single leaf with 4 segs\n")
	}
	if tree.BBox != (BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}) {
		t.Errorf("leaf box %s, expected (0,0)-(10,10)\n", tree.BBox.String())
	}
	expected := BuildStats{Segments: 4, Cuts: 0, Nodes: 0, Leaves: 1, Height: 1}
	if stats != expected {
		t.Errorf("stats %+v, expected %+v\n", stats, expected)
	}
}

func TestBuildSingleSegment(t *testing.T) {
	tree, err := Build([]*Segment{seg(0, 0, 10, 0)})
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	if !tree.IsLeaf() || len(tree.Lines) != 1 {
		t.Errorf("single segment must give a single leaf\n")
	}
}

func TestBuildNothing(t *testing.T) {
	tree, _, err := BuildTree(nil, DefaultBuildOptions())
	if !errors.Is(err, ErrNothingToPartition) || tree != nil {
		t.Errorf("expected nothing to partition error, got %v\n", err)
	}
}

func TestBuildCrossingWalls(t *testing.T) {
	tree, stats, err := BuildTree(MakeSegments(crossingWalls()), DefaultBuildOptions())
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	expected := BuildStats{Segments: 2, Cuts: 2, Nodes: 2, Leaves: 3, Height: 3}
	if stats != expected {
		t.Errorf("stats %+v, expected %+v\n", stats, expected)
	}
	if n := LeafSegCount(tree); n != 4 {
		t.Errorf("leaves own %d segs, expected 4\n", n)
	}
	// root is the vertical wall, its back is the left half of the horizontal one
	if tree.Divline != (DivLine{Pt: Point{0, -10}, Dx: 0, Dy: 20}) {
		t.Errorf("root divline %s, expected the vertical wall\n", tree.Divline.String())
	}
	back := tree.Side[1]
	if !back.IsLeaf() || len(back.Lines) != 1 ||
		back.Lines[0].P1 != (Point{-10, 0}) || back.Lines[0].P2 != (Point{0, 0}) {
		t.Errorf("unexpected back side of root:\n%s", PrintTree(back))
	}
}

// checkTree verifies what must hold for any tree: box of every node is the
// extent of the segments of its leaves, children boxes nested in parent box,
// and every leaf convex. Returns extent of the subtree
func checkTree(t *testing.T, node *BSPNode) BoundingBox {
	t.Helper()
	if node.IsLeaf() {
		if len(node.Lines) == 0 {
			t.Errorf("empty leaf within %s\n", node.BBox.String())
		}
		if best, _ := PickDivider(node.Lines, 1); best != nil {
			t.Errorf("leaf within %s is not convex, %s divides it\n",
				node.BBox.String(), best.String())
		}
		extent := ComputeBBox(node.Lines)
		if extent != node.BBox {
			t.Errorf("leaf box %s, but its segs span %s\n", node.BBox.String(),
				extent.String())
		}
		return extent
	}
	if node.Side[1] == nil {
		t.Fatalf("interior node within %s has no back child\n", node.BBox.String())
	}
	extent := ComputeBBox(nil)
	for _, child := range node.Side {
		if !node.BBox.Contains(child.BBox) {
			t.Errorf("child box %s sticks out of parent box %s\n",
				child.BBox.String(), node.BBox.String())
		}
		sub := checkTree(t, child)
		extent.addPoint(Point{sub.X1, sub.Y1})
		extent.addPoint(Point{sub.X2, sub.Y2})
	}
	if extent != node.BBox {
		t.Errorf("node box %s, but its subtree spans %s\n", node.BBox.String(),
			extent.String())
	}
	return extent
}

// offGridWalls is gridWalls moved off the integer grid
func offGridWalls() []*SourceWall {
	walls := make([]*SourceWall, 0, len(gridWalls))
	for _, wall := range gridWalls {
		moved := *wall
		moved.P1 = Point{wall.P1.X + 0.3, wall.P1.Y - 0.45}
		moved.P2 = Point{wall.P2.X + 0.3, wall.P2.Y - 0.45}
		walls = append(walls, &moved)
	}
	return walls
}

func TestBuildOffGridCut(t *testing.T) {
	segs := []*Segment{
		seg(50, -10, 50, -5),
		seg(10, -10, 10, -5),
		seg(90, -5, 90, -10),
		seg(0, 0.95, 100, 0.95),
	}
	tree, stats, err := BuildTree(segs, DefaultBuildOptions())
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	// the horizontal wall gets cut at x = 50, then at 90 and 10
	if stats.Cuts != 3 || stats.Leaves != 4 {
		t.Errorf("%d cuts and %d leaves, expected 3 and 4\n", stats.Cuts, stats.Leaves)
	}
	if tree.BBox != (BoundingBox{X1: 0, Y1: -10, X2: 100, Y2: 0.95}) {
		t.Errorf("root box %s, expected (0,-10)-(100,0.95)\n", tree.BBox.String())
	}
	front := tree.Side[0].BBox
	if front != (BoundingBox{X1: 50, Y1: -10, X2: 100, Y2: 0.95}) {
		t.Errorf("front box %s, expected (50,-10)-(100,0.95)\n", front.String())
	}
	checkTree(t, tree)
}

func TestBuildOffGrid(t *testing.T) {
	segs := MakeSegments(offGridWalls())
	tree, stats, err := BuildTree(segs, DefaultBuildOptions())
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	checkTree(t, tree)
	if n := LeafSegCount(tree); n != stats.Segments+stats.Cuts {
		t.Errorf("leaves own %d segs, expected %d + %d cuts\n", n, stats.Segments,
			stats.Cuts)
	}
}

func TestBuildGrid(t *testing.T) {
	segs := MakeSegments(gridWalls)
	tree, stats, err := BuildTree(segs, DefaultBuildOptions())
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	checkTree(t, tree)
	if n := LeafSegCount(tree); n != stats.Segments+stats.Cuts {
		t.Errorf("leaves own %d segs, expected %d + %d cuts\n", n, stats.Segments,
			stats.Cuts)
	}
	if stats.Leaves != stats.Nodes+1 {
		t.Errorf("%d leaves for %d nodes\n", stats.Leaves, stats.Nodes)
	}
	if stats.Height != HeightOfNodes(tree) {
		t.Errorf("height %d, tree is %d tall\n", stats.Height, HeightOfNodes(tree))
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	sequential, seqStats, err := BuildTree(MakeSegments(gridWalls), DefaultBuildOptions())
	if err != nil {
		t.Fatalf("sequential build failed: %s\n", err)
	}
	if seqStats.Segments < PARALLEL_THRESHOLD {
		t.Fatalf("grid is too small (%d segs) for the parallel builder to fork\n",
			seqStats.Segments)
	}
	opts := DefaultBuildOptions()
	opts.Parallel = true
	parallel, parStats, err := BuildTree(MakeSegments(gridWalls), opts)
	if err != nil {
		t.Fatalf("parallel build failed: %s\n", err)
	}
	if seqStats != parStats {
		t.Errorf("parallel stats %+v, sequential %+v\n", parStats, seqStats)
	}
	if PrintTree(sequential) != PrintTree(parallel) {
		t.Errorf("parallel build produced a different tree\n")
	}
}

func TestBuildWithStride(t *testing.T) {
	opts := DefaultBuildOptions()
	opts.Stride = 4
	tree, stats, err := BuildTree(MakeSegments(gridWalls), opts)
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	checkTree(t, tree)
	if n := LeafSegCount(tree); n != stats.Segments+stats.Cuts {
		t.Errorf("leaves own %d segs, expected %d + %d cuts\n", n, stats.Segments,
			stats.Cuts)
	}
}

func TestAddSegToSideRejectsColinear(t *testing.T) {
	w := &NodesWork{totals: &NodesTotals{}}
	var fronts, backs []*Segment
	err := w.addSegToSide(seg(0, 0, 10, 0), SIDE_COLINEAR, horizontalDiv, &fronts, &backs)
	if !errors.Is(err, ErrInvalidClassification) {
		t.Errorf("expected invalid classification error, got %v\n", err)
	}
	if len(fronts) != 0 || len(backs) != 0 {
		t.Errorf("rejected segment was added to a side\n")
	}
}

func TestDivideSegsCuts(t *testing.T) {
	w := &NodesWork{totals: &NodesTotals{}}
	div := DivLine{Pt: Point{0, 0}, Dx: 10, Dy: 0}
	best := seg(0, 0, 10, 0)
	crossing := seg(5, 5, 5, -5)
	fronts, backs, err := w.DivideSegs([]*Segment{crossing, best}, best, div)
	if err != nil {
		t.Fatalf("unexpected error: %s\n", err)
	}
	if len(fronts) != 2 || len(backs) != 1 || w.totals.cuts != 1 {
		t.Fatalf("got %d front, %d back segs and %d cuts, expected 2, 1, 1\n",
			len(fronts), len(backs), w.totals.cuts)
	}
	if fronts[0] != crossing || fronts[1] != best {
		t.Errorf("front list must keep input order\n")
	}
	if side := SegmentSide(backs[0], div); side != SIDE_BACK {
		t.Errorf("cut off piece %s is %s of divline\n", backs[0].String(), SideName(side))
	}
}

func BenchmarkBuildSequential(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		segs := MakeSegments(gridWalls)
		b.StartTimer()
		BuildTree(segs, DefaultBuildOptions())
	}
}

func BenchmarkBuildParallel(b *testing.B) {
	opts := DefaultBuildOptions()
	opts.Parallel = true
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		segs := MakeSegments(gridWalls)
		b.StartTimer()
		BuildTree(segs, opts)
	}
}

func BenchmarkBuildStride4(b *testing.B) {
	opts := DefaultBuildOptions()
	opts.Stride = 4
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		segs := MakeSegments(gridWalls)
		b.StartTimer()
		BuildTree(segs, opts)
	}
}
