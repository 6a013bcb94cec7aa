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

// nodegen
package main

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Subtrees are built concurrently only for lists at least this long, and
// only this many levels of forking deep (so at most 2^PARALLEL_MAX_FORKS
// builders run at once)
const (
	PARALLEL_THRESHOLD = 64
	PARALLEL_MAX_FORKS = 4
)

// Segment is a piece of a wall, facing one way. Created once per wall side,
// then only by cutting.
type Segment struct {
	P1      Point
	P2      Point
	Wall    *SourceWall // shared, read-only
	Side    int         // 0 = wall as drawn, 1 = back side of two-sided wall
	Offset  int         // distance from start of the wall side to P1
	Grouped bool        // reserved
}

func (s *Segment) String() string {
	return fmt.Sprintf("(%v,%v)-(%v,%v) side %d offset %d", s.P1.X, s.P1.Y,
		s.P2.X, s.P2.Y, s.Side, s.Offset)
}

// BSPNode is either a leaf, which owns a convex list of segments, or an
// interior node with both children set. Side[0] is in front of Divline,
// Side[1] behind it.
type BSPNode struct {
	BBox    BoundingBox
	Divline DivLine
	Side    [2]*BSPNode
	Lines   []*Segment
}

func (n *BSPNode) IsLeaf() bool {
	return n.Side[0] == nil
}

// Counters of a single build. Each concurrently running builder has its own,
// they are summed when subtrees are joined.
type NodesTotals struct {
	numNodes  int
	numLeaves int
	cuts      int
}

func (t *NodesTotals) add(o *NodesTotals) {
	t.numNodes += o.numNodes
	t.numLeaves += o.numLeaves
	t.cuts += o.cuts
}

type NodesWork struct {
	stride   int
	parallel bool
	forks    int // how many times builder was forked above this one
	totals   *NodesTotals
	mlog     *MiniLogger // nil means write to Log directly
}

type BuildOptions struct {
	Stride   int  // candidate sampling stride, 1 = exhaustive search
	Parallel bool // build front and back subtrees concurrently
}

func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Stride:   1,
		Parallel: false,
	}
}

// BuildStats is what is known about a tree once it has been built
type BuildStats struct {
	Segments int // segments given to the builder
	Cuts     int
	Nodes    int // interior nodes only
	Leaves   int
	Height   int
}

// MakeSegments creates one segment for every one-sided wall, and two of
// them, running in opposite directions, for every two-sided one
func MakeSegments(walls []*SourceWall) []*Segment {
	segs := make([]*Segment, 0, len(walls)*2)
	for _, wall := range walls {
		segs = append(segs, &Segment{
			P1:   wall.P1,
			P2:   wall.P2,
			Wall: wall,
			Side: 0,
		})
		if !wall.IsTwoSided() {
			continue
		}
		segs = append(segs, &Segment{
			P1:   wall.P2,
			P2:   wall.P1,
			Wall: wall,
			Side: 1,
		})
	}
	return segs
}

// Build partitions segments with default options. Segments are consumed:
// those that get cut are modified in place, and end up owned by the leaves.
func Build(segs []*Segment) (*BSPNode, error) {
	root, _, err := BuildTree(segs, DefaultBuildOptions())
	return root, err
}

func BuildTree(segs []*Segment, opts BuildOptions) (*BSPNode, BuildStats, error) {
	if len(segs) == 0 {
		return nil, BuildStats{}, errors.Wrap(ErrNothingToPartition, "building tree")
	}
	stride := opts.Stride
	if stride < 1 {
		stride = 1
	}
	w := &NodesWork{
		stride:   stride,
		parallel: opts.Parallel,
		totals:   &NodesTotals{},
	}
	Log.Verbose(1, "Building tree from %d segments (stride %d, parallel %t)\n",
		len(segs), stride, opts.Parallel)

	root, err := w.CreateNode(segs)
	if err != nil {
		return nil, BuildStats{}, err
	}

	stats := BuildStats{
		Segments: len(segs),
		Cuts:     w.totals.cuts,
		Nodes:    w.totals.numNodes,
		Leaves:   w.totals.numLeaves,
		Height:   HeightOfNodes(root),
	}
	return root, stats, nil
}

// CreateNode picks a dividing line for the list, divides it and recurses on
// both halves. If no line divides the list, it is convex and becomes a leaf.
func (w *NodesWork) CreateNode(lines []*Segment) (*BSPNode, error) {
	res := &BSPNode{
		BBox: ComputeBBox(lines),
	}

	best, grade := PickDivider(lines, w.stride)
	if best == nil {
		w.totals.numLeaves++
		res.Lines = lines
		w.mlog.Verbose(3, "Leaf of %d segs within %s\n", len(lines), res.BBox.String())
		w.mlog.DumpSegs(lines)
		return res, nil
	}

	w.totals.numNodes++
	res.Divline = DivlineFromSegment(best)
	w.mlog.Verbose(2, "Partition on %s (grade %d) for %d segs\n",
		best.String(), grade, len(lines))

	fronts, backs, err := w.DivideSegs(lines, best, res.Divline)
	if err != nil {
		return nil, err
	}

	if w.parallel && w.forks < PARALLEL_MAX_FORKS && len(lines) >= PARALLEL_THRESHOLD {
		res.Side[0], res.Side[1], err = w.createChildrenConcurrently(fronts, backs)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	res.Side[0], err = w.CreateNode(fronts)
	if err != nil {
		return nil, err
	}
	res.Side[1], err = w.CreateNode(backs)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DivideSegs sorts the list into segments in front of the dividing line and
// behind it, cutting those that cross it. The segment the line comes from
// goes to front.
func (w *NodesWork) DivideSegs(lines []*Segment, best *Segment,
	div DivLine) ([]*Segment, []*Segment, error) {
	fronts := make([]*Segment, 0, len(lines))
	backs := make([]*Segment, 0, len(lines))
	for _, line := range lines {
		side := SIDE_FRONT
		if line != best {
			side = SegmentSide(line, div)
		}
		err := w.addSegToSide(line, side, div, &fronts, &backs)
		if err != nil {
			return nil, nil, err
		}
	}
	return fronts, backs, nil
}

func (w *NodesWork) addSegToSide(line *Segment, side int, div DivLine,
	fronts, backs *[]*Segment) error {
	switch side {
	case SIDE_FRONT:
		*fronts = append(*fronts, line)
	case SIDE_BACK:
		*backs = append(*backs, line)
	case SIDE_SPLIT:
		// line is cut to the part in front, the returned fragment is behind
		newSeg, err := w.CutLine(line, div)
		if err != nil {
			return errors.Wrapf(err, "dividing segments along %s", div.String())
		}
		*fronts = append(*fronts, line)
		*backs = append(*backs, newSeg)
	default:
		return errors.Wrapf(ErrInvalidClassification,
			"segment %s classified as %s against %s", line.String(),
			SideName(side), div.String())
	}
	return nil
}

// fork returns a builder for use by another goroutine. Nothing mutable is
// shared with the original.
func (w *NodesWork) fork() *NodesWork {
	newW := new(NodesWork)
	*newW = *w
	newW.forks = w.forks + 1
	newW.totals = &NodesTotals{}
	newW.mlog = CreateMiniLogger()
	return newW
}

// join takes over counters and buffered output of a forked builder
func (w *NodesWork) join(child *NodesWork) {
	w.totals.add(child.totals)
	if w.mlog == nil {
		Log.Merge(child.mlog, "")
	} else {
		w.mlog.Absorb(child.mlog)
	}
}

// Front subtree is built on current goroutine, back subtree on a new one.
// The two lists share no segments, so no locking is needed
func (w *NodesWork) createChildrenConcurrently(fronts,
	backs []*Segment) (*BSPNode, *BSPNode, error) {
	fw := w.fork()
	bw := w.fork()

	var wg sync.WaitGroup
	var back *BSPNode
	var backErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		back, backErr = bw.CreateNode(backs)
	}()
	front, frontErr := fw.CreateNode(fronts)
	wg.Wait()

	w.join(fw)
	w.join(bw)
	if frontErr != nil {
		return nil, nil, frontErr
	}
	if backErr != nil {
		return nil, nil, backErr
	}
	return front, back, nil
}

// HeightOfNodes counts levels of the tree, a lone leaf has height 1
func HeightOfNodes(node *BSPNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf() {
		return 1
	}
	lHeight := HeightOfNodes(node.Side[0]) + 1
	rHeight := HeightOfNodes(node.Side[1]) + 1
	if lHeight < rHeight {
		return rHeight
	}
	return lHeight
}
