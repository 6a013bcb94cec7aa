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

// traversal
package main

import (
	"fmt"
	"strings"
)

// Queries over a finished tree. None of them modify it, so any number of
// goroutines may run them on the same tree.

// nearSide returns index of the child the viewpoint is in. A viewpoint on the
// dividing line is treated as being in front of it
func nearSide(node *BSPNode, view Point) int {
	if PointSide(view, node.Divline) == SIDE_BACK {
		return 1
	}
	return 0
}

// OrderedVisit calls visit for every leaf, nearest to viewpoint first
func OrderedVisit(node *BSPNode, view Point, visit func(leaf *BSPNode)) {
	if node == nil {
		return
	}
	if node.IsLeaf() {
		visit(node)
		return
	}
	near := nearSide(node, view)
	OrderedVisit(node.Side[near], view, visit)
	OrderedVisit(node.Side[near^1], view, visit)
}

// ReverseOrderedVisit calls visit for every leaf, farthest from viewpoint
// first (painter's order)
func ReverseOrderedVisit(node *BSPNode, view Point, visit func(leaf *BSPNode)) {
	if node == nil {
		return
	}
	if node.IsLeaf() {
		visit(node)
		return
	}
	near := nearSide(node, view)
	ReverseOrderedVisit(node.Side[near^1], view, visit)
	ReverseOrderedVisit(node.Side[near], view, visit)
}

// LeafOrder collects leaves in the order OrderedVisit would visit them
func LeafOrder(node *BSPNode, view Point) []*BSPNode {
	var leaves []*BSPNode
	OrderedVisit(node, view, func(leaf *BSPNode) {
		leaves = append(leaves, leaf)
	})
	return leaves
}

// LeafSegCount is total number of segments owned by leaves of the tree
func LeafSegCount(node *BSPNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf() {
		return len(node.Lines)
	}
	return LeafSegCount(node.Side[0]) + LeafSegCount(node.Side[1])
}

// FindLeaf returns the leaf whose region contains the point
func FindLeaf(node *BSPNode, p Point) *BSPNode {
	for node != nil && !node.IsLeaf() {
		node = node.Side[nearSide(node, p)]
	}
	return node
}

// PrintTree writes an indented dump of the tree, front child listed first
func PrintTree(node *BSPNode) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node *BSPNode, depth int) {
	if node == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	if node.IsLeaf() {
		sb.WriteString(fmt.Sprintf("%sleaf %s: %d segs\n", indent,
			node.BBox.String(), len(node.Lines)))
		for _, line := range node.Lines {
			sb.WriteString(fmt.Sprintf("%s  %s\n", indent, line.String()))
		}
		return
	}
	sb.WriteString(fmt.Sprintf("%snode %s divline %s\n", indent,
		node.BBox.String(), node.Divline.String()))
	printNode(sb, node.Side[0], depth+1)
	printNode(sb, node.Side[1], depth+1)
}
