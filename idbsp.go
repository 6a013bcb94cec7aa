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

// -- This file is where the program entry is.
// IdBSP builds the BSP tree of a map in the text format of the NeXTSTEP
// editor, the way id Software's own nodes builder did it, and lets
// one look at the result: picture of the tree, traversal order from a
// viewpoint, and a walk over leaves in that order in the terminal.
package main

import (
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main, except it returns exit code so that deferred cleanup happens
func run(args []string) int {
	timeStart := time.Now()

	PrintBanner()
	// before config can be legitimately accessed, must call Configure()
	if ok, code := Configure(args); !ok {
		return code
	}

	if config.Profile {
		f, err := os.Create(config.ProfilePath)
		if err != nil {
			Log.Printf("Could not create CPU profile: %s\n", err.Error())
		} else {
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				Log.Printf("Could not start CPU profile: %s\n", err.Error())
			} else {
				defer pprof.StopCPUProfile()
			}
		}
	}

	config.InputFileName, _ = filepath.Abs(config.InputFileName)
	if config.DrawTree {
		config.OutputFileName, _ = filepath.Abs(config.PictureFileName())
		// Note that output file colliding with input file would destroy the
		// map, so this check is really not optional
		f1, err1 := os.Stat(config.InputFileName)
		f2, err2 := os.Stat(config.OutputFileName)
		if err1 == nil && err2 == nil && os.SameFile(f1, f2) {
			Log.Error("You cannot specify output file that maps to the same input file (whether via same path and name, or hardlinks, or symlinks)\n")
			return 1
		}
	}

	mainFileControl := FileControl{}
	defer mainFileControl.Shutdown()

	doomMap, err := LoadDoomMapFile(&mainFileControl, config.InputFileName)
	if err != nil {
		Log.Error("%s\n", err.Error())
		return 1
	}
	Log.Printf("Loaded %d lines and %d things from %s\n", len(doomMap.Lines),
		len(doomMap.Things), config.InputFileName)

	err = ProcessMap(doomMap, &mainFileControl)
	if err != nil {
		Log.Error("%s\n", err.Error())
		return 1
	}

	suc := mainFileControl.Success()
	exitCode := 0
	if !suc {
		Log.Printf("I/O error on flushing data / closing files. The picture might not have been saved!\n")
		exitCode = 1
	} else if config.DrawTree {
		Log.Printf("%s successfully written\n", config.OutputFileName)
	}
	Log.Printf("Total time: %s\n", time.Since(timeStart))
	if config.DumpSegs {
		if err := DebugSaveDumpedSegs(config.SegDumpFile); err != nil {
			Log.Error("%s\n", err.Error())
			exitCode = 1
		}
	}
	if config.MemProfile {
		if err := DumpMemoryProfile(config.MemProfilePath); err != nil {
			Log.Error("%s\n", err.Error())
			exitCode = 1
		}
	}
	return exitCode
}

// ProcessMap builds the tree of the map and produces whatever output config
// asks for
func ProcessMap(doomMap *DoomMap, fc *FileControl) error {
	segs := MakeSegments(doomMap.Lines)
	Log.Printf("Initial number of segs is %d.\n", len(segs))

	start := time.Now()
	tree, stats, err := BuildTree(segs, config.BuildOptions())
	if err != nil {
		return errors.Wrap(err, "building tree")
	}
	PrintReport(tree, stats, time.Since(start))
	if config.VerbosityLevel >= 2 {
		Log.Printf("%s", PrintTree(tree))
	}

	view := PickViewpoint(doomMap, tree)
	order := LeafOrder(tree, view)
	Log.Printf("Traversal order from (%v,%v) visits %d leaves\n", view.X, view.Y,
		len(order))
	for i, leaf := range order {
		Log.Verbose(1, "  %d: %d segs within %s\n", i, len(leaf.Lines),
			leaf.BBox.String())
	}

	if config.DrawTree {
		img := DrawTree(tree, doomMap.Lines, view, order, config.ImageSize)
		err = SavePicture(fc, config.OutputFileName, img)
		if err != nil {
			return err
		}
	}
	if config.TerminalWalk {
		err = RunTerminalWalk(tree, doomMap.Lines, view)
		if err != nil {
			return err
		}
	}
	return nil
}

// PickViewpoint returns viewpoint from command line, or player 1 start, or
// centre of the map, whichever is found first
func PickViewpoint(doomMap *DoomMap, tree *BSPNode) Point {
	if config.HasViewpoint {
		return config.Viewpoint
	}
	if start, ok := doomMap.PlayerStart(); ok {
		return start
	}
	return tree.BBox.Center()
}

func PrintReport(tree *BSPNode, stats BuildStats, elapsed time.Duration) {
	Log.Printf("Nodes: rendered part of map goes from (%v,%v) to (%v,%v)\n",
		tree.BBox.X1, tree.BBox.Y1, tree.BBox.X2, tree.BBox.Y2)
	Log.Printf("Created %d leaves, %d nodes. Got %d segs. Split segs %d times.\n",
		stats.Leaves, stats.Nodes, stats.Segments+stats.Cuts, stats.Cuts)
	hFront := 0
	hBack := 0
	if !tree.IsLeaf() {
		hFront = HeightOfNodes(tree.Side[0])
		hBack = HeightOfNodes(tree.Side[1])
	}
	Log.Printf("Height of front and back subtrees = (%d,%d)\n", hFront, hBack)
	Log.Printf("Tree built in %s\n", elapsed)
}
