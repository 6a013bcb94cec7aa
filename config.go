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
package main

import (
	"path/filepath"
	"strings"
)

const VERSION = "0.10"

/*
-w Write picture of the tree (PNG).
	s= Size of the longer side of the picture in pixels (default: 1024)

-draw Same as -w+

-n Nodes builder parameters.
	s= Candidate sampling stride, 1 means exhaustive search (default)
	p Build front and back subtrees concurrently (default: disabled)

-x=<x>,<y> Viewpoint for traversal order. Defaults to player 1 start, or to
	the centre of the map when there is none.

-t Walk the traversal order in the terminal.

-v Add verbosity to text output. Use multiple times for increased verbosity.

*/

const DEFAULT_IMAGE_SIZE = 1024

// Picture can't be made smaller than this
const MIN_IMAGE_SIZE = 64

type ProgramConfig struct {
	InputFileName  string
	OutputFileName string // picture of the tree, written only if DrawTree
	DrawTree       bool
	ImageSize      int
	NodeStride     int
	Parallel       bool
	Viewpoint      Point
	HasViewpoint   bool // otherwise viewpoint is derived from the map
	TerminalWalk   bool
	VerbosityLevel int
	Profile        bool
	ProfilePath    string
	MemProfile     bool
	MemProfilePath string
	DumpSegs       bool   // seg debugging
	SegDumpFile    string // where do dumped segs go?
}

var config = DefaultConfig() // global variable that will be accessed from other threads too

func DefaultConfig() *ProgramConfig {
	return &(ProgramConfig{
		InputFileName:  "",
		OutputFileName: "",
		DrawTree:       false,
		ImageSize:      DEFAULT_IMAGE_SIZE,
		NodeStride:     1,
		Parallel:       false,
		HasViewpoint:   false,
		TerminalWalk:   false,
		VerbosityLevel: 0,
		Profile:        false,
		ProfilePath:    "",
		MemProfile:     false,
		MemProfilePath: "",
		DumpSegs:       false,
		SegDumpFile:    "",
	})
}

// BuildOptions derived from the config
func (c *ProgramConfig) BuildOptions() BuildOptions {
	return BuildOptions{
		Stride:   c.NodeStride,
		Parallel: c.Parallel,
	}
}

// PictureFileName is where the picture goes when no output file was given:
// next to the input file, with png extension
func (c *ProgramConfig) PictureFileName() string {
	if c.OutputFileName != "" {
		return c.OutputFileName
	}
	ext := filepath.Ext(c.InputFileName)
	return strings.TrimSuffix(c.InputFileName, ext) + ".png"
}

func PrintBanner() {
	Log.Printf("IdBSP ver %s\n", VERSION)
	Log.Printf("Copyright (c)   2025 VigilantDoomer\n")
	Log.Printf("This program follows the nodes builder of the NeXTSTEP editor by id Software\n")
	Log.Printf("and is distributed under the terms of GNU General Public License v2.\n")
	Log.Printf("\n")
}

// Configure parses command line into the global config. Returns false if
// program should exit, and the exit code to use
func Configure(args []string) (bool, int) {
	config = DefaultConfig()
	if !(config.FromCommandLine(args)) {
		Log.Printf("\n")
		return false, 1
	}

	// If input file name was not passed, print help
	if config.InputFileName == "" {
		PrintHelp()
		return false, 0
	}
	return true, 0
}

func PrintHelp() {
	Log.Printf("Usage: idbsp {-options} filename.dwd {-o picture.png}\n")
	Log.Printf("       idbsp [-draw] filename.dwd picture.png\n")
	Log.Printf("\n")
	Log.Printf("-x+ turn on option -x- turn off option")
	Log.Printf("\n")
	Log.Printf("-w Write picture of the tree (PNG).\n")
	Log.Printf("	s= Size of the longer side of the picture in pixels (default: %d)\n", DEFAULT_IMAGE_SIZE)
	Log.Printf("\n")
	Log.Printf("-draw Same as -w+\n")
	Log.Printf("\n")
	Log.Printf("-n Nodes builder parameters.\n")
	Log.Printf("	s= Candidate sampling stride, 1 means exhaustive search (default)\n")
	Log.Printf("	p Build front and back subtrees concurrently (default: disabled)\n")
	Log.Printf("\n")
	Log.Printf("-x=<x>,<y> Viewpoint for traversal order. Defaults to player 1 start,\n")
	Log.Printf("	or to the centre of the map when there is none.\n")
	Log.Printf("\n")
	Log.Printf("-t Walk the traversal order in the terminal (any key - next leaf, q - quit).\n")
	Log.Printf("\n")
	Log.Printf("-v Add verbosity to text output. Use multiple times for increased verbosity.\n")
	Log.Printf("\n")
	Log.Printf("--cpuprofile <file> Write CPU profile.\n")
	Log.Printf("--memprofile <file> Write memory allocations profile.\n")
	Log.Printf("--dumpsegs <file> Write segments of every leaf.\n")
	Log.Printf("\n")
	Log.Printf("Example (1): idbsp -ns=4p -w e1m1.dwd -o e1m1_tree.png\n")
	Log.Printf("	Samples every 4th segment when looking for dividing line, builds\n")
	Log.Printf("	subtrees concurrently and draws the tree to 'e1m1_tree.png'.\n")
	Log.Printf("Example (2): idbsp -x=-128,64 -t e1m1.dwd\n")
	Log.Printf("	Walks leaves of the tree in the terminal nearest-first, as seen\n")
	Log.Printf("	from (-128,64).\n")
	Log.Printf("\n")
}
