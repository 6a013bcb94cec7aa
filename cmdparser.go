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
	"strconv"
)

const ( // NumericOrState.whichType values
	ARG_ENABLED = iota
	ARG_DISABLED
	ARG_IS_NUMBER
)

type NumericOrState struct {
	whichType int // see consts above
	value     int
}

// Double hyphen options, all of them take a file name as next argument
var fileArgs = map[string]func(c *ProgramConfig, name string){
	"--cpuprofile": func(c *ProgramConfig, name string) {
		c.Profile = true
		c.ProfilePath = name
	},
	"--memprofile": func(c *ProgramConfig, name string) {
		c.MemProfile = true
		c.MemProfilePath = name
	},
	"--dumpsegs": func(c *ProgramConfig, name string) {
		c.DumpSegs = true
		c.SegDumpFile = name
	},
}

// Inspired by from zokumbsp's parser. args must not include program name
func (c *ProgramConfig) FromCommandLine(args []string) bool {
	files := make([]string, 0)
	outputModifier := false
	outputModifierUsed := false
	hasOutputFile := false
	skip := false
	for argIdx, arg := range args {
		if len(arg) < 1 {
			break
		}
		if skip {
			skip = false
			continue
		}

		if arg[0] != '-' && !outputModifier {
			files = append(files, arg)
			if len(files) > 2 {
				Log.Error("This program doesn't support specifying more than one input file - aborting.\n")
				return false
			}
			if len(files) == 2 {
				// Legacy form: idbsp [-draw] inmap outpath
				if outputModifierUsed {
					Log.Error("Can't specify output file twice, only one output file is supported - aborting.\n")
					return false
				}
				c.OutputFileName = files[1]
				c.DrawTree = true
				continue
			}
			c.InputFileName = files[0]
			continue
		}

		if outputModifier {
			c.OutputFileName = arg
			c.DrawTree = true
			outputModifier = false
			hasOutputFile = true
			continue
		}

		if len(arg) < 2 {
			continue
		}
		if arg == "-draw" {
			c.DrawTree = true
			continue
		}
		switch arg[1] {
		case 'w':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.DrawTree = enabled
				if c.DrawTree {
					if !c.parseDrawParams(rest) {
						return false
					}
				} else if len(rest) > 0 {
					Log.Error("Not drawing the tree, but had more non-whitespace characters immediately following -w-. They will be ignored.\n")
				}
			}
		case 'n':
			{
				if !c.parseNodesParams([]byte(arg)[2:]) {
					return false
				}
			}
		case 'x':
			{
				if !c.parseViewpoint([]byte(arg)[2:]) {
					return false
				}
			}
		case 't':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.TerminalWalk = enabled
				if len(rest) > 0 {
					Log.Error("Syntax error: -t parameter is followed by garbage; expected -t, -t+ or -t-, no other variants allowed.\n")
				}
			}
		case 'v':
			{
				// "count" type: -v, -vv, -vvv, etc.
				vs := 0
				barg := []byte(arg)[1:]
				for i := 0; i < len(arg)-1; i++ {
					if barg[i] == 'v' {
						vs++
					} else {
						break
					}
				}
				c.VerbosityLevel += vs
			}
		case 'h':
			{
				// empty input file name makes caller print help
				c.InputFileName = ""
				return true
			}
		case 'o':
			{
				if len(arg) != 2 {
					Log.Error("Unrecognized modified '%s' (expected '-o <file>', space between '-o' and file name) - aborting.\n",
						arg)
					return false
				}
				if outputModifierUsed || len(files) > 1 {
					Log.Error("Can't specify output file twice, only one output file is supported - aborting.\n")
					return false
				}
				outputModifier = true
				outputModifierUsed = true
			}
		case '-':
			{
				// parameter starts with double hyphen, e.g. --something
				setter, known := fileArgs[arg]
				if !known {
					Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
					return false
				}
				fileSatisfied := len(args) > (argIdx+1) && args[argIdx+1] != ""
				if !fileSatisfied {
					Log.Error("Modifier '%s' was present without a file name following it - aborting.\n",
						arg)
					return false
				}
				setter(c, args[argIdx+1])
				skip = true
			}
		default:
			{
				Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
				return false
			}
		}
	}
	if outputModifier && !hasOutputFile {
		Log.Error("Modifier '-o' was present without a file name following it - aborting.\n")
		return false
	}
	return true
}

func (c *ProgramConfig) parseDrawParams(p []byte) bool {
	for len(p) > 0 {
		switch p[0] {
		case 's':
			{
				nos, rest := readNumeric("-ws", p[1:])
				if nos.whichType != ARG_IS_NUMBER {
					Log.Error("You are supposed to pass -ws=<pixels>, not -ws+ or -ws-.\n")
				} else if nos.value < MIN_IMAGE_SIZE {
					Log.Error("Picture size %d is too small (minimum is %d) - aborting.\n",
						nos.value, MIN_IMAGE_SIZE)
					return false
				} else {
					c.ImageSize = nos.value
				}
				p = rest
			}
		default:
			{
				Log.Error("Error passing drawing params - ignoring '%s'.\n", string(p))
				p = p[:0]
			}
		}
	}
	return true
}

func (c *ProgramConfig) parseNodesParams(p []byte) bool {
	for len(p) > 0 {
		switch p[0] {
		case 's':
			{
				nos, rest := readNumeric("-ns", p[1:])
				if nos.whichType == ARG_ENABLED || nos.whichType == ARG_DISABLED {
					Log.Error("You are supposed to pass -ns=<number>, not -ns+ or -ns-.\n")
				} else if nos.value < 1 {
					Log.Error("Stride must be at least 1 - aborting.\n")
					return false
				} else {
					c.NodeStride = nos.value
				}
				p = rest
			}
		case 'p':
			{
				on, rest := isEnabled(p[1:])
				c.Parallel = on
				p = rest
			}
		default:
			{
				Log.Error("Error passing nodes params - ignoring '%s'.\n", string(p))
				p = p[:0]
			}
		}
	}
	return true
}

// -x=<x>,<y>, either may be negative
func (c *ProgramConfig) parseViewpoint(p []byte) bool {
	if len(p) == 0 || p[0] != '=' {
		Log.Error("Expected -x=<x>,<y> for viewpoint - aborting.\n")
		return false
	}
	t, x, rest := readSignedNumeric(p[1:])
	if !t || len(rest) == 0 || rest[0] != ',' {
		Log.Error("Couldn't parse viewpoint '%s' - aborting.\n", string(p[1:]))
		return false
	}
	t, y, rest := readSignedNumeric(rest[1:])
	if !t || len(rest) > 0 {
		Log.Error("Couldn't parse viewpoint '%s' - aborting.\n", string(p[1:]))
		return false
	}
	c.Viewpoint = Point{X: float64(x), Y: float64(y)}
	c.HasViewpoint = true
	return true
}

func isEnabled(arg []byte) (bool, []byte) {
	if len(arg) == 0 {
		return true, arg
	}
	if arg[0] == '+' {
		return true, arg[1:]
	} else if arg[0] == '-' {
		return false, arg[1:]
	} else {
		return true, arg
	}
}

// a+, a-, or a=<numeric_value_without_sign>
func readNumeric(prefix string, arg []byte) (NumericOrState, []byte) {
	if len(arg) == 0 {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
	if arg[0] == '+' {
		return NumericOrState{whichType: ARG_ENABLED}, arg[1:]
	} else if arg[0] == '-' {
		return NumericOrState{whichType: ARG_DISABLED}, arg[1:]
	} else if arg[0] == '=' {
		t, v, rest := readNumericOnly(arg[1:])
		if t {
			return NumericOrState{
				whichType: ARG_IS_NUMBER,
				value:     v,
			}, rest
		} else {
			Log.Error("Couldn't properly parse '%s=%s'. Some parameters are going to be ignored as the result.\n", prefix, string(arg))
			return NumericOrState{
				whichType: ARG_ENABLED,
			}, arg[:0] // ignore the rest of parameters
		}
	} else {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
}

// Like readNumericOnly, but a leading minus sign is allowed
func readSignedNumeric(arg []byte) (bool, int, []byte) {
	if len(arg) > 0 && arg[0] == '-' {
		t, v, rest := readNumericOnly(arg[1:])
		return t, -v, rest
	}
	return readNumericOnly(arg)
}

func readNumericOnly(arg []byte) (bool, int, []byte) {
	if len(arg) == 0 {
		return false, 0, arg
	}
	l := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if '0' <= c && c <= '9' {
			l++
		} else {
			break
		}
	}
	if l > 0 {
		v, err := strconv.Atoi(string(arg[:l]))
		if err != nil {
			Log.Error("value '%s' was too big to interpret as int.\n",
				string(arg[:l]))
			return false, 0, arg[l:]
		}
		return true, v, arg[l:]
	}
	return false, 0, arg
}
