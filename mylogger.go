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

// Central log (stdout/stderr) of the program
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type MyLogger struct {
	segs bytes.Buffer
	// Mutex is used to order writes to stdout and stderr
	mu     sync.Mutex
	syslog *log.Logger
	errlog *log.Logger
}

// Logs specific to a single subtree builder. Their output is not forwarded to
// the stdout or stderr, but is instead buffered until the builder is joined
// with the one that forked it, and finally merged into main log of MyLogger
// type. This way output of subtrees built concurrently doesn't interleave
type MiniLogger struct {
	buf  bytes.Buffer
	segs bytes.Buffer
}

func CreateLogger(out io.Writer, errOut io.Writer) *MyLogger {
	res := new(MyLogger)
	res.syslog = log.New(out, "", 0)
	res.errlog = log.New(errOut, "", 0)
	return res
}

var Log = CreateLogger(os.Stdout, os.Stderr)

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.syslog.Printf(s, a...)
}

// As generic as printf, but writes to stderr instead of stdout
// Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.errlog.Printf(s, a...)
}

// For advanced users or users that are curious, or programmers, there is
// stuff they might want to see but only when they can really bother to spend
// time reading it
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if verbosityLevel <= config.VerbosityLevel {
		log.mu.Lock()
		defer log.mu.Unlock()
		log.syslog.Printf(s, a...)
	}
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	panic(fmt.Sprintf(s, a...))
}

// DumpSegs records segments of a leaf, to be saved with --dumpsegs
func (log *MyLogger) DumpSegs(lines []*Segment) {
	if !config.DumpSegs || len(lines) == 0 { // reference to global: config
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	writeSegDump(&log.segs, lines)
}

func writeSegDump(b *bytes.Buffer, lines []*Segment) {
	b.WriteString(fmt.Sprintf("Leaf of %d segs:\n", len(lines)))
	for _, line := range lines {
		if line.Wall != nil {
			b.WriteString(fmt.Sprintf("  Wall (%v,%v)-(%v,%v)",
				line.Wall.P1.X, line.Wall.P1.Y, line.Wall.P2.X, line.Wall.P2.Y))
		} else {
			b.WriteString("  Wall none")
		}
		b.WriteString(fmt.Sprintf(" Side: %d (%v,%v) - (%v, %v)\n",
			line.Side, line.P1.X, line.P1.Y, line.P2.X, line.P2.Y))
	}
}

func (log *MyLogger) GetDumpedSegs() string {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.segs.String()
}

func (log *MyLogger) Merge(mlog *MiniLogger, preface string) {
	if mlog == nil {
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(preface) > 0 {
		log.syslog.Print(preface)
	}
	content := mlog.buf.String()
	if len(content) > 0 {
		log.syslog.Print(content)
	}
	segs := mlog.segs.String()
	if len(segs) > 0 {
		log.segs.WriteString(segs)
	}
}

func (mlog *MiniLogger) Printf(s string, a ...interface{}) {
	if mlog == nil {
		Log.Printf(s, a...)
		return
	}
	mlog.buf.WriteString(fmt.Sprintf(s, a...))
}

func (mlog *MiniLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if mlog == nil {
		Log.Verbose(verbosityLevel, s, a...)
		return
	}
	if verbosityLevel <= config.VerbosityLevel {
		mlog.buf.WriteString(fmt.Sprintf(s, a...))
	}
}

func (mlog *MiniLogger) DumpSegs(lines []*Segment) {
	if mlog == nil {
		Log.DumpSegs(lines)
		return
	}
	if !config.DumpSegs || len(lines) == 0 { // reference to global: config
		return
	}
	writeSegDump(&mlog.segs, lines)
}

// Absorb appends everything buffered by child to this logger. Child must not
// be written to afterwards
func (mlog *MiniLogger) Absorb(child *MiniLogger) {
	if child == nil {
		return
	}
	mlog.buf.Write(child.buf.Bytes())
	mlog.segs.Write(child.segs.Bytes())
}

func (mlog *MiniLogger) String() string {
	return mlog.buf.String()
}

func CreateMiniLogger() *MiniLogger {
	return new(MiniLogger)
}
