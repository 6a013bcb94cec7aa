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

// filecontrol_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func withDumpedSegs(t *testing.T, f func()) {
	c := DefaultConfig()
	c.DumpSegs = true
	withConfig(t, c, func() {
		withLogger(func() {
			Log.DumpSegs([]*Segment{seg(0, 0, 0, 8), seg(0, 8, 8, 8)})
			f()
		})
	})
}

func TestDebugSaveDumpedSegs(t *testing.T) {
	where := filepath.Join(t.TempDir(), "segs.txt")
	withDumpedSegs(t, func() {
		if err := DebugSaveDumpedSegs(where); err != nil {
			t.Fatalf("couldn't save seg dump: %s\n", err)
		}
		saved, err := os.ReadFile(where)
		if err != nil {
			t.Fatalf("seg dump was not saved: %s\n", err)
		}
		if string(saved) != Log.GetDumpedSegs() {
			t.Errorf("saved dump '%s' differs from the recorded one\n", saved)
		}
	})
}

func TestDebugSaveDumpedSegsWriteFails(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	withDumpedSegs(t, func() {
		if err := DebugSaveDumpedSegs("/dev/full"); err == nil {
			t.Errorf("expected an error writing to a full device\n")
		}
	})
}

func TestDumpMemoryProfile(t *testing.T) {
	where := filepath.Join(t.TempDir(), "mem.prof")
	if err := DumpMemoryProfile(where); err != nil {
		t.Fatalf("couldn't write memory profile: %s\n", err)
	}
	if fi, err := os.Stat(where); err != nil || fi.Size() == 0 {
		t.Errorf("memory profile is missing or empty\n")
	}
	if err := DumpMemoryProfile(filepath.Join(t.TempDir(), "no", "such", "dir")); err == nil {
		t.Errorf("expected an error for a path that can't be created\n")
	}
}
