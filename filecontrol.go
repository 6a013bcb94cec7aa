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
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/pkg/errors"
)

// Controls lifetime of both input map and output picture - ensures they are
// properly closed by the end of program, regardless of success and failure.
// Picture is written to a temporary file in the destination directory, which
// either replaces the destination (on success) or is deleted (on failure), so
// a picture from a previous run is never left half-overwritten
type FileControl struct {
	success        bool
	fin            *os.File
	fout           *os.File
	inputFileName  string
	outputFileName string
	tmpFileName    string
}

func (fc *FileControl) OpenInputFile(inputFileName string) (*os.File, error) {
	if fc.fin != nil {
		Log.Panic("Sanity check failed: input file '%s' is already open.\n",
			fc.inputFileName)
	}
	fc.inputFileName = inputFileName
	var err error
	fc.fin, err = os.Open(inputFileName)
	if err != nil {
		fc.fin = nil
		return nil, errors.Wrap(err, "opening map")
	}
	return fc.fin, nil
}

func (fc *FileControl) OpenOutputFile(outputFileName string) (*os.File, error) {
	if fc.fout != nil {
		Log.Panic("Sanity check failed: output file '%s' is already open.\n",
			fc.outputFileName)
	}
	fc.outputFileName = outputFileName
	var err error
	fc.fout, err = os.CreateTemp(filepath.Dir(outputFileName), "idbsp*.tmp")
	if err != nil {
		fc.fout = nil
		return nil, errors.Wrapf(err, "creating temporary file for '%s'", outputFileName)
	}
	fc.tmpFileName = fc.fout.Name()
	return fc.fout, nil
}

// Success closes the files, and puts the output file in place. Returns false
// if any of it failed
func (fc *FileControl) Success() bool {
	if fc.fin == nil {
		Log.Panic("Sanity check failed: descriptor invalid.\n")
	}
	errFin := fc.fin.Close()
	fc.fin = nil
	if errFin != nil {
		Log.Error("Closing input file returned error: %s.\n", errFin.Error())
	}
	if fc.fout == nil {
		fc.success = true
		return errFin == nil
	}
	errFout := fc.fout.Close()
	fc.fout = nil
	if errFout != nil {
		// Shutdown gets to remove the temporary file
		Log.Error("Closing output file (after picture was almost ready) returned error: %s.\n",
			errFout.Error())
		return false
	}
	err := os.Rename(fc.tmpFileName, fc.outputFileName)
	if err != nil {
		Log.Error("Couldn't move temporary file '%s' to '%s': %s.\n",
			fc.tmpFileName, fc.outputFileName, err.Error())
		return false
	}
	fc.success = true // nothing to clean up on program exit anyway
	return errFin == nil
}

// Ensures we close all files when program exits. Temporary file is getting
// deleted at this moment
func (fc *FileControl) Shutdown() {
	if fc.success {
		return
	}

	var errFin error
	if fc.fin != nil {
		errFin = fc.fin.Close()
		fc.fin = nil
	}

	var errFout error
	if fc.fout != nil {
		errFout = fc.fout.Close()
		fc.fout = nil
	}

	if errFin != nil {
		Log.Error("Couldn't close input file '%s': %s\n", fc.inputFileName, errFin.Error())
	}

	if errFout != nil {
		Log.Error("Couldn't close output file '%s': %s\n", fc.tmpFileName, errFout.Error())
	}

	if fc.tmpFileName != "" { // Aborting unsuccessful operation when a temp file has been created
		err := os.Remove(fc.tmpFileName)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			Log.Error("Got error when trying to delete a temporary file '%s': %s\n", fc.tmpFileName, err.Error())
		}
		fc.tmpFileName = ""
	}
}

// Writes segments of every leaf collected by DumpSegs during the build
func DebugSaveDumpedSegs(where string) error {
	fout, ferr := os.OpenFile(where, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.ModeExclusive|os.ModePerm)
	if ferr != nil {
		return errors.Wrapf(ferr, "saving seg dump to '%s'", where)
	}
	n, err := fout.WriteString(Log.GetDumpedSegs())
	if err != nil {
		fout.Close()
		return errors.Wrapf(err, "saving seg dump to '%s'", where)
	}
	if err := fout.Close(); err != nil {
		return errors.Wrapf(err, "saving seg dump to '%s'", where)
	}
	Log.Printf("Wrote seg dump (%d bytes) to '%s'.\n", n, where)
	return nil
}

func DumpMemoryProfile(where string) error {
	fout, ferr := os.OpenFile(where, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.ModeExclusive|os.ModePerm)
	if ferr != nil {
		return errors.Wrapf(ferr, "writing memory profile to '%s'", where)
	}
	err := pprof.Lookup("allocs").WriteTo(fout, 0)
	if cerr := fout.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "writing memory profile to '%s'", where)
	}
	return nil
}
