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

// drawing_test.go
package main

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDrawTree(t *testing.T) {
	walls := crossingWalls()
	tree, err := Build(MakeSegments(walls))
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	view := Point{5, -5}
	img := DrawTree(tree, walls, view, LeafOrder(tree, view), 256)
	b := img.Bounds()
	if b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("picture is %dx%d, expected 256x256\n", b.Dx(), b.Dy())
	}
	// 20x20 map fits in 224 pixels, so (5,-5) is at (184,184)
	if c := img.RGBAAt(184, 184); c != colorViewpoint {
		t.Errorf("viewpoint pixel is %v, expected %v\n", c, colorViewpoint)
	}
	if c := img.RGBAAt(0, 0); c != colorBackground {
		t.Errorf("corner pixel is %v, expected background %v\n", c, colorBackground)
	}
}

func TestPictureLine(t *testing.T) {
	// 100x100 area in 100 pixels plus margins, so scale is 1
	p := newTreePicture(BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}, 132)
	if p.scale != 1 || p.img.Bounds().Dx() != 132 {
		t.Fatalf("scale %v, width %d, expected 1 and 132\n", p.scale, p.img.Bounds().Dx())
	}
	c := color.RGBA{0x80, 0x40, 0x20, 0xff}
	// map y 50 is pixel row 66, line covers rows 65 and 66
	p.line(Point{10, 50}, Point{90, 50}, 2, c)
	cases := []struct {
		x, y int
		c    color.RGBA
	}{
		{60, 65, c},
		{60, 66, c},
		{60, 70, colorBackground},
		{20, 65, colorBackground},
		{110, 65, colorBackground},
	}
	for _, v := range cases {
		if got := p.img.RGBAAt(v.x, v.y); got != v.c {
			t.Errorf("pixel (%d,%d) is %v, expected %v\n", v.x, v.y, got, v.c)
		}
	}
	// outside of the picture, nothing to draw
	p.line(Point{-500, -500}, Point{-400, -500}, 2, c)
	p.dot(Point{1000, 1000}, 6, c)
}

func BenchmarkDrawTree(b *testing.B) {
	tree, err := Build(MakeSegments(gridWalls))
	if err != nil {
		b.Fatalf("build failed: %s\n", err)
	}
	view := Point{5, 5}
	order := LeafOrder(tree, view)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DrawTree(tree, gridWalls, view, order, 1024)
	}
}

func TestDrawTreeIncludesViewpoint(t *testing.T) {
	walls := squareWalls()
	tree, err := Build(MakeSegments(walls))
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	// viewpoint far outside the map widens the picture
	view := Point{30, 5}
	img := DrawTree(tree, walls, view, LeafOrder(tree, view), 128)
	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() >= 128 {
		t.Errorf("picture is %dx%d, expected 128 wide and less tall\n", b.Dx(), b.Dy())
	}
}

func TestLeafColor(t *testing.T) {
	first := LeafColor(0, 5)
	last := LeafColor(4, 5)
	if first.R != 255 || first.B != 0 {
		t.Errorf("nearest leaf colour %v, expected red\n", first)
	}
	if last.R != 0 || last.B != 255 {
		t.Errorf("farthest leaf colour %v, expected blue\n", last)
	}
	if only := LeafColor(0, 1); only != first {
		t.Errorf("colour of the only leaf %v, expected %v\n", only, first)
	}
}

func TestSavePicture(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "map.dwd")
	if err := os.WriteFile(input, []byte(testMapText), 0644); err != nil {
		t.Fatalf("couldn't write map: %s\n", err)
	}
	walls := squareWalls()
	tree, err := Build(MakeSegments(walls))
	if err != nil {
		t.Fatalf("build failed: %s\n", err)
	}
	img := DrawTree(tree, walls, Point{5, 5}, LeafOrder(tree, Point{5, 5}), 64)

	// picture is only in place once Success is called
	saved := filepath.Join(dir, "saved.png")
	fc := &FileControl{}
	if _, err := fc.OpenInputFile(input); err != nil {
		t.Fatalf("couldn't open map: %s\n", err)
	}
	if err := SavePicture(fc, saved, img); err != nil {
		t.Fatalf("couldn't save picture: %s\n", err)
	}
	if _, err := os.Stat(saved); err == nil {
		t.Errorf("picture is in place before Success\n")
	}
	if !fc.Success() {
		t.Fatalf("Success returned false\n")
	}
	fc.Shutdown()
	f, err := os.Open(saved)
	if err != nil {
		t.Fatalf("picture was not saved: %s\n", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("saved picture is not a valid png: %s\n", err)
	}

	// without Success nothing is left behind
	dropped := filepath.Join(dir, "dropped.png")
	fc = &FileControl{}
	if err := SavePicture(fc, dropped, img); err != nil {
		t.Fatalf("couldn't save picture: %s\n", err)
	}
	fc.Shutdown()
	if _, err := os.Stat(dropped); err == nil {
		t.Errorf("picture was written even though Success was not called\n")
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "idbsp*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v\n", leftovers)
	}
}
