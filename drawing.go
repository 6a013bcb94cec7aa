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

// drawing
package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Debug picture of the tree: the map seen from above, y axis pointing up

const PICTURE_MARGIN = 16 // pixels on each side

var (
	colorBackground = color.RGBA{0x10, 0x10, 0x18, 0xff}
	colorWall       = color.RGBA{0x50, 0x50, 0x58, 0xff}
	colorBox        = color.RGBA{0x30, 0x50, 0x30, 0xff}
	colorDivline    = color.RGBA{0x40, 0x70, 0xa0, 0xff}
	colorLabel      = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorViewpoint  = color.RGBA{0xff, 0x30, 0x30, 0xff}
)

type treePicture struct {
	img    *image.RGBA
	area   BoundingBox // part of the map that is drawn
	scale  float64
	raster *vector.Rasterizer
}

func newTreePicture(area BoundingBox, size int) *treePicture {
	inner := float64(size - 2*PICTURE_MARGIN)
	extent := math.Max(area.Width(), area.Height())
	if extent < 1 {
		extent = 1
	}
	scale := inner / extent
	w := int(math.Round(area.Width()*scale)) + 2*PICTURE_MARGIN
	h := int(math.Round(area.Height()*scale)) + 2*PICTURE_MARGIN
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	return &treePicture{
		img:    img,
		area:   area,
		scale:  scale,
		raster: vector.NewRasterizer(w, h),
	}
}

// toPixel converts map coordinates to picture coordinates
func (p *treePicture) toPixel(pt Point) (float32, float32) {
	x := (pt.X-p.area.X1)*p.scale + PICTURE_MARGIN
	y := float64(p.img.Bounds().Dy()) - ((pt.Y-p.area.Y1)*p.scale + PICTURE_MARGIN)
	return float32(x), float32(y)
}

// line draws a segment between two map points as a quad width pixels thick
func (p *treePicture) line(a, b Point, width float32, c color.Color) {
	x1, y1 := p.toPixel(a)
	x2, y2 := p.toPixel(b)
	dx := x2 - x1
	dy := y2 - y1
	l := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if l < 0.5 {
		p.dot(a, width, c)
		return
	}
	// half-width normal
	nx := -dy / l * width / 2
	ny := dx / l * width / 2
	p.fill([4]float32{x1 + nx, x2 + nx, x2 - nx, x1 - nx},
		[4]float32{y1 + ny, y2 + ny, y2 - ny, y1 - ny}, c)
}

// dot draws a square centred on the map point
func (p *treePicture) dot(at Point, size float32, c color.Color) {
	x, y := p.toPixel(at)
	h := size / 2
	p.fill([4]float32{x - h, x + h, x + h, x - h},
		[4]float32{y - h, y - h, y + h, y + h}, c)
}

// fill paints a quad. Only the pixels under it go through the rasterizer
func (p *treePicture) fill(xs, ys [4]float32, c color.Color) {
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = min(minX, xs[i])
		maxX = max(maxX, xs[i])
		minY = min(minY, ys[i])
		maxY = max(maxY, ys[i])
	}
	r := image.Rect(int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY)))).Intersect(p.img.Bounds())
	if r.Empty() {
		return
	}
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	p.raster.Reset(r.Dx(), r.Dy())
	p.raster.MoveTo(xs[0]-ox, ys[0]-oy)
	for i := 1; i < 4; i++ {
		p.raster.LineTo(xs[i]-ox, ys[i]-oy)
	}
	p.raster.ClosePath()
	p.raster.Draw(p.img, r, image.NewUniform(c), r.Min)
}

func (p *treePicture) box(b BoundingBox, c color.Color) {
	corners := [4]Point{{b.X1, b.Y1}, {b.X2, b.Y1}, {b.X2, b.Y2}, {b.X1, b.Y2}}
	for i := range corners {
		p.line(corners[i], corners[(i+1)%4], 1, c)
	}
}

// label writes text centred on the map point
func (p *treePicture) label(at Point, s string, c color.Color) {
	x, y := p.toPixel(at)
	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(x*64) - w/2,
		Y: fixed.Int26_6(y*64) + fixed.I(basicfont.Face7x13.Ascent/2),
	}
	d.DrawString(s)
}

// LeafColor is the colour of the i-th of n visited leaves: nearest ones are
// warm, farthest are cold
func LeafColor(i, n int) color.RGBA {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	return color.RGBA{
		R: uint8(255 * (1 - t)),
		G: uint8(64 + 160*(1-math.Abs(2*t-1))),
		B: uint8(255 * t),
		A: 0xff,
	}
}

// DrawTree draws walls, boxes of all nodes, dividing lines of interior nodes
// and leaves coloured and numbered in traversal order
func DrawTree(tree *BSPNode, walls []*SourceWall, view Point, order []*BSPNode,
	size int) *image.RGBA {
	area := tree.BBox
	for _, wall := range walls {
		area.addPoint(wall.P1)
		area.addPoint(wall.P2)
	}
	area.addPoint(view)
	p := newTreePicture(area, size)

	for _, wall := range walls {
		p.line(wall.P1, wall.P2, 1, colorWall)
	}
	p.drawNode(tree)

	for i, leaf := range order {
		c := LeafColor(i, len(order))
		for _, line := range leaf.Lines {
			p.line(line.P1, line.P2, 2, c)
		}
	}
	// labels on top of everything
	for i, leaf := range order {
		p.label(leaf.BBox.Center(), strconv.Itoa(i), colorLabel)
	}
	p.dot(view, 6, colorViewpoint)
	return p.img
}

func (p *treePicture) drawNode(node *BSPNode) {
	p.box(node.BBox, colorBox)
	if node.IsLeaf() {
		return
	}
	if a, b, ok := node.Divline.ClipToBox(node.BBox); ok {
		p.line(a, b, 1, colorDivline)
	}
	p.drawNode(node.Side[0])
	p.drawNode(node.Side[1])
}

// SavePicture writes the image as PNG through file control. It only ends up
// under fileName once fc.Success() is called
func SavePicture(fc *FileControl, fileName string, img image.Image) error {
	f, err := fc.OpenOutputFile(fileName)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "encoding picture '%s'", fileName)
	}
	return nil
}
