package gyu

import (
	"image"
	"image/color"
)

// Raster is a decoded GYU image: bottom-up, native-layout pixel and
// alpha planes alongside enough metadata to convert them into
// standard image.Image color values on demand.
type Raster struct {
	Width, Height int
	BPP           int
	RowStride     int
	AlphaStride   int
	Pixels        []byte
	Alpha         []byte
	Palette       color.Palette
	WideAlpha     bool
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	if r.BPP == 8 && r.Palette != nil {
		return r.Palette
	}
	if len(r.Alpha) > 0 {
		return color.NRGBAModel
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At implements image.Image. The underlying planes are stored
// bottom-up (last scan row first); At converts to the top-down
// (x, y) convention image.Image callers expect.
func (r *Raster) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return color.RGBA{}
	}
	row := r.Height - 1 - y

	switch r.BPP {
	case 8:
		idx := r.Pixels[row*r.RowStride+x]
		var base color.Color = color.RGBA{}
		if r.Palette != nil && int(idx) < len(r.Palette) {
			base = r.Palette[idx]
		}
		if len(r.Alpha) == 0 {
			return base
		}
		rr, gg, bb, _ := base.RGBA()
		a := r.alphaAt(row, x)
		return color.NRGBA{R: byte(rr >> 8), G: byte(gg >> 8), B: byte(bb >> 8), A: a}

	case 24:
		off := row*r.RowStride + x*3
		b, g, rr := r.Pixels[off], r.Pixels[off+1], r.Pixels[off+2]
		if len(r.Alpha) == 0 {
			return color.RGBA{R: rr, G: g, B: b, A: 0xFF}
		}
		a := r.alphaAt(row, x)
		return color.NRGBA{R: rr, G: g, B: b, A: a}

	case 32:
		off := row*r.RowStride + x*4
		b, g, rr, a := r.Pixels[off], r.Pixels[off+1], r.Pixels[off+2], r.Pixels[off+3]
		return color.NRGBA{R: rr, G: g, B: b, A: a}

	default:
		return color.RGBA{}
	}
}

// alphaAt returns the transformed alpha value for the given bottom-up
// row and column, applying the nibble-scaling rule unless WideAlpha is
// set.
func (r *Raster) alphaAt(row, x int) byte {
	if x >= r.AlphaStride || row*r.AlphaStride+x >= len(r.Alpha) {
		return 0xFF
	}
	a := r.Alpha[row*r.AlphaStride+x]
	if r.WideAlpha {
		return a
	}
	if a < 16 {
		return a * 16
	}
	return 0xFF
}
