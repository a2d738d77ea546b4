package gyu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"github.com/sensokaku/retouchtk/internal/lzss"
	"github.com/sensokaku/retouchtk/internal/lzss2"
)

// Decode reads a complete GYU file from r and returns the assembled
// raster.
func Decode(r io.Reader) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gyu: reading input: %w", err)
	}
	return decodeBytes(data)
}

// DecodeHeader reads just the 36-byte header, for callers that only
// need metadata (dimensions, bpp, key) without paying for a full
// decompress.
func DecodeHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("gyu: reading header: %w", err)
	}
	return parseHeader(buf[:])
}

func parseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize || !bytes.Equal(buf[0:4], magic[:]) {
		return Header{}, ErrBadMagic
	}
	var h Header
	h.Flags = binary.LittleEndian.Uint16(buf[4:6])
	h.Type = binary.LittleEndian.Uint16(buf[6:8])
	h.Key = binary.LittleEndian.Uint32(buf[8:12])
	h.BPP = binary.LittleEndian.Uint32(buf[12:16])
	h.Width = binary.LittleEndian.Uint32(buf[16:20])
	h.Height = binary.LittleEndian.Uint32(buf[20:24])
	h.DataSize = binary.LittleEndian.Uint32(buf[24:28])
	h.AlphaSize = binary.LittleEndian.Uint32(buf[28:32])
	h.PalColors = binary.LittleEndian.Uint32(buf[32:36])
	return h, nil
}

func decodeBytes(data []byte) (*Raster, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	pos := HeaderSize
	var pal color.Palette
	if h.PalColors > 0 {
		need := int(h.PalColors) * 4
		if pos+need > len(data) {
			return nil, fmt.Errorf("gyu: %w: palette truncated", io.ErrUnexpectedEOF)
		}
		pal = make(color.Palette, h.PalColors)
		for i := range pal {
			off := pos + i*4
			b, g, rr := data[off], data[off+1], data[off+2]
			pal[i] = color.RGBA{R: rr, G: g, B: b, A: 0xFF}
		}
		pos += need
	} else if h.BPP == 8 {
		return nil, ErrMissingPalette
	}

	bytesPerPx := h.BPP / 8
	stride := rowStride(h.Width, bytesPerPx)
	rasterSize := int(stride) * int(h.Height)

	compSize := int(h.DataSize)
	if pos+compSize > len(data) {
		compSize = len(data) - pos
	}
	if compSize < 0 {
		compSize = 0
	}
	rgbComp := make([]byte, compSize)
	copy(rgbComp, data[pos:pos+compSize])
	pos += compSize

	if h.Key != 0 {
		shuffle(h.Key, int(h.DataSize), rgbComp)
	}

	pixels := decodePlane(rgbComp, int(h.DataSize), rasterSize, h.Type)

	alphaStride := int(rowStride(h.Width, 1))
	var alpha []byte
	if h.AlphaSize > 0 {
		aCompSize := int(h.AlphaSize)
		if pos+aCompSize > len(data) {
			aCompSize = len(data) - pos
		}
		if aCompSize < 0 {
			aCompSize = 0
		}
		alphaComp := make([]byte, aCompSize)
		copy(alphaComp, data[pos:pos+aCompSize])
		pos += aCompSize

		// Observed engine behaviour decodes the alpha plane without
		// shuffling it, even though the encoder scrambles it — see
		// the open question on alpha shuffling. Match the decoder,
		// not the encoder.
		alphaRasterSize := alphaStride * int(h.Height)
		alpha = decodePlane(alphaComp, int(h.AlphaSize), alphaRasterSize, TypeLZSS)
	}

	return &Raster{
		Width:       int(h.Width),
		Height:      int(h.Height),
		BPP:         int(h.BPP),
		RowStride:   int(stride),
		AlphaStride: alphaStride,
		Pixels:      pixels,
		Alpha:       alpha,
		Palette:     pal,
		WideAlpha:   h.WideAlpha(),
	}, nil
}

// decodePlane dispatches a compressed (or uncompressed) plane to the
// right codec and returns exactly rasterSize bytes.
func decodePlane(comp []byte, declaredSize, rasterSize int, typ uint16) []byte {
	if declaredSize == rasterSize {
		out := make([]byte, rasterSize)
		copy(out, comp)
		return out
	}
	if typ == TypeLZSS2 {
		// The leading 4 bytes are an uncompressed-size prefix the
		// decoder does not need to trust; raster size is already
		// known from the header.
		body := comp
		if len(body) >= 4 {
			body = body[4:]
		}
		return padPlane(lzss2.Decode(body, rasterSize), rasterSize)
	}
	return padPlane(lzss.Decode(comp, rasterSize), rasterSize)
}
