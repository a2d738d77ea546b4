package gyu

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sensokaku/retouchtk/internal/lzss"
)

// EncodeOptions controls key selection for Encode.
type EncodeOptions struct {
	// Key seeds the shuffle; 0 disables shuffling.
	Key uint32

	// RefKey, if non-nil, overrides Key with a donor key adopted from
	// a reference file (the --ref CLI behaviour).
	RefKey *uint32
}

func (o *EncodeOptions) key() uint32 {
	if o == nil {
		return 0
	}
	if o.RefKey != nil {
		return *o.RefKey
	}
	return o.Key
}

// Encode writes r to w as a GYU file. Output is only required to be
// semantically decompressible back to r's pixels, not byte-identical
// to what the original engine would produce. The alpha plane is
// shuffled with the key like the RGB plane, but Decode does not
// unshuffle it, so with a non-zero key Decode does not reproduce the
// alpha plane.
func Encode(w io.Writer, r *Raster, opt *EncodeOptions) error {
	if r.BPP != 8 && r.BPP != 24 && r.BPP != 32 {
		return ErrUnsupportedBPP
	}
	if r.BPP == 8 && r.Palette == nil {
		return ErrMissingPalette
	}

	key := opt.key()
	bytesPerPx := uint32(r.BPP / 8)
	stride := rowStride(uint32(r.Width), bytesPerPx)
	rasterSize := int(stride) * r.Height

	// A compressed plane exactly as long as the raw plane would be read
	// back as uncompressed, so such a plane is stored raw instead.
	rgbComp := lzss.Encode(padPlane(r.Pixels, rasterSize))
	if len(rgbComp) == rasterSize {
		rgbComp = append([]byte(nil), padPlane(r.Pixels, rasterSize)...)
	}
	shuffle(key, len(rgbComp), rgbComp)

	var alphaComp []byte
	alphaStride := int(rowStride(uint32(r.Width), 1))
	if len(r.Alpha) > 0 {
		alphaRasterSize := alphaStride * r.Height
		alphaComp = lzss.Encode(padPlane(r.Alpha, alphaRasterSize))
		if len(alphaComp) == alphaRasterSize {
			alphaComp = append([]byte(nil), padPlane(r.Alpha, alphaRasterSize)...)
		}
		shuffle(key, len(alphaComp), alphaComp)
	}

	var flags uint16
	if len(r.Alpha) > 0 {
		flags = FlagWideAlpha
	}

	h := Header{
		Flags:     flags,
		Type:      TypeLZSS,
		Key:       key,
		BPP:       uint32(r.BPP),
		Width:     uint32(r.Width),
		Height:    uint32(r.Height),
		DataSize:  uint32(len(rgbComp)),
		AlphaSize: uint32(len(alphaComp)),
		PalColors: uint32(len(r.Palette)),
	}

	if err := writeHeader(w, h); err != nil {
		return err
	}

	if len(r.Palette) > 0 {
		pal := make([]byte, len(r.Palette)*4)
		for i, c := range r.Palette {
			rr, gg, bb, _ := c.RGBA()
			off := i * 4
			pal[off] = byte(bb >> 8)
			pal[off+1] = byte(gg >> 8)
			pal[off+2] = byte(rr >> 8)
			pal[off+3] = 0
		}
		if _, err := w.Write(pal); err != nil {
			return fmt.Errorf("gyu: writing palette: %w", err)
		}
	}

	if _, err := w.Write(rgbComp); err != nil {
		return fmt.Errorf("gyu: writing rgb plane: %w", err)
	}
	if len(alphaComp) > 0 {
		if _, err := w.Write(alphaComp); err != nil {
			return fmt.Errorf("gyu: writing alpha plane: %w", err)
		}
	}
	return nil
}

func writeHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Flags)
	binary.LittleEndian.PutUint16(buf[6:8], h.Type)
	binary.LittleEndian.PutUint32(buf[8:12], h.Key)
	binary.LittleEndian.PutUint32(buf[12:16], h.BPP)
	binary.LittleEndian.PutUint32(buf[16:20], h.Width)
	binary.LittleEndian.PutUint32(buf[20:24], h.Height)
	binary.LittleEndian.PutUint32(buf[24:28], h.DataSize)
	binary.LittleEndian.PutUint32(buf[28:32], h.AlphaSize)
	binary.LittleEndian.PutUint32(buf[32:36], h.PalColors)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("gyu: writing header: %w", err)
	}
	return nil
}

// padPlane returns data truncated or zero-extended to exactly size
// bytes, so a caller-supplied plane of the wrong length still encodes
// deterministically rather than panicking on a short slice.
func padPlane(data []byte, size int) []byte {
	if len(data) == size {
		return data
	}
	out := make([]byte, size)
	copy(out, data)
	return out
}
