package gyu

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/sensokaku/retouchtk/internal/lzss"
)

// buildHeader packs a 36-byte GYU header for test fixtures.
func buildHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
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
	return buf
}

func TestDecode_Uncompressed24bpp(t *testing.T) {
	// spec.md §8 vector: a 2x2 24-bit uncompressed file. Raw BGR
	// bytes are stored bottom-up, row stride padded to a multiple of
	// 4 (2 px * 3 B/px = 6, padded to 8). Row 0 (stored first, the
	// bottom visual row) holds raw BGR (0,0,255),(0,255,0); row 1
	// (stored last, the top visual row) holds raw BGR
	// (255,0,0),(128,128,128).
	row0 := []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0x00, 0x00}
	row1 := []byte{0xFF, 0x00, 0x00, 0x80, 0x80, 0x80, 0x00, 0x00}
	raster := append(append([]byte{}, row0...), row1...)

	h := Header{BPP: 24, Width: 2, Height: 2, DataSize: uint32(len(raster))}
	data := append(buildHeader(h), raster...)

	r, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.Width != 2 || r.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", r.Width, r.Height)
	}

	// Visual top row (y=0) is the file's last stored row: BGR->RGB
	// swap turns (255,0,0) into (0,0,255) and (128,128,128) stays gray.
	if got := r.At(0, 0); got != (color.RGBA{R: 0, G: 0, B: 255, A: 0xFF}) {
		t.Errorf("At(0,0) = %v, want (0,0,255,255)", got)
	}
	if got := r.At(1, 0); got != (color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}) {
		t.Errorf("At(1,0) = %v, want gray", got)
	}
	// Visual bottom row (y=1) is the file's first stored row: raw BGR
	// (0,0,255) swaps to RGB (255,0,0).
	if got := r.At(0, 1); got != (color.RGBA{R: 255, G: 0, B: 0, A: 0xFF}) {
		t.Errorf("At(0,1) = %v, want (255,0,0,255)", got)
	}
	if got := r.At(1, 1); got != (color.RGBA{R: 0, G: 255, B: 0, A: 0xFF}) {
		t.Errorf("At(1,1) = %v, want (0,255,0,255)", got)
	}
}

func TestDecodeHeader_BadMagic(t *testing.T) {
	data := make([]byte, HeaderSize)
	copy(data, "XXXX")
	_, err := DecodeHeader(bytes.NewReader(data))
	if err != ErrBadMagic {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
}

func TestDecode_MissingPaletteFor8bpp(t *testing.T) {
	h := Header{BPP: 8, Width: 1, Height: 1, DataSize: 4}
	data := append(buildHeader(h), 0, 0, 0, 0)
	_, err := Decode(bytes.NewReader(data))
	if err != ErrMissingPalette {
		t.Errorf("err = %v, want ErrMissingPalette", err)
	}
}

func TestDecode_PaletteLookup(t *testing.T) {
	// 1x1 8bpp image, single palette entry: BGRA (0,0,255,0) -> red.
	h := Header{BPP: 8, Width: 1, Height: 1, DataSize: 4, PalColors: 1}
	data := buildHeader(h)
	data = append(data, 0x00, 0x00, 0xFF, 0x00) // palette entry
	data = append(data, 0x00, 0x00, 0x00, 0x00) // raster, row stride 4, index 0

	r, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := r.At(0, 0); got != (color.RGBA{R: 0xFF, G: 0, B: 0, A: 0xFF}) {
		t.Errorf("At(0,0) = %v, want (255,0,0,255)", got)
	}
}

func TestDecode_LZSSCompressedPlane(t *testing.T) {
	// 2x2, 24bpp, stride 8: 2 identical rows of 8 bytes, so declared
	// data_size (the compressed length) differs from the raster size
	// and the decoder must run it through the LZSS codec.
	row := []byte{0xAA, 0xBB, 0xCC, 0xAA, 0xBB, 0xCC, 0x00, 0x00}
	plain := append(append([]byte{}, row...), row...)

	comp := lzss.Encode(plain)
	h := Header{BPP: 24, Width: 2, Height: 2, DataSize: uint32(len(comp))}
	data := append(buildHeader(h), comp...)

	r, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := r.At(0, 0)
	want := color.RGBA{R: 0xCC, G: 0xBB, B: 0xAA, A: 0xFF}
	if got != want {
		t.Errorf("At(0,0) = %v, want %v", got, want)
	}
}
