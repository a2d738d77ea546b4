// Command gyutool decodes and encodes GYU raster files, the thin
// batch-mode wrapper spec.md §6 describes: argument parsing, directory
// walking, and PNG pixel I/O are all "external collaborator" concerns
// here, handled with stdlib flag/filepath/image/png rather than
// anything the gyu package itself needs to know about.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sensokaku/retouchtk/gyu"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "decode":
		err = runDecode(os.Args[2:])
	case "encode":
		err = runEncode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "gyutool:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gyutool decode [-o OUT] INPUT...")
	fmt.Fprintln(os.Stderr, "       gyutool encode [-o OUT] [--ref REF_DIR] INPUT...")
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	out := fs.String("o", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs, err := walkFiles(fs.Args(), ".gyu")
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .gyu input files named")
	}

	failed := 0
	for _, in := range inputs {
		if err := decodeOne(in, *out); err != nil {
			fmt.Fprintf(os.Stderr, "gyutool: %s: %v\n", in, err)
			failed++
			continue
		}
	}
	if failed == len(inputs) {
		return fmt.Errorf("all %d file(s) failed", failed)
	}
	return nil
}

func decodeOne(in, outDir string) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	defer f.Close()

	r, err := gyu.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	dst := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".png")
	if outDir == "" {
		dst = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, r); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	out := fs.String("o", "", "output directory")
	ref := fs.String("ref", "", "reference directory to adopt shuffle keys from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs, err := walkFiles(fs.Args(), ".png")
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .png input files named")
	}

	failed := 0
	for _, in := range inputs {
		if err := encodeOne(in, *out, *ref); err != nil {
			fmt.Fprintf(os.Stderr, "gyutool: %s: %v\n", in, err)
			failed++
			continue
		}
	}
	if failed == len(inputs) {
		return fmt.Errorf("all %d file(s) failed", failed)
	}
	return nil
}

func encodeOne(in, outDir, refDir string) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding png: %w", err)
	}

	raster := rasterFromImage(img)

	opt := &gyu.EncodeOptions{}
	if refDir != "" {
		donor := filepath.Join(refDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".gyu")
		if key, err := donorKey(donor); err == nil {
			opt.RefKey = &key
		}
	}

	dst := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".gyu")
	if outDir == "" {
		dst = strings.TrimSuffix(in, filepath.Ext(in)) + ".gyu"
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	w, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating: %w", err)
	}
	defer w.Close()

	return gyu.Encode(w, raster, opt)
}

// donorKey reads just the header of a reference GYU file to recover
// the shuffle key the --ref flag adopts.
func donorKey(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h, err := gyu.DecodeHeader(f)
	if err != nil {
		return 0, err
	}
	return h.Key, nil
}

// rasterFromImage converts a decoded PNG into the bottom-up, native-
// layout planes gyu.Encode expects: paletted images stay 8bpp with
// their palette carried through as BGRA, everything else becomes
// 24bpp (or 32bpp when any pixel is non-opaque).
func rasterFromImage(img image.Image) *gyu.Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if p, ok := img.(*image.Paletted); ok {
		return rasterFromPaletted(p, w, h)
	}

	hasAlpha := false
	for y := b.Min.Y; y < b.Max.Y && !hasAlpha; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0xFFFF {
				hasAlpha = true
				break
			}
		}
	}

	bpp := 24
	if hasAlpha {
		bpp = 32
	}
	bytesPerPx := bpp / 8
	stride := ((w*bytesPerPx + 3) / 4) * 4
	pixels := make([]byte, stride*h)

	for y := 0; y < h; y++ {
		row := h - 1 - y // bottom-up storage
		for x := 0; x < w; x++ {
			rr, gg, bb, aa := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			off := row*stride + x*bytesPerPx
			pixels[off] = byte(bb >> 8)
			pixels[off+1] = byte(gg >> 8)
			pixels[off+2] = byte(rr >> 8)
			if bpp == 32 {
				pixels[off+3] = byte(aa >> 8)
			}
		}
	}

	return &gyu.Raster{Width: w, Height: h, BPP: bpp, RowStride: stride, Pixels: pixels}
}

func rasterFromPaletted(p *image.Paletted, w, h int) *gyu.Raster {
	stride := ((w + 3) / 4) * 4
	pixels := make([]byte, stride*h)

	for y := 0; y < h; y++ {
		row := h - 1 - y
		srcOff := p.PixOffset(p.Rect.Min.X, p.Rect.Min.Y+y)
		copy(pixels[row*stride:row*stride+w], p.Pix[srcOff:srcOff+w])
	}

	pal := make(color.Palette, len(p.Palette))
	copy(pal, p.Palette)

	return &gyu.Raster{Width: w, Height: h, BPP: 8, RowStride: stride, Pixels: pixels, Palette: pal}
}

// walkFiles expands directories in inputs into their contained files
// matching ext (recursively), and passes plain file paths through
// unchanged.
func walkFiles(inputs []string, ext string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", in, err)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		err = filepath.WalkDir(in, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ext) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
