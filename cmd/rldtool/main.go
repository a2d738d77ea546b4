// Command rldtool extracts translatable text from RLD scenario files
// and repairs corrupted working TSVs against freshly re-extracted
// pristine originals. Argument parsing and directory walking are thin
// stdlib wrappers, per spec.md §6.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sensokaku/retouchtk/rld"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "extract":
		err = runExtract(os.Args[2:])
	case "fix":
		err = runFix(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "rldtool:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rldtool extract [-o OUT] INPUT...")
	fmt.Fprintln(os.Stderr, "       rldtool fix RLD_DIR TSV [OUT_TSV]")
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	out := fs.String("o", ".", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	files, err := walkRLDFiles(fs.Args())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .rld input files named")
	}

	chars, err := buildCharacterTable(files)
	if err != nil {
		return err
	}

	filter := rld.DefaultTextFilter()
	perFile := make(map[string][]rld.Entry)
	var names []string

	failed := 0
	for _, path := range files {
		base := filepath.Base(path)
		if base == "defChara.rld" || base == "def.rld" {
			continue
		}
		entries, err := extractFile(path, chars, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rldtool: %s: %v\n", path, err)
			failed++
			continue
		}
		perFile[base] = entries
		for _, e := range entries {
			if e.Kind == rld.KindMessage && e.Speaker != "" {
				names = append(names, e.Speaker)
			}
		}
	}
	if failed > 0 && len(perFile) == 0 {
		return fmt.Errorf("all %d file(s) failed", failed)
	}

	for _, name := range chars {
		names = append(names, name)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return writeArtifacts(*out, perFile, chars, names)
}

func extractFile(path string, chars rld.CharacterTable, filter rld.TextFilter) ([]rld.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	if !rld.HasMagic(data) {
		return nil, rld.ErrBadMagic
	}
	plain := rld.Decrypt(data, rld.SeedFor(filepath.Base(path)))
	header := rld.ParseHeader(plain)
	commands := rld.ParseCommands(plain, header)
	return rld.Extract(commands, chars, filter), nil
}

// buildCharacterTable locates defChara.rld (or def.rld) among files
// and parses it once, per spec.md §4.E; its absence just yields an
// empty table rather than a fatal error.
func buildCharacterTable(files []string) (rld.CharacterTable, error) {
	for _, path := range files {
		base := filepath.Base(path)
		if base != "defChara.rld" && base != "def.rld" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if !rld.HasMagic(data) {
			return nil, fmt.Errorf("%s: %w", path, rld.ErrBadMagic)
		}
		plain := rld.Decrypt(data, rld.SeedFor(base))
		header := rld.ParseHeader(plain)
		commands := rld.ParseCommands(plain, header)
		return rld.ParseCharacterTable(commands), nil
	}
	return rld.CharacterTable{}, nil
}

func writeArtifacts(out string, perFile map[string][]rld.Entry, chars rld.CharacterTable, names []string) error {
	tsv, err := os.Create(filepath.Join(out, "translation.tsv"))
	if err != nil {
		return err
	}
	defer tsv.Close()
	if err := rld.WriteTranslationTSV(tsv, perFile); err != nil {
		return fmt.Errorf("writing translation.tsv: %w", err)
	}

	jsonFile, err := os.Create(filepath.Join(out, "translation.json"))
	if err != nil {
		return err
	}
	defer jsonFile.Close()
	if err := rld.WriteTranslationJSON(jsonFile, perFile); err != nil {
		return fmt.Errorf("writing translation.json: %w", err)
	}

	namesFile, err := os.Create(filepath.Join(out, "unique_names.tsv"))
	if err != nil {
		return err
	}
	defer namesFile.Close()
	if err := rld.WriteUniqueNamesTSV(namesFile, names); err != nil {
		return fmt.Errorf("writing unique_names.tsv: %w", err)
	}

	charsFile, err := os.Create(filepath.Join(out, "char_table.tsv"))
	if err != nil {
		return err
	}
	defer charsFile.Close()
	if err := rld.WriteCharTableTSV(charsFile, chars); err != nil {
		return fmt.Errorf("writing char_table.tsv: %w", err)
	}

	return nil
}

func runFix(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("fix requires RLD_DIR and TSV arguments")
	}
	rldDir := args[0]
	tsvPath := args[1]
	outPath := tsvPath
	if len(args) >= 3 {
		outPath = args[2]
	}

	files, err := walkRLDFiles([]string{rldDir})
	if err != nil {
		return err
	}

	chars, err := buildCharacterTable(files)
	if err != nil {
		return err
	}
	filter := rld.DefaultTextFilter()

	pristine := make(map[rld.RowKey]string)
	for _, path := range files {
		base := filepath.Base(path)
		if base == "defChara.rld" || base == "def.rld" {
			continue
		}
		entries, err := extractFile(path, chars, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rldtool: %s: %v\n", path, err)
			continue
		}
		for k, v := range rld.PristineOriginals(base, entries) {
			pristine[k] = v
		}
	}

	in, err := os.Open(tsvPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", tsvPath, err)
	}

	// outPath may be the same path as tsvPath (in-place repair is the
	// documented default when OUT_TSV is omitted). Write to a sibling
	// temp file first and rename it over outPath once Repair succeeds,
	// so in never reads from a file os.Create has already truncated.
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".rldtool-fix-*.tsv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := rld.Repair(in, tmp, pristine); err != nil {
		in.Close()
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := in.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tsvPath, err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replacing %s: %w", outPath, err)
	}
	return nil
}

// walkRLDFiles expands directories in inputs into their contained
// .rld files (recursively), passing plain file paths through.
func walkRLDFiles(inputs []string) ([]string, error) {
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
			if strings.EqualFold(filepath.Ext(path), ".rld") {
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
