package rld

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// typeForKind maps an entry's Kind to the TYPE column value of
// translation.tsv. Structural entries (BRANCH_START, MERGE, JUMP,
// GOTO_FILE) have no TYPE row of their own; they are rendered as
// comment lines instead, for readability only — they are never parsed
// back in on reinjection.
func typeForKind(e Entry) (string, bool) {
	switch e.Kind {
	case KindMessage:
		if e.Speaker != "" {
			return "NAME", true
		}
		return "TEXT", true
	case KindLabel:
		return "LABEL", true
	case KindChoice:
		return fmt.Sprintf("CHOICE_%d_%d", e.ChoiceQuestion, e.ChoiceOption), true
	default:
		return "", false
	}
}

// escapeTSVField escapes tabs and newlines so a multi-line or
// tab-containing ORIGINAL value survives a single TSV row.
func escapeTSVField(s string) string {
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// WriteTranslationTSV emits translation.tsv for a batch extraction:
// one banner comment per file, followed by that file's rows, with
// structural markers rendered as comment lines for readability.
func WriteTranslationTSV(w io.Writer, perFile map[string][]Entry) error {
	if _, err := fmt.Fprintln(w, "FILE\tINDEX\tTYPE\tORIGINAL\tTRANSLATION"); err != nil {
		return err
	}

	files := make([]string, 0, len(perFile))
	for f := range perFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		if _, err := fmt.Fprintf(w, "# file: %s\n", file); err != nil {
			return err
		}
		for _, e := range perFile[file] {
			if err := writeEntryLine(w, file, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEntryLine(w io.Writer, file string, e Entry) error {
	switch e.Kind {
	case KindBranchStart:
		_, err := fmt.Fprintf(w, "# branch start: %s\n", e.BranchID)
		return err
	case KindMerge:
		_, err := fmt.Fprintln(w, "# merge")
		return err
	case KindJump:
		_, err := fmt.Fprintf(w, "# jump: %s\n", e.Target)
		return err
	case KindGotoFile:
		_, err := fmt.Fprintf(w, "# goto file: %s\n", e.Target)
		return err
	}

	typ, ok := typeForKind(e)
	if !ok {
		return nil
	}
	// NAME rows carry the speaker; the TEXT row right below carries
	// the dialogue for the same command index.
	original := e.Text
	if e.Kind == KindMessage && e.Speaker != "" {
		original = e.Speaker
	}
	_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\t\n", file, e.Source.CommandIndex, typ, escapeTSVField(original))
	if err != nil {
		return err
	}
	if e.Kind == KindMessage && e.Speaker != "" {
		_, err = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t\n", file, e.Source.CommandIndex, "TEXT", escapeTSVField(e.Text))
	}
	return err
}

// WriteUniqueNamesTSV emits the deduplicated, sorted union of speaker
// names with an ORIGINAL\tTRANSLATION layout.
func WriteUniqueNamesTSV(w io.Writer, names []string) error {
	if _, err := fmt.Fprintln(w, "ORIGINAL\tTRANSLATION"); err != nil {
		return err
	}
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	sort.Strings(unique)
	for _, n := range unique {
		if _, err := fmt.Fprintf(w, "%s\t\n", escapeTSVField(n)); err != nil {
			return err
		}
	}
	return nil
}

// WriteCharTableTSV emits char_table.tsv, id\tname sorted ascending by
// id.
func WriteCharTableTSV(w io.Writer, table CharacterTable) error {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", id, escapeTSVField(table[id])); err != nil {
			return err
		}
	}
	return nil
}
