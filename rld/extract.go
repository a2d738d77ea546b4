package rld

import (
	"fmt"
	"regexp"
	"strings"
)

var branchNamePattern = regexp.MustCompile(`^R(\d+)[＝=](\d+)$`)
var pureNumeric = regexp.MustCompile(`^\d+$`)
var filenameLike = regexp.MustCompile(`\.[A-Za-z0-9]{2,4}$`)

// Extract walks commands in order and returns the translation and
// flow entries they produce, using chars to resolve speaker names and
// filter to decide which strings are worth emitting.
func Extract(commands []Command, chars CharacterTable, filter TextFilter) []Entry {
	var entries []Entry
	var currentBranch string
	branchOpen := false

	for i, cmd := range commands {
		src := Source{CommandIndex: i}

		switch cmd.Type {
		case CmdMessage:
			speaker := resolveSpeaker(cmd, chars)
			if len(cmd.Strings) == 0 {
				continue
			}
			text := cmd.Strings[len(cmd.Strings)-1]
			if !filter.IsTranslatable(text) {
				continue
			}
			entries = append(entries, Entry{
				Kind: KindMessage, Source: src,
				Speaker: speaker, Text: text,
				Branch: branchValue(currentBranch, branchOpen),
			})

		case CmdBlock:
			if len(cmd.Strings) == 0 {
				continue
			}
			fields := strings.Split(cmd.Strings[len(cmd.Strings)-1], ",")

			var name string
			if len(fields) > 3 {
				name = fields[3]
			}

			if m := branchNamePattern.FindStringSubmatch(name); m != nil {
				currentBranch = fmt.Sprintf("CHOICE_%s_%s", m[1], m[2])
				branchOpen = true
				entries = append(entries, Entry{
					Kind: KindBranchStart, Source: src,
					BranchID: currentBranch,
				})
				continue
			}

			if name == "*" && branchOpen {
				entries = append(entries, Entry{Kind: KindMerge, Source: src})
				branchOpen = false
				currentBranch = ""
				continue
			}

			// spec.md §4.E: "if found and translatable, emit LABEL (and
			// close any open branch)" is ambiguous about whether the
			// branch-close is conditioned on translatability too, and
			// original_source/ has no RLD_Decryptor.py body to check
			// against. Read here as: finding a non-"*" Japanese field at
			// all marks this BLOCK as a real label boundary, so any open
			// branch closes regardless of whether the label text itself
			// passes the translatable filter; only entry emission is
			// gated on IsTranslatable.
			if label, ok := findJapaneseField(fields, filter); ok {
				if filter.IsTranslatable(label) {
					entries = append(entries, Entry{Kind: KindLabel, Source: src, Text: label})
				}
				branchOpen = false
				currentBranch = ""
			}

		case CmdJump:
			if len(cmd.Strings) == 0 {
				continue
			}
			entries = append(entries, Entry{
				Kind: KindJump, Source: src,
				Target: cmd.Strings[0],
				Branch: branchValue(currentBranch, branchOpen),
			})

		case CmdQuestion:
			for j, opt := range cmd.Strings {
				k := 1
				for _, field := range strings.Split(opt, "\t") {
					if !isChoiceCandidate(field, filter) {
						continue
					}
					entries = append(entries, Entry{
						Kind: KindChoice, Source: src,
						Text:           field,
						ChoiceQuestion: j,
						ChoiceOption:   k,
					})
					k++
				}
			}

		case CmdChangeScenario:
			if len(cmd.Strings) == 0 {
				continue
			}
			entries = append(entries, Entry{
				Kind: KindGotoFile, Source: src,
				Target: cmd.Strings[0],
			})
			branchOpen = false
			currentBranch = ""
		}
	}

	return entries
}

func branchValue(name string, open bool) string {
	if !open {
		return ""
	}
	return name
}

// resolveSpeaker implements the MESSAGE speaker resolution rule: a
// per-line speaker override in strings[0] wins when present, then the
// character table keyed by params[0], else no speaker.
func resolveSpeaker(cmd Command, chars CharacterTable) string {
	if len(cmd.Strings) >= 2 && cmd.Strings[0] != "" && cmd.Strings[0] != "*" {
		return cmd.Strings[0]
	}
	if len(cmd.Params) > 0 && cmd.Params[0] >= 3 {
		if name, ok := chars[int(cmd.Params[0])]; ok {
			return name
		}
	}
	return ""
}

// findJapaneseField scans fields from right to left for the first
// non-"*" field containing Japanese text.
func findJapaneseField(fields []string, filter TextFilter) (string, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f == "*" {
			continue
		}
		if filter.HasJapanese(f) {
			return f, true
		}
	}
	return "", false
}

// isChoiceCandidate reports whether a split QUESTION option field
// should be emitted as a CHOICE entry: empty, "*", pure-numeric,
// filename-like, and non-Japanese fields are all discarded.
func isChoiceCandidate(field string, filter TextFilter) bool {
	if field == "" || field == "*" {
		return false
	}
	if pureNumeric.MatchString(field) {
		return false
	}
	if filenameLike.MatchString(field) {
		return false
	}
	return filter.HasJapanese(field)
}
