package rld

import (
	"regexp"
	"strconv"
)

// CharacterTable maps a non-negative character ID to its display name.
type CharacterTable map[int]string

var createCharacterPattern = regexp.MustCompile(`^(\d+),[^,]*,[^,]*,(\S[^,]*),`)

// ParseCharacterTable scans commands for CREATECHARACTER entries and
// registers id -> name for every one whose first string matches the
// "id,_,_,name,…" shape. Callers parse the character-table file
// (def.rld / defChara.rld) once per run and thread the resulting table
// into every subsequent extraction call, rather than relying on
// process-global state.
func ParseCharacterTable(commands []Command) CharacterTable {
	table := make(CharacterTable)
	for _, cmd := range commands {
		if cmd.Type != CmdCreateCharacter || len(cmd.Strings) == 0 {
			continue
		}
		m := createCharacterPattern.FindStringSubmatch(cmd.Strings[0])
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		table[id] = m[2]
	}
	return table
}
