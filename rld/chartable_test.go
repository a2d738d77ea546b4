package rld

import "testing"

func TestParseCharacterTable(t *testing.T) {
	commands := []Command{
		{Type: CmdCreateCharacter, Strings: []string{"5,0,0,鈴木,"}},
		{Type: CmdCreateCharacter, Strings: []string{"7,1,1,田中,extra"}},
		{Type: CmdMessage, Strings: []string{"not a character row"}},
		{Type: CmdCreateCharacter, Strings: []string{"malformed"}},
	}

	table := ParseCharacterTable(commands)
	if table[5] != "鈴木" {
		t.Errorf("table[5] = %q, want 鈴木", table[5])
	}
	if table[7] != "田中" {
		t.Errorf("table[7] = %q, want 田中", table[7])
	}
	if len(table) != 2 {
		t.Errorf("len(table) = %d, want 2", len(table))
	}
}
