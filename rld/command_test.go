package rld

import (
	"encoding/binary"
	"testing"
)

// packHeader builds the 4-byte packed command header:
// type:16 | dword_count:8 | string_count_low:4 | reserved:4, LE.
func packHeader(typ uint16, dwordCount, stringCountLow, reserved int) []byte {
	raw := uint32(typ) | uint32(dwordCount)<<16 | uint32(stringCountLow)<<24 | uint32(reserved)<<28
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, raw)
	return buf
}

func TestParseCommands_SimpleMessage(t *testing.T) {
	// One MESSAGE command: params=[5], strings=["鈴木","こんにちは"].
	speaker := []byte{0x97, 0xE9, 0x96, 0xD8, 0x00}                         // 鈴木\0
	text := []byte{0x82, 0xB1, 0x82, 0xF1, 0x82, 0xC9, 0x82, 0xBF, 0x82, 0xCD, 0x00} // こんにちは\0

	var data []byte
	data = append(data, packHeader(CmdMessage, 1, 2, 0)...)
	data = append(data, 5, 0, 0, 0) // params[0] = 5
	data = append(data, speaker...)
	data = append(data, text...)

	header := Header{CmdOffset: 0, CmdCount: 1}
	commands := ParseCommands(data, header)
	if len(commands) != 1 {
		t.Fatalf("len(commands) = %d, want 1", len(commands))
	}
	cmd := commands[0]
	if cmd.Type != CmdMessage {
		t.Errorf("Type = %#x, want CmdMessage", cmd.Type)
	}
	if len(cmd.Params) != 1 || cmd.Params[0] != 5 {
		t.Errorf("Params = %v, want [5]", cmd.Params)
	}
	if len(cmd.Strings) != 2 || cmd.Strings[0] != "鈴木" || cmd.Strings[1] != "こんにちは" {
		t.Errorf("Strings = %v, want [鈴木 こんにちは]", cmd.Strings)
	}
}

func TestParseCommands_StopsOnTypeSanityBound(t *testing.T) {
	data := packHeader(0x2000, 0, 0, 0) // type exceeds maxType
	commands := ParseCommands(data, Header{CmdOffset: 0, CmdCount: 5})
	if len(commands) != 0 {
		t.Errorf("len(commands) = %d, want 0 (soft stop on bad type)", len(commands))
	}
}

func TestParseCommands_StopsOnDwordCountSanityBound(t *testing.T) {
	data := packHeader(1, 60, 0, 0) // dword_count exceeds maxDwordCount
	commands := ParseCommands(data, Header{CmdOffset: 0, CmdCount: 5})
	if len(commands) != 0 {
		t.Errorf("len(commands) = %d, want 0 (soft stop on bad dword_count)", len(commands))
	}
}

func TestParseCommands_StopsOnTruncatedStream(t *testing.T) {
	// Header claims 2 dwords but only 1 is present.
	var data []byte
	data = append(data, packHeader(1, 2, 0, 0)...)
	data = append(data, 1, 0, 0, 0)

	commands := ParseCommands(data, Header{CmdOffset: 0, CmdCount: 5})
	if len(commands) != 0 {
		t.Errorf("len(commands) = %d, want 0 (soft stop on truncation)", len(commands))
	}
}

func TestParseCommands_MultipleCommandsStopsAtCount(t *testing.T) {
	var data []byte
	data = append(data, packHeader(CmdJump, 0, 0, 0)...)
	data = append(data, packHeader(CmdJump, 0, 0, 0)...)
	data = append(data, packHeader(CmdJump, 0, 0, 0)...)

	commands := ParseCommands(data, Header{CmdOffset: 0, CmdCount: 2})
	if len(commands) != 2 {
		t.Errorf("len(commands) = %d, want 2 (bounded by CmdCount)", len(commands))
	}
}
