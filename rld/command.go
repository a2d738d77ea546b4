package rld

import (
	"encoding/binary"

	"golang.org/x/text/encoding/japanese"
)

// Command types of interest to extraction. Other types are parsed
// structurally (type, params, strings) and returned as-is by
// ParseCommands, but carry no special meaning here.
const (
	CmdBlock            = 0x05
	CmdChangeScenario   = 0x11
	CmdJump             = 0x14
	CmdQuestion         = 0x15
	CmdMessage          = 0x1C
	CmdCreateCharacter  = 0x30
)

// Sanity bounds on a command header. A stream that violates one of
// these is treated as ended, per the format's soft-EOF convention:
// whatever commands were already assembled are kept, and parsing
// stops.
const (
	maxType           = 0x1000
	maxDwordCount     = 50
	maxStringCountLow = 15
	maxCommands       = 50000
)

// Command is one parsed RLD bytecode instruction.
type Command struct {
	Type    uint16
	Params  []uint32
	Strings []string
}

// ParseCommands reads up to header.CmdCount commands starting at
// header.CmdOffset within data (already decrypted). Parsing stops
// early, without error, on a sanity-bound violation or input
// exhaustion; whatever commands were fully assembled up to that point
// are returned.
func ParseCommands(data []byte, header Header) []Command {
	limit := int(header.CmdCount)
	if limit > maxCommands || limit < 0 {
		limit = maxCommands
	}

	pos := int(header.CmdOffset)
	commands := make([]Command, 0, limit)

	for i := 0; i < limit; i++ {
		cmd, next, ok := parseOne(data, pos)
		if !ok {
			break
		}
		commands = append(commands, cmd)
		pos = next
	}
	return commands
}

// parseOne parses a single command starting at pos, returning the
// offset just past it. ok is false if the header violates a sanity
// bound or the stream is exhausted before the command is fully read.
func parseOne(data []byte, pos int) (cmd Command, next int, ok bool) {
	if pos < 0 || pos+4 > len(data) {
		return Command{}, pos, false
	}

	raw := binary.LittleEndian.Uint32(data[pos : pos+4])
	typ := uint16(raw & 0xFFFF)
	dwordCount := int((raw >> 16) & 0xFF)
	stringCountLow := int((raw >> 24) & 0xF)
	pos += 4

	if int(typ) > maxType || dwordCount > maxDwordCount || stringCountLow > maxStringCountLow {
		return Command{}, pos, false
	}

	if pos+dwordCount*4 > len(data) {
		return Command{}, pos, false
	}
	params := make([]uint32, dwordCount)
	for i := range params {
		params[i] = binary.LittleEndian.Uint32(data[pos : pos+4])
		pos += 4
	}

	strs := make([]string, stringCountLow)
	for i := range strs {
		s, n, sOK := readCP932String(data[pos:])
		if !sOK {
			return Command{}, pos, false
		}
		strs[i] = s
		pos += n
	}

	return Command{Type: typ, Params: params, Strings: strs}, pos, true
}

// readCP932String reads a null-terminated Shift-JIS (CP932) string
// from the front of data, returning the decoded text and the number
// of bytes consumed including the terminator.
func readCP932String(data []byte) (s string, consumed int, ok bool) {
	term := -1
	for i, b := range data {
		if b == 0 {
			term = i
			break
		}
	}
	if term < 0 {
		return "", 0, false
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data[:term])
	if err != nil {
		return "", 0, false
	}
	return string(decoded), term + 1, true
}
