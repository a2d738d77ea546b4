package rld

import (
	"encoding/binary"

	"github.com/sensokaku/retouchtk/internal/mt19937"
)

// maxEncryptedLen bounds how much of a file is ever covered by the
// keystream, regardless of file size.
const maxEncryptedLen = 0xFFCF

// Decrypt returns a copy of data with the keystream XOR applied over
// [0x10, min(len(data), 0xFFCF) &^ 3), 32-bit little-endian words
// against key_table(seed). Bytes [0, 0x10) are left untouched. Decrypt
// is its own inverse: calling it twice with the same seed reproduces
// the original bytes.
func Decrypt(data []byte, seed uint32) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	blockCount := len(out)
	if blockCount > maxEncryptedLen {
		blockCount = maxEncryptedLen
	}
	blockCount &^= 3

	keys := mt19937.KeyTable(seed)

	wordIdx := 0
	for i := 0x10; i+4 <= blockCount; i += 4 {
		k := keys[wordIdx%len(keys)]
		v := binary.LittleEndian.Uint32(out[i : i+4])
		binary.LittleEndian.PutUint32(out[i:i+4], v^k)
		wordIdx++
	}
	return out
}

// ParseHeader reads the command-stream location out of a decrypted
// file's always-plaintext leading bytes.
func ParseHeader(data []byte) Header {
	var h Header
	if len(data) >= 12 {
		h.CmdOffset = binary.LittleEndian.Uint32(data[8:12])
	}
	if len(data) >= 16 {
		h.CmdCount = binary.LittleEndian.Uint32(data[12:16])
	}
	return h
}

// HasMagic reports whether data begins with the RLD magic sequence
// ('?' followed by "DLR").
func HasMagic(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return data[0] == '?' && data[1] == magic[0] && data[2] == magic[1] && data[3] == magic[2]
}
