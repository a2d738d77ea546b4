// Package rld decrypts and parses the Retouch Engine's RLD scenario
// bytecode container: an MT19937-seeded keystream XOR over most of the
// file, a packed command stream, and translatable-text extraction with
// choice/branch flow annotation.
package rld

import "errors"

// DefaultSeed is the decryption seed used by every RLD file except the
// character-table file, which is keyed by filename override.
const DefaultSeed uint32 = 0x20100806

// DefCharaSeed is the seed override for def.rld / defChara.rld, the
// file that registers character IDs to display names.
const DefCharaSeed uint32 = 0xAE85A916

// ErrBadMagic is returned when a file does not begin with the RLD
// magic byte sequence.
var ErrBadMagic = errors.New("rld: bad magic")

var magic = [3]byte{'D', 'L', 'R'}

// Header describes the command-stream location within a decrypted RLD
// file.
type Header struct {
	CmdOffset uint32
	CmdCount  uint32
}

// SeedFor returns the decryption seed for a file, given its base name
// (e.g. "def.rld"). Only the character-table file uses a different
// seed from DefaultSeed.
func SeedFor(filename string) uint32 {
	if filename == "def.rld" || filename == "defChara.rld" {
		return DefCharaSeed
	}
	return DefaultSeed
}
