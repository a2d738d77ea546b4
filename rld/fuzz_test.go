package rld

import "testing"

// FuzzParseCommands checks that the command-stream parser never
// panics and never reads past the sanity bounds described in
// spec.md §3/§7, whatever garbage bytes it is handed.
func FuzzParseCommands(f *testing.F) {
	f.Add(make([]byte, 16), uint32(0), uint32(0))
	f.Add([]byte{0x1C, 0x00, 0x10, 0x00, 'a', 0}, uint32(0), uint32(1))
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF}, uint32(0), uint32(5))

	f.Fuzz(func(t *testing.T, data []byte, offset, count uint32) {
		header := Header{CmdOffset: offset, CmdCount: count}
		commands := ParseCommands(data, header)
		if len(commands) > maxCommands {
			t.Fatalf("ParseCommands returned %d commands, exceeds maxCommands", len(commands))
		}
	})
}

// FuzzDecrypt checks Decrypt is self-inverse for arbitrary input and
// seed, and never touches the first 16 bytes.
func FuzzDecrypt(f *testing.F) {
	f.Add(make([]byte, 32), uint32(DefaultSeed))
	f.Add([]byte("?DLR"+string(make([]byte, 60))), uint32(DefCharaSeed))

	f.Fuzz(func(t *testing.T, data []byte, seed uint32) {
		once := Decrypt(data, seed)
		twice := Decrypt(once, seed)
		if string(twice) != string(data) {
			t.Fatalf("decrypt(decrypt(x)) != x for seed %#x", seed)
		}
		n := len(data)
		if n > 16 {
			n = 16
		}
		for i := 0; i < n; i++ {
			if once[i] != data[i] {
				t.Fatalf("byte %d changed, first 16 bytes must stay plaintext", i)
			}
		}
	})
}
