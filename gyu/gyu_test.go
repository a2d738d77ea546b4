package gyu

import "testing"

func TestHeader_WideAlpha(t *testing.T) {
	h := Header{Flags: FlagWideAlpha}
	if !h.WideAlpha() {
		t.Error("WideAlpha() = false, want true for flags 0x0003")
	}
	h2 := Header{Flags: 0}
	if h2.WideAlpha() {
		t.Error("WideAlpha() = true, want false for flags 0")
	}
}

func TestRowStride_PadsToFour(t *testing.T) {
	cases := []struct {
		width, bpp uint32
		want       uint32
	}{
		{1, 1, 4},
		{2, 3, 8},
		{4, 3, 12},
		{4, 1, 4},
		{5, 1, 8},
	}
	for _, c := range cases {
		if got := rowStride(c.width, c.bpp); got != c.want {
			t.Errorf("rowStride(%d,%d) = %d, want %d", c.width, c.bpp, got, c.want)
		}
	}
}
