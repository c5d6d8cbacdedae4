package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(0, 1, 200) != 1 || Clamp(500, 1, 200) != 200 || Clamp(50, 1, 200) != 50 {
		t.Fatalf("Clamp out of bounds")
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	cases := []struct {
		page, size int
		total      int64
		offset     int
		pages      int
	}{
		{1, 50, 0, 0, 0},
		{1, 50, 1, 0, 1},
		{2, 50, 100, 50, 2},
		{3, 50, 101, 100, 3},
		{0, 10, 5, 0, 1}, // page below 1 reads the first page
		{2, 0, 5, 0, 0},  // degenerate size
	}
	for _, tc := range cases {
		if got := Offset(tc.page, tc.size); got != tc.offset {
			t.Fatalf("Offset(%d,%d) = %d; want %d", tc.page, tc.size, got, tc.offset)
		}
		if got := TotalPages(tc.total, tc.size); got != tc.pages {
			t.Fatalf("TotalPages(%d,%d) = %d; want %d", tc.total, tc.size, got, tc.pages)
		}
	}
}
