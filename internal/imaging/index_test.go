package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwap_RoundTrip(t *testing.T) {
	dims := [][2]int{{1, 1}, {1, 7}, {7, 1}, {3, 5}, {5, 3}, {16, 9}, {64, 48}}

	for _, d := range dims {
		a, b := d[0], d[1]
		for id := 0; id < a*b; id++ {
			got := Swap(Swap(id, a, b), b, a)
			if got != id {
				t.Fatalf("Swap round trip for %dx%d: id %d came back as %d", a, b, id, got)
			}
		}
	}
}

func TestSwap_IsPermutation(t *testing.T) {
	a, b := 6, 4
	seen := make(map[int]bool, a*b)
	for id := 0; id < a*b; id++ {
		s := Swap(id, a, b)
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, s, a*b)
		assert.False(t, seen[s], "index %d produced twice", s)
		seen[s] = true
	}
}

func TestSwap_Boundaries(t *testing.T) {
	for _, d := range [][2]int{{3, 5}, {10, 2}, {1, 9}} {
		a, b := d[0], d[1]
		assert.Equal(t, 0, Swap(0, a, b))
		assert.Equal(t, a*b-1, Swap(a*b-1, a, b))
	}
}

func TestSwap_RowToColumnMajor(t *testing.T) {
	width, height := 4, 3
	// pixel (x=1, y=2): row-major 2*4+1 = 9, column-major 1*3+2 = 5
	assert.Equal(t, 5, Swap(9, width, height))
	assert.Equal(t, 9, Swap(5, height, width))
}

func TestToColumnMajor(t *testing.T) {
	rows := []uint8{
		1, 2, 3,
		4, 5, 6,
	}
	cols := ToColumnMajor(rows, 3, 2)
	assert.Equal(t, []uint8{1, 4, 2, 5, 3, 6}, cols)
	assert.Equal(t, rows, ToRowMajor(cols, 3, 2))
}
