package imaging

// Swap maps a flat index addressed in an a-major layout to the same cell in
// the transposed layout:
//
//	Swap(id, a, b) = (id mod a)·b + id div a
//
// For a row-major index over width w and height h, Swap(id, w, h) is the
// column-major index of the same pixel, and Swap(Swap(id, a, b), b, a) == id.
func Swap(id, a, b int) int {
	return (id%a)*b + id/a
}

// ToColumnMajor reorders a row-major width×height buffer so that each column
// is contiguous.
func ToColumnMajor(pix []uint8, width, height int) []uint8 {
	out := make([]uint8, len(pix))
	for id, v := range pix {
		out[Swap(id, width, height)] = v
	}
	return out
}

// ToRowMajor is the inverse of ToColumnMajor.
func ToRowMajor(pix []uint8, width, height int) []uint8 {
	out := make([]uint8, len(pix))
	for id, v := range pix {
		out[Swap(id, height, width)] = v
	}
	return out
}
