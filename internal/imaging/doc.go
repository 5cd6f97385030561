// Package imaging provides the image-side collaborators of the staff tracker:
// loading and caching score images, the horizontal-gradient edge mask the
// tracker consumes, the row/column index transform, and rendering detected
// staves back onto the source image.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner:
//   - X: column index (0 = leftmost column)
//   - Y: row index (0 = topmost row)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//     (bottom-right)
//
// The tracker walks columns, so a Mask stores its cells column-major: all
// rows of column x are contiguous. Swap converts flat indices between the
// row-major layout of decoded images and this column-major layout.
//
// # Mask Convention
//
// A mask cell is MaskEdge (0) where an edge was detected and MaskBackground
// (255) elsewhere. Rendered masks therefore show edges in black on white.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Masks are immutable after
// construction and may be shared between goroutines.
package imaging
