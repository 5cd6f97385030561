package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// DefaultEdgeThreshold is the luma difference above which a pixel is marked
// as an edge.
const DefaultEdgeThreshold = 40

// Mask cell values.
const (
	MaskEdge       uint8 = 0
	MaskBackground uint8 = 255
)

// Mask is a binary edge mask stored column-major.
type Mask struct {
	width  int
	height int
	pix    []uint8 // pix[x*height+y]
}

// NewEdgeMask runs the horizontal-gradient threshold pass over img.
//
// The image is converted to luma first. A pixel (x, y) is an edge when the
// luma one row above and one row below differ by more than threshold. The
// first and last rows have no such neighbours and are always background.
//
// Vertical strokes leave at most a pixel at their ends.
func NewEdgeMask(img image.Image, threshold int) *Mask {
	gray := effect.Grayscale(img)
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rows := make([]uint8, width*height)
	for i := range rows {
		rows[i] = MaskBackground
	}

	for y := 1; y < height-1; y++ {
		for x := 0; x < width; x++ {
			above := int(gray.Pix[gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y-1)])
			below := int(gray.Pix[gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y+1)])
			diff := above - below
			if diff < 0 {
				diff = -diff
			}
			if diff > threshold {
				rows[y*width+x] = MaskEdge
			}
		}
	}

	return &Mask{
		width:  width,
		height: height,
		pix:    ToColumnMajor(rows, width, height),
	}
}

// NewMask builds a mask from a row-major buffer of MaskEdge/MaskBackground
// cells. Any non-zero value is treated as background.
func NewMask(width, height int, rowMajor []uint8) (*Mask, error) {
	if width < 0 || height < 0 || len(rowMajor) != width*height {
		return nil, fmt.Errorf("mask buffer has %d cells, want %dx%d", len(rowMajor), width, height)
	}
	return &Mask{
		width:  width,
		height: height,
		pix:    ToColumnMajor(rowMajor, width, height),
	}, nil
}

// Width returns the number of columns.
func (m *Mask) Width() int { return m.width }

// Height returns the number of rows.
func (m *Mask) Height() int { return m.height }

// Column returns the cells of column x, top to bottom. The slice aliases the
// mask and must not be modified.
func (m *Mask) Column(x int) []uint8 {
	return m.pix[x*m.height : (x+1)*m.height]
}

// Positions returns the ascending rows of column x that hold an edge.
func (m *Mask) Positions(x int) []int {
	var rows []int
	for y, v := range m.Column(x) {
		if v == MaskEdge {
			rows = append(rows, y)
		}
	}
	return rows
}

// At reports whether (x, y) is an edge.
func (m *Mask) At(x, y int) bool {
	return m.pix[x*m.height+y] == MaskEdge
}

// Count returns the number of edge cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.pix {
		if v == MaskEdge {
			n++
		}
	}
	return n
}

// Image returns the mask as a grayscale image, edges black on white.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	img.Pix = ToRowMajor(m.pix, m.width, m.height)
	return img
}

// MaskResult contains an edge mask encoded as base64 PNG.
type MaskResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EdgePixels  int    `json:"edge_pixels"`
	Threshold   int    `json:"threshold"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeMask renders m as a PNG result.
func EncodeMask(m *Mask, threshold int) (*MaskResult, error) {
	encoded, err := EncodePNGBase64(m.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to encode mask image: %w", err)
	}
	return &MaskResult{
		Width:       m.width,
		Height:      m.height,
		EdgePixels:  m.Count(),
		Threshold:   threshold,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
