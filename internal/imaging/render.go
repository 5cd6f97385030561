package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/staff-tracker-mcp/internal/staves"
)

// RenderStaves draws detected staves over a copy of img.
//
// Every staff gets its own colour from a hue-spaced palette. The rows a
// staff absorbed are painted in that colour; the filtered estimate for each
// observed column is painted on top in a darker shade of it.
func RenderStaves(img image.Image, list []*staves.Staff) *image.NRGBA {
	canvas := imaging.Clone(img)
	palette := colorful.FastHappyPalette(len(list))
	black := colorful.Color{}

	for i, s := range list {
		observed := palette[i].Clamped()
		estimate := observed.BlendLab(black, 0.5).Clamped()

		history := s.History()
		for _, o := range history {
			for _, y := range o.Positions {
				setInside(canvas, o.Column, y, observed)
			}
		}
		for _, o := range history {
			y := int(math.Floor(float64(o.Estimate)))
			setInside(canvas, o.Column, y, estimate)
		}
	}

	return canvas
}

func setInside(img draw.Image, x, y int, c colorful.Color) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// RenderResult contains a staff overlay encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Staves      int    `json:"staves"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeRender renders list over img and encodes the result.
func EncodeRender(img image.Image, list []*staves.Staff) (*RenderResult, error) {
	out := RenderStaves(img, list)
	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode staff overlay: %w", err)
	}
	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Staves:      len(list),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
