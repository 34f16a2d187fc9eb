// Package assets handles the static files the editor works with: uploaded card
// art, placeholder credits and the vanilla reference catalog.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// Accepted card art sizes. Art at the small size is upscaled to the large one.
var (
	SmallSize = image.Pt(71, 95)
	LargeSize = image.Pt(142, 190)
)

var ErrImageDimensions = errors.New("image must be 71x95 or 142x190 pixels")

// ValidateImage decodes a PNG and checks its dimensions.
func ValidateImage(r io.Reader) (image.Image, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	size := img.Bounds().Size()
	if size != SmallSize && size != LargeSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrImageDimensions, size.X, size.Y)
	}
	return img, nil
}

// Normalize returns img at the large size, scaling with nearest-neighbour so
// pixel art stays sharp. Large images are returned as they are.
func Normalize(img image.Image) image.Image {
	if img.Bounds().Size() == LargeSize {
		return img
	}
	dst := image.NewNRGBA(image.Rectangle{Max: LargeSize})
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Process validates the PNG read from r, normalizes it and writes it to w.
func Process(r io.Reader, w io.Writer) error {
	img, err := ValidateImage(r)
	if err != nil {
		return err
	}
	size := img.Bounds().Size()
	out := Normalize(img)
	log.Debug().
		Int("width", size.X).
		Int("height", size.Y).
		Bool("upscaled", size != LargeSize).
		Msg("Processed card art")
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	return nil
}
