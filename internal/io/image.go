package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

const jpegQuality = 90

// CoverOptions controls how cover art is processed before it is saved or
// embedded.
type CoverOptions struct {
	// Resize shrinks the image to fit MaxSize x MaxSize.
	Resize  bool
	MaxSize int

	// ConvertToJPEG re-encodes the image as JPEG.
	ConvertToJPEG bool
}

// ImageService processes cover art taken from archive items.
//
// Example usage:
//
//	svc := NewImageService()
//	cover, err := svc.Prepare(ctx, pngBytes, CoverOptions{Resize: true, MaxSize: 1000, ConvertToJPEG: true})
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Prepare applies opts to data. With neither option set the data is
// returned untouched.
func (s *ImageService) Prepare(ctx context.Context, data []byte, opts CoverOptions) ([]byte, error) {
	if opts.Resize && opts.MaxSize > 0 {
		return s.ResizeImage(ctx, data, opts.MaxSize, opts.MaxSize)
	}
	if opts.ConvertToJPEG {
		return s.ConvertToJPEG(ctx, data)
	}
	return data, nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions
// and returns it JPEG-encoded.
//
// The aspect ratio is preserved; smaller images keep their size but are still
// re-encoded. Scaling uses Catmull-Rom.
//
//	// A 1500x1000 image with max 1000x1000 becomes 1000x666
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG re-encodes an image (JPEG or PNG) as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return encodeJPEG(img)
}

// fitWithin scales width x height down to fit maxWidth x maxHeight, keeping
// the aspect ratio. Dimensions already within bounds are returned as is.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		return max(1, int(float64(maxHeight)*ratio)), maxHeight
	}
	return maxWidth, max(1, int(float64(maxWidth)/ratio))
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
