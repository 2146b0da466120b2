package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Image is 8-bit RGBA pixel data with a top-left origin.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Empty reports whether the image carries no pixels.
func (img *Image) Empty() bool {
	return img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) < img.Width*img.Height*4
}

// Blank returns a 1×1 all-zero image.
func Blank() *Image {
	return &Image{Width: 1, Height: 1, Pix: make([]byte, 4)}
}

// Solid returns a 1×1 image of the given color.
func Solid(r, g, b, a uint8) *Image {
	return &Image{Width: 1, Height: 1, Pix: []byte{r, g, b, a}}
}

// Decode decodes PNG, JPEG, BMP, TIFF, WebP or TGA data into RGBA.
func Decode(data []byte) (*Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		img, tgaErr := decodeTGA(data)
		if tgaErr != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		return img, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	rgba := ToRGBA(src)
	if rgba.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s image: empty bounds", format)
	}
	return &Image{
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
		Pix:    rgba.Pix,
	}, nil
}

// ToRGBA converts any image to a tightly packed *image.RGBA at origin (0,0).
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == b.Dx()*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// FlipRows returns a copy of tightly packed RGBA rows in reverse order.
func FlipRows(pix []byte, width, height int) []byte {
	rowSize := width * 4
	flipped := make([]byte, len(pix))
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * rowSize
		copy(flipped[dst:dst+rowSize], pix[src:src+rowSize])
	}
	return flipped
}
