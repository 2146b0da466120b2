package texture

import (
	"errors"
	"fmt"
)

const (
	tgaRaw = 2
	tgaRLE = 10
)

var errTGATruncated = errors.New("tga: truncated")

// decodeTGA decodes uncompressed or RLE true-color TGA data into a
// top-left origin Image. TGA carries no magic number, so it is tried only
// after the registered decoders reject the data.
func decodeTGA(data []byte) (*Image, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}
	idLen := int(data[0])
	kind := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16]) / 8
	topDown := data[17]&0x20 != 0

	if data[1] != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if kind != tgaRaw && kind != tgaRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	if bpp != 3 && bpp != 4 {
		return nil, fmt.Errorf("tga: unsupported depth %d bits", bpp*8)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty %dx%d image", width, height)
	}
	if 18+idLen > len(data) {
		return nil, errTGATruncated
	}
	src := data[18+idLen:]

	img := &Image{Width: width, Height: height, Pix: make([]byte, width*height*4)}
	put := func(n int, px []byte) {
		x, y := n%width, n/width
		if !topDown {
			y = height - 1 - y
		}
		i := (y*width + x) * 4
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = px[2], px[1], px[0], 255
		if bpp == 4 {
			img.Pix[i+3] = px[3]
		}
	}

	total := width * height
	if kind == tgaRaw {
		if len(src) < total*bpp {
			return nil, errTGATruncated
		}
		for n := 0; n < total; n++ {
			put(n, src[n*bpp:])
		}
		return img, nil
	}

	n, pos := 0, 0
	for n < total {
		if pos >= len(src) {
			return nil, errTGATruncated
		}
		header := src[pos]
		pos++
		count := int(header&0x7f) + 1
		if header&0x80 != 0 {
			if pos+bpp > len(src) {
				return nil, errTGATruncated
			}
			for i := 0; i < count && n < total; i++ {
				put(n, src[pos:])
				n++
			}
			pos += bpp
			continue
		}
		for i := 0; i < count && n < total; i++ {
			if pos+bpp > len(src) {
				return nil, errTGATruncated
			}
			put(n, src[pos:])
			pos += bpp
			n++
		}
	}
	return img, nil
}
