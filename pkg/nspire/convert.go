package nspire

import (
	"fmt"
	"image"
	"image/color"
)

// RGB565 channel widths on color models.
const (
	maxR = 1<<5 - 1
	maxG = 1<<6 - 1
	maxB = 1<<5 - 1
)

// convertChannel rescales a channel value from its native bit depth to
// 8 bits, rounding to nearest.
func convertChannel(v uint8, from uint16) uint8 {
	return uint8((uint16(v)*255 + from/2) / from)
}

// Gray converts a 4 or 8 bit-per-pixel capture to an 8-bit grayscale image.
// At 4bpp each byte holds two pixels, high nibble first, 0 black through
// 15 white.
func (img *Image) Gray() (*image.Gray, error) {
	w, h := img.Width(), img.Height()
	out := image.NewGray(image.Rect(0, 0, w, h))
	data := img.Data()

	switch img.BPP() {
	case 8:
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], data[y*w:(y+1)*w])
		}
	case 4:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				b := data[(y*w+x)/2]
				v := b >> 4
				if x%2 == 1 {
					v = b & 0x0f
				}
				out.SetGray(x, y, color.Gray{Y: v * 17})
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBPP, img.BPP())
	}
	return out, nil
}

// RGBA converts a 16 bit-per-pixel capture to an RGBA image. Color models
// store pixels as little-endian RGB565 words with red in the low bits.
func (img *Image) RGBA() (*image.RGBA, error) {
	if img.BPP() != 16 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBPP, img.BPP())
	}
	w, h := img.Width(), img.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	data := img.Data()

	for i := 0; i+1 < len(data) && i/2 < w*h; i += 2 {
		word := uint16(data[i]) | uint16(data[i+1])<<8
		px := i / 2
		x, y := px%w, px/w
		out.SetRGBA(x, y, color.RGBA{
			R: convertChannel(uint8(word&maxR), maxR),
			G: convertChannel(uint8(word>>5)&maxG, maxG),
			B: convertChannel(uint8(word>>11)&maxB, maxB),
			A: 0xff,
		})
	}
	return out, nil
}

// StdImage converts the capture to a standard library image, dispatching on
// the bit depth.
func (img *Image) StdImage() (image.Image, error) {
	switch img.BPP() {
	case 4, 8:
		return img.Gray()
	case 16:
		return img.RGBA()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBPP, img.BPP())
	}
}
