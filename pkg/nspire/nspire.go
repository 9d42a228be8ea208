// Package nspire is the public client API for TI-Nspire calculators'
// screenshot service. Captures run over a packet Transport; the result is
// the device's raw framebuffer plus conversions to the standard image
// types.
package nspire

import (
	"errors"

	"github.com/jdeng/gonspire/internal/screenshot"
	"github.com/jdeng/gonspire/internal/transport"
)

// USB identifiers for locating devices. All Nspire calculators share the
// vendor ID; CX II models use their own product ID.
const (
	VendorID     = 0x0451
	ProductID    = 0xe012
	ProductIDCX2 = 0xe022
)

var (
	// ErrMalformedResponse reports a screenshot header packet shorter
	// than the fixed layout requires.
	ErrMalformedResponse = screenshot.ErrMalformedResponse

	// ErrImageTooLarge reports header-declared buffer sizes beyond the
	// sanity cap.
	ErrImageTooLarge = screenshot.ErrImageTooLarge

	// ErrUnknownBPP reports a bit depth the conversions cannot handle.
	ErrUnknownBPP = errors.New("nspire: unknown bits-per-pixel value")
)

// Transport is the packet transport a capture runs over. See the transport
// package for the framed stream implementation.
type Transport = transport.Transport

// DialTCP opens a packet transport to a calculator bridge at addr.
func DialTCP(addr string) (Transport, error) {
	return transport.DialTCP(addr)
}

// Image is a captured screenshot.
type Image struct {
	img *screenshot.Image
}

// Screenshot captures the device's screen over t. The transport's service
// session is opened and released inside the call, on success and failure
// alike.
func Screenshot(t Transport) (*Image, error) {
	img, err := screenshot.Capture(t)
	if err != nil {
		return nil, err
	}
	return &Image{img: img}, nil
}

// Width returns the screen width in pixels.
func (img *Image) Width() int {
	if img == nil || img.img == nil {
		return 0
	}
	return int(img.img.Width)
}

// Height returns the screen height in pixels.
func (img *Image) Height() int {
	if img == nil || img.img == nil {
		return 0
	}
	return int(img.img.Height)
}

// BPP returns the bit depth: 4 for grayscale models, 8 or 16 for color.
func (img *Image) BPP() int {
	if img == nil || img.img == nil {
		return 0
	}
	return int(img.img.BPP)
}

// Data exposes the raw framebuffer, Width*Height*BPP/8 bytes.
func (img *Image) Data() []byte {
	if img == nil || img.img == nil {
		return nil
	}
	return img.img.Pixels
}

// Decoded returns how many framebuffer bytes the device's stream actually
// filled.
func (img *Image) Decoded() int {
	if img == nil || img.img == nil {
		return 0
	}
	return img.img.Decoded
}

// Complete reports whether the compressed stream covered the whole
// framebuffer. A false value means the device truncated the stream; the
// unfilled tail of Data is zero.
func (img *Image) Complete() bool {
	if img == nil || img.img == nil {
		return false
	}
	return img.img.Decoded == len(img.img.Pixels)
}
