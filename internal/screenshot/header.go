// Package screenshot implements the calculator's screenshot service
// protocol: triggering a capture, reassembling the compressed framebuffer
// from the packet stream, and expanding it with the device's run-length
// scheme.
package screenshot

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is returned when the service's first response
	// packet is too short to hold the screenshot header.
	ErrMalformedResponse = errors.New("nspire: malformed screenshot response")

	// ErrImageTooLarge is returned when the header declares buffer sizes
	// beyond the sanity cap, before any allocation happens.
	ErrImageTooLarge = errors.New("nspire: declared screenshot size too large")
)

// headerSize is the fixed length of the screenshot header:
// [status:1][size:4][reserved:2][reserved:2][width:2][height:2][bpp:1][reserved:1]
const headerSize = 15

// Header carries the fields of the first response packet. PayloadSize is the
// exact byte length of the compressed stream that follows; the decompressed
// framebuffer is Width*Height*BPP/8 bytes.
type Header struct {
	PayloadSize uint32
	Width       uint16
	Height      uint16
	BPP         uint8
}

// PixelBytes returns the byte length of the decompressed framebuffer.
func (h Header) PixelBytes() int {
	return int(h.Width) * int(h.Height) * int(h.BPP) / 8
}

// parseHeader decodes the fixed header layout from the first response
// packet. Multi-byte fields are little-endian; the status byte and the
// reserved fields are ignored.
func parseHeader(pkt []byte) (Header, error) {
	if len(pkt) < headerSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", ErrMalformedResponse, len(pkt), headerSize)
	}
	return Header{
		PayloadSize: binary.LittleEndian.Uint32(pkt[1:5]),
		Width:       binary.LittleEndian.Uint16(pkt[9:11]),
		Height:      binary.LittleEndian.Uint16(pkt[11:13]),
		BPP:         pkt[13],
	}, nil
}
