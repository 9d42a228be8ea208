package screenshot

import "encoding/binary"

// The encode side of the protocol is not spoken by real calculators; bridge
// mocks and test fixtures use it to produce streams the client accepts.

// EncodeFrame compresses a raw framebuffer with the device's run-length
// scheme. len(pixels) must be a multiple of the two-pixel unit for the
// given depth.
func EncodeFrame(bpp uint8, pixels []byte) []byte {
	return rleEncode(bpp, pixels)
}

// BuildHeader renders the first response packet for a capture of the given
// geometry and compressed payload length.
func BuildHeader(payloadSize uint32, width, height uint16, bpp uint8) []byte {
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[1:5], payloadSize)
	binary.LittleEndian.PutUint16(hdr[9:11], width)
	binary.LittleEndian.PutUint16(hdr[11:13], height)
	hdr[13] = bpp
	return hdr
}
