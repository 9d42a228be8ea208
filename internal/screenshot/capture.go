package screenshot

import (
	"fmt"

	"github.com/jdeng/gonspire/internal/transport"
)

const (
	// ServiceID is the device's screenshot service port.
	ServiceID = 0x4024

	// triggerCapture is the single request byte that starts a capture.
	triggerCapture = 0x00

	// maxDeclaredBytes caps both the compressed and the decompressed
	// buffer before allocation. The largest real framebuffer (320x240 at
	// 16bpp) is 150KiB; anything near the cap is a corrupt header.
	maxDeclaredBytes = 16 << 20
)

// Image is the decoded framebuffer handed back to the caller.
type Image struct {
	Width  uint16
	Height uint16
	BPP    uint8

	// Pixels is exactly Width*Height*BPP/8 bytes. Decoded is how many of
	// them the RLE pass wrote; a truncated stream leaves Decoded short of
	// len(Pixels) with the tail zeroed.
	Pixels  []byte
	Decoded int
}

// Capture runs the screenshot acquisition exchange on t and returns the
// decoded framebuffer. The service session is released on every path.
func Capture(t transport.Transport) (*Image, error) {
	if err := t.Connect(ServiceID); err != nil {
		return nil, fmt.Errorf("nspire: connect screenshot service: %w", err)
	}
	defer func() { _ = t.Disconnect() }()

	if err := t.WriteByte(triggerCapture); err != nil {
		return nil, fmt.Errorf("nspire: request capture: %w", err)
	}

	first := make([]byte, t.MaxPacketPayload())
	if err := t.ReadPacket(first); err != nil {
		return nil, fmt.Errorf("nspire: read screenshot header: %w", err)
	}
	hdr, err := parseHeader(first)
	if err != nil {
		return nil, err
	}

	pixelBytes := hdr.PixelBytes()
	if hdr.PayloadSize > maxDeclaredBytes || pixelBytes > maxDeclaredBytes {
		return nil, fmt.Errorf("%w: %d compressed, %d decoded", ErrImageTooLarge, hdr.PayloadSize, pixelBytes)
	}

	compressed, err := reassemble(t, hdr.PayloadSize)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Width:  hdr.Width,
		Height: hdr.Height,
		BPP:    hdr.BPP,
		Pixels: make([]byte, pixelBytes),
	}
	img.Decoded = rleDecode(hdr.BPP, compressed, img.Pixels)
	return img, nil
}
