package screenshot

import (
	"errors"
	"testing"
)

func TestParseHeader(t *testing.T) {
	pkt := []byte{
		0x01,                   // status
		0x0A, 0x00, 0x00, 0x00, // payload size = 10
		0xDE, 0xAD, // reserved
		0xBE, 0xEF, // reserved
		0x40, 0x01, // width = 320
		0xF0, 0x00, // height = 240
		0x10, // bpp = 16
		0x00, // reserved
	}
	hdr, err := parseHeader(pkt)
	if err != nil {
		t.Fatalf("parseHeader returned error: %v", err)
	}
	if hdr.PayloadSize != 10 {
		t.Errorf("payload size: got %d, want 10", hdr.PayloadSize)
	}
	if hdr.Width != 320 || hdr.Height != 240 {
		t.Errorf("dimensions: got %dx%d, want 320x240", hdr.Width, hdr.Height)
	}
	if hdr.BPP != 16 {
		t.Errorf("bpp: got %d, want 16", hdr.BPP)
	}
	if got := hdr.PixelBytes(); got != 320*240*2 {
		t.Errorf("pixel bytes: got %d, want %d", got, 320*240*2)
	}
}

func TestParseHeaderIgnoresTrailingBytes(t *testing.T) {
	pkt := make([]byte, 254)
	pkt[1] = 0x08
	pkt[9] = 4
	pkt[11] = 2
	pkt[13] = 8
	hdr, err := parseHeader(pkt)
	if err != nil {
		t.Fatalf("parseHeader returned error: %v", err)
	}
	if hdr.PayloadSize != 8 || hdr.Width != 4 || hdr.Height != 2 || hdr.BPP != 8 {
		t.Fatalf("unexpected header: %+v", hdr)
	}
}

func TestParseHeaderShortPacket(t *testing.T) {
	for _, n := range []int{0, 1, 14} {
		_, err := parseHeader(make([]byte, n))
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("len %d: got %v, want ErrMalformedResponse", n, err)
		}
	}
}

func TestBuildHeaderRoundTrip(t *testing.T) {
	pkt := BuildHeader(1234, 320, 240, 16)
	hdr, err := parseHeader(pkt)
	if err != nil {
		t.Fatalf("parseHeader returned error: %v", err)
	}
	if hdr.PayloadSize != 1234 || hdr.Width != 320 || hdr.Height != 240 || hdr.BPP != 16 {
		t.Fatalf("unexpected header: %+v", hdr)
	}
}
