// nspire-mock serves the screenshot protocol for a synthetic calculator, so
// the client tools can be exercised without hardware on the desk. It speaks
// the same framed transport as a real bridge: service selector, trigger
// byte, header packet, then the run-length encoded payload in fixed-size
// packets.
package main

import (
	"flag"
	"log"
	"net"

	"github.com/jdeng/gonspire/internal/screenshot"
	"github.com/jdeng/gonspire/internal/transport"
)

func main() {
	var listen = flag.String("listen", "127.0.0.1:5050", "Address to serve the bridge protocol on")
	var width = flag.Int("width", 320, "Frame width in pixels")
	var height = flag.Int("height", 240, "Frame height in pixels")
	var bpp = flag.Int("bpp", 16, "Bits per pixel (4, 8 or 16)")
	flag.Parse()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	log.Printf("Mock calculator bridge on %s (%dx%d @ %d bpp)", *listen, *width, *height, *bpp)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("Accept failed: %v", err)
			continue
		}
		go serve(conn, uint16(*width), uint16(*height), uint8(*bpp))
	}
}

func serve(conn net.Conn, width, height uint16, bpp uint8) {
	defer conn.Close()

	s := transport.NewStream(conn, transport.DefaultMaxPacketPayload)

	// Service selector frame; only the screenshot service is mocked.
	sel, err := s.ReadFrame()
	if err != nil || len(sel) != 2 {
		log.Printf("Bad service selector from %s: %v", conn.RemoteAddr(), err)
		return
	}
	service := uint16(sel[0])<<8 | uint16(sel[1])
	if service != screenshot.ServiceID {
		log.Printf("Unknown service 0x%04x from %s", service, conn.RemoteAddr())
		return
	}

	// Trigger byte.
	if _, err := s.ReadFrame(); err != nil {
		log.Printf("No trigger from %s: %v", conn.RemoteAddr(), err)
		return
	}

	pixels := testPattern(width, height, bpp)
	payload := screenshot.EncodeFrame(bpp, pixels)

	if err := s.WriteFrame(screenshot.BuildHeader(uint32(len(payload)), width, height, bpp)); err != nil {
		log.Printf("Header write failed: %v", err)
		return
	}

	// Payload packets: one status byte, then up to maxPayload-1 data bytes.
	chunk := transport.DefaultMaxPacketPayload - 1
	for off := 0; off < len(payload); off += chunk {
		end := off + chunk
		if end > len(payload) {
			end = len(payload)
		}
		pkt := append([]byte{0x00}, payload[off:end]...)
		if err := s.WriteFrame(pkt); err != nil {
			log.Printf("Payload write failed: %v", err)
			return
		}
	}
	log.Printf("Served %dx%d frame to %s (%d compressed bytes)", width, height, conn.RemoteAddr(), len(payload))
}

// testPattern fills a framebuffer with bands and a gradient, enough to give
// the run-length encoder both repeat and literal work.
func testPattern(width, height uint16, bpp uint8) []byte {
	w, h := int(width), int(height)
	switch bpp {
	case 16:
		buf := make([]byte, w*h*2)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r := uint16(x * 31 / (w - 1))
				g := uint16(y * 63 / (h - 1))
				b := uint16(31 - x*31/(w-1))
				word := r | g<<5 | b<<11
				buf[(y*w+x)*2] = byte(word)
				buf[(y*w+x)*2+1] = byte(word >> 8)
			}
		}
		return buf
	case 8:
		buf := make([]byte, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				buf[y*w+x] = byte((x + y) & 0xff)
			}
		}
		return buf
	default: // 4bpp grayscale, two pixels per byte
		buf := make([]byte, w*h/2)
		for i := range buf {
			v := byte(i/16) & 0x0f
			buf[i] = v<<4 | v
		}
		return buf
	}
}
