package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"testing"
)

func framePair() (*Stream, net.Conn) {
	client, server := net.Pipe()
	return NewStream(client, 16), server
}

func readFrameRaw(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	var hdr [4]byte
	if _, err := io.ReadFull(conn, hdr[:]); err != nil {
		t.Fatalf("read frame header: %v", err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(hdr[:]))
	if _, err := io.ReadFull(conn, payload); err != nil {
		t.Fatalf("read frame payload: %v", err)
	}
	return payload
}

func writeFrameRaw(t *testing.T, conn net.Conn, payload []byte) {
	t.Helper()
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := conn.Write(hdr[:]); err != nil {
		t.Fatalf("write frame header: %v", err)
	}
	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("write frame payload: %v", err)
	}
}

func TestStreamConnectSendsServiceSelector(t *testing.T) {
	s, peer := framePair()
	defer peer.Close()

	got := make(chan []byte, 1)
	go func() { got <- readFrameRaw(t, peer) }()

	if err := s.Connect(0x4024); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	sel := <-got
	if !bytes.Equal(sel, []byte{0x40, 0x24}) {
		t.Fatalf("selector % x, want 40 24", sel)
	}

	if err := s.Connect(0x4024); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("second Connect: got %v, want ErrAlreadyConnected", err)
	}
}

func TestStreamRequiresConnection(t *testing.T) {
	s, peer := framePair()
	defer peer.Close()

	if err := s.WriteByte(0x00); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("WriteByte: got %v, want ErrNotConnected", err)
	}
	if err := s.ReadPacket(make([]byte, 16)); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("ReadPacket: got %v, want ErrNotConnected", err)
	}
}

func TestStreamWriteByte(t *testing.T) {
	s, peer := framePair()
	defer peer.Close()

	go func() {
		readFrameRaw(t, peer) // selector
	}()
	if err := s.Connect(0x4024); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	got := make(chan []byte, 1)
	go func() { got <- readFrameRaw(t, peer) }()
	if err := s.WriteByte(0xAB); err != nil {
		t.Fatalf("WriteByte returned error: %v", err)
	}
	if frame := <-got; !bytes.Equal(frame, []byte{0xAB}) {
		t.Fatalf("frame % x, want ab", frame)
	}
}

func TestStreamReadPacketPadsShortFrames(t *testing.T) {
	s, peer := framePair()
	defer peer.Close()

	go func() {
		readFrameRaw(t, peer) // selector
		writeFrameRaw(t, peer, []byte{1, 2, 3})
	}()
	if err := s.Connect(0x4024); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	buf := bytes.Repeat([]byte{0xFF}, 16)
	if err := s.ReadPacket(buf); err != nil {
		t.Fatalf("ReadPacket returned error: %v", err)
	}
	want := append([]byte{1, 2, 3}, make([]byte, 13)...)
	if !bytes.Equal(buf, want) {
		t.Fatalf("buffer % x, want % x", buf, want)
	}
}

func TestStreamReadPacketRejectsOversizeFrames(t *testing.T) {
	s, peer := framePair()
	defer peer.Close()

	go func() {
		readFrameRaw(t, peer) // selector
		var hdr [4]byte
		binary.LittleEndian.PutUint32(hdr[:], 64)
		peer.Write(hdr[:])
	}()
	if err := s.Connect(0x4024); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	err := s.ReadPacket(make([]byte, 16))
	if !errors.Is(err, ErrPacketTooLarge) {
		t.Fatalf("got %v, want ErrPacketTooLarge", err)
	}
}

func TestStreamFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	a := NewStream(client, 32)
	b := NewStream(server, 32)

	go func() {
		a.WriteFrame([]byte{9, 8, 7})
	}()
	frame, err := b.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame returned error: %v", err)
	}
	if !bytes.Equal(frame, []byte{9, 8, 7}) {
		t.Fatalf("frame % x", frame)
	}
	a.Close()
	b.Close()
}

func TestStreamDisconnectClosesConn(t *testing.T) {
	s, peer := framePair()

	go func() { readFrameRaw(t, peer) }()
	if err := s.Connect(0x4024); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	// The peer observes the close.
	if _, err := peer.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected closed connection")
	}
	peer.Close()

	if err := s.Disconnect(); err != nil {
		t.Fatalf("second Disconnect returned error: %v", err)
	}
}

func TestStreamDefaultMaxPayload(t *testing.T) {
	client, _ := net.Pipe()
	s := NewStream(client, 0)
	if got := s.MaxPacketPayload(); got != DefaultMaxPacketPayload {
		t.Fatalf("MaxPacketPayload = %d, want %d", got, DefaultMaxPacketPayload)
	}
}
