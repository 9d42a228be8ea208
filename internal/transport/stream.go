package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
)

// DefaultMaxPacketPayload matches the packet payload size negotiated by the
// calculator's USB session layer. Bridge endpoints that do not advertise a
// size use this value.
const DefaultMaxPacketPayload = 254

var (
	// ErrPacketTooLarge is returned when a received frame exceeds the
	// session's maximum packet payload size.
	ErrPacketTooLarge = errors.New("nspire: packet exceeds maximum payload size")

	// ErrNotConnected is returned when an operation requires a connected
	// service session.
	ErrNotConnected = errors.New("nspire: no service connected")

	// ErrAlreadyConnected is returned by Connect when a service session
	// is already open on this stream.
	ErrAlreadyConnected = errors.New("nspire: service already connected")
)

// Stream adapts a byte stream (TCP bridge, emulator socket, serial link) to
// the packet Transport contract. Every packet travels as one frame:
//
//	[4 bytes] payload length (little-endian uint32)
//	[N bytes] payload
//
// Connecting a service sends a single frame carrying the 16-bit service
// address in big-endian order, the byte order the device uses for service
// ports.
type Stream struct {
	rw         io.ReadWriteCloser
	maxPayload int
	connected  bool
}

// NewStream wraps rw as a packet transport. maxPayload <= 0 selects
// DefaultMaxPacketPayload.
func NewStream(rw io.ReadWriteCloser, maxPayload int) *Stream {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPacketPayload
	}
	return &Stream{rw: rw, maxPayload: maxPayload}
}

// DialTCP connects to a calculator bridge at addr and returns a packet
// transport over the resulting connection.
func DialTCP(addr string) (*Stream, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("nspire: dial bridge: %w", err)
	}
	return NewStream(conn, DefaultMaxPacketPayload), nil
}

// MaxPacketPayload reports the maximum payload size per packet.
func (s *Stream) MaxPacketPayload() int { return s.maxPayload }

// Connect opens a session to the numbered service endpoint.
func (s *Stream) Connect(service uint16) error {
	if s.connected {
		return ErrAlreadyConnected
	}
	var addr [2]byte
	binary.BigEndian.PutUint16(addr[:], service)
	if err := s.writeFrame(addr[:]); err != nil {
		return fmt.Errorf("nspire: connect service 0x%04x: %w", service, err)
	}
	s.connected = true
	return nil
}

// Disconnect tears down the service session and closes the underlying
// stream. Calling it without a connected service is a no-op.
func (s *Stream) Disconnect() error {
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.rw.Close()
}

// WriteByte sends a single byte to the connected service.
func (s *Stream) WriteByte(b byte) error {
	if !s.connected {
		return ErrNotConnected
	}
	return s.writeFrame([]byte{b})
}

// ReadPacket reads one frame into buf. Frames shorter than buf leave the
// tail zeroed; frames longer than buf fail with ErrPacketTooLarge.
func (s *Stream) ReadPacket(buf []byte) error {
	if !s.connected {
		return ErrNotConnected
	}
	var hdr [4]byte
	if _, err := io.ReadFull(s.rw, hdr[:]); err != nil {
		return fmt.Errorf("nspire: read packet header: %w", err)
	}
	length := binary.LittleEndian.Uint32(hdr[:])
	if length > uint32(len(buf)) {
		return ErrPacketTooLarge
	}
	if _, err := io.ReadFull(s.rw, buf[:length]); err != nil {
		return fmt.Errorf("nspire: read packet payload: %w", err)
	}
	for i := int(length); i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// WriteFrame sends one raw frame on the stream. Bridge servers use it to
// emit response packets; the client side goes through WriteByte.
func (s *Stream) WriteFrame(payload []byte) error {
	return s.writeFrame(payload)
}

// ReadFrame reads one raw frame regardless of connection state. Bridge
// servers use it to consume the service selector and trigger frames.
func (s *Stream) ReadFrame() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(s.rw, hdr[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(hdr[:])
	if length > uint32(s.maxPayload) {
		return nil, ErrPacketTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(s.rw, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Close closes the underlying stream without the service bookkeeping.
func (s *Stream) Close() error {
	s.connected = false
	return s.rw.Close()
}

func (s *Stream) writeFrame(payload []byte) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := s.rw.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := s.rw.Write(payload); err != nil {
			return err
		}
	}
	return nil
}
