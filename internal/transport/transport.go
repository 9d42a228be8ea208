// Package transport defines the packet-level service transport used to talk
// to TI-Nspire calculators, along with a framed stream implementation suited
// to TCP bridge and emulator endpoints. Each service on the device is
// addressed by a 16-bit port; a session is connected to exactly one service
// at a time.
package transport

// Transport is the abstract packet transport consumed by the screenshot
// service client. Calls are blocking; there is no overlap between a write
// and the reads that follow it. Implementations handle framing, buffering,
// and connection management internally.
type Transport interface {
	// Connect opens a session to the numbered service endpoint.
	Connect(service uint16) error

	// Disconnect closes the service session, releasing the underlying
	// connection. It must be safe to call after a failed operation.
	Disconnect() error

	// WriteByte sends a single byte to the connected service.
	WriteByte(b byte) error

	// ReadPacket blocks until one packet arrives and fills buf with its
	// payload. buf must be exactly MaxPacketPayload bytes long; packets
	// shorter than that leave the remainder of buf zeroed.
	ReadPacket(buf []byte) error

	// MaxPacketPayload reports the maximum payload size per packet for
	// this session.
	MaxPacketPayload() int
}
