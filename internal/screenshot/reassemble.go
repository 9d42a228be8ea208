package screenshot

import (
	"fmt"

	"github.com/jdeng/gonspire/internal/transport"
)

// reassemble reads packets from t until size compressed bytes have been
// collected. Every packet carries a status byte followed by up to
// MaxPacketPayload-1 data bytes; only min(remaining, MaxPacketPayload-1)
// of them belong to the stream, whatever else the fixed-size packet holds.
// A failed read aborts the whole transfer with no partial result.
func reassemble(t transport.Transport, size uint32) ([]byte, error) {
	buf := make([]byte, 0, size)
	pkt := make([]byte, t.MaxPacketPayload())
	chunk := len(pkt) - 1

	remaining := int(size)
	for remaining > 0 {
		if err := t.ReadPacket(pkt); err != nil {
			return nil, fmt.Errorf("nspire: read screenshot payload: %w", err)
		}
		n := chunk
		if remaining < n {
			n = remaining
		}
		buf = append(buf, pkt[1:1+n]...)
		remaining -= n
	}
	return buf, nil
}
