// Package report decodes the layer/key-state packets a keyboard emits and
// provides the sources that produce them: a simulated board, a raw HID
// device, a serial console and a network relay.
package report

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// PacketSize is the length of an encoded report: one layer byte followed by
// a 48-bit little-endian pressed-key mask.
const PacketSize = 7

// MaskBits is the number of keys a packet can describe.
const MaskBits = 48

// Report is one observation of the keyboard.
type Report struct {
	Time        time.Time
	ActiveLayer uint8
	PressedBits uint64
}

// Decode parses a packet. Packets shorter than PacketSize yield ok=false;
// trailing bytes are ignored.
func Decode(packet []byte) (r Report, ok bool) {
	if len(packet) < PacketSize {
		return Report{}, false
	}
	var mask [8]byte
	copy(mask[:], packet[1:PacketSize])
	return Report{
		Time:        time.Now(),
		ActiveLayer: packet[0],
		PressedBits: binary.LittleEndian.Uint64(mask[:]),
	}, true
}

// Encode returns the packet form of r. Bits above MaskBits are dropped.
func (r Report) Encode() []byte {
	var mask [8]byte
	binary.LittleEndian.PutUint64(mask[:], r.PressedBits)
	out := make([]byte, PacketSize)
	out[0] = r.ActiveLayer
	copy(out[1:], mask[:PacketSize-1])
	return out
}

func (r Report) MarshalBinary() ([]byte, error) {
	return r.Encode(), nil
}

func (r *Report) UnmarshalBinary(data []byte) error {
	d, ok := Decode(data)
	if !ok {
		return io.ErrUnexpectedEOF
	}
	*r = d
	return nil
}

func (r Report) String() string {
	return fmt.Sprintf("layer=%d pressed=%012x", r.ActiveLayer, r.PressedBits)
}
