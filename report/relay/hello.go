package relay

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Every relay connection starts with a hello from the relay:
//
//	magic "KVR1" | mode (0 plain, 1 sealed) | nonce[32] when sealed
//
// after which the relay streams 7-byte report packets, each sealed
// separately in sealed mode.
const (
	helloMagic = "KVR1"
	NonceSize  = 32

	modePlain  byte = 0
	modeSealed byte = 1
)

var (
	// ErrBadHello is returned when the peer is not a keyview relay.
	ErrBadHello = errors.New("not a keyview relay")
	// ErrPasswordRequired is returned when the relay seals frames but no
	// password was configured.
	ErrPasswordRequired = errors.New("relay requires a password")
	// ErrPasswordUnexpected is returned when a password was configured but
	// the relay streams in the clear.
	ErrPasswordUnexpected = errors.New("relay does not use a password")
)

func writeHello(w io.Writer, sealed bool) (nonce []byte, err error) {
	msg := []byte(helloMagic)
	if !sealed {
		_, err = w.Write(append(msg, modePlain))
		return nil, err
	}
	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate relay nonce: %w", err)
	}
	msg = append(msg, modeSealed)
	_, err = w.Write(append(msg, nonce...))
	return nonce, err
}

func readHello(r io.Reader) (sealed bool, nonce []byte, err error) {
	var hdr [len(helloMagic) + 1]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return false, nil, fmt.Errorf("read relay hello: %w", err)
	}
	if string(hdr[:len(helloMagic)]) != helloMagic {
		return false, nil, ErrBadHello
	}
	switch hdr[len(helloMagic)] {
	case modePlain:
		return false, nil, nil
	case modeSealed:
		nonce = make([]byte, NonceSize)
		if _, err := io.ReadFull(r, nonce); err != nil {
			return false, nil, fmt.Errorf("read relay nonce: %w", err)
		}
		return true, nonce, nil
	default:
		return false, nil, fmt.Errorf("%w: unknown mode %d", ErrBadHello, hdr[len(helloMagic)])
	}
}
