package relay

import (
	"bytes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

const (
	PBKDF2Iterations = 100000
	PBKDF2Salt       = "keyview-relay-v1"
	sessionContext   = "keyview-session-v1"

	// A sealed frame carries at most one report plus the AEAD overhead;
	// anything larger is a protocol error.
	maxSealedSize = 1024
)

// DeriveKey uses PBKDF2 to stretch a relay password to 32 bytes.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	return pbkdf2.Key([]byte(password), []byte(PBKDF2Salt), PBKDF2Iterations, chacha20poly1305.KeySize, sha256.New), nil
}

// SessionKey mixes the long-term key with the per-connection nonce the
// relay sends in its hello.
func SessionKey(key, nonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(nonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}

// sealedConn frames every Write as length(4) | nonce(12) | ciphertext.
// Nonces are a per-connection counter, so a session key must never be
// shared by two writers.
type sealedConn struct {
	net.Conn
	aead    cipher.AEAD
	sendCtr uint64
	recvBuf bytes.Buffer
	mu      sync.Mutex
}

// WrapConn seals traffic on conn with sessionKey.
func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &sealedConn{Conn: conn, aead: aead}, nil
}

func (s *sealedConn) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.BigEndian.PutUint64(nonce[4:], s.sendCtr)
	s.sendCtr++

	ct := s.aead.Seal(nil, nonce, p, nil)
	frame := make([]byte, 4, 4+len(nonce)+len(ct))
	binary.BigEndian.PutUint32(frame, uint32(len(nonce)+len(ct)))
	frame = append(frame, nonce...)
	frame = append(frame, ct...)

	if _, err := s.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *sealedConn) Read(p []byte) (int, error) {
	if s.recvBuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(s.Conn, hdr[:]); err != nil {
			return 0, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		if length < chacha20poly1305.NonceSize || length > maxSealedSize {
			return 0, io.ErrUnexpectedEOF
		}

		pkt := make([]byte, length)
		if _, err := io.ReadFull(s.Conn, pkt); err != nil {
			return 0, err
		}
		pt, err := s.aead.Open(nil, pkt[:chacha20poly1305.NonceSize], pkt[chacha20poly1305.NonceSize:], nil)
		if err != nil {
			return 0, err
		}
		s.recvBuf.Write(pt)
	}
	return s.recvBuf.Read(p)
}
