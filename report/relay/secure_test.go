package relay_test

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/keyview/report/relay"
)

func TestDeriveKey(t *testing.T) {
	a, err := relay.DeriveKey("secret")
	require.NoError(t, err)
	b, err := relay.DeriveKey("secret")
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.Equal(t, a, b)

	_, err = relay.DeriveKey("")
	assert.Error(t, err)

	nonceA := make([]byte, relay.NonceSize)
	nonceB := make([]byte, relay.NonceSize)
	nonceB[0] = 1
	assert.NotEqual(t, relay.SessionKey(a, nonceA), relay.SessionKey(a, nonceB))
}

func TestSealedConn(t *testing.T) {
	key, err := relay.DeriveKey("secret")
	require.NoError(t, err)
	other, err := relay.DeriveKey("other")
	require.NoError(t, err)

	tests := []struct {
		name      string
		readerKey []byte
		wantErr   bool
	}{
		{name: "matching keys", readerKey: key},
		{name: "differing keys", readerKey: other, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientConn, serverConn := net.Pipe()
			defer clientConn.Close()
			defer serverConn.Close()

			writer, err := relay.WrapConn(serverConn, key)
			require.NoError(t, err)
			reader, err := relay.WrapConn(clientConn, tt.readerKey)
			require.NoError(t, err)

			payload := []byte{2, 0x5A, 0xA5, 0, 0, 0, 0}
			go func() { _, _ = writer.Write(payload) }()

			got := make([]byte, len(payload))
			_, err = io.ReadFull(reader, got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestWrapConnBadKey(t *testing.T) {
	c, _ := net.Pipe()
	defer c.Close()
	_, err := relay.WrapConn(c, []byte("short"))
	assert.Error(t, err)
}
