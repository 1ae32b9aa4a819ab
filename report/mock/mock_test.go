package mock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/keyview/report"
	"github.com/Alia5/keyview/report/mock"
)

func TestMockWalksKeysAndLayers(t *testing.T) {
	src := mock.New()
	ctx := context.Background()

	first, ok, err := src.Poll(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(0), first.ActiveLayer)
	assert.Equal(t, uint64(1)<<1, first.PressedBits)
	assert.False(t, first.Time.IsZero())

	for i := 2; i < mock.PollsPerLayer; i++ {
		_, _, _ = src.Poll(ctx)
	}
	r, ok, err := src.Poll(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(1), r.ActiveLayer)
	assert.Equal(t, uint64(1)<<(mock.PollsPerLayer%mock.Keys), r.PressedBits)
}

func TestMockAt(t *testing.T) {
	assert.Equal(t, uint8(0), mock.At(0).ActiveLayer)
	assert.Equal(t, uint8(3), mock.At(3*mock.PollsPerLayer).ActiveLayer)
	assert.Equal(t, uint8(0), mock.At(4*mock.PollsPerLayer).ActiveLayer)
	assert.Equal(t, uint64(1), mock.At(mock.Keys).PressedBits)
	for n := uint64(0); n < 500; n++ {
		assert.Less(t, mock.At(n).PressedBits, uint64(1)<<report.MaskBits)
	}
}

func TestMockRegistered(t *testing.T) {
	src, err := report.New("MOCK", report.Options{})
	require.NoError(t, err)
	assert.IsType(t, &mock.Source{}, src)
	assert.Contains(t, report.Names(), mock.Name)
}

func TestMockCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := mock.New().Poll(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
