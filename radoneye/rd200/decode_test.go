package rd200

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alepar/radoneye/radoneye"
)

func TestDecodeResponse(t *testing.T) {
	for _, v := range []float32{0, 0.85, 1.23, 12.345, 999.99, 1000, 4242.5} {
		got, err := DecodeResponse(response(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestDecodeResponseExactLength(t *testing.T) {
	got, err := DecodeResponse(response(3.5)[:6])
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), got)
}

func TestDecodeResponseTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		_, err := DecodeResponse(response(1)[:n])
		require.Error(t, err)
		assert.Equal(t, radoneye.KindDecode, radoneye.KindOf(err))
		assert.True(t, errors.Is(err, radoneye.ErrShortResponse))
	}
}

func TestCheckPlausible(t *testing.T) {
	assert.NoError(t, checkPlausible(0))
	assert.NoError(t, checkPlausible(1000))

	err := checkPlausible(1000.5)
	require.Error(t, err)
	assert.Equal(t, radoneye.KindSanity, radoneye.KindOf(err))
	assert.True(t, errors.Is(err, radoneye.ErrImplausibleReading))
}
