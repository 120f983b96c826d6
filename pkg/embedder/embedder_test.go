package embedder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCapacity(t *testing.T) {
	require.NoError(t, CheckCapacity(100, 100))
	require.NoError(t, CheckCapacity(1<<30, Unbounded))

	err := CheckCapacity(101, 100)
	require.ErrorIs(t, err, ErrPayloadTooLarge)

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	require.Equal(t, 101, capErr.Required)
	require.Equal(t, 100, capErr.Capacity)
	require.Contains(t, err.Error(), "payload too large for carrier")
}

func TestBaseEmbedder(t *testing.T) {
	b := NewBaseEmbedder("x", "desc", []string{"png"})
	require.Equal(t, "x", b.Name())
	require.Equal(t, "desc", b.Description())
	require.True(t, b.CanEmbed("png"))
	require.False(t, b.CanEmbed("jpeg"))
}
