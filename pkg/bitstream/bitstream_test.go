package bitstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_AppendsTerminator(t *testing.T) {
	bits := Encode("hi")
	require.Len(t, bits, 8*(2+len(Terminator)))

	// 'h' = 0x68 = 01101000
	require.Equal(t, Bitstream{0, 1, 1, 0, 1, 0, 0, 0}, bits[:8])
	require.Equal(t, TerminatorBits(), bits[len(bits)-32:])
}

func TestEncodeLength(t *testing.T) {
	for _, text := range []string{"", "a", "hello", "héllo wörld", "日本語"} {
		require.Len(t, Encode(text), 8*(len([]byte(text))+4), text)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	text := "round trip ✓"
	bits := FromBytes([]byte(text))

	got, err := Decode(bits)
	require.NoError(t, err)
	require.Equal(t, text, got)
}

func TestDecode_NotByteAligned(t *testing.T) {
	_, err := Decode(Bitstream{1, 0, 1})
	require.ErrorIs(t, err, ErrNoValidData)
}

func TestDecode_InvalidUTF8(t *testing.T) {
	_, err := Decode(FromBytes([]byte{0xff, 0xfe, 0x80}))
	require.ErrorIs(t, err, ErrUndecodableBinary)
}

func TestDecode_Empty(t *testing.T) {
	got, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestIndexFrom(t *testing.T) {
	bits := Bitstream{0, 0, 1, 1, 0, 1, 1}
	require.Equal(t, 2, bits.IndexFrom(Bitstream{1, 1}, 0))
	require.Equal(t, 5, bits.IndexFrom(Bitstream{1, 1}, 3))
	require.Equal(t, -1, bits.IndexFrom(Bitstream{1, 1, 1}, 0))
}

func TestTruncate(t *testing.T) {
	bits := make(Bitstream, 19)
	require.Len(t, bits.Truncate(), 16)
}
