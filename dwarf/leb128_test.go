package dwarf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutUleb128(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, c := range cases {
		got := PutUleb128(nil, c.v)
		require.Equal(t, c.want, got)
		require.Equal(t, len(c.want), UlebSize(c.v))
	}
}

func TestPutSleb128(t *testing.T) {
	cases := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{2, []byte{0x02}},
		{-2, []byte{0x7e}},
		{127, []byte{0xff, 0x00}},
		{-129, []byte{0xff, 0x7e}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, PutSleb128(nil, c.v))
	}
}

func TestPutUlebFixed4(t *testing.T) {
	buf := PutUlebFixed4(nil, 3)
	require.Len(t, buf, 4)
	require.Equal(t, byte(0x83), buf[0])
	require.Equal(t, byte(0x80), buf[1])
	require.Equal(t, byte(0x80), buf[2])
	require.Equal(t, byte(0x00), buf[3])

	// Round trips through a real ULEB128 decoder regardless of the forced
	// continuation bits.
	var v uint64
	for i, shift := 0, uint(0); i < 4; i, shift = i+1, shift+7 {
		v |= uint64(buf[i]&0x7f) << shift
	}
	require.Equal(t, uint64(3), v)
}

func TestByteOrderRoundTrip(t *testing.T) {
	buf := putUint32(nil, 0xdeadbeef, LittleEndian)
	require.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, buf)

	buf = putUint32(nil, 0xdeadbeef, BigEndian)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, buf)

	buf = make([]byte, 4)
	writeUint32At(buf, 0, 0x01020304, BigEndian)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
}
