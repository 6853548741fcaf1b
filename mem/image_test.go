package mem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinbound/armflow/mem"
)

func TestRegionOverlapRejected(t *testing.T) {
	im := mem.New(4, mem.LittleEndian)
	require.NoError(t, im.AddRegion(0x1000, 0x100, mem.PermRead|mem.PermExec, "code"))
	err := im.AddRegion(0x1080, 0x100, mem.PermRead, "data")
	require.Error(t, err)
}

func TestReadWriteRoundTrip(t *testing.T) {
	im := mem.New(4, mem.LittleEndian)
	require.NoError(t, im.AddRegion(0x2000, 0x100, mem.PermRead|mem.PermWrite, "data"))

	require.NoError(t, im.WriteU32(0x2000, 0xdeadbeef))
	v, ok := im.ReadU32(0x2000)
	require.True(t, ok)
	require.Equal(t, uint32(0xdeadbeef), v)
}

func TestProbeNeverRaisesOnUnmapped(t *testing.T) {
	im := mem.New(4, mem.LittleEndian)
	require.False(t, im.Probe(0x9999, 4, mem.PermRead))
	b, ok := im.ReadBytes(0x9999, 4)
	require.False(t, ok)
	require.Nil(t, b)
}

func TestBigEndianAccessors(t *testing.T) {
	im := mem.New(4, mem.BigEndian)
	require.NoError(t, im.AddRegion(0, 0x10, mem.PermRead|mem.PermWrite, "m"))
	require.NoError(t, im.WriteU16(0, 0x1234))
	b, ok := im.ReadBytes(0, 2)
	require.True(t, ok)
	require.Equal(t, []byte{0x12, 0x34}, b)
}
