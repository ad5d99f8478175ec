package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Far away from the text segment, the Go heap arenas and the stack.
const testRegionAddr uintptr = 0x69000000

func TestMapRegionAtHonoursAddress(t *testing.T) {
	region, err := MapRegionAt(testRegionAddr, 0x2000)
	require.NoError(t, err)

	assert.Equal(t, testRegionAddr, region.Addr())
	assert.Equal(t, uintptr(0x2000), region.Size())

	slots := region.Slots()
	assert.Len(t, slots, 0x2000/8)

	slots[0] = 0xfeedface
	slots[len(slots)-1] = 42
	assert.Equal(t, uint64(0xfeedface), slots[0])
	assert.Equal(t, uint64(42), slots[len(slots)-1])

	assert.NoError(t, region.Close())
}

func TestMapRegionAtOccupiedAddress(t *testing.T) {
	region, err := MapRegionAt(testRegionAddr, 0x1000)
	require.NoError(t, err)
	defer region.Close()

	_, err = MapRegionAt(testRegionAddr, 0x1000)
	assert.ErrorIs(t, err, ErrRegionMoved)
}

func TestMapRegionAtInvalidArgs(t *testing.T) {
	scenarios := map[string]struct {
		addr uintptr
		size uintptr
	}{
		"test zero address": {
			addr: 0,
			size: 0x1000,
		},
		"test unaligned address": {
			addr: testRegionAddr + 1,
			size: 0x1000,
		},
		"test zero size": {
			addr: testRegionAddr,
			size: 0,
		},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			_, err := MapRegionAt(data.addr, data.size)

			assert.Error(t, err)
		})
	}
}

func TestMapRegionAtReusableAfterClose(t *testing.T) {
	region, err := MapRegionAt(testRegionAddr, 0x1000)
	require.NoError(t, err)
	require.NoError(t, region.Close())

	region, err = MapRegionAt(testRegionAddr, 0x1000)
	require.NoError(t, err)
	assert.NoError(t, region.Close())
}
