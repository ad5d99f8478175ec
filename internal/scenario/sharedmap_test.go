package scenario

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracebait/tracebait/internal/platform"
)

const testMapAddr uintptr = 0x68000000

func testSharedMap(out *bytes.Buffer) *SharedMap {
	return &SharedMap{
		Threads:     4,
		Addr:        testMapAddr,
		Size:        0x2000,
		Idle:        10 * time.Millisecond,
		JoinTimeout: 5 * time.Second,
		Out:         out,
	}
}

func TestSharedMapRun(t *testing.T) {
	var out bytes.Buffer

	s := testSharedMap(&out)

	result, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, testMapAddr, result.Addr)
	require.Len(t, result.Slots, s.Threads)

	// Worker 0's thread is gone by the time the rest start, so its id may be
	// recycled; only concurrently live workers must be distinct.
	seen := make(map[uint64]bool, s.Threads)
	for k, v := range result.Slots {
		assert.NotZerof(t, v, "slot %d", k)

		if k == 0 {
			continue
		}

		assert.Falsef(t, seen[v], "slot %d repeats thread id %x", k, v)
		seen[v] = true
	}

	lines := out.String()

	for k := 0; k < s.Threads; k++ {
		assert.Contains(t, lines, fmt.Sprintf("thread %d enter.\n", k))
		assert.Contains(t, lines, fmt.Sprintf("thread %d exit.\n", k))
	}

	for _, v := range result.Slots {
		assert.Contains(t, lines, fmt.Sprintf("threads data: %x\n", v))
	}
}

func TestSharedMapWorkerZeroRunsFirst(t *testing.T) {
	var out bytes.Buffer

	s := testSharedMap(&out)

	_, err := s.Run()
	require.NoError(t, err)

	lines := out.String()

	exit0 := strings.Index(lines, "thread 0 exit.")
	require.NotEqual(t, -1, exit0)

	for k := 1; k < s.Threads; k++ {
		enter := strings.Index(lines, fmt.Sprintf("thread %d enter.", k))

		require.NotEqual(t, -1, enter)
		assert.Less(t, exit0, enter, "worker %d entered before worker 0 exited", k)
	}
}

func TestSharedMapRerun(t *testing.T) {
	for i := 0; i < 2; i++ {
		var out bytes.Buffer

		result, err := testSharedMap(&out).Run()

		require.NoError(t, err)
		assert.Equal(t, testMapAddr, result.Addr)
	}
}

func TestSharedMapOccupiedAddress(t *testing.T) {
	blocker, err := platform.MapRegionAt(testMapAddr, 0x1000)
	require.NoError(t, err)
	defer blocker.Close()

	var out bytes.Buffer

	_, err = testSharedMap(&out).Run()

	assert.ErrorIs(t, err, platform.ErrRegionMoved)
}

func TestSharedMapInvalidConfig(t *testing.T) {
	scenarios := map[string]struct {
		mutate func(s *SharedMap)
	}{
		"test zero threads": {
			mutate: func(s *SharedMap) { s.Threads = 0 },
		},
		"test region too small": {
			mutate: func(s *SharedMap) { s.Size = 0x8 },
		},
		"test zero join bound": {
			mutate: func(s *SharedMap) { s.JoinTimeout = 0 },
		},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			var out bytes.Buffer

			s := testSharedMap(&out)
			data.mutate(s)

			_, err := s.Run()

			assert.Error(t, err)
		})
	}
}
