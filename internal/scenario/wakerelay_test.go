package scenario

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakeRelayAllComplete(t *testing.T) {
	var out bytes.Buffer

	w := &WakeRelay{
		Threads:     5,
		Kicker:      3,
		Delay:       100 * time.Millisecond,
		JoinTimeout: 5 * time.Second,
		Out:         &out,
	}

	result, err := w.Run()
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, result.Completed)
	assert.Empty(t, result.Lost)

	lines := out.String()

	for k := 0; k < w.Threads; k++ {
		assert.Contains(t, lines, fmt.Sprintf("this is thread #%d\n", k))
		assert.Contains(t, lines, fmt.Sprintf("%d exited.\n", k))
	}

	assert.Equal(t, 1, strings.Count(lines, "signaling thread #"))
	assert.Contains(t, lines, "signaling thread #3\n")
}

func TestWakeRelaySingleWorker(t *testing.T) {
	var out bytes.Buffer

	w := &WakeRelay{
		Threads:     1,
		Kicker:      0,
		Delay:       50 * time.Millisecond,
		JoinTimeout: 5 * time.Second,
		Out:         &out,
	}

	result, err := w.Run()
	require.NoError(t, err)

	assert.Equal(t, []int{0}, result.Completed)
	assert.Empty(t, result.Lost)
}

func TestWakeRelayImmediateKick(t *testing.T) {
	var out bytes.Buffer

	w := &WakeRelay{
		Threads:     5,
		Kicker:      3,
		Delay:       0,
		JoinTimeout: 500 * time.Millisecond,
		Out:         &out,
	}

	result, err := w.Run()

	// A kick racing the workers may park any suffix of the ring behind a
	// lost wakeup; that is a benign outcome, never an error.
	require.NoError(t, err)

	all := make([]int, 0, w.Threads)
	all = append(all, result.Completed...)
	all = append(all, result.Lost...)

	require.Len(t, all, w.Threads)

	seen := make(map[int]bool, w.Threads)
	for _, k := range all {
		assert.False(t, seen[k], "position %d counted twice", k)
		seen[k] = true
	}
}

func TestWakeRelayInvalidConfig(t *testing.T) {
	scenarios := map[string]struct {
		threads int
		kicker  int
	}{
		"test zero threads": {
			threads: 0,
			kicker:  0,
		},
		"test negative kicker": {
			threads: 5,
			kicker:  -1,
		},
		"test kicker outside ring": {
			threads: 5,
			kicker:  5,
		},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			w := &WakeRelay{
				Threads:     data.threads,
				Kicker:      data.kicker,
				Delay:       time.Millisecond,
				JoinTimeout: time.Second,
			}

			_, err := w.Run()

			assert.Error(t, err)
		})
	}
}
