// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package keyframe

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/probe"
)

// fakeRunner returns a fixed probe response regardless of the requested
// intervals: a 100-frame stream, 1 tick per frame, keyframes every 10
// frames, with the terminal packet satisfying the end-of-stream sentinel.
// It also records the args it was invoked with, so callers can assert on
// how the -read_intervals flag was constructed.
type fakeRunner struct {
	gotArgs *[]string
}

func (f fakeRunner) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	if f.gotArgs != nil {
		*f.gotArgs = args
	}
	var buf bytes.Buffer
	buf.WriteString(`{"streams":[{"time_base":"1/1","avg_frame_rate":"1/1","duration_ts":100,"packets":[`)
	for i := int64(0); i < 100; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		flags := "___"
		if i%10 == 0 {
			flags = "K__"
		}
		fmt.Fprintf(&buf, `{"pts":%d,"dts":%d,"duration":1,"flags":"%s"}`, i, i, flags)
	}
	buf.WriteString(`]}]}`)
	return buf.Bytes(), nil
}

func newTestOracle() *Oracle {
	client := &probe.Client{Binary: "ffprobe", Runner: fakeRunner{}}
	return New(client, "baseline.mov", opentime.NewFrameRate(1, 1), nil)
}

func TestResolveExactKeyframe(t *testing.T) {
	o := newTestOracle()
	answers, err := o.Resolve(context.Background(), []int64{20})
	require.NoError(t, err)

	a := answers[20]
	require.EqualValues(t, 20, a.Next.Keyframe)
	require.EqualValues(t, 20, a.Prev.Keyframe)
	require.True(t, a.Next.DTSDelta.IsZero())
}

func TestResolveBetweenKeyframes(t *testing.T) {
	o := newTestOracle()
	answers, err := o.Resolve(context.Background(), []int64{23})
	require.NoError(t, err)

	a := answers[23]
	require.EqualValues(t, 30, a.Next.Keyframe)
	require.EqualValues(t, 20, a.Prev.Keyframe)
}

func TestResolveEndOfStreamSentinel(t *testing.T) {
	o := newTestOracle()
	answers, err := o.Resolve(context.Background(), []int64{95})
	require.NoError(t, err)

	a := answers[95]
	require.EqualValues(t, 99, a.Next.Keyframe)
	require.EqualValues(t, 90, a.Prev.Keyframe)
}

func TestResolveEmptyPositions(t *testing.T) {
	o := newTestOracle()
	answers, err := o.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, answers)
}

// TestResolveMultiplePositionsJoinsIntervals guards against the oracle
// (or the probe client underneath it) regressing to one -read_intervals
// flag per queried position: a Pass A call routinely queries two
// positions (a segment's start and end) in a single Resolve, and ffprobe
// only honors the last occurrence of a repeated string flag, so every
// requested interval must land in a single comma-joined flag value.
func TestResolveMultiplePositionsJoinsIntervals(t *testing.T) {
	var gotArgs []string
	client := &probe.Client{Binary: "ffprobe", Runner: fakeRunner{gotArgs: &gotArgs}}
	o := New(client, "baseline.mov", opentime.NewFrameRate(1, 1), nil)

	_, err := o.Resolve(context.Background(), []int64{20, 23, 95})
	require.NoError(t, err)

	count := 0
	var value string
	for i, a := range gotArgs {
		if a == "-read_intervals" {
			count++
			require.Less(t, i+1, len(gotArgs))
			value = gotArgs[i+1]
		}
	}
	require.Equal(t, 1, count, "-read_intervals must appear exactly once")
	require.Equal(t, 3, strings.Count(value, "%+#100"), "all three queried intervals must be present in the single flag value")
}
