// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package diffengine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mrjoshuak/spliceplan/internal/fingerprint"
	"github.com/mrjoshuak/spliceplan/internal/segment"
)

func seq(labels ...byte) fingerprint.Sequence {
	out := make(fingerprint.Sequence, len(labels))
	for i, l := range labels {
		out[i][0] = l
	}
	return out
}

func TestDiffNoEdit(t *testing.T) {
	s := seq(make([]byte, 100)...)
	for i := range s {
		s[i][0] = byte(i % 251)
	}

	segs := Diff(s, s)
	require.Len(t, segs, 1)
	require.True(t, segs[0].IsOriginal())
	require.EqualValues(t, 0, segs[0].OriginalFrame)
	require.EqualValues(t, 100, segs[0].Duration)
}

func TestDiffPureInsertAtStart(t *testing.T) {
	base := seq('a', 'b', 'c')
	target := seq('x', 'y', 'a', 'b', 'c')

	segs := Diff(base, target)
	require.Len(t, segs, 2)
	require.True(t, segs[0].IsTarget())
	require.EqualValues(t, 0, segs[0].TargetFrame())
	require.EqualValues(t, 2, segs[0].Duration)
	require.True(t, segs[1].IsOriginal())
	require.EqualValues(t, 0, segs[1].OriginalFrame)
	require.EqualValues(t, 3, segs[1].Duration)
}

func TestDiffInsertInMiddle(t *testing.T) {
	base := seq('a', 'b', 'c', 'd')
	target := seq('a', 'b', 'x', 'c', 'd')

	segs := Diff(base, target)
	require.Len(t, segs, 3)
	require.True(t, segs[0].IsOriginal())
	require.EqualValues(t, 2, segs[0].Duration)
	require.True(t, segs[1].IsTarget())
	require.EqualValues(t, 1, segs[1].Duration)
	require.True(t, segs[2].IsOriginal())
	require.EqualValues(t, 2, segs[2].OriginalFrame)
	require.EqualValues(t, 2, segs[2].Duration)
}

func TestDiffPureDeletion(t *testing.T) {
	base := seq('a', 'b', 'c', 'd')
	target := seq('a', 'd')

	segs := Diff(base, target)

	var total int64
	for _, s := range segs {
		total += s.Duration
	}
	require.EqualValues(t, len(target), total)

	// A strict-subsequence target reconstructs from OriginalSegments only.
	for _, s := range segs {
		require.True(t, s.IsOriginal())
	}
}

func TestDiffEmptyTargetProducesNoSegments(t *testing.T) {
	base := seq('a', 'b', 'c')
	var target fingerprint.Sequence

	segs := Diff(base, target)
	require.Nil(t, segs)
}

func TestDiffEmptyBaselineProducesSingleTarget(t *testing.T) {
	var base fingerprint.Sequence
	target := seq('a', 'b', 'c')

	segs := Diff(base, target)
	require.Len(t, segs, 1)
	require.True(t, segs[0].IsTarget())
	require.EqualValues(t, 0, segs[0].TargetFrame())
	require.EqualValues(t, 3, segs[0].Duration)
}

func TestDiffBothEmpty(t *testing.T) {
	var base, target fingerprint.Sequence
	segs := Diff(base, target)
	require.Nil(t, segs)
}

// TestDiffReconstructsTarget generates random baseline/target sequences
// drawn from a small alphabet (to force matches) and checks that every
// OriginalSegment's claimed baseline range is byte-identical to the
// target range it is supposed to reconstruct, and that every segment's
// durations sum to the target length — the §8 reconstruction invariant,
// restricted to what the raw diff (pre-Planner) can assert.
func TestDiffReconstructsTarget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		alphabet := []byte("ABCDE")
		baseLabels := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 20).Draw(rt, "base")
		targetLabels := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 20).Draw(rt, "target")

		base := seq(baseLabels...)
		target := seq(targetLabels...)

		segs := Diff(base, target)

		var total int64
		for _, s := range segs {
			total += s.Duration
		}
		require.EqualValues(rt, len(target), total)

		pos := int64(0)
		for _, s := range segs {
			require.Equal(rt, pos, s.TargetFrame())
			if s.IsOriginal() {
				for k := int64(0); k < s.Duration; k++ {
					require.True(rt, base[s.OriginalFrame+k].Equal(target[pos+k]))
				}
			}
			pos += s.Duration
		}
	})
}

func TestDiffNoTwoConsecutiveTargets(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		alphabet := []byte("AB")
		baseLabels := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 12).Draw(rt, "base")
		targetLabels := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 12).Draw(rt, "target")

		segs := Diff(seq(baseLabels...), seq(targetLabels...))
		for i := 1; i < len(segs); i++ {
			if segs[i-1].Kind == segment.Target && segs[i].Kind == segment.Target {
				rt.Fatalf("raw diff produced two adjacent Target segments at index %d", i)
			}
		}
	})
}
