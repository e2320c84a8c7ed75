// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package planner

import "github.com/mrjoshuak/spliceplan/internal/segment"

// InsertTrailingGlue is Pass E: an OriginalSegment that still ends past
// its out_keyframe after Pass D (because Pass D could not push the
// overhang into a successor — typically because it is the last segment)
// is split at its out_keyframe, and the residual overhang is emitted as a
// new TargetSegment immediately after it.
func InsertTrailingGlue(segs []segment.Segment) []segment.Segment {
	out := make([]segment.Segment, 0, len(segs))
	for _, s := range segs {
		if !s.IsOriginal() || s.OutKeyframe >= s.OriginalFrame+s.Duration {
			out = append(out, s)
			continue
		}

		overhang := (s.OriginalFrame + s.Duration) - s.OutKeyframe
		shrunk := s
		shrunk.Duration -= overhang
		out = append(out, shrunk)
		out = append(out, segment.NewTarget(shrunk.End(), overhang))
	}
	return out
}
