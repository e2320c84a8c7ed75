// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package planner

import "github.com/mrjoshuak/spliceplan/internal/segment"

// PromoteUnsnappable is Pass B: an OriginalSegment whose in_keyframe
// already lies at or past its out_keyframe is narrower than one GOP, so
// no interior keyframe pair fits inside it — it is converted wholesale
// into a TargetSegment at its target-timeline position. The comparator is
// deliberately >=, not >: a segment containing exactly one keyframe
// cannot be split by the nudging pass either and must be re-encoded.
func PromoteUnsnappable(segs []segment.Segment) []segment.Segment {
	out := make([]segment.Segment, 0, len(segs))
	for _, s := range segs {
		if s.IsOriginal() && s.InKeyframe >= s.OutKeyframe {
			out = append(out, segment.NewTarget(s.TargetFrame(), s.Duration))
			continue
		}
		out = append(out, s)
	}
	return out
}
