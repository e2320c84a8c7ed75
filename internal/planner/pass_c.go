// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package planner

import "github.com/mrjoshuak/spliceplan/internal/segment"

// CoalesceTargets is Pass C: adjacent TargetSegments are collapsed into
// one. Non-adjacent consecutive targets shouldn't occur after Pass B, but
// are tolerated here by simply not merging across the gap; a later pass
// or Pass F's consistency check will catch a genuine gap as an invariant
// violation.
func CoalesceTargets(segs []segment.Segment) []segment.Segment {
	out := make([]segment.Segment, 0, len(segs))
	for _, s := range segs {
		if s.IsTarget() && len(out) > 0 {
			last := out[len(out)-1]
			if last.IsTarget() && last.End() == s.TargetFrame() {
				last.Duration += s.Duration
				out[len(out)-1] = last
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
