// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package planner

import (
	"fmt"

	"github.com/mrjoshuak/spliceplan/internal/segment"
	"github.com/mrjoshuak/spliceplan/internal/splerr"
)

// Nudge is Pass D: every OriginalSegment's pre-keyframe and
// post-keyframe overhang is pushed into its neighbours, which absorb it
// (re-rendering it if the neighbour is a TargetSegment, or simply
// inheriting it if the neighbour is itself an OriginalSegment already
// widened to its own keyframes by this same pass). The precondition that
// the first segment is never an OriginalSegment needing an in-nudge (no
// predecessor exists to absorb it) is a planner bug if violated, so it
// surfaces as PlanInconsistent rather than panicking.
func Nudge(segs []segment.Segment) ([]segment.Segment, error) {
	out := make([]segment.Segment, len(segs))
	copy(out, segs)

	for k, s := range segs {
		if !s.IsOriginal() {
			continue
		}

		inNudge := s.InKeyframe - s.OriginalFrame
		outNudge := (s.OriginalFrame + s.Duration) - s.OutKeyframe

		if inNudge > 0 {
			if k == 0 {
				return nil, &splerr.PlanInconsistent{
					SegmentIndex: k,
					Violation:    fmt.Sprintf("first segment needs an in-nudge of %d with no predecessor to absorb it", inNudge),
				}
			}
			prev := out[k-1]
			prev.Duration += inNudge
			out[k-1] = prev

			cur := out[k]
			cur.OriginalFrame += inNudge
			cur.Duration -= inNudge
			out[k] = cur
		}

		if outNudge > 0 && k != len(segs)-1 {
			next := out[k+1]
			next.OriginalFrame -= outNudge
			next.Duration += outNudge
			out[k+1] = next

			cur := out[k]
			cur.Duration -= outNudge
			out[k] = cur
		}
	}
	return out, nil
}
