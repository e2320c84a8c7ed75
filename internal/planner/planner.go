// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package planner

import (
	"context"

	"github.com/mrjoshuak/spliceplan/internal/keyframe"
	"github.com/mrjoshuak/spliceplan/internal/segment"
)

// Plan runs passes A through F in order over a raw diff-engine segment
// list and returns the final, consistent plan. Each pass fully consumes
// the previous pass's output before producing its own (spec §5's ordering
// guarantee).
func Plan(ctx context.Context, raw []segment.Segment, oracle *keyframe.Oracle, baselineLength, targetLength int64) ([]segment.Segment, error) {
	withKeyframes, err := AttachKeyframes(ctx, raw, oracle, baselineLength)
	if err != nil {
		return nil, err
	}

	segs := PromoteUnsnappable(withKeyframes)
	segs = CoalesceTargets(segs)

	segs, err = Nudge(segs)
	if err != nil {
		return nil, err
	}

	segs = InsertTrailingGlue(segs)
	// Pass E inserts each glue segment directly after the Original it
	// splits, so if that Original's successor is already a Target the
	// two would abut; Pass C's adjacency invariant is re-established
	// before the final check.
	segs = CoalesceTargets(segs)

	if err := CheckConsistency(segs, targetLength); err != nil {
		return nil, err
	}
	return segs, nil
}
