// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package planner

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/mrjoshuak/spliceplan/internal/segment"
	"github.com/mrjoshuak/spliceplan/internal/splerr"
)

// CheckConsistency is Pass F: it asserts every §3 invariant holds for the
// final segment list. Any violation is a planner bug, never a user
// error, so every violation found is collected before failing — a
// bug-report message naming one violation shouldn't hide a second.
func CheckConsistency(segs []segment.Segment, targetLength int64) error {
	var errs *multierror.Error
	firstBad := -1
	fail := func(idx int, format string, args ...interface{}) {
		if firstBad < 0 {
			firstBad = idx
		}
		errs = multierror.Append(errs, fmt.Errorf("segment %d: "+format, append([]interface{}{idx}, args...)...))
	}

	for i, s := range segs {
		if s.Duration <= 0 {
			fail(i, "non-positive duration %d", s.Duration)
		}
		if s.OriginalFrame < 0 {
			fail(i, "negative original_frame %d", s.OriginalFrame)
		}
		if s.IsOriginal() {
			if s.OriginalFrame != s.InKeyframe {
				fail(i, "original_frame %d != in_keyframe %d", s.OriginalFrame, s.InKeyframe)
			}
			if s.OriginalFrame+s.Duration != s.OutKeyframe {
				fail(i, "original_frame+duration %d != out_keyframe %d", s.OriginalFrame+s.Duration, s.OutKeyframe)
			}
		}
		if i > 0 && s.IsTarget() && segs[i-1].IsTarget() {
			fail(i, "abuts a preceding target segment")
		}
	}

	if total := segment.SumDurations(segs); total != targetLength {
		if firstBad < 0 {
			firstBad = len(segs)
		}
		errs = multierror.Append(errs, fmt.Errorf("sum of durations %d != target timeline length %d", total, targetLength))
	}

	if errs.ErrorOrNil() != nil {
		return &splerr.PlanInconsistent{SegmentIndex: firstBad, Violation: errs.Error()}
	}
	return nil
}
