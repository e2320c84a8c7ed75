// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package planner implements the Snap & Glue Planner (spec §4.4): passes
// A through F that mutate a raw diff-engine segment list until every
// OriginalSegment begins and ends on a baseline keyframe.
package planner

import (
	"context"

	"github.com/mrjoshuak/spliceplan/internal/keyframe"
	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/segment"
)

// AttachKeyframes is Pass A: for every OriginalSegment, record its
// enclosing keyframe pair. A run reaching the final frame of the baseline
// is given an out_keyframe equal to its own end with a zero DTS delta,
// since there is no packet beyond it to query.
func AttachKeyframes(ctx context.Context, segs []segment.Segment, oracle *keyframe.Oracle, baselineLength int64) ([]segment.Segment, error) {
	var positions []int64
	seen := make(map[int64]bool)
	add := func(f int64) {
		if !seen[f] {
			seen[f] = true
			positions = append(positions, f)
		}
	}
	for _, s := range segs {
		if !s.IsOriginal() {
			continue
		}
		add(s.OriginalFrame)
		end := s.OriginalFrame + s.Duration
		if end != baselineLength {
			add(end)
		}
	}

	answers, err := oracle.Resolve(ctx, positions)
	if err != nil {
		return nil, err
	}

	out := make([]segment.Segment, len(segs))
	for i, s := range segs {
		if !s.IsOriginal() {
			out[i] = s
			continue
		}
		end := s.OriginalFrame + s.Duration
		s.InKeyframe = answers[s.OriginalFrame].Next.Keyframe

		if end == baselineLength {
			s.OutKeyframe = end
			s.OutKFDTSDelta = opentime.NewRationalFromInt(0)
		} else {
			a := answers[end].Prev
			s.OutKeyframe = a.Keyframe
			s.OutKFDTSDelta = a.DTSDelta
		}
		out[i] = s
	}
	return out, nil
}
